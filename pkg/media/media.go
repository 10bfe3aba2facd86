package media

import (
	"context"
	"io"
	"strings"
)

const uploadSegment = "/upload/"

// Delivery transforms inserted by OptimizedURL and BlurredURL.
const (
	optimizedTransform = "f_auto,q_auto"
	blurredTransform   = "e_blur:1000,q_1"
)

// Store is the remote media CDN.
type Store interface {
	// Upload stores body and returns its public delivery URL.
	Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error)
	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
	// KeyFromURL returns the key of an object this store delivered, and
	// false for URLs it does not serve.
	KeyFromURL(deliveryURL string) (string, bool)
}

// KeyFromDeliveryURL trims publicBase and the upload segment from deliveryURL.
// A leading optimized or blurred transform is dropped.
func KeyFromDeliveryURL(publicBase, deliveryURL string) (string, bool) {
	key, ok := strings.CutPrefix(deliveryURL, strings.TrimRight(publicBase, "/")+uploadSegment)
	if !ok {
		return "", false
	}
	for _, t := range []string{optimizedTransform, blurredTransform} {
		if rest, cut := strings.CutPrefix(key, t+"/"); cut {
			key = rest
			break
		}
	}
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" || strings.HasSuffix(key, "/") {
		return "", false
	}
	return key, true
}

// OptimizedURL returns the auto-format, auto-quality rendition of imageURL.
func OptimizedURL(imageURL string) string {
	return withTransform(imageURL, optimizedTransform)
}

// BlurredURL returns a heavily blurred, low-quality placeholder of imageURL.
func BlurredURL(imageURL string) string {
	return withTransform(imageURL, blurredTransform)
}

func withTransform(imageURL, transform string) string {
	if !strings.Contains(imageURL, uploadSegment) {
		return imageURL
	}
	return strings.Replace(imageURL, uploadSegment, uploadSegment+transform+"/", 1)
}

// DeliveryURL joins the public base and a storage key.
func DeliveryURL(publicBase, key string) string {
	return strings.TrimRight(publicBase, "/") + uploadSegment + key
}
