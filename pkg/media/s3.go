package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/anonto42/pigstar/backend/internal/apperrors"
)

const serviceName = "media CDN"

// S3Config configures an S3-compatible bucket used as the media origin.
type S3Config struct {
	Bucket        string
	Prefix        string
	PublicBaseURL string
	Region        string
	// Endpoint overrides the S3 endpoint, for MinIO and similar.
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type S3Store struct {
	client     *s3.Client
	bucket     string
	prefix     string
	publicBase string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media: MEDIA_BUCKET is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRequestChecksumCalculation(aws.RequestChecksumCalculationWhenRequired),
	}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("media: load AWS config: %w", err)
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{
		client:     client,
		bucket:     cfg.Bucket,
		prefix:     strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
		publicBase: cfg.PublicBaseURL,
	}, nil
}

func (s *S3Store) objectKey(filename string) string {
	key := uuid.NewString() + strings.ToLower(path.Ext(filename))
	if s.prefix != "" {
		return s.prefix + "/" + key
	}
	return key
}

func (s *S3Store) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	key := s.objectKey(filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   &contentType,
	})
	if err != nil {
		return "", &apperrors.DependencyError{Service: serviceName, Err: fmt.Errorf("put object: %w", err)}
	}
	return DeliveryURL(s.publicBase, key), nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return &apperrors.DependencyError{Service: serviceName, Err: fmt.Errorf("delete object %s: %w", key, err)}
	}
	return nil
}

func (s *S3Store) KeyFromURL(deliveryURL string) (string, bool) {
	key, ok := KeyFromDeliveryURL(s.publicBase, deliveryURL)
	if !ok || (s.prefix != "" && !strings.HasPrefix(key, s.prefix+"/")) {
		return "", false
	}
	return key, true
}

var _ Store = (*S3Store)(nil)
