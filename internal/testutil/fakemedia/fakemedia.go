package fakemedia

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/anonto42/pigstar/backend/internal/apperrors"
	"github.com/anonto42/pigstar/backend/pkg/media"
)

const PublicBase = "https://cdn.test/pigstar"

// Store keeps uploads in memory and records deletions.
type Store struct {
	mu        sync.Mutex
	objects   map[string][]byte
	Deleted   []string
	FailWrite bool
}

func New() *Store {
	return &Store{objects: map[string][]byte{}}
}

func (s *Store) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	if s.FailWrite {
		return "", &apperrors.DependencyError{Service: "media CDN", Err: errors.New("upload refused")}
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := "posts/" + filename
	s.objects[key] = data
	return media.DeliveryURL(PublicBase, key), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, key)
	if s.FailWrite {
		return &apperrors.DependencyError{Service: "media CDN", Err: errors.New("delete refused")}
	}
	delete(s.objects, key)
	return nil
}

func (s *Store) KeyFromURL(deliveryURL string) (string, bool) {
	return media.KeyFromDeliveryURL(PublicBase, deliveryURL)
}

func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

var _ media.Store = (*Store)(nil)
