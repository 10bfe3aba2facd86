package cache

import "context"

// FeedCache stores rendered feed pages. Invalidate drops every cached page at
// once; it is the signal that posts, likes, comments or follows changed.
type FeedCache interface {
	// Get decodes the cached value for key into dst and reports whether it was present.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

// Noop is a FeedCache that never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error         { return nil }
func (Noop) Invalidate(context.Context) error               { return nil }

var _ FeedCache = Noop{}
