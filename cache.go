package bookpress

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/bookpress/content"
)

// PostCache is an in-memory cache of published posts of every type with TTL.
type PostCache struct {
	mu      sync.RWMutex
	posts   []content.Post
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached posts after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]content.Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListPosts(ctx, "", true)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []content.Post{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return c.posts, nil
}

// ListPosts returns published posts of postType, or of every type when
// postType is empty.
func (c *PostCache) ListPosts(ctx context.Context, postType string) ([]content.Post, error) {
	posts, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if postType == "" {
		return posts, nil
	}
	var filtered []content.Post
	for _, p := range posts {
		if p.Type == postType {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// GetPost returns a single published post by type and slug from the cache.
func (c *PostCache) GetPost(ctx context.Context, postType, slug string) (content.Post, error) {
	posts, err := c.ensureLoaded(ctx)
	if err != nil {
		return content.Post{}, err
	}
	for _, p := range posts {
		if p.Type == postType && p.Slug == slug {
			return p, nil
		}
	}
	return content.Post{}, ErrNotFound
}
