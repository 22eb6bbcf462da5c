// Package content holds the entities shared by the host, its views and plugins.
package content

import "errors"

// ErrNotFound is returned when a requested post, meta row or image does not exist.
var ErrNotFound = errors.New("not found")

// Post statuses.
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
)

// Post is a stored content item of any registered type.
type Post struct {
	ID        int64
	Type      string
	Slug      string
	Title     string
	Content   string
	Excerpt   string
	Status    string
	Date      string // YYYY-MM-DD
	Thumbnail string // featured image filename, "" for none
	Modified  string // RFC3339
}

// Published reports whether the post is publicly visible.
func (p Post) Published() bool {
	return p.Status == StatusPublish
}

// Image is an uploaded picture that can be used as a featured image.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// Meta is the key/value metadata attached to one post.
type Meta map[string]string

// Get returns the value of key or "".
func (m Meta) Get(key string) string {
	return m[key]
}
