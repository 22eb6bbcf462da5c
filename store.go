package bookpress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/bookpress/content"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = content.ErrNotFound

// Store wraps a SQLite database holding posts, their metadata and images.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// foreign_keys and busy_timeout are per connection, so they go in the DSN
	// and apply to every pooled connection. Metadata rows rely on the cascade.
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    excerpt TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'draft',
    date TEXT NOT NULL,
    thumbnail TEXT NOT NULL DEFAULT '',
    modified TEXT NOT NULL,
    UNIQUE (type, slug)
);
CREATE INDEX IF NOT EXISTS idx_posts_type_status ON posts(type, status, date);

CREATE TABLE IF NOT EXISTS postmeta (
    post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    meta_key TEXT NOT NULL,
    meta_value TEXT NOT NULL,
    PRIMARY KEY (post_id, meta_key)
);

CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

const postColumns = `id, type, slug, title, content, excerpt, status, date, thumbnail, modified`

func scanPost(row interface{ Scan(...any) error }) (content.Post, error) {
	var p content.Post
	err := row.Scan(&p.ID, &p.Type, &p.Slug, &p.Title, &p.Content, &p.Excerpt, &p.Status, &p.Date, &p.Thumbnail, &p.Modified)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Post{}, ErrNotFound
	}
	return p, err
}

// SavePost inserts p when p.ID is zero and updates it otherwise. It returns
// the post ID.
func (s *Store) SavePost(ctx context.Context, p content.Post) (int64, error) {
	if p.Status == "" {
		p.Status = content.StatusDraft
	}
	modified := time.Now().UTC().Format(time.RFC3339)
	if p.ID == 0 {
		res, err := s.db.ExecContext(ctx, `INSERT INTO posts (type, slug, title, content, excerpt, status, date, thumbnail, modified) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Type, p.Slug, p.Title, p.Content, p.Excerpt, p.Status, p.Date, p.Thumbnail, modified)
		if err != nil {
			return 0, fmt.Errorf("insert post: %w", err)
		}
		return res.LastInsertId()
	}
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET type = ?, slug = ?, title = ?, content = ?, excerpt = ?, status = ?, date = ?, thumbnail = ?, modified = ? WHERE id = ?`,
		p.Type, p.Slug, p.Title, p.Content, p.Excerpt, p.Status, p.Date, p.Thumbnail, modified, p.ID)
	if err != nil {
		return 0, fmt.Errorf("update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrNotFound
	}
	return p.ID, nil
}

// GetPost returns a post by ID regardless of status.
func (s *Store) GetPost(ctx context.Context, id int64) (content.Post, error) {
	return scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
}

// GetPostBySlug returns a post of the given type by slug. With publishedOnly
// set, drafts are reported as ErrNotFound.
func (s *Store) GetPostBySlug(ctx context.Context, postType, slug string, publishedOnly bool) (content.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE type = ? AND slug = ?`
	if publishedOnly {
		q += ` AND status = 'publish'`
	}
	return scanPost(s.db.QueryRowContext(ctx, q, postType, slug))
}

// SlugTaken reports whether another post of postType already uses slug.
func (s *Store) SlugTaken(ctx context.Context, postType, slug string, exceptID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE type = ? AND slug = ? AND id != ?`, postType, slug, exceptID).Scan(&n)
	return n > 0, err
}

// ListPosts returns posts ordered by date descending. An empty postType lists
// every type.
func (s *Store) ListPosts(ctx context.Context, postType string, publishedOnly bool) ([]content.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE 1 = 1`
	var args []any
	if postType != "" {
		q += ` AND type = ?`
		args = append(args, postType)
	}
	if publishedOnly {
		q += ` AND status = 'publish'`
	}
	q += ` ORDER BY date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []content.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// DeletePost removes a post; its metadata goes with it.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

// GetMeta returns one metadata value. A missing key yields "" and no error.
func (s *Store) GetMeta(ctx context.Context, postID int64, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT meta_value FROM postmeta WHERE post_id = ? AND meta_key = ?`, postID, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

// UpdateMeta writes a metadata value, replacing any previous one.
func (s *Store) UpdateMeta(ctx context.Context, postID int64, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO postmeta (post_id, meta_key, meta_value) VALUES (?, ?, ?)
ON CONFLICT (post_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value`, postID, key, value)
	if err != nil {
		return fmt.Errorf("update meta %s: %w", key, err)
	}
	return nil
}

// DeleteMeta removes one metadata key.
func (s *Store) DeleteMeta(ctx context.Context, postID int64, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM postmeta WHERE post_id = ? AND meta_key = ?`, postID, key)
	return err
}

// ListMeta returns every metadata pair of a post.
func (s *Store) ListMeta(ctx context.Context, postID int64) (content.Meta, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT meta_key, meta_value FROM postmeta WHERE post_id = ?`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := content.Meta{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

// SaveImage stores image metadata.
func (s *Store) SaveImage(ctx context.Context, img content.Image) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// GetImage returns one image by filename.
func (s *Store) GetImage(ctx context.Context, filename string) (content.Image, error) {
	var img content.Image
	err := s.db.QueryRowContext(ctx, `SELECT filename, original_name, width, height, size, uploaded_at FROM images WHERE filename = ?`, filename).
		Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Image{}, ErrNotFound
	}
	return img, err
}

// ListImages returns all images, newest first.
func (s *Store) ListImages(ctx context.Context) ([]content.Image, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []content.Image
	for rows.Next() {
		var img content.Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes image metadata and clears it from posts using it.
func (s *Store) DeleteImage(ctx context.Context, filename string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE posts SET thumbnail = '' WHERE thumbnail = ?`, filename); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE filename = ?`, filename)
	return err
}
