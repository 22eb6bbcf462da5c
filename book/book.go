// Package book adds a "book" content type with five metadata fields: an
// admin meta box to edit them, sanitized saving, a details block on the
// single book page and a stylesheet for both surfaces.
package book

import (
	"context"
	"embed"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/bookpress"
	"github.com/eringen/bookpress/content"
	"github.com/eringen/bookpress/posttype"
	"github.com/eringen/bookpress/sanitize"
)

//go:embed assets
var assets embed.FS

// PostType is the name of the book content type.
const PostType = "book"

// Metadata keys.
const (
	FieldBookName      = "book_name"
	FieldAuthorName    = "author_name"
	FieldDescription   = "description"
	FieldBookLink      = "book_link"
	FieldPublishedDate = "published_date"
)

const (
	metaBoxID   = "book_details_meta_box"
	styleHandle = "book-post-type-style"
	assetsName  = "book"
)

// MetaStore reads and writes post metadata.
type MetaStore interface {
	GetPostMeta(ctx context.Context, postID int64, key string) (string, error)
	UpdatePostMeta(ctx context.Context, postID int64, key, value string) error
}

// Thumbnailer renders the featured image of a post.
type Thumbnailer interface {
	PostThumbnail(ctx context.Context, p content.Post, size string) string
}

// Registrar adds content types and rebuilds the URL rules.
type Registrar interface {
	RegisterPostType(t posttype.Type) error
	FlushRewriteRules()
}

// Plugin is the book plugin. Create it with New and pass it to
// bookpress.WithPlugin.
type Plugin struct {
	meta   MetaStore
	thumbs Thumbnailer
	dirURL string // base URL of the mounted assets, with trailing slash
}

// New returns a book plugin backed by the given stores. Register fills in
// missing ones from the App.
func New(meta MetaStore, thumbs Thumbnailer) *Plugin {
	return &Plugin{meta: meta, thumbs: thumbs}
}

// Register mounts the plugin assets and attaches its hook handlers.
func (p *Plugin) Register(a *bookpress.App) error {
	if p.meta == nil {
		p.meta = a
	}
	if p.thumbs == nil {
		p.thumbs = a
	}
	p.dirURL = a.MountAssets(assetsName, assets)

	a.Hooks.Init.Add(func(_ context.Context, a *bookpress.App) error {
		return RegisterType(a)
	})
	a.Hooks.AddMetaBoxes.Add(p.addMetaBoxes)
	a.Hooks.SavePost.Add(p.SaveMeta)
	a.Hooks.TheContent.Add(p.Details)
	a.Hooks.EnqueueScripts.Add(p.enqueueStyles)
	a.Hooks.AdminEnqueueScripts.Add(p.enqueueStyles)
	return nil
}

// Type is the book content type definition.
func Type() posttype.Type {
	return posttype.Type{
		Name:           PostType,
		Public:         true,
		ShowInREST:     true,
		CapabilityType: "post",
		HasArchive:     "books",
		MenuIcon:       "dashicons-book",
		Supports: []string{
			posttype.SupportEditor,
			posttype.SupportExcerpt,
			posttype.SupportTitle,
			posttype.SupportThumbnail,
		},
		RewriteSlug: "books",
		Labels: posttype.Labels{
			Name:         "Books",
			SingularName: "Book",
			AddNew:       "Add New Book",
		},
	}
}

// RegisterType registers the book type and flushes the rewrite rules. It is
// safe to call more than once; the type is replaced, not duplicated.
func RegisterType(r Registrar) error {
	if err := r.RegisterPostType(Type()); err != nil {
		return err
	}
	r.FlushRewriteRules()
	return nil
}

func (p *Plugin) addMetaBoxes(_ context.Context, ev *bookpress.MetaBoxEvent) error {
	ev.Add(bookpress.MetaBox{
		ID:       metaBoxID,
		Title:    "Book Details",
		Screen:   PostType,
		Context:  bookpress.ContextNormal,
		Priority: bookpress.PriorityHigh,
		Render:   p.MetaBox,
	})
	return nil
}

// values loads the five fields of a post. Read errors yield empty values.
func (p *Plugin) values(ctx context.Context, postID int64) map[string]string {
	vals := make(map[string]string, 5)
	for _, k := range []string{FieldBookName, FieldAuthorName, FieldDescription, FieldBookLink, FieldPublishedDate} {
		v, err := p.meta.GetPostMeta(ctx, postID, k)
		if err != nil {
			v = ""
		}
		vals[k] = v
	}
	return vals
}

// MetaBox renders the five labelled controls pre-filled from metadata.
func (p *Plugin) MetaBox(ctx context.Context, post content.Post) templ.Component {
	vals := p.values(ctx, post.ID)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		field := func(id, label, control string) {
			b.WriteString(`<div class="meta-box-field">`)
			b.WriteString(`<label for="` + id + `">` + label + `</label>`)
			b.WriteString(control)
			b.WriteString(`</div>`)
		}
		input := func(typ, id, value string) string {
			return `<input type="` + typ + `" id="` + id + `" name="` + id + `" value="` + value + `" />`
		}
		field(FieldBookName, "Book Name:", input("text", FieldBookName, sanitize.Attr(vals[FieldBookName])))
		field(FieldAuthorName, "Author Name:", input("text", FieldAuthorName, sanitize.Attr(vals[FieldAuthorName])))
		field(FieldDescription, "Description:",
			`<textarea id="description" name="description" rows="4">`+sanitize.Textarea(vals[FieldDescription])+`</textarea>`)
		field(FieldBookLink, "Book Online Shopping Link:", input("url", FieldBookLink, sanitize.URL(vals[FieldBookLink])))
		field(FieldPublishedDate, "Book Published Date:", input("date", FieldPublishedDate, sanitize.Attr(vals[FieldPublishedDate])))
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// saveRules pairs each field with the sanitizer applied before storage.
var saveRules = []struct {
	key      string
	sanitize func(string) string
}{
	{FieldBookName, sanitize.TextField},
	{FieldAuthorName, sanitize.TextField},
	{FieldDescription, sanitize.TextareaField},
	{FieldBookLink, sanitize.URLRaw},
	{FieldPublishedDate, sanitize.TextField},
}

// SaveMeta stores every submitted field, sanitized. Autosaves are ignored
// and absent fields keep their previous value.
func (p *Plugin) SaveMeta(ctx context.Context, ev bookpress.SaveEvent) error {
	if ev.Autosave {
		return nil
	}
	for _, r := range saveRules {
		vals, ok := ev.Form[r.key]
		if !ok || len(vals) == 0 {
			continue
		}
		if err := p.meta.UpdatePostMeta(ctx, ev.Post.ID, r.key, r.sanitize(vals[0])); err != nil {
			return err
		}
	}
	return nil
}

// Details appends the book details block to the body of a single book page.
// Other pages pass through unchanged.
func (p *Plugin) Details(ctx context.Context, body string, ev bookpress.ContentEvent) string {
	if !ev.Singular || ev.Post.Type != PostType {
		return body
	}
	vals := p.values(ctx, ev.Post.ID)
	cover := p.thumbs.PostThumbnail(ctx, ev.Post, "large")

	var b strings.Builder
	b.WriteString(body)
	b.WriteString(`<div class="book-details">`)
	b.WriteString(`<div class="book-cover">` + cover + `</div>`)
	b.WriteString(`<div class="book-info">`)
	b.WriteString(`<h2>` + sanitize.HTML(vals[FieldBookName]) + `</h2>`)
	b.WriteString(`<p><strong>Author:</strong> ` + sanitize.HTML(vals[FieldAuthorName]) + `</p>`)
	b.WriteString(`<p><strong>Description:</strong> ` + sanitize.HTML(vals[FieldDescription]) + `</p>`)
	b.WriteString(`<p><strong>Published Date:</strong> ` + sanitize.HTML(vals[FieldPublishedDate]) + `</p>`)
	b.WriteString(`<p><a href="` + sanitize.URL(vals[FieldBookLink]) + `">Buy Online</a></p>`)
	b.WriteString(`</div>`)
	b.WriteString(`</div>`)
	return b.String()
}

func (p *Plugin) enqueueStyles(_ context.Context, q *bookpress.StyleQueue) error {
	q.Enqueue(styleHandle, p.dirURL+"assets/css/book-style.css")
	return nil
}
