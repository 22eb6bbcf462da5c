package book_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/bookpress"
	"github.com/eringen/bookpress/book"
	"github.com/eringen/bookpress/content"
	"github.com/eringen/bookpress/posttype"
)

type memMeta map[int64]map[string]string

func (m memMeta) GetPostMeta(_ context.Context, id int64, key string) (string, error) {
	return m[id][key], nil
}

func (m memMeta) UpdatePostMeta(_ context.Context, id int64, key, value string) error {
	if m[id] == nil {
		m[id] = map[string]string{}
	}
	m[id][key] = value
	return nil
}

type fakeThumbs string

func (f fakeThumbs) PostThumbnail(context.Context, content.Post, string) string {
	return string(f)
}

func fullMeta() map[string]string {
	return map[string]string{
		book.FieldBookName:      "Dune",
		book.FieldAuthorName:    "Frank Herbert",
		book.FieldDescription:   "Desert planet.",
		book.FieldBookLink:      "https://example.com/dune",
		book.FieldPublishedDate: "1965-08-01",
	}
}

func TestRegisterTypeTwiceKeepsOneEntry(t *testing.T) {
	reg := posttype.New()
	r := registrar{reg}
	require.NoError(t, book.RegisterType(r))
	require.NoError(t, book.RegisterType(r))

	var books int
	for _, tp := range reg.List() {
		if tp.Name == book.PostType {
			books++
		}
	}
	assert.Equal(t, 1, books)
	assert.Equal(t, 2, reg.Flushes())

	m, ok := reg.Match("/books/dune/")
	require.True(t, ok)
	assert.Equal(t, posttype.RuleSingle, m.Kind)
	assert.Equal(t, "dune", m.Slug)

	m, ok = reg.Match("/books/")
	require.True(t, ok)
	assert.Equal(t, posttype.RuleArchive, m.Kind)
}

type registrar struct{ *posttype.Registry }

func (r registrar) RegisterPostType(t posttype.Type) error { return r.Register(t) }

func TestTypeDefinition(t *testing.T) {
	tp := book.Type()
	assert.True(t, tp.Public)
	assert.True(t, tp.ShowInREST)
	assert.Equal(t, "post", tp.CapabilityType)
	assert.Equal(t, "books", tp.HasArchive)
	assert.Equal(t, "dashicons-book", tp.MenuIcon)
	assert.Equal(t, "books", tp.RewriteSlug)
	assert.Equal(t, "Add New Book", tp.Labels.AddNew)
	for _, f := range []string{posttype.SupportEditor, posttype.SupportExcerpt, posttype.SupportTitle, posttype.SupportThumbnail} {
		assert.True(t, tp.SupportsFeature(f), f)
	}
}

func TestSaveMetaSkipsAutosave(t *testing.T) {
	meta := memMeta{7: fullMeta()}
	p := book.New(meta, fakeThumbs(""))

	form := url.Values{
		book.FieldBookName:   {"Changed"},
		book.FieldAuthorName: {"Someone Else"},
		book.FieldBookLink:   {"https://other.example"},
	}
	err := p.SaveMeta(context.Background(), bookpress.SaveEvent{Post: content.Post{ID: 7}, Form: form, Autosave: true})
	require.NoError(t, err)
	assert.Equal(t, fullMeta(), meta[7])
}

func TestSaveMetaOverwritesOnlySubmittedFields(t *testing.T) {
	meta := memMeta{7: fullMeta()}
	p := book.New(meta, fakeThumbs(""))

	form := url.Values{
		book.FieldAuthorName:  {"  Brian   Herbert "},
		book.FieldDescription: {"Line one\nLine <i>two</i>"},
	}
	err := p.SaveMeta(context.Background(), bookpress.SaveEvent{Post: content.Post{ID: 7}, Form: form})
	require.NoError(t, err)

	want := fullMeta()
	want[book.FieldAuthorName] = "Brian Herbert"
	want[book.FieldDescription] = "Line one\nLine two"
	assert.Equal(t, want, meta[7])
}

func TestSaveMetaEmptyFieldOverwrites(t *testing.T) {
	meta := memMeta{7: fullMeta()}
	p := book.New(meta, fakeThumbs(""))

	err := p.SaveMeta(context.Background(), bookpress.SaveEvent{
		Post: content.Post{ID: 7},
		Form: url.Values{book.FieldBookName: {""}},
	})
	require.NoError(t, err)
	assert.Equal(t, "", meta[7][book.FieldBookName])
	assert.Equal(t, "Frank Herbert", meta[7][book.FieldAuthorName])
}

func TestSaveMetaNeutralizesScriptLink(t *testing.T) {
	for _, link := range []string{
		"javascript:alert(1)",
		"&#106;avascript:alert(1)",
		"jav&#x61;script:alert(1)",
	} {
		meta := memMeta{}
		p := book.New(meta, fakeThumbs(""))

		err := p.SaveMeta(context.Background(), bookpress.SaveEvent{
			Post: content.Post{ID: 3},
			Form: url.Values{book.FieldBookLink: {link}},
		})
		require.NoError(t, err)
		assert.Equal(t, "", meta[3][book.FieldBookLink], link)

		out := p.Details(context.Background(), "", bookpress.ContentEvent{
			Post:     content.Post{ID: 3, Type: book.PostType},
			Singular: true,
		})
		assert.Contains(t, out, `<a href="">Buy Online</a>`, link)
	}
}

func TestDetailsOnlyOnSingularBook(t *testing.T) {
	meta := memMeta{1: fullMeta()}
	p := book.New(meta, fakeThumbs(""))
	ctx := context.Background()

	post := content.Post{ID: 1, Type: "post"}
	assert.Equal(t, "<p>x</p>", p.Details(ctx, "<p>x</p>", bookpress.ContentEvent{Post: post, Singular: true}))

	post.Type = book.PostType
	assert.Equal(t, "<p>x</p>", p.Details(ctx, "<p>x</p>", bookpress.ContentEvent{Post: post, Singular: false}))
}

func TestDetailsBlockOrder(t *testing.T) {
	meta := memMeta{1: fullMeta()}
	p := book.New(meta, fakeThumbs(`<img src="/public/uploads/dune.jpg"/>`))

	out := p.Details(context.Background(), "<p>Body</p>", bookpress.ContentEvent{
		Post:     content.Post{ID: 1, Type: book.PostType},
		Singular: true,
	})

	want := `<p>Body</p><div class="book-details">` +
		`<div class="book-cover"><img src="/public/uploads/dune.jpg"/></div>` +
		`<div class="book-info">` +
		`<h2>Dune</h2>` +
		`<p><strong>Author:</strong> Frank Herbert</p>` +
		`<p><strong>Description:</strong> Desert planet.</p>` +
		`<p><strong>Published Date:</strong> 1965-08-01</p>` +
		`<p><a href="https://example.com/dune">Buy Online</a></p>` +
		`</div></div>`
	assert.Equal(t, want, out)
	assert.Equal(t, 1, strings.Count(out, `class="book-details"`))
}

func TestDetailsEscapesStoredValues(t *testing.T) {
	meta := memMeta{1: {
		book.FieldBookName: "<b>Title</b>",
		book.FieldBookLink: "https://example.com/?a=1&b=2",
	}}
	p := book.New(meta, fakeThumbs(""))

	out := p.Details(context.Background(), "", bookpress.ContentEvent{
		Post:     content.Post{ID: 1, Type: book.PostType},
		Singular: true,
	})
	assert.Contains(t, out, `<h2>&lt;b&gt;Title&lt;/b&gt;</h2>`)
	assert.NotContains(t, out, `<b>Title</b>`)
	assert.Contains(t, out, `href="https://example.com/?a=1&#038;b=2"`)
}

func TestMetaBoxPrefillsEscapedValues(t *testing.T) {
	meta := memMeta{4: {
		book.FieldBookName:    `Say "hi"`,
		book.FieldDescription: "a < b",
		book.FieldBookLink:    "https://example.com/x",
	}}
	p := book.New(meta, fakeThumbs(""))

	var sb strings.Builder
	require.NoError(t, p.MetaBox(context.Background(), content.Post{ID: 4}).Render(context.Background(), &sb))
	out := sb.String()

	assert.Contains(t, out, `<label for="book_name">Book Name:</label>`)
	assert.Contains(t, out, `value="Say &quot;hi&quot;"`)
	assert.Contains(t, out, `<textarea id="description" name="description" rows="4">a &lt; b</textarea>`)
	assert.Contains(t, out, `<input type="url" id="book_link" name="book_link" value="https://example.com/x" />`)
	assert.Contains(t, out, `<input type="date" id="published_date" name="published_date" value="" />`)
	assert.Equal(t, 5, strings.Count(out, `class="meta-box-field"`))
}

func newTestApp(t *testing.T) *bookpress.App {
	t.Helper()
	dir := t.TempDir()
	a := bookpress.New(bookpress.SiteConfig{
		DatabasePath:  filepath.Join(dir, "test.db"),
		StaticDir:     dir,
		AdminPassword: "secret",
		SessionSecret: "test-session-secret",
		LogLevel:      "off",
	}, bookpress.WithPlugin(book.New(nil, nil)))
	require.NoError(t, a.Init(context.Background()))
	t.Cleanup(func() { a.Close() })
	return a
}

func get(a *bookpress.App, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestSingleBookPage(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	_, ok := a.Types.Get(book.PostType)
	require.True(t, ok)

	post := content.Post{Type: book.PostType, Slug: "dune", Title: "Dune", Content: "A classic.", Status: content.StatusPublish, Date: "2024-01-02"}
	id, err := a.Store.SavePost(ctx, post)
	require.NoError(t, err)
	post.ID = id

	form := url.Values{}
	for k, v := range fullMeta() {
		form.Set(k, v)
	}
	require.NoError(t, a.Hooks.SavePost.Do(ctx, bookpress.SaveEvent{Post: post, Form: form}))
	require.NoError(t, a.UpdatePostMeta(ctx, id, book.FieldBookName, "<b>Title</b>"))

	rec := get(a, "/books/dune/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<link rel="stylesheet" id="book-post-type-style-css" href="/public/plugins/book/assets/css/book-style.css" media="all"/>`)
	assert.Contains(t, body, `<h2>&lt;b&gt;Title&lt;/b&gt;</h2>`)
	assert.Contains(t, body, `<p><strong>Author:</strong> Frank Herbert</p>`)
	assert.Less(t, strings.Index(body, "A classic."), strings.Index(body, `class="book-details"`))

	archive := get(a, "/books/")
	require.Equal(t, http.StatusOK, archive.Code)
	assert.Contains(t, archive.Body.String(), "Dune")
	assert.NotContains(t, archive.Body.String(), `class="book-details"`)

	css := get(a, "/public/plugins/book/assets/css/book-style.css")
	require.Equal(t, http.StatusOK, css.Code)
	assert.Contains(t, css.Body.String(), ".book-details")
}

func TestBookRESTOmitsDetails(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	id, err := a.Store.SavePost(ctx, content.Post{Type: book.PostType, Slug: "emma", Title: "Emma", Status: content.StatusPublish, Date: "2024-03-04"})
	require.NoError(t, err)
	require.NoError(t, a.UpdatePostMeta(ctx, id, book.FieldAuthorName, "Jane Austen"))

	rec := get(a, "/api/book/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"emma"`)
	assert.NotContains(t, rec.Body.String(), "book-details")
}
