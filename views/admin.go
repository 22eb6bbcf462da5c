package views

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/bookpress/content"
	"github.com/eringen/bookpress/posttype"
)

func csrfField(h *html, token string) {
	h.raw(`<input type="hidden" name="_csrf" value="`, esc(token), `"/>`)
}

func flash(h *html, msg string) {
	if msg != "" {
		h.raw(`<div class="notice">`).text(msg).raw(`</div>`)
	}
}

// AdminLogin renders the password form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{}
		h.raw(`<section class="login"><h1>Admin</h1>`)
		if showError {
			h.raw(`<p class="error">Wrong password.</p>`)
		}
		h.raw(`<form method="post" action="/admin/login/">`)
		csrfField(h, csrfToken)
		h.raw(`<label for="password">Password</label><input type="password" id="password" name="password" autofocus/>`)
		h.raw(`<button type="submit">Log in</button></form></section>`)
		return h.flush(w)
	})
}

// AdminDashboard lists every content type with its items.
func AdminDashboard(types []posttype.Type, items map[string][]PostItem, msg, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{}
		h.raw(`<section class="dashboard"><h1>Dashboard</h1>`)
		flash(h, msg)
		for _, t := range types {
			h.raw(`<div class="type-panel">`)
			adminTypeList(h, t, items[t.Name], csrfToken)
			h.raw(`</div>`)
		}
		h.raw(`<form method="post" action="/admin/logout/">`)
		csrfField(h, csrfToken)
		h.raw(`<button type="submit">Log out</button></form></section>`)
		return h.flush(w)
	})
}

// AdminTypeList lists the items of one content type.
func AdminTypeList(t posttype.Type, items []PostItem, msg, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{}
		h.raw(`<section class="type-list">`)
		flash(h, msg)
		adminTypeList(h, t, items, csrfToken)
		h.raw(`</section>`)
		return h.flush(w)
	})
}

func adminTypeList(h *html, t posttype.Type, items []PostItem, csrfToken string) {
	h.raw(`<h2 class="dashicons-before `, esc(t.MenuIcon), `">`).text(t.Labels.Name).raw(`</h2>`)
	h.raw(`<a class="button" href="/admin/`, esc(t.Name), `/new/">`).text(t.Labels.AddNew).raw(`</a>`)
	if len(items) == 0 {
		h.raw(`<p class="empty">None yet.</p>`)
		return
	}
	h.raw(`<table class="items"><thead><tr><th>Title</th><th>Status</th><th>Date</th><th></th></tr></thead><tbody>`)
	for _, it := range items {
		id := strconv.FormatInt(it.Post.ID, 10)
		h.raw(`<tr><td><a href="/admin/`, esc(t.Name), `/`, id, `/">`).text(displayTitle(it.Post)).raw(`</a></td>`)
		h.raw(`<td>`).text(it.Post.Status).raw(`</td><td>`).text(it.Post.Date).raw(`</td><td>`)
		if it.Post.Published() {
			h.raw(`<a href="`, esc(it.Link), `">View</a> `)
		}
		h.raw(`<form method="post" action="/admin/`, esc(t.Name), `/`, id, `/delete/" class="inline">`)
		csrfField(h, csrfToken)
		h.raw(`<button type="submit">Delete</button></form></td></tr>`)
	}
	h.raw(`</tbody></table>`)
}

func displayTitle(p content.Post) string {
	if p.Title == "" {
		return "(no title)"
	}
	return p.Title
}

// EditScreen is everything the admin edit form needs.
type EditScreen struct {
	Type   posttype.Type
	Post   content.Post
	Images []content.Image
	Boxes  []MetaBoxView
	CSRF   string
	Msg    string
}

// AdminEdit renders the edit form of one post with its meta boxes.
func AdminEdit(s EditScreen) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{}
		t, p := s.Type, s.Post
		heading := "Edit " + t.Labels.SingularName
		if p.ID == 0 {
			heading = t.Labels.AddNew
		}
		h.raw(`<section class="edit"><h1>`).text(heading).raw(`</h1>`)
		flash(h, s.Msg)
		h.raw(`<form method="post" id="post" action="/admin/`, esc(t.Name), `/save/">`)
		csrfField(h, s.CSRF)
		h.rawf(`<input type="hidden" name="id" value="%d"/>`, p.ID)

		if t.SupportsFeature(posttype.SupportTitle) {
			h.raw(`<div class="field"><label for="title">Title</label><input type="text" id="title" name="title" value="`, esc(p.Title), `"/></div>`)
		}
		h.raw(`<div class="field"><label for="slug">Slug</label><input type="text" id="slug" name="slug" value="`, esc(p.Slug), `"/></div>`)
		if t.SupportsFeature(posttype.SupportEditor) {
			h.raw(`<div class="field"><label for="content">Content</label><textarea id="content" name="content" rows="12">`).text(p.Content).raw(`</textarea></div>`)
		}
		if t.SupportsFeature(posttype.SupportExcerpt) {
			h.raw(`<div class="field"><label for="excerpt">Excerpt</label><textarea id="excerpt" name="excerpt" rows="3">`).text(p.Excerpt).raw(`</textarea></div>`)
		}
		if t.SupportsFeature(posttype.SupportThumbnail) {
			h.raw(`<div class="field"><label for="thumbnail">Featured image</label><select id="thumbnail" name="thumbnail"><option value="">None</option>`)
			for _, img := range s.Images {
				selected := ""
				if img.Filename == p.Thumbnail {
					selected = ` selected`
				}
				h.raw(`<option value="`, esc(img.Filename), `"`, selected, `>`).text(img.OriginalName).raw(`</option>`)
			}
			h.raw(`</select></div>`)
		}
		h.raw(`<div class="field"><label for="date">Date</label><input type="date" id="date" name="date" value="`, esc(p.Date), `"/></div>`)
		h.raw(`<div class="field"><label for="status">Status</label><select id="status" name="status">`)
		for _, st := range []string{content.StatusDraft, content.StatusPublish} {
			selected := ""
			if st == p.Status {
				selected = ` selected`
			}
			h.raw(`<option value="`, st, `"`, selected, `>`, st, `</option>`)
		}
		h.raw(`</select></div>`)

		for _, b := range s.Boxes {
			h.raw(`<div class="postbox" id="`, esc(b.ID), `"><h2 class="hndle">`).text(b.Title).raw(`</h2><div class="inside">`)
			if err := h.component(ctx, b.Body); err != nil {
				return fmt.Errorf("meta box %s: %w", b.ID, err)
			}
			h.raw(`</div></div>`)
		}

		h.raw(`<button type="submit">Save</button></form>`)
		if p.ID != 0 {
			autosaveScript(h, t.Name)
		}
		h.raw(`</section>`)
		return h.flush(w)
	})
}

// autosaveScript posts the form to the autosave endpoint once a minute.
func autosaveScript(h *html, postType string) {
	h.raw(`<script>setInterval(function(){var f=document.getElementById("post");`)
	h.raw(`fetch("/admin/`, esc(postType), `/autosave/",{method:"POST",body:new FormData(f)});},60000);</script>`)
}

// AdminImages lists uploaded images with an upload form.
func AdminImages(images []content.Image, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{}
		h.raw(`<section class="images"><h1>Images</h1>`)
		h.raw(`<form method="post" action="/admin/images/upload/" enctype="multipart/form-data">`)
		csrfField(h, csrfToken)
		h.raw(`<input type="file" name="image" accept="image/*"/><button type="submit">Upload</button></form>`)
		h.raw(`<ul class="image-grid">`)
		for _, img := range images {
			h.raw(`<li><img src="/public/uploads/`, esc(img.Filename), `" alt="`, esc(img.OriginalName), `" loading="lazy"/>`)
			h.rawf(`<span>%dx%d</span>`, img.Width, img.Height)
			h.raw(`<form method="post" action="/admin/images/`, esc(img.Filename), `/delete/">`)
			csrfField(h, csrfToken)
			h.raw(`<button type="submit">Delete</button></form></li>`)
		}
		h.raw(`</ul></section>`)
		return h.flush(w)
	})
}
