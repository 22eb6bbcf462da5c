package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/bookpress/posttype"
)

// Home lists the latest posts.
func Home(site Site, posts []PostItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{}
		h.raw(`<section class="home"><h1>`).text(site.Name).raw(`</h1>`)
		if site.Description != "" {
			h.raw(`<p class="tagline">`).text(site.Description).raw(`</p>`)
		}
		postList(h, posts)
		h.raw(`</section>`)
		return h.flush(w)
	})
}

// Archive lists the published items of one content type.
func Archive(t posttype.Type, posts []PostItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{}
		h.raw(`<section class="archive archive-`, esc(t.Name), `"><h1>`).text(t.Labels.Name).raw(`</h1>`)
		postList(h, posts)
		h.raw(`</section>`)
		return h.flush(w)
	})
}

func postList(h *html, posts []PostItem) {
	if len(posts) == 0 {
		h.raw(`<p class="empty">Nothing published yet.</p>`)
		return
	}
	h.raw(`<ul class="post-list">`)
	for _, it := range posts {
		h.raw(`<li class="type-`, esc(it.Post.Type), `">`)
		if it.Thumbnail != "" {
			h.raw(`<a class="post-thumbnail" href="`, esc(it.Link), `">`, it.Thumbnail, `</a>`)
		}
		h.raw(`<a class="post-title" href="`, esc(it.Link), `">`).text(it.Post.Title).raw(`</a>`)
		h.raw(`<time datetime="`, esc(it.Post.Date), `">`).text(it.Post.Date).raw(`</time>`)
		if it.Post.Excerpt != "" {
			h.raw(`<p class="excerpt">`).text(it.Post.Excerpt).raw(`</p>`)
		}
		h.raw(`</li>`)
	}
	h.raw(`</ul>`)
}

// Single renders one post. body is the filtered content markup.
func Single(it PostItem, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{}
		h.raw(`<article class="single type-`, esc(it.Post.Type), `">`)
		h.raw(`<h1 class="entry-title">`).text(it.Post.Title).raw(`</h1>`)
		h.raw(`<p class="entry-meta">`).text(it.TypeLabel).raw(` &middot; <time datetime="`, esc(it.Post.Date), `">`).text(it.Post.Date).raw(`</time></p>`)
		h.raw(`<div class="entry-content">`, body, `</div>`)
		h.raw(`</article>`)
		return h.flush(w)
	})
}
