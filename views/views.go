// Package views renders bookpress pages as templ components.
package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/bookpress/content"
	"github.com/eringen/bookpress/posttype"
)

// Stylesheet is one enqueued stylesheet.
type Stylesheet struct {
	Handle string
	Href   string
}

// Site carries site-wide settings into templates.
type Site struct {
	Name        string
	URL         string
	Description string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Page is the frame around every rendered page.
type Page struct {
	Site   Site
	Meta   PageMeta
	Styles []Stylesheet
	Admin  bool
	Types  []posttype.Type // admin menu entries
}

// PostItem is a post with its resolved public link.
type PostItem struct {
	Post      content.Post
	Link      string
	TypeLabel string
	Thumbnail string // rendered <img>, "" for none
}

// MetaBoxView is a rendered admin meta box.
type MetaBoxView struct {
	ID    string
	Title string
	Body  templ.Component
}

// html accumulates markup; text is escaped, raw is written as is.
type html struct {
	b strings.Builder
}

func (h *html) raw(parts ...string) *html {
	for _, p := range parts {
		h.b.WriteString(p)
	}
	return h
}

func (h *html) text(s string) *html {
	h.b.WriteString(templ.EscapeString(s))
	return h
}

func (h *html) rawf(format string, args ...any) *html {
	fmt.Fprintf(&h.b, format, args...)
	return h
}

func (h *html) component(ctx context.Context, c templ.Component) error {
	if c == nil {
		return nil
	}
	return c.Render(ctx, &h.b)
}

func (h *html) flush(w io.Writer) error {
	_, err := io.WriteString(w, h.b.String())
	return err
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// Layout wraps body in the document frame and prints the queued stylesheets.
func Layout(p Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{}
		title := p.Site.Name
		if p.Meta.Title != "" {
			title = p.Meta.Title + " | " + p.Site.Name
		}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		h.raw(`<title>`).text(title).raw(`</title>`)
		if p.Meta.Description != "" {
			h.raw(`<meta name="description" content="`, esc(p.Meta.Description), `"/>`)
		}
		if p.Meta.URL != "" {
			h.raw(`<link rel="canonical" href="`, esc(p.Meta.URL), `"/>`)
			h.raw(`<meta property="og:url" content="`, esc(p.Meta.URL), `"/>`)
		}
		if p.Meta.OGType != "" {
			h.raw(`<meta property="og:type" content="`, esc(p.Meta.OGType), `"/>`)
		}
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"/>`)
		for _, s := range p.Styles {
			h.raw(`<link rel="stylesheet" id="`, esc(s.Handle), `-css" href="`, esc(s.Href), `" media="all"/>`)
		}
		bodyClass := "site"
		if p.Admin {
			bodyClass = "admin"
		}
		h.raw(`</head><body class="`, bodyClass, `">`)
		if p.Admin {
			adminMenu(h, p.Types)
		} else {
			h.raw(`<header class="site-header"><a href="/">`).text(p.Site.Name).raw(`</a></header>`)
		}
		h.raw(`<main>`)
		if err := h.component(ctx, body); err != nil {
			return err
		}
		h.raw(`</main></body></html>`)
		return h.flush(w)
	})
}

func adminMenu(h *html, types []posttype.Type) {
	h.raw(`<nav class="admin-menu"><a href="/admin/">Dashboard</a>`)
	for _, t := range types {
		h.raw(`<a class="dashicons-before `, esc(t.MenuIcon), `" href="/admin/`, esc(t.Name), `/">`).text(t.Labels.Name).raw(`</a>`)
	}
	h.raw(`<a href="/admin/images/">Images</a>`)
	h.raw(`</nav>`)
}

// NotFound renders the 404 page body.
func NotFound() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="error"><h1>Page not found</h1><p><a href="/">Back home</a></p></section>`)
		return err
	})
}

// ServerError renders the 500 page body.
func ServerError() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="error"><h1>Something went wrong</h1><p>Please try again later.</p></section>`)
		return err
	})
}
