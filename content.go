package bookpress

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/bookpress/content"
	"github.com/eringen/bookpress/views"
)

// TheContent formats the body of p and passes it through the TheContent
// filter. singular is true when the page shows p alone.
func (a *App) TheContent(ctx context.Context, p content.Post, singular bool) string {
	return a.Hooks.TheContent.Apply(ctx, Autop(p.Content), ContentEvent{Post: p, Singular: singular})
}

// Autop turns plain text into paragraphs: blank lines separate paragraphs and
// single newlines become <br/>. The text is escaped.
func Autop(text string) string {
	text = strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.Trim(para, "\n ")
		if para == "" {
			continue
		}
		lines := strings.Split(para, "\n")
		for i := range lines {
			lines[i] = templ.EscapeString(strings.TrimSpace(lines[i]))
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br/>\n"))
		b.WriteString("</p>\n")
	}
	return b.String()
}

// Image sizes for PostThumbnail: the name maps to a maximum width.
var imageSizes = map[string]int{
	"thumbnail": 150,
	"medium":    300,
	"large":     1024,
	"full":      0,
}

// PostThumbnail returns the <img> markup of the featured image of p at the
// named size, or "" when p has none.
func (a *App) PostThumbnail(ctx context.Context, p content.Post, size string) string {
	if p.Thumbnail == "" {
		return ""
	}
	img, err := a.Store.GetImage(ctx, p.Thumbnail)
	if err != nil {
		if err != ErrNotFound {
			a.Echo.Logger.Warnf("thumbnail of post %d: %v", p.ID, err)
		}
		return ""
	}
	maxW, ok := imageSizes[size]
	if !ok {
		size, maxW = "full", 0
	}
	w, h := img.Width, img.Height
	if maxW > 0 && w > maxW {
		h = h * maxW / w
		w = maxW
	}
	return fmt.Sprintf(`<img width="%d" height="%d" src="/public/%s/%s" class="attachment-%s size-%s wp-post-image" alt="%s" decoding="async"/>`,
		w, h, uploadsSubdir, templ.EscapeString(img.Filename), size, size, templ.EscapeString(p.Title))
}

// postItems resolves links and listing thumbnails for posts.
func (a *App) postItems(ctx context.Context, posts []content.Post) []views.PostItem {
	items := make([]views.PostItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, a.postItem(ctx, p))
	}
	return items
}

func (a *App) postItem(ctx context.Context, p content.Post) views.PostItem {
	it := views.PostItem{Post: p, Link: a.Permalink(p), TypeLabel: p.Type}
	if t, ok := a.Types.Get(p.Type); ok {
		it.TypeLabel = t.Labels.SingularName
	}
	it.Thumbnail = a.PostThumbnail(ctx, p, "medium")
	return it
}

// Permalink returns the public path of p.
func (a *App) Permalink(p content.Post) string {
	if t, ok := a.Types.Get(p.Type); ok {
		return t.Permalink(p.Slug)
	}
	return "/" + p.Type + "/" + p.Slug + "/"
}
