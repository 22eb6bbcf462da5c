package bookpress

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/eringen/bookpress/posttype"
	"github.com/eringen/bookpress/views"
)

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := a.Cache.ListPosts(ctx, builtinPostType.Name)
	if err != nil {
		return err
	}
	meta := views.PageMeta{Description: a.Config.Description, URL: BuildURL(a.Config.URL), OGType: "website"}
	return a.renderPage(c, http.StatusOK, meta, views.Home(a.site(), a.postItems(ctx, posts)))
}

// handleRewrite resolves paths against the content-type rewrite rules.
func (a *App) handleRewrite(c echo.Context) error {
	m, ok := a.Types.Match(c.Request().URL.Path)
	if !ok {
		return echo.ErrNotFound
	}
	ctx := c.Request().Context()

	if m.Kind == posttype.RuleArchive {
		posts, err := a.Cache.ListPosts(ctx, m.Type.Name)
		if err != nil {
			return err
		}
		meta := views.PageMeta{
			Title:  m.Type.Labels.Name,
			URL:    BuildURL(a.Config.URL, m.Type.HasArchive),
			OGType: "website",
		}
		return a.renderPage(c, http.StatusOK, meta, views.Archive(m.Type, a.postItems(ctx, posts)))
	}

	post, err := a.Cache.GetPost(ctx, m.Type.Name, m.Slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	body := a.TheContent(ctx, post, true)
	meta := views.PageMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		URL:         BuildURL(a.Config.URL, m.Type.RewriteSlug, post.Slug),
		OGType:      "article",
	}
	return a.renderPage(c, http.StatusOK, meta, views.Single(a.postItem(ctx, post), body))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "favicon.svg"))
}

// handleRobots generates robots.txt from the configured site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.renderPage(c, http.StatusNotFound, views.PageMeta{Title: "Not found"}, views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = a.renderPage(c, code, views.PageMeta{Title: "Error"}, views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
