package bookpress

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/bookpress/hooks"
	"github.com/eringen/bookpress/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderPage wraps body in the public layout. The EnqueueScripts hook runs
// first so plugins can add stylesheets to <head>.
func (a *App) renderPage(c echo.Context, code int, meta views.PageMeta, body templ.Component) error {
	var q StyleQueue
	if err := a.Hooks.EnqueueScripts.Do(c.Request().Context(), &q); err != nil {
		return err
	}
	page := views.Page{Site: a.site(), Meta: meta, Styles: q.Styles()}
	return RenderStatus(c, code, views.Layout(page, body))
}

// renderAdmin wraps body in the admin layout after AdminEnqueueScripts.
func (a *App) renderAdmin(c echo.Context, title string, body templ.Component) error {
	var q StyleQueue
	if err := a.Hooks.AdminEnqueueScripts.Do(c.Request().Context(), &q); err != nil {
		return err
	}
	page := views.Page{
		Site:   a.site(),
		Meta:   views.PageMeta{Title: title},
		Styles: q.Styles(),
		Admin:  IsAdmin(c),
		Types:  a.Types.List(),
	}
	return Render(c, views.Layout(page, body))
}

func (a *App) site() views.Site {
	return views.Site{Name: a.Config.Name, URL: a.Config.URL, Description: a.Config.Description}
}

// enqueueStyle returns a style hook handler that queues one stylesheet.
func enqueueStyle(handle, src string) hooks.ActionFunc[*StyleQueue] {
	return func(_ context.Context, q *StyleQueue) error {
		q.Enqueue(handle, src)
		return nil
	}
}
