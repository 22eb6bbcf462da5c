package bookpress

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/bookpress/content"
	"github.com/eringen/bookpress/posttype"
)

// restItem is the JSON shape of a post in the REST API.
type restItem struct {
	ID      int64  `json:"id"`
	Slug    string `json:"slug"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Link    string `json:"link"`
}

// restType resolves :base to a type that is shown in the REST API.
func (a *App) restType(c echo.Context) (posttype.Type, error) {
	t, ok := a.Types.ByRESTBase(c.Param("base"))
	if !ok || !t.ShowInREST {
		return posttype.Type{}, echo.NewHTTPError(http.StatusNotFound, "no route")
	}
	return t, nil
}

func (a *App) toRESTItem(c echo.Context, p content.Post) restItem {
	return restItem{
		ID:      p.ID,
		Slug:    p.Slug,
		Type:    p.Type,
		Title:   p.Title,
		Excerpt: p.Excerpt,
		Content: a.TheContent(c.Request().Context(), p, false),
		Date:    p.Date,
		Link:    BuildURL(a.Config.URL, a.Permalink(p)),
	}
}

func (a *App) handleRESTList(c echo.Context) error {
	t, err := a.restType(c)
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts(c.Request().Context(), t.Name)
	if err != nil {
		return err
	}
	items := make([]restItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, a.toRESTItem(c, p))
	}
	return c.JSON(http.StatusOK, items)
}

func (a *App) handleRESTItem(c echo.Context) error {
	t, err := a.restType(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "invalid post ID")
	}
	p, err := a.Store.GetPost(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) || (err == nil && (p.Type != t.Name || !p.Published())) {
		return echo.NewHTTPError(http.StatusNotFound, "invalid post ID")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.toRESTItem(c, p))
}
