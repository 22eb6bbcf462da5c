package bookpress

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/bookpress/content"
	"github.com/eringen/bookpress/posttype"
	"github.com/eringen/bookpress/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return a.renderAdmin(c, "Log in", views.AdminLogin(false, CsrfToken(c)))
	}
	ctx := c.Request().Context()
	types := a.Types.List()
	items := make(map[string][]views.PostItem, len(types))
	for _, t := range types {
		posts, err := a.Store.ListPosts(ctx, t.Name, false)
		if err != nil {
			return err
		}
		items[t.Name] = a.postItems(ctx, posts)
	}
	return a.renderAdmin(c, "Dashboard", views.AdminDashboard(types, items, c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	c.Logger().Warnf("failed admin login from %s", c.RealIP())
	return a.renderAdmin(c, "Log in", views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// requireAdmin redirects anonymous visitors to the login form.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
		return next(c)
	}
}

// adminType resolves the :type route parameter.
func (a *App) adminType(c echo.Context) (posttype.Type, error) {
	t, ok := a.Types.Get(c.Param("type"))
	if !ok {
		return posttype.Type{}, echo.ErrNotFound
	}
	return t, nil
}

func (a *App) handleAdminTypeList(c echo.Context) error {
	t, err := a.adminType(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	posts, err := a.Store.ListPosts(ctx, t.Name, false)
	if err != nil {
		return err
	}
	return a.renderAdmin(c, t.Labels.Name, views.AdminTypeList(t, a.postItems(ctx, posts), c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleAdminNew(c echo.Context) error {
	t, err := a.adminType(c)
	if err != nil {
		return err
	}
	post := content.Post{Type: t.Name, Status: content.StatusDraft, Date: time.Now().Format("2006-01-02")}
	return a.renderEditScreen(c, t, post, "")
}

func (a *App) handleAdminEdit(c echo.Context) error {
	t, err := a.adminType(c)
	if err != nil {
		return err
	}
	post, err := a.loadAdminPost(c, t)
	if err != nil {
		return err
	}
	return a.renderEditScreen(c, t, post, c.QueryParam("msg"))
}

func (a *App) loadAdminPost(c echo.Context, t posttype.Type) (content.Post, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return content.Post{}, echo.ErrNotFound
	}
	post, err := a.Store.GetPost(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) || (err == nil && post.Type != t.Name) {
		return content.Post{}, echo.ErrNotFound
	}
	return post, err
}

// renderEditScreen builds the edit form, collecting meta boxes through the
// AddMetaBoxes hook.
func (a *App) renderEditScreen(c echo.Context, t posttype.Type, post content.Post, msg string) error {
	ctx := c.Request().Context()
	ev := &MetaBoxEvent{PostType: t.Name, Post: post}
	if err := a.Hooks.AddMetaBoxes.Do(ctx, ev); err != nil {
		return err
	}
	var boxes []views.MetaBoxView
	for _, b := range ev.Boxes() {
		mv := views.MetaBoxView{ID: b.ID, Title: b.Title}
		if b.Render != nil {
			mv.Body = b.Render(ctx, post)
		}
		boxes = append(boxes, mv)
	}
	images, err := a.Store.ListImages(ctx)
	if err != nil {
		return err
	}
	screen := views.EditScreen{Type: t, Post: post, Images: images, Boxes: boxes, CSRF: CsrfToken(c), Msg: msg}
	return a.renderAdmin(c, screen.Type.Labels.SingularName, views.AdminEdit(screen))
}

func (a *App) handleAdminSave(c echo.Context) error {
	t, err := a.adminType(c)
	if err != nil {
		return err
	}
	form, err := c.FormParams()
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var post content.Post
	id, _ := strconv.ParseInt(form.Get("id"), 10, 64)
	update := id != 0
	if update {
		post, err = a.Store.GetPost(ctx, id)
		if errors.Is(err, ErrNotFound) || (err == nil && post.Type != t.Name) {
			return echo.ErrNotFound
		}
		if err != nil {
			return err
		}
	}
	post.Type = t.Name
	applyPostForm(&post, t, form)

	if post.Slug == "" {
		return a.renderEditScreen(c, t, post, "Slug is required. Add a title or slug.")
	}
	if _, err := time.Parse("2006-01-02", post.Date); err != nil {
		return a.renderEditScreen(c, t, post, "Invalid date format. Use YYYY-MM-DD.")
	}
	if post.Slug, err = a.uniqueSlug(ctx, t.Name, post.Slug, post.ID); err != nil {
		return err
	}

	if post.ID, err = a.Store.SavePost(ctx, post); err != nil {
		return err
	}
	a.Cache.Invalidate()

	if err := a.Hooks.SavePost.Do(ctx, SaveEvent{Post: post, Form: form, Update: update}); err != nil {
		return fmt.Errorf("save_post hook: %w", err)
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/admin/%s/%d/?msg=saved", t.Name, post.ID))
}

// applyPostForm copies the submitted core fields onto p.
func applyPostForm(p *content.Post, t posttype.Type, form url.Values) {
	if t.SupportsFeature(posttype.SupportTitle) {
		p.Title = strings.TrimSpace(form.Get("title"))
	}
	if t.SupportsFeature(posttype.SupportEditor) {
		p.Content = form.Get("content")
	}
	if t.SupportsFeature(posttype.SupportExcerpt) {
		p.Excerpt = strings.TrimSpace(form.Get("excerpt"))
	}
	if t.SupportsFeature(posttype.SupportThumbnail) {
		p.Thumbnail = strings.TrimSpace(form.Get("thumbnail"))
	}
	p.Slug = Slugify(form.Get("slug"))
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	p.Date = strings.TrimSpace(form.Get("date"))
	if p.Date == "" {
		p.Date = time.Now().Format("2006-01-02")
	}
	p.Status = content.StatusDraft
	if form.Get("status") == content.StatusPublish {
		p.Status = content.StatusPublish
	}
}

// uniqueSlug appends -2, -3, ... until no other post of the type uses it.
func (a *App) uniqueSlug(ctx context.Context, postType, slug string, id int64) (string, error) {
	candidate := slug
	for n := 2; ; n++ {
		taken, err := a.Store.SlugTaken(ctx, postType, candidate, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, n)
	}
}

// handleAdminAutosave stores the title and body of a draft in the
// background and fires SavePost with Autosave set. Published posts are
// left untouched.
func (a *App) handleAdminAutosave(c echo.Context) error {
	t, err := a.adminType(c)
	if err != nil {
		return err
	}
	form, err := c.FormParams()
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	id, _ := strconv.ParseInt(form.Get("id"), 10, 64)
	post, err := a.Store.GetPost(ctx, id)
	if errors.Is(err, ErrNotFound) || (err == nil && post.Type != t.Name) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}

	saved := false
	if !post.Published() {
		if t.SupportsFeature(posttype.SupportTitle) {
			post.Title = strings.TrimSpace(form.Get("title"))
		}
		if t.SupportsFeature(posttype.SupportEditor) {
			post.Content = form.Get("content")
		}
		if _, err := a.Store.SavePost(ctx, post); err != nil {
			return err
		}
		saved = true
	}
	if err := a.Hooks.SavePost.Do(ctx, SaveEvent{Post: post, Form: form, Update: true, Autosave: true}); err != nil {
		return fmt.Errorf("save_post hook: %w", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"id": post.ID, "saved": saved})
}

func (a *App) handleAdminDelete(c echo.Context) error {
	t, err := a.adminType(c)
	if err != nil {
		return err
	}
	post, err := a.loadAdminPost(c, t)
	if err != nil {
		return err
	}
	if err := a.Store.DeletePost(c.Request().Context(), post.ID); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/"+t.Name+"/?msg=deleted")
}
