// Package bookpress is a small content-management server built with Go, Echo,
// and templ. It stores typed posts with key/value metadata in SQLite, renders
// them publicly and in an admin editor, and lets plugins hook into content-type
// registration, edit screens, saving, content rendering and stylesheets.
package bookpress

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/bookpress/content"
	"github.com/eringen/bookpress/posttype"
)

// Plugin extends the App by adding hook handlers.
type Plugin interface {
	Register(a *App) error
}

// App is the central bookpress application. It wires together the store,
// cache, content-type registry, hooks, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Types  *posttype.Registry
	Hooks  Hooks

	loginLimiter *LoginLimiter
	plugins      []Plugin
	customRoutes []func(*App)
	assetMounts  map[string]fs.FS
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:      cfg,
		Echo:        echo.New(),
		Types:       posttype.New(),
		assetMounts: make(map[string]fs.FS),
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(parseLogLevel(cfg.LogLevel))

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the store, registers the built-in post type and the plugins,
// fires the Init hook and sets up middleware and routes. Start calls it;
// tests call it directly and drive a.Echo with httptest.
func (a *App) Init(ctx context.Context) error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("bookpress: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("bookpress: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("bookpress: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.Hooks.EnqueueScripts.AddPriority(1, enqueueStyle("bookpress-site", "/public/bookpress/site.css"))
	a.Hooks.AdminEnqueueScripts.AddPriority(1, enqueueStyle("bookpress-admin", "/public/bookpress/admin.css"))

	if err := a.RegisterPostType(builtinPostType); err != nil {
		return fmt.Errorf("bookpress: register post type: %w", err)
	}
	a.FlushRewriteRules()

	for _, p := range a.plugins {
		if err := p.Register(a); err != nil {
			return fmt.Errorf("bookpress: register plugin: %w", err)
		}
	}
	if err := a.Hooks.Init.Do(ctx, a); err != nil {
		return fmt.Errorf("bookpress: init hook: %w", err)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the App and serves until the server stops.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	a.Echo.Logger.Infof("bookpress listening on %s", a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// builtinPostType is the blog post type every site has.
var builtinPostType = posttype.Type{
	Name: "post",
	Labels: posttype.Labels{
		Name:         "Posts",
		SingularName: "Post",
		AddNew:       "Add New Post",
	},
	Public:      true,
	ShowInREST:  true,
	RESTBase:    "posts",
	MenuIcon:    "dashicons-admin-post",
	Supports:    []string{posttype.SupportTitle, posttype.SupportEditor, posttype.SupportExcerpt, posttype.SupportThumbnail},
	RewriteSlug: "blog",
}

// RegisterPostType adds or replaces a content type.
func (a *App) RegisterPostType(t posttype.Type) error {
	return a.Types.Register(t)
}

// FlushRewriteRules rebuilds the public URL rules from the registered types.
func (a *App) FlushRewriteRules() {
	a.Types.FlushRewriteRules()
}

// MountAssets serves fsys under /public/plugins/<name>/ and returns that
// base URL with a trailing slash. Call it from Plugin.Register.
func (a *App) MountAssets(name string, fsys fs.FS) string {
	a.assetMounts[name] = fsys
	return "/public/plugins/" + name + "/"
}

// GetPostMeta returns one metadata value of a post, "" when unset.
func (a *App) GetPostMeta(ctx context.Context, postID int64, key string) (string, error) {
	return a.Store.GetMeta(ctx, postID, key)
}

// UpdatePostMeta writes one metadata value of a post.
func (a *App) UpdatePostMeta(ctx context.Context, postID int64, key, value string) error {
	return a.Store.UpdateMeta(ctx, postID, key, value)
}

// DeletePostMeta removes one metadata key of a post.
func (a *App) DeletePostMeta(ctx context.Context, postID int64, key string) error {
	return a.Store.DeleteMeta(ctx, postID, key)
}

// PostMeta returns every metadata pair of a post.
func (a *App) PostMeta(ctx context.Context, postID int64) (content.Meta, error) {
	return a.Store.ListMeta(ctx, postID)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
