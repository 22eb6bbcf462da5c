package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/bookpress"
	"github.com/eringen/bookpress/book"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			log.Fatal(err)
		}
	case "version":
		fmt.Printf("bookpress %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bookpress - A content server with a book catalogue, built with Go, Echo, and templ

Usage:
  bookpress <command>

Commands:
  serve         Start the HTTP server
  version       Print the bookpress version
  help          Show this help message

Configuration is read from the environment, after .env.local and .env:
  SITE_NAME, SITE_URL, SITE_DESCRIPTION, ADDR, DATABASE_PATH, STATIC_DIR,
  ADMIN_PASSWORD, ADMIN_SESSION_SECRET, COOKIE_SECURE, LOG_LEVEL`)
}

// loadConfig builds the site configuration from environment variables.
func loadConfig() bookpress.SiteConfig {
	// .env.local wins over .env; neither overrides the real environment.
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("load %s: %v", f, err)
		}
	}
	return bookpress.SiteConfig{
		Name:          os.Getenv("SITE_NAME"),
		URL:           os.Getenv("SITE_URL"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Addr:          os.Getenv("ADDR"),
		DatabasePath:  os.Getenv("DATABASE_PATH"),
		StaticDir:     os.Getenv("STATIC_DIR"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("ADMIN_SESSION_SECRET"),
		CookieSecure:  bookpress.EnvOr("COOKIE_SECURE", "false") == "true",
		LogLevel:      os.Getenv("LOG_LEVEL"),
	}
}

func runServe() error {
	app := bookpress.New(loadConfig(), bookpress.WithPlugin(book.New(nil, nil)))
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start(ctx) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}
