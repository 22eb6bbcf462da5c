package bookpress

import "embed"

// EmbeddedAssets contains the host's own static assets: admin.css and site.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
