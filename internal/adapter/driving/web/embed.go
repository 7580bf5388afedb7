package web

import "embed"

// StaticFS holds the embedded browser GUI (page, script, styles).
//
//go:embed static/*
var StaticFS embed.FS

// helpFS holds the markdown sources for the toolbar's help panels.
//
//go:embed help/*.md
var helpFS embed.FS
