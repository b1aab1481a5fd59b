package web

import "embed"

// TemplatesFS holds the page and its partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the page script and stylesheet.
//
//go:embed static/*
var StaticFS embed.FS
