// Package web embeds the HTML templates and static assets served by the
// tracker.
package web

import "embed"

// TemplatesFS holds the page templates under templates/.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds stylesheets and scripts under static/.
//
//go:embed static/*
var StaticFS embed.FS
