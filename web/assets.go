// Package web serves the browser UI for generating Minutes of Meeting.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"mom-generator/internal/app/transcript"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded static assets rooted at static/
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"seconds":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"speakers": transcript.Parse,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
