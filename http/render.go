package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// DefaultTemplates returns the templates compiled into the binary.
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err) // embedded directory is fixed at build time
	}
	return sub
}

// Renderer renders named HTML templates parsed once at startup.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses every *.html file at the top level of fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the named template and writes it as a 200 HTML response.
// Output is buffered, so when an error is returned nothing has been written to w.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) error {
	t := r.tmpl.Lookup(name)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("failed to write rendered template", "template", name, "error", err)
	}
	return nil
}
