// Package views holds the HTML templates, compiled into the binary.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
)

//go:embed templates
var files embed.FS

// Set maps a page name ("add_client") to its template, layout included.
type Set map[string]*template.Template

var funcs = template.FuncMap{
	"year": func() string { return time.Now().Format("2006") },
}

// Parse compiles the layout once and clones it for every page.
func Parse() (Set, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(files, "templates/layouts/*.tmpl")
	if err != nil {
		return nil, err
	}
	pages, err := fs.Glob(files, "templates/pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	set := make(Set, len(pages))
	for _, p := range pages {
		view, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := view.ParseFS(files, p); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		set[strings.TrimSuffix(path.Base(p), ".tmpl")] = view
	}
	return set, nil
}

func MustParse() Set {
	s, err := Parse()
	if err != nil {
		panic(err)
	}
	return s
}

// Render executes page into w. Output is buffered so a template error
// never leaves a half-written page behind.
func (s Set) Render(w io.Writer, page string, data any) error {
	t, ok := s[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
