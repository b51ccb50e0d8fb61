// Package view renders the HTML pages. Templates are embedded; tab copy is
// markdown converted once at startup.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/xxxsen/galasaui/internal/tabs"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	PageTestRuns     = "test_runs.html"
	PageRunDetail    = "run_detail.html"
	PageTokenCreated = "token_created.html"
)

var funcMap = template.FuncMap{
	"add": func(a, b int) int { return a + b },
}

type Renderer struct {
	pages  map[string]*template.Template
	bodies map[string]template.HTML
}

func New() (*Renderer, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	bodies := make(map[string]template.HTML, len(tabs.All))
	for _, tab := range tabs.All {
		var out bytes.Buffer
		if err := md.Convert([]byte(tab.Body), &out); err != nil {
			return nil, err
		}
		// goldmark escapes raw HTML by default, so the output is safe.
		bodies[tab.Slug] = template.HTML(out.String())
	}
	pages := make(map[string]*template.Template)
	for _, name := range []string{PageTestRuns, PageRunDetail, PageTokenCreated} {
		t, err := template.New(name).Funcs(funcMap).ParseFS(templatesFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, err
		}
		pages[name] = t
	}
	return &Renderer{pages: pages, bodies: bodies}, nil
}

// TabBody returns the rendered copy of a tab.
func (r *Renderer) TabBody(slug string) template.HTML {
	return r.bodies[slug]
}

func (r *Renderer) Render(w io.Writer, page string, data interface{}) error {
	t, ok := r.pages[page]
	if !ok {
		return errUnknownPage(page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

type errUnknownPage string

func (e errUnknownPage) Error() string {
	return "unknown page: " + string(e)
}
