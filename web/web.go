// Package web embeds the page templates, static assets and site copy.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
)

const (
	baseTemplate     = "base.html"
	partialsTemplate = "partials.html"
	tmplDir          = "templates"

	// CopyFile is the site copy inside Content.
	CopyFile = "content/site.yaml"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed content/site.yaml
var contentFS embed.FS

// Templates is the embedded templates tree.
func Templates() fs.FS { return templateFS }

// Content holds CopyFile.
func Content() fs.FS { return contentFS }

// Static is the tree served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("invalid dict call: number of arguments must be even")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings")
		}
		m[key] = values[i+1]
	}
	return m, nil
}

// LoadTemplates parses every page in fsys together with the base layout and
// the shared partials. Pages are keyed by file name.
func LoadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	pages, err := fs.Glob(fsys, path.Join(tmplDir, "*.html"))
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		name := path.Base(page)
		if name == baseTemplate || name == partialsTemplate {
			continue
		}
		tmpl, err := template.New(baseTemplate).Funcs(template.FuncMap{
			"dict": dict,
		}).ParseFS(fsys,
			path.Join(tmplDir, baseTemplate),
			page,
			path.Join(tmplDir, partialsTemplate),
		)
		if err != nil {
			return nil, fmt.Errorf("can't parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	return templates, nil
}

func MustLoadTemplates(fsys fs.FS) map[string]*template.Template {
	templates, err := LoadTemplates(fsys)
	if err != nil {
		panic(err)
	}
	return templates
}
