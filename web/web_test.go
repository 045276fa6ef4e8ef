package web

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	templates, err := LoadTemplates(Templates())
	require.NoError(t, err)

	assert.Contains(t, templates, "index.html")
	assert.Contains(t, templates, "admin.html")
	assert.NotContains(t, templates, baseTemplate)
	assert.NotContains(t, templates, partialsTemplate)

	for name, tmpl := range templates {
		for _, partial := range []string{"csrf", "flash", "countdown", "gate-message", "tab-button", "content"} {
			assert.NotNil(t, tmpl.Lookup(partial), "%s lacks %s", name, partial)
		}
	}
}

func TestLoadTemplatesErrors(t *testing.T) {
	t.Run("no pages", func(t *testing.T) {
		fsys := fstest.MapFS{
			"templates/base.html":     {Data: []byte(`{{template "content" .}}`)},
			"templates/partials.html": {Data: []byte(`{{define "csrf"}}{{end}}`)},
		}
		_, err := LoadTemplates(fsys)
		assert.Error(t, err)
	})

	t.Run("broken page", func(t *testing.T) {
		fsys := fstest.MapFS{
			"templates/base.html":     {Data: []byte(`{{template "content" .}}`)},
			"templates/partials.html": {Data: []byte(`{{define "csrf"}}{{end}}`)},
			"templates/page.html":     {Data: []byte(`{{define "content"}}{{if}}{{end}}`)},
		}
		_, err := LoadTemplates(fsys)
		assert.ErrorContains(t, err, "page.html")
	})
}

func TestEmbeddedAssets(t *testing.T) {
	_, err := fs.Stat(Static(), "style.css")
	assert.NoError(t, err)
	_, err = fs.Stat(Static(), "maybank-qr.svg")
	assert.NoError(t, err)
	_, err = fs.Stat(Content(), CopyFile)
	assert.NoError(t, err)
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, m)

	_, err = dict("a")
	assert.Error(t, err)
	_, err = dict(1, 2)
	assert.Error(t, err)
}
