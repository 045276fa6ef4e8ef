// Package content renders the marketing copy and roster notes. Copy lives in
// a YAML file whose prose fields are markdown.
package content

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v2"
)

type Hero struct {
	Badge     string
	Title     string
	Highlight string
	Lead      template.HTML
}

type Benefit struct {
	Icon  string
	Title string
	Body  template.HTML
}

type Sample struct {
	Title       string
	Description template.HTML
	Image       string
}

// Copy is the rendered marketing copy of the landing page.
type Copy struct {
	Hero          Hero
	Benefits      []Benefit
	Samples       []Sample
	PaymentNote   template.HTML
	Activation    template.HTML
	Disclaimer    template.HTML
	DashboardNote template.HTML
}

type rawCopy struct {
	Hero struct {
		Badge     string `yaml:"badge"`
		Title     string `yaml:"title"`
		Highlight string `yaml:"highlight"`
		Lead      string `yaml:"lead"`
	} `yaml:"hero"`
	Benefits []struct {
		Icon  string `yaml:"icon"`
		Title string `yaml:"title"`
		Body  string `yaml:"body"`
	} `yaml:"benefits"`
	Samples []struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Image       string `yaml:"image"`
	} `yaml:"samples"`
	PaymentNote   string `yaml:"payment_note"`
	Activation    string `yaml:"activation"`
	Disclaimer    string `yaml:"disclaimer"`
	DashboardNote string `yaml:"dashboard_note"`
}

type Renderer struct {
	copyMD goldmark.Markdown
	noteMD goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	// Notes are typed by admins into a spreadsheet cell: emphasis and code
	// spans only, no links or raw HTML.
	noteParser := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-z0-9\- ]+$`)).OnElements("span", "p", "ul", "li")
	policy.RequireNoFollowOnLinks(false)
	policy.AllowRelativeURLs(true)

	return &Renderer{
		copyMD: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough, extension.Linkify, extension.Typographer),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		noteMD: goldmark.New(
			goldmark.WithParser(noteParser),
		),
		policy: policy,
	}
}

func (r *Renderer) render(md goldmark.Markdown, text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return template.HTML(r.policy.Sanitize(strings.TrimSpace(buf.String()))), nil
}

// Markdown renders trusted copy. The output is still sanitized.
func (r *Renderer) Markdown(text string) (template.HTML, error) {
	return r.render(r.copyMD, text)
}

// Note renders a roster note. Notes come from the directory as plain cell
// text, so a failure falls back to the escaped text.
func (r *Renderer) Note(text string) template.HTML {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	out, err := r.render(r.noteMD, text)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return out
}

// LoadCopy reads and renders the copy file at name in fsys.
func (r *Renderer) LoadCopy(fsys fs.FS, name string) (*Copy, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("can't read copy file %s: %w", name, err)
	}
	var raw rawCopy
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, fmt.Errorf("can't unmarshal copy file %s: %w", name, err)
	}

	c := &Copy{
		Hero: Hero{Badge: raw.Hero.Badge, Title: raw.Hero.Title, Highlight: raw.Hero.Highlight},
	}
	md := func(field, text string) template.HTML {
		if err != nil {
			return ""
		}
		var out template.HTML
		if out, err = r.Markdown(text); err != nil {
			err = fmt.Errorf("can't render %s: %w", field, err)
		}
		return out
	}

	c.Hero.Lead = md("hero.lead", raw.Hero.Lead)
	for _, b := range raw.Benefits {
		c.Benefits = append(c.Benefits, Benefit{Icon: b.Icon, Title: b.Title, Body: md("benefit "+b.Title, b.Body)})
	}
	for _, s := range raw.Samples {
		c.Samples = append(c.Samples, Sample{Title: s.Title, Image: s.Image, Description: md("sample "+s.Title, s.Description)})
	}
	c.PaymentNote = md("payment_note", raw.PaymentNote)
	c.Activation = md("activation", raw.Activation)
	c.Disclaimer = md("disclaimer", raw.Disclaimer)
	c.DashboardNote = md("dashboard_note", raw.DashboardNote)
	if err != nil {
		return nil, err
	}
	return c, nil
}
