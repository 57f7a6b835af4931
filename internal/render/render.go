// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render produces the downloadable forms of a saved generation:
// the stored landing page, a printable pitch document and a Markdown
// version of that pitch.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"ignitia/internal/markdown"
	"ignitia/internal/models"
	"ignitia/internal/slug"
)

//go:embed templates/*.html
var templateFS embed.FS

// Fallbacks for missing or unusable colors.
const (
	accentFallback = "#000"
	swatchFallback = "#fff"
)

// dateLayout renders creation dates as "Month D, YYYY".
const dateLayout = "January 2, 2006"

var (
	hexColor   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	namedColor = regexp.MustCompile(`^[a-zA-Z]{3,20}$`)
	funcColor  = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\(\s*[0-9.]+%?\s*(?:[,\s/]\s*[0-9.]+%?\s*){2,3}\)$`)
)

// Renderer holds the parsed pitch template and the HTML-to-Markdown
// converter. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
	conv *converter.Converter
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{
		tmpl: tmpl,
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}, nil
}

// LandingPage returns the stored landing page unchanged.
func LandingPage(g *models.Generation) []byte {
	return []byte(g.LandingPageHTML)
}

// PrintDocument builds a standalone HTML pitch document for g, styled with
// its primary color. It is a different document from the landing page.
func (r *Renderer) PrintDocument(g *models.Generation) ([]byte, error) {
	v, err := newPitchView(g)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "pitch", v); err != nil {
		return nil, fmt.Errorf("render pitch: %w", err)
	}
	return buf.Bytes(), nil
}

// Markdown converts the body of the pitch document to Markdown.
func (r *Renderer) Markdown(g *models.Generation) (string, error) {
	v, err := newPitchView(g)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "body", v); err != nil {
		return "", fmt.Errorf("render pitch body: %w", err)
	}
	md, err := r.conv.ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("convert pitch to markdown: %w", err)
	}
	return strings.TrimSpace(md) + "\n", nil
}

// LandingPageFilename is the attachment name of the HTML export.
func LandingPageFilename(name string) string {
	return slug.Filename(name, "-landing-page.html")
}

// PrintFilename is the inline name of the print document.
func PrintFilename(name string) string {
	return slug.Filename(name, "-pitch.html")
}

// MarkdownFilename is the attachment name of the Markdown export.
func MarkdownFilename(name string) string {
	return slug.Filename(name, "-pitch.md")
}

type pitchView struct {
	Name           string
	Tagline        string
	Description    template.HTML
	TargetAudience template.HTML
	Features       []string
	Primary        template.CSS
	Swatches       []swatch
	Date           string
}

type swatch struct {
	Label string
	Fill  template.CSS
	Value string
}

func newPitchView(g *models.Generation) (pitchView, error) {
	desc, err := markdown.ToHTML(g.Description)
	if err != nil {
		return pitchView{}, fmt.Errorf("render description: %w", err)
	}
	audience, err := markdown.ToHTML(g.TargetAudience)
	if err != nil {
		return pitchView{}, fmt.Errorf("render target audience: %w", err)
	}

	cs := g.ColorScheme
	v := pitchView{
		Name:           g.StartupName,
		Tagline:        g.Tagline,
		Description:    template.HTML(desc),
		TargetAudience: template.HTML(audience),
		Primary:        cssColor(cs.Primary, accentFallback),
		Swatches: []swatch{
			{Label: "Primary", Fill: cssColor(cs.Primary, swatchFallback), Value: cs.Primary},
			{Label: "Secondary", Fill: cssColor(cs.Secondary, swatchFallback), Value: cs.Secondary},
			{Label: "Accent", Fill: cssColor(cs.Accent, swatchFallback), Value: cs.Accent},
		},
		Date: formatDate(g.CreatedAt),
	}
	for _, f := range g.KeyFeatures {
		if f = strings.TrimSpace(f); f != "" {
			v.Features = append(v.Features, f)
		}
	}
	return v, nil
}

// cssColor returns c when it is a plain CSS color (hex, named or an
// rgb/hsl function), otherwise fallback.
func cssColor(c, fallback string) template.CSS {
	c = strings.TrimSpace(c)
	if hexColor.MatchString(c) || namedColor.MatchString(c) || funcColor.MatchString(c) {
		return template.CSS(c)
	}
	return template.CSS(fallback)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}
