package render

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ignitia/internal/models"
)

func sampleGeneration() *models.Generation {
	return &models.Generation{
		ID:             uuid.New(),
		OwnerID:        uuid.New(),
		IdeaInput:      "A fitness-class booking app",
		StartupName:    "FitBook",
		Tagline:        "Book your sweat in seconds",
		Description:    "FitBook lets members **reserve** classes instantly.",
		TargetAudience: "Busy gym-goers aged 25-40.",
		KeyFeatures:    models.KeyFeatures{"One-tap booking", "Waitlists", "Class reminders"},
		ColorScheme: models.ColorScheme{
			Primary:   "#3b82f6",
			Secondary: "#10b981",
			Accent:    "#f59e0b",
		},
		LandingPageHTML: "<!DOCTYPE html><html><body><h1>FitBook</h1></body></html>",
		CreatedAt:       time.Date(2026, time.March, 5, 14, 30, 0, 0, time.UTC),
	}
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestLandingPage_Unchanged(t *testing.T) {
	g := sampleGeneration()
	assert.Equal(t, g.LandingPageHTML, string(LandingPage(g)))
}

func TestPrintDocument_Layout(t *testing.T) {
	r := newRenderer(t)

	out, err := r.PrintDocument(sampleGeneration())
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>FitBook - Startup Pitch</title>")
	assert.Contains(t, doc, `<h1 class="logo">FitBook</h1>`)
	assert.Contains(t, doc, "Book your sweat in seconds")
	for _, title := range []string{"Executive Summary", "Target Audience", "Key Features", "Brand Colors"} {
		assert.Contains(t, doc, title)
	}
	assert.Contains(t, doc, "<strong>reserve</strong>")
	assert.Contains(t, doc, "<li>One-tap booking</li>")
	assert.Contains(t, doc, "<li>Class reminders</li>")
	assert.Contains(t, doc, "Generated by Ignitia - AI-Powered Startup Builder")
	assert.Contains(t, doc, "March 5, 2026")
	assert.NotContains(t, doc, "<h1>FitBook</h1>", "print document must not embed the landing page")
}

func TestPrintDocument_PrimaryColorAccents(t *testing.T) {
	r := newRenderer(t)

	out, err := r.PrintDocument(sampleGeneration())
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "border-bottom:3px solid #3b82f6", "header border")
	assert.Contains(t, doc, "font-weight:bold;color:#3b82f6", "logo and section titles")
	assert.Contains(t, doc, "background-color: #3b82f6;")
	assert.Contains(t, doc, "background-color: #10b981;")
	assert.Contains(t, doc, "background-color: #f59e0b;")
	assert.Contains(t, doc, "Primary<br>#3b82f6")
}

func TestPrintDocument_OmittedFields(t *testing.T) {
	r := newRenderer(t)
	g := &models.Generation{StartupName: "Bare", CreatedAt: time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)}

	out, err := r.PrintDocument(g)
	require.NoError(t, err)
	doc := string(out)

	assert.NotContains(t, doc, "undefined")
	assert.NotContains(t, doc, "null")
	assert.NotContains(t, doc, "<nil>")
	assert.NotContains(t, doc, "ZgotmplZ")
	assert.Contains(t, doc, `<p class="tagline"><em></em></p>`)
	assert.Contains(t, doc, "border-bottom:3px solid #000", "accent falls back to black")
	assert.Contains(t, doc, "background-color: #fff;", "swatch falls back to white")
	assert.Contains(t, doc, "January 2, 2026")
}

func TestPrintDocument_EscapesText(t *testing.T) {
	r := newRenderer(t)
	g := sampleGeneration()
	g.StartupName = `<script>alert("x")</script>`
	g.KeyFeatures = models.KeyFeatures{"<img src=x onerror=alert(1)>"}
	g.Description = "<iframe src=evil></iframe>"

	out, err := r.PrintDocument(g)
	require.NoError(t, err)
	doc := string(out)

	assert.NotContains(t, doc, "<script>")
	assert.NotContains(t, doc, "<img")
	assert.NotContains(t, doc, "<iframe")
	assert.Contains(t, doc, "&lt;script&gt;")
}

func TestPrintDocument_RejectsUnsafeColors(t *testing.T) {
	r := newRenderer(t)
	g := sampleGeneration()
	g.ColorScheme.Primary = "red;}</style><script>alert(1)</script>"

	out, err := r.PrintDocument(g)
	require.NoError(t, err)
	doc := string(out)

	assert.NotContains(t, doc, "<script>")
	assert.Contains(t, doc, "border-bottom:3px solid #000")
}

func TestCSSColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#3b82f6", "#3b82f6"},
		{"#FFF", "#FFF"},
		{"#11223344", "#11223344"},
		{" navy ", "navy"},
		{"rgb(59, 130, 246)", "rgb(59, 130, 246)"},
		{"hsl(217 91% 60%)", "hsl(217 91% 60%)"},
		{"rgba(0,0,0,0.5)", "rgba(0,0,0,0.5)"},
		{"", "#000"},
		{"#12345", "#000"},
		{"url(javascript:alert(1))", "#000"},
		{"red; background:url(x)", "#000"},
		{"expression(alert(1))", "#000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, string(cssColor(tt.in, "#000")))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", formatDate(time.Time{}))

	// Late evening in New York is already the next day in UTC.
	ny := time.FixedZone("EST", -5*60*60)
	assert.Equal(t, "December 1, 2026", formatDate(time.Date(2026, time.November, 30, 22, 0, 0, 0, ny)))
}

func TestMarkdown(t *testing.T) {
	r := newRenderer(t)

	md, err := r.Markdown(sampleGeneration())
	require.NoError(t, err)

	assert.Contains(t, md, "# FitBook")
	assert.Contains(t, md, "## Executive Summary")
	assert.Contains(t, md, "**reserve**")
	assert.Contains(t, md, "One-tap booking")
	assert.Contains(t, md, "Waitlists")
	assert.Contains(t, md, "3b82f6")
	assert.Contains(t, md, "March 5, 2026")
	assert.NotContains(t, md, "<style")
	assert.NotContains(t, md, "<div")
	assert.True(t, strings.HasSuffix(md, "\n"))
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "fitbook-pro-landing-page.html", LandingPageFilename("FitBook Pro"))
	assert.Equal(t, "fitbook-pro-pitch.html", PrintFilename("FitBook Pro"))
	assert.Equal(t, "fitbook-pro-pitch.md", MarkdownFilename("FitBook Pro"))
	assert.Equal(t, "startup-pitch.html", PrintFilename(""))
}
