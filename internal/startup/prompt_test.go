package startup

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptEmbedsIdeaVerbatim(t *testing.T) {
	ideas := []string{
		"A fitness-class booking app",
		`Uber for "dog walkers" with <b>markup</b> & symbols`,
		"多言語の翻訳サービス",
		"line one\nline two",
	}
	for _, idea := range ideas {
		prompt, err := BuildPrompt(idea)
		require.NoError(t, err)
		assert.Contains(t, prompt, idea)
		for _, field := range Fields {
			assert.Contains(t, prompt, `"`+field+`"`)
		}
	}
}

func TestBuildPromptDemandsLandingPageSections(t *testing.T) {
	prompt, err := BuildPrompt("x")
	require.NoError(t, err)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"hamburger menu",
		"Hero section",
		"Features section",
		"How it works",
		"Pricing section",
		"Footer",
		"Smooth scroll",
		"<style>",
		"<script>",
		"Return ONLY valid JSON",
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestBuildPromptRejectsInvalidIdeas(t *testing.T) {
	tests := []struct {
		name string
		idea string
	}{
		{"empty", ""},
		{"whitespace", " \t\n "},
		{"too long", strings.Repeat("a", MaxIdeaLength+1)},
		{"invalid utf8", "bad \xff bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPrompt(tt.idea)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestValidateIdeaCountsCharacters(t *testing.T) {
	assert.NoError(t, ValidateIdea(strings.Repeat("é", MaxIdeaLength)))
}
