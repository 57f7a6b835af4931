package startup

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"ignitia/internal/ai"
)

// excerptLength is how much of the original content a MalformedResponseError
// carries, in characters.
const excerptLength = 1000

var (
	jsonFence  = regexp.MustCompile("(?s)```json\\n?(.*?)\\n?```")
	plainFence = regexp.MustCompile("(?s)```\\n?(.*?)\\n?```")

	templateTokens = strings.NewReplacer(
		"<s>", "",
		"</s>", "",
		"[INST]", "",
		"[/INST]", "",
	)
)

// Normalize turns the model's message content into a JSON object. Stages
// run in order: blank check, direct parse, fence extraction, template
// token stripping, final parse. The parsed object is returned as-is with
// no schema validation; callers treat every field as optional.
func Normalize(content string) (map[string]any, error) {
	if err := requireContent(content); err != nil {
		return nil, err
	}

	if obj, err := parseObject(content); err == nil {
		return obj, nil
	}

	candidate := stripTemplateTokens(extractFenced(content))

	obj, err := parseObject(candidate)
	if err != nil {
		return nil, &MalformedResponseError{Err: err, Excerpt: excerpt(content, excerptLength)}
	}
	return obj, nil
}

// requireContent rejects empty or whitespace-only content before any parse.
func requireContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ai.ErrEmptyContent
	}
	return nil
}

// parseObject strictly parses s as a single JSON object.
func parseObject(s string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("expected a JSON object, got null")
	}
	return obj, nil
}

// extractFenced returns the inner text of the first ```json block, else of
// the first ``` block, else content unchanged.
func extractFenced(content string) string {
	if m := jsonFence.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if m := plainFence.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return content
}

// stripTemplateTokens removes chat-template leakage and trims whitespace.
func stripTemplateTokens(s string) string {
	return strings.TrimSpace(templateTokens.Replace(s))
}

// excerpt returns at most n characters of s.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
