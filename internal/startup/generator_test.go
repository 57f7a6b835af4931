package startup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ignitia/internal/ai"
)

type fakeLLM struct {
	content    string
	err        error
	moderation *ai.ModerationResult
	modErr     error

	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.prompts = append(f.prompts, userPrompt)
	return f.content, f.err
}

func (f *fakeLLM) CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error) {
	if f.moderation == nil && f.modErr == nil {
		return &ai.ModerationResult{Safe: true}, nil
	}
	return f.moderation, f.modErr
}

func (f *fakeLLM) ActiveName() string { return "fake" }

func TestGeneratorGenerate(t *testing.T) {
	llm := &fakeLLM{content: "```json\n" + sampleJSON + "\n```"}
	g := NewGenerator(llm)

	got, err := g.Generate(context.Background(), "A fitness-class booking app")
	require.NoError(t, err)
	assert.Equal(t, "FitSlot", got["startupName"])

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "A fitness-class booking app")
}

func TestGeneratorRejectsBlankIdeaWithoutCallingModel(t *testing.T) {
	llm := &fakeLLM{content: sampleJSON}

	_, err := NewGenerator(llm).Generate(context.Background(), "   ")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Empty(t, llm.prompts)
}

func TestGeneratorFlaggedIdea(t *testing.T) {
	llm := &fakeLLM{
		content:    sampleJSON,
		moderation: &ai.ModerationResult{Safe: false, Categories: []string{"violence"}},
	}

	_, err := NewGenerator(llm).Generate(context.Background(), "something bad")
	require.True(t, errors.Is(err, ErrFlagged))

	var fe *FlaggedError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{"violence"}, fe.Categories)
	assert.Empty(t, llm.prompts)
}

func TestGeneratorModerationFailureFailsOpen(t *testing.T) {
	llm := &fakeLLM{content: sampleJSON, modErr: errors.New("moderation down")}

	got, err := NewGenerator(llm).Generate(context.Background(), "idea")
	require.NoError(t, err)
	assert.Equal(t, "FitSlot", got["startupName"])
}

func TestGeneratorPropagatesUpstreamError(t *testing.T) {
	upstream := &ai.UpstreamError{Provider: "openrouter", StatusCode: 429, Body: "rate limited"}
	llm := &fakeLLM{err: upstream}

	_, err := NewGenerator(llm).Generate(context.Background(), "idea")
	var ue *ai.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 429, ue.StatusCode)
	assert.Len(t, llm.prompts, 1, "no retry")
}

func TestGeneratorMalformedResponse(t *testing.T) {
	llm := &fakeLLM{content: "not json at all"}

	_, err := NewGenerator(llm).Generate(context.Background(), "idea")
	var me *MalformedResponseError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "not json at all", me.Excerpt)
}

func TestGeneratorWithRegistry(t *testing.T) {
	reg := ai.NewRegistry("stub", nil)
	reg.Register("stub", &stubProvider{reply: sampleJSON})

	got, err := NewGenerator(reg).Generate(context.Background(), "idea")
	require.NoError(t, err)
	assert.Equal(t, "Book it", got["tagline"])
}

type stubProvider struct{ reply string }

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.reply, nil
}
