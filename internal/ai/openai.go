package ai

import (
	"context"
	"net/http"
)

// openAIProvider implements the Provider interface using the OpenAI
// chat completions API (POST /v1/chat/completions). OpenRouter and
// Mistral speak the same wire format and reuse it.
type openAIProvider struct {
	name    string
	config  ProviderConfig
	client  *http.Client
	headers map[string]string // extra request headers
	tuning  chatTuning
}

// chatTuning carries the optional sampling parameters of a chat request.
type chatTuning struct {
	Temperature *float64
	MaxTokens   int
}

// newOpenAI creates a new OpenAI provider.
func newOpenAI(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &openAIProvider{
		name:   "openai",
		config: cfg,
		client: &http.Client{},
		tuning: chatTuning{MaxTokens: defaultMaxTokens},
	}
}

func (p *openAIProvider) Name() string { return p.name }

// Generate sends a chat completion request and returns the assistant's
// message content.
func (p *openAIProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.doChat(ctx, p.config.Model, chatMessages(systemPrompt, userPrompt))
}

// doChat performs the HTTP call to the chat completions endpoint.
func (p *openAIProvider) doChat(ctx context.Context, model string, messages []openAIMessage) (string, error) {
	body := openAIRequest{
		Model:       model,
		Messages:    messages,
		Temperature: p.tuning.Temperature,
		MaxTokens:   p.tuning.MaxTokens,
	}

	headers := map[string]string{"Authorization": "Bearer " + p.config.APIKey}
	for k, v := range p.headers {
		headers[k] = v
	}

	respBody, err := postJSON(ctx, p.client, p.name, p.config.BaseURL+"/chat/completions", headers, body)
	if err != nil {
		return "", err
	}

	var result openAIResponse
	if err := decodeEnvelope(p.name, respBody, &result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return requireContent(p.name, "")
	}
	return requireContent(p.name, result.Choices[0].Message.Content)
}

// chatMessages builds the message list, omitting an empty system prompt.
func chatMessages(systemPrompt, userPrompt string) []openAIMessage {
	var messages []openAIMessage
	if systemPrompt != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: systemPrompt})
	}
	return append(messages, openAIMessage{Role: "user", Content: userPrompt})
}

// --- OpenAI-compatible request/response types ---

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
}

type openAIChoice struct {
	Message openAIMessage `json:"message"`
}
