package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/KajetanPoliak/proklep/internal/cache"
	"github.com/KajetanPoliak/proklep/internal/model"
)

// OpenAIProvider implements Provider over the OpenAI Chat Completions API.
// Responses are cached by prompt digest so re-runs of the same listing do
// not re-bill.
type OpenAIProvider struct {
	client *openai.Client
	config model.LLMConfig
	cache  cache.Cache
}

// NewOpenAIProvider creates an OpenAI provider. responses may be nil to
// disable caching.
func NewOpenAIProvider(config model.LLMConfig, responses cache.Cache) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		cache:  responses,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks that the API accepts our credentials.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// GenerateJSON runs one structured-generation call and unmarshals the JSON
// response into out.
func (p *OpenAIProvider) GenerateJSON(ctx context.Context, req Request, out any) error {
	modelName := req.Model
	if modelName == "" {
		modelName = p.config.ResolvedModel()
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	cacheKey := cache.Key("llm", p.Name(), modelName, req.System, req.Prompt)
	if p.cache != nil {
		if cached, ok := p.cache.Get(cacheKey); ok {
			return decodeJSON(cached, out)
		}
	}

	timeout := p.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := p.client.CreateChatCompletion(callCtx, chatReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("openai: %w", ErrTimeout)
		}
		return fmt.Errorf("openai: %w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("openai: %w: empty choice list", ErrMalformed)
	}

	body := []byte(stripFences(resp.Choices[0].Message.Content))
	if err := decodeJSON(body, out); err != nil {
		return err
	}
	if p.cache != nil {
		_ = p.cache.Set(cacheKey, body, 0)
	}
	return nil
}

func decodeJSON(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("openai: %w: %v", ErrMalformed, err)
	}
	return nil
}

// stripFences removes a markdown code fence some models wrap JSON in even
// when asked for a bare object.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
