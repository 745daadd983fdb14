package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/atinylittleshell/typeahead/pkg/typeahead"
)

// LLMConfig selects the OpenAI-compatible endpoint used for suggestion
// generation.
type LLMConfig struct {
	Provider    string   `yaml:"provider"`
	BaseURL     string   `yaml:"baseUrl"`
	APIKey      string   `yaml:"apiKey"`
	ModelID     string   `yaml:"modelId"`
	Temperature *float32 `yaml:"temperature"`
}

// NewLLMClient builds a client for the configured provider, defaulting to a
// local ollama endpoint when nothing is configured.
func NewLLMClient(cfg LLMConfig) (*openai.Client, LLMConfig) {
	apiKey := cfg.APIKey
	baseURL := cfg.BaseURL

	switch cfg.Provider {
	case "openai":
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
	case "openrouter":
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
	default: // "ollama" or unset
		if apiKey == "" {
			apiKey = "ollama"
		}
		if baseURL == "" {
			baseURL = "http://localhost:11434/v1/"
		}
	}

	if cfg.ModelID == "" {
		cfg.ModelID = "qwen2.5"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = baseURL
	return openai.NewClientWithConfig(clientConfig), cfg
}

type suggestionResponse struct {
	Suggestions []string `json:"suggestions"`
}

// LLMSource asks a language model for completions of the typed token. The
// topic string describes what kind of items the trigger stands for, e.g.
// "emoji shortcodes" or "usernames".
type LLMSource struct {
	client      *openai.Client
	modelID     string
	temperature *float32
	topic       string
	limit       int
	logger      *zap.Logger
}

// NewLLMSource builds an LLM-backed source.
func NewLLMSource(client *openai.Client, cfg LLMConfig, topic string, limit int, logger *zap.Logger) *LLMSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMSource{
		client:      client,
		modelID:     cfg.ModelID,
		temperature: cfg.Temperature,
		topic:       topic,
		limit:       limit,
		logger:      logger,
	}
}

// Fetch requests up to limit suggestions for the token.
func (s *LLMSource) Fetch(ctx context.Context, token string) ([]typeahead.Candidate, error) {
	userMessage := fmt.Sprintf(`You are an autocomplete engine for %s.
You will be given a partial token typed by me, enclosed in <token> tags.

# Instructions
* Provide up to %d likely completions for the token
* Return only the completed tokens, not surrounding text
* Respond with a JSON object of the shape {"suggestions": ["..."]}

<token>%s</token>`,
		s.topic,
		s.limit,
		token,
	)

	request := openai.ChatCompletionRequest{
		Model: s.modelID,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    "user",
				Content: userMessage,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if s.temperature != nil {
		request.Temperature = *s.temperature
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	chatCompletion, err := s.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("llm suggestion request failed: %w", err)
	}
	if len(chatCompletion.Choices) == 0 {
		return nil, fmt.Errorf("llm suggestion request returned no choices")
	}

	content := chatCompletion.Choices[0].Message.Content
	s.logger.Debug("llm suggestions received", zap.String("token", token), zap.String("content", content))

	return parseSuggestions(content, s.limit)
}

// parseSuggestions decodes the model's JSON response, dropping empty entries
// and capping the result at limit.
func parseSuggestions(content string, limit int) ([]typeahead.Candidate, error) {
	var parsed suggestionResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parsing llm suggestions: %w", err)
	}

	out := make([]typeahead.Candidate, 0, len(parsed.Suggestions))
	for _, v := range parsed.Suggestions {
		if v == "" {
			continue
		}
		out = append(out, typeahead.Candidate{Value: v})
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
