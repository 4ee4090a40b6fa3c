// Package openai implements the assistant backend on the OpenAI chat
// completions API using the official SDK.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/theirongolddev/pricecraft/internal/logging"
	"github.com/theirongolddev/pricecraft/internal/recommend"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	chatTemperature      = 0.7
	chatMaxTokens        = 500
	recommendTemperature = 0.5
	recommendMaxTokens   = 1000
)

// Config maps onto SDK request options.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    int // seconds
	MaxRetries int
}

// Backend talks to OpenAI.
type Backend struct {
	client openai.Client
	model  string
}

var _ recommend.Backend = (*Backend)(nil)

// New creates an OpenAI backend.
func New(config Config) (*Backend, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}
	if config.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(config.MaxRetries))
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	return &Backend{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Name returns the provider identifier.
func (b *Backend) Name() string { return "openai" }

// Model returns the chat model in use.
func (b *Backend) Model() string { return b.model }

// Available is true once a backend has been constructed with a key.
func (b *Backend) Available() bool { return true }

// Chat returns the advisor's reply to history.
func (b *Backend) Chat(ctx context.Context, history []recommend.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(b.model),
		Messages:    toSDKMessages(history),
		Temperature: openai.Float(chatTemperature),
		MaxTokens:   openai.Int(chatMaxTokens),
	}
	return b.complete(ctx, params)
}

// Recommend asks for a JSON recommendation based on summary.
func (b *Backend) Recommend(ctx context.Context, summary string) (recommend.Recommendation, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(recommend.RecommendPrompt),
			openai.UserMessage(recommend.RecommendRequest(summary)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(recommendTemperature),
		MaxTokens:   openai.Int(recommendMaxTokens),
	}

	content, err := b.complete(ctx, params)
	if err != nil {
		return recommend.Recommendation{}, err
	}
	return recommend.ParseRecommendation([]byte(content))
}

func (b *Backend) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	logger := logging.FromContext(ctx)
	logger.Debug("calling OpenAI API", logging.String("model", b.model))

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("OpenAI API call failed", logging.Error(err))
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	logger.Debug("OpenAI API call succeeded",
		logging.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		logging.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: OpenAI returned no choices", recommend.ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

func toSDKMessages(history []recommend.Message) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, len(history))
	for i, msg := range history {
		switch msg.Role {
		case recommend.RoleAssistant:
			messages[i] = openai.AssistantMessage(msg.Content)
		case recommend.RoleSystem:
			messages[i] = openai.SystemMessage(msg.Content)
		default:
			messages[i] = openai.UserMessage(msg.Content)
		}
	}
	return messages
}
