// Package gemini implements the assistant backend on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/theirongolddev/pricecraft/internal/logging"
	"github.com/theirongolddev/pricecraft/internal/recommend"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.0-flash"

	chatTemperature      = 0.7
	chatMaxTokens        = 500
	recommendTemperature = 0.5
	recommendMaxTokens   = 1000
)

// Config holds the Gemini connection settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    int // seconds, per request
	MaxRetries int // extra attempts after a transient failure
}

// Backend talks to Gemini.
type Backend struct {
	client     *genai.Client
	model      string
	maxRetries int
}

var retryBackoff = 250 * time.Millisecond

var _ recommend.Backend = (*Backend)(nil)

// New creates a Gemini backend.
func New(ctx context.Context, config Config) (*Backend, error) {
	if config.APIKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	httpOpts := genai.HTTPOptions{BaseURL: config.BaseURL}
	if config.Timeout > 0 {
		timeout := time.Duration(config.Timeout) * time.Second
		httpOpts.Timeout = &timeout
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      config.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Backend{client: c, model: model, maxRetries: max(0, config.MaxRetries)}, nil
}

// Name returns the provider identifier.
func (b *Backend) Name() string { return "gemini" }

// Model returns the model in use.
func (b *Backend) Model() string { return b.model }

// Available is true once a backend has been constructed with a key.
func (b *Backend) Available() bool { return true }

// Chat returns the advisor's reply. System messages become the system
// instruction; the last message must come from the user.
func (b *Backend) Chat(ctx context.Context, history []recommend.Message) (string, error) {
	if len(history) == 0 {
		return "", errors.New("gemini: no messages")
	}
	last := history[len(history)-1]
	if last.Role != recommend.RoleUser {
		return "", errors.New("gemini: last message must be from user")
	}

	system, turns := splitSystem(history[:len(history)-1])
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr[float32](chatTemperature),
		MaxOutputTokens:   chatMaxTokens,
	}

	chat, err := b.client.Chats.Create(ctx, b.model, cfg, turns)
	if err != nil {
		return "", fmt.Errorf("gemini: creating chat: %w", err)
	}

	logger := logging.FromContext(ctx)
	logger.Debug("calling Gemini API", logging.String("model", b.model))

	var resp *genai.GenerateContentResponse
	err = b.retry(ctx, func() error {
		var err error
		resp, err = chat.SendMessage(ctx, genai.Part{Text: last.Content})
		return err
	})
	if err != nil {
		logger.Error("Gemini API call failed", logging.Error(err))
		return "", fmt.Errorf("gemini: %w", err)
	}
	return responseText(resp), nil
}

// Recommend asks for a JSON recommendation based on summary.
func (b *Backend) Recommend(ctx context.Context, summary string) (recommend.Recommendation, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: recommend.RecommendPrompt}}},
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](recommendTemperature),
		MaxOutputTokens:   recommendMaxTokens,
	}

	logger := logging.FromContext(ctx)
	logger.Debug("requesting Gemini recommendation", logging.String("model", b.model))

	var resp *genai.GenerateContentResponse
	err := b.retry(ctx, func() error {
		var err error
		resp, err = b.client.Models.GenerateContent(ctx, b.model,
			genai.Text(recommend.RecommendRequest(summary)), cfg)
		return err
	})
	if err != nil {
		logger.Error("Gemini API call failed", logging.Error(err))
		return recommend.Recommendation{}, fmt.Errorf("gemini: %w", err)
	}
	return recommend.ParseRecommendation([]byte(responseText(resp)))
}

// retry runs call, repeating it up to maxRetries times while the failure
// looks transient.
func (b *Backend) retry(ctx context.Context, call func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = call(); err == nil || attempt >= b.maxRetries || !transient(err) {
			return err
		}
		logging.FromContext(ctx).Warn("retrying Gemini call",
			logging.Int("attempt", attempt+1), logging.Error(err))
		select {
		case <-ctx.Done():
			return err
		case <-time.After(retryBackoff * time.Duration(attempt+1)):
		}
	}
}

// transient reports whether err is worth another attempt. Client errors
// other than 429 are final.
func transient(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// splitSystem pulls system messages out into a single instruction and maps
// the remaining turns to Gemini roles.
func splitSystem(msgs []recommend.Message) (*genai.Content, []*genai.Content) {
	var system *genai.Content
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case recommend.RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, &genai.Part{Text: m.Content})
		case recommend.RoleAssistant:
			out = append(out, &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: m.Content}}})
		default:
			out = append(out, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: m.Content}}})
		}
	}
	return system, out
}
