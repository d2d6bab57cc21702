package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/observability"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 30 * time.Second
)

// Chat issues JSON-only completion requests against one model.
type Chat interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// Transcriber converts an audio file into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Client is the shared connection to the configured AI provider. All Chat
// handles and the Transcriber share its rate limiter and retry policy.
type Client struct {
	cfg    config.AI
	logger *slog.Logger

	openaiClient *openai.Client
	geminiClient *genai.Client

	limiter *rate.Limiter
	metrics *observability.Metrics

	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	sleeper     func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithMetrics attaches Prometheus instruments for provider calls.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(c *Client) { c.metrics = metrics }
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.baseDelay = baseDelay
		c.maxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) { c.sleeper = sleeper }
}

// New constructs a provider client from configuration.
func New(ctx context.Context, cfg config.AI, logger *slog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ai: api key required")
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	client := &Client{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "ai"),
		limiter:     rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst),
		maxAttempts: attempts,
		baseDelay:   defaultRetryBaseDelay,
		maxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		apiConfig := openai.DefaultConfig(cfg.APIKey)
		if strings.TrimSpace(cfg.BaseURL) != "" {
			apiConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		client.openaiClient = openai.NewClientWithConfig(apiConfig)
	case ProviderGemini:
		geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("ai: create gemini client: %w", err)
		}
		client.geminiClient = geminiClient
	default:
		return nil, fmt.Errorf("ai: unknown provider %q", cfg.Provider)
	}

	return client, nil
}

// Provider reports the configured provider name.
func (c *Client) Provider() string {
	return c.cfg.Provider
}

// Chat returns a completion handle bound to the given model.
func (c *Client) Chat(model string) Chat {
	return &chatModel{client: c, model: strings.TrimSpace(model)}
}

// Transcriber returns the speech-to-text handle for the configured
// transcription model.
func (c *Client) Transcriber() Transcriber {
	return &transcriber{client: c, model: c.cfg.TranscriptionModel}
}

// HealthCheck issues a fast completion ping to verify the credentials and
// chat model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	content, err := c.Chat(c.cfg.AnalysisModel).CompleteJSON(ctx,
		"You must respond with JSON only.",
		`Respond with {"ok":true}`,
	)
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeJSON(content, &parsed); err != nil {
		return fmt.Errorf("ai health: parse payload: %w", err)
	}
	if !parsed.OK {
		return errors.New("ai health: unexpected response")
	}
	return nil
}

type chatModel struct {
	client *Client
	model  string
}

func (m *chatModel) Model() string { return m.model }

func (m *chatModel) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if systemPrompt == "" {
		return "", errors.New("ai complete: system prompt required")
	}
	if userPrompt == "" {
		return "", errors.New("ai complete: user prompt required")
	}
	if m.model == "" {
		return "", errors.New("ai complete: model required")
	}

	return m.client.callWithRetry(ctx, "completion", func(callCtx context.Context) (string, error) {
		if m.client.geminiClient != nil {
			return m.client.completeGemini(callCtx, m.model, systemPrompt, userPrompt)
		}
		return m.client.completeOpenAI(callCtx, m.model, systemPrompt, userPrompt)
	})
}

func (c *Client) completeOpenAI(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.openaiClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai complete: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", &emptyContentError{Operation: "ai complete", Detail: "empty choices"}
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", &emptyContentError{
			Operation: "ai complete",
			Detail:    fmt.Sprintf("empty content (finish_reason=%q)", resp.Choices[0].FinishReason),
		}
	}
	return content, nil
}

func (c *Client) completeGemini(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.geminiClient.Models.GenerateContent(ctx, model,
		genai.Text(userPrompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return "", fmt.Errorf("ai complete: %w", err)
	}
	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return "", &emptyContentError{Operation: "ai complete", Detail: "empty content"}
	}
	return content, nil
}
