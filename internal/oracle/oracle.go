// Package oracle provides the language oracle client used for classification,
// extraction, and free-form reply generation via the OpenAI API.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/metrics"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

// Error variables for oracle failures.
var (
	// ErrOracleUnavailable wraps network or API failures reaching the oracle.
	// It is fatal for the turn; no retry happens at this layer.
	ErrOracleUnavailable = errors.New("oracle unavailable")
	// ErrNoChoicesReturned indicates the oracle answered with no completion choices.
	ErrNoChoicesReturned = errors.New("no choices returned")
	// ErrAPIKeyNotSet indicates no API key was provided via options or environment.
	ErrAPIKeyNotSet = errors.New("OPENAI_API_KEY not set")
)

// ClientInterface defines the oracle contract consumed by handler strategies.
// Implementations prepend the instruction as a system directive, normalize the
// turns into strict speaker alternation, and return the trimmed reply text.
type ClientInterface interface {
	Call(ctx context.Context, instruction string, turns []models.Turn) (string, error)
}

// completionService is the minimal slice of the OpenAI client we depend on.
type completionService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Opts holds configuration options for the oracle client.
type Opts struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Option defines a configuration option for the oracle client.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithBaseURL points the client at a non-default API endpoint (e.g. an Azure
// deployment or a local gateway).
func WithBaseURL(url string) Option {
	return func(o *Opts) { o.BaseURL = url }
}

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(o *Opts) { o.Model = model }
}

// Client wraps the OpenAI chat completion service as a language oracle.
type Client struct {
	chat  completionService
	model string
}

// NewClient initializes an oracle client. The API key falls back to the
// OPENAI_API_KEY environment variable when not provided via options.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if cfg.Model == "" {
		cfg.Model = openai.ChatModelGPT4oMini
	}
	slog.Debug("oracle.NewClient: configuration loaded", "base_url_set", cfg.BaseURL != "", "model", cfg.Model)

	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	cli := openai.NewClient(reqOpts...)
	return &Client{chat: &cli.Chat.Completions, model: cfg.Model}, nil
}

// Call sends the instruction plus normalized conversation turns to the oracle
// and returns its literal reply trimmed of surrounding whitespace.
func (c *Client) Call(ctx context.Context, instruction string, turns []models.Turn) (string, error) {
	merged := MergeConsecutiveTurns(turns)
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(merged)+1)
	messages = append(messages, openai.SystemMessage(instruction))
	for _, t := range merged {
		switch t.Role {
		case models.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(t.Content))
		default:
			messages = append(messages, openai.UserMessage(t.Content))
		}
	}

	slog.Debug("Oracle.Call: sending completion request", "turns", len(merged), "model", c.model)
	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		slog.Error("Oracle.Call: completion request failed", "error", err)
		metrics.IncOracleCall("error")
		return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		slog.Error("Oracle.Call: completion returned no choices")
		metrics.IncOracleCall("error")
		return "", ErrNoChoicesReturned
	}
	metrics.IncOracleCall("ok")
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	slog.Debug("Oracle.Call: received reply", "length", len(reply))
	return reply, nil
}
