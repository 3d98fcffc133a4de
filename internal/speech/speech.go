// Package speech relays text to an external text-to-speech service and hands
// back the synthesized audio. The engine never interprets the audio; this is
// a pure pass-through boundary.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// ErrSpeechUnavailable wraps network or service failures reaching the TTS backend.
var ErrSpeechUnavailable = errors.New("speech service unavailable")

// DefaultTimeout bounds one synthesis round trip.
const DefaultTimeout = 15 * time.Second

// Opts holds configuration options for the speech relay client.
type Opts struct {
	Endpoint string
	APIKey   string
	Voice    string
	Timeout  time.Duration
}

// Option defines a configuration option for the speech relay client.
type Option func(*Opts)

// WithEndpoint sets the TTS service URL.
func WithEndpoint(url string) Option {
	return func(o *Opts) { o.Endpoint = url }
}

// WithAPIKey sets the bearer token sent to the TTS service.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithVoice selects the synthesis voice.
func WithVoice(voice string) Option {
	return func(o *Opts) { o.Voice = voice }
}

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// Client relays synthesis requests to an external TTS service.
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	voice    string
}

// NewClient creates a speech relay client. The endpoint falls back to the
// SPEECH_API_URL environment variable, the key to SPEECH_API_KEY.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = os.Getenv("SPEECH_API_URL")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("SPEECH_API_KEY")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("speech endpoint not set")
	}
	slog.Debug("speech.NewClient: configuration loaded", "endpoint", cfg.Endpoint, "voice", cfg.Voice)
	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout},
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		voice:    cfg.Voice,
	}, nil
}

// synthesisRequest is the wire format the TTS service accepts.
type synthesisRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// Synthesize sends text to the TTS service and returns the audio bytes plus
// their content type.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	payload, err := json.Marshal(synthesisRequest{Text: text, Voice: c.voice})
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("Speech.Synthesize: request failed", "error", err)
		return nil, "", fmt.Errorf("%w: %v", ErrSpeechUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("Speech.Synthesize: service returned non-OK status", "status", resp.StatusCode)
		return nil, "", fmt.Errorf("%w: status %d", ErrSpeechUnavailable, resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading audio body: %v", ErrSpeechUnavailable, err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	slog.Debug("Speech.Synthesize: audio received", "bytes", len(audio), "content_type", contentType)
	return audio, contentType, nil
}
