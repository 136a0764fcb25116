// Package openai implements the generative fallback provider on top of the
// OpenAI chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/drag2anki/backend/internal/provider"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 200
)

// Config holds the settings the provider needs from the application config.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
}

// Provider asks a chat model for a reading and a short gloss when the
// structured dictionaries come up empty.
type Provider struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider, filling in defaults for unset fields.
func NewProvider(cfg Config, logger *slog.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &Provider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "openai"),
	}
}

const systemPrompt = "You are a Japanese dictionary assistant. Answer with " +
	"exactly two lines:\nreading: <hiragana reading>\nmeaning: <short English gloss>\n" +
	"No other text."

// GenerateWord asks for the reading and gloss of a single word.
func (p *Provider) GenerateWord(ctx context.Context, word string) (*provider.GenResult, error) {
	prompt := fmt.Sprintf("Give the reading and meaning of the Japanese word %q.", word)
	return p.generate(ctx, prompt, word)
}

// GeneratePhrase asks for the reading and a translation of a phrase or sentence.
func (p *Provider) GeneratePhrase(ctx context.Context, phrase string) (*provider.GenResult, error) {
	prompt := fmt.Sprintf("Give the reading and a natural translation of the Japanese phrase %q.", phrase)
	return p.generate(ctx, prompt, phrase)
}

// GenerateChar asks for the readings and meaning of a single character.
func (p *Provider) GenerateChar(ctx context.Context, symbol string) (*provider.GenResult, error) {
	prompt := fmt.Sprintf("Give the reading and meaning of the single kanji character %q.", symbol)
	return p.generate(ctx, prompt, symbol)
}

func (p *Provider) generate(ctx context.Context, prompt, text string) (*provider.GenResult, error) {
	payload := chatRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: p.cfg.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("openai: encode request: %w", err)
	}

	p.log.DebugContext(ctx, "openai request", slog.String("text", text), slog.String("model", p.cfg.Model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.doWithRetry(ctx, req, body, text)
	if err != nil {
		p.log.ErrorContext(ctx, "openai request failed", slog.String("text", text), slog.String("error", err.Error()))
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("openai: decode json: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai: api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, nil
	}

	result := ParseLabeled(parsed.Choices[0].Message.Content)

	p.log.DebugContext(ctx, "openai response",
		slog.String("text", text),
		slog.Bool("has_reading", result.Reading != ""),
		slog.Bool("has_meaning", result.Meaning != ""),
	)

	return &result, nil
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors. The request body is re-attached before the second attempt.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, body []byte, text string) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "openai retry", slog.String("text", text), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	retry := req.Clone(ctx)
	retry.Body = io.NopCloser(bytes.NewReader(body))

	return p.httpClient.Do(retry)
}
