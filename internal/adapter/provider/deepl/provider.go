// Package deepl implements the sentence translation provider against the
// DeepL REST API.
package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL    = "https://api-free.deepl.com/v2"
	defaultTargetLang = "KO"
)

type apiResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Config holds the settings the provider needs from the application config.
type Config struct {
	BaseURL    string
	APIKey     string
	TargetLang string
}

// Provider translates phrases into the configured target language.
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
	if cfg.TargetLang == "" {
		cfg.TargetLang = defaultTargetLang
	}
	return &Provider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "deepl"),
	}
}

// Translate returns the first translation of text from sourceLang into the
// configured target language. Returns "" with no error when DeepL produced
// no translation.
func (p *Provider) Translate(ctx context.Context, text, sourceLang string) (string, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("source_lang", strings.ToUpper(sourceLang))
	form.Set("target_lang", p.cfg.TargetLang)
	body := form.Encode()

	p.log.DebugContext(ctx, "deepl request",
		slog.String("source_lang", sourceLang),
		slog.Int("text_len", len(text)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/translate", strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("deepl: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+p.cfg.APIKey)

	resp, err := p.doWithRetry(ctx, req, body)
	if err != nil {
		p.log.ErrorContext(ctx, "deepl request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("deepl: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepl: unexpected status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("deepl: read body: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("deepl: decode json: %w", err)
	}
	if len(parsed.Translations) == 0 {
		return "", nil
	}

	return parsed.Translations[0].Text, nil
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors. The form body is re-attached before the second attempt.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, body string) (*http.Response, error) {
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
	p.log.WarnContext(ctx, "deepl retry", slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	retry := req.Clone(ctx)
	retry.Body = io.NopCloser(strings.NewReader(body))

	return p.httpClient.Do(retry)
}
