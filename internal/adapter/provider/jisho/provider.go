// Package jisho implements the structured dictionary provider against the
// Jisho search API.
package jisho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/drag2anki/backend/internal/provider"
)

const defaultBaseURL = "https://jisho.org/api/v1"

// Provider fetches structured word entries from the Jisho API.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider with the default Jisho API URL.
func NewProvider(logger *slog.Logger) *Provider {
	return NewProviderWithURL(defaultBaseURL, logger)
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL string, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "jisho"),
	}
}

// Lookup fetches the best dictionary entry for the given text.
// Returns nil, nil when the dictionary has no match.
func (p *Provider) Lookup(ctx context.Context, text string) (*provider.DictResult, error) {
	reqURL := p.baseURL + "/search/words?keyword=" + url.QueryEscape(text)

	p.log.DebugContext(ctx, "jisho request", slog.String("text", text))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("jisho: create request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, req, text)
	if err != nil {
		p.log.ErrorContext(ctx, "jisho request failed", slog.String("text", text), slog.String("error", err.Error()))
		return nil, fmt.Errorf("jisho: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jisho: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jisho: read body: %w", err)
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("jisho: decode json: %w", err)
	}

	if len(payload.Data) == 0 {
		return nil, nil
	}

	result := mapDatum(payload.Data[0])

	p.log.DebugContext(ctx, "jisho response",
		slog.String("text", text),
		slog.Int("senses", len(result.Senses)),
		slog.String("reading", result.Reading),
	)

	return result, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, text string) (*http.Response, error) {
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
	p.log.WarnContext(ctx, "jisho retry", slog.String("text", text), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	return p.httpClient.Do(req)
}

// mapDatum converts the first API match into a provider.DictResult.
// The reading comes from the first written form that declares one.
func mapDatum(d apiDatum) *provider.DictResult {
	result := &provider.DictResult{
		Word:   d.Slug,
		Senses: []provider.SenseResult{},
	}

	for _, jp := range d.Japanese {
		if jp.Reading != "" {
			result.Reading = jp.Reading
			if jp.Word != "" {
				result.Word = jp.Word
			}
			break
		}
	}

	for _, s := range d.Senses {
		if len(s.EnglishDefinitions) == 0 {
			continue
		}
		sense := provider.SenseResult{Glosses: s.EnglishDefinitions}
		if len(s.PartsOfSpeech) > 0 {
			sense.PartOfSpeech = s.PartsOfSpeech[0]
		}
		result.Senses = append(result.Senses, sense)
	}

	return result
}
