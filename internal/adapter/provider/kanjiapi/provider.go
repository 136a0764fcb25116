// Package kanjiapi implements the per-character provider against the
// kanjiapi.dev REST API.
package kanjiapi

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

const defaultBaseURL = "https://kanjiapi.dev"

// Provider fetches meanings and readings for a single kanji character.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider with the default kanjiapi.dev URL.
func NewProvider(logger *slog.Logger) *Provider {
	return NewProviderWithURL(defaultBaseURL, logger)
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL string, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "kanjiapi"),
	}
}

// Fetch returns the character entry for the given kanji.
// Returns nil, nil when the API does not know the character.
func (p *Provider) Fetch(ctx context.Context, symbol string) (*provider.CharResult, error) {
	reqURL := p.baseURL + "/v1/kanji/" + url.PathEscape(symbol)

	p.log.DebugContext(ctx, "kanjiapi request", slog.String("symbol", symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("kanjiapi: create request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, req, symbol)
	if err != nil {
		p.log.ErrorContext(ctx, "kanjiapi request failed", slog.String("symbol", symbol), slog.String("error", err.Error()))
		return nil, fmt.Errorf("kanjiapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kanjiapi: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kanjiapi: read body: %w", err)
	}

	var payload apiKanji
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("kanjiapi: decode json: %w", err)
	}

	result := &provider.CharResult{
		Symbol:      symbol,
		Meanings:    payload.Meanings,
		OnReadings:  payload.OnReadings,
		KunReadings: payload.KunReadings,
	}

	p.log.DebugContext(ctx, "kanjiapi response",
		slog.String("symbol", symbol),
		slog.Int("meanings", len(result.Meanings)),
	)

	return result, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, symbol string) (*http.Response, error) {
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
	p.log.WarnContext(ctx, "kanjiapi retry", slog.String("symbol", symbol), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	return p.httpClient.Do(req)
}
