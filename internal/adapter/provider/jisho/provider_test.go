package jisho

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvider_Lookup_Success(t *testing.T) {
	t.Parallel()

	body := `{
		"data": [{
			"slug": "偶然",
			"japanese": [
				{"word": "偶然", "reading": "ぐうぜん"}
			],
			"senses": [
				{
					"english_definitions": ["coincidence", "chance"],
					"parts_of_speech": ["Noun"]
				},
				{
					"english_definitions": ["by chance"],
					"parts_of_speech": ["Adverb"]
				}
			]
		}]
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/words" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("keyword"); got != "偶然" {
			t.Errorf("keyword = %q, want %q", got, "偶然")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, newTestLogger())
	result, err := p.Lookup(context.Background(), "偶然")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}

	if result.Word != "偶然" {
		t.Errorf("Word = %q, want %q", result.Word, "偶然")
	}
	if result.Reading != "ぐうぜん" {
		t.Errorf("Reading = %q, want %q", result.Reading, "ぐうぜん")
	}
	if len(result.Senses) != 2 {
		t.Fatalf("len(Senses) = %d, want 2", len(result.Senses))
	}
	s0 := result.Senses[0]
	if len(s0.Glosses) != 2 || s0.Glosses[0] != "coincidence" {
		t.Errorf("Senses[0].Glosses = %v", s0.Glosses)
	}
	if s0.PartOfSpeech != "Noun" {
		t.Errorf("Senses[0].PartOfSpeech = %q, want %q", s0.PartOfSpeech, "Noun")
	}
}

func TestProvider_Lookup_EmptyData(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, newTestLogger())
	result, err := p.Lookup(context.Background(), "asdfxyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for empty data, got %+v", result)
	}
}

func TestProvider_Lookup_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, newTestLogger())
	result, err := p.Lookup(context.Background(), "asdfxyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for 404, got %+v", result)
	}
}

func TestProvider_Lookup_ServerErrorRetrySuccess(t *testing.T) {
	t.Parallel()

	var callCount atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := callCount.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":[{"slug":"猫","japanese":[{"word":"猫","reading":"ねこ"}],"senses":[{"english_definitions":["cat"]}]}]}`))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, newTestLogger())
	result, err := p.Lookup(context.Background(), "猫")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result after retry")
	}
	if result.Reading != "ねこ" {
		t.Errorf("Reading = %q, want %q", result.Reading, "ねこ")
	}
	if got := callCount.Load(); got != 2 {
		t.Errorf("call count = %d, want 2", got)
	}
}

func TestProvider_Lookup_ServerErrorBothAttemptsFail(t *testing.T) {
	t.Parallel()

	var callCount atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, newTestLogger())
	_, err := p.Lookup(context.Background(), "fail")
	if err == nil {
		t.Fatal("expected error when both attempts fail")
	}
	if got := callCount.Load(); got != 2 {
		t.Errorf("call count = %d, want 2", got)
	}
}

func TestProvider_Lookup_InvalidJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`not valid json`))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, newTestLogger())
	_, err := p.Lookup(context.Background(), "bad")
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestProvider_Lookup_ReadingFromLaterForm(t *testing.T) {
	t.Parallel()

	// First written form has no reading; the second one does.
	body := `{
		"data": [{
			"slug": "日本",
			"japanese": [
				{"word": "日本"},
				{"word": "日本", "reading": "にほん"}
			],
			"senses": [
				{"english_definitions": ["Japan"], "parts_of_speech": ["Noun"]}
			]
		}]
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, newTestLogger())
	result, err := p.Lookup(context.Background(), "日本")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reading != "にほん" {
		t.Errorf("Reading = %q, want %q", result.Reading, "にほん")
	}
}
