// Package anki implements the flashcard store gateway speaking the
// AnkiConnect JSON-RPC protocol, version 6.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/drag2anki/backend/internal/domain"
)

const protocolVersion = 6

// Gateway issues AnkiConnect actions against a single store endpoint.
type Gateway struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewGateway creates a Gateway for the given AnkiConnect URL.
func NewGateway(url string, logger *slog.Logger) *Gateway {
	return &Gateway{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "anki"),
	}
}

type rpcRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

type noteInfo struct {
	NoteID    int64                `json:"noteId"`
	ModelName string               `json:"modelName"`
	Fields    map[string]fieldInfo `json:"fields"`
	Tags      []string             `json:"tags"`
}

type fieldInfo struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// Version returns the protocol version the store reports. It doubles as the
// connectivity probe.
func (g *Gateway) Version(ctx context.Context) (int, error) {
	var v int
	if err := g.invoke(ctx, "version", nil, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// DeckNames lists the decks known to the store.
func (g *Gateway) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := g.invoke(ctx, "deckNames", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// ModelFieldNames returns the declared fields of a note template, in order.
func (g *Gateway) ModelFieldNames(ctx context.Context, model string) ([]string, error) {
	params := map[string]any{"modelName": model}
	var fields []string
	if err := g.invoke(ctx, "modelFieldNames", params, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// FindNotes returns the ids of notes matching a store search query.
func (g *Gateway) FindNotes(ctx context.Context, query string) ([]int64, error) {
	params := map[string]any{"query": query}
	var ids []int64
	if err := g.invoke(ctx, "findNotes", params, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// NotesInfo fetches full note contents for the given ids.
func (g *Gateway) NotesInfo(ctx context.Context, ids []int64) ([]domain.StoredNote, error) {
	params := map[string]any{"notes": ids}
	var infos []noteInfo
	if err := g.invoke(ctx, "notesInfo", params, &infos); err != nil {
		return nil, err
	}

	notes := make([]domain.StoredNote, 0, len(infos))
	for _, info := range infos {
		note := domain.StoredNote{
			ID:       info.NoteID,
			Template: info.ModelName,
			Fields:   make(map[string]domain.StoredField, len(info.Fields)),
			Tags:     info.Tags,
		}
		for name, f := range info.Fields {
			note.Fields[name] = domain.StoredField{Value: f.Value, Order: f.Order}
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// AddNote inserts one note and returns its new id.
func (g *Gateway) AddNote(ctx context.Context, note domain.NoteRecord) (int64, error) {
	params := map[string]any{
		"note": map[string]any{
			"deckName":  note.Deck,
			"modelName": note.Template,
			"fields":    note.Fields,
			"tags":      note.Tags,
			"options":   map[string]any{"allowDuplicate": false},
		},
	}
	var id int64
	if err := g.invoke(ctx, "addNote", params, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteNotes removes the given notes from the store.
func (g *Gateway) DeleteNotes(ctx context.Context, ids []int64) error {
	params := map[string]any{"notes": ids}
	return g.invoke(ctx, "deleteNotes", params, nil)
}

func (g *Gateway) invoke(ctx context.Context, action string, params, out any) error {
	body, err := json.Marshal(rpcRequest{Action: action, Version: protocolVersion, Params: params})
	if err != nil {
		return fmt.Errorf("anki: encode %s: %w", action, err)
	}

	g.log.DebugContext(ctx, "anki action", slog.String("action", action))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("anki: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.log.WarnContext(ctx, "anki unreachable", slog.String("action", action), slog.String("error", err.Error()))
		return fmt.Errorf("anki: %s: %w", action, domain.ErrStoreUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anki: %s: unexpected status %d", action, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anki: %s: read body: %w", action, err)
	}

	var parsed rpcResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return fmt.Errorf("anki: %s: decode json: %w", action, err)
	}

	if parsed.Error != nil && *parsed.Error != "" {
		return g.classify(ctx, action, *parsed.Error)
	}

	if out != nil {
		if err := json.Unmarshal(parsed.Result, out); err != nil {
			return fmt.Errorf("anki: %s: decode result: %w", action, err)
		}
	}

	return nil
}

var schemaErrRe = regexp.MustCompile(`(?i)(field|fields|required|missing|not\s+found)`)

// classify maps the store's free-text error strings onto domain errors.
// Anything unrecognized stays a plain error.
func (g *Gateway) classify(ctx context.Context, action, msg string) error {
	g.log.DebugContext(ctx, "anki error", slog.String("action", action), slog.String("message", msg))

	if strings.Contains(strings.ToLower(msg), "duplicate") {
		return fmt.Errorf("anki: %s: %s: %w", action, msg, domain.ErrDuplicate)
	}
	if schemaErrRe.MatchString(msg) {
		return fmt.Errorf("anki: %s: %s: %w", action, msg, domain.ErrSchemaMismatch)
	}
	return fmt.Errorf("anki: %s: %s", action, msg)
}
