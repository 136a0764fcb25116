// Package rest exposes the resolution and card flows over plain JSON HTTP.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/drag2anki/backend/internal/domain"
)

// resolverService defines the minimal interface needed by ResolveHandler.
type resolverService interface {
	Resolve(ctx context.Context, text string) (domain.ResolvedEntry, error)
}

// ResolveHandler serves the lexical resolution endpoint.
type ResolveHandler struct {
	svc resolverService
	log *slog.Logger
}

// NewResolveHandler creates a ResolveHandler.
func NewResolveHandler(svc resolverService, logger *slog.Logger) *ResolveHandler {
	return &ResolveHandler{svc: svc, log: logger.With("handler", "resolve")}
}

type resolveRequest struct {
	Text string `json:"text"`
}

// Resolve handles POST /v1/resolve.
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.Resolve(r.Context(), req.Text)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *ResolveHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.ErrorContext(r.Context(), "resolve failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
