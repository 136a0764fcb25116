package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/drag2anki/backend/internal/domain"
	"github.com/drag2anki/backend/internal/service/card"
)

// cardService defines the minimal interface needed by CardsHandler.
type cardService interface {
	SaveWord(ctx context.Context, entry domain.ResolvedEntry, deck string, decision card.Decision) (domain.SaveOutcome, error)
	SaveComponent(ctx context.Context, comp domain.ComponentInfo, deck string, decision card.Decision) (domain.SaveOutcome, error)
	Decks(ctx context.Context) ([]string, error)
}

// CardsHandler serves the card save and deck listing endpoints. A card save
// resolves the text first, then hands the entry to the card service.
type CardsHandler struct {
	resolver resolverService
	cards    cardService
	log      *slog.Logger
}

// NewCardsHandler creates a CardsHandler.
func NewCardsHandler(resolver resolverService, cards cardService, logger *slog.Logger) *CardsHandler {
	return &CardsHandler{
		resolver: resolver,
		cards:    cards,
		log:      logger.With("handler", "cards"),
	}
}

type saveCardRequest struct {
	Text     string `json:"text"`
	Deck     string `json:"deck"`
	Decision string `json:"decision"`
}

type saveComponentRequest struct {
	Text     string `json:"text"`
	Symbol   string `json:"symbol"`
	Deck     string `json:"deck"`
	Decision string `json:"decision"`
}

type schemaMismatchResponse struct {
	Error    string   `json:"error"`
	Template string   `json:"template"`
	Fields   []string `json:"fields"`
}

// Save handles POST /v1/cards.
func (h *CardsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decision, err := card.ParseDecision(req.Decision)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.resolver.Resolve(r.Context(), req.Text)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	outcome, err := h.cards.SaveWord(r.Context(), entry, req.Deck, decision)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// SaveComponent handles POST /v1/cards/components. The component is taken
// from a fresh resolution of the text, so the breakdown matches what the
// caller saw in the popup.
func (h *CardsHandler) SaveComponent(w http.ResponseWriter, r *http.Request) {
	var req saveComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decision, err := card.ParseDecision(req.Decision)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.resolver.Resolve(r.Context(), req.Text)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	comp, ok := findComponent(entry, req.Symbol)
	if !ok {
		writeError(w, http.StatusBadRequest, "symbol not found in resolved components")
		return
	}

	outcome, err := h.cards.SaveComponent(r.Context(), comp, req.Deck, decision)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// Decks handles GET /v1/decks.
func (h *CardsHandler) Decks(w http.ResponseWriter, r *http.Request) {
	names, err := h.cards.Decks(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"decks": names})
}

func (h *CardsHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var mismatch *domain.SchemaMismatchError

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &mismatch):
		writeJSON(w, http.StatusUnprocessableEntity, schemaMismatchResponse{
			Error:    "note schema mismatch",
			Template: mismatch.Template,
			Fields:   mismatch.Fields,
		})
	case errors.Is(err, domain.ErrStoreUnreachable):
		writeError(w, http.StatusServiceUnavailable, "flashcard store unreachable")
	default:
		h.log.ErrorContext(r.Context(), "card request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func findComponent(entry domain.ResolvedEntry, symbol string) (domain.ComponentInfo, bool) {
	for _, c := range entry.Components {
		if c.Symbol == symbol {
			return c, true
		}
	}
	return domain.ComponentInfo{}, false
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
