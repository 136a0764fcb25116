// Package card implements note construction and the save reconciliation
// flow against the flashcard store.
package card

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/drag2anki/backend/internal/config"
	"github.com/drag2anki/backend/internal/domain"
)

// Decision is the caller's answer to a duplicate conflict.
type Decision string

const (
	// DecisionNone means no decision was supplied; a duplicate stops the
	// flow and is reported back.
	DecisionNone Decision = ""
	// DecisionKeep keeps the existing note untouched.
	DecisionKeep Decision = "keep"
	// DecisionReplace deletes the existing note and inserts the new one.
	DecisionReplace Decision = "replace"
)

// ParseDecision validates a decision string from the transport layer.
func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case DecisionNone, DecisionKeep, DecisionReplace:
		return Decision(s), nil
	default:
		return DecisionNone, domain.NewValidationError("decision", "must be empty, \"keep\" or \"replace\"")
	}
}

type storeGateway interface {
	Version(ctx context.Context) (int, error)
	DeckNames(ctx context.Context) ([]string, error)
	ModelFieldNames(ctx context.Context, model string) ([]string, error)
	FindNotes(ctx context.Context, query string) ([]int64, error)
	NotesInfo(ctx context.Context, ids []int64) ([]domain.StoredNote, error)
	AddNote(ctx context.Context, note domain.NoteRecord) (int64, error)
	DeleteNotes(ctx context.Context, ids []int64) error
}

// Service builds notes and reconciles them into the flashcard store.
type Service struct {
	log   *slog.Logger
	store storeGateway
	cfg   config.AnkiConfig

	mu       sync.Mutex
	mappings map[string]domain.FieldMapping
}

// NewService creates a card service.
func NewService(logger *slog.Logger, store storeGateway, cfg config.AnkiConfig) *Service {
	return &Service{
		log:      logger.With("service", "card"),
		store:    store,
		cfg:      cfg,
		mappings: map[string]domain.FieldMapping{},
	}
}

// SaveWord saves a resolved entry as a note, reconciling duplicates
// according to the caller's decision. An empty deck falls back to the
// configured one.
func (s *Service) SaveWord(ctx context.Context, entry domain.ResolvedEntry, deck string, decision Decision) (domain.SaveOutcome, error) {
	if entry.Key == "" {
		return domain.SaveOutcome{}, domain.NewValidationError("entry", "key required")
	}

	mapping := s.mappingFor(ctx, s.cfg.Template)
	note := BuildNote(entry, mapping, s.deckOrDefault(deck))

	return s.reconcile(ctx, note, mapping.WordField, decision)
}

// SaveComponent saves one kanji breakdown as its own note.
func (s *Service) SaveComponent(ctx context.Context, comp domain.ComponentInfo, deck string, decision Decision) (domain.SaveOutcome, error) {
	if comp.Symbol == "" {
		return domain.SaveOutcome{}, domain.NewValidationError("component", "symbol required")
	}

	mapping := s.mappingFor(ctx, s.cfg.Template)
	note := BuildComponentNote(comp, mapping, s.deckOrDefault(deck))

	return s.reconcile(ctx, note, mapping.WordField, decision)
}

func (s *Service) deckOrDefault(deck string) string {
	if deck == "" {
		return s.cfg.Deck
	}
	return deck
}

// Decks lists the store's decks.
func (s *Service) Decks(ctx context.Context) ([]string, error) {
	names, err := s.store.DeckNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("card: list decks: %w", err)
	}
	return names, nil
}

// Probe checks store connectivity via the version action.
func (s *Service) Probe(ctx context.Context) error {
	if _, err := s.store.Version(ctx); err != nil {
		return fmt.Errorf("card: probe store: %w", err)
	}
	return nil
}

// mappingFor returns the memoized field mapping for a template, discovering
// it from the store's live field list on first use. Discovery failures fall
// back to the configured defaults and are not memoized, so a recovered
// store gets asked again.
func (s *Service) mappingFor(ctx context.Context, template string) domain.FieldMapping {
	s.mu.Lock()
	if m, ok := s.mappings[template]; ok {
		s.mu.Unlock()
		return m
	}
	s.mu.Unlock()

	defaults := s.defaultMapping(template)

	fields, err := s.store.ModelFieldNames(ctx, template)
	if err != nil {
		s.log.WarnContext(ctx, "field discovery failed, using configured mapping",
			slog.String("template", template),
			slog.String("error", err.Error()),
		)
		return defaults
	}

	mapping := ResolveFields(fields, defaults)

	s.mu.Lock()
	s.mappings[template] = mapping
	s.mu.Unlock()

	s.log.DebugContext(ctx, "field mapping resolved",
		slog.String("template", template),
		slog.String("word_field", mapping.WordField),
		slog.String("meaning_field", mapping.MeaningField),
	)

	return mapping
}

func (s *Service) defaultMapping(template string) domain.FieldMapping {
	m := domain.FieldMapping{
		Template:     template,
		WordField:    s.cfg.WordField,
		MeaningField: s.cfg.MeaningField,
	}
	if s.cfg.ReadingField != "" {
		f := s.cfg.ReadingField
		m.ReadingField = &f
	}
	if s.cfg.ComponentField != "" {
		f := s.cfg.ComponentField
		m.ComponentField = &f
	}
	return m
}
