package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/drag2anki/backend/internal/domain"
)

// Reconciliation states. The flow is strictly forward except for a single
// restart back to checking when an insert loses a race.
type reconcileState string

const (
	stateChecking  reconcileState = "checking"
	stateNotFound  reconcileState = "not_found"
	stateFound     reconcileState = "found"
	stateAwaiting  reconcileState = "awaiting_decision"
	stateDeleting  reconcileState = "deleting"
	stateInserting reconcileState = "inserting"
	stateDone      reconcileState = "done"
	stateAborted   reconcileState = "aborted"
)

// reconcile drives one note through the save flow: probe the store, look
// for an exact duplicate, then insert, stop, keep or replace according to
// the decision. An insert that loses a race against a concurrent writer
// restarts the flow exactly once.
func (s *Service) reconcile(ctx context.Context, note domain.NoteRecord, wordField string, decision Decision) (domain.SaveOutcome, error) {
	if err := s.Probe(ctx); err != nil {
		return domain.SaveOutcome{}, err
	}

	word := note.Fields[wordField]

	var (
		state     = stateChecking
		existing  *domain.ExistingNoteRef
		restarted bool
	)

	for {
		s.log.DebugContext(ctx, "reconcile transition",
			slog.String("state", string(state)),
			slog.String("word", word),
		)

		switch state {
		case stateChecking:
			found, preview, err := s.checkDuplicate(ctx, note, wordField, word)
			if err != nil {
				return domain.SaveOutcome{}, err
			}
			if !found {
				state = stateNotFound
				break
			}
			existing = preview
			state = stateFound

		case stateNotFound:
			state = stateInserting

		case stateFound:
			switch decision {
			case DecisionReplace:
				state = stateDeleting
			case DecisionKeep:
				state = stateAborted
			default:
				state = stateAwaiting
			}

		case stateAwaiting:
			return domain.SaveOutcome{Status: domain.SaveStatusDuplicate, Existing: existing}, nil

		case stateAborted:
			return domain.SaveOutcome{Status: domain.SaveStatusKept, Existing: existing}, nil

		case stateDeleting:
			// Re-resolve ids right before deleting: the snapshot taken in
			// checking may be stale by now.
			ids, err := s.exactMatchIDs(ctx, note, wordField, word)
			if err != nil {
				return domain.SaveOutcome{}, err
			}
			if len(ids) > 0 {
				if err := s.store.DeleteNotes(ctx, ids); err != nil {
					return domain.SaveOutcome{}, fmt.Errorf("card: delete notes: %w", err)
				}
			}
			state = stateInserting

		case stateInserting:
			_, err := s.store.AddNote(ctx, note)
			if err == nil {
				state = stateDone
				break
			}
			if errors.Is(err, domain.ErrDuplicate) && !restarted {
				// Lost a race against a concurrent writer. Restart once so
				// the fresh duplicate goes through the decision flow.
				s.log.WarnContext(ctx, "insert raced with concurrent writer, restarting",
					slog.String("word", word),
				)
				restarted = true
				existing = nil
				state = stateChecking
				break
			}
			if errors.Is(err, domain.ErrSchemaMismatch) {
				return domain.SaveOutcome{}, s.schemaMismatch(ctx, note.Template, err)
			}
			return domain.SaveOutcome{}, fmt.Errorf("card: add note: %w", err)

		case stateDone:
			return domain.SaveOutcome{Status: domain.SaveStatusSaved}, nil
		}
	}
}

// checkDuplicate searches the deck for a note whose word field equals word
// after HTML stripping. The store's search matches substrings, so "食べる"
// also finds "食べる instance"; only true equals count as duplicates. When
// candidates exist but their contents cannot be fetched, the conflict is
// reported without a preview rather than risking a blind insert.
func (s *Service) checkDuplicate(ctx context.Context, note domain.NoteRecord, wordField, word string) (bool, *domain.ExistingNoteRef, error) {
	ids, err := s.store.FindNotes(ctx, exactQuery(note, wordField, word))
	if err != nil {
		return false, nil, fmt.Errorf("card: find notes: %w", err)
	}
	if len(ids) == 0 {
		return false, nil, nil
	}

	notes, err := s.store.NotesInfo(ctx, ids)
	if err != nil {
		s.log.WarnContext(ctx, "duplicate preview fetch failed",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return true, nil, nil
	}

	target := cleanFieldValue(word)
	for _, n := range notes {
		if cleanFieldValue(n.Fields[wordField].Value) == target {
			return true, s.preview(n, note.Deck, wordField), nil
		}
	}
	return false, nil, nil
}

// exactMatchIDs returns the ids of all true duplicates, for deletion.
func (s *Service) exactMatchIDs(ctx context.Context, note domain.NoteRecord, wordField, word string) ([]int64, error) {
	ids, err := s.store.FindNotes(ctx, exactQuery(note, wordField, word))
	if err != nil {
		return nil, fmt.Errorf("card: find notes for delete: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	notes, err := s.store.NotesInfo(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("card: notes info for delete: %w", err)
	}

	target := cleanFieldValue(word)
	var exact []int64
	for _, n := range notes {
		if cleanFieldValue(n.Fields[wordField].Value) == target {
			exact = append(exact, n.ID)
		}
	}
	return exact, nil
}

// preview snapshots a stored note for the caller's decision. The meaning
// preview is the lowest-order field other than the word field.
func (s *Service) preview(stored domain.StoredNote, deck, wordField string) *domain.ExistingNoteRef {
	ref := &domain.ExistingNoteRef{
		ID:       stored.ID,
		Template: stored.Template,
		Word:     stored.Fields[wordField].Value,
		Deck:     deck,
	}

	bestOrder := -1
	for name, f := range stored.Fields {
		if name == wordField {
			continue
		}
		if bestOrder == -1 || f.Order < bestOrder {
			bestOrder = f.Order
			ref.Meaning = f.Value
		}
	}
	return ref
}

// schemaMismatch upgrades the gateway's bare sentinel into a full error
// carrying the template's live field list.
func (s *Service) schemaMismatch(ctx context.Context, template string, cause error) error {
	fields, err := s.store.ModelFieldNames(ctx, template)
	if err != nil {
		s.log.WarnContext(ctx, "live field fetch failed after schema rejection",
			slog.String("template", template),
			slog.String("error", err.Error()),
		)
	}
	return &domain.SchemaMismatchError{
		Template: template,
		Fields:   fields,
		Reason:   cause.Error(),
	}
}

// exactQuery builds the store search query scoping by deck, template and
// the word field value.
func exactQuery(note domain.NoteRecord, wordField, word string) string {
	return fmt.Sprintf("deck:%q note:%q %s:%q", note.Deck, note.Template, wordField, word)
}

func cleanFieldValue(v string) string {
	return strings.TrimSpace(domain.StripHTML(v))
}
