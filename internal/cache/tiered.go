package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/drag2anki/backend/internal/domain"
)

// Shared-store namespaces. Words, phrases and per-character entries live in
// separate keyspaces so a phrase never shadows a word with the same text.
const (
	NamespaceWords   = "words"
	NamespacePhrases = "phrases"
	NamespaceKanji   = "kanji"
)

type sharedStore interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
}

// Tiered reads through the local tier into the shared store and writes the
// other way around. Shared-store failures degrade to local-only operation;
// they are logged and never surfaced to the resolution pipeline.
type Tiered struct {
	local  *Local
	shared sharedStore
	log    *slog.Logger
}

// NewTiered combines a local tier with the shared store.
func NewTiered(local *Local, shared sharedStore, logger *slog.Logger) *Tiered {
	return &Tiered{
		local:  local,
		shared: shared,
		log:    logger.With("component", "cache"),
	}
}

// Get looks up key in the local tier first, then the shared store. A shared
// hit backfills the local tier with a fresh storedAt: the local TTL clock
// restarts even though the shared copy is canonical and never expires.
func (t *Tiered) Get(ctx context.Context, namespace, key string) (domain.ResolvedEntry, bool) {
	if entry, ok := t.local.Get(namespace + ":" + key); ok {
		return entry, true
	}
	if t.shared == nil {
		return domain.ResolvedEntry{}, false
	}

	raw, err := t.shared.Get(ctx, namespace, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			t.log.WarnContext(ctx, "shared cache read failed, local-only",
				slog.String("namespace", namespace),
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return domain.ResolvedEntry{}, false
	}

	var entry domain.ResolvedEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.log.WarnContext(ctx, "shared cache entry undecodable",
			slog.String("namespace", namespace),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return domain.ResolvedEntry{}, false
	}

	t.local.Put(namespace+":"+key, entry)
	return entry, true
}

// Put writes entry to the shared store only when it is non-empty, then
// always to the local tier. An empty entry cached locally stops immediate
// re-resolution in this session while a fresh session retries providers.
func (t *Tiered) Put(ctx context.Context, namespace, key string, entry domain.ResolvedEntry) {
	if !entry.IsEmpty() && t.shared != nil {
		raw, err := json.Marshal(entry)
		if err == nil {
			if err := t.shared.Put(ctx, namespace, key, raw); err != nil {
				t.log.WarnContext(ctx, "shared cache write failed",
					slog.String("namespace", namespace),
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}
		}
	}
	t.local.Put(namespace+":"+key, entry)
}

// Clear empties the local tier. The shared store is untouched.
func (t *Tiered) Clear() { t.local.Clear() }
