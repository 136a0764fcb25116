// Package hanja serves Korean hanja glosses from bundled JSON datasets.
package hanja

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/drag2anki/backend/internal/domain"
)

type glossEntry struct {
	Meaning string `json:"meaning"`
	Reading string `json:"reading"`
}

// Store holds the hanja gloss dictionary and the Japanese shinjitai to
// Korean traditional form mapping, both loaded once at startup.
type Store struct {
	glosses  map[string]glossEntry
	variants map[string]string
	log      *slog.Logger
}

// NewStore loads both datasets from disk. The variant path may be empty,
// in which case only direct lookups work.
func NewStore(glossPath, variantPath string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		glosses:  map[string]glossEntry{},
		variants: map[string]string{},
		log:      logger.With("adapter", "hanja"),
	}

	if err := loadJSON(glossPath, &s.glosses); err != nil {
		return nil, fmt.Errorf("hanja: load glosses: %w", err)
	}
	if variantPath != "" {
		if err := loadJSON(variantPath, &s.variants); err != nil {
			return nil, fmt.Errorf("hanja: load variants: %w", err)
		}
	}

	s.log.Debug("hanja datasets loaded",
		slog.Int("glosses", len(s.glosses)),
		slog.Int("variants", len(s.variants)),
	)

	return s, nil
}

// Lookup returns the Korean gloss for a character, following the shinjitai
// to traditional mapping when the character itself is unknown. Returns nil
// when the character is not used in Korean.
func (s *Store) Lookup(symbol string) *domain.LocalizedGloss {
	if e, ok := s.glosses[symbol]; ok {
		return &domain.LocalizedGloss{Meaning: e.Meaning, Reading: e.Reading}
	}
	if trad, ok := s.variants[symbol]; ok {
		if e, ok := s.glosses[trad]; ok {
			return &domain.LocalizedGloss{Meaning: e.Meaning, Reading: e.Reading}
		}
	}
	return nil
}

func loadJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
