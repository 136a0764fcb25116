package domain

import "time"

// LocalizedGloss is the Korean-language gloss of a single kanji, sourced
// from the hanja dataset or generated as a fallback.
type LocalizedGloss struct {
	Meaning string `json:"meaning"`
	Reading string `json:"reading"`
}

// ComponentInfo describes one kanji extracted from a query, resolved
// independently of the whole-query gloss.
type ComponentInfo struct {
	Symbol      string          `json:"symbol"`
	Meanings    []string        `json:"meanings"`
	OnReadings  []string        `json:"on_readings"`
	KunReadings []string        `json:"kun_readings"`
	Localized   *LocalizedGloss `json:"localized,omitempty"`
}

// ResolvedEntry is the aggregated result of one resolution: reading, gloss
// and per-kanji breakdown. Reading and Gloss are independently optional.
type ResolvedEntry struct {
	Key        string          `json:"key"`
	Reading    string          `json:"reading"`
	Gloss      string          `json:"gloss"`
	Components []ComponentInfo `json:"components,omitempty"`
	Lang       Lang            `json:"lang"`
	FetchedAt  time.Time       `json:"fetched_at"`
}

// IsEmpty reports whether the entry carries neither a reading nor a gloss.
// Empty entries are never written to the shared cache tier, so the next
// session retries the providers.
func (e ResolvedEntry) IsEmpty() bool {
	return e.Reading == "" && e.Gloss == ""
}
