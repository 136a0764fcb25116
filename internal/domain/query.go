package domain

// UnitKind classifies a query as a single lexical item or a multi-item span.
type UnitKind string

const (
	UnitWord   UnitKind = "word"
	UnitPhrase UnitKind = "phrase"
)

// Query is one user selection prepared for resolution. It is immutable and
// never persisted; Normalized is the cache key.
type Query struct {
	Text       string
	Normalized string
	Unit       UnitKind
	Lang       Lang
}
