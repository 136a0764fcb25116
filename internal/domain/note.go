package domain

// FieldMapping assigns semantic roles to a note template's declared fields.
// WordField and MeaningField are always set after resolution; ReadingField
// and ComponentField stay nil when the template has no matching field.
type FieldMapping struct {
	Template       string
	WordField      string
	MeaningField   string
	ReadingField   *string
	ComponentField *string
}

// NoteRecord is one note ready for insertion into the flashcard store.
// It is built fresh for every save attempt and never mutated afterwards.
type NoteRecord struct {
	Deck     string
	Template string
	Fields   map[string]string
	Tags     []string
}

// ExistingNoteRef is a snapshot of a conflicting note taken during
// reconciliation. It is not kept consistent with the store after the read;
// the note id is re-resolved immediately before any delete.
type ExistingNoteRef struct {
	ID       int64  `json:"id"`
	Template string `json:"template"`
	Word     string `json:"word"`
	Meaning  string `json:"meaning"`
	Deck     string `json:"deck"`
}

// StoredNote is a note as it currently exists in the flashcard store,
// fetched during reconciliation.
type StoredNote struct {
	ID       int64
	Template string
	Fields   map[string]StoredField
	Tags     []string
}

// StoredField is one field value with its declared order in the template.
type StoredField struct {
	Value string
	Order int
}

// SaveStatus is the terminal state of one save attempt.
type SaveStatus string

const (
	// SaveStatusSaved means the note was inserted.
	SaveStatusSaved SaveStatus = "saved"
	// SaveStatusDuplicate means an exact-match note already exists and the
	// caller must decide whether to keep or replace it.
	SaveStatusDuplicate SaveStatus = "duplicate"
	// SaveStatusKept means the caller chose to keep the existing note.
	SaveStatusKept SaveStatus = "kept"
)

// SaveOutcome is what the presentation layer receives from a save call.
// Existing is populated on SaveStatusDuplicate when the preview fetch
// succeeded; a duplicate with a nil preview is still a duplicate.
type SaveOutcome struct {
	Status   SaveStatus       `json:"status"`
	Existing *ExistingNoteRef `json:"existing,omitempty"`
}
