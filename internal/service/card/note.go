package card

import (
	"strings"

	"github.com/drag2anki/backend/internal/domain"
)

const baseTag = "drag2anki"

// BuildNote turns a resolved entry into a note ready for insertion. When the
// template has a reading field the reading goes there; otherwise it is
// prepended to the meaning, except for kana-only words whose spelling is
// already their reading.
func BuildNote(entry domain.ResolvedEntry, mapping domain.FieldMapping, deck string) domain.NoteRecord {
	fields := map[string]string{
		mapping.WordField: entry.Key,
	}

	meaning := entry.Gloss
	switch {
	case mapping.ReadingField != nil:
		fields[*mapping.ReadingField] = entry.Reading
	case entry.Reading != "" && !domain.IsKanaOnly(entry.Key):
		if meaning != "" {
			meaning = entry.Reading + "<br>" + meaning
		} else {
			meaning = entry.Reading
		}
	}
	fields[mapping.MeaningField] = meaning

	if mapping.ComponentField != nil && len(entry.Components) > 0 {
		fields[*mapping.ComponentField] = formatComponents(entry.Components)
	}

	return domain.NoteRecord{
		Deck:     deck,
		Template: mapping.Template,
		Fields:   fields,
		Tags:     []string{baseTag},
	}
}

// BuildComponentNote turns a single kanji breakdown into its own note. The
// front carries the 한자 marker so component cards are recognizable next to
// word cards in the same deck.
func BuildComponentNote(comp domain.ComponentInfo, mapping domain.FieldMapping, deck string) domain.NoteRecord {
	fields := map[string]string{
		mapping.WordField:    comp.Symbol + " [한자]",
		mapping.MeaningField: formatComponentMeaning(comp),
	}

	return domain.NoteRecord{
		Deck:     deck,
		Template: mapping.Template,
		Fields:   fields,
		Tags:     []string{baseTag, "kanji"},
	}
}

func formatComponents(comps []domain.ComponentInfo) string {
	parts := make([]string, 0, len(comps))
	for _, c := range comps {
		parts = append(parts, c.Symbol+": "+firstMeaning(c))
	}
	return strings.Join(parts, "<br>")
}

func formatComponentMeaning(comp domain.ComponentInfo) string {
	var lines []string

	if comp.Localized != nil && comp.Localized.Meaning != "" {
		lines = append(lines, comp.Localized.Meaning)
	} else if m := firstMeaning(comp); m != "" {
		lines = append(lines, m)
	}

	if len(comp.OnReadings) > 0 {
		lines = append(lines, "음독: "+strings.Join(comp.OnReadings, ", "))
	}
	if len(comp.KunReadings) > 0 {
		lines = append(lines, "훈독: "+strings.Join(comp.KunReadings, ", "))
	}

	return strings.Join(lines, "<br>")
}

func firstMeaning(comp domain.ComponentInfo) string {
	if len(comp.Meanings) == 0 {
		return ""
	}
	return strings.Join(comp.Meanings, ", ")
}
