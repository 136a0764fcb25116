package card

import (
	"strings"

	"github.com/drag2anki/backend/internal/domain"
)

// Ranked alias lists per semantic role. Earlier aliases win; matching is
// case-insensitive.
var (
	wordAliases      = []string{"front", "expression", "term", "word", "vocab", "sentence"}
	meaningAliases   = []string{"back", "meaning", "definition", "translation", "korean", "english"}
	readingAliases   = []string{"reading", "furigana", "yomi", "ruby"}
	componentAliases = []string{"kanji", "character", "hanzi"}
)

// ResolveFields assigns semantic roles to a template's declared fields.
// Per role: exact case-insensitive alias match, then substring match, then
// position (word gets field 0, meaning field 1), then the configured
// default. Reading and component roles have no positional rank and stay
// unset when nothing matches. An empty field list yields the defaults
// unchanged.
func ResolveFields(fields []string, defaults domain.FieldMapping) domain.FieldMapping {
	mapping := domain.FieldMapping{Template: defaults.Template}

	if len(fields) == 0 {
		return defaults
	}

	mapping.WordField = matchField(fields, wordAliases)
	mapping.MeaningField = matchField(fields, meaningAliases)

	if mapping.WordField == "" {
		mapping.WordField = fields[0]
	}
	if mapping.MeaningField == "" {
		if len(fields) > 1 {
			mapping.MeaningField = fields[1]
		} else {
			mapping.MeaningField = defaults.MeaningField
		}
	}

	if f := matchField(fields, readingAliases); f != "" {
		mapping.ReadingField = &f
	} else if defaults.ReadingField != nil && containsField(fields, *defaults.ReadingField) {
		mapping.ReadingField = defaults.ReadingField
	}

	if f := matchField(fields, componentAliases); f != "" {
		mapping.ComponentField = &f
	} else if defaults.ComponentField != nil && containsField(fields, *defaults.ComponentField) {
		mapping.ComponentField = defaults.ComponentField
	}

	return mapping
}

// matchField returns the first field matching an alias, trying every alias
// for exact matches before falling back to substring matches.
func matchField(fields, aliases []string) string {
	for _, alias := range aliases {
		for _, f := range fields {
			if strings.EqualFold(f, alias) {
				return f
			}
		}
	}
	for _, alias := range aliases {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), alias) {
				return f
			}
		}
	}
	return ""
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}
