package domain

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	rubyRe = regexp.MustCompile(`<(rt|rp)[^>]*>.*?</(rt|rp)>`)
	tagRe  = regexp.MustCompile(`<[^>]*>`)
)

// NormalizeText prepares text for use as a cache key:
//   - strips ruby annotations and any remaining markup
//   - trims surrounding whitespace
//   - collapses internal whitespace runs into a single space
//   - lowercases Latin-only text
//
// Japanese and Korean text is never case-folded; kana, kanji and hangul pass
// through untouched so that "偶然" and "偶然 " share one key.
func NormalizeText(text string) string {
	text = strings.TrimSpace(StripHTML(text))
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	normalized := b.String()

	if DetectLang(normalized) == LangEnglish {
		return strings.ToLower(normalized)
	}
	return normalized
}

// StripHTML removes ruby reading annotations (<rt>, <rp> and their content)
// and then all remaining tags. Duplicate detection against the flashcard
// store compares field values through this, so stored markup never defeats
// an exact match.
func StripHTML(text string) string {
	text = rubyRe.ReplaceAllString(text, "")
	return tagRe.ReplaceAllString(text, "")
}
