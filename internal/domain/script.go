package domain

import "unicode"

// Lang identifies the script family a query belongs to.
type Lang string

const (
	LangJapanese Lang = "ja"
	LangKorean   Lang = "ko"
	LangEnglish  Lang = "en"
	LangUnknown  Lang = "und"
)

// DetectLang classifies text by character-class majority. Han characters
// count toward Japanese: the popup's target language is Japanese and kanji
// without kana is still resolved through the Japanese path.
func DetectLang(text string) Lang {
	var ja, ko, en int
	for _, r := range text {
		switch {
		case isKana(r) || isKanji(r):
			ja++
		case unicode.Is(unicode.Hangul, r):
			ko++
		case r < 128 && unicode.IsLetter(r):
			en++
		}
	}
	switch {
	case ja == 0 && ko == 0 && en == 0:
		return LangUnknown
	case ja >= ko && ja >= en:
		return LangJapanese
	case ko >= en:
		return LangKorean
	default:
		return LangEnglish
	}
}

// IsKanaOnly reports whether text consists solely of hiragana and katakana.
// Kana-only words are already phonetic, so no reading prefix is added to
// their note meaning.
func IsKanaOnly(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !isKana(r) {
			return false
		}
	}
	return true
}

// KanjiRunes extracts the kanji characters of text in order of appearance,
// deduplicated. Each becomes an independently resolved component.
func KanjiRunes(text string) []rune {
	seen := make(map[rune]bool)
	var out []rune
	for _, r := range text {
		if isKanji(r) && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func isKana(r rune) bool {
	return (r >= 0x3040 && r <= 0x309F) || (r >= 0x30A0 && r <= 0x30FF)
}

func isKanji(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FAF
}
