// Package morph wraps the kagome morphological analyzer for the two jobs the
// resolution pipeline needs: deciding whether a Japanese selection is one
// word or a phrase, and producing a kana reading for arbitrary text.
package morph

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/drag2anki/backend/internal/domain"
)

// POS classes that never count as an independent lexical unit.
var dependentPOS = map[string]bool{
	"助詞":  true, // particle
	"助動詞": true, // auxiliary verb
	"記号":  true, // symbol
}

// Sub-POS classes bound to a preceding token.
var dependentSubPOS = map[string]bool{
	"非自立": true, // non-self-sufficient
	"接尾":  true, // suffix
}

// Analyzer segments Japanese text with the IPA dictionary.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer builds a tokenizer over the bundled IPA dictionary.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("morph: build tokenizer: %w", err)
	}
	return &Analyzer{t: t}, nil
}

// Classify determines the language of text and, for Japanese text, whether
// it is a single word or a phrase. The selection is a word when segmentation
// yields exactly one token, or exactly one independent-category token.
// Non-Japanese text is a word iff it contains no spaces.
func (a *Analyzer) Classify(text string) (domain.Lang, domain.UnitKind) {
	lang := domain.DetectLang(text)
	if lang != domain.LangJapanese {
		if strings.ContainsRune(strings.TrimSpace(text), ' ') {
			return lang, domain.UnitPhrase
		}
		return lang, domain.UnitWord
	}

	tokens := a.tokenize(text)
	if len(tokens) == 0 {
		// Segmentation unavailable: the phrase path is the safe fallback,
		// a phrase mis-cached as a word would poison the word namespace.
		return lang, domain.UnitPhrase
	}
	if len(tokens) == 1 {
		return lang, domain.UnitWord
	}

	independent := 0
	for _, tok := range tokens {
		pos := tok.POS()
		if len(pos) == 0 || dependentPOS[pos[0]] {
			continue
		}
		if len(pos) > 1 && dependentSubPOS[pos[1]] {
			continue
		}
		independent++
	}
	if independent == 1 {
		return lang, domain.UnitWord
	}
	return lang, domain.UnitPhrase
}

// Reading produces a hiragana transcription of text, independent of meaning.
// Tokens the dictionary has no reading for contribute their surface form.
// On any internal failure the original text is returned unchanged; callers
// treat that as "no reading available", never as a pipeline failure.
func (a *Analyzer) Reading(text string) string {
	if domain.IsKanaOnly(text) {
		return katakanaToHiragana(text)
	}

	tokens := a.tokenize(text)
	if len(tokens) == 0 {
		return text
	}

	var b strings.Builder
	for _, tok := range tokens {
		if r, ok := tok.Reading(); ok && r != "*" {
			b.WriteString(katakanaToHiragana(r))
			continue
		}
		b.WriteString(tok.Surface)
	}
	return b.String()
}

func (a *Analyzer) tokenize(text string) []tokenizer.Token {
	if a == nil || a.t == nil {
		return nil
	}
	raw := a.t.Tokenize(text)
	out := make([]tokenizer.Token, 0, len(raw))
	for _, tok := range raw {
		if tok.Class == tokenizer.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// katakanaToHiragana shifts katakana code points into the hiragana block.
func katakanaToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
