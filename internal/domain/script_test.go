package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLang(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Lang
	}{
		{"偶然", LangJapanese},
		{"食べる", LangJapanese},
		{"ありがとう", LangJapanese},
		{"고양이", LangKorean},
		{"contingency", LangEnglish},
		{"偶然 coincidence", LangJapanese},
		{"12345", LangUnknown},
		{"", LangUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DetectLang(tt.input))
		})
	}
}

func TestIsKanaOnly(t *testing.T) {
	t.Parallel()

	assert.True(t, IsKanaOnly("ありがとう"))
	assert.True(t, IsKanaOnly("カタカナ"))
	assert.False(t, IsKanaOnly("食べる"))
	assert.False(t, IsKanaOnly("hello"))
	assert.False(t, IsKanaOnly(""))
}

func TestKanjiRunes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []rune{'食'}, KanjiRunes("食べる"))
	assert.Equal(t, []rune{'偶', '然'}, KanjiRunes("偶然"))
	// duplicates collapse, order of first appearance kept
	assert.Equal(t, []rune{'人'}, KanjiRunes("人人"))
	assert.Nil(t, KanjiRunes("ありがとう"))
}
