package card

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drag2anki/backend/internal/domain"
)

func TestBuildNote_ReadingPrependedToMeaning(t *testing.T) {
	t.Parallel()

	entry := domain.ResolvedEntry{
		Key:     "偶然",
		Reading: "ぐうぜん",
		Gloss:   "coincidence",
		Lang:    domain.LangJapanese,
	}

	note := BuildNote(entry, defaultsBasic(), "Japanese")

	assert.Equal(t, "Japanese", note.Deck)
	assert.Equal(t, "Basic", note.Template)
	assert.Equal(t, "偶然", note.Fields["Front"])
	assert.Equal(t, "ぐうぜん<br>coincidence", note.Fields["Back"])
	assert.Equal(t, []string{"drag2anki"}, note.Tags)
}

func TestBuildNote_KanaOnlySkipsReadingPrefix(t *testing.T) {
	t.Parallel()

	entry := domain.ResolvedEntry{
		Key:     "ありがとう",
		Reading: "ありがとう",
		Gloss:   "thanks",
		Lang:    domain.LangJapanese,
	}

	note := BuildNote(entry, defaultsBasic(), "Japanese")
	assert.Equal(t, "thanks", note.Fields["Back"])
}

func TestBuildNote_DedicatedReadingField(t *testing.T) {
	t.Parallel()

	mapping := defaultsBasic()
	reading := "Reading"
	mapping.ReadingField = &reading

	entry := domain.ResolvedEntry{Key: "偶然", Reading: "ぐうぜん", Gloss: "coincidence"}
	note := BuildNote(entry, mapping, "Japanese")

	assert.Equal(t, "ぐうぜん", note.Fields["Reading"])
	assert.Equal(t, "coincidence", note.Fields["Back"], "meaning stays clean when a reading field exists")
}

func TestBuildNote_EmptyGlossStillGetsReading(t *testing.T) {
	t.Parallel()

	entry := domain.ResolvedEntry{Key: "偶然", Reading: "ぐうぜん"}
	note := BuildNote(entry, defaultsBasic(), "Japanese")
	assert.Equal(t, "ぐうぜん", note.Fields["Back"])
}

func TestBuildNote_ComponentField(t *testing.T) {
	t.Parallel()

	mapping := defaultsBasic()
	comp := "Kanji"
	mapping.ComponentField = &comp

	entry := domain.ResolvedEntry{
		Key:     "偶然",
		Reading: "ぐうぜん",
		Gloss:   "coincidence",
		Components: []domain.ComponentInfo{
			{Symbol: "偶", Meanings: []string{"accidentally"}},
			{Symbol: "然", Meanings: []string{"sort of thing"}},
		},
	}

	note := BuildNote(entry, mapping, "Japanese")
	assert.Equal(t, "偶: accidentally<br>然: sort of thing", note.Fields["Kanji"])
}

func TestBuildComponentNote(t *testing.T) {
	t.Parallel()

	comp := domain.ComponentInfo{
		Symbol:      "然",
		Meanings:    []string{"sort of thing"},
		OnReadings:  []string{"ゼン", "ネン"},
		KunReadings: []string{"しか"},
		Localized:   &domain.LocalizedGloss{Meaning: "그럴 연", Reading: "연"},
	}

	note := BuildComponentNote(comp, defaultsBasic(), "Japanese")

	assert.Equal(t, "然 [한자]", note.Fields["Front"])
	assert.Equal(t, "그럴 연<br>음독: ゼン, ネン<br>훈독: しか", note.Fields["Back"])
	assert.Equal(t, []string{"drag2anki", "kanji"}, note.Tags)
}

func TestBuildComponentNote_NoLocalizedGloss(t *testing.T) {
	t.Parallel()

	comp := domain.ComponentInfo{
		Symbol:   "猫",
		Meanings: []string{"cat"},
	}

	note := BuildComponentNote(comp, defaultsBasic(), "Japanese")
	assert.Equal(t, "猫 [한자]", note.Fields["Front"])
	assert.Equal(t, "cat", note.Fields["Back"])
}
