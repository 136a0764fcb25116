package openai

import "testing"

func TestParseLabeled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		wantReading string
		wantMeaning string
	}{
		{
			name:        "both labels",
			content:     "reading: ぐうぜん\nmeaning: coincidence",
			wantReading: "ぐうぜん",
			wantMeaning: "coincidence",
		},
		{
			name:        "labels reversed",
			content:     "meaning: coincidence\nreading: ぐうぜん",
			wantReading: "ぐうぜん",
			wantMeaning: "coincidence",
		},
		{
			name:        "only meaning",
			content:     "meaning: coincidence",
			wantReading: "",
			wantMeaning: "coincidence",
		},
		{
			name:        "only reading",
			content:     "reading: ぐうぜん",
			wantReading: "ぐうぜん",
			wantMeaning: "",
		},
		{
			name:        "no labels falls back to whole text",
			content:     "偶然 means coincidence or chance.",
			wantReading: "",
			wantMeaning: "偶然 means coincidence or chance.",
		},
		{
			name:        "uppercase labels",
			content:     "Reading: たべる\nMeaning: to eat",
			wantReading: "たべる",
			wantMeaning: "to eat",
		},
		{
			name:        "surrounding whitespace and extra lines",
			content:     "Here you go:\n  reading:  ねこ  \n  meaning:  cat  \nHope that helps!",
			wantReading: "ねこ",
			wantMeaning: "cat",
		},
		{
			name:        "first occurrence wins",
			content:     "reading: いち\nreading: に\nmeaning: one",
			wantReading: "いち",
			wantMeaning: "one",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseLabeled(tc.content)
			if got.Reading != tc.wantReading {
				t.Errorf("Reading = %q, want %q", got.Reading, tc.wantReading)
			}
			if got.Meaning != tc.wantMeaning {
				t.Errorf("Meaning = %q, want %q", got.Meaning, tc.wantMeaning)
			}
		})
	}
}
