package openai

import (
	"strings"

	"github.com/drag2anki/backend/internal/provider"
)

// ParseLabeled extracts "reading:" and "meaning:" lines from model output.
// Labels are matched case-insensitively and may appear in any order. When
// neither label is present the whole text is treated as the meaning, since
// models occasionally ignore the output format.
func ParseLabeled(content string) provider.GenResult {
	var result provider.GenResult

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "reading:"):
			if result.Reading == "" {
				result.Reading = strings.TrimSpace(line[len("reading:"):])
			}
		case strings.HasPrefix(lower, "meaning:"):
			if result.Meaning == "" {
				result.Meaning = strings.TrimSpace(line[len("meaning:"):])
			}
		}
	}

	if result.Reading == "" && result.Meaning == "" {
		result.Meaning = strings.TrimSpace(content)
	}

	return result
}
