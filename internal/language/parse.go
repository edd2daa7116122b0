package language

import (
	"encoding/json"
	"strings"

	"codeberg.org/snonux/readalong/internal/segment"
)

// wire format the prompts ask the model for
type wireSegment struct {
	Text        string `json:"text"`
	IsWord      bool   `json:"isWord"`
	Translation string `json:"translation"`
}

// parseVocabulary decodes a vocabulary payload. A payload that does not parse
// as the expected JSON array is treated as an empty result so the rest of the
// session can proceed in a degraded state instead of failing.
func parseVocabulary(raw string) []VocabularyItem {
	var items []VocabularyItem
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &items); err != nil {
		return nil
	}

	out := items[:0]
	for _, it := range items {
		if strings.TrimSpace(it.SourceWord) == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

// parseSegments decodes a segment payload, dropping whitespace-only entries.
// Malformed payloads yield nil for the same degraded-mode reason as
// parseVocabulary.
func parseSegments(raw string) []segment.Segment {
	var wire []wireSegment
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &wire); err != nil {
		return nil
	}

	var segs []segment.Segment
	for _, w := range wire {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		segs = append(segs, segment.Segment{
			Text:        w.Text,
			IsWord:      w.IsWord,
			Translation: w.Translation,
		})
	}
	return segs
}
