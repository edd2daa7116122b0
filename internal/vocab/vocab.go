package vocab

import (
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/readalong/internal/language"
)

// ReadVocabFile reads supplemental vocabulary from a file, one entry per
// line. Supported formats:
//   - "Hund = dog"  word with translation
//   - "Hund"        word only, no translation spoken during the cycle
//
// Blank lines and lines starting with '#' are skipped.
func ReadVocabFile(filename string) ([]language.VocabularyItem, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var items []language.VocabularyItem
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			word := strings.TrimSpace(parts[0])
			translation := strings.TrimSpace(parts[1])
			if word == "" {
				continue
			}
			items = append(items, language.VocabularyItem{
				SourceWord:  word,
				Translation: translation,
			})
		} else {
			items = append(items, language.VocabularyItem{SourceWord: line})
		}
	}

	return items, nil
}

// Merge appends extra items to base, skipping words base already contains.
// Comparison is case-insensitive.
func Merge(base, extra []language.VocabularyItem) []language.VocabularyItem {
	seen := make(map[string]bool, len(base))
	for _, item := range base {
		seen[strings.ToLower(item.SourceWord)] = true
	}

	merged := base
	for _, item := range extra {
		key := strings.ToLower(item.SourceWord)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, item)
	}
	return merged
}
