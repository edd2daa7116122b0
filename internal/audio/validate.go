package audio

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateText validates that the input is speakable text: non-empty after
// trimming and containing at least one letter or digit.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return nil
		}
	}

	return fmt.Errorf("text contains no speakable characters")
}

// ValidateRate checks that a playback or speech rate is within the range the
// engines accept.
func ValidateRate(rate float64) error {
	if rate < 0.25 || rate > 4.0 {
		return fmt.Errorf("rate %.2f out of range (0.25 to 4.0)", rate)
	}
	return nil
}
