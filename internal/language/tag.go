package language

import "strings"

// Tag maps a language name to the short tag used for speech synthesis and
// voice selection. Unknown languages map to "en".
func Tag(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "german", "deutsch":
		return "de"
	case "english":
		return "en"
	case "french", "français":
		return "fr"
	case "spanish", "español":
		return "es"
	case "italian":
		return "it"
	case "portuguese":
		return "pt"
	case "dutch":
		return "nl"
	case "russian":
		return "ru"
	case "bulgarian":
		return "bg"
	case "polish":
		return "pl"
	case "turkish":
		return "tr"
	case "japanese":
		return "ja"
	default:
		return "en"
	}
}
