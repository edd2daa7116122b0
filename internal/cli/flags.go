package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile          string
	TextFile         string
	CacheDir         string
	LanguageProvider string
	SourceLanguage   string
	TargetLanguage   string
	Rate             float64
	Phonetic         bool
	NoGUI            bool
	ListModels       bool
	ClearCache       bool
	VocabFile        string

	// Audio flags
	AudioProvider string
	AudioFormat   string

	// OpenAI flags
	OpenAIChatModel   string
	OpenAITTSModel    string
	OpenAIVoice       string
	OpenAIInstruction string

	// Gemini flags
	GeminiModel string

	// Learning cycle flags
	IntroRate     float64
	FixationDwell float64
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LanguageProvider: "openai",
		SourceLanguage:   "German",
		TargetLanguage:   "English",
		Rate:             1.0,
		AudioProvider:    "openai",
		AudioFormat:      "mp3",
		OpenAIChatModel:  "gpt-4o-mini",
		OpenAITTSModel:   "gpt-4o-mini-tts",
		GeminiModel:      "gemini-2.0-flash",
		IntroRate:        0.8,
		FixationDwell:    4.5,
	}
}
