package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/readalong/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "readalong [textfile]",
		Short: "Guided Reading Companion",
		Long: `readalong plays a reading text aloud while highlighting the spoken
segment, and walks through the text's vocabulary in a timed learning cycle.

Audio is synthesized with OpenAI TTS; vocabulary and per-word translations
come from a chat model (OpenAI or Gemini).

Examples:
  readalong                       # Launch interactive GUI (default)
  readalong text.txt              # Load a reading text into the GUI
  readalong --no-gui text.txt     # Play the text from the terminal
  readalong --list-models         # List models available to the API key`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Default cache directory matches GUI mode
	home, _ := os.UserHomeDir()
	defaultCacheDir := filepath.Join(home, ".local", "state", "readalong", "cache")

	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.readalong.yaml)")

	// Local flags
	cmd.Flags().StringVar(&flags.CacheDir, "cache-dir", defaultCacheDir, "Directory for synthesized audio and its index")
	cmd.Flags().StringVar(&flags.LanguageProvider, "language-provider", flags.LanguageProvider, "Language service (openai or gemini)")
	cmd.Flags().StringVar(&flags.SourceLanguage, "source-language", flags.SourceLanguage, "Language of the reading text")
	cmd.Flags().StringVar(&flags.TargetLanguage, "target-language", flags.TargetLanguage, "Language translations are given in")
	cmd.Flags().Float64VarP(&flags.Rate, "rate", "r", flags.Rate, "Initial playback rate (0.25 to 4.0)")
	cmd.Flags().BoolVar(&flags.Phonetic, "phonetic", false, "Show phonetic transcriptions during the learning cycle")
	cmd.Flags().BoolVar(&flags.NoGUI, "no-gui", false, "Run from the terminal instead of launching the GUI")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")
	cmd.Flags().BoolVar(&flags.ClearCache, "clear-cache", false, "Archive the current audio cache and start fresh")
	cmd.Flags().StringVar(&flags.VocabFile, "vocab", "", "Supplemental vocabulary file (lines of 'word = translation')")

	// Audio flags
	cmd.Flags().StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "Audio synthesis provider (openai or espeak)")
	cmd.Flags().StringVarP(&flags.AudioFormat, "format", "f", flags.AudioFormat, "Audio format (wav or mp3)")

	// OpenAI flags
	cmd.Flags().StringVar(&flags.OpenAIChatModel, "openai-chat-model", flags.OpenAIChatModel, "OpenAI chat model for vocabulary and segmentation")
	cmd.Flags().StringVar(&flags.OpenAITTSModel, "openai-tts-model", flags.OpenAITTSModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", "", "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse (default: alloy)")
	cmd.Flags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts model (e.g., 'speak clearly with a neutral accent')")

	// Gemini flags
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for vocabulary and segmentation")

	// Learning cycle flags
	cmd.Flags().Float64Var(&flags.IntroRate, "intro-rate", flags.IntroRate, "Speech rate for the slow word introduction")
	cmd.Flags().Float64Var(&flags.FixationDwell, "fixation-dwell", flags.FixationDwell, "Seconds to hold each word in the fixation phase")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("language.provider", cmd.Flags().Lookup("language-provider"))
	viper.BindPFlag("language.source", cmd.Flags().Lookup("source-language"))
	viper.BindPFlag("language.target", cmd.Flags().Lookup("target-language"))
	viper.BindPFlag("language.openai_model", cmd.Flags().Lookup("openai-chat-model"))
	viper.BindPFlag("language.gemini_model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("audio.provider", cmd.Flags().Lookup("audio-provider"))
	viper.BindPFlag("audio.format", cmd.Flags().Lookup("format"))
	viper.BindPFlag("audio.openai_model", cmd.Flags().Lookup("openai-tts-model"))
	viper.BindPFlag("audio.openai_voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_instruction", cmd.Flags().Lookup("openai-instruction"))
	viper.BindPFlag("audio.cache_dir", cmd.Flags().Lookup("cache-dir"))
	viper.BindPFlag("player.rate", cmd.Flags().Lookup("rate"))
	viper.BindPFlag("session.intro_rate", cmd.Flags().Lookup("intro-rate"))
	viper.BindPFlag("session.fixation_dwell", cmd.Flags().Lookup("fixation-dwell"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".readalong" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".readalong")
	}

	// Environment variables
	viper.SetEnvPrefix("READALONG")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("language.gemini_key")
}
