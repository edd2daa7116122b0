package gui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/readalong/internal"
	"codeberg.org/snonux/readalong/internal/audio"
	"codeberg.org/snonux/readalong/internal/language"
	"codeberg.org/snonux/readalong/internal/phonetic"
	"codeberg.org/snonux/readalong/internal/player"
	"codeberg.org/snonux/readalong/internal/reader"
	"codeberg.org/snonux/readalong/internal/session"
	"codeberg.org/snonux/readalong/internal/speech"
	"codeberg.org/snonux/readalong/internal/vocab"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	textEntry   *TextEntry
	loadButton  *ttwidget.Button
	readingView *ReadingView
	playerBar   *PlayerBar
	sessionCard *SessionCard
	statusLabel *widget.Label

	// Domain components
	loader     *reader.Loader
	controller *player.Controller
	speaker    *speech.Speaker
	scheduler  *session.Scheduler
	phonetic   *phonetic.Fetcher
	cache      *audio.Cache

	// Currently loaded material
	current *reader.Session

	// Configuration
	config *Config

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
}

// Config holds GUI application configuration
type Config struct {
	CacheDir  string
	TextFile  string
	VocabFile string

	LanguageProvider string
	SourceLanguage   string
	TargetLanguage   string
	OpenAIKey        string
	GeminiKey        string
	OpenAIChatModel  string
	GeminiModel      string

	AudioProvider     string
	OpenAITTSModel    string
	OpenAIVoice       string
	OpenAIInstruction string

	Rate          float64
	Phonetic      bool
	IntroRate     float64
	FixationDwell time.Duration
}

// DefaultConfig returns default GUI configuration
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	// XDG state directory for the synthesis cache
	cacheDir := filepath.Join(homeDir, ".local", "state", "readalong", "cache")

	return &Config{
		CacheDir:         cacheDir,
		LanguageProvider: "openai",
		SourceLanguage:   "German",
		TargetLanguage:   "English",
		OpenAIChatModel:  "gpt-4o-mini",
		GeminiModel:      "gemini-2.0-flash",
		AudioProvider:    "openai",
		OpenAITTSModel:   "gpt-4o-mini-tts",
		OpenAIVoice:      "alloy",
		Rate:             1.0,
		IntroRate:        0.8,
		FixationDwell:    4500 * time.Millisecond,
	}
}

// New creates a new GUI application
func New(config *Config) (*Application, error) {
	if config == nil {
		config = DefaultConfig()
	} else {
		defaults := DefaultConfig()
		if config.CacheDir == "" {
			config.CacheDir = defaults.CacheDir
		}
		if config.LanguageProvider == "" {
			config.LanguageProvider = defaults.LanguageProvider
		}
		if config.SourceLanguage == "" {
			config.SourceLanguage = defaults.SourceLanguage
		}
		if config.TargetLanguage == "" {
			config.TargetLanguage = defaults.TargetLanguage
		}
		if config.AudioProvider == "" {
			config.AudioProvider = defaults.AudioProvider
		}
		if config.OpenAITTSModel == "" {
			config.OpenAITTSModel = defaults.OpenAITTSModel
		}
		if config.OpenAIVoice == "" {
			config.OpenAIVoice = defaults.OpenAIVoice
		}
		if config.Rate == 0 {
			config.Rate = defaults.Rate
		}
		if config.IntroRate == 0 {
			config.IntroRate = defaults.IntroRate
		}
		if config.FixationDwell == 0 {
			config.FixationDwell = defaults.FixationDwell
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	cache, err := audio.OpenCache(config.CacheDir)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open synthesis cache: %w", err)
	}

	langProvider, err := language.NewProvider(&language.Config{
		Provider:       config.LanguageProvider,
		SourceLanguage: config.SourceLanguage,
		TargetLanguage: config.TargetLanguage,
		OpenAIKey:      config.OpenAIKey,
		OpenAIModel:    config.OpenAIChatModel,
		GeminiKey:      config.GeminiKey,
		GeminiModel:    config.GeminiModel,
	})
	if err != nil {
		cancel()
		cache.Close()
		return nil, err
	}

	audioConfig := &audio.Config{
		Provider:          config.AudioProvider,
		OutputDir:         config.CacheDir,
		OutputFormat:      "mp3",
		Language:          language.Tag(config.SourceLanguage),
		OpenAIKey:         config.OpenAIKey,
		OpenAIModel:       config.OpenAITTSModel,
		OpenAIVoice:       config.OpenAIVoice,
		OpenAISpeed:       1.0,
		OpenAIInstruction: config.OpenAIInstruction,
	}

	audioProvider, err := audio.NewProvider(audioConfig)
	if err != nil {
		cancel()
		cache.Close()
		return nil, err
	}

	myApp := app.NewWithID("org.codeberg.snonux.readalong")
	myApp.SetIcon(GetAppIcon())

	a := &Application{
		app:        myApp,
		config:     config,
		ctx:        ctx,
		cancel:     cancel,
		cache:      cache,
		loader:     reader.NewLoader(langProvider),
		controller: player.New(audio.NewExecEngine(), audio.NewGenerator(audioProvider, cache, config.OpenAIVoice, 1.0)),
		speaker:    speech.NewSpeaker(speech.NewTTSSynthesizer(audioConfig, cache), speech.ExecPlayer{}),
	}

	if config.Phonetic {
		a.phonetic = phonetic.NewFetcher(config.OpenAIKey, config.SourceLanguage)
	}

	a.setupUI()
	a.wireController()

	return a, nil
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("ReadAlong v%s - Guided Reading Companion", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(900, 700))

	// Reading text input
	a.textEntry = NewTextEntry()
	a.textEntry.SetPlaceHolder("Paste a reading text... Press Escape to exit field")
	a.textEntry.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})

	a.loadButton = ttwidget.NewButtonWithIcon("Load", theme.ConfirmIcon(), a.onLoad)
	textScroll := container.NewScroll(a.textEntry)
	textScroll.SetMinSize(fyne.NewSize(0, 120))

	inputSection := container.NewBorder(
		nil, nil, nil,
		a.loadButton,
		textScroll,
	)

	// Reading view with the segment highlight
	a.readingView = NewReadingView()
	a.readingView.SetOnSegmentTapped(a.onSegmentTapped)
	readingScroll := container.NewScroll(a.readingView)

	// Learning cycle card
	a.sessionCard = NewSessionCard()
	a.sessionCard.OnStart = a.onSessionStart
	a.sessionCard.OnSkip = a.onSessionSkip
	a.sessionCard.OnStop = a.onSessionStop

	mainSplit := container.NewHSplit(readingScroll, a.sessionCard)
	mainSplit.SetOffset(0.65)

	// Playback controls
	a.playerBar = NewPlayerBar()
	a.playerBar.OnPlayPause = a.onPlayPause
	a.playerBar.OnStop = a.onPlaybackStop
	a.playerBar.OnRateChange = a.onRateChange

	a.statusLabel = widget.NewLabel("Ready")

	bottomSection := container.NewVBox(
		a.playerBar,
		widget.NewSeparator(),
		a.statusLabel,
	)

	content := container.NewBorder(
		container.NewVBox(inputSection, widget.NewSeparator()),
		bottomSection,
		nil, nil,
		mainSplit,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))

	a.loadButton.SetToolTip("Fetch vocabulary and segments (Enter)")

	a.window.SetOnClosed(func() {
		if a.scheduler != nil {
			a.scheduler.Stop()
		}
		a.controller.Stop()
		a.cancel()
		a.cache.Close()
	})

	a.setupKeyboardShortcuts()
}

// wireController connects playback callbacks to the UI
func (a *Application) wireController() {
	a.controller.SetCallbacks(
		func(index int) {
			fyne.Do(func() {
				a.readingView.Highlight(index)
			})
		},
		func(state player.State) {
			fyne.Do(func() {
				a.playerBar.SetState(state)
				a.playerBar.SetStatus(state.String())
			})
		},
	)
}

// Run starts the GUI application
func (a *Application) Run() {
	if a.config.TextFile != "" {
		if data, err := os.ReadFile(a.config.TextFile); err == nil {
			a.textEntry.SetText(string(data))
		} else {
			a.updateStatus(fmt.Sprintf("Could not read %s: %v", a.config.TextFile, err))
		}
	}
	a.window.ShowAndRun()
}

// onLoad fetches vocabulary and segments for the entered text
func (a *Application) onLoad() {
	text := strings.TrimSpace(a.textEntry.Text)
	if text == "" {
		return
	}
	if a.loader.Loading() {
		return
	}

	// A new text invalidates the running playback and session
	a.onSessionStop()
	a.controller.Stop()
	a.readingView.Clear()
	a.playerBar.SetEnabled(false)
	a.loadButton.Disable()
	a.updateStatus("Loading vocabulary and segments...")

	go func() {
		sess, err := a.loader.Load(a.ctx, text)
		if err == nil && a.config.VocabFile != "" {
			if extra, verr := vocab.ReadVocabFile(a.config.VocabFile); verr == nil {
				sess.Vocabulary = vocab.Merge(sess.Vocabulary, extra)
			}
		}

		fyne.Do(func() {
			a.loadButton.Enable()
			if err != nil {
				dialog.ShowError(err, a.window)
				a.updateStatus("Load failed")
				return
			}

			a.current = sess
			a.controller.SetSource(sess.Segments)
			a.readingView.SetSegments(sess.Segments)
			a.sessionCard.SetVocabulary(sess.Vocabulary)
			a.playerBar.SetEnabled(true)
			a.rebuildScheduler(sess)

			if sess.Degraded {
				a.updateStatus(degradedStatus(sess))
			} else {
				a.updateStatus(fmt.Sprintf("Loaded %d segments, %d vocabulary words",
					len(sess.Segments), len(sess.Vocabulary)))
			}
		})
	}()
}

// degradedStatus names the failed fetch so the status bar does not blame the
// wrong call
func degradedStatus(sess *reader.Session) string {
	switch {
	case sess.SegmentsErr != nil && sess.VocabularyErr != nil:
		return fmt.Sprintf("Loaded degraded: %v", sess.VocabularyErr)
	case sess.SegmentsErr != nil:
		return fmt.Sprintf("Loaded with local segmentation: %v", sess.SegmentsErr)
	case sess.VocabularyErr != nil:
		return fmt.Sprintf("Loaded without vocabulary: %v", sess.VocabularyErr)
	default:
		// the service answered but the segment list was empty
		return "Loaded with local segmentation; service returned no segments"
	}
}

// rebuildScheduler creates a fresh learning cycle for the loaded vocabulary
func (a *Application) rebuildScheduler(sess *reader.Session) {
	a.scheduler = session.New(session.NewSpeechSpeaker(a.speaker), sess.Vocabulary, session.Config{
		SourceLanguage: language.Tag(a.config.SourceLanguage),
		TargetLanguage: language.Tag(a.config.TargetLanguage),
		IntroRate:      a.config.IntroRate,
		FixationDwell:  a.config.FixationDwell,
	})
	a.scheduler.SetCallbacks(
		func(phase session.Phase, index int) {
			fyne.Do(func() {
				a.sessionCard.ShowPhase(phase, index)
			})
			if phase == session.PhaseIntro {
				a.fetchPhonetic(index)
			}
		},
		func() {
			fyne.Do(func() {
				a.sessionCard.SetRunning(false)
				a.updateStatus("Learning cycle finished")
			})
		},
	)
}

// fetchPhonetic shows the IPA hint for the word being introduced
func (a *Application) fetchPhonetic(index int) {
	if a.phonetic == nil || a.current == nil {
		return
	}
	if index < 0 || index >= len(a.current.Vocabulary) {
		return
	}
	word := a.current.Vocabulary[index].SourceWord

	go func() {
		hint, err := a.phonetic.Fetch(a.ctx, word)
		if err != nil {
			return
		}
		fyne.Do(func() {
			a.sessionCard.ShowPhonetic(hint)
		})
	}()
}

// onPlayPause toggles reading playback, generating audio on first use
func (a *Application) onPlayPause() {
	if a.current == nil {
		return
	}

	snapshot := a.controller.Snapshot()
	switch {
	case snapshot.State == player.Playing:
		a.controller.Pause()
	case snapshot.Duration > 0:
		if err := a.controller.Play(); err != nil {
			a.updateStatus(fmt.Sprintf("Playback error: %v", err))
		}
	default:
		a.generateAndPlay()
	}
}

// generateAndPlay synthesizes the full reading audio, then starts playback
func (a *Application) generateAndPlay() {
	text := a.current.Text
	a.updateStatus("Generating audio...")
	a.playerBar.SetEnabled(false)

	go func() {
		err := a.controller.GenerateAndPlay(a.ctx, text)

		fyne.Do(func() {
			a.playerBar.SetEnabled(true)
			if err != nil {
				dialog.ShowError(fmt.Errorf("audio generation failed: %w", err), a.window)
				a.updateStatus("Audio generation failed")
				return
			}
			if err := a.controller.SetRate(a.playerBar.Rate()); err != nil {
				a.updateStatus(fmt.Sprintf("Rate change failed: %v", err))
			}
		})
	}()
}

func (a *Application) onPlaybackStop() {
	a.controller.Stop()
}

func (a *Application) onRateChange(rate float64) {
	if err := a.controller.SetRate(rate); err != nil {
		a.updateStatus(fmt.Sprintf("Rate change failed: %v", err))
	}
}

// onSegmentTapped seeks playback to the clicked segment
func (a *Application) onSegmentTapped(index int) {
	if err := a.controller.SeekAndPlay(index); err != nil {
		a.updateStatus(fmt.Sprintf("Seek failed: %v", err))
	}
}

// onSessionStart begins the learning cycle, pausing the reading playback
func (a *Application) onSessionStart() {
	if a.scheduler == nil {
		return
	}
	if a.controller.Snapshot().State == player.Playing {
		a.controller.Pause()
	}
	a.scheduler.Start()
	a.sessionCard.SetRunning(true)
	a.updateStatus("Learning cycle started")
}

func (a *Application) onSessionSkip() {
	if a.scheduler != nil {
		a.scheduler.Skip()
	}
}

func (a *Application) onSessionStop() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.sessionCard.SetRunning(false)
	}
}

// setupKeyboardShortcuts sets up keyboard shortcuts for the application
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		// Typing in the text entry must not trigger shortcuts
		if a.window.Canvas().Focused() == a.textEntry {
			return
		}

		switch r {
		case 't', 'T':
			a.window.Canvas().Focus(a.textEntry)
		case 's', 'S':
			a.onPlaybackStop()
		case 'l', 'L':
			a.onSessionStart()
		case 'n', 'N':
			a.onSessionSkip()
		case 'q', 'Q':
			a.window.Close()
		}
	})

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			a.window.Canvas().Unfocus()
			return
		}

		if a.window.Canvas().Focused() == a.textEntry {
			return
		}

		switch ev.Name {
		case fyne.KeySpace:
			a.onPlayPause()
		case fyne.KeyReturn, fyne.KeyEnter:
			a.onLoad()
		}
	})
}

func (a *Application) updateStatus(text string) {
	a.statusLabel.SetText(text)
}
