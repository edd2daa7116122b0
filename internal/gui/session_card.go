package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/readalong/internal/language"
	"codeberg.org/snonux/readalong/internal/session"
)

// SessionCard displays the learning cycle: the current vocabulary word, its
// phonetic hint, the translation once the cycle reveals it, and the
// start/skip/stop controls.
type SessionCard struct {
	widget.BaseWidget

	container *fyne.Container

	wordLabel        *widget.Label
	phoneticLabel    *widget.Label
	translationLabel *widget.Label
	phaseLabel       *widget.Label
	progressLabel    *widget.Label

	startButton *ttwidget.Button
	skipButton  *ttwidget.Button
	stopButton  *ttwidget.Button

	items []language.VocabularyItem

	// Callbacks into the session scheduler
	OnStart func()
	OnSkip  func()
	OnStop  func()
}

// NewSessionCard creates a new session card widget
func NewSessionCard() *SessionCard {
	c := &SessionCard{}

	c.wordLabel = widget.NewLabel("")
	c.wordLabel.TextStyle = fyne.TextStyle{Bold: true}
	c.wordLabel.Alignment = fyne.TextAlignCenter

	c.phoneticLabel = widget.NewLabel("")
	c.phoneticLabel.Alignment = fyne.TextAlignCenter
	c.phoneticLabel.TextStyle = fyne.TextStyle{Italic: true}

	c.translationLabel = widget.NewLabel("")
	c.translationLabel.Alignment = fyne.TextAlignCenter

	c.phaseLabel = widget.NewLabel("")
	c.phaseLabel.Alignment = fyne.TextAlignCenter
	c.phaseLabel.TextStyle = fyne.TextStyle{Italic: true}

	c.progressLabel = widget.NewLabel("")
	c.progressLabel.Alignment = fyne.TextAlignCenter

	c.startButton = ttwidget.NewButton("", c.onStart)
	c.startButton.Icon = theme.MediaPlayIcon()
	c.startButton.SetToolTip("Start learning cycle (L)")

	c.skipButton = ttwidget.NewButton("", c.onSkip)
	c.skipButton.Icon = theme.MediaSkipNextIcon()
	c.skipButton.SetToolTip("Skip to next word (N)")

	c.stopButton = ttwidget.NewButton("", c.onStop)
	c.stopButton.Icon = theme.MediaStopIcon()
	c.stopButton.SetToolTip("Stop learning cycle")

	c.startButton.Disable()
	c.skipButton.Disable()
	c.stopButton.Disable()

	buttons := container.NewHBox(c.startButton, c.skipButton, c.stopButton)

	c.container = container.NewVBox(
		c.wordLabel,
		c.phoneticLabel,
		c.translationLabel,
		c.phaseLabel,
		c.progressLabel,
		container.NewCenter(buttons),
	)

	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget
func (c *SessionCard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.container)
}

// SetVocabulary installs the vocabulary list the session will walk through
func (c *SessionCard) SetVocabulary(items []language.VocabularyItem) {
	c.items = items
	c.wordLabel.SetText("")
	c.phoneticLabel.SetText("")
	c.translationLabel.SetText("")
	c.phaseLabel.SetText("")

	if len(items) == 0 {
		c.progressLabel.SetText("No vocabulary")
		c.startButton.Disable()
		return
	}
	c.progressLabel.SetText(fmt.Sprintf("%d words", len(items)))
	c.startButton.Enable()
}

// ShowPhase updates the card for a phase transition of the given word
func (c *SessionCard) ShowPhase(phase session.Phase, index int) {
	if index < 0 || index >= len(c.items) {
		return
	}
	item := c.items[index]

	c.wordLabel.SetText(item.SourceWord)
	c.phaseLabel.SetText(phase.String())
	c.progressLabel.SetText(fmt.Sprintf("%d / %d", index+1, len(c.items)))

	// The translation stays hidden while the word is introduced
	if phase == session.PhaseIntro {
		c.translationLabel.SetText("")
	} else {
		c.translationLabel.SetText(item.Translation)
	}
}

// ShowPhonetic displays the IPA hint for the current word
func (c *SessionCard) ShowPhonetic(hint string) {
	c.phoneticLabel.SetText(hint)
}

// SetRunning updates the controls for session start and end
func (c *SessionCard) SetRunning(running bool) {
	if running {
		c.startButton.Disable()
		c.skipButton.Enable()
		c.stopButton.Enable()
	} else {
		if len(c.items) > 0 {
			c.startButton.Enable()
		}
		c.skipButton.Disable()
		c.stopButton.Disable()
		c.wordLabel.SetText("")
		c.phoneticLabel.SetText("")
		c.translationLabel.SetText("")
		c.phaseLabel.SetText("Session finished")
	}
}

func (c *SessionCard) onStart() {
	if c.OnStart != nil {
		c.OnStart()
	}
}

func (c *SessionCard) onSkip() {
	if c.OnSkip != nil {
		c.OnSkip()
	}
}

func (c *SessionCard) onStop() {
	if c.OnStop != nil {
		c.OnStop()
	}
}
