package gui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/readalong/internal/player"
)

var rateOptions = []string{"0.5", "0.75", "1.0", "1.25", "1.5", "2.0"}

// PlayerBar is the playback control strip: play/pause, stop, rate selector
// and a status label.
type PlayerBar struct {
	widget.BaseWidget

	container   *fyne.Container
	playButton  *ttwidget.Button
	stopButton  *ttwidget.Button
	rateSelect  *widget.Select
	statusLabel *widget.Label

	state player.State

	// Callbacks into the playback controller
	OnPlayPause  func()
	OnStop       func()
	OnRateChange func(rate float64)
}

// NewPlayerBar creates a new player bar widget
func NewPlayerBar() *PlayerBar {
	p := &PlayerBar{}

	p.playButton = ttwidget.NewButton("", p.onPlayPause)
	p.playButton.Icon = theme.MediaPlayIcon()
	p.playButton.SetToolTip("Play/pause (Space)")

	p.stopButton = ttwidget.NewButton("", p.onStop)
	p.stopButton.Icon = theme.MediaStopIcon()
	p.stopButton.SetToolTip("Stop (S)")

	p.rateSelect = widget.NewSelect(rateOptions, p.onRateSelected)
	p.rateSelect.SetSelected("1.0")

	p.statusLabel = widget.NewLabel("No text loaded")

	// Initially disable controls
	p.playButton.Disable()
	p.stopButton.Disable()
	p.rateSelect.Disable()

	p.container = container.NewHBox(
		p.playButton,
		p.stopButton,
		p.rateSelect,
		layout.NewSpacer(),
		p.statusLabel,
	)

	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *PlayerBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.container)
}

// SetEnabled enables or disables the playback controls
func (p *PlayerBar) SetEnabled(enabled bool) {
	if enabled {
		p.playButton.Enable()
		p.rateSelect.Enable()
	} else {
		p.playButton.Disable()
		p.stopButton.Disable()
		p.rateSelect.Disable()
	}
}

// SetState updates the controls to reflect the playback state
func (p *PlayerBar) SetState(state player.State) {
	p.state = state

	switch state {
	case player.Playing:
		p.playButton.SetIcon(theme.MediaPauseIcon())
		p.stopButton.Enable()
	case player.Paused:
		p.playButton.SetIcon(theme.MediaPlayIcon())
		p.stopButton.Enable()
	default:
		p.playButton.SetIcon(theme.MediaPlayIcon())
		p.stopButton.Disable()
	}
}

// SetStatus updates the status label
func (p *PlayerBar) SetStatus(text string) {
	p.statusLabel.SetText(text)
}

// Rate returns the currently selected playback rate
func (p *PlayerBar) Rate() float64 {
	rate, err := strconv.ParseFloat(p.rateSelect.Selected, 64)
	if err != nil {
		return 1.0
	}
	return rate
}

func (p *PlayerBar) onPlayPause() {
	if p.OnPlayPause != nil {
		p.OnPlayPause()
	}
}

func (p *PlayerBar) onStop() {
	if p.OnStop != nil {
		p.OnStop()
	}
}

func (p *PlayerBar) onRateSelected(selected string) {
	rate, err := strconv.ParseFloat(selected, 64)
	if err != nil {
		return
	}
	if p.OnRateChange != nil {
		p.OnRateChange(rate)
	}
}
