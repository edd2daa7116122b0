package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// TextEntry extends widget.Entry to handle the Escape key, so keyboard
// shortcuts work again after editing the reading text.
type TextEntry struct {
	widget.Entry
	onEscape func()
}

// NewTextEntry creates a new multi-line reading text entry
func NewTextEntry() *TextEntry {
	entry := &TextEntry{}
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapWord
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *TextEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *TextEntry) SetOnEscape(f func()) {
	e.onEscape = f
}
