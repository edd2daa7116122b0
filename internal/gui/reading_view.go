package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/readalong/internal/segment"
)

// ReadingView displays the reading text as individual segments, highlights
// the one currently being spoken and reports segment clicks for seeking.
type ReadingView struct {
	widget.BaseWidget

	container *fyne.Container
	labels    []*segmentLabel

	highlighted int
	onTap       func(index int)
}

// NewReadingView creates an empty reading view
func NewReadingView() *ReadingView {
	v := &ReadingView{
		container:   container.New(&flowLayout{}),
		highlighted: -1,
	}
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *ReadingView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

// SetOnSegmentTapped sets the callback for when a segment is clicked
func (v *ReadingView) SetOnSegmentTapped(f func(index int)) {
	v.onTap = f
}

// SetSegments replaces the displayed segments and clears the highlight
func (v *ReadingView) SetSegments(segs []segment.Segment) {
	v.container.RemoveAll()
	v.labels = make([]*segmentLabel, len(segs))
	v.highlighted = -1

	for i, s := range segs {
		label := newSegmentLabel(s.Text, i, func(index int) {
			if v.onTap != nil {
				v.onTap(index)
			}
		})
		v.labels[i] = label
		v.container.Add(label)
	}
	v.container.Refresh()
}

// Highlight moves the highlight to the given segment index; -1 clears it
func (v *ReadingView) Highlight(index int) {
	if index == v.highlighted {
		return
	}
	if v.highlighted >= 0 && v.highlighted < len(v.labels) {
		v.labels[v.highlighted].setHighlighted(false)
	}
	v.highlighted = index
	if index >= 0 && index < len(v.labels) {
		v.labels[index].setHighlighted(true)
	}
}

// Clear removes all segments from the view
func (v *ReadingView) Clear() {
	v.container.RemoveAll()
	v.labels = nil
	v.highlighted = -1
	v.container.Refresh()
}

// segmentLabel is one clickable segment with a highlight background
type segmentLabel struct {
	widget.BaseWidget

	text  *canvas.Text
	bg    *canvas.Rectangle
	index int
	onTap func(index int)
}

func newSegmentLabel(text string, index int, onTap func(int)) *segmentLabel {
	l := &segmentLabel{
		text:  canvas.NewText(text, theme.Color(theme.ColorNameForeground)),
		bg:    canvas.NewRectangle(color.Transparent),
		index: index,
		onTap: onTap,
	}
	l.text.TextSize = theme.TextSize() * 1.2
	l.bg.CornerRadius = 3
	l.ExtendBaseWidget(l)
	return l
}

// CreateRenderer implements fyne.Widget
func (l *segmentLabel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(l.bg, l.text))
}

// Tapped implements fyne.Tappable
func (l *segmentLabel) Tapped(_ *fyne.PointEvent) {
	if l.onTap != nil {
		l.onTap(l.index)
	}
}

func (l *segmentLabel) setHighlighted(on bool) {
	if on {
		l.bg.FillColor = theme.Color(theme.ColorNameSelection)
	} else {
		l.bg.FillColor = color.Transparent
	}
	l.bg.Refresh()
}

// flowLayout lays segments out left to right, wrapping like text
type flowLayout struct{}

const flowGap = float32(6)

// MinSize implements fyne.Layout
func (f *flowLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var w, h float32
	for _, o := range objects {
		size := o.MinSize()
		if size.Width > w {
			w = size.Width
		}
		if size.Height > h {
			h = size.Height
		}
	}
	return fyne.NewSize(w, h)
}

// Layout implements fyne.Layout
func (f *flowLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	var x, y, rowHeight float32
	for _, o := range objects {
		min := o.MinSize()
		if x > 0 && x+min.Width > size.Width {
			x = 0
			y += rowHeight + flowGap
			rowHeight = 0
		}
		o.Resize(min)
		o.Move(fyne.NewPos(x, y))
		x += min.Width + flowGap
		if min.Height > rowHeight {
			rowHeight = min.Height
		}
	}
}
