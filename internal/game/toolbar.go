package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/survival-singularity/internal/config"
)

type action int

const (
	actionNone action = iota
	actionImport
	actionExport
	actionAdd
	actionEdit
	actionRemove
	actionSoundtrack
)

type button struct {
	label    string
	action   action
	x, y     int
	w, h     int
	hovered  bool
	pressed  bool
	disabled bool
}

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+b.w && y >= b.y && y <= b.y+b.h
}

// update tracks hover and press and reports a click: press and release both
// inside the button.
func (b *button) update(x, y int, justPressed, justReleased bool) bool {
	b.hovered = b.contains(x, y)
	if b.disabled {
		b.pressed = false
		return false
	}
	if b.hovered && justPressed {
		b.pressed = true
	}
	clicked := false
	if justReleased {
		clicked = b.pressed && b.hovered
		b.pressed = false
	}
	return clicked
}

func (b *button) draw(screen *ebiten.Image) {
	var bg color.Color
	switch {
	case b.disabled:
		bg = color.RGBA{R: 50, G: 55, B: 70, A: 200}
	case b.pressed:
		bg = color.RGBA{R: 60, G: 80, B: 120, A: 255}
	case b.hovered:
		bg = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	default:
		bg = color.RGBA{R: 100, G: 120, B: 160, A: 255}
	}
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bg, false)
	vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 2, color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)

	textWidth := len(b.label) * charWidth
	ebitenutil.DebugPrintAt(screen, b.label, b.x+(b.w-textWidth)/2, b.y+(b.h-charHeight)/2)
}

type toolbar struct {
	buttons []*button
}

func newToolbar() *toolbar {
	t := &toolbar{}
	for i, spec := range []struct {
		label  string
		action action
	}{
		{"Import", actionImport},
		{"Export", actionExport},
		{"Add Event", actionAdd},
		{"Edit", actionEdit},
		{"Remove", actionRemove},
		{"Soundtrack", actionSoundtrack},
	} {
		t.buttons = append(t.buttons, &button{
			label:  spec.label,
			action: spec.action,
			x:      config.ButtonX + i*(config.ButtonWidth+config.ButtonGap),
			y:      config.ButtonY,
			w:      config.ButtonWidth,
			h:      config.ButtonHeight,
		})
	}
	return t
}

// setEnabled turns the button for a on or off.
func (t *toolbar) setEnabled(a action, on bool) {
	for _, b := range t.buttons {
		if b.action == a {
			b.disabled = !on
		}
	}
}

// update returns the clicked action, if any.
func (t *toolbar) update(x, y int, justPressed, justReleased bool) action {
	clicked := actionNone
	for _, b := range t.buttons {
		if b.update(x, y, justPressed, justReleased) {
			clicked = b.action
		}
	}
	return clicked
}

func (t *toolbar) contains(x, y int) bool {
	for _, b := range t.buttons {
		if b.contains(x, y) {
			return true
		}
	}
	return false
}

func (t *toolbar) draw(screen *ebiten.Image) {
	for _, b := range t.buttons {
		b.draw(screen)
	}
}
