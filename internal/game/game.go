// Package game is the ebiten front end: it feeds pointer and keyboard
// input to the interaction controller, ticks the animation clock and draws
// the scene with its toolbar, tooltip and detail panel.
package game

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/survival-singularity/internal/app"
	"github.com/iburimskiy/survival-singularity/internal/audio"
	"github.com/iburimskiy/survival-singularity/internal/config"
	"github.com/iburimskiy/survival-singularity/internal/interaction"
	"github.com/iburimskiy/survival-singularity/internal/logger"
	"github.com/iburimskiy/survival-singularity/internal/persistence"
	"github.com/iburimskiy/survival-singularity/internal/render"
	"github.com/iburimskiy/survival-singularity/internal/scene"
)

// Sound is the audio the game drives. audio.Player implements it.
type Sound interface {
	Chimer
	Level() float64
	TogglePause()
	PlaySoundtrack(ctx context.Context, path string) error
	HasSoundtrack() (loaded, paused bool)
}

// Deps are the collaborators a Game draws and drives.
type Deps struct {
	Coordinator *app.Coordinator
	Controller  *interaction.Controller
	Store       *scene.Store
	Clock       *scene.Clock
	Camera      *render.Camera
	Overlay     *Overlay
	Dialogs     Dialogs
	Sound       Sound // nil when audio is off
	Log         logger.Logger
	Width       int
	Height      int
}

// Game implements ebiten.Game.
type Game struct {
	ctx     context.Context
	coord   *app.Coordinator
	ctrl    *interaction.Controller
	store   *scene.Store
	clock   *scene.Clock
	cam     *render.Camera
	overlay *Overlay
	dialogs Dialogs
	sound   Sound
	log     logger.Logger

	width, height int
	toolbar       *toolbar
	meter         *audio.Meter
	segs          []render.Segment

	// last drawn panel bounds and its close box, for hit tests
	panelBounds image.Rectangle
	closeBounds image.Rectangle

	// input edge detection
	prevKey map[ebiten.Key]bool

	dragging     bool
	dragX, dragY int
}

func New(ctx context.Context, d Deps) *Game {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Dialogs == nil {
		d.Dialogs = ZenityDialogs{}
	}
	return &Game{
		ctx:     ctx,
		coord:   d.Coordinator,
		ctrl:    d.Controller,
		store:   d.Store,
		clock:   d.Clock,
		cam:     d.Camera,
		overlay: d.Overlay,
		dialogs: d.Dialogs,
		sound:   d.Sound,
		log:     d.Log,
		width:   d.Width,
		height:  d.Height,
		toolbar: newToolbar(),
		meter:   &audio.Meter{Smoothing: config.SmoothingFactor},
		prevKey: map[ebiten.Key]bool{},
	}
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	g.pollLoad()

	mouseX, mouseY := ebiten.CursorPosition()
	leftPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	leftReleased := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)

	selected := g.ctrl.SelectedID() != ""
	g.toolbar.setEnabled(actionEdit, selected)
	g.toolbar.setEnabled(actionRemove, selected)
	g.toolbar.setEnabled(actionSoundtrack, g.sound != nil)
	if a := g.toolbar.update(mouseX, mouseY, leftPressed, leftReleased); a != actionNone {
		g.run(a)
	}

	overUI := g.toolbar.contains(mouseX, mouseY) || g.overPanel(mouseX, mouseY)
	if !overUI {
		g.ctrl.PointerMove(interaction.Point{X: float64(mouseX), Y: float64(mouseY)})
	}
	if leftPressed {
		switch {
		case g.overPanel(mouseX, mouseY) && image.Pt(mouseX, mouseY).In(g.closeBounds):
			g.closePanel()
		case !overUI:
			g.ctrl.Click()
		}
	}

	g.updateCamera(mouseX, mouseY)

	if justPressed(ebiten.KeyTab) {
		g.focusNext()
	}
	if justPressed(ebiten.KeyR) {
		g.ResetView()
	}
	if justPressed(ebiten.KeySpace) && g.sound != nil {
		g.sound.TogglePause()
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.clock.Tick(1.0 / float64(ebiten.TPS()))
	if g.sound != nil {
		g.store.Singularity().SetFlare(g.meter.Update(g.sound.Level()))
	}
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// HighlightEvent selects id and moves the camera next to it.
func (g *Game) HighlightEvent(id string) error {
	if err := g.coord.HighlightEvent(id); err != nil {
		return err
	}
	if obj, ok := g.store.Get(id); ok {
		g.cam.Focus(obj.Position)
	}
	return nil
}

// ResetView restores the default camera and clears the selection.
func (g *Game) ResetView() {
	g.cam.Reset()
	g.closePanel()
}

func (g *Game) closePanel() {
	g.overlay.ClosePanel()
	g.coord.DeselectEvent()
}

func (g *Game) overPanel(x, y int) bool {
	_, open := g.overlay.Panel()
	return open && image.Pt(x, y).In(g.panelBounds)
}

func (g *Game) pollLoad() {
	loaded, err := g.coord.Poll()
	if !loaded {
		return
	}
	if err != nil {
		g.overlay.SetError(fmt.Errorf("saved events unreadable, showing defaults: %w", err))
		return
	}
	g.overlay.SetStatus("%d events loaded", g.store.Len())
}

// updateCamera orbits while the right button is held and zooms with the
// wheel.
func (g *Game) updateCamera(mouseX, mouseY int) {
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		if g.dragging {
			dx, dy := mouseX-g.dragX, mouseY-g.dragY
			g.cam.Orbit(-float64(dx)*config.OrbitSensitivity, float64(dy)*config.OrbitSensitivity)
		}
		g.dragging = true
		g.dragX, g.dragY = mouseX, mouseY
	} else {
		g.dragging = false
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.cam.Zoom(math.Pow(config.ZoomStep, -wy))
	}
}

// focusNext highlights the event after the selected one, oldest first.
func (g *Game) focusNext() {
	records := g.coord.Records()
	if len(records) == 0 {
		return
	}
	next := 0
	for i, r := range records {
		if r.ID == g.ctrl.SelectedID() {
			next = (i + 1) % len(records)
			break
		}
	}
	if err := g.HighlightEvent(records[next].ID); err != nil {
		g.overlay.SetError(err)
	}
}

func (g *Game) run(a action) {
	var err error
	switch a {
	case actionImport:
		err = g.importEvents()
	case actionExport:
		err = g.exportEvents()
	case actionAdd:
		err = g.addEvent()
	case actionEdit:
		err = g.editEvent()
	case actionRemove:
		err = g.removeEvent()
	case actionSoundtrack:
		err = g.openSoundtrack()
	}
	if errors.Is(err, ErrCanceled) {
		return
	}
	if err != nil {
		g.log.Warn(g.ctx, "toolbar action failed", logger.Error(err))
		g.overlay.SetError(err)
	}
}

func (g *Game) importEvents() error {
	path, mode, err := g.dialogs.OpenImport(g.ctx)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := g.coord.ImportData(g.ctx, data, persistence.FormatFromPath(path), mode); err != nil {
		return err
	}
	g.overlay.SetStatus("Imported %s (%s), %d events", filepath.Base(path), mode, g.store.Len())
	return nil
}

func (g *Game) exportEvents() error {
	path, err := g.dialogs.SaveExport(g.ctx)
	if err != nil {
		return err
	}
	if err := g.coord.ExportData(g.ctx, path); err != nil {
		return err
	}
	g.overlay.SetStatus("Exported %d events to %s", g.store.Len(), filepath.Base(path))
	return nil
}

func (g *Game) addEvent() error {
	in, err := g.dialogs.EditEvent(g.ctx, "Add Event", FormInput{})
	if err != nil {
		return err
	}
	rec, err := ParseForm(in)
	if err != nil {
		return err
	}
	added, err := g.coord.AddEvent(g.ctx, rec)
	if !kept(err) {
		return err
	}
	g.overlay.SetStatus("Added %q", added.Title)
	return err
}

func (g *Game) editEvent() error {
	current, ok := g.coord.Record(g.ctrl.SelectedID())
	if !ok {
		return nil
	}
	in, err := g.dialogs.EditEvent(g.ctx, "Edit Event", FormFrom(current))
	if err != nil {
		return err
	}
	rec, err := ParseForm(in)
	if err != nil {
		return err
	}
	rec.ID = current.ID
	err = g.coord.UpdateEvent(g.ctx, rec)
	if !kept(err) {
		return err
	}
	g.overlay.RefreshPanel(rec)
	g.overlay.SetStatus("Updated %q", rec.Title)
	return err
}

func (g *Game) removeEvent() error {
	current, ok := g.coord.Record(g.ctrl.SelectedID())
	if !ok {
		return nil
	}
	yes, err := g.dialogs.ConfirmRemove(g.ctx, current.Title)
	if err != nil || !yes {
		return err
	}
	err = g.coord.RemoveEvent(g.ctx, current.ID)
	if !kept(err) {
		return err
	}
	g.overlay.SetStatus("Removed %q", current.Title)
	return err
}

// kept reports whether a change survived err: only a failed save leaves it
// applied in memory.
func kept(err error) bool {
	return err == nil || errors.Is(err, persistence.ErrPersistence)
}

func (g *Game) openSoundtrack() error {
	path, err := g.dialogs.OpenSoundtrack(g.ctx)
	if err != nil {
		return err
	}
	if err := g.sound.PlaySoundtrack(g.ctx, path); err != nil {
		return err
	}
	g.overlay.SetStatus("Soundtrack: %s", filepath.Base(path))
	return nil
}
