// Package interaction turns pointer moves and clicks into hover and
// selection state on the scene, and reports the changes through typed
// callbacks.
package interaction

import (
	"context"
	"fmt"

	"github.com/iburimskiy/survival-singularity/internal/event"
	"github.com/iburimskiy/survival-singularity/internal/logger"
	"github.com/iburimskiy/survival-singularity/internal/metrics"
	"github.com/iburimskiy/survival-singularity/internal/scene"
)

// Tooltip offset from the pointer, in pixels.
const (
	TooltipOffsetX = 15
	TooltipOffsetY = 10
)

// Point is a screen position in pixels.
type Point struct {
	X, Y float64
}

// Hit is one object under the pointer. Depth grows away from the viewer.
type Hit struct {
	ID    string
	Depth float64
}

// Picker intersects the pointer ray with objects and returns the hits
// nearest first.
type Picker interface {
	Intersect(p Point, objects []*scene.Object) []Hit
}

// Callbacks are the notifications emitted by the controller. Every slot is
// optional.
type Callbacks struct {
	OnShowTooltip           func(rec event.Record)
	OnHideTooltip           func()
	OnUpdateTooltipPosition func(p Point)
	OnEventSelected         func(rec event.Record)
	OnEventDeselected       func()
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(c *Controller) { c.metrics = m }
}

// Controller tracks at most one hovered and one selected object. Hover and
// selection are independent; when both land on the same object the
// selection scale wins.
type Controller struct {
	store   *scene.Store
	picker  Picker
	cb      Callbacks
	log     logger.Logger
	metrics *metrics.Manager

	pointer  Point
	hovered  string
	selected string
}

func NewController(store *scene.Store, picker Picker, cb Callbacks, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		picker: picker,
		cb:     cb,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HoveredID returns the hovered id, or "" when nothing is hovered.
func (c *Controller) HoveredID() string { return c.hovered }

// SelectedID returns the selected id, or "" when nothing is selected.
func (c *Controller) SelectedID() string { return c.selected }

// Pointer is the last observed pointer position.
func (c *Controller) Pointer() Point { return c.pointer }

// TooltipPosition is where the tooltip goes for the current pointer.
func (c *Controller) TooltipPosition() Point {
	return Point{X: c.pointer.X + TooltipOffsetX, Y: c.pointer.Y + TooltipOffsetY}
}

// PointerMove updates hover state for a pointer at p.
func (c *Controller) PointerMove(p Point) {
	c.pointer = p
	if !c.store.Loaded() {
		return
	}

	id := c.nearest(p)
	if id != c.hovered {
		c.exitHover()
		if id == "" {
			return
		}
		c.enterHover(id)
	}
	if c.hovered != "" && c.cb.OnUpdateTooltipPosition != nil {
		c.cb.OnUpdateTooltipPosition(c.TooltipPosition())
	}
}

// Click selects the object under the pointer, or clears the selection when
// there is none.
func (c *Controller) Click() {
	if !c.store.Loaded() {
		return
	}

	id := c.nearest(c.pointer)
	if id == "" {
		if c.selected != "" {
			c.exitSelect()
			if c.cb.OnEventDeselected != nil {
				c.cb.OnEventDeselected()
			}
		}
		return
	}
	if id == c.selected {
		return
	}
	c.exitSelect()
	c.enterSelect(id)
}

// Select selects id as if it had been clicked.
func (c *Controller) Select(id string) error {
	if _, ok := c.store.Get(id); !ok {
		return fmt.Errorf("select %q: %w", id, scene.ErrNotFound)
	}
	if id == c.selected {
		return nil
	}
	c.exitSelect()
	c.enterSelect(id)
	return nil
}

// Deselect clears the selection on request from the UI. It does not emit
// OnEventDeselected since the UI initiated it.
func (c *Controller) Deselect() {
	c.exitSelect()
}

// Reconcile brings hover and selection in line with the store after it was
// changed underneath the controller. Ids that are gone are dropped with the
// matching hide and deselect notifications; ids that survived a reload get
// their highlight flags back, since reloaded objects start unflagged.
func (c *Controller) Reconcile() {
	if c.hovered != "" {
		if _, ok := c.store.Get(c.hovered); ok {
			_ = c.store.SetHovered(c.hovered, true)
		} else {
			c.hovered = ""
			if c.cb.OnHideTooltip != nil {
				c.cb.OnHideTooltip()
			}
		}
	}
	if c.selected != "" {
		if _, ok := c.store.Get(c.selected); ok {
			_ = c.store.SetSelected(c.selected, true)
		} else {
			c.selected = ""
			if c.cb.OnEventDeselected != nil {
				c.cb.OnEventDeselected()
			}
		}
	}
}

// nearest returns the id of the nearest hit that has a backing object.
func (c *Controller) nearest(p Point) string {
	if c.picker == nil {
		return ""
	}
	for _, h := range c.picker.Intersect(p, c.store.Objects()) {
		if _, ok := c.store.Get(h.ID); ok {
			return h.ID
		}
		c.log.Warn(context.Background(), "hit without backing record", logger.String("id", h.ID))
	}
	return ""
}

func (c *Controller) enterHover(id string) {
	obj, ok := c.store.Get(id)
	if !ok {
		return
	}
	c.hovered = id
	_ = c.store.SetHovered(id, true)
	c.metrics.RecordHoverEnter()
	if c.cb.OnShowTooltip != nil {
		c.cb.OnShowTooltip(obj.Record)
	}
}

func (c *Controller) exitHover() {
	if c.hovered == "" {
		return
	}
	_ = c.store.SetHovered(c.hovered, false)
	c.hovered = ""
	if c.cb.OnHideTooltip != nil {
		c.cb.OnHideTooltip()
	}
}

func (c *Controller) enterSelect(id string) {
	obj, ok := c.store.Get(id)
	if !ok {
		return
	}
	c.selected = id
	_ = c.store.SetSelected(id, true)
	c.metrics.RecordSelection()
	c.log.Debug(context.Background(), "event selected", logger.String("id", id), logger.String("title", obj.Record.Title))
	if c.cb.OnEventSelected != nil {
		c.cb.OnEventSelected(obj.Record)
	}
}

func (c *Controller) exitSelect() {
	if c.selected == "" {
		return
	}
	_ = c.store.SetSelected(c.selected, false)
	c.selected = ""
	c.metrics.RecordDeselection()
}

// TooltipText is the tooltip body for rec: its title and probability.
func TooltipText(rec event.Record) string {
	return fmt.Sprintf("%s\nP = %s", rec.Title, event.FormatProbability(rec.Probability, 2))
}
