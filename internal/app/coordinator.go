// Package app coordinates the event collection between persistence, the
// scene store and the interaction controller. Every method except Start is
// meant to run on the frame thread.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/iburimskiy/survival-singularity/internal/event"
	"github.com/iburimskiy/survival-singularity/internal/interaction"
	"github.com/iburimskiy/survival-singularity/internal/layout"
	"github.com/iburimskiy/survival-singularity/internal/logger"
	"github.com/iburimskiy/survival-singularity/internal/metrics"
	"github.com/iburimskiy/survival-singularity/internal/persistence"
	"github.com/iburimskiy/survival-singularity/internal/scene"
)

// Persistence is the storage the coordinator loads from and saves to.
type Persistence interface {
	Load(ctx context.Context) ([]event.Record, error)
	Save(ctx context.Context, records []event.Record) error
	Export(ctx context.Context, path string, records []event.Record) error
}

type loadResult struct {
	records []event.Record
	err     error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

func WithLogger(l logger.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// Coordinator owns the canonical record list. The scene store always holds
// exactly one object per record in it.
type Coordinator struct {
	store   *scene.Store
	ctrl    *interaction.Controller
	persist Persistence
	log     logger.Logger
	metrics *metrics.Manager

	records []event.Record
	loads   chan loadResult
	started bool
	ready   bool
}

func NewCoordinator(store *scene.Store, ctrl *interaction.Controller, persist Persistence, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:   store,
		ctrl:    ctrl,
		persist: persist,
		log:     logger.Nop(),
		loads:   make(chan loadResult, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start loads the collection in the background. The result is applied by
// the next Poll that sees it. Only the first call starts a load.
func (c *Coordinator) Start(ctx context.Context) {
	if c.started {
		return
	}
	c.started = true
	go func() {
		records, err := c.persist.Load(ctx)
		c.loads <- loadResult{records: records, err: err}
	}()
}

// Poll applies a finished background load. It reports whether one was
// applied during this call, along with the load error if any; the records
// that came with a failed load are still shown.
func (c *Coordinator) Poll() (bool, error) {
	select {
	case res := <-c.loads:
		return true, c.apply(res)
	default:
		return false, nil
	}
}

// Initialize loads synchronously.
func (c *Coordinator) Initialize(ctx context.Context) error {
	records, err := c.persist.Load(ctx)
	return c.apply(loadResult{records: records, err: err})
}

// Ready reports whether the first load has been applied.
func (c *Coordinator) Ready() bool { return c.ready }

// Records returns a copy of the current collection in display order.
func (c *Coordinator) Records() []event.Record {
	out := make([]event.Record, len(c.records))
	for i, r := range c.records {
		out[i] = r.Clone()
	}
	return out
}

// Record returns the record for id.
func (c *Coordinator) Record(id string) (event.Record, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.records[i].Clone(), true
	}
	return event.Record{}, false
}

// AddEvent validates rec, gives it an id when missing, shows it and saves
// the collection. A failed save is returned but the event stays.
func (c *Coordinator) AddEvent(ctx context.Context, rec event.Record) (event.Record, error) {
	if !c.ready {
		return event.Record{}, ErrNotReady
	}
	if err := rec.Validate(); err != nil {
		return event.Record{}, err
	}
	rec = rec.Clone()
	rec.EnsureID()
	if c.indexOf(rec.ID) >= 0 {
		return event.Record{}, fmt.Errorf("%w: %s", ErrDuplicateEvent, rec.ID)
	}
	if _, err := c.store.Add(rec); err != nil {
		return event.Record{}, fmt.Errorf("add %s: %w", rec.ID, err)
	}
	c.records = append(c.records, rec)
	c.log.Info(ctx, "event added", logger.String("id", rec.ID), logger.String("title", rec.Title))
	return rec, c.save(ctx)
}

// RemoveEvent deletes the event id.
func (c *Coordinator) RemoveEvent(ctx context.Context, id string) error {
	if !c.ready {
		return ErrNotReady
	}
	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, scene.ErrNotFound)
	}
	if err := c.store.Remove(id); err != nil {
		return err
	}
	c.records = append(c.records[:i], c.records[i+1:]...)
	c.ctrl.Reconcile()
	c.log.Info(ctx, "event removed", logger.String("id", id))
	return c.save(ctx)
}

// UpdateEvent replaces the event with rec's id.
func (c *Coordinator) UpdateEvent(ctx context.Context, rec event.Record) error {
	if !c.ready {
		return ErrNotReady
	}
	i := c.indexOf(rec.ID)
	if i < 0 {
		return fmt.Errorf("update %s: %w", rec.ID, scene.ErrNotFound)
	}
	if err := c.store.Update(rec); err != nil {
		return err
	}
	c.records[i] = rec.Clone()
	c.log.Info(ctx, "event updated", logger.String("id", rec.ID))
	return c.save(ctx)
}

// ExportData writes the collection to path.
func (c *Coordinator) ExportData(ctx context.Context, path string) error {
	return c.persist.Export(ctx, path, c.records)
}

// ImportData parses data and merges it into the collection. An invalid
// payload leaves everything as it was.
func (c *Coordinator) ImportData(ctx context.Context, data []byte, format persistence.Format, mode persistence.Mode) error {
	if !c.ready {
		return ErrNotReady
	}
	imported, err := persistence.Decode(data, format)
	if err != nil {
		c.log.Warn(ctx, "import rejected", logger.Error(err))
		c.metrics.RecordPersistenceFailure("import")
		return err
	}

	merged := persistence.Merge(c.records, imported, mode)
	c.show(merged)
	c.metrics.RecordImport(mode.String())
	c.log.Info(ctx, "events imported",
		logger.String("mode", mode.String()),
		logger.Int("imported", len(imported)),
		logger.Int("total", len(c.records)),
	)
	return c.save(ctx)
}

// DeselectEvent clears the selection after the UI closed the detail panel.
func (c *Coordinator) DeselectEvent() {
	c.ctrl.Deselect()
}

// HighlightEvent selects id as if it had been clicked.
func (c *Coordinator) HighlightEvent(id string) error {
	return c.ctrl.Select(id)
}

func (c *Coordinator) apply(res loadResult) error {
	records := res.records
	if records == nil {
		records = []event.Record{}
	}
	c.show(persistence.Merge(nil, records, persistence.Replace))
	c.ready = true

	if res.err != nil {
		c.log.Error(context.Background(), "load failed, showing fallback events",
			logger.Int("count", len(c.records)),
			logger.Error(res.err),
		)
		return res.err
	}
	c.log.Info(context.Background(), "scene populated", logger.Int("count", len(c.records)))
	return nil
}

// show makes records the collection, oldest first, and rebuilds the scene.
func (c *Coordinator) show(records []event.Record) {
	c.records = layout.SortByAge(records)
	c.store.Load(c.records)
	c.ctrl.Reconcile()
}

func (c *Coordinator) save(ctx context.Context) error {
	if err := c.persist.Save(ctx, c.records); err != nil {
		c.log.Error(ctx, "save failed, keeping changes in memory", logger.Error(err))
		if errors.Is(err, persistence.ErrPersistence) {
			return err
		}
		return fmt.Errorf("save: %v: %w", err, persistence.ErrPersistence)
	}
	return nil
}

func (c *Coordinator) indexOf(id string) int {
	for i, r := range c.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
