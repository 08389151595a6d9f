// Package scene holds the live set of event objects orbiting the
// singularity and the clock that animates them.
package scene

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/iburimskiy/survival-singularity/internal/event"
	"github.com/iburimskiy/survival-singularity/internal/layout"
	"github.com/iburimskiy/survival-singularity/internal/logger"
	"github.com/iburimskiy/survival-singularity/internal/metrics"
	"github.com/iburimskiy/survival-singularity/internal/visual"
)

// New objects start this far from the origin and ease out to their orbit.
const arrivalRadius = layout.SingularityRadius * 1.5

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded visuals and recoveries.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the metrics manager. A nil manager disables metrics.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Store) { s.metrics = m }
}

// WithRand sets the random source for animation parameters and orbit speeds.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// Store maps event ids to their objects. The id set always equals the id
// set of the records it was given. It is not safe for concurrent use; the
// frame loop owns it.
type Store struct {
	objects     []*Object
	byID        map[string]*Object
	singularity *Singularity
	engine      *layout.Engine
	rng         *rand.Rand
	log         logger.Logger
	metrics     *metrics.Manager
	loaded      bool
}

// NewStore returns an empty, not yet loaded store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		byID:        make(map[string]*Object),
		singularity: newSingularity(),
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.engine = layout.NewEngine(s.rng)
	return s
}

// Load replaces the whole population with records, placed in input order,
// and marks the store loaded. Records without an id or with an id already
// seen are skipped. It returns the number of objects created.
func (s *Store) Load(records []event.Record) int {
	s.objects = s.objects[:0]
	s.byID = make(map[string]*Object, len(records))

	n := len(records)
	for i, rec := range records {
		if rec.ID == "" {
			s.log.Warn(context.Background(), "skipping record without id", logger.String("title", rec.Title))
			continue
		}
		if _, dup := s.byID[rec.ID]; dup {
			s.log.Warn(context.Background(), "skipping duplicate record", logger.String("id", rec.ID))
			continue
		}
		obj := s.newObject(rec)
		p := s.engine.Place(i, n, rec.Age)
		obj.Orbit = p.Orbit
		obj.Position = p.Position
		s.insert(obj)
	}
	s.loaded = true
	s.metrics.SetSceneObjects(len(s.objects))
	return len(s.objects)
}

// Add creates an object for rec. It starts near the singularity and eases
// out to its orbit over the following ticks.
func (s *Store) Add(rec event.Record) (*Object, error) {
	if rec.ID == "" {
		return nil, ErrMissingID
	}
	if _, ok := s.byID[rec.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
	}

	n := len(s.objects) + 1
	p := s.engine.Place(n-1, n, rec.Age)

	obj := s.newObject(rec)
	obj.Orbit = p.Orbit
	obj.arriving = true
	obj.targetRadius = p.Orbit.Radius
	obj.targetHeight = p.Orbit.Height
	obj.Orbit.Radius = arrivalRadius
	obj.Orbit.Height = 0
	obj.Position = obj.Orbit.Position()

	s.insert(obj)
	s.metrics.SetSceneObjects(len(s.objects))
	return obj, nil
}

// Remove drops the object for id.
func (s *Store) Remove(id string) error {
	obj, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.byID, id)
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			break
		}
	}
	s.metrics.SetSceneObjects(len(s.objects))
	return nil
}

// Update re-derives the visual and orbit distance of an existing object
// from rec. Identity, pulse phase, orbital angle, speed and highlight state
// are kept, so applying the same record twice is a no-op.
func (s *Store) Update(rec event.Record) error {
	obj, ok := s.byID[rec.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, rec.ID)
	}
	idx := s.indexOf(obj)

	obj.Record = rec.Clone()
	s.applyVisual(obj)

	p := s.engine.Place(idx, len(s.objects), rec.Age)
	if obj.arriving {
		obj.targetRadius = p.Orbit.Radius
		obj.targetHeight = p.Orbit.Height
	} else {
		obj.Orbit.Radius = p.Orbit.Radius
		obj.Orbit.Height = p.Orbit.Height
	}
	obj.Position = obj.Orbit.Position()
	obj.refreshScale()
	return nil
}

// Get returns the object for id.
func (s *Store) Get(id string) (*Object, bool) {
	obj, ok := s.byID[id]
	return obj, ok
}

// Objects returns the objects in placement order. The slice is a copy; the
// objects are shared.
func (s *Store) Objects() []*Object {
	return append([]*Object(nil), s.objects...)
}

// IDs returns the ids in placement order.
func (s *Store) IDs() []string {
	ids := make([]string, len(s.objects))
	for i, o := range s.objects {
		ids[i] = o.ID
	}
	return ids
}

func (s *Store) Len() int { return len(s.objects) }

// Loaded reports whether an initial population has been applied.
func (s *Store) Loaded() bool { return s.loaded }

func (s *Store) Singularity() *Singularity { return s.singularity }

// SetHovered flags id as hovered or not and applies the new scale at once.
func (s *Store) SetHovered(id string, on bool) error {
	obj, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	obj.Hovered = on
	obj.refreshScale()
	return nil
}

// SetSelected flags id as selected or not and applies the new scale at once.
func (s *Store) SetSelected(id string, on bool) error {
	obj, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	obj.Selected = on
	obj.refreshScale()
	return nil
}

func (s *Store) newObject(rec event.Record) *Object {
	pulse, rot := newAnimation(s.rng)
	obj := &Object{
		ID:          rec.ID,
		Record:      rec.Clone(),
		Rotation:    rot,
		Spin:        defaultSpin,
		Pulse:       pulse,
		BaseScale:   1,
		PulseFactor: 1,
	}
	s.applyVisual(obj)
	obj.refreshScale()
	return obj
}

func (s *Store) applyVisual(obj *Object) {
	spec, err := visual.Map(obj.Record)
	obj.Spec = spec
	obj.Degraded = err != nil
	if err != nil {
		s.log.Warn(context.Background(), "using fallback visual",
			logger.String("id", obj.ID),
			logger.Error(err),
		)
		s.metrics.RecordDegradedVisual()
	}
}

func (s *Store) insert(obj *Object) {
	s.objects = append(s.objects, obj)
	s.byID[obj.ID] = obj
}

func (s *Store) indexOf(obj *Object) int {
	for i, o := range s.objects {
		if o == obj {
			return i
		}
	}
	return len(s.objects)
}
