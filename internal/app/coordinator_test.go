package app

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/iburimskiy/survival-singularity/internal/event"
	"github.com/iburimskiy/survival-singularity/internal/interaction"
	"github.com/iburimskiy/survival-singularity/internal/persistence"
	"github.com/iburimskiy/survival-singularity/internal/scene"
)

type memoryStore struct {
	records  []event.Record
	loadErr  error
	saveErr  error
	saves    int
	exported map[string][]event.Record
}

func (m *memoryStore) Load(context.Context) ([]event.Record, error) {
	return append([]event.Record(nil), m.records...), m.loadErr
}

func (m *memoryStore) Save(_ context.Context, records []event.Record) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append([]event.Record(nil), records...)
	return nil
}

func (m *memoryStore) Export(_ context.Context, path string, records []event.Record) error {
	if m.exported == nil {
		m.exported = make(map[string][]event.Record)
	}
	m.exported[path] = records
	return nil
}

type deselections struct{ n int }

func seed() []event.Record {
	return []event.Record{
		{ID: "young", Title: "Young", Age: event.NumberAge(8), Type: []string{"Impact"}, Probability: 0.01},
		{ID: "old", Title: "Old", Age: event.TextAge("40s"), Type: []string{"Trauma"}, Probability: 1e-9},
	}
}

func newCoordinator(mem *memoryStore) (*Coordinator, *scene.Store, *deselections) {
	store := scene.NewStore(scene.WithRand(rand.New(rand.NewSource(11))))
	d := &deselections{}
	ctrl := interaction.NewController(store, nil, interaction.Callbacks{
		OnEventDeselected: func() { d.n++ },
	})
	return NewCoordinator(store, ctrl, mem), store, d
}

func ids(s *scene.Store) []string {
	out := s.IDs()
	sort.Strings(out)
	return out
}

func TestCoordinatorLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a coordinator before loading", t, func() {
		c, store, _ := newCoordinator(&memoryStore{records: seed()})

		Convey("Then edits are refused", func() {
			_, err := c.AddEvent(ctx, event.Record{Title: "x", Type: []string{"Luck"}, Probability: 0.5})
			So(errors.Is(err, ErrNotReady), ShouldBeTrue)
			So(c.Ready(), ShouldBeFalse)
			So(store.Loaded(), ShouldBeFalse)
		})

		Convey("When started in the background and polled", func() {
			c.Start(ctx)
			c.Start(ctx)
			applied := false
			deadline := time.Now().Add(2 * time.Second)
			for !applied && time.Now().Before(deadline) {
				var err error
				applied, err = c.Poll()
				So(err, ShouldBeNil)
				time.Sleep(time.Millisecond)
			}

			Convey("Then the scene is populated oldest first", func() {
				So(applied, ShouldBeTrue)
				So(c.Ready(), ShouldBeTrue)
				So(store.IDs(), ShouldResemble, []string{"old", "young"})
			})

			Convey("Then a repeated Start loaded only once", func() {
				time.Sleep(10 * time.Millisecond)
				again, err := c.Poll()
				So(err, ShouldBeNil)
				So(again, ShouldBeFalse)
			})
		})
	})

	Convey("Given a load that fails with fallback records", t, func() {
		mem := &memoryStore{records: seed(), loadErr: persistence.ErrPersistence}
		c, store, _ := newCoordinator(mem)
		err := c.Initialize(ctx)

		Convey("Then the error is reported and the fallback is shown", func() {
			So(errors.Is(err, persistence.ErrPersistence), ShouldBeTrue)
			So(c.Ready(), ShouldBeTrue)
			So(store.Len(), ShouldEqual, 2)
		})
	})

	Convey("Given two records of very different rarity", t, func() {
		c, store, _ := newCoordinator(&memoryStore{records: seed()})
		So(c.Initialize(ctx), ShouldBeNil)

		Convey("Then the rarer one is bigger and brighter", func() {
			rare, _ := store.Get("old")
			common, _ := store.Get("young")
			So(rare.Spec.Size, ShouldBeGreaterThan, common.Spec.Size)
			So(rare.Spec.Glow, ShouldBeGreaterThan, common.Spec.Glow)
		})
	})
}

func TestCoordinatorEdits(t *testing.T) {
	ctx := context.Background()

	Convey("Given a loaded coordinator", t, func() {
		mem := &memoryStore{records: seed()}
		c, store, d := newCoordinator(mem)
		So(c.Initialize(ctx), ShouldBeNil)

		Convey("When adding a valid event without an id", func() {
			rec, err := c.AddEvent(ctx, event.Record{Title: "New", Age: event.NumberAge(20), Type: []string{"Luck"}, Probability: 0.001})

			Convey("Then it gets an id, a scene object and is saved", func() {
				So(err, ShouldBeNil)
				So(rec.ID, ShouldNotBeBlank)
				_, ok := store.Get(rec.ID)
				So(ok, ShouldBeTrue)
				So(mem.records, ShouldHaveLength, 3)
			})
		})

		Convey("When adding an invalid event", func() {
			_, err := c.AddEvent(ctx, event.Record{Title: "", Type: []string{"Luck"}, Probability: 0.5})
			So(errors.Is(err, event.ErrInvalidRecord), ShouldBeTrue)
			So(store.Len(), ShouldEqual, 2)
		})

		Convey("When adding an existing id", func() {
			_, err := c.AddEvent(ctx, event.Record{ID: "old", Title: "dup", Type: []string{"Luck"}, Probability: 0.5})
			So(errors.Is(err, ErrDuplicateEvent), ShouldBeTrue)
		})

		Convey("When the save fails", func() {
			mem.saveErr = errors.New("disk full")
			rec, err := c.AddEvent(ctx, event.Record{Title: "Kept", Type: []string{"Luck"}, Probability: 0.5})

			Convey("Then the failure is reported but the event stays", func() {
				So(errors.Is(err, persistence.ErrPersistence), ShouldBeTrue)
				_, ok := store.Get(rec.ID)
				So(ok, ShouldBeTrue)
				So(c.Records(), ShouldHaveLength, 3)
			})
		})

		Convey("When removing the selected event", func() {
			So(c.HighlightEvent("old"), ShouldBeNil)
			So(c.RemoveEvent(ctx, "old"), ShouldBeNil)

			Convey("Then it is gone and the selection is cleared once", func() {
				So(ids(store), ShouldResemble, []string{"young"})
				So(d.n, ShouldEqual, 1)
			})

			Convey("Then removing it again reports not found", func() {
				So(errors.Is(c.RemoveEvent(ctx, "old"), scene.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When updating an event", func() {
			rec, _ := c.Record("young")
			rec.Title = "Younger"
			So(c.UpdateEvent(ctx, rec), ShouldBeNil)
			obj, _ := store.Get("young")
			So(obj.Record.Title, ShouldEqual, "Younger")
			So(errors.Is(c.UpdateEvent(ctx, event.Record{ID: "ghost"}), scene.ErrNotFound), ShouldBeTrue)
		})

		Convey("When importing in append mode with one duplicate and one new record", func() {
			payload := []byte(`[
				{"id": "old", "title": "Old again", "age": 44, "type": ["Luck"], "probability": 0.3},
				{"id": "fresh", "title": "Fresh", "age": 5, "type": ["Biochemical"], "probability": 0.02}
			]`)
			err := c.ImportData(ctx, payload, persistence.JSON, persistence.Append)

			Convey("Then exactly one record is added", func() {
				So(err, ShouldBeNil)
				So(store.Len(), ShouldEqual, 3)
				So(ids(store), ShouldResemble, []string{"fresh", "old", "young"})
				obj, _ := store.Get("old")
				So(obj.Record.Title, ShouldEqual, "Old")
			})
		})

		Convey("When importing in replace mode", func() {
			err := c.ImportData(ctx, []byte("- id: only\n  title: Only\n  age: Teens\n  type: [Luck]\n  probability: 0.1\n"), persistence.YAML, persistence.Replace)
			So(err, ShouldBeNil)
			So(ids(store), ShouldResemble, []string{"only"})
		})

		Convey("When importing something that is not a list", func() {
			err := c.ImportData(ctx, []byte(`{"title": "nope"}`), persistence.JSON, persistence.Replace)

			Convey("Then it is rejected and nothing changes", func() {
				So(errors.Is(err, persistence.ErrInvalidImport), ShouldBeTrue)
				So(ids(store), ShouldResemble, []string{"old", "young"})
			})
		})

		Convey("When importing a JSON null in replace mode", func() {
			saves := mem.saves
			err := c.ImportData(ctx, []byte("null"), persistence.JSON, persistence.Replace)

			Convey("Then it is rejected and the collection is kept", func() {
				So(errors.Is(err, persistence.ErrInvalidImport), ShouldBeTrue)
				So(ids(store), ShouldResemble, []string{"old", "young"})
				So(mem.saves, ShouldEqual, saves)
			})
		})

		Convey("When the selected event survives an append import", func() {
			So(c.HighlightEvent("old"), ShouldBeNil)
			payload := []byte(`[{"id": "fresh", "title": "Fresh", "age": 5, "type": ["Luck"], "probability": 0.02}]`)
			So(c.ImportData(ctx, payload, persistence.JSON, persistence.Append), ShouldBeNil)

			Convey("Then its rebuilt object is still shown selected", func() {
				obj, ok := store.Get("old")
				So(ok, ShouldBeTrue)
				So(obj.Selected, ShouldBeTrue)
				So(obj.Highlight(), ShouldEqual, scene.SelectScale)
				So(d.n, ShouldEqual, 0)
			})

			Convey("Then deselecting clears the highlight", func() {
				c.DeselectEvent()
				obj, _ := store.Get("old")
				So(obj.Highlight(), ShouldEqual, 1)
			})
		})

		Convey("When exporting", func() {
			So(c.ExportData(ctx, "/tmp/out.json"), ShouldBeNil)
			So(mem.exported["/tmp/out.json"], ShouldHaveLength, 2)
		})

		Convey("When the UI closes the detail panel", func() {
			So(c.HighlightEvent("young"), ShouldBeNil)
			c.DeselectEvent()
			obj, _ := store.Get("young")
			So(obj.Selected, ShouldBeFalse)
			So(d.n, ShouldEqual, 0)
		})
	})
}
