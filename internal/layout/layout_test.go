package layout

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/iburimskiy/survival-singularity/internal/event"
)

func TestAgeValue(t *testing.T) {
	Convey("Given ages in every accepted form", t, func() {
		So(AgeValue(event.NumberAge(30)), ShouldEqual, 30)
		So(AgeValue(event.TextAge("Teens")), ShouldEqual, 16)
		So(AgeValue(event.TextAge("late teens, 19")), ShouldEqual, 16)
		So(AgeValue(event.TextAge("40s")), ShouldEqual, 45)
		So(AgeValue(event.TextAge("about 7 or 8")), ShouldEqual, 12)
		So(AgeValue(event.TextAge("childhood")), ShouldEqual, 25)
		So(AgeValue(event.Age{}), ShouldEqual, 25)
	})

	Convey("Given an age, distance clears the singularity", t, func() {
		So(Distance(event.NumberAge(0)), ShouldEqual, 4)
		So(Distance(event.NumberAge(10)), ShouldEqual, 19)
		So(Distance(event.NumberAge(0)), ShouldBeGreaterThan, SingularityRadius)
	})
}

func TestLayout(t *testing.T) {
	Convey("Given an engine", t, func() {
		e := NewEngine(rand.New(rand.NewSource(7)))

		Convey("When laying out a few records", func() {
			records := []event.Record{
				{ID: "a", Age: event.NumberAge(16)},
				{ID: "b", Age: event.TextAge("40s")},
				{ID: "c", Age: event.TextAge("Teens")},
			}
			placements := e.Layout(records)

			Convey("Then there is one placement per record at the age distance", func() {
				So(placements, ShouldHaveLength, 3)
				for i, p := range placements {
					So(p.Position.Len(), ShouldAlmostEqual, Distance(records[i].Age), 1e-9)
				}
			})

			Convey("Then the orbit reproduces the starting position", func() {
				for _, p := range placements {
					o := p.Orbit.Position()
					So(o.X, ShouldAlmostEqual, p.Position.X, 1e-9)
					So(o.Y, ShouldAlmostEqual, p.Position.Y, 1e-9)
					So(o.Z, ShouldAlmostEqual, p.Position.Z, 1e-9)
				}
			})

			Convey("Then speeds stay in band and directions alternate", func() {
				for i, p := range placements {
					So(p.Orbit.Speed, ShouldBeBetweenOrEqual, MinOrbitSpeed, MaxOrbitSpeed)
					if i%2 == 0 {
						So(p.Orbit.Direction, ShouldEqual, 1)
					} else {
						So(p.Orbit.Direction, ShouldEqual, -1)
					}
				}
			})
		})

		Convey("When laying out hundreds of records of the same age", func() {
			records := make([]event.Record, 300)
			for i := range records {
				records[i].Age = event.NumberAge(25)
			}
			placements := e.Layout(records)

			Convey("Then no two objects overlap", func() {
				minGap := math.Inf(1)
				for i := range placements {
					for j := i + 1; j < len(placements); j++ {
						d := placements[i].Position.Sub(placements[j].Position).Len()
						minGap = math.Min(minGap, d)
					}
				}
				So(minGap, ShouldBeGreaterThan, 2*1.25)
			})
		})
	})
}

func TestSortByAge(t *testing.T) {
	Convey("Given records of mixed ages", t, func() {
		records := []event.Record{
			{ID: "young", Age: event.NumberAge(13)},
			{ID: "forties", Age: event.TextAge("40s")},
			{ID: "teen-a", Age: event.TextAge("Teens")},
			{ID: "thirty", Age: event.NumberAge(30)},
			{ID: "teen-b", Age: event.NumberAge(16)},
		}

		sorted := SortByAge(records)

		Convey("Then the oldest come first and ties keep input order", func() {
			ids := make([]string, len(sorted))
			for i, r := range sorted {
				ids[i] = r.ID
			}
			So(ids, ShouldResemble, []string{"forties", "thirty", "teen-a", "teen-b", "young"})
			So(records[0].ID, ShouldEqual, "young")
		})
	})
}
