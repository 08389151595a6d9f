package render

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/iburimskiy/survival-singularity/internal/event"
	"github.com/iburimskiy/survival-singularity/internal/geom"
	"github.com/iburimskiy/survival-singularity/internal/interaction"
	"github.com/iburimskiy/survival-singularity/internal/scene"
	"github.com/iburimskiy/survival-singularity/internal/visual"
)

func TestCamera(t *testing.T) {
	Convey("Given a default camera", t, func() {
		cam := NewCamera(800, 600)

		Convey("Then the origin projects to the screen center", func() {
			x, y, depth, ok := cam.Project(geom.Vec3{})
			So(ok, ShouldBeTrue)
			So(x, ShouldAlmostEqual, 400, 1e-9)
			So(y, ShouldAlmostEqual, 300, 1e-9)
			So(depth, ShouldAlmostEqual, DefaultDistance, 1e-9)
		})

		Convey("Then up is up and right is right on screen", func() {
			_, y, _, _ := cam.Project(geom.Vec3{Y: 5})
			So(y, ShouldBeLessThan, 300)
			x, _, _, _ := cam.Project(geom.Vec3{X: 5})
			So(x, ShouldBeGreaterThan, 400)
		})

		Convey("Then points behind the eye are not visible", func() {
			_, _, _, ok := cam.Project(geom.Vec3{Z: DefaultDistance + 1})
			So(ok, ShouldBeFalse)
		})

		Convey("Then zoom stays within bounds", func() {
			cam.Zoom(0.001)
			So(cam.Distance, ShouldEqual, MinDistance)
			cam.Zoom(1e6)
			So(cam.Distance, ShouldEqual, MaxDistance)
		})

		Convey("When focusing on a point and resetting", func() {
			p := geom.Vec3{X: 10, Y: -3, Z: 4}
			cam.Focus(p)
			eye := cam.Eye()
			So(eye.X, ShouldAlmostEqual, 15, 1e-9)
			So(eye.Y, ShouldAlmostEqual, 2, 1e-9)
			So(eye.Z, ShouldAlmostEqual, 9, 1e-9)

			cam.Reset()
			So(cam.Target, ShouldResemble, geom.Vec3{})
			So(cam.Distance, ShouldEqual, DefaultDistance)
		})
	})
}

func TestPicker(t *testing.T) {
	Convey("Given two objects on the view axis", t, func() {
		store := scene.NewStore(scene.WithRand(rand.New(rand.NewSource(5))))
		store.Load([]event.Record{
			{ID: "far", Age: event.NumberAge(1), Type: []string{"Luck"}, Probability: 0.1},
			{ID: "near", Age: event.NumberAge(2), Type: []string{"Impact"}, Probability: 0.1},
		})
		far, _ := store.Get("far")
		near, _ := store.Get("near")
		far.Position = geom.Vec3{Z: -10}
		near.Position = geom.Vec3{Z: 10}

		pk := Picker{Camera: NewCamera(800, 600)}

		Convey("Then a click at the center hits both, nearest first", func() {
			hits := pk.Intersect(interaction.Point{X: 400, Y: 300}, store.Objects())
			So(hits, ShouldHaveLength, 2)
			So(hits[0].ID, ShouldEqual, "near")
			So(hits[1].ID, ShouldEqual, "far")
		})

		Convey("Then a click in a corner hits nothing", func() {
			So(pk.Intersect(interaction.Point{X: 5, Y: 5}, store.Objects()), ShouldBeEmpty)
		})
	})
}

func TestMeshes(t *testing.T) {
	Convey("Given every shape kind", t, func() {
		for _, kind := range []visual.ShapeKind{visual.Sphere, visual.Cube, visual.Pyramid, visual.Ring, visual.Star, visual.Composite} {
			edges := Mesh(kind)
			So(edges, ShouldNotBeEmpty)
			for _, e := range edges {
				So(e.A.Len(), ShouldBeLessThanOrEqualTo, 1.05)
				So(e.B.Len(), ShouldBeLessThanOrEqualTo, 1.05)
			}
		}
	})
}

func TestSegments(t *testing.T) {
	Convey("Given a composite object in front of the camera", t, func() {
		store := scene.NewStore(scene.WithRand(rand.New(rand.NewSource(9))))
		store.Load([]event.Record{{ID: "c", Age: event.NumberAge(1), Type: []string{"Trauma", "Luck"}, Probability: 1e-9}})
		obj, _ := store.Get("c")
		cam := NewCamera(800, 600)

		segs := ObjectSegments(cam, obj, nil)

		Convey("Then every part and its shell are drawn", func() {
			want := 0
			for _, p := range obj.Spec.Parts {
				want += 2 * len(Mesh(p.Shape))
			}
			So(segs, ShouldHaveLength, want)
		})

		Convey("Then segments sort back to front", func() {
			SortBackToFront(segs)
			for i := 1; i < len(segs); i++ {
				So(segs[i-1].Depth, ShouldBeGreaterThanOrEqualTo, segs[i].Depth)
			}
		})

		Convey("Then the flare brightens the halo", func() {
			sing := store.Singularity()
			calm := SingularitySegments(cam, sing, nil)
			sing.SetFlare(1)
			lit := SingularitySegments(cam, sing, nil)
			So(len(lit), ShouldEqual, len(calm))
			last := len(lit) - 1
			So(lit[last].Alpha, ShouldBeGreaterThan, calm[last].Alpha)
			So(math.IsNaN(lit[last].Alpha), ShouldBeFalse)
		})
	})
}
