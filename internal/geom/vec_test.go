package geom

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestVec3(t *testing.T) {
	Convey("Given vector helpers", t, func() {
		Convey("RotateY keeps the height and the horizontal radius", func() {
			v := Vec3{X: 3, Y: 2, Z: 4}
			r := v.RotateY(1.234)
			So(r.Y, ShouldEqual, 2)
			So(math.Hypot(r.X, r.Z), ShouldAlmostEqual, 5, 1e-9)
		})

		Convey("RotateY is reversed by the negative angle", func() {
			v := Vec3{X: 1, Y: -1, Z: 2}
			back := v.RotateY(0.7).RotateY(-0.7)
			So(back.X, ShouldAlmostEqual, v.X, 1e-9)
			So(back.Z, ShouldAlmostEqual, v.Z, 1e-9)
		})

		Convey("FromSpherical produces a point at the requested radius", func() {
			p := FromSpherical(10, 1.1, 2.3)
			So(p.Len(), ShouldAlmostEqual, 10, 1e-9)
			So(FromSpherical(5, 0, 0).Y, ShouldAlmostEqual, 5, 1e-9)
		})

		Convey("Clamp01 limits to the unit interval", func() {
			So(Clamp01(-1), ShouldEqual, 0)
			So(Clamp01(0.25), ShouldEqual, 0.25)
			So(Clamp01(3), ShouldEqual, 1)
		})
	})
}
