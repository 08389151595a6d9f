package visual

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/iburimskiy/survival-singularity/internal/event"
)

func TestGlowAndSize(t *testing.T) {
	Convey("Given probabilities across the whole range", t, func() {
		Convey("Then glow stays in [0.3, 1.0] and never drops as events get rarer", func() {
			prev := GlowIntensity(1)
			for p := 1.0; p > 1e-12; p /= 1.7 {
				g := GlowIntensity(p)
				So(g, ShouldBeBetweenOrEqual, 0.3, 1.0)
				So(g, ShouldBeGreaterThanOrEqualTo, prev)
				prev = g
			}
		})

		Convey("Then the bounds are hit at the log clamps", func() {
			So(GlowIntensity(1), ShouldAlmostEqual, 0.3, 1e-12)
			So(GlowIntensity(1e-9), ShouldAlmostEqual, 1.0, 1e-12)
			So(GlowIntensity(1e-15), ShouldAlmostEqual, 1.0, 1e-12)
			So(Size(1), ShouldAlmostEqual, 1.0, 1e-12)
			So(Size(1e-9), ShouldAlmostEqual, 1.25, 1e-12)
		})

		Convey("Then non-positive probabilities are maximally rare", func() {
			So(GlowIntensity(0), ShouldEqual, 1.0)
			So(GlowIntensity(-3), ShouldEqual, 1.0)
			So(Size(0), ShouldEqual, 1.25)
		})
	})
}

func TestBlend(t *testing.T) {
	Convey("Given tag colors", t, func() {
		trauma := ColorFor(TagTrauma)
		impact := ColorFor(TagImpact)

		Convey("Then blending one color returns it", func() {
			So(Blend([]RGB{trauma}), ShouldResemble, trauma)
		})

		Convey("Then two colors average per channel with rounding", func() {
			So(Blend([]RGB{trauma, impact}), ShouldResemble, RGB{R: 130, G: 130, B: 171})
			So(Blend([]RGB{{R: 0}, {R: 1}}).R, ShouldEqual, 1)
		})

		Convey("Then nothing blends to white", func() {
			So(Blend(nil), ShouldResemble, White)
		})
	})
}

func TestMap(t *testing.T) {
	Convey("Given a single-tag record", t, func() {
		spec, err := Map(event.Record{ID: "a", Type: []string{TagTrauma}, Probability: 1e-6})

		Convey("Then it is one pyramid with its glow shell", func() {
			So(err, ShouldBeNil)
			So(spec.Shape, ShouldEqual, Pyramid)
			So(spec.Color, ShouldResemble, ColorFor(TagTrauma))
			So(spec.Blended, ShouldBeNil)
			So(spec.Parts, ShouldHaveLength, 1)
			So(spec.Parts[0].Shell.Scale, ShouldEqual, 1.05)
			So(spec.Parts[0].Shell.Opacity, ShouldAlmostEqual, math.Min(0.8, spec.Glow*0.5), 1e-12)
		})
	})

	Convey("Given an unknown tag", t, func() {
		spec, err := Map(event.Record{ID: "u", Type: []string{"Weather"}, Probability: 0.1})

		Convey("Then it is a white sphere", func() {
			So(err, ShouldBeNil)
			So(spec.Shape, ShouldEqual, Sphere)
			So(spec.Color, ShouldResemble, White)
		})
	})

	Convey("Given a record with three tags", t, func() {
		tags := []string{TagImpact, TagLuck, TagMicroCausal}
		spec, err := Map(event.Record{ID: "c", Type: tags, Probability: 1e-9})

		Convey("Then it is a composite of one part per tag plus a blended connector", func() {
			So(err, ShouldBeNil)
			So(spec.Shape, ShouldEqual, Composite)
			So(spec.Parts, ShouldHaveLength, 4)
			So(*spec.Blended, ShouldResemble, BlendTags(tags))

			for i, tag := range tags {
				p := spec.Parts[i]
				So(p.Shape, ShouldEqual, ShapeFor(tag))
				So(math.Hypot(p.OffsetX, p.OffsetY), ShouldAlmostEqual, spec.Size*0.5, 1e-9)
				So(p.Glow, ShouldAlmostEqual, spec.Glow*0.8, 1e-12)
			}
			connector := spec.Parts[3]
			So(connector.Shape, ShouldEqual, Sphere)
			So(connector.Color, ShouldResemble, *spec.Blended)
			So(connector.OffsetX, ShouldEqual, 0)
		})

		Convey("Then parts are spaced evenly", func() {
			a0 := math.Atan2(spec.Parts[0].OffsetY, spec.Parts[0].OffsetX)
			a1 := math.Atan2(spec.Parts[1].OffsetY, spec.Parts[1].OffsetX)
			So(a1-a0, ShouldAlmostEqual, 2*math.Pi/3, 1e-9)
		})
	})

	Convey("Given malformed records", t, func() {
		Convey("When there are no tags", func() {
			spec, err := Map(event.Record{ID: "x", Probability: 0.1})
			So(errors.Is(err, ErrMalformedRecord), ShouldBeTrue)
			So(spec, ShouldResemble, Fallback())
			So(spec.Wireframe, ShouldBeTrue)
		})

		Convey("When the probability is not a number", func() {
			spec, err := Map(event.Record{ID: "y", Type: []string{TagLuck}, Probability: math.NaN()})
			So(errors.Is(err, ErrMalformedRecord), ShouldBeTrue)
			So(spec.Color, ShouldResemble, White)
		})
	})

	Convey("Given a very rare and a common event", t, func() {
		rare, _ := Map(event.Record{ID: "r", Type: []string{TagImpact}, Probability: 1e-9})
		common, _ := Map(event.Record{ID: "c", Type: []string{TagImpact}, Probability: 0.01})

		Convey("Then the rare one is larger and brighter", func() {
			So(rare.Size, ShouldBeGreaterThan, common.Size)
			So(rare.Glow, ShouldBeGreaterThan, common.Glow)
		})
	})
}
