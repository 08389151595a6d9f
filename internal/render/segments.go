package render

import (
	"sort"

	"github.com/iburimskiy/survival-singularity/internal/geom"
	"github.com/iburimskiy/survival-singularity/internal/scene"
	"github.com/iburimskiy/survival-singularity/internal/visual"
)

var (
	coreColor = visual.Hex(0xccffff)
	glowColor = visual.Hex(0x7fbfff)
	haloColor = visual.Hex(0x3399ff)
)

const (
	haloRadius   = 3.0
	glowRadius   = 2.0
	coreRadius   = 1.2
	haloOpacity  = 0.4
	glowOpacity  = 0.3
	flareOpacity = 0.5
	// Highlighted objects are lifted this far toward white.
	highlightTint = 0.35
)

// Segment is a projected line ready to stroke.
type Segment struct {
	X0, Y0, X1, Y1 float32
	Color          visual.RGB
	Alpha          float64
	Depth          float64
}

// SortBackToFront orders segments so nearer lines are drawn last.
func SortBackToFront(segs []Segment) {
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Depth > segs[j].Depth })
}

// ObjectSegments appends the wireframe of obj, shells included, to dst.
func ObjectSegments(cam *Camera, obj *scene.Object, dst []Segment) []Segment {
	for _, part := range obj.Spec.Parts {
		offset := geom.Vec3{X: part.OffsetX, Y: part.OffsetY}.Euler(obj.Rotation).Scale(obj.Scale)
		center := obj.Position.Add(offset)

		c := part.Color
		if obj.Hovered || obj.Selected {
			c = c.Lerp(visual.White, highlightTint)
		}
		alpha := 0.35 + 0.65*part.Glow
		if obj.Degraded {
			alpha = part.Glow
		}

		dst = appendMesh(cam, dst, Mesh(part.Shape), center, obj.Rotation, part.Size*obj.Scale*part.Shell.Scale, c, part.Shell.Opacity)
		dst = appendMesh(cam, dst, Mesh(part.Shape), center, obj.Rotation, part.Size*obj.Scale, c, alpha)
	}
	return dst
}

// SingularitySegments appends the core, its glow and the halo rings.
func SingularitySegments(cam *Camera, s *scene.Singularity, dst []Segment) []Segment {
	spin := geom.Vec3{Y: s.Rotation}
	scale := s.Radius / glowRadius * s.Scale

	dst = appendMesh(cam, dst, Mesh(visual.Sphere), geom.Vec3{}, spin, coreRadius*scale, coreColor, 0.9)
	dst = appendMesh(cam, dst, Mesh(visual.Sphere), geom.Vec3{}, spin, glowRadius*scale, glowColor, glowOpacity)

	ringAlpha := haloOpacity + flareOpacity*s.Flare
	for _, ring := range s.Rings {
		rot := geom.Vec3{X: ring.TiltX, Y: ring.TiltY + s.Rotation, Z: ring.Angle}
		dst = appendMesh(cam, dst, Mesh(visual.Ring)[:circleSegments], geom.Vec3{}, rot, haloRadius*scale, haloColor, ringAlpha)
	}
	return dst
}

func appendMesh(cam *Camera, dst []Segment, edges []Edge, center, rot geom.Vec3, size float64, c visual.RGB, alpha float64) []Segment {
	if alpha <= 0 || size <= 0 {
		return dst
	}
	for _, e := range edges {
		a := center.Add(e.A.Scale(size).Euler(rot))
		b := center.Add(e.B.Scale(size).Euler(rot))
		x0, y0, d0, ok0 := cam.Project(a)
		x1, y1, d1, ok1 := cam.Project(b)
		if !ok0 || !ok1 {
			continue
		}
		dst = append(dst, Segment{
			X0: float32(x0), Y0: float32(y0),
			X1: float32(x1), Y1: float32(y1),
			Color: c,
			Alpha: geom.Clamp01(alpha),
			Depth: (d0 + d1) / 2,
		})
	}
	return dst
}
