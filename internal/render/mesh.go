package render

import (
	"math"

	"github.com/iburimskiy/survival-singularity/internal/geom"
	"github.com/iburimskiy/survival-singularity/internal/visual"
)

const circleSegments = 24

// Edge is one line of a wireframe in local coordinates. Meshes fit in a
// unit sphere so a part of size s spans roughly s in every direction.
type Edge struct {
	A, B geom.Vec3
}

var meshes = map[visual.ShapeKind][]Edge{
	visual.Sphere:  sphereMesh(),
	visual.Cube:    cubeMesh(),
	visual.Pyramid: pyramidMesh(),
	visual.Ring:    ringMesh(),
	visual.Star:    starMesh(),
}

// Mesh returns the wireframe for kind. Composite and unknown kinds use the
// sphere.
func Mesh(kind visual.ShapeKind) []Edge {
	if m, ok := meshes[kind]; ok {
		return m
	}
	return meshes[visual.Sphere]
}

func loop(points []geom.Vec3) []Edge {
	edges := make([]Edge, len(points))
	for i := range points {
		edges[i] = Edge{A: points[i], B: points[(i+1)%len(points)]}
	}
	return edges
}

func circle(radius float64, at func(s, c float64) geom.Vec3) []Edge {
	pts := make([]geom.Vec3, circleSegments)
	for i := range pts {
		s, c := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
		pts[i] = at(s*radius, c*radius)
	}
	return loop(pts)
}

func sphereMesh() []Edge {
	var edges []Edge
	// meridians
	for k := 0; k < 3; k++ {
		a := math.Pi / 3 * float64(k)
		edges = append(edges, circle(1, func(s, c float64) geom.Vec3 {
			return geom.Vec3{X: s, Y: c}.RotateY(a)
		})...)
	}
	// equator and two parallels
	for _, lat := range []float64{-0.5, 0, 0.5} {
		r := math.Sqrt(1 - lat*lat)
		y := lat
		edges = append(edges, circle(r, func(s, c float64) geom.Vec3 {
			return geom.Vec3{X: s, Y: y, Z: c}
		})...)
	}
	return edges
}

func cubeMesh() []Edge {
	h := 1 / math.Sqrt(3)
	v := func(x, y, z float64) geom.Vec3 { return geom.Vec3{X: x * h, Y: y * h, Z: z * h} }
	bottom := []geom.Vec3{v(-1, -1, -1), v(1, -1, -1), v(1, -1, 1), v(-1, -1, 1)}
	top := []geom.Vec3{v(-1, 1, -1), v(1, 1, -1), v(1, 1, 1), v(-1, 1, 1)}
	edges := append(loop(bottom), loop(top)...)
	for i := range bottom {
		edges = append(edges, Edge{A: bottom[i], B: top[i]})
	}
	return edges
}

func pyramidMesh() []Edge {
	apex := geom.Vec3{Y: 1}
	base := make([]geom.Vec3, 4)
	for i := range base {
		s, c := math.Sincos(math.Pi/4 + math.Pi/2*float64(i))
		base[i] = geom.Vec3{X: s * 0.8, Y: -0.6, Z: c * 0.8}
	}
	edges := loop(base)
	for _, b := range base {
		edges = append(edges, Edge{A: b, B: apex})
	}
	return edges
}

func ringMesh() []Edge {
	const outer, inner = 1.0, 0.6
	edges := circle(outer, func(s, c float64) geom.Vec3 { return geom.Vec3{X: s, Y: c} })
	edges = append(edges, circle(inner, func(s, c float64) geom.Vec3 { return geom.Vec3{X: s, Y: c} })...)
	// tube cross sections
	for i := 0; i < 8; i++ {
		a := 2 * math.Pi * float64(i) / 8
		center := geom.Vec3{X: math.Sin(a) * (outer + inner) / 2, Y: math.Cos(a) * (outer + inner) / 2}
		tube := (outer - inner) / 2
		edges = append(edges, Edge{
			A: center.Add(geom.Vec3{X: math.Sin(a) * tube, Y: math.Cos(a) * tube}),
			B: center.Add(geom.Vec3{Z: tube}),
		}, Edge{
			A: center.Add(geom.Vec3{Z: tube}),
			B: center.Sub(geom.Vec3{X: math.Sin(a) * tube, Y: math.Cos(a) * tube}),
		})
	}
	return edges
}

func starMesh() []Edge {
	const points, outer, inner, depth = 5, 1.0, 0.4, 0.2
	front := make([]geom.Vec3, points*2)
	back := make([]geom.Vec3, points*2)
	for i := range front {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		s, c := math.Sincos(math.Pi * float64(i) / points)
		front[i] = geom.Vec3{X: s * r, Y: c * r, Z: depth}
		back[i] = geom.Vec3{X: s * r, Y: c * r, Z: -depth}
	}
	edges := append(loop(front), loop(back)...)
	for i := 0; i < len(front); i += 2 {
		edges = append(edges, Edge{A: front[i], B: back[i]})
	}
	return edges
}
