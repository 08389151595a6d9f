// Package layout places event objects around the singularity: older events
// orbit further out, and all objects are spread over a sphere along a
// golden-angle style spiral.
package layout

import (
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/iburimskiy/survival-singularity/internal/event"
	"github.com/iburimskiy/survival-singularity/internal/geom"
)

const (
	// SingularityRadius is the visual radius of the central anchor.
	SingularityRadius = 2.0
	// BaseOffset keeps every orbit clear of the singularity.
	BaseOffset = SingularityRadius * 2
	// DistanceScale is how far out an event orbits per year of age.
	DistanceScale = 1.5

	TeenAge      = 16.0
	DecadeOffset = 5.0
	DefaultAge   = 25.0

	// Orbit speed band in radians per millisecond.
	MinOrbitSpeed = 5e-5
	MaxOrbitSpeed = 1e-4
)

var firstInteger = regexp.MustCompile(`\d+`)

// AgeValue normalizes an age to years. Labels containing "teen" are 16, other
// labels take their first integer plus five ("40s" is 45), and anything else
// is 25.
func AgeValue(a event.Age) float64 {
	if n, ok := a.Number(); ok && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return n
	}
	label, ok := a.Text()
	if !ok {
		return DefaultAge
	}
	if strings.Contains(strings.ToLower(label), "teen") {
		return TeenAge
	}
	if m := firstInteger.FindString(label); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return float64(n) + DecadeOffset
		}
	}
	return DefaultAge
}

// Distance from the singularity center for an age.
func Distance(a event.Age) float64 {
	return BaseOffset + AgeValue(a)*DistanceScale
}

// Orbit describes circular motion about the vertical axis.
type Orbit struct {
	Angle     float64 // azimuth, radians
	Radius    float64 // horizontal distance from the vertical axis
	Height    float64 // Y coordinate
	Speed     float64 // radians per millisecond
	Direction float64 // +1 or -1
}

// Position returns the point on the orbit at its current angle.
func (o Orbit) Position() geom.Vec3 {
	return geom.Vec3{
		X: o.Radius * math.Sin(o.Angle),
		Y: o.Height,
		Z: o.Radius * math.Cos(o.Angle),
	}
}

// Placement is where an object starts and how it moves.
type Placement struct {
	Position geom.Vec3
	Orbit    Orbit
}

// Engine computes placements. Its random source only affects orbit speeds.
type Engine struct {
	rng *rand.Rand
}

// NewEngine returns an engine drawing orbit speeds from rng. A nil rng uses a
// time-independent default seed.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Engine{rng: rng}
}

// Layout returns one placement per record, in input order.
func (e *Engine) Layout(records []event.Record) []Placement {
	out := make([]Placement, len(records))
	for i, rec := range records {
		out[i] = e.Place(i, len(records), rec.Age)
	}
	return out
}

// Place computes the placement of the i-th of n objects.
func (e *Engine) Place(i, n int, age event.Age) Placement {
	if n < 1 {
		n = 1
	}
	distance := Distance(age)
	phi, theta := SpiralAngles(i, n)
	pos := geom.FromSpherical(distance, phi, theta)

	dir := 1.0
	if i%2 == 1 {
		dir = -1
	}
	return Placement{
		Position: pos,
		Orbit: Orbit{
			Angle:     math.Atan2(pos.X, pos.Z),
			Radius:    math.Hypot(pos.X, pos.Z),
			Height:    pos.Y,
			Speed:     MinOrbitSpeed + e.rng.Float64()*(MaxOrbitSpeed-MinOrbitSpeed),
			Direction: dir,
		},
	}
}

// SpiralAngles returns the polar and azimuthal angles of the i-th of n points.
func SpiralAngles(i, n int) (phi, theta float64) {
	phi = math.Acos(-1 + 2*float64(i+1)/float64(n+1))
	theta = math.Sqrt(float64(n+1)*math.Pi) * phi
	return phi, theta
}

// SortByAge returns a copy of records ordered oldest first. Ties keep their
// input order.
func SortByAge(records []event.Record) []event.Record {
	out := append([]event.Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return AgeValue(out[i].Age) > AgeValue(out[j].Age)
	})
	return out
}
