package scene

import (
	"math"
	"math/rand"

	"github.com/iburimskiy/survival-singularity/internal/event"
	"github.com/iburimskiy/survival-singularity/internal/geom"
	"github.com/iburimskiy/survival-singularity/internal/layout"
	"github.com/iburimskiy/survival-singularity/internal/visual"
)

// Highlight multipliers applied on top of the pulse. Selection wins over
// hover when both apply to one object.
const (
	HoverScale  = 1.2
	SelectScale = 1.5
)

// Pulse randomization bands.
const (
	minPulseAmplitude = 0.05
	pulseAmplitudeVar = 0.1
	minPulseFrequency = 1.0 // rad/s
	pulseFrequencyVar = 1.0
)

// Idle tumbling, radians per second.
var defaultSpin = geom.Vec3{X: 0.06, Y: 0.12}

// Pulse drives the breathing scale of an object.
type Pulse struct {
	Phase     float64
	Amplitude float64
	Frequency float64 // rad/s
}

// Factor is the pulse scale at elapsed seconds.
func (p Pulse) Factor(elapsed float64) float64 {
	return 1 + p.Amplitude*math.Sin(elapsed*p.Frequency+p.Phase)
}

// Object is the visual counterpart of one event record. It is owned by the
// Store; renderers only read it.
type Object struct {
	ID       string
	Record   event.Record
	Spec     visual.Spec
	Degraded bool

	Orbit    layout.Orbit
	Position geom.Vec3
	Rotation geom.Vec3
	Spin     geom.Vec3
	Pulse    Pulse

	BaseScale   float64
	PulseFactor float64
	Scale       float64

	Hovered  bool
	Selected bool

	arriving     bool
	targetRadius float64
	targetHeight float64
}

// Highlight is the interaction multiplier currently applied to the object.
func (o *Object) Highlight() float64 {
	switch {
	case o.Selected:
		return SelectScale
	case o.Hovered:
		return HoverScale
	default:
		return 1
	}
}

// Arriving reports whether the object is still easing out to its orbit.
func (o *Object) Arriving() bool { return o.arriving }

// Radius is the current bounding radius in scene units.
func (o *Object) Radius() float64 { return o.Spec.Radius() * o.Scale }

func (o *Object) refreshScale() {
	o.Scale = o.BaseScale * o.PulseFactor * o.Highlight()
}

func newAnimation(rng *rand.Rand) (Pulse, geom.Vec3) {
	p := Pulse{
		Phase:     rng.Float64() * 2 * math.Pi,
		Amplitude: minPulseAmplitude + rng.Float64()*pulseAmplitudeVar,
		Frequency: minPulseFrequency + rng.Float64()*pulseFrequencyVar,
	}
	rot := geom.Vec3{X: rng.Float64() * math.Pi, Y: rng.Float64() * math.Pi, Z: rng.Float64() * math.Pi}
	return p, rot
}

// HaloRing is one of the tilted rings circling the singularity.
type HaloRing struct {
	TiltX float64
	TiltY float64
	Angle float64
	Speed float64 // rad/s
}

// Singularity is the anchor at the origin. It is not tied to any record.
type Singularity struct {
	Radius        float64
	Rotation      float64
	RotationSpeed float64 // rad/s
	Scale         float64
	Rings         []HaloRing
	// Flare in [0, 1] brightens the halo; fed by the audio tap.
	Flare float64
}

func newSingularity() *Singularity {
	s := &Singularity{
		Radius:        layout.SingularityRadius,
		RotationSpeed: 0.3,
		Scale:         1,
	}
	for i := 0; i < 3; i++ {
		s.Rings = append(s.Rings, HaloRing{
			TiltX: math.Pi / 2 * float64(i),
			TiltY: math.Pi / 4 * float64(i),
			Speed: 0.2 * float64(i+1),
		})
	}
	return s
}

// SetFlare sets the halo flare level, clamped to [0, 1].
func (s *Singularity) SetFlare(level float64) { s.Flare = geom.Clamp01(level) }
