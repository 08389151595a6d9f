// Package visual turns an event record into the description of the glowing
// object that represents it: shape, colors, size and glow intensity.
package visual

import (
	"fmt"
	"math"

	"github.com/iburimskiy/survival-singularity/internal/event"
	"github.com/iburimskiy/survival-singularity/internal/geom"
)

// ShapeKind is the geometric form of an event object or of one of its parts.
type ShapeKind int

const (
	Sphere ShapeKind = iota
	Cube
	Pyramid
	Ring
	Star
	Composite
)

func (k ShapeKind) String() string {
	switch k {
	case Sphere:
		return "sphere"
	case Cube:
		return "cube"
	case Pyramid:
		return "pyramid"
	case Ring:
		return "ring"
	case Star:
		return "star"
	case Composite:
		return "composite"
	default:
		return fmt.Sprintf("shape(%d)", int(k))
	}
}

// Known tags.
const (
	TagTrauma      = "Trauma"
	TagImpact      = "Impact"
	TagBiochemical = "Biochemical"
	TagLuck        = "Luck"
	TagMicroCausal = "Micro-causal"
)

var shapeByTag = map[string]ShapeKind{
	TagTrauma:      Pyramid,
	TagImpact:      Cube,
	TagBiochemical: Sphere,
	TagLuck:        Ring,
	TagMicroCausal: Star,
}

var colorByTag = map[string]RGB{
	TagTrauma:      Hex(0xff2a6d), // neon magenta
	TagImpact:      Hex(0x05d9e8), // neon cyan
	TagBiochemical: Hex(0x01c716), // laser green
	TagLuck:        Hex(0xf706cf), // bright pink
	TagMicroCausal: Hex(0xfdff00), // neon yellow
}

// KnownTags lists the tags that carry shape and color meaning, in display order.
func KnownTags() []string {
	return []string{TagTrauma, TagImpact, TagBiochemical, TagLuck, TagMicroCausal}
}

// ShapeFor returns the shape of a tag; unknown tags are spheres.
func ShapeFor(tag string) ShapeKind {
	if k, ok := shapeByTag[tag]; ok {
		return k
	}
	return Sphere
}

// ColorFor returns the color of a tag; unknown tags are white.
func ColorFor(tag string) RGB {
	if c, ok := colorByTag[tag]; ok {
		return c
	}
	return White
}

// Log-scale bounds for probability normalization.
const (
	minLogProbability = -9.0
	maxLogProbability = 0.0
)

// Glow and size ranges.
const (
	minGlow       = 0.3
	glowRange     = 0.7
	baseSize      = 1.0
	sizeVariation = 0.5
)

// Composite layout factors, relative to the object's size.
const (
	partOffsetFactor     = 0.5
	partSizeFactor       = 0.4
	partGlowFactor       = 0.8
	connectorSizeFactor  = 0.3
	shellScale           = 1.05
	maxShellOpacity      = 0.8
	shellOpacityPerGlow  = 0.5
	fallbackShellOpacity = 0.4
)

// Rarity maps a probability to [0, 1] on a log scale; rarer is higher.
// Probabilities at or below zero are maximally rare.
func Rarity(p float64) float64 {
	if p <= 0 {
		return 1
	}
	l := math.Log10(p)
	if l < minLogProbability {
		l = minLogProbability
	}
	if l > maxLogProbability {
		l = maxLogProbability
	}
	return geom.Clamp01(1 - (l-minLogProbability)/(maxLogProbability-minLogProbability))
}

// GlowIntensity is in [0.3, 1.0] and never decreases as p gets rarer.
func GlowIntensity(p float64) float64 { return minGlow + glowRange*Rarity(p) }

// Size is in [1.0, 1.25].
func Size(p float64) float64 { return baseSize + Rarity(p)*sizeVariation*0.5 }

// Shell is the slightly larger wireframe copy that gives a part its glow.
type Shell struct {
	Scale   float64
	Opacity float64
}

// Part is one drawable piece of an event object. OffsetX/OffsetY are in the
// object's local plane, in scene units.
type Part struct {
	Shape   ShapeKind
	Color   RGB
	OffsetX float64
	OffsetY float64
	Size    float64
	Glow    float64
	Shell   Shell
}

// Spec is the visual description of one event.
type Spec struct {
	Shape     ShapeKind
	Color     RGB
	Blended   *RGB
	Size      float64
	Glow      float64
	Wireframe bool
	Parts     []Part
}

// Radius is a bounding radius of the spec in scene units, used for picking.
func (s Spec) Radius() float64 {
	r := s.Size
	for _, p := range s.Parts {
		if pr := math.Hypot(p.OffsetX, p.OffsetY) + p.Size; pr > r {
			r = pr
		}
	}
	return r
}

// Fallback is the visual used whenever a record cannot be interpreted.
func Fallback() Spec {
	return Spec{
		Shape:     Sphere,
		Color:     White,
		Size:      baseSize,
		Glow:      minGlow,
		Wireframe: true,
		Parts: []Part{{
			Shape: Sphere,
			Color: White,
			Size:  baseSize,
			Glow:  minGlow,
			Shell: Shell{Scale: shellScale, Opacity: fallbackShellOpacity},
		}},
	}
}

// Map derives the visual for a record. It never fails outright: when the
// record is malformed it returns Fallback together with an error wrapping
// ErrMalformedRecord so the caller can log it and carry on.
func Map(rec event.Record) (spec Spec, err error) {
	defer func() {
		if r := recover(); r != nil {
			spec = Fallback()
			err = fmt.Errorf("record %q: %v: %w", rec.ID, r, ErrMalformedRecord)
		}
	}()

	if len(rec.Type) == 0 {
		return Fallback(), fmt.Errorf("record %q has no type: %w", rec.ID, ErrMalformedRecord)
	}
	if math.IsNaN(rec.Probability) || math.IsInf(rec.Probability, 0) {
		return Fallback(), fmt.Errorf("record %q probability %v: %w", rec.ID, rec.Probability, ErrMalformedRecord)
	}

	size := Size(rec.Probability)
	glow := GlowIntensity(rec.Probability)

	if len(rec.Type) == 1 {
		tag := rec.Type[0]
		c := ColorFor(tag)
		return Spec{
			Shape: ShapeFor(tag),
			Color: c,
			Size:  size,
			Glow:  glow,
			Parts: []Part{newPart(ShapeFor(tag), c, 0, 0, size, glow)},
		}, nil
	}

	return composite(rec.Type, size, glow), nil
}

func composite(tags []string, size, glow float64) Spec {
	n := float64(len(tags))
	parts := make([]Part, 0, len(tags)+1)
	for i, tag := range tags {
		angle := float64(i) / n * 2 * math.Pi
		d := size * partOffsetFactor
		parts = append(parts, newPart(
			ShapeFor(tag), ColorFor(tag),
			math.Cos(angle)*d, math.Sin(angle)*d,
			size*partSizeFactor, glow*partGlowFactor,
		))
	}

	blended := BlendTags(tags)
	parts = append(parts, newPart(Sphere, blended, 0, 0, size*connectorSizeFactor, glow))

	return Spec{
		Shape:   Composite,
		Color:   ColorFor(tags[0]),
		Blended: &blended,
		Size:    size,
		Glow:    glow,
		Parts:   parts,
	}
}

func newPart(shape ShapeKind, c RGB, x, y, size, glow float64) Part {
	return Part{
		Shape:   shape,
		Color:   c,
		OffsetX: x,
		OffsetY: y,
		Size:    size,
		Glow:    glow,
		Shell: Shell{
			Scale:   shellScale,
			Opacity: math.Min(maxShellOpacity, glow*shellOpacityPerGlow),
		},
	}
}
