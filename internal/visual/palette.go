package visual

import (
	"fmt"
	"image/color"
	"math"

	"github.com/iburimskiy/survival-singularity/internal/geom"
)

// RGB is an opaque 24-bit color.
type RGB struct {
	R, G, B uint8
}

// White is the color of unknown tags and of the fallback visual.
var White = RGB{0xff, 0xff, 0xff}

// Hex builds an RGB from 0xRRGGBB.
func Hex(v uint32) RGB {
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// RGBA returns the color with the given alpha, premultiplied for ebiten.
func (c RGB) RGBA(alpha float64) color.RGBA {
	a := math.Round(geom.Clamp01(alpha) * 255)
	f := a / 255
	return color.RGBA{
		R: uint8(math.Round(float64(c.R) * f)),
		G: uint8(math.Round(float64(c.G) * f)),
		B: uint8(math.Round(float64(c.B) * f)),
		A: uint8(a),
	}
}

// Lerp mixes c towards o by t in [0, 1].
func (c RGB) Lerp(o RGB, t float64) RGB {
	t = geom.Clamp01(t)
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return RGB{mix(c.R, o.R), mix(c.G, o.G), mix(c.B, o.B)}
}

func (c RGB) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Blend averages colors channel by channel, rounding to the nearest integer.
// An empty list blends to white.
func Blend(colors []RGB) RGB {
	if len(colors) == 0 {
		return White
	}
	var r, g, b float64
	for _, c := range colors {
		r += float64(c.R)
		g += float64(c.G)
		b += float64(c.B)
	}
	n := float64(len(colors))
	return RGB{
		R: uint8(math.Round(r / n)),
		G: uint8(math.Round(g / n)),
		B: uint8(math.Round(b / n)),
	}
}

// BlendTags blends the colors of every tag.
func BlendTags(tags []string) RGB {
	colors := make([]RGB, len(tags))
	for i, t := range tags {
		colors[i] = ColorFor(t)
	}
	return Blend(colors)
}

// HSV converts hue (degrees), saturation and value (0-1) to RGB.
func HSV(h, s, v float64) RGB {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return RGB{uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)}
}
