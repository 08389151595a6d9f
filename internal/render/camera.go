// Package render projects the scene onto the screen: an orbiting
// perspective camera, screen-space picking and wireframe outlines for each
// shape kind. It has no dependency on the windowing layer.
package render

import (
	"math"

	"github.com/iburimskiy/survival-singularity/internal/geom"
)

const (
	DefaultDistance = 50.0
	MinDistance     = 5.0
	MaxDistance     = 200.0
	DefaultFOV      = 75 * math.Pi / 180
	nearPlane       = 0.1
	maxPitch        = 1.5
)

// Offset of the camera from an object it focuses on.
var focusOffset = geom.Vec3{X: 5, Y: 5, Z: 5}

// Camera orbits Target at Distance. Yaw turns around the vertical axis and
// Pitch raises the eye above the horizontal plane.
type Camera struct {
	Target   geom.Vec3
	Distance float64
	Yaw      float64
	Pitch    float64
	FOV      float64
	Width    float64
	Height   float64
}

func NewCamera(width, height float64) *Camera {
	c := &Camera{FOV: DefaultFOV}
	c.Resize(width, height)
	c.Reset()
	return c
}

func (c *Camera) Resize(width, height float64) {
	c.Width, c.Height = width, height
}

// Reset looks at the origin from the default distance.
func (c *Camera) Reset() {
	c.Target = geom.Vec3{}
	c.Distance = DefaultDistance
	c.Yaw, c.Pitch = 0, 0
}

// Focus moves the camera next to p, looking at it.
func (c *Camera) Focus(p geom.Vec3) {
	c.Target = p
	c.Distance = focusOffset.Len()
	c.Yaw = math.Atan2(focusOffset.X, focusOffset.Z)
	c.Pitch = math.Asin(focusOffset.Y / c.Distance)
}

// Orbit turns the camera by the given angles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = geom.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Zoom scales the distance by factor within the allowed range.
func (c *Camera) Zoom(factor float64) {
	c.Distance = geom.Clamp(c.Distance*factor, MinDistance, MaxDistance)
}

// Eye is the camera position.
func (c *Camera) Eye() geom.Vec3 {
	cp := math.Cos(c.Pitch)
	return c.Target.Add(geom.Vec3{
		X: c.Distance * cp * math.Sin(c.Yaw),
		Y: c.Distance * math.Sin(c.Pitch),
		Z: c.Distance * cp * math.Cos(c.Yaw),
	})
}

func (c *Camera) basis() (eye, forward, right, up geom.Vec3) {
	eye = c.Eye()
	forward = c.Target.Sub(eye).Normalize()
	right = forward.Cross(geom.Vec3{Y: 1}).Normalize()
	up = right.Cross(forward)
	return eye, forward, right, up
}

// Focal is the focal length in pixels.
func (c *Camera) Focal() float64 {
	return c.Height / 2 / math.Tan(c.FOV/2)
}

// Project maps p to screen pixels. Depth is the distance along the view
// direction; ok is false for points behind the near plane.
func (c *Camera) Project(p geom.Vec3) (x, y, depth float64, ok bool) {
	eye, forward, right, up := c.basis()
	d := p.Sub(eye)
	depth = d.Dot(forward)
	if depth < nearPlane {
		return 0, 0, depth, false
	}
	f := c.Focal() / depth
	return c.Width/2 + d.Dot(right)*f, c.Height/2 - d.Dot(up)*f, depth, true
}

// ScreenRadius is the on-screen size in pixels of a radius r at depth.
func (c *Camera) ScreenRadius(r, depth float64) float64 {
	if depth < nearPlane {
		return 0
	}
	return r * c.Focal() / depth
}
