package scene

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/iburimskiy/survival-singularity/internal/logger"
)

const (
	// Orbit speeds are stored in rad/ms.
	msPerSecond = 1000
	// Ease-out rate toward the target orbit, per second.
	arrivalRate = 3.0
	arrivalSnap = 0.01
	corePulse   = 0.1
	coreFreq    = 1.5
)

// Clock advances the scene by frame deltas. It is driven from the frame loop
// and never blocks.
type Clock struct {
	store   *Store
	elapsed float64
}

func NewClock(store *Store) *Clock {
	return &Clock{store: store}
}

// Elapsed is the total animated time in seconds.
func (c *Clock) Elapsed() float64 { return c.elapsed }

// Tick advances every object by dt seconds. Nothing moves until the store is
// loaded. A panic in one object's step is logged and that object is skipped
// for the frame.
func (c *Clock) Tick(dt float64) {
	if !c.store.Loaded() || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}
	start := time.Now()
	c.elapsed += dt

	c.stepSingularity(dt)
	for _, obj := range c.store.objects {
		c.step(obj, dt)
	}

	c.store.metrics.ObserveTick(time.Since(start))
}

func (c *Clock) stepSingularity(dt float64) {
	s := c.store.singularity
	s.Rotation += s.RotationSpeed * dt
	for i := range s.Rings {
		s.Rings[i].Angle += s.Rings[i].Speed * dt
	}
	s.Scale = 1 + corePulse*math.Sin(c.elapsed*coreFreq)
}

func (c *Clock) step(obj *Object, dt float64) {
	defer func() {
		if r := recover(); r != nil {
			c.store.log.Error(context.Background(), "animation step failed",
				logger.String("id", obj.ID),
				logger.Error(fmt.Errorf("%v", r)),
			)
			c.store.metrics.RecordAnimationRecovery()
		}
	}()

	if obj.arriving {
		k := 1 - math.Exp(-arrivalRate*math.Abs(dt))
		obj.Orbit.Radius += (obj.targetRadius - obj.Orbit.Radius) * k
		obj.Orbit.Height += (obj.targetHeight - obj.Orbit.Height) * k
		if math.Abs(obj.targetRadius-obj.Orbit.Radius) < arrivalSnap &&
			math.Abs(obj.targetHeight-obj.Orbit.Height) < arrivalSnap {
			obj.Orbit.Radius = obj.targetRadius
			obj.Orbit.Height = obj.targetHeight
			obj.arriving = false
		}
	}

	obj.Orbit.Angle += obj.Orbit.Direction * obj.Orbit.Speed * dt * msPerSecond
	obj.Position = obj.Orbit.Position()
	obj.Rotation = obj.Rotation.Add(obj.Spin.Scale(dt))
	obj.PulseFactor = obj.Pulse.Factor(c.elapsed)
	obj.refreshScale()
}
