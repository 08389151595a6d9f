package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"

	"github.com/iburimskiy/survival-singularity/internal/geom"
)

const (
	chimeDuration  = 600 * time.Millisecond
	chimeBaseHz    = 220.0
	chimeOctaves   = 2.0
	chimeAmplitude = 0.3
	chimeDecay     = 6.0 // per second
)

// ChimeFrequency maps a glow intensity to a pitch: two octaves up from
// 220 Hz as glow goes from 0 to 1.
func ChimeFrequency(glow float64) float64 {
	return chimeBaseHz * math.Pow(2, chimeOctaves*geom.Clamp01(glow))
}

// Chime is a short decaying sine at the pitch for glow, with a fifth above
// mixed in quietly.
func Chime(sr beep.SampleRate, glow float64) beep.Streamer {
	freq := ChimeFrequency(glow)
	total := sr.N(chimeDuration)
	rate := float64(sr)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			t := float64(pos) / rate
			env := chimeAmplitude * math.Exp(-chimeDecay*t)
			v := env * (0.8*math.Sin(2*math.Pi*freq*t) + 0.2*math.Sin(2*math.Pi*freq*1.5*t))
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}
