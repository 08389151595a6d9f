// Package audio plays the selection chimes and the optional ambient
// soundtrack through one mixer, and exposes the played level so the scene
// can react to it.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/survival-singularity/internal/logger"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	RingSize          = 8192
	// Samples measured per level reading, about 46 ms at 44.1 kHz.
	levelWindow     = 2048
	resampleQuality = 4
)

// ErrUnsupportedFormat is returned for soundtrack files that are not wav,
// mp3 or flac.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Player owns the speaker. Chimes and the soundtrack are added to a mixer
// that is always playing, so the tap sees everything.
type Player struct {
	sampleRate beep.SampleRate
	mixer      *beep.Mixer
	tap        *Tap
	log        logger.Logger

	mu         sync.Mutex
	soundtrack beep.StreamSeekCloser
	file       *os.File
	ctrl       *beep.Ctrl
	paused     bool
}

// NewPlayer initializes the speaker and starts the mixer.
func NewPlayer(log logger.Logger) (*Player, error) {
	if log == nil {
		log = logger.Nop()
	}
	p := &Player{
		sampleRate: DefaultSampleRate,
		mixer:      &beep.Mixer{},
		log:        log,
	}
	p.tap = NewTap(p.mixer, RingSize)

	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/20)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.tap)
	return p, nil
}

// Tap exposes the ring buffer behind the mixer.
func (p *Player) Tap() *Tap { return p.tap }

// Level is the RMS of the most recently played audio.
func (p *Player) Level() float64 { return p.tap.Level(levelWindow) }

// PlayChime rings the chime for an event of the given glow intensity.
func (p *Player) PlayChime(glow float64) {
	speaker.Lock()
	p.mixer.Add(Chime(p.sampleRate, glow))
	speaker.Unlock()
}

// PlaySoundtrack loops the audio file at path, replacing any current
// soundtrack.
func (p *Player) PlaySoundtrack(ctx context.Context, path string) error {
	f, streamer, format, err := Decode(path)
	if err != nil {
		return err
	}

	var looped beep.Streamer = beep.Loop(-1, streamer)
	if format.SampleRate != p.sampleRate {
		looped = beep.Resample(resampleQuality, format.SampleRate, p.sampleRate, looped)
	}
	ctrl := &beep.Ctrl{Streamer: looped}

	p.mu.Lock()
	defer p.mu.Unlock()

	speaker.Lock()
	if p.ctrl != nil {
		p.ctrl.Streamer = nil
	}
	p.mixer.Add(ctrl)
	speaker.Unlock()

	p.closeSoundtrack()
	p.soundtrack, p.file, p.ctrl, p.paused = streamer, f, ctrl, false

	p.log.Info(ctx, "soundtrack playing",
		logger.String("path", path),
		logger.Int("sample_rate", int(format.SampleRate)),
	)
	return nil
}

// TogglePause pauses or resumes the soundtrack. It is a no-op without one.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.paused = !p.paused
	p.ctrl.Paused = p.paused
	speaker.Unlock()
}

// HasSoundtrack reports whether a soundtrack is loaded, and whether it is
// paused.
func (p *Player) HasSoundtrack() (loaded, paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctrl != nil, p.paused
}

// Close stops playback and releases the soundtrack.
func (p *Player) Close() {
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()

	p.mu.Lock()
	p.closeSoundtrack()
	p.ctrl = nil
	p.mu.Unlock()
}

func (p *Player) closeSoundtrack() {
	if p.soundtrack != nil {
		_ = p.soundtrack.Close()
		p.soundtrack = nil
	}
	if p.file != nil {
		_ = p.file.Close()
		p.file = nil
	}
}

// Decode opens path and picks the decoder from its extension. The caller
// owns both returned closers.
func Decode(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".mp3", ".flac":
	default:
		return nil, nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, beep.Format{}, fmt.Errorf("open soundtrack: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return f, streamer, format, nil
}
