// Package audio plays ambient sounds through the system speaker.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/xvierd/focusflow/internal/ports"
)

// SampleRate is the rate the speaker runs at; clips are resampled to it.
const SampleRate beep.SampleRate = 44100

var (
	// ErrUnsupportedFormat is returned for files beep cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrNothingLoaded is returned by Play before a successful Load.
	ErrNothingLoaded = errors.New("no sound loaded")
)

// output is the part of the speaker the player drives.
type output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

type systemSpeaker struct{}

func (systemSpeaker) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}

func (systemSpeaker) Play(s beep.Streamer) { speaker.Play(s) }
func (systemSpeaker) Clear()               { speaker.Clear() }
func (systemSpeaker) Lock()                { speaker.Lock() }
func (systemSpeaker) Unlock()              { speaker.Unlock() }

// Player holds a single clip. Loading a new clip stops and releases the
// previous one.
type Player struct {
	mu     sync.Mutex
	out    output
	inited bool

	stream beep.StreamSeekCloser
	format beep.Format
	ctrl   *beep.Ctrl
	vol    *effects.Volume

	volume  float64
	playing bool
}

// Ensure Player implements ports.AudioPlayer.
var _ ports.AudioPlayer = (*Player)(nil)

// NewPlayer creates a player at the given volume. The speaker is opened
// lazily on the first Play.
func NewPlayer(volume float64) *Player {
	return &Player{out: systemSpeaker{}, volume: clamp(volume)}
}

// Load decodes the file at ref, replacing any current clip.
func (p *Player) Load(ref string) error {
	stream, format, err := decode(ref)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	_ = p.releaseLocked()
	p.stream = stream
	p.format = format
	return nil
}

// Play starts the loaded clip from the beginning.
func (p *Player) Play(loop bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrNothingLoaded
	}
	if !p.inited {
		if err := p.out.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("failed to open speaker: %w", err)
		}
		p.inited = true
	}

	p.out.Clear()
	if err := p.stream.Seek(0); err != nil {
		return fmt.Errorf("failed to rewind clip: %w", err)
	}

	var s beep.Streamer = p.stream
	if loop {
		s = beep.Loop(-1, p.stream)
	}
	if p.format.SampleRate != SampleRate {
		s = beep.Resample(4, p.format.SampleRate, SampleRate, s)
	}

	p.ctrl = &beep.Ctrl{Streamer: s}
	p.vol = &effects.Volume{Streamer: p.ctrl, Base: 2}
	applyVolume(p.vol, p.volume)

	p.out.Play(p.vol)
	p.playing = true
	return nil
}

// Pause halts playback. Play restarts the clip.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = true
	p.out.Unlock()
	p.playing = false
}

// SetVolume sets the level, clamped to [0, 1].
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = clamp(v)
	if p.vol == nil {
		return
	}
	p.out.Lock()
	applyVolume(p.vol, p.volume)
	p.out.Unlock()
}

// Volume returns the current level.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Playing reports whether a clip is audible.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Close stops playback and releases the clip.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.releaseLocked()
}

func (p *Player) releaseLocked() error {
	if p.inited {
		p.out.Clear()
	}
	p.ctrl = nil
	p.vol = nil
	p.playing = false

	if p.stream == nil {
		return nil
	}
	err := p.stream.Close()
	p.stream = nil
	return err
}

// decode opens path and picks a decoder by extension. The returned stream
// owns the file.
func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to open sound: %w", err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return stream, format, nil
}

func applyVolume(v *effects.Volume, level float64) {
	v.Silent = level <= 0
	if !v.Silent {
		v.Volume = math.Log2(level)
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
