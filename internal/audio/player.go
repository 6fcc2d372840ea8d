package audio

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// Player plays back a materialized audio resource. Playback lives on
// the presentation side; nothing in the synchronization engine depends
// on it.
type Player interface {
	// Play starts playback of the resource, stopping any playback that
	// is already running.
	Play(r *Resource) error

	// Stop halts playback.
	Stop() error

	// IsPlaying reports whether audio is currently playing.
	IsPlaying() bool

	// Close releases the player. The player must not be used afterwards.
	Close() error
}

// OtoPlayer implements Player using an oto context and the go-mp3
// decoder for the service's audio/mpeg payloads. The oto context is
// created lazily on first play because its sample rate comes from the
// decoded stream.
type OtoPlayer struct {
	mu sync.Mutex

	ctx        *oto.Context
	sampleRate int
	current    *oto.Player
	file       *os.File
	closed     bool
}

// NewOtoPlayer creates an idle player.
func NewOtoPlayer() *OtoPlayer {
	return &OtoPlayer{}
}

// Play decodes the resource's file and starts playback through oto.
func (p *OtoPlayer) Play(r *Resource) error {
	if r == nil {
		return errors.New("nothing to play")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errors.New("player is closed")
	}
	p.stopLocked()

	f, err := os.Open(r.Path())
	if err != nil {
		return fmt.Errorf("unable to open audio resource: %w", err)
	}

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("unable to decode audio: %w", err)
	}

	if err := p.ensureContext(dec.SampleRate()); err != nil {
		f.Close()
		return err
	}

	p.file = f
	p.current = p.ctx.NewPlayer(dec)
	p.current.Play()
	return nil
}

// Stop halts playback, if any.
func (p *OtoPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	return nil
}

// IsPlaying reports whether audio is currently playing.
func (p *OtoPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil && p.current.IsPlaying()
}

// Close stops playback and marks the player unusable. The oto context
// itself has no close; it lives until process exit.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.closed = true
	return nil
}

func (p *OtoPlayer) stopLocked() {
	if p.current != nil {
		_ = p.current.Close()
		p.current = nil
	}
	if p.file != nil {
		_ = p.file.Close()
		p.file = nil
	}
}

// ensureContext initializes the shared oto context. Oto allows a single
// context per process, so a sample rate change after the first stream is
// rejected instead of silently resampling.
func (p *OtoPlayer) ensureContext(sampleRate int) error {
	if p.ctx != nil {
		if p.sampleRate != sampleRate {
			return fmt.Errorf("sample rate %d differs from active context %d", sampleRate, p.sampleRate)
		}
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2, // go-mp3 always decodes to stereo
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("unable to create audio context: %w", err)
	}

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		return errors.New("audio context was not ready in time")
	}

	p.ctx = ctx
	p.sampleRate = sampleRate
	return nil
}
