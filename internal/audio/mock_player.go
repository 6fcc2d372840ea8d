package audio

import (
	"errors"
	"sync"
	"sync/atomic"
)

// MockPlayer implements Player for tests. It records calls instead of
// producing sound.
type MockPlayer struct {
	mu      sync.Mutex
	playing bool
	closed  bool
	last    *Resource

	playCount atomic.Int64
	stopCount atomic.Int64

	// PlayErr, when set, is returned by Play.
	PlayErr error

	// OnPlay, when set, is invoked with the resource being played.
	OnPlay func(r *Resource)
}

// NewMockPlayer creates a mock player.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{}
}

// Play records the resource and marks the player as playing.
func (m *MockPlayer) Play(r *Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.New("player is closed")
	}
	if m.PlayErr != nil {
		return m.PlayErr
	}

	m.last = r
	m.playing = true
	m.playCount.Add(1)
	if m.OnPlay != nil {
		m.OnPlay(r)
	}
	return nil
}

// Stop marks the player as stopped.
func (m *MockPlayer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	m.stopCount.Add(1)
	return nil
}

// IsPlaying reports whether Play was called more recently than Stop.
func (m *MockPlayer) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Close marks the player unusable.
func (m *MockPlayer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	m.closed = true
	return nil
}

// LastPlayed returns the most recently played resource.
func (m *MockPlayer) LastPlayed() *Resource {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// PlayCount returns how many times Play succeeded.
func (m *MockPlayer) PlayCount() int64 { return m.playCount.Load() }

// StopCount returns how many times Stop was called.
func (m *MockPlayer) StopCount() int64 { return m.stopCount.Load() }
