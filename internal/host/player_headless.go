//go:build headless

package host

import (
	"io"
	"sync"
)

// Player consumes a Stream without an audio device.
type Player struct {
	mutex sync.Mutex
}

// NewPlayer returns a device-less player.
func NewPlayer(sampleRate, channels int) (*Player, error) {
	return &Player{}, nil
}

// Play drains s synchronously.
func (p *Player) Play(s *Stream) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	_, _ = io.Copy(io.Discard, s)
}

// Playing always reports false; Play returns only after the stream ends.
func (p *Player) Playing() bool { return false }

// Close is a no-op.
func (p *Player) Close() error { return nil }
