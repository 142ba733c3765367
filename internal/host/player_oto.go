//go:build !headless

package host

import (
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// Player plays a Stream on the default audio device.
type Player struct {
	ctx     *oto.Context
	player  *oto.Player
	stream  atomic.Pointer[Stream] // read lock-free from the device callback
	started bool
	mutex   sync.Mutex
}

// NewPlayer opens the audio device. Only one device context can exist per
// process.
func NewPlayer(sampleRate, channels int) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &Player{ctx: ctx}, nil
}

// Read is called by the device. It delivers silence while no stream is set.
func (p *Player) Read(b []byte) (int, error) {
	s := p.stream.Load()
	if s == nil {
		clear(b)
		return len(b), nil
	}
	return s.Read(b)
}

// Play starts playing s, replacing any previous stream.
func (p *Player) Play(s *Stream) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.stream.Store(s)
	if p.player == nil {
		p.player = p.ctx.NewPlayer(p)
	}
	if !p.started {
		p.player.Play()
		p.started = true
	}
}

// Playing reports whether the device is still consuming audio.
func (p *Player) Playing() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.player != nil && p.player.IsPlaying()
}

// Close stops playback and releases the device player.
func (p *Player) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.started = false
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}
