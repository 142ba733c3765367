package host

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/internal/wavio"
)

const bytesPerSample = 4

// Stream renders a clip through a processor on demand and serves the result
// as interleaved little-endian float32 bytes. It returns io.EOF once the clip
// and the configured tail have been delivered. Read must be called from one
// goroutine; Position and Done may be polled from any other.
type Stream struct {
	proc     Processor
	clip     *wavio.Clip
	channels int
	total    int
	pos      int

	rendered atomic.Int64
	drained  atomic.Bool

	block [][]float32
	view  [][]float32
	inter []float32
	bytes []byte
	off   int
	avail int
	err   error
}

// NewStream prepares p for clip and returns a stream that processes
// blockSize frames at a time.
func NewStream(p Processor, clip *wavio.Clip, blockSize, tailFrames int) (*Stream, error) {
	if clip == nil {
		return nil, errors.New("host: nil clip")
	}
	channels := clip.NumChannels()
	if !SupportsLayout(channels, channels) {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedLayout, channels)
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("host: block size must be > 0: %d", blockSize)
	}
	if err := p.Prepare(float64(clip.SampleRate), blockSize, channels); err != nil {
		return nil, fmt.Errorf("host: prepare: %w", err)
	}

	return &Stream{
		proc:     p,
		clip:     clip,
		channels: channels,
		total:    clip.Frames() + max(tailFrames, 0),
		block:    core.NewPlanar(channels, blockSize),
		view:     make([][]float32, channels),
		inter:    make([]float32, blockSize*channels),
		bytes:    make([]byte, blockSize*channels*bytesPerSample),
	}, nil
}

// Channels returns the interleaved channel count.
func (s *Stream) Channels() int { return s.channels }

// SampleRate returns the clip sample rate.
func (s *Stream) SampleRate() int { return s.clip.SampleRate }

// Position returns the number of frames rendered so far.
func (s *Stream) Position() int { return int(s.rendered.Load()) }

// Done reports whether every frame has been delivered.
func (s *Stream) Done() bool { return s.drained.Load() }

// Read fills p with rendered audio.
func (s *Stream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if s.off >= s.avail {
			if s.err != nil {
				break
			}
			if s.pos >= s.total {
				s.proc.Reset()
				s.err = io.EOF
				break
			}
			if err := s.render(); err != nil {
				s.err = err
				break
			}
		}

		c := copy(p[n:], s.bytes[s.off:s.avail])
		s.off += c
		n += c
	}

	if s.pos >= s.total && s.off >= s.avail {
		s.drained.Store(true)
	}

	if n > 0 {
		return n, nil
	}
	return 0, s.err
}

func (s *Stream) render() error {
	frames := min(len(s.block[0]), s.total-s.pos)
	inFrames := s.clip.Frames()

	for ch := range s.channels {
		s.view[ch] = s.block[ch][:frames]
		fillFrom(s.view[ch], s.clip.Channels[ch][:inFrames], s.pos)
	}

	if err := s.proc.ProcessBlock(s.view); err != nil {
		return fmt.Errorf("host: block at frame %d: %w", s.pos, err)
	}
	s.pos += frames
	s.rendered.Store(int64(s.pos))

	count := wavio.Interleave(s.inter, s.view, frames)
	for i, v := range s.inter[:count] {
		binary.LittleEndian.PutUint32(s.bytes[i*bytesPerSample:], math.Float32bits(v))
	}
	s.off = 0
	s.avail = count * bytesPerSample

	return nil
}
