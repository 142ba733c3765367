// Package host drives a block processor the way a plugin host does: it
// checks the bus layout, prepares the processor, feeds it fixed-size blocks
// and releases it afterwards.
package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/internal/wavio"
)

// ErrUnsupportedLayout is returned for channel layouts other than mono or
// stereo with matching input and output.
var ErrUnsupportedLayout = errors.New("host: unsupported channel layout")

// Processor is the host-facing side of an effect.
type Processor interface {
	Prepare(sampleRate float64, maxBlockSize, channels int) error
	ProcessBlock(block [][]float32) error
	Reset()
}

// SupportsLayout reports whether an effect with in input and out output
// channels can be hosted. Only mono and stereo are supported, and the output
// must match the input.
func SupportsLayout(in, out int) bool {
	if out != 1 && out != 2 {
		return false
	}
	return in == out
}

// Render runs clip through p in blocks of blockSize frames and returns the
// processed audio. tailFrames of silence are appended to the input so the
// delayed signal can ring out. p is prepared before the first block and reset
// when Render returns. Cancelling ctx stops rendering between blocks.
func Render(ctx context.Context, p Processor, clip *wavio.Clip, blockSize, tailFrames int) (*wavio.Clip, error) {
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
	if tailFrames < 0 {
		tailFrames = 0
	}

	if err := p.Prepare(float64(clip.SampleRate), blockSize, channels); err != nil {
		return nil, fmt.Errorf("host: prepare: %w", err)
	}
	defer p.Reset()

	inFrames := clip.Frames()
	total := inFrames + tailFrames
	out := wavio.NewClip(clip.SampleRate, clip.BitDepth, channels, total)

	block := core.NewPlanar(channels, blockSize)
	view := make([][]float32, channels)

	for start := 0; start < total; start += blockSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := min(blockSize, total-start)
		for ch := range channels {
			view[ch] = block[ch][:n]
			fillFrom(view[ch], clip.Channels[ch][:inFrames], start)
		}

		if err := p.ProcessBlock(view); err != nil {
			return nil, fmt.Errorf("host: block at frame %d: %w", start, err)
		}

		for ch := range channels {
			copy(out.Channels[ch][start:start+n], view[ch])
		}
	}

	return out, nil
}

// fillFrom copies src[start:] into dst and zeroes whatever src cannot cover.
func fillFrom(dst, src []float32, start int) {
	n := 0
	if start < len(src) {
		n = copy(dst, src[start:])
	}
	core.Zero(dst[n:])
}
