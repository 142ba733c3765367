// Package wavio reads and writes PCM WAV files as planar float32 clips.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	chunkFrames = 4096
)

// Clip is decoded audio with one slice per channel.
type Clip struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float32
}

// NewClip returns a silent clip.
func NewClip(sampleRate, bitDepth, channels, frames int) *Clip {
	c := &Clip{SampleRate: sampleRate, BitDepth: bitDepth, Channels: make([][]float32, channels)}
	for ch := range c.Channels {
		c.Channels[ch] = make([]float32, frames)
	}
	return c
}

// NumChannels returns the channel count.
func (c *Clip) NumChannels() int { return len(c.Channels) }

// Frames returns the length of the shortest channel.
func (c *Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}
	n := len(c.Channels[0])
	for _, ch := range c.Channels[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}
	return n
}

func maxValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16:
		return maxInt16, nil
	case 24:
		return maxInt24, nil
	case 32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}
}

// Read decodes the WAV file at path.
func Read(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := dec.Format()
	bitDepth := int(dec.BitDepth)
	maxVal, err := maxValue(bitDepth)
	if err != nil {
		return nil, err
	}
	channels := format.NumChannels
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}

	clip := &Clip{SampleRate: format.SampleRate, BitDepth: bitDepth, Channels: make([][]float32, channels)}
	buf := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, chunkFrames*channels),
		SourceBitDepth: bitDepth,
	}
	inv := 1 / maxVal

	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		if n == 0 {
			break
		}

		frames := n / channels
		for i := range frames {
			base := i * channels
			for ch := range channels {
				clip.Channels[ch] = append(clip.Channels[ch], float32(float64(buf.Data[base+ch])*inv))
			}
		}

		buf.Data = buf.Data[:cap(buf.Data)]
	}

	return clip, nil
}

// Write encodes clip as PCM WAV with the given bit depth. Samples outside
// [-1, 1] are clipped.
func Write(path string, clip *Clip, bitDepth int) (err error) {
	if clip == nil || clip.NumChannels() == 0 {
		return errors.New("empty clip")
	}
	maxVal, err := maxValue(bitDepth)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	channels := clip.NumChannels()
	enc := wav.NewEncoder(f, clip.SampleRate, bitDepth, channels, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: clip.SampleRate},
		Data:           IntInterleave(clip.Channels, clip.Frames(), maxVal),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to write audio data: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}

	return nil
}

// IntInterleave converts the first frames samples of each channel to
// interleaved integers scaled by maxVal, clipping to [-1, 1].
func IntInterleave(channels [][]float32, frames int, maxVal float64) []int {
	n := len(channels)
	out := make([]int, frames*n)
	for i := range frames {
		for ch := range n {
			s := float64(channels[ch][i])
			if s != s {
				s = 0
			}
			if s > 1 {
				s = 1
			} else if s < -1 {
				s = -1
			}
			out[i*n+ch] = int(s * maxVal)
		}
	}
	return out
}
