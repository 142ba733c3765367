package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-lofi/dsp/effects/lofi"
	"github.com/cwbudde/algo-lofi/internal/testutil"
	"github.com/cwbudde/algo-lofi/internal/wavio"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeTestClip(t *testing.T, channels int) string {
	t.Helper()
	clip := wavio.NewClip(48000, 16, channels, 4800)
	for ch := range clip.Channels {
		clip.Channels[ch] = testutil.DeterministicSine(220*float64(ch+1), 48000, 0.5, 4800)
	}
	path := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, wavio.Write(path, clip, 16))
	return path
}

func TestProcess_WritesOutput(t *testing.T) {
	in := writeTestClip(t, 2)
	out := filepath.Join(t.TempDir(), "out.wav")

	_, stderr, err := run(t, "process", "-i", in, "-o", out, "--delay", "20", "--tail", "0.05", "--bits", "24")
	require.NoError(t, err)
	assert.Contains(t, stderr, "processed")

	clip, err := wavio.Read(out)
	require.NoError(t, err)
	assert.Equal(t, 2, clip.NumChannels())
	assert.Equal(t, 24, clip.BitDepth)
	assert.Equal(t, 4800+2400, clip.Frames())
	assert.Greater(t, testutil.RMS(clip.Channels[0][4800:]), 0.0)
}

func TestProcess_VerboseLogsLevels(t *testing.T) {
	in := writeTestClip(t, 1)
	out := filepath.Join(t.TempDir(), "out.wav")

	_, stderr, err := run(t, "-v", "process", "-i", in, "-o", out, "--per-sample")
	require.NoError(t, err)
	assert.Contains(t, stderr, "channel levels")
	assert.Contains(t, stderr, "granularity=per-sample")
}

func TestProcess_MissingFlags(t *testing.T) {
	_, _, err := run(t, "process", "-i", "x.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")
}

func TestProcess_MissingInput(t *testing.T) {
	_, _, err := run(t, "process", "-i", "/nonexistent/in.wav", "-o", filepath.Join(t.TempDir(), "o.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestResponse_PrintsTable(t *testing.T) {
	stdout, _, err := run(t, "response", "--cutoff", "500", "--resonance", "4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, len(octavePoints)+2)
	assert.Contains(t, lines[0], "freq (Hz)")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "peak "))
}

func TestResponse_BadFFT(t *testing.T) {
	_, _, err := run(t, "response", "--fft", "1000")
	require.Error(t, err)
}

func TestPlay_RequiresInput(t *testing.T) {
	_, _, err := run(t, "play")
	require.Error(t, err)
}

func TestEffectFlags(t *testing.T) {
	fx := effectFlags{delayMs: 500, depth: 0.2, cutoffHz: 10, resonance: 3, rateHz: 1, block: 256, perSample: true, tail: 0.5}

	p := fx.params()
	assert.Equal(t, 100.0, p.DelayMs)
	assert.Equal(t, 50.0, p.CutoffHz)
	assert.Equal(t, 24000, fx.tailFrames(48000))
	assert.Equal(t, 256, fx.blockSize())
	assert.Equal(t, 512, (&effectFlags{block: -4}).blockSize())

	eng, err := fx.engine()
	require.NoError(t, err)
	assert.Equal(t, lofi.PerSample, eng.Granularity())
	assert.Equal(t, 100.0, eng.Params().Snapshot().DelayMs)
}
