package lofi

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/delay"
	"github.com/cwbudde/algo-lofi/dsp/filter/svf"
	"github.com/cwbudde/algo-lofi/dsp/osc"
	"github.com/cwbudde/algo-lofi/dsp/param"
)

var (
	// ErrNotPrepared is returned by ProcessBlock before a successful Prepare.
	ErrNotPrepared = errors.New("lofi: engine not prepared")
	// ErrChannelMismatch is returned when a block's channel count differs
	// from the prepared one.
	ErrChannelMismatch = errors.New("lofi: channel count mismatch")
	// ErrInvalidSampleRate is returned by Prepare for non-positive or
	// non-finite sample rates.
	ErrInvalidSampleRate = errors.New("lofi: sample rate must be > 0 and finite")
)

// State is the engine lifecycle state.
type State int

const (
	// StateUninitialized is the state before the first successful Prepare.
	StateUninitialized State = iota
	// StatePrepared means buffers are allocated and no block has run yet.
	StatePrepared
	// StateProcessing is entered on the first processed block.
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePrepared:
		return "prepared"
	case StateProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

// Engine is the modulated delay + tone filter processor.
type Engine struct {
	params *param.Store
	cfg    config

	state      State
	sampleRate float64
	maxBlock   int
	channels   int

	line      *delay.Line
	filter    *svf.ToneFilter
	lfo       *osc.Oscillator
	cutoff    *param.Smoother
	resonance *param.Smoother

	chunk [][]float32
	last  param.Params
}

// NewEngine returns an unprepared engine reading its parameters from params.
// A nil store is replaced by one holding the defaults.
func NewEngine(params *param.Store, opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if params == nil {
		params = param.NewDefaultStore()
	}

	return &Engine{
		params: params,
		cfg:    cfg,
		state:  StateUninitialized,
		last:   params.Snapshot(),
	}, nil
}

// Prepare allocates the delay ring (maxDelaySeconds of audio plus one block,
// zero-filled), the tone filter and the LFO, and rewinds the write position.
// On error the engine keeps its previous state and buffers.
func (e *Engine) Prepare(sampleRate float64, maxBlockSize, channels int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("lofi: max block size must be > 0: %d", maxBlockSize)
	}
	if channels != 1 && channels != 2 {
		return fmt.Errorf("lofi: only mono or stereo is supported: %d channels", channels)
	}

	line, err := delay.ForDuration(channels, sampleRate, e.cfg.maxDelaySeconds, maxBlockSize)
	if err != nil {
		return fmt.Errorf("lofi: delay ring: %w", err)
	}

	filter, err := svf.New(channels)
	if err != nil {
		return fmt.Errorf("lofi: tone filter: %w", err)
	}

	p := e.params.Snapshot()
	if err := filter.SetParameters(p.CutoffHz, p.Resonance, sampleRate); err != nil {
		return fmt.Errorf("lofi: tone filter: %w", err)
	}

	lfo, err := osc.New(p.LFORateHz, sampleRate, osc.WithPhaseWrap())
	if err != nil {
		return fmt.Errorf("lofi: lfo: %w", err)
	}

	updateRate := sampleRate / float64(maxBlockSize)
	cutoff := param.NewSmoother(e.cfg.smoothingSeconds, updateRate)
	cutoff.Snap(p.CutoffHz)
	resonance := param.NewSmoother(e.cfg.smoothingSeconds, updateRate)
	resonance.Snap(p.Resonance)

	e.sampleRate = sampleRate
	e.maxBlock = maxBlockSize
	e.channels = channels
	e.line = line
	e.filter = filter
	e.lfo = lfo
	e.cutoff = cutoff
	e.resonance = resonance
	e.chunk = make([][]float32, channels)
	e.last = p
	e.state = StatePrepared

	return nil
}

// PrepareWith prepares the engine from processor options. Unset or invalid
// values fall back to 48 kHz, 512-frame blocks and stereo.
func (e *Engine) PrepareWith(opts ...core.ProcessorOption) error {
	cfg := core.ApplyProcessorOptions(opts...)
	return e.Prepare(cfg.SampleRate, cfg.BlockSize, cfg.Channels)
}

// ProcessBlock processes block in place. block holds one slice per channel;
// all channels are processed up to the shortest channel length. Blocks longer
// than the prepared maximum are processed in maximum-size chunks.
func (e *Engine) ProcessBlock(block [][]float32) error {
	if e.state == StateUninitialized {
		return ErrNotPrepared
	}
	if len(block) != e.channels {
		return ErrChannelMismatch
	}

	frames := core.Frames(block)
	for start := 0; start < frames; start += e.maxBlock {
		end := start + e.maxBlock
		if end > frames {
			end = frames
		}
		for ch := range block {
			e.chunk[ch] = block[ch][start:end]
		}
		e.processChunk(e.chunk, end-start)
	}

	for ch := range e.chunk {
		e.chunk[ch] = nil
	}
	e.state = StateProcessing

	return nil
}

func (e *Engine) processChunk(block [][]float32, n int) {
	p := e.params.Snapshot()
	e.last = p

	if p.LFORateHz != e.lfo.Frequency() {
		_ = e.lfo.SetFrequency(p.LFORateHz)
	}

	elapsed := float64(n) / e.sampleRate
	cutoff := e.cutoff.NextFor(p.CutoffHz, elapsed)
	q := e.resonance.NextFor(p.Resonance, elapsed)
	_ = e.filter.SetParameters(cutoff, q, e.sampleRate)

	for _, buf := range block {
		core.SanitizeBlock(buf)
	}
	e.filter.ProcessBlock(block)

	switch e.cfg.granularity {
	case PerSample:
		e.modulatePerSample(block, p, n)
	default:
		e.modulatePerBlock(block, p)
	}

	e.line.Advance(n)

	if e.cfg.granularity == PerBlock {
		e.lfo.Advance(float64(n))
	}

	for _, buf := range block {
		core.SanitizeBlock(buf)
	}
}

func (e *Engine) modulatePerBlock(block [][]float32, p param.Params) {
	mod := e.lfo.Output()
	for ch, buf := range block {
		offset := e.offset(ch, p, mod)
		e.line.Write(ch, buf, e.cfg.writeStart, e.cfg.writeEnd)
		e.line.Read(ch, buf, offset, e.cfg.readStart, e.cfg.readEnd)
	}
}

func (e *Engine) modulatePerSample(block [][]float32, p param.Params, n int) {
	for ch, buf := range block {
		e.line.Write(ch, buf, e.cfg.writeStart, e.cfg.writeEnd)
	}

	for i := 0; i < n; i++ {
		mod := e.lfo.Output()
		gain := delay.RampGain(i, n, e.cfg.readStart, e.cfg.readEnd)
		for ch, buf := range block {
			buf[i] += gain * e.line.Tap(ch, i, e.offset(ch, p, mod))
		}
		e.lfo.Advance(1)
	}
}

// offset returns the read offset in samples for channel ch. The left (and
// mono) channel adds the LFO term, the right channel subtracts it.
func (e *Engine) offset(ch int, p param.Params, mod float64) int {
	swing := p.Depth * mod
	if ch == 1 {
		swing = -swing
	}
	return delay.OffsetSamples(e.sampleRate, p.DelayMs+swing)
}

// ChannelOffsets returns the left and right read offsets the next block
// would use with the current parameters and LFO output. Both are zero before
// Prepare.
func (e *Engine) ChannelOffsets() (left, right int) {
	if e.state == StateUninitialized {
		return 0, 0
	}
	p := e.params.Snapshot()
	mod := e.lfo.Output()
	return e.offset(0, p, mod), e.offset(1, p, mod)
}

// Reset clears the delay ring, filter state and LFO phase. The lifecycle
// state is unchanged.
func (e *Engine) Reset() {
	if e.state == StateUninitialized {
		return
	}
	e.line.Reset()
	e.filter.Reset()
	e.lfo.Reset()

	p := e.params.Snapshot()
	e.cutoff.Snap(p.CutoffHz)
	e.resonance.Snap(p.Resonance)
	e.last = p
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// SampleRate returns the prepared sample rate.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// MaxBlockSize returns the prepared maximum block length.
func (e *Engine) MaxBlockSize() int { return e.maxBlock }

// Channels returns the prepared channel count.
func (e *Engine) Channels() int { return e.channels }

// Granularity returns the configured LFO update granularity.
func (e *Engine) Granularity() Granularity { return e.cfg.granularity }

// Params returns the parameter store the engine reads from.
func (e *Engine) Params() *param.Store { return e.params }

// LastParams returns the snapshot used by the most recent block.
func (e *Engine) LastParams() param.Params { return e.last }

// DelayLength returns the delay ring length in samples, or 0 before Prepare.
func (e *Engine) DelayLength() int {
	if e.line == nil {
		return 0
	}
	return e.line.Len()
}

// LFOOutput returns the current LFO value in [-1, 1].
func (e *Engine) LFOOutput() float64 {
	if e.lfo == nil {
		return 0
	}
	return e.lfo.Output()
}

// LFOPhase returns the current LFO phase in radians.
func (e *Engine) LFOPhase() float64 {
	if e.lfo == nil {
		return 0
	}
	return e.lfo.Phase()
}

// FilterSettings returns the cutoff and Q currently applied by the tone filter.
func (e *Engine) FilterSettings() (cutoffHz, q float64) {
	if e.filter == nil {
		return 0, 0
	}
	return e.filter.Cutoff(), e.filter.Q()
}

// TailLength returns the tail reported to hosts, in seconds. Always 0; hosts
// are not asked to flush the delay ring.
func (e *Engine) TailLength() float64 { return 0 }
