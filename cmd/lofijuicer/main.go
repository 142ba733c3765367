// Command lofijuicer runs audio through the lo-fi delay effect.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/effects/lofi"
	"github.com/cwbudde/algo-lofi/dsp/param"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// effectFlags are the parameter flags shared by process and play.
type effectFlags struct {
	delayMs   float64
	depth     float64
	cutoffHz  float64
	resonance float64
	rateHz    float64
	block     int
	perSample bool
	tail      float64
}

func (f *effectFlags) register(cmd *cobra.Command) {
	def := param.Defaults()
	cmd.Flags().Float64Var(&f.delayMs, "delay", def.DelayMs, "Delay time in ms (10-100)")
	cmd.Flags().Float64Var(&f.depth, "depth", def.Depth, "Modulation depth in ms (0-1)")
	cmd.Flags().Float64Var(&f.cutoffHz, "cutoff", def.CutoffHz, "Tone filter cutoff in Hz (50-1000)")
	cmd.Flags().Float64Var(&f.resonance, "resonance", def.Resonance, "Tone filter resonance (1-10)")
	cmd.Flags().Float64Var(&f.rateHz, "rate", def.LFORateHz, "LFO rate in Hz")
	cmd.Flags().IntVar(&f.block, "block", 512, "Host block size in frames")
	cmd.Flags().BoolVar(&f.perSample, "per-sample", false, "Update the LFO every sample instead of every block")
	cmd.Flags().Float64Var(&f.tail, "tail", 0, "Seconds of silence appended so the delay can ring out")
}

func (f *effectFlags) params() param.Params {
	return param.Params{
		DelayMs:   f.delayMs,
		Depth:     f.depth,
		CutoffHz:  f.cutoffHz,
		Resonance: f.resonance,
		LFORateHz: f.rateHz,
	}.Clamped()
}

func (f *effectFlags) engine() (*lofi.Engine, error) {
	g := lofi.PerBlock
	if f.perSample {
		g = lofi.PerSample
	}

	eng, err := lofi.NewEngine(param.NewStore(f.params()), lofi.WithGranularity(g))
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return eng, nil
}

// blockSize returns the requested block size, or the default for
// non-positive values.
func (f *effectFlags) blockSize() int {
	return core.ApplyProcessorOptions(core.WithBlockSize(f.block)).BlockSize
}

func (f *effectFlags) tailFrames(sampleRate int) int {
	if f.tail <= 0 {
		return 0
	}
	return int(f.tail * float64(sampleRate))
}

func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "lofijuicer",
		Short: "Modulated stereo delay with a resonant low-pass tone filter",
		Long: `lofijuicer filters audio through a resonant low-pass, then adds a
delayed copy whose delay time is swung by a sine LFO in opposite directions
on the left and right channels.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	logger := func(cmd *cobra.Command) *slog.Logger { return newLogger(cmd, verbose) }

	root.AddCommand(newProcessCmd(logger))
	root.AddCommand(newResponseCmd())
	root.AddCommand(newPlayCmd(logger))

	return root
}
