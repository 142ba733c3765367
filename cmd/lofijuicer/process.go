package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-lofi/internal/host"
	"github.com/cwbudde/algo-lofi/internal/wavio"
	"github.com/cwbudde/algo-lofi/measure/level"
)

func newProcessCmd(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var (
		fx         effectFlags
		inputPath  string
		outputPath string
		bitDepth   int
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process a WAV file",
		Long: `Process a mono or stereo WAV file and write the result.

Examples:
  lofijuicer process -i in.wav -o out.wav
  lofijuicer process -i in.wav -o out.wav --delay 60 --depth 1 --cutoff 400 --tail 0.2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger(cmd)

			if inputPath == "" || outputPath == "" {
				return errors.New("both --input and --output are required")
			}

			clip, err := wavio.Read(inputPath)
			if err != nil {
				return err
			}
			log.Debug("input loaded",
				slog.String("path", inputPath),
				slog.Int("sampleRate", clip.SampleRate),
				slog.Int("channels", clip.NumChannels()),
				slog.Int("bitDepth", clip.BitDepth),
				slog.Int("frames", clip.Frames()),
			)

			eng, err := fx.engine()
			if err != nil {
				return err
			}

			start := time.Now()
			out, err := host.Render(cmd.Context(), eng, clip, fx.blockSize(), fx.tailFrames(clip.SampleRate))
			if err != nil {
				return err
			}

			depth := bitDepth
			if depth == 0 {
				depth = clip.BitDepth
			}
			if err := wavio.Write(outputPath, out, depth); err != nil {
				return err
			}

			for ch := range out.Channels {
				in := level.Calculate(clip.Channels[ch])
				res := level.Calculate(out.Channels[ch])
				log.Debug("channel levels",
					slog.Int("channel", ch),
					slog.Float64("inRMSdB", in.RMS_dB),
					slog.Float64("outRMSdB", res.RMS_dB),
					slog.Float64("outPeakdB", res.Peak_dB),
				)
			}

			p := fx.params()
			log.Info("processed",
				slog.String("output", outputPath),
				slog.Int("frames", out.Frames()),
				slog.Float64("delayMs", p.DelayMs),
				slog.Float64("depth", p.Depth),
				slog.Float64("cutoffHz", p.CutoffHz),
				slog.Float64("resonance", p.Resonance),
				slog.String("granularity", eng.Granularity().String()),
				slog.Duration("elapsed", time.Since(start)),
			)

			return nil
		},
	}

	fx.register(cmd)
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input WAV file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output WAV file")
	cmd.Flags().IntVar(&bitDepth, "bits", 0, "Output bit depth (16, 24 or 32; default: same as input)")

	return cmd
}
