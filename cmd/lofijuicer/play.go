package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-lofi/internal/host"
	"github.com/cwbudde/algo-lofi/internal/wavio"
)

const pollInterval = 50 * time.Millisecond

func newPlayCmd(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var (
		fx        effectFlags
		inputPath string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a WAV file through the effect",
		Long: `Play a WAV file through the effect on the default audio device.

Example:
  lofijuicer play -i loop.wav --delay 80 --rate 0.5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger(cmd)

			if inputPath == "" {
				return errors.New("--input is required")
			}

			clip, err := wavio.Read(inputPath)
			if err != nil {
				return err
			}

			eng, err := fx.engine()
			if err != nil {
				return err
			}

			stream, err := host.NewStream(eng, clip, fx.blockSize(), fx.tailFrames(clip.SampleRate))
			if err != nil {
				return err
			}

			player, err := host.NewPlayer(stream.SampleRate(), stream.Channels())
			if err != nil {
				return err
			}
			defer func() {
				if err := player.Close(); err != nil {
					log.Error("closing player", slog.Any("error", err))
				}
			}()

			log.Info("playing",
				slog.String("path", inputPath),
				slog.Int("sampleRate", stream.SampleRate()),
				slog.Int("channels", stream.Channels()),
			)
			player.Play(stream)

			ticker := time.NewTicker(pollInterval)
			defer ticker.Stop()

			for player.Playing() {
				select {
				case <-cmd.Context().Done():
					log.Info("stopped", slog.Int("frames", stream.Position()))
					return nil
				case <-ticker.C:
				}
			}

			log.Debug("finished", slog.Int("frames", stream.Position()))
			return nil
		},
	}

	fx.register(cmd)
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input WAV file")

	return cmd
}
