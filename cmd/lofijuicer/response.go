package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-lofi/dsp/param"
	"github.com/cwbudde/algo-lofi/measure/response"
)

var octavePoints = []float64{31.25, 62.5, 125, 250, 500, 1000, 2000, 4000, 8000, 16000}

func newResponseCmd() *cobra.Command {
	var (
		cutoffHz   float64
		resonance  float64
		sampleRate float64
		fftSize    int
	)

	cmd := &cobra.Command{
		Use:   "response",
		Short: "Print the tone filter magnitude response",
		Long: `Print the magnitude response of the tone filter at octave points.

Example:
  lofijuicer response --cutoff 400 --resonance 6`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := response.ToneFilterResponse(cutoffHz, resonance, sampleRate, fftSize)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%10s  %8s\n", "freq (Hz)", "level dB")
			for _, f := range octavePoints {
				if f >= sampleRate/2 {
					break
				}
				fmt.Fprintf(w, "%10.2f  %8.2f\n", f, r.At(f))
			}

			peakHz, peakDB := r.Peak()
			fmt.Fprintf(w, "peak %.1f Hz at %.2f dB\n", peakHz, peakDB)

			return nil
		},
	}

	def := param.Defaults()
	cmd.Flags().Float64Var(&cutoffHz, "cutoff", def.CutoffHz, "Cutoff in Hz")
	cmd.Flags().Float64Var(&resonance, "resonance", def.Resonance, "Resonance (Q)")
	cmd.Flags().Float64Var(&sampleRate, "rate-hz", 48000, "Sample rate in Hz")
	cmd.Flags().IntVar(&fftSize, "fft", 8192, "FFT size (power of two)")

	return cmd
}
