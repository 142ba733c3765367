// Package osc provides the sinusoidal low-frequency oscillator that drives
// delay-time modulation.
//
// The oscillator is a plain phase accumulator: each call to Advance adds
// phaseIncrement*step to the phase and samples sin(phase). Phase is left
// unwrapped by default; WithPhaseWrap keeps it in [0, 2π) for long sessions.
package osc
