// Package lofi implements a modulated stereo delay followed by a resonant
// low-pass tone filter, driven by a single sine LFO.
//
// Per block the Engine:
//
//  1. reads a parameter snapshot and smooths cutoff and resonance,
//  2. updates the tone filter coefficients and filters the block in place,
//  3. writes each filtered channel into the delay ring (constant 0.75 gain)
//     and adds back a copy read at delayMs ± depth·lfo (constant 0.8 gain),
//     with the left channel adding and the right channel subtracting the
//     LFO term,
//  4. advances the ring by the block length and the LFO by one update.
//
// There is no feedback path. ProcessBlock never allocates, locks or logs.
package lofi
