// Package svf provides a two-pole state-variable low-pass filter built on the
// topology-preserving transform (TPT).
//
// Coefficients are derived from cutoff, Q and sample rate:
//
//	g  = tan(π·fc/fs)
//	R2 = 1/Q
//	h  = 1 / (1 + R2·g + g²)
//
// Each channel keeps its own pair of integrator states, which persist across
// ProcessBlock calls. Only the low-pass output is emitted.
package svf
