// Package param holds the user-facing effect parameters shared between a
// control context and the real-time processing callback.
//
// Store keeps each scalar in its own atomic word. The control side calls the
// Set methods, which clamp into the documented ranges; the processing side
// calls Snapshot once per block. There is a single writer and a single reader
// and no ordering guarantee between fields.
package param
