// Package iir provides transfer-function IIR filtering in direct form II
// transposed together with the steady-state initial conditions used by
// zero-phase filtering.
//
// A [TransferFunction] holds the numerator b and denominator a of
//
//	H(z) = (b0 + b1 z^-1 + ... + bN z^-N) / (a0 + a1 z^-1 + ... + aN z^-N)
//
// [SteadyStateZI] follows F. Gustafsson, "Determining the initial states in
// forward-backward filtering", IEEE Trans. Signal Processing 44(4), 1996.
package iir
