// Package zerophase implements offline forward-backward (zero-phase) IIR
// filtering with odd-reflection edge padding and steady-state initial
// conditions.
//
// Running a filter forward and then backward over the same signal squares
// its magnitude response and cancels its phase response, so features stay
// aligned in time. The operation is non-causal and needs the whole signal:
// there is no streaming variant.
//
// A [Filter] computes its initial state once and can then be applied to any
// number of signals; [FiltFilt] and [ButterFiltFilt] are one-shot helpers.
package zerophase
