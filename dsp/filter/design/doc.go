// Package design provides the lowpass filter designs used to condition joint
// signals.
//
// Designs are produced as biquad cascades by dsp/filter/design/pass and
// multiplied out into a single [iir.TransferFunction] for zero-phase
// filtering. Cutoffs are normalized angular frequencies in rad/sample; use
// [NormalizedCutoff] to convert from Hz.
package design
