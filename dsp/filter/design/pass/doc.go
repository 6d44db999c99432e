// Package pass designs lowpass Butterworth cascades as biquad sections.
//
// Cutoffs are normalized angular frequencies in rad/sample (π is Nyquist).
// Sections are bilinear transforms of the analog prototype with the corner
// prewarped onto the requested cutoff, so the digital response is exactly
// -3 dB at wn.
package pass
