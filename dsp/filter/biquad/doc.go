// Package biquad provides second-order IIR sections and their cascades.
//
// A [Section] implements Direct Form II Transposed processing for a single
// section defined by [Coefficients]; [Chain] cascades sections. Designers in
// dsp/filter/design produce cascades of sections, and [Expand] multiplies a
// cascade out into a single numerator/denominator polynomial pair for
// transfer-function based processing such as dsp/filter/zerophase.
package biquad
