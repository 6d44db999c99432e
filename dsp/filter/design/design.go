package design

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dynid/dsp/core"
	"github.com/cwbudde/algo-dynid/dsp/filter/biquad"
	"github.com/cwbudde/algo-dynid/dsp/filter/design/pass"
	"github.com/cwbudde/algo-dynid/dsp/filter/iir"
)

// ErrInvalidArgument reports an unsupported order or cutoff.
var ErrInvalidArgument = fmt.Errorf("design: %w", core.ErrInvalidArgument)

// MaxOrder bounds the Butterworth order. Expanded polynomials of higher
// orders lose too much precision at the low cutoffs used for joint signals.
const MaxOrder = 8

// Butterworth designs a lowpass Butterworth filter of the given order and
// returns it as a single transfer function. wn is the normalized angular
// cutoff in rad/sample, 0 < wn < π.
func Butterworth(order int, wn float64) (iir.TransferFunction, error) {
	sections, err := ButterworthSections(order, wn)
	if err != nil {
		return iir.TransferFunction{}, err
	}

	b, a := biquad.Expand(sections)
	return iir.TransferFunction{B: b, A: a}, nil
}

// ButterworthSections designs the same filter as [Butterworth] as a cascade
// of second-order sections.
func ButterworthSections(order int, wn float64) ([]biquad.Coefficients, error) {
	if order < 1 || order > MaxOrder {
		return nil, fmt.Errorf("%w: order must be in [1,%d]: %d", ErrInvalidArgument, MaxOrder, order)
	}
	if math.IsNaN(wn) || wn <= 0 || wn >= math.Pi {
		return nil, fmt.Errorf("%w: cutoff must be in (0, π) rad/sample: %v", ErrInvalidArgument, wn)
	}

	sections := pass.ButterworthLP(wn, order)
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: cutoff %v", ErrInvalidArgument, wn)
	}
	for i, s := range sections {
		if !s.Stable() {
			return nil, fmt.Errorf("%w: section %d unstable at cutoff %v", ErrInvalidArgument, i, wn)
		}
	}
	return sections, nil
}

// NormalizedCutoff converts a cutoff in Hz into rad/sample for the sampling
// interval h: fcHz·2π·h. An infinite cutoff stays infinite, which the
// zero-phase filter treats as "no filtering".
func NormalizedCutoff(fcHz, h float64) float64 {
	if math.IsInf(fcHz, 1) {
		return math.Inf(1)
	}
	return fcHz * 2 * math.Pi * h
}
