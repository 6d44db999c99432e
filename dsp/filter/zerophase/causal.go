package zerophase

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dynid/dsp/core"
	"github.com/cwbudde/algo-dynid/dsp/filter/biquad"
	"github.com/cwbudde/algo-dynid/dsp/filter/design"
	"github.com/cwbudde/algo-dynid/dsp/filter/iir"
)

// Simple runs tf forward and backward from zero state without edge padding.
// The phase still cancels, but start-up transients remain at both ends.
func Simple(tf iir.TransferFunction, x []float64) ([]float64, error) {
	forward, _, err := iir.LFilter(tf, x, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	backward, _, err := iir.LFilter(tf, core.Reversed(forward), nil)
	if err != nil {
		return nil, err
	}
	core.ReverseInPlace(backward)
	return backward, nil
}

// ButterSimple is Simple for a Butterworth lowpass. The sections run as a
// biquad cascade instead of the expanded polynomial.
func ButterSimple(order int, wn float64, x []float64) ([]float64, error) {
	if math.IsInf(wn, 1) {
		return core.Clone(x), nil
	}

	chain, err := butterChain(order, wn)
	if err != nil {
		return nil, err
	}

	y := make([]float64, len(x))
	chain.ProcessBlockTo(y, x)
	core.ReverseInPlace(y)
	chain.Reset()
	chain.ProcessBlockTo(y, y)
	core.ReverseInPlace(y)
	return y, nil
}

// ButterLFilter applies a Butterworth lowpass once, causally, from zero
// state. The output lags the input by the filter's group delay.
func ButterLFilter(order int, wn float64, x []float64) ([]float64, error) {
	if math.IsInf(wn, 1) {
		return core.Clone(x), nil
	}

	chain, err := butterChain(order, wn)
	if err != nil {
		return nil, err
	}

	y := make([]float64, len(x))
	chain.ProcessBlockTo(y, x)
	return y, nil
}

func butterChain(order int, wn float64) (*biquad.Chain, error) {
	sections, err := design.ButterworthSections(order, wn)
	if err != nil {
		return nil, err
	}
	return biquad.NewChain(sections), nil
}
