package pass

import (
	"math"

	"github.com/cwbudde/algo-dynid/dsp/filter/biquad"
)

// prewarp computes the bilinear transform frequency warping factor tan(wn/2).
// Returns (k, true) on success, (0, false) if wn is outside (0, π).
func prewarp(wn float64) (float64, bool) {
	if math.IsNaN(wn) || wn <= 0 || wn >= math.Pi {
		return 0, false
	}

	return math.Tan(wn / 2), true
}

// butterworthQ returns the quality factor for a Butterworth filter section.
// index ranges from 0 to (order/2 - 1) for the biquad sections.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2 // default Q
	}

	return 1 / (2 * s)
}

// lowpassSection designs a bilinear-transformed second-order lowpass with
// quality factor q, prewarped so the analog corner maps onto wn.
func lowpassSection(wn, q float64) biquad.Coefficients {
	cw := math.Cos(wn)
	alpha := math.Sin(wn) / (2 * q)

	a0 := 1 + alpha
	b0 := (1 - cw) / 2

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: 2 * b0 / a0,
		B2: b0 / a0,
		A1: -2 * cw / a0,
		A2: (1 - alpha) / a0,
	}
}

// butterworthFirstOrderLP designs a first-order lowpass Butterworth section.
// Used for odd-order filters.
func butterworthFirstOrderLP(wn float64) biquad.Coefficients {
	k, ok := prewarp(wn)
	if !ok {
		return biquad.Coefficients{}
	}

	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: k * norm,
		B1: k * norm,
		B2: 0,
		A1: (k - 1) * norm,
		A2: 0,
	}
}
