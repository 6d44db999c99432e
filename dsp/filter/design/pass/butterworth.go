package pass

import (
	"github.com/cwbudde/algo-dynid/dsp/filter/biquad"
)

// ButterworthLP designs a lowpass Butterworth cascade with its -3 dB point at
// wn (normalized angular frequency, rad/sample, 0 < wn < π).
//
// For odd orders, the final section is first-order (B2=A2=0).
// Invalid parameters yield nil.
func ButterworthLP(wn float64, order int) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}
	if _, ok := prewarp(wn); !ok {
		return nil
	}
	sections := make([]biquad.Coefficients, 0, (order+1)/2)

	n2 := order / 2
	for i := n2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		sections = append(sections, lowpassSection(wn, q))
	}
	if order%2 != 0 {
		sections = append(sections, butterworthFirstOrderLP(wn))
	}
	return sections
}
