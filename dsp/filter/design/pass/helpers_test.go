package pass

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-dynid/dsp/filter/biquad"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// magnitude returns |H(e^jw)| of the cascade.
func magnitude(sections []biquad.Coefficients, w float64) float64 {
	h := complex(1, 0)
	for _, c := range sections {
		h *= c.Response(w)
	}
	return cmplx.Abs(h)
}
