package biquad

// Chain is an ordered cascade of biquad sections processed in series.
type Chain struct {
	sections []Section
}

// NewChain creates a cascade from one or more coefficient sets.
// Each Coefficients value becomes one Section in the cascade.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// ProcessSample cascades input through all sections in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlockTo filters src into dst through the full cascade. dst must be
// at least as long as src; the two may alias.
func (c *Chain) ProcessBlockTo(dst, src []float64) {
	for i, x := range src {
		dst[i] = c.ProcessSample(x)
	}
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Expand multiplies a cascade out into a single numerator and denominator
// polynomial in z^-1. Trailing coefficients introduced by first-order
// sections are trimmed so a cascade of order N yields N+1 coefficients.
func Expand(coeffs []Coefficients) (b, a []float64) {
	b = []float64{1}
	a = []float64{1}
	for _, c := range coeffs {
		num, den := c.Numerator(), c.Denominator()
		if c.IsFirstOrder() {
			num, den = num[:2], den[:2]
		}
		b = polyMul(b, num)
		a = polyMul(a, den)
	}
	return b, a
}

func polyMul(p, q []float64) []float64 {
	out := make([]float64, len(p)+len(q)-1)
	for i, pv := range p {
		for j, qv := range q {
			out[i+j] += pv * qv
		}
	}
	return out
}
