package iir

import "fmt"

// LFilter runs tf over x once (causal) and returns the output together with
// the final filter state. zi is the initial state of length Order(); nil
// means a zero state. Neither x nor zi is modified.
func LFilter(tf TransferFunction, x, zi []float64) (y, zf []float64, err error) {
	p, err := tf.Padded()
	if err != nil {
		return nil, nil, err
	}
	if zi != nil && len(zi) != p.Order() {
		return nil, nil, fmt.Errorf("%w: initial state length %d, want %d", ErrInvalidArgument, len(zi), p.Order())
	}

	z := make([]float64, p.Order())
	copy(z, zi)
	y = make([]float64, len(x))
	run(p.B, p.A, x, y, z)
	return y, z, nil
}

// run filters x into y with padded, normalized coefficients, updating the
// state z in place. len(b) == len(a) == len(z)+1.
func run(b, a, x, y, z []float64) {
	n := len(b)
	if n == 1 {
		for i, xv := range x {
			y[i] = b[0] * xv
		}
		return
	}

	last := n - 2
	for i, xv := range x {
		yv := b[0]*xv + z[0]
		for k := 0; k < last; k++ {
			z[k] = b[k+1]*xv - a[k+1]*yv + z[k+1]
		}
		z[last] = b[n-1]*xv - a[n-1]*yv
		y[i] = yv
	}
}

// Process filters x into y with coefficients that were already Padded,
// updating the state z (length Order()) in place. len(y) must be at least
// len(x). It performs no validation and does not allocate.
func Process(p TransferFunction, x, y, z []float64) {
	run(p.B, p.A, x, y, z)
}
