package iir

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SteadyStateZI returns the initial state zi for which a unit-step input
// produces a unit-step-response already at steady state. Scale it by the
// first input sample to start filtering without a transient.
//
// It solves (I - A)·zi = b[1:] - a[1:]·b[0], where A is the companion
// matrix of the normalized denominator.
func SteadyStateZI(tf TransferFunction) ([]float64, error) {
	p, err := tf.Padded()
	if err != nil {
		return nil, err
	}

	m := p.Order()
	if m == 0 {
		return []float64{}, nil
	}

	ia := mat.NewDense(m, m, nil)
	d := mat.NewVecDense(m, nil)
	for i := range m {
		ia.Set(i, i, 1)
		ia.Set(i, 0, ia.At(i, 0)+p.A[i+1])
		if i+1 < m {
			ia.Set(i, i+1, -1)
		}
		d.SetVec(i, p.B[i+1]-p.A[i+1]*p.B[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(ia, d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularSystem, err)
	}

	out := make([]float64, m)
	for i := range out {
		out[i] = zi.AtVec(i)
	}
	return out, nil
}
