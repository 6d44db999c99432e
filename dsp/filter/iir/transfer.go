package iir

import (
	"fmt"

	"github.com/cwbudde/algo-dynid/dsp/core"
)

// ErrInvalidArgument reports malformed coefficients or state vectors.
var ErrInvalidArgument = fmt.Errorf("iir: %w", core.ErrInvalidArgument)

// ErrSingularSystem reports that the initial-state system (I - A) cannot be
// inverted. This never happens for a stable denominator.
var ErrSingularSystem = fmt.Errorf("iir: %w", core.ErrSingularSystem)

// TransferFunction is a rational transfer function in z^-1.
type TransferFunction struct {
	B []float64 // numerator
	A []float64 // denominator, A[0] != 0
}

// NTaps returns max(len(A), len(B)).
func (tf TransferFunction) NTaps() int {
	return max(len(tf.A), len(tf.B))
}

// Validate checks that both sequences are non-empty and finite and that
// A[0] is non-zero.
func (tf TransferFunction) Validate() error {
	if len(tf.B) == 0 || len(tf.A) == 0 {
		return fmt.Errorf("%w: empty coefficient sequence (len(b)=%d, len(a)=%d)", ErrInvalidArgument, len(tf.B), len(tf.A))
	}
	if tf.A[0] == 0 {
		return fmt.Errorf("%w: a[0] must be non-zero", ErrInvalidArgument)
	}
	if !core.AllFinite(tf.B) || !core.AllFinite(tf.A) {
		return fmt.Errorf("%w: non-finite coefficient", ErrInvalidArgument)
	}
	return nil
}

// Padded returns a copy whose sequences are both zero-padded to NTaps and
// normalized so that A[0] == 1. tf is not modified.
func (tf TransferFunction) Padded() (TransferFunction, error) {
	if err := tf.Validate(); err != nil {
		return TransferFunction{}, err
	}

	n := tf.NTaps()
	a0 := tf.A[0]
	out := TransferFunction{
		B: make([]float64, n),
		A: make([]float64, n),
	}
	for i, v := range tf.B {
		out.B[i] = v / a0
	}
	for i, v := range tf.A {
		out.A[i] = v / a0
	}
	return out, nil
}

// Order returns NTaps()-1, the length of the filter state.
func (tf TransferFunction) Order() int {
	return tf.NTaps() - 1
}

// DCGain returns H(1) = sum(B)/sum(A).
func (tf TransferFunction) DCGain() float64 {
	var num, den float64
	for _, v := range tf.B {
		num += v
	}
	for _, v := range tf.A {
		den += v
	}
	return num / den
}
