package diff

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-dynid/dsp/core"
	"github.com/cwbudde/algo-dynid/internal/testutil"
)

func TestDifferentiateRampIsConstant(t *testing.T) {
	const k = 2.5
	ramp := testutil.Ramp(k, 0, 32)

	for _, scheme := range []Scheme{Scheme2, Scheme4} {
		d, err := Differentiate(ramp, 1, 1, scheme)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", scheme, err)
		}
		testutil.RequireSliceNearlyEqual(t, d, testutil.DC(k, len(ramp)), 1e-12)
	}
}

func TestDifferentiateRampSecondOrderIsZero(t *testing.T) {
	ramp := testutil.Ramp(-0.75, 3, 20)

	d, err := Differentiate(ramp, 0.01, 2, Scheme4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, d, make([]float64, len(ramp)), 1e-9)
}

func TestDifferentiateDoesNotModifyInput(t *testing.T) {
	x := []float64{0, 1, 4, 9, 16, 25}
	orig := core.Clone(x)

	if _, err := Differentiate(x, 1, 2, Scheme4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, x, orig, 0)
}

func TestDifferentiateScheme4Stencils(t *testing.T) {
	// Quadratic x = i²: interior and second-order stencils are exact (2i),
	// the one-sided edges are off by ±h.
	x := make([]float64, 8)
	for i := range x {
		x[i] = float64(i * i)
	}

	d, err := Differentiate(x, 1, 1, Scheme4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{1, 2, 4, 6, 8, 10, 12, 13}
	testutil.RequireSliceNearlyEqual(t, d, want, 1e-12)
}

func TestDifferentiateSineAccuracy(t *testing.T) {
	const (
		h = 0.001
		n = 2000
	)
	x := make([]float64, n)
	want := make([]float64, n)
	for i := range x {
		ti := float64(i) * h
		x[i] = math.Sin(2 * math.Pi * ti)
		want[i] = 2 * math.Pi * math.Cos(2*math.Pi*ti)
	}

	d4, err := Differentiate(x, h, 1, Scheme4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d2, err := Differentiate(x, h, 1, Scheme2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err4 := testutil.RMSError(d4[2:n-2], want[2:n-2])
	err2 := testutil.RMSError(d2[2:n-2], want[2:n-2])
	if err4 >= err2 {
		t.Fatalf("scheme4 interior error %g not below scheme2 error %g", err4, err2)
	}
	if err4 > 1e-9 {
		t.Fatalf("scheme4 interior error %g too large", err4)
	}
}

func TestSecondDifferenceQuadratic(t *testing.T) {
	x := make([]float64, 10)
	for i := range x {
		v := float64(i) * 0.1
		x[i] = 3 * v * v
	}

	for _, scheme := range []Scheme{Scheme2, Scheme4} {
		d, err := SecondDifference(x, 0.1, scheme)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", scheme, err)
		}
		testutil.RequireSliceNearlyEqual(t, d, testutil.DC(6, len(x)), 1e-9)
	}
}

func TestInvalidArguments(t *testing.T) {
	x := testutil.Ramp(1, 0, 10)

	tests := []struct {
		name string
		call func() error
	}{
		{"scheme", func() error { _, err := Differentiate(x, 1, 1, Scheme(3)); return err }},
		{"order", func() error { _, err := Differentiate(x, 1, 3, Scheme4); return err }},
		{"interval", func() error { _, err := Differentiate(x, 0, 1, Scheme4); return err }},
		{"short", func() error { _, err := Differentiate(x[:4], 1, 1, Scheme2); return err }},
		{"second scheme", func() error { _, err := SecondDifference(x, 1, Scheme(1)); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
			if !errors.Is(err, core.ErrInvalidArgument) {
				t.Fatalf("err = %v does not match core.ErrInvalidArgument", err)
			}
		})
	}
}
