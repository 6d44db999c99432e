package diff

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-dynid/dsp/core"
)

// Scheme selects the accuracy order of the interior stencil.
type Scheme int

const (
	// Scheme2 uses the 3-point central difference inside the signal.
	Scheme2 Scheme = 2
	// Scheme4 uses the 5-point central difference inside the signal.
	Scheme4 Scheme = 4

	// DefaultScheme is the scheme used when none is configured.
	DefaultScheme = Scheme4
)

// MinLength is the shortest signal accepted by the stencils.
const MinLength = 5

// ErrInvalidArgument reports an unsupported scheme, order, interval or a
// signal shorter than [MinLength].
var ErrInvalidArgument = fmt.Errorf("diff: %w", core.ErrInvalidArgument)

var errShortSignal = errors.New("signal too short")

// String returns the scheme name.
func (s Scheme) String() string {
	switch s {
	case Scheme2:
		return "scheme2"
	case Scheme4:
		return "scheme4"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// Valid reports whether s is a supported scheme.
func (s Scheme) Valid() bool {
	return s == Scheme2 || s == Scheme4
}

func validate(x []float64, h float64, scheme Scheme) error {
	if !scheme.Valid() {
		return fmt.Errorf("%w: unsupported scheme %d", ErrInvalidArgument, int(scheme))
	}
	if !core.ValidInterval(h) {
		return fmt.Errorf("%w: sample interval must be finite and > 0: %v", ErrInvalidArgument, h)
	}
	if len(x) < MinLength {
		return fmt.Errorf("%w: %w: %d < %d", ErrInvalidArgument, errShortSignal, len(x), MinLength)
	}
	return nil
}

// Differentiate returns the order-th derivative of x sampled at interval h.
// Order 2 is the first derivative of the first derivative. x is not modified.
func Differentiate(x []float64, h float64, order int, scheme Scheme) ([]float64, error) {
	if order != 1 && order != 2 {
		return nil, fmt.Errorf("%w: unsupported order %d", ErrInvalidArgument, order)
	}
	if err := validate(x, h, scheme); err != nil {
		return nil, err
	}

	d := firstDerivative(x, h, scheme)
	if order == 2 {
		d = firstDerivative(d, h, scheme)
	}
	return d, nil
}

func firstDerivative(x []float64, h float64, scheme Scheme) []float64 {
	n := len(x)
	d := make([]float64, n)

	d[0] = (x[1] - x[0]) / h
	d[n-1] = (x[n-1] - x[n-2]) / h

	if scheme == Scheme2 {
		for i := 1; i < n-1; i++ {
			d[i] = (x[i+1] - x[i-1]) / (2 * h)
		}
		return d
	}

	d[1] = (x[2] - x[0]) / (2 * h)
	d[n-2] = (x[n-1] - x[n-3]) / (2 * h)

	div := 12 * h
	for i := 2; i < n-2; i++ {
		d[i] = (-x[i+2] + 8*x[i+1] - 8*x[i-1] + x[i-2]) / div
	}
	return d
}

// SecondDifference returns the second derivative of x using a dedicated
// second-derivative stencil rather than two first-derivative passes.
//
// Scheme4 applies (-x[i+2]+16x[i+1]-30x[i]+16x[i-1]-x[i-2])/12h² inside and
// the three-point stencil centred on index 1 (n-2) for the two samples at each
// edge. Scheme2 applies the three-point stencil everywhere, the outermost
// samples reusing their neighbour's value.
func SecondDifference(x []float64, h float64, scheme Scheme) ([]float64, error) {
	if err := validate(x, h, scheme); err != nil {
		return nil, err
	}

	n := len(x)
	d := make([]float64, n)
	h2 := h * h

	threePoint := func(i int) float64 {
		return (x[i+1] - 2*x[i] + x[i-1]) / h2
	}

	if scheme == Scheme2 {
		for i := 1; i < n-1; i++ {
			d[i] = threePoint(i)
		}
		d[0] = d[1]
		d[n-1] = d[n-2]
		return d, nil
	}

	d[0] = threePoint(1)
	d[1] = d[0]
	d[n-1] = threePoint(n - 2)
	d[n-2] = d[n-1]

	div := 12 * h2
	for i := 2; i < n-2; i++ {
		d[i] = (-x[i+2] + 16*x[i+1] - 30*x[i] + 16*x[i-1] - x[i-2]) / div
	}
	return d, nil
}
