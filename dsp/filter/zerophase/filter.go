package zerophase

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dynid/dsp/core"
	"github.com/cwbudde/algo-dynid/dsp/filter/design"
	"github.com/cwbudde/algo-dynid/dsp/filter/iir"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidArgument reports malformed coefficients or a signal shorter than
// the edge padding.
var ErrInvalidArgument = fmt.Errorf("zerophase: %w", core.ErrInvalidArgument)

// PadFactor is the number of filter lengths reflected at each signal edge.
const PadFactor = 3

// Filter is a zero-phase filter with a precomputed initial state. It holds no
// per-signal state, so one Filter may be applied concurrently. The zero value
// has no coefficients and rejects every signal; use New or Passthrough.
type Filter struct {
	tf    iir.TransferFunction // padded and normalized
	zi    []float64
	edge  int
	ident bool
}

// New prepares tf for zero-phase filtering: both coefficient sequences are
// zero-padded to the same length and the steady-state initial condition is
// solved once.
func New(tf iir.TransferFunction) (*Filter, error) {
	p, err := tf.Padded()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	zi, err := iir.SteadyStateZI(p)
	if err != nil {
		return nil, err
	}

	return &Filter{
		tf:   p,
		zi:   zi,
		edge: PadFactor * p.NTaps(),
	}, nil
}

// Passthrough returns a Filter whose Apply returns a copy of its input.
func Passthrough() *Filter {
	return &Filter{ident: true}
}

// IsPassthrough reports whether f leaves signals unchanged.
func (f *Filter) IsPassthrough() bool { return f.ident }

// Edge returns the required minimum signal length, PadFactor·ntaps.
func (f *Filter) Edge() int { return f.edge }

// InitialState returns a copy of the steady-state initial condition zi.
func (f *Filter) InitialState() []float64 { return core.Clone(f.zi) }

// TransferFunction returns a copy of the padded, normalized coefficients.
func (f *Filter) TransferFunction() iir.TransferFunction {
	return iir.TransferFunction{B: core.Clone(f.tf.B), A: core.Clone(f.tf.A)}
}

// Apply filters x forward and backward and returns a new slice of the same
// length. x is not modified. Signals shorter than Edge() are rejected.
func (f *Filter) Apply(x []float64) ([]float64, error) {
	if f.ident {
		return core.Clone(x), nil
	}
	if f.edge == 0 {
		return nil, fmt.Errorf("%w: filter has no coefficients", ErrInvalidArgument)
	}
	if len(x) < f.edge {
		return nil, fmt.Errorf("%w: signal length %d < %d (3·max(len(a),len(b)))", ErrInvalidArgument, len(x), f.edge)
	}

	ext := extend(x, f.edge)
	state := make([]float64, len(f.zi))
	y := make([]float64, len(ext))

	vecmath.ScaleBlock(state, f.zi, ext[0])
	iir.Process(f.tf, ext, y, state)

	core.ReverseInPlace(y)
	vecmath.ScaleBlock(state, f.zi, y[0])
	iir.Process(f.tf, y, ext, state)
	core.ReverseInPlace(ext)

	trim := f.edge - 1
	return core.Clone(ext[trim : len(ext)-trim]), nil
}

// ApplyColumns filters every column of m independently and returns a new
// matrix of the same shape.
func (f *Filter) ApplyColumns(m *mat.Dense) (*mat.Dense, error) {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)
	for j := range cols {
		mat.Col(col, j, m)
		y, err := f.Apply(col)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", j, err)
		}
		out.SetCol(j, y)
	}
	return out, nil
}

// extend reflects edge-1 samples through each boundary value:
//
//	[2x₀ − x[edge-1..1], x, 2x_last − x[last-1..last-edge+1]]
func extend(x []float64, edge int) []float64 {
	n := len(x)
	pad := edge - 1
	ext := make([]float64, n+2*pad)

	first, last := x[0], x[n-1]
	for k := 1; k <= pad; k++ {
		ext[pad-k] = 2*first - x[k]
		ext[pad+n-1+k] = 2*last - x[n-1-k]
	}
	copy(ext[pad:], x)
	return ext
}

// FiltFilt applies the filter (b, a) to x with zero phase.
func FiltFilt(b, a, x []float64) ([]float64, error) {
	f, err := New(iir.TransferFunction{B: b, A: a})
	if err != nil {
		return nil, err
	}
	return f.Apply(x)
}

// Butter returns a zero-phase Butterworth lowpass Filter. A cutoff of +Inf
// yields a passthrough filter, which disables filtering for a channel.
func Butter(order int, wn float64) (*Filter, error) {
	if math.IsInf(wn, 1) {
		return Passthrough(), nil
	}

	tf, err := design.Butterworth(order, wn)
	if err != nil {
		return nil, err
	}
	return New(tf)
}

// ButterFiltFilt designs a Butterworth lowpass of the given order at wn
// (rad/sample) and applies it to x with zero phase. wn = +Inf returns a copy
// of x.
func ButterFiltFilt(order int, wn float64, x []float64) ([]float64, error) {
	f, err := Butter(order, wn)
	if err != nil {
		return nil, err
	}
	return f.Apply(x)
}
