package regressor

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-dynid/dsp/core"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidArgument reports inconsistent input shapes or parameter sets.
var ErrInvalidArgument = fmt.Errorf("regressor: %w", core.ErrInvalidArgument)

// ErrShape reports a regressor function that returned a matrix of the wrong
// dimensions.
var ErrShape = errors.New("regressor: unexpected regressor shape")

// Func evaluates the regressor of a dynamics model at one sample. It returns
// a dof × paramCount matrix and must not retain or modify its arguments.
type Func func(q, dq, ddq []float64) *mat.Dense

// Assemble evaluates fn at every sample and stacks the results into
// W (dof·samples × paramCount) and T (dof·samples). q, dq, ddq and tau are
// samples × dof.
func Assemble(dof, paramCount int, fn Func, q, dq, ddq, tau *mat.Dense) (*mat.Dense, *mat.VecDense, error) {
	if paramCount <= 0 {
		return nil, nil, fmt.Errorf("%w: parameter count must be > 0: %d", ErrInvalidArgument, paramCount)
	}
	n, err := checkSamples(dof, fn, q, dq, ddq, tau)
	if err != nil {
		return nil, nil, err
	}

	w := mat.NewDense(dof*n, paramCount, nil)
	t := mat.NewVecDense(dof*n, nil)
	for i := range n {
		y, err := evaluate(fn, i, q, dq, ddq)
		if err != nil {
			return nil, nil, err
		}
		if r, c := y.Dims(); r != dof || c != paramCount {
			return nil, nil, fmt.Errorf("%w: sample %d: got %dx%d, want %dx%d", ErrShape, i, r, c, dof, paramCount)
		}

		w.Slice(i*dof, (i+1)*dof, 0, paramCount).(*mat.Dense).Copy(y)
		for j := range dof {
			t.SetVec(i*dof+j, tau.At(i, j))
		}
	}
	return w, t, nil
}

func checkSamples(dof int, fn Func, q, dq, ddq, tau *mat.Dense) (int, error) {
	if dof <= 0 {
		return 0, fmt.Errorf("%w: dof must be > 0: %d", ErrInvalidArgument, dof)
	}
	if fn == nil {
		return 0, fmt.Errorf("%w: nil regressor function", ErrInvalidArgument)
	}
	if q == nil || dq == nil || ddq == nil || tau == nil {
		return 0, fmt.Errorf("%w: nil signal matrix", ErrInvalidArgument)
	}

	n, c := q.Dims()
	if c != dof {
		return 0, fmt.Errorf("%w: position has %d columns, want %d", ErrInvalidArgument, c, dof)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: no samples", ErrInvalidArgument)
	}
	for _, m := range []struct {
		name string
		m    *mat.Dense
	}{{"velocity", dq}, {"acceleration", ddq}, {"torque", tau}} {
		if r, c := m.m.Dims(); r != n || c != dof {
			return 0, fmt.Errorf("%w: %s is %dx%d, want %dx%d", ErrInvalidArgument, m.name, r, c, n, dof)
		}
	}
	return n, nil
}

func evaluate(fn Func, i int, q, dq, ddq *mat.Dense) (*mat.Dense, error) {
	y := fn(mat.Row(nil, i, q), mat.Row(nil, i, dq), mat.Row(nil, i, ddq))
	if y == nil {
		return nil, fmt.Errorf("%w: sample %d: nil regressor", ErrShape, i)
	}
	return y, nil
}

// Stack concatenates blocks vertically into a new matrix. All blocks must
// have the same number of columns.
func Stack(blocks []*mat.Dense) (*mat.Dense, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: no blocks", ErrInvalidArgument)
	}

	_, cols := blocks[0].Dims()
	rows := 0
	for i, b := range blocks {
		r, c := b.Dims()
		if c != cols {
			return nil, fmt.Errorf("%w: block %d has %d columns, want %d", ErrInvalidArgument, i, c, cols)
		}
		rows += r
	}

	out := mat.NewDense(rows, cols, nil)
	at := 0
	for _, b := range blocks {
		r, _ := b.Dims()
		out.Slice(at, at+r, 0, cols).(*mat.Dense).Copy(b)
		at += r
	}
	return out, nil
}

// Flatten returns the elements of m in row-major order as a new vector.
func Flatten(m *mat.Dense) *mat.VecDense {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := range r {
		data = append(data, m.RawRowView(i)...)
	}
	return mat.NewVecDense(len(data), data)
}
