package baseparam

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dynid/dsp/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/lapack"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

// MinRCond is the smallest accepted reciprocal condition number of R.
const MinRCond = 1e-12

var (
	// ErrInvalidArgument reports a column set that does not fit W or a
	// target of the wrong length.
	ErrInvalidArgument = fmt.Errorf("baseparam: %w", core.ErrInvalidArgument)
	// ErrIllConditioned reports that R is singular or too badly conditioned
	// to produce a trustworthy estimate.
	ErrIllConditioned = fmt.Errorf("baseparam: ill-conditioned: %w", core.ErrSingularSystem)
)

// Reduction is the base-parameter system W_base = Q·R with ρ = Qᵀ·T.
type Reduction struct {
	// Columns are the indexes of the full regressor kept in WBase.
	Columns []int
	// WBase is m × n, the selected columns of W.
	WBase *mat.Dense
	// Q is m × n with orthonormal columns.
	Q *mat.Dense
	// R is n × n upper triangular.
	R *mat.TriDense
	// Rho is Qᵀ·T, length n.
	Rho *mat.VecDense
	// T is the torque vector the reduction was built from.
	T *mat.VecDense
}

// Reduce selects columns of wFull and factors them. wFull and t are not
// modified and no returned matrix shares memory with them.
func Reduce(wFull *mat.Dense, t *mat.VecDense, columns []int) (*Reduction, error) {
	if wFull == nil || t == nil {
		return nil, fmt.Errorf("%w: nil input", ErrInvalidArgument)
	}
	m, p := wFull.Dims()
	if t.Len() != m {
		return nil, fmt.Errorf("%w: target length %d, want %d", ErrInvalidArgument, t.Len(), m)
	}
	if err := checkColumns(columns, m, p); err != nil {
		return nil, err
	}

	n := len(columns)
	wb := mat.NewDense(m, n, nil)
	col := make([]float64, m)
	for k, c := range columns {
		mat.Col(col, c, wFull)
		wb.SetCol(k, col)
	}

	q, r := thinQR(wb)

	rho := mat.NewVecDense(n, nil)
	rho.MulVec(q.T(), t)

	return &Reduction{
		Columns: append([]int(nil), columns...),
		WBase:   wb,
		Q:       q,
		R:       r,
		Rho:     rho,
		T:       mat.VecDenseCopyOf(t),
	}, nil
}

func checkColumns(columns []int, rows, cols int) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: empty column set", ErrInvalidArgument)
	}
	if len(columns) > rows {
		return fmt.Errorf("%w: %d columns exceed %d rows", ErrInvalidArgument, len(columns), rows)
	}
	seen := make(map[int]bool, len(columns))
	for _, c := range columns {
		if c < 0 || c >= cols {
			return fmt.Errorf("%w: column %d outside [0,%d)", ErrInvalidArgument, c, cols)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate column %d", ErrInvalidArgument, c)
		}
		seen[c] = true
	}
	return nil
}

// thinQR factors a (m × n, m ≥ n) into Q (m × n) and upper triangular R.
func thinQR(a *mat.Dense) (*mat.Dense, *mat.TriDense) {
	_, n := a.Dims()
	q := mat.DenseCopyOf(a)
	raw := q.RawMatrix()
	tau := make([]float64, n)

	work := []float64{0}
	lapack64.Geqrf(raw, tau, work, -1)
	work = make([]float64, max(int(work[0]), n))
	lapack64.Geqrf(raw, tau, work, len(work))

	r := mat.NewTriDense(n, mat.Upper, nil)
	for i := range n {
		for j := i; j < n; j++ {
			r.SetTri(i, j, q.At(i, j))
		}
	}

	lapack64.Orgqr(raw, tau, work, -1)
	if need := int(work[0]); need > len(work) {
		work = make([]float64, need)
	}
	lapack64.Orgqr(raw, tau, work, len(work))
	return q, r
}

// RCond estimates the reciprocal 1-norm condition number of R.
func (r *Reduction) RCond() float64 {
	n, _ := r.R.Dims()
	return lapack64.Trcon(lapack.MaxColumnSum, r.R.RawTriangular(), make([]float64, 3*n), make([]int, n))
}

// Cond returns the estimated 1-norm condition number of R, +Inf when R is
// singular.
func (r *Reduction) Cond() float64 {
	rc := r.RCond()
	if rc == 0 {
		return math.Inf(1)
	}
	return 1 / rc
}

// Solve returns the least-squares base-parameter estimate φ with R·φ = ρ.
// A zero on the diagonal of R or a reciprocal condition below MinRCond is
// reported as ErrIllConditioned instead of a degraded estimate.
func (r *Reduction) Solve() (*mat.VecDense, error) {
	n, _ := r.R.Dims()
	for i := range n {
		if r.R.At(i, i) == 0 {
			return nil, fmt.Errorf("%w: zero pivot at column %d", ErrIllConditioned, r.Columns[i])
		}
	}
	if rc := r.RCond(); rc < MinRCond || math.IsNaN(rc) {
		return nil, fmt.Errorf("%w: reciprocal condition %.3g < %g", ErrIllConditioned, rc, MinRCond)
	}

	phi := mat.NewVecDense(n, nil)
	if err := phi.SolveVec(r.R, r.Rho); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIllConditioned, err)
	}
	return phi, nil
}

// Residual returns ‖W_base·φ − T‖₂.
func (r *Reduction) Residual(phi *mat.VecDense) float64 {
	var fit mat.VecDense
	fit.MulVec(r.WBase, phi)
	return floats.Distance(fit.RawVector().Data, r.T.RawVector().Data, 2)
}

// RelativeResidual returns Residual(φ)/‖T‖₂, or the absolute residual when
// T is zero.
func (r *Reduction) RelativeResidual(phi *mat.VecDense) float64 {
	res := r.Residual(phi)
	if norm := floats.Norm(r.T.RawVector().Data, 2); norm > 0 {
		return res / norm
	}
	return res
}
