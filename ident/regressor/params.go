package regressor

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Kind tags the parameterization described by a ParameterSet.
type Kind int

const (
	// All is the full standard parameter vector.
	All Kind = iota + 1
	// Effective is the standard vector multiplied by a projection matrix.
	Effective
	// Base is the identifiable subset of standard parameters.
	Base
)

func (k Kind) String() string {
	switch k {
	case All:
		return "all"
	case Effective:
		return "effective"
	case Base:
		return "base"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps "all", "effective" or "base" to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{All, Effective, Base} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown parameter set %q", ErrInvalidArgument, s)
}

// ParameterSet selects and orders the columns of the regressor. Offsets
// partition those columns by link: link k owns columns
// offsets[k]..offsets[k+1]-1. Build values with AllParameters,
// EffectiveParameters or BaseParameters; the zero value is unusable.
type ParameterSet struct {
	kind       Kind
	offsets    []int
	projection *mat.Dense
	columns    []int
}

// AllParameters describes the full parameter vector partitioned by offsets.
func AllParameters(offsets []int) (ParameterSet, error) {
	if err := checkOffsets(offsets); err != nil {
		return ParameterSet{}, err
	}
	return ParameterSet{kind: All, offsets: slices.Clone(offsets)}, nil
}

// EffectiveParameters describes the columns of Y·projection partitioned by
// offsets. projection is copied.
func EffectiveParameters(offsets []int, projection mat.Matrix) (ParameterSet, error) {
	if err := checkOffsets(offsets); err != nil {
		return ParameterSet{}, err
	}
	if projection == nil {
		return ParameterSet{}, fmt.Errorf("%w: nil projection", ErrInvalidArgument)
	}
	if _, c := projection.Dims(); offsets[len(offsets)-1] > c {
		return ParameterSet{}, fmt.Errorf("%w: offsets reach column %d of a %d-column projection", ErrInvalidArgument, offsets[len(offsets)-1], c)
	}
	return ParameterSet{kind: Effective, offsets: slices.Clone(offsets), projection: mat.DenseCopyOf(projection)}, nil
}

// BaseParameters describes the regressor restricted to columns, in the given
// order. offsets index into the restricted set.
func BaseParameters(columns, offsets []int) (ParameterSet, error) {
	if err := checkColumns(columns); err != nil {
		return ParameterSet{}, err
	}
	if err := checkOffsets(offsets); err != nil {
		return ParameterSet{}, err
	}
	if last := offsets[len(offsets)-1]; last > len(columns) {
		return ParameterSet{}, fmt.Errorf("%w: offsets reach column %d of %d base columns", ErrInvalidArgument, last, len(columns))
	}
	return ParameterSet{kind: Base, offsets: slices.Clone(offsets), columns: slices.Clone(columns)}, nil
}

func checkOffsets(offsets []int) error {
	if len(offsets) < 2 {
		return fmt.Errorf("%w: need at least two offsets, got %d", ErrInvalidArgument, len(offsets))
	}
	if offsets[0] < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidArgument, offsets[0])
	}
	for k := 1; k < len(offsets); k++ {
		if offsets[k] < offsets[k-1] {
			return fmt.Errorf("%w: offsets decrease at link %d", ErrInvalidArgument, k-1)
		}
	}
	return nil
}

func checkColumns(columns []int) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: empty column set", ErrInvalidArgument)
	}
	seen := make(map[int]struct{}, len(columns))
	for _, c := range columns {
		if c < 0 {
			return fmt.Errorf("%w: negative column %d", ErrInvalidArgument, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: duplicate column %d", ErrInvalidArgument, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// Kind returns the parameterization tag.
func (s ParameterSet) Kind() Kind { return s.kind }

// Links returns the number of links the offsets partition.
func (s ParameterSet) Links() int { return max(len(s.offsets)-1, 0) }

// Offsets returns a copy of the per-link column offsets.
func (s ParameterSet) Offsets() []int { return slices.Clone(s.offsets) }

// Columns returns a copy of the base column indexes, nil unless Kind is Base.
func (s ParameterSet) Columns() []int { return slices.Clone(s.columns) }

// ColumnRange returns the half-open column interval owned by links r.
func (s ParameterSet) ColumnRange(r LinkRange) (from, to int, err error) {
	if err := r.check(s.Links()); err != nil {
		return 0, 0, err
	}
	return s.offsets[r.First], s.offsets[r.Last+1], nil
}

// project maps a raw regressor into the set's column space.
func (s ParameterSet) project(y *mat.Dense) (*mat.Dense, error) {
	rows, cols := y.Dims()
	switch s.kind {
	case All:
		if need := s.offsets[len(s.offsets)-1]; cols < need {
			return nil, fmt.Errorf("%w: regressor has %d columns, set needs %d", ErrShape, cols, need)
		}
		return y, nil
	case Effective:
		if pr, _ := s.projection.Dims(); pr != cols {
			return nil, fmt.Errorf("%w: regressor has %d columns, projection has %d rows", ErrShape, cols, pr)
		}
		var out mat.Dense
		out.Mul(y, s.projection)
		if need := s.offsets[len(s.offsets)-1]; out.RawMatrix().Cols < need {
			return nil, fmt.Errorf("%w: projected regressor has %d columns, set needs %d", ErrShape, out.RawMatrix().Cols, need)
		}
		return &out, nil
	case Base:
		out := mat.NewDense(rows, len(s.columns), nil)
		for k, c := range s.columns {
			if c >= cols {
				return nil, fmt.Errorf("%w: base column %d outside %d-column regressor", ErrShape, c, cols)
			}
			for i := range rows {
				out.Set(i, k, y.At(i, c))
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: uninitialized parameter set", ErrInvalidArgument)
	}
}

// LinkRange selects links First..Last, zero-based and inclusive.
type LinkRange struct {
	First int
	Last  int
}

// FullRange selects all dof links.
func FullRange(dof int) LinkRange {
	return LinkRange{First: 0, Last: dof - 1}
}

// Len returns the number of links in r.
func (r LinkRange) Len() int { return r.Last - r.First + 1 }

func (r LinkRange) check(links int) error {
	if r.First < 0 || r.Last < r.First || r.Last >= links {
		return fmt.Errorf("%w: link range [%d,%d] outside [0,%d]", ErrInvalidArgument, r.First, r.Last, links-1)
	}
	return nil
}

// AssembleRange builds W and T restricted to the torque rows of links taus
// and the parameter columns of links parms in set. With FullRange for both
// and an All set it matches Assemble.
func AssembleRange(set ParameterSet, fn Func, taus, parms LinkRange, q, dq, ddq, tau *mat.Dense) (*mat.Dense, *mat.VecDense, error) {
	if q == nil {
		return nil, nil, fmt.Errorf("%w: nil signal matrix", ErrInvalidArgument)
	}
	_, dof := q.Dims()
	n, err := checkSamples(dof, fn, q, dq, ddq, tau)
	if err != nil {
		return nil, nil, err
	}
	if err := taus.check(dof); err != nil {
		return nil, nil, fmt.Errorf("torque rows: %w", err)
	}
	pi, pf, err := set.ColumnRange(parms)
	if err != nil {
		return nil, nil, fmt.Errorf("parameter columns: %w", err)
	}

	tn, pn := taus.Len(), pf-pi
	if pn == 0 {
		return nil, nil, fmt.Errorf("%w: link range [%d,%d] owns no parameters", ErrInvalidArgument, parms.First, parms.Last)
	}

	w := mat.NewDense(tn*n, pn, nil)
	t := mat.NewVecDense(tn*n, nil)
	for i := range n {
		y, err := evaluate(fn, i, q, dq, ddq)
		if err != nil {
			return nil, nil, err
		}
		if r, _ := y.Dims(); r != dof {
			return nil, nil, fmt.Errorf("%w: sample %d: regressor has %d rows, want %d", ErrShape, i, r, dof)
		}
		p, err := set.project(y)
		if err != nil {
			return nil, nil, fmt.Errorf("sample %d: %w", i, err)
		}

		block := w.Slice(i*tn, (i+1)*tn, 0, pn).(*mat.Dense)
		block.Copy(p.Slice(taus.First, taus.Last+1, pi, pf))
		for j := range tn {
			t.SetVec(i*tn+j, tau.At(i, taus.First+j))
		}
	}
	return w, t, nil
}
