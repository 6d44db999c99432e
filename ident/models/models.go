package models

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/cwbudde/algo-dynid/ident/regressor"
	"gonum.org/v1/gonum/mat"
)

// Gravity is the gravitational acceleration in m/s².
const Gravity = 9.81

// Model is a dynamics model that is linear in its parameters.
type Model struct {
	Name string
	DOF  int
	// Params names the standard parameters in column order.
	Params []string
	// Offsets partitions Params by link.
	Offsets []int
	// BaseColumns lists the identifiable parameter columns.
	BaseColumns []int
	Regressor   regressor.Func
}

// ParamCount returns the number of standard parameters.
func (m Model) ParamCount() int { return len(m.Params) }

// BaseParams returns the names of the base parameters.
func (m Model) BaseParams() []string {
	out := make([]string, len(m.BaseColumns))
	for i, c := range m.BaseColumns {
		out[i] = m.Params[c]
	}
	return out
}

// AllParameters returns the full parameter set of m.
func (m Model) AllParameters() (regressor.ParameterSet, error) {
	return regressor.AllParameters(m.Offsets)
}

// BaseParameters returns the base parameter set of m. Base columns are
// assigned to the link owning them in the full vector.
func (m Model) BaseParameters() (regressor.ParameterSet, error) {
	offsets := make([]int, len(m.Offsets))
	for k, off := range m.Offsets {
		for _, c := range m.BaseColumns {
			if c < off {
				offsets[k]++
			}
		}
	}
	return regressor.BaseParameters(m.BaseColumns, offsets)
}

// Torque returns Y(q, dq, ddq)·phi for one sample.
func (m Model) Torque(phi, q, dq, ddq []float64) []float64 {
	y := m.Regressor(q, dq, ddq)
	var tau mat.VecDense
	tau.MulVec(y, mat.NewVecDense(len(phi), slices.Clone(phi)))
	return tau.RawVector().Data
}

// TorqueMatrix evaluates Torque at every row of q, dq and ddq.
func (m Model) TorqueMatrix(phi []float64, q, dq, ddq *mat.Dense) *mat.Dense {
	n, dof := q.Dims()
	out := mat.NewDense(n, dof, nil)
	for i := range n {
		out.SetRow(i, m.Torque(phi, mat.Row(nil, i, q), mat.Row(nil, i, dq), mat.Row(nil, i, ddq)))
	}
	return out
}

// Pendulum is a single revolute joint with inertia I about the axis, gravity
// moment ML·g·sin(q), viscous friction FV and Coulomb friction FC.
func Pendulum() Model {
	return Model{
		Name:        "pendulum",
		DOF:         1,
		Params:      []string{"I", "ML", "FV", "FC"},
		Offsets:     []int{0, 4},
		BaseColumns: []int{0, 1, 2, 3},
		Regressor: func(q, dq, ddq []float64) *mat.Dense {
			return mat.NewDense(1, 4, []float64{
				ddq[0], Gravity * math.Sin(q[0]), dq[0], sign(dq[0]),
			})
		},
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Planar2R is a two-link arm moving in a vertical plane, joint angles
// measured from the horizontal. l1 is the length of the first link. Each
// link carries ZZ (inertia about its joint axis), MX (first moment along the
// link) and M (mass). M1 has no effect and M2 folds into ZZ1 and MX1, which
// leaves ZZ1 MX1 ZZ2 MX2 as base parameters.
func Planar2R(l1 float64) Model {
	return Model{
		Name:        "planar2r",
		DOF:         2,
		Params:      []string{"ZZ1", "MX1", "M1", "ZZ2", "MX2", "M2"},
		Offsets:     []int{0, 3, 6},
		BaseColumns: []int{0, 1, 3, 4},
		Regressor: func(q, dq, ddq []float64) *mat.Dense {
			c1 := math.Cos(q[0])
			c12 := math.Cos(q[0] + q[1])
			s2, c2 := math.Sin(q[1]), math.Cos(q[1])
			a12 := ddq[0] + ddq[1]

			y := mat.NewDense(2, 6, nil)
			y.Set(0, 0, ddq[0])
			y.Set(0, 1, Gravity*c1)
			y.Set(0, 3, a12)
			y.Set(1, 3, a12)
			y.Set(0, 4, l1*(2*c2*ddq[0]+c2*ddq[1]-2*s2*dq[0]*dq[1]-s2*dq[1]*dq[1])+Gravity*c12)
			y.Set(1, 4, l1*(c2*ddq[0]+s2*dq[0]*dq[0])+Gravity*c12)
			y.Set(0, 5, l1*l1*ddq[0]+l1*Gravity*c1)
			return y
		},
	}
}

// Planar2RBaseValues maps standard Planar2R parameters to their base combination
// ZZ1+l1²·M2, MX1+l1·M2, ZZ2, MX2.
func Planar2RBaseValues(l1 float64, phi []float64) []float64 {
	return []float64{phi[0] + l1*l1*phi[5], phi[1] + l1*phi[5], phi[3], phi[4]}
}

// DefaultLinkLength is the first-link length used by Lookup.
const DefaultLinkLength = 0.5

var registry = map[string]func() Model{
	"pendulum": Pendulum,
	"planar2r": func() Model { return Planar2R(DefaultLinkLength) },
}

// Names lists the models known to Lookup.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named model.
func Lookup(name string) (Model, error) {
	build, ok := registry[name]
	if !ok {
		return Model{}, fmt.Errorf("models: unknown model %q (known: %v)", name, Names())
	}
	return build(), nil
}
