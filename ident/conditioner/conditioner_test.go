package conditioner

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-dynid/dsp/core"
	"github.com/cwbudde/algo-dynid/internal/testutil"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const h = 0.001

func uniform(fc float64) Config {
	return Config{Cutoffs: Cutoffs{Q: fc, DQ: fc, DDQ: fc, Tau: fc}}
}

func sineLog(n, dof int) (q, tau *mat.Dense) {
	q = mat.NewDense(n, dof, nil)
	tau = mat.NewDense(n, dof, nil)
	for j := range dof {
		f := 0.5 * float64(j+1)
		q.SetCol(j, testutil.Sine(f, h, 1, 0, n))
		tau.SetCol(j, testutil.Sine(f, h, 2, math.Pi/2, n))
	}
	return q, tau
}

func TestConditionSineEndToEnd(t *testing.T) {
	const n = 5000
	q, tau := sineLog(n, 1)

	res, err := Condition(uniform(10), h, q, tau)
	require.NoError(t, err)
	require.Equal(t, n, res.Samples())
	require.Equal(t, 1, res.DOF())

	qf := mat.Col(nil, 0, res.Q)
	peak := qf[testutil.ArgMax(qf, 500, 1500)]
	require.InDelta(t, 1, peak, 0.01, "position amplitude attenuated")

	dqWant := make([]float64, n)
	ddqWant := make([]float64, n)
	for i := range n {
		ti := float64(i) * h
		dqWant[i] = math.Pi * math.Cos(math.Pi*ti)
		ddqWant[i] = -math.Pi * math.Pi * math.Sin(math.Pi*ti)
	}

	dq := mat.Col(nil, 0, res.DQ)
	require.Less(t, testutil.RMSError(dq, dqWant), 1e-3)

	ddq := mat.Col(nil, 0, res.DDQ)
	d, err := testutil.MaxAbsDiff(ddq[200:n-200], ddqWant[200:n-200])
	require.NoError(t, err)
	require.Less(t, d, 1e-3)

	tf := mat.Col(nil, 0, res.Tau)
	require.InDelta(t, 2, tf[testutil.ArgMax(tf, 1500, 2500)], 0.02)
}

func TestConditionIndependentOfWorkers(t *testing.T) {
	q, tau := sineLog(800, 4)
	cfg := uniform(25)

	cfg.Workers = 1
	serial, err := Condition(cfg, h, q, tau)
	require.NoError(t, err)

	cfg.Workers = 4
	parallel, err := Condition(cfg, h, q, tau)
	require.NoError(t, err)

	require.True(t, mat.Equal(serial.Q, parallel.Q))
	require.True(t, mat.Equal(serial.DQ, parallel.DQ))
	require.True(t, mat.Equal(serial.DDQ, parallel.DDQ))
	require.True(t, mat.Equal(serial.Tau, parallel.Tau))
}

func TestConditionJointsAreIndependent(t *testing.T) {
	q, tau := sineLog(600, 3)

	all, err := Condition(uniform(20), h, q, tau)
	require.NoError(t, err)

	single, err := Condition(uniform(20), h, mat.DenseCopyOf(q.Slice(0, 600, 1, 2)), mat.DenseCopyOf(tau.Slice(0, 600, 1, 2)))
	require.NoError(t, err)

	testutil.RequireSliceNearlyEqual(t, mat.Col(nil, 1, all.DQ), mat.Col(nil, 0, single.DQ), 0)
}

func TestConditionInfiniteCutoffReturnsRawDifferences(t *testing.T) {
	const n = 50
	q := mat.NewDense(n, 1, testutil.Ramp(0.002, 1, n))
	tau := mat.NewDense(n, 1, testutil.DeterministicNoise(1, 1, n))

	inf := math.Inf(1)
	res, err := Condition(uniform(inf), h, q, tau)
	require.NoError(t, err)

	testutil.RequireSliceNearlyEqual(t, mat.Col(nil, 0, res.Q), mat.Col(nil, 0, q), 0)
	testutil.RequireSliceNearlyEqual(t, mat.Col(nil, 0, res.Tau), mat.Col(nil, 0, tau), 0)
	testutil.RequireSliceNearlyEqual(t, mat.Col(nil, 0, res.DQ), testutil.DC(2, n), 1e-9)
	testutil.RequireSliceNearlyEqual(t, mat.Col(nil, 0, res.DDQ), make([]float64, n), 1e-6)
}

func TestConditionDifferentiateFiltered(t *testing.T) {
	const n = 1000
	q, tau := sineLog(n, 1)
	noise := testutil.DeterministicNoise(9, 1e-3, n)
	for i, v := range noise {
		q.Set(i, 0, q.At(i, 0)+v)
	}

	cfg := Config{Cutoffs: Cutoffs{Q: 5, DQ: math.Inf(1), DDQ: math.Inf(1), Tau: 5}}
	raw, err := Condition(cfg, h, q, tau)
	require.NoError(t, err)

	cfg.DifferentiateFiltered = true
	filtered, err := Condition(cfg, h, q, tau)
	require.NoError(t, err)

	require.True(t, mat.Equal(raw.Q, filtered.Q))
	require.False(t, mat.Equal(raw.DQ, filtered.DQ))

	// Differentiating the smoothed position suppresses the amplified noise.
	rawDQ := mat.Col(nil, 0, raw.DQ)
	smoothDQ := mat.Col(nil, 0, filtered.DQ)
	require.Greater(t, roughness(rawDQ), 10*roughness(smoothDQ))
}

func roughness(x []float64) float64 {
	var s float64
	for i := 1; i < len(x); i++ {
		d := x[i] - x[i-1]
		s += d * d
	}
	return s
}

func TestConditionDoesNotModifyInputs(t *testing.T) {
	q, tau := sineLog(300, 2)
	qc, tauc := mat.DenseCopyOf(q), mat.DenseCopyOf(tau)

	_, err := Condition(uniform(30), h, q, tau)
	require.NoError(t, err)
	require.True(t, mat.Equal(q, qc))
	require.True(t, mat.Equal(tau, tauc))
}

func TestConditionErrors(t *testing.T) {
	q, tau := sineLog(300, 2)
	q1, _ := sineLog(300, 1)
	short, shortTau := sineLog(8, 2)

	cases := []struct {
		name string
		cfg  Config
		h    float64
		q    *mat.Dense
		tau  *mat.Dense
	}{
		{"mismatched dof", uniform(10), h, q1, tau},
		{"short log", uniform(10), h, short, shortTau},
		{"zero cutoff", Config{Cutoffs: Cutoffs{Q: 10, DQ: 10, DDQ: 10}}, h, q, tau},
		{"cutoff above nyquist", uniform(600), h, q, tau},
		{"bad scheme", Config{Cutoffs: uniform(10).Cutoffs, Scheme: 3}, h, q, tau},
		{"bad interval", uniform(10), 0, q, tau},
		{"nil torque", uniform(10), h, q, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Condition(tc.cfg, tc.h, tc.q, tc.tau)
			require.Error(t, err)
			require.True(t, errors.Is(err, core.ErrInvalidArgument), "err=%v", err)
		})
	}
}

func TestNewWithOptions(t *testing.T) {
	c, err := New(uniform(10), core.WithSampleInterval(0.002), core.WithWorkers(2))
	require.NoError(t, err)
	require.Equal(t, 0.002, c.SampleInterval())
	require.Equal(t, 12, c.MinSamples())
}

func TestNewRejectsInvalidSampleInterval(t *testing.T) {
	for _, h := range []float64{0, -0.002, math.NaN(), math.Inf(1)} {
		c, err := New(uniform(10), core.WithSampleInterval(h))
		require.ErrorIs(t, err, ErrInvalidArgument, "h=%v", h)
		require.Nil(t, c)
	}
}
