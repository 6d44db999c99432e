package pipeline

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-dynid/ident/baseparam"
	"github.com/cwbudde/algo-dynid/ident/models"
	"github.com/cwbudde/algo-dynid/ident/rbtlog"
	"github.com/cwbudde/algo-dynid/ident/regressor"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const l1 = models.DefaultLinkLength

var phiTrue = []float64{0.2, 0.8, 3, 0.05, 0.3, 1.5}

// planarTrajectory returns an exciting two-joint trajectory with exact
// derivatives.
func planarTrajectory(n int, h float64) (q, dq, ddq *mat.Dense) {
	w := []float64{2 * math.Pi * 0.3, 2 * math.Pi * 0.7, 2 * math.Pi * 0.4, 2 * math.Pi * 0.9}
	q = mat.NewDense(n, 2, nil)
	dq = mat.NewDense(n, 2, nil)
	ddq = mat.NewDense(n, 2, nil)
	for i := range n {
		t := float64(i) * h
		q.SetRow(i, []float64{
			0.8*math.Sin(w[0]*t) + 0.3*math.Sin(w[1]*t),
			0.6*math.Cos(w[2]*t) + 0.2*math.Sin(w[3]*t),
		})
		dq.SetRow(i, []float64{
			0.8*w[0]*math.Cos(w[0]*t) + 0.3*w[1]*math.Cos(w[1]*t),
			-0.6*w[2]*math.Sin(w[2]*t) + 0.2*w[3]*math.Cos(w[3]*t),
		})
		ddq.SetRow(i, []float64{
			-0.8*w[0]*w[0]*math.Sin(w[0]*t) - 0.3*w[1]*w[1]*math.Sin(w[1]*t),
			-0.6*w[2]*w[2]*math.Cos(w[2]*t) - 0.2*w[3]*w[3]*math.Sin(w[3]*t),
		})
	}
	return q, dq, ddq
}

// logText renders a synthetic Planar2R log. stamp is the spacing of the
// time column, which may differ from the sampling interval h.
func logText(n int, h, stamp float64) []byte {
	m := models.Planar2R(l1)
	q, dq, ddq := planarTrajectory(n, h)
	tau := m.TorqueMatrix(phiTrue, q, dq, ddq)

	var buf bytes.Buffer
	buf.WriteString("# t q1 q2 tau1 tau2\n")
	for i := range n {
		fmt.Fprintf(&buf, "%.6f %.17g %.17g %.17g %.17g\n",
			float64(i)*stamp, q.At(i, 0), q.At(i, 1), tau.At(i, 0), tau.At(i, 1))
	}
	return buf.Bytes()
}

func TestIdentifyExactSignals(t *testing.T) {
	const h = 0.01
	m := models.Planar2R(l1)
	q, dq, ddq := planarTrajectory(500, h)
	tau := m.TorqueMatrix(phiTrue, q, dq, ddq)

	w, tv, err := regressor.Assemble(m.DOF, m.ParamCount(), m.Regressor, q, dq, ddq, tau)
	require.NoError(t, err)

	red, err := baseparam.Reduce(w, tv, m.BaseColumns)
	require.NoError(t, err)
	phi, err := red.Solve()
	require.NoError(t, err)

	want := models.Planar2RBaseValues(l1, phiTrue)
	for k, v := range want {
		require.InDelta(t, v, phi.AtVec(k), 1e-6*math.Abs(v), "parameter %s", m.BaseParams()[k])
	}

	// The full standard set is not identifiable.
	red, err = baseparam.Reduce(w, tv, []int{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)
	_, err = red.Solve()
	require.ErrorIs(t, err, baseparam.ErrIllConditioned)
}

func TestRunFileRecoversBaseParameters(t *testing.T) {
	const (
		n = 10000
		h = 0.001
	)
	data, err := rbtlog.Compress(rbtlog.Zstd, logText(n, h, h))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "planar.log.zst")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg := Default()
	cfg.Trim = 200
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	p, err := New(cfg, WithLogger(logger))
	require.NoError(t, err)

	res, err := p.RunFile(path)
	require.NoError(t, err)
	require.Nil(t, res.Mismatch)
	require.Equal(t, []string{"ZZ1", "MX1", "ZZ2", "MX2"}, res.Params)

	want := models.Planar2RBaseValues(l1, phiTrue)
	for k, v := range want {
		require.InDelta(t, v, res.Phi.AtVec(k), 1e-4*math.Abs(v), "parameter %s", res.Params[k])
	}
	require.Less(t, res.RelativeResidual, 1e-3)
	require.Len(t, res.JointResidualRMS, 2)
	require.Len(t, res.Bandwidth, 2)
	for _, b := range res.Bandwidth {
		require.Less(t, b.Q, cfg.Cutoffs.Q)
	}

	rows, _ := res.Reduction.WBase.Dims()
	require.Equal(t, 2*(n-2*cfg.Trim), rows)
	require.Equal(t, n, res.Conditioned.Samples())

	last := hook.LastEntry()
	require.NotNil(t, last)
	require.Equal(t, "identification done", last.Message)
	require.Equal(t, "planar2r", last.Data["model"])
	for _, e := range hook.AllEntries() {
		require.NotEqual(t, logrus.WarnLevel, e.Level, e.Message)
	}
}

func TestRunReportsSampleRateMismatch(t *testing.T) {
	const h = 0.001
	l, err := rbtlog.Read(bytes.NewReader(logText(2000, h, 2*h)), 2)
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	p, err := New(Default(), WithLogger(logger))
	require.NoError(t, err)

	res, err := p.Run(l)
	require.NoError(t, err)
	require.NotNil(t, res.Mismatch)
	require.InDelta(t, 2*h, res.Mismatch.Average, 1e-9)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "sample interval") {
			warned = true
			require.Equal(t, h, e.Data["nominal"])
		}
	}
	require.True(t, warned)
}

func TestRunWithCustomModel(t *testing.T) {
	const (
		n = 3000
		h = 0.001
	)
	m := models.Pendulum()
	phi := []float64{0.4, 1.2, 0.05, 0.1}

	q := mat.NewDense(n, 1, nil)
	dq := mat.NewDense(n, 1, nil)
	ddq := mat.NewDense(n, 1, nil)
	w := 2 * math.Pi * 0.5
	for i := range n {
		t := float64(i) * h
		q.Set(i, 0, math.Sin(w*t))
		dq.Set(i, 0, w*math.Cos(w*t))
		ddq.Set(i, 0, -w*w*math.Sin(w*t))
	}
	l := &rbtlog.Log{
		Time: make([]float64, n),
		Q:    q,
		Tau:  m.TorqueMatrix(phi, q, dq, ddq),
		DOF:  1,
	}
	for i := range l.Time {
		l.Time[i] = float64(i) * h
	}

	cfg := Default()
	cfg.Model = ""
	cfg.Trim = 300
	cfg.Cutoffs.Tau = math.Inf(1)
	logger, _ := test.NewNullLogger()
	p, err := New(cfg, WithModel(m), WithLogger(logger))
	require.NoError(t, err)
	require.Equal(t, "pendulum", p.Model().Name)

	res, err := p.Run(l)
	require.NoError(t, err)
	// Coulomb friction makes τ discontinuous; the filtered regressor smears
	// the step, so only the smooth parameters are held tightly.
	require.InDelta(t, phi[0], res.Phi.AtVec(0), 0.02)
	require.InDelta(t, phi[1], res.Phi.AtVec(1), 0.01)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"interval", func(c *Config) { c.SampleInterval = -1 }},
		{"order", func(c *Config) { c.FilterOrder = 9 }},
		{"scheme", func(c *Config) { c.Scheme = 3 }},
		{"model", func(c *Config) { c.Model = "hexapod" }},
		{"dof", func(c *Config) { c.DOF = 3 }},
		{"base column", func(c *Config) { c.BaseColumns = []int{0, 6} }},
		{"trim", func(c *Config) { c.Trim = -1 }},
		{"cutoff", func(c *Config) { c.Cutoffs.Q = 900 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			_, err := New(cfg)
			require.Error(t, err)
		})
	}
}

func TestRunErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := Default()
	cfg.Trim = 1000
	p, err := New(cfg, WithLogger(logger))
	require.NoError(t, err)

	l, err := rbtlog.Read(bytes.NewReader(logText(500, 0.001, 0.001)), 2)
	require.NoError(t, err)
	_, err = p.Run(l)
	require.ErrorContains(t, err, "trim")

	l.DOF = 1
	_, err = p.Run(l)
	require.ErrorContains(t, err, "joints")
}
