package conditioner

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dynid/dsp/core"
	"github.com/cwbudde/algo-dynid/dsp/diff"
	"github.com/cwbudde/algo-dynid/dsp/filter/design"
	"github.com/cwbudde/algo-dynid/dsp/filter/zerophase"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// DefaultOrder is the Butterworth order used when Config.Order is zero.
const DefaultOrder = 3

// ErrInvalidArgument reports a bad configuration or mismatched inputs.
var ErrInvalidArgument = fmt.Errorf("conditioner: %w", core.ErrInvalidArgument)

// Cutoffs holds the low-pass cutoff frequency of each channel kind in Hz.
type Cutoffs struct {
	Q   float64 `yaml:"q"`
	DQ  float64 `yaml:"dq"`
	DDQ float64 `yaml:"ddq"`
	Tau float64 `yaml:"tau"`
}

// Config controls the conditioning stage.
type Config struct {
	Cutoffs Cutoffs
	// Order of every Butterworth filter. Zero selects DefaultOrder.
	Order int
	// Scheme of the finite-difference stencil. Zero selects diff.DefaultScheme.
	Scheme diff.Scheme
	// Workers bounds the number of joints processed at once. Zero selects
	// runtime.GOMAXPROCS.
	Workers int
	// DifferentiateFiltered differentiates the filtered position instead of
	// the raw one.
	DifferentiateFiltered bool
}

func (c Config) withDefaults() Config {
	if c.Order == 0 {
		c.Order = DefaultOrder
	}
	if c.Scheme == 0 {
		c.Scheme = diff.DefaultScheme
	}
	return c
}

// Result holds the conditioned signals, one column per joint.
type Result struct {
	Q   *mat.Dense
	DQ  *mat.Dense
	DDQ *mat.Dense
	Tau *mat.Dense
}

// Samples returns the number of rows of every matrix in r.
func (r *Result) Samples() int {
	n, _ := r.Q.Dims()
	return n
}

// DOF returns the number of joints.
func (r *Result) DOF() int {
	_, dof := r.Q.Dims()
	return dof
}

// Conditioner holds the filters designed for one configuration and sampling
// interval. It is safe for concurrent use.
type Conditioner struct {
	cfg     Config
	proc    core.ProcessorConfig
	q       *zerophase.Filter
	dq      *zerophase.Filter
	ddq     *zerophase.Filter
	tau     *zerophase.Filter
	minimum int
}

// New designs the four channel filters. Config.Workers seeds the worker
// bound; options are applied on top of it.
func New(cfg Config, opts ...core.ProcessorOption) (*Conditioner, error) {
	cfg = cfg.withDefaults()
	if !cfg.Scheme.Valid() {
		return nil, fmt.Errorf("%w: unsupported scheme %d", ErrInvalidArgument, int(cfg.Scheme))
	}

	proc := core.ApplyProcessorOptions(append([]core.ProcessorOption{core.WithWorkers(cfg.Workers)}, opts...)...)
	if !core.ValidInterval(proc.SampleInterval) {
		return nil, fmt.Errorf("%w: sample interval must be finite and > 0: %v", ErrInvalidArgument, proc.SampleInterval)
	}
	c := &Conditioner{cfg: cfg, proc: proc, minimum: diff.MinLength}

	channels := []struct {
		name string
		fc   float64
		dst  **zerophase.Filter
	}{
		{"q", cfg.Cutoffs.Q, &c.q},
		{"dq", cfg.Cutoffs.DQ, &c.dq},
		{"ddq", cfg.Cutoffs.DDQ, &c.ddq},
		{"tau", cfg.Cutoffs.Tau, &c.tau},
	}
	for _, ch := range channels {
		f, err := channelFilter(cfg.Order, ch.fc, proc.SampleInterval)
		if err != nil {
			return nil, fmt.Errorf("conditioner: %s filter: %w", ch.name, err)
		}
		*ch.dst = f
		c.minimum = max(c.minimum, f.Edge())
	}
	return c, nil
}

func channelFilter(order int, fc, h float64) (*zerophase.Filter, error) {
	if math.IsNaN(fc) || fc <= 0 {
		return nil, fmt.Errorf("%w: cutoff must be > 0 Hz: %v", ErrInvalidArgument, fc)
	}
	return zerophase.Butter(order, design.NormalizedCutoff(fc, h))
}

// SampleInterval returns the sampling interval the filters were designed for.
func (c *Conditioner) SampleInterval() float64 { return c.proc.SampleInterval }

// MinSamples returns the shortest log the conditioner accepts.
func (c *Conditioner) MinSamples() int { return c.minimum }

// Run conditions every joint. qRaw and tauRaw are samples × dof and must
// have the same shape. Joints are processed concurrently; the result does
// not depend on the number of workers.
func (c *Conditioner) Run(qRaw, tauRaw *mat.Dense) (*Result, error) {
	if qRaw == nil || tauRaw == nil {
		return nil, fmt.Errorf("%w: nil input", ErrInvalidArgument)
	}
	n, dof := qRaw.Dims()
	tn, tdof := tauRaw.Dims()
	if n != tn || dof != tdof {
		return nil, fmt.Errorf("%w: position is %dx%d, torque is %dx%d", ErrInvalidArgument, n, dof, tn, tdof)
	}
	if n < c.minimum {
		return nil, fmt.Errorf("%w: %d samples < %d", ErrInvalidArgument, n, c.minimum)
	}

	res := &Result{
		Q:   mat.NewDense(n, dof, nil),
		DQ:  mat.NewDense(n, dof, nil),
		DDQ: mat.NewDense(n, dof, nil),
		Tau: mat.NewDense(n, dof, nil),
	}

	var g errgroup.Group
	g.SetLimit(c.proc.EffectiveWorkers())
	for j := range dof {
		g.Go(func() error {
			if err := c.joint(j, qRaw, tauRaw, res); err != nil {
				return fmt.Errorf("conditioner: joint %d: %w", j, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// joint writes column j of res. Distinct joints touch distinct columns, so
// concurrent calls never write the same element.
func (c *Conditioner) joint(j int, qRaw, tauRaw *mat.Dense, res *Result) error {
	h := c.proc.SampleInterval
	q := mat.Col(nil, j, qRaw)

	qf, err := c.q.Apply(q)
	if err != nil {
		return err
	}

	src := q
	if c.cfg.DifferentiateFiltered {
		src = qf
	}
	dqRaw, err := diff.Differentiate(src, h, 1, c.cfg.Scheme)
	if err != nil {
		return err
	}
	dq, err := c.dq.Apply(dqRaw)
	if err != nil {
		return err
	}

	ddqRaw, err := diff.Differentiate(dqRaw, h, 1, c.cfg.Scheme)
	if err != nil {
		return err
	}
	ddq, err := c.ddq.Apply(ddqRaw)
	if err != nil {
		return err
	}

	tau, err := c.tau.Apply(mat.Col(nil, j, tauRaw))
	if err != nil {
		return err
	}

	res.Q.SetCol(j, qf)
	res.DQ.SetCol(j, dq)
	res.DDQ.SetCol(j, ddq)
	res.Tau.SetCol(j, tau)
	return nil
}

// Condition is a one-shot helper that designs the filters for h and runs
// them over qRaw and tauRaw.
func Condition(cfg Config, h float64, qRaw, tauRaw *mat.Dense) (*Result, error) {
	if !core.ValidInterval(h) {
		return nil, fmt.Errorf("%w: sample interval must be finite and > 0: %v", ErrInvalidArgument, h)
	}
	c, err := New(cfg, core.WithSampleInterval(h))
	if err != nil {
		return nil, err
	}
	return c.Run(qRaw, tauRaw)
}
