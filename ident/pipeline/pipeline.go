package pipeline

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-dynid/dsp/core"
	"github.com/cwbudde/algo-dynid/ident/baseparam"
	"github.com/cwbudde/algo-dynid/ident/conditioner"
	"github.com/cwbudde/algo-dynid/ident/models"
	"github.com/cwbudde/algo-dynid/ident/rbtlog"
	"github.com/cwbudde/algo-dynid/ident/regressor"
	"github.com/cwbudde/algo-dynid/stats/frequency"
	timestats "github.com/cwbudde/algo-dynid/stats/time"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Bandwidth reports the estimated occupied band of one joint's raw
// channels next to the configured cutoffs, all in Hz.
type Bandwidth struct {
	Joint int
	Q     float64
	Tau   float64
}

// Result is the outcome of one identification run.
type Result struct {
	Fingerprint uint64
	// Mismatch is non-nil when the log's average interval differs from the
	// nominal one. It is a warning, not a failure.
	Mismatch    *rbtlog.SampleRateMismatch
	Conditioned *conditioner.Result
	Reduction   *baseparam.Reduction
	// Params names the entries of Phi.
	Params           []string
	Phi              *mat.VecDense
	Residual         float64
	RelativeResidual float64
	// JointResidualRMS is the RMS torque residual per joint.
	JointResidualRMS []float64
	Bandwidth        []Bandwidth
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default is logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithModel replaces the model named in the configuration.
func WithModel(m models.Model) Option {
	return func(p *Pipeline) {
		p.model = m
		p.custom = true
	}
}

// Pipeline runs identifications for one configuration.
type Pipeline struct {
	cfg    Config
	model  models.Model
	custom bool
	cols   []int
	cond   *conditioner.Conditioner
	log    logrus.FieldLogger
}

// New validates cfg and prepares the conditioning filters.
func New(cfg *Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{cfg: *cfg, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.cfg.validateSettings(); err != nil {
		return nil, err
	}
	if !p.custom {
		m, err := models.Lookup(p.cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		p.model = m
	}
	if err := p.cfg.validateModel(p.model); err != nil {
		return nil, err
	}
	if p.cfg.DOF == 0 {
		p.cfg.DOF = p.model.DOF
	}

	p.cols = p.model.BaseColumns
	if len(p.cfg.BaseColumns) > 0 {
		p.cols = append([]int(nil), p.cfg.BaseColumns...)
	}

	cond, err := conditioner.New(p.cfg.conditionerConfig(),
		core.WithSampleInterval(p.cfg.SampleInterval),
		core.WithWorkers(p.cfg.Workers))
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	p.cond = cond
	p.log = p.log.WithField("model", p.model.Name)
	return p, nil
}

// Model returns the dynamics model the pipeline identifies.
func (p *Pipeline) Model() models.Model { return p.model }

// RunFile opens the log at path and runs the identification on it.
func (p *Pipeline) RunFile(path string) (*Result, error) {
	start := time.Now()
	l, err := rbtlog.Open(path, p.cfg.DOF)
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{
		"path":    path,
		"samples": l.Samples(),
		"elapsed": time.Since(start),
	}).Debug("log read")
	return p.Run(l)
}

// Run identifies the base parameters from l.
func (p *Pipeline) Run(l *rbtlog.Log) (*Result, error) {
	if l.DOF != p.cfg.DOF {
		return nil, fmt.Errorf("pipeline: log has %d joints, want %d", l.DOF, p.cfg.DOF)
	}
	h := p.cfg.SampleInterval
	log := p.log.WithField("fingerprint", fmt.Sprintf("%016x", l.Fingerprint))
	res := &Result{Fingerprint: l.Fingerprint}

	if m := rbtlog.CheckSampleInterval(l.Time, h); m != nil {
		res.Mismatch = m
		log.WithFields(logrus.Fields{
			"nominal": m.Nominal,
			"average": m.Average,
		}).Warn("sample interval mismatch")
	}

	start := time.Now()
	cond, err := p.cond.Run(l.Q, l.Tau)
	if err != nil {
		return nil, fmt.Errorf("pipeline: condition: %w", err)
	}
	res.Conditioned = cond
	log.WithFields(logrus.Fields{"stage": "condition", "elapsed": time.Since(start)}).Debug("stage done")

	res.Bandwidth = p.bandwidth(l, log)

	q, dq, ddq, tau, err := p.trim(cond)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	w, t, err := regressor.Assemble(p.cfg.DOF, p.model.ParamCount(), p.model.Regressor, q, dq, ddq, tau)
	if err != nil {
		return nil, fmt.Errorf("pipeline: assemble: %w", err)
	}
	red, err := baseparam.Reduce(w, t, p.cols)
	if err != nil {
		return nil, fmt.Errorf("pipeline: reduce: %w", err)
	}
	res.Reduction = red
	log.WithFields(logrus.Fields{
		"stage":   "reduce",
		"rows":    t.Len(),
		"columns": len(p.cols),
		"elapsed": time.Since(start),
	}).Debug("stage done")

	phi, err := red.Solve()
	if err != nil {
		return nil, fmt.Errorf("pipeline: solve: %w", err)
	}
	res.Phi = phi
	res.Params = make([]string, len(p.cols))
	for k, c := range p.cols {
		res.Params[k] = p.model.Params[c]
	}
	res.Residual = red.Residual(phi)
	res.RelativeResidual = red.RelativeResidual(phi)
	res.JointResidualRMS = jointResidual(red, phi, p.cfg.DOF)

	log.WithFields(logrus.Fields{
		"cond":     red.Cond(),
		"residual": res.RelativeResidual,
	}).Info("identification done")
	return res, nil
}

func (p *Pipeline) trim(c *conditioner.Result) (q, dq, ddq, tau *mat.Dense, err error) {
	n, dof := c.Q.Dims()
	k := p.cfg.Trim
	if 2*k >= n {
		return nil, nil, nil, nil, fmt.Errorf("pipeline: trim %d leaves no samples of %d", k, n)
	}
	rows := func(m *mat.Dense) *mat.Dense {
		return m.Slice(k, n-k, 0, dof).(*mat.Dense)
	}
	return rows(c.Q), rows(c.DQ), rows(c.DDQ), rows(c.Tau), nil
}

func (p *Pipeline) bandwidth(l *rbtlog.Log, log logrus.FieldLogger) []Bandwidth {
	h := p.cfg.SampleInterval
	out := make([]Bandwidth, 0, l.DOF)
	for j := range l.DOF {
		bq, errQ := frequency.ChannelBandwidth(mat.Col(nil, j, l.Q), h)
		bt, errT := frequency.ChannelBandwidth(mat.Col(nil, j, l.Tau), h)
		if errQ != nil || errT != nil {
			log.WithField("joint", j).Debug("bandwidth unavailable")
			continue
		}
		out = append(out, Bandwidth{Joint: j, Q: bq, Tau: bt})
		if bq > p.cfg.Cutoffs.Q || bt > p.cfg.Cutoffs.Tau {
			log.WithFields(logrus.Fields{
				"joint":      j,
				"q_band":     bq,
				"tau_band":   bt,
				"q_cutoff":   p.cfg.Cutoffs.Q,
				"tau_cutoff": p.cfg.Cutoffs.Tau,
			}).Info("channel content above cutoff")
		}
	}
	return out
}

// jointResidual returns the RMS of W_base·φ − T for each joint's rows.
func jointResidual(red *baseparam.Reduction, phi *mat.VecDense, dof int) []float64 {
	var fit mat.VecDense
	fit.MulVec(red.WBase, phi)
	rows := fit.Len() / dof

	out := make([]float64, dof)
	got := make([]float64, rows)
	want := make([]float64, rows)
	for j := range dof {
		for i := range rows {
			got[i] = fit.AtVec(i*dof + j)
			want[i] = red.T.AtVec(i*dof + j)
		}
		out[j] = timestats.RMSDiff(got, want)
	}
	return out
}
