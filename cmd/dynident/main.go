// Command dynident identifies the base dynamics parameters of a robot from a
// joint log.
//
// Usage:
//
//	dynident [flags] log-file
//
// The log holds whitespace-separated rows "t q_1..q_dof tau_1..tau_dof" and
// may be compressed (.zst, .lz4, .gz).
//
// Examples:
//
//	dynident -model planar2r run1.log
//	dynident -config ident.yaml -trim 200 run1.log.zst
//	dynident -list
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-dynid/ident/models"
	"github.com/cwbudde/algo-dynid/ident/pipeline"
	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dynident", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	model := fs.String("model", "", "dynamics model (overrides the configuration)")
	trim := fs.Int("trim", -1, "samples dropped at each end before assembly (overrides the configuration)")
	list := fs.Bool("list", false, "list available models")
	verbose := fs.Bool("v", false, "log stage timings")
	jsonLog := fs.Bool("json", false, "log as JSON")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: dynident [flags] log-file\n\n")
		fmt.Fprintf(stderr, "Identifies base dynamics parameters from a robot joint log.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  dynident -model planar2r run1.log\n")
		fmt.Fprintf(stderr, "  dynident -config ident.yaml -trim 200 run1.log.zst\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *list {
		printModels(stdout)
		return 0
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if *jsonLog {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	cfg := pipeline.Default()
	if *configPath != "" {
		c, err := pipeline.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		cfg = c
	}
	if *model != "" {
		cfg.Model = *model
		cfg.DOF = 0
		cfg.BaseColumns = nil
	}
	if *trim >= 0 {
		cfg.Trim = *trim
	}

	p, err := pipeline.New(cfg, pipeline.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	res, err := p.RunFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if err := printResult(stdout, res); err != nil {
		fmt.Fprintf(stderr, "error: failed to write output: %v\n", err)
		return 1
	}
	return 0
}

func printModels(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Model\tDOF\tParameters\tBase\n")
	for _, name := range models.Names() {
		m, err := models.Lookup(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%v\t%v\n", m.Name, m.DOF, m.Params, m.BaseParams())
	}
	_ = tw.Flush()
}

func printResult(w io.Writer, res *pipeline.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Parameter\tEstimate\n---------\t--------\n"); err != nil {
		return err
	}
	for k, name := range res.Params {
		if _, err := fmt.Fprintf(tw, "%s\t%.6g\n", name, res.Phi.AtVec(k)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\ncond(R)=%.3g  residual=%.3g (relative %.3g)  log=%016x\n",
		res.Reduction.Cond(), res.Residual, res.RelativeResidual, res.Fingerprint); err != nil {
		return err
	}
	for j, rms := range res.JointResidualRMS {
		if _, err := fmt.Fprintf(w, "joint %d: torque residual rms=%.3g\n", j+1, rms); err != nil {
			return err
		}
	}
	if res.Mismatch != nil {
		if _, err := fmt.Fprintf(w, "warning: %v\n", res.Mismatch); err != nil {
			return err
		}
	}
	return nil
}
