package rbtlog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/mat"
)

// ErrFormat reports a malformed log or trajectory table.
var ErrFormat = errors.New("rbtlog: malformed table")

// Log is a parsed joint log.
type Log struct {
	// Time holds the sample time stamps in seconds.
	Time []float64
	// Q and Tau are samples × DOF.
	Q   *mat.Dense
	Tau *mat.Dense
	DOF int
	// Fingerprint is the xxhash64 of the uncompressed log text.
	Fingerprint uint64
}

// Samples returns the number of rows.
func (l *Log) Samples() int { return len(l.Time) }

// Open reads the log at path, decompressing it according to its extension.
func Open(path string, dof int) (*Log, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rbtlog: %w", err)
	}

	data, err := Decompress(CompressionFromPath(path), raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log, err := parseLog(data, dof)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return log, nil
}

// Read parses an uncompressed log from r.
func Read(r io.Reader, dof int) (*Log, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("rbtlog: %w", err)
	}
	return parseLog(data, dof)
}

func parseLog(data []byte, dof int) (*Log, error) {
	if dof <= 0 {
		return nil, fmt.Errorf("rbtlog: dof must be > 0: %d", dof)
	}

	rows, cols, err := parseTable(data)
	if err != nil {
		return nil, err
	}
	if need := 1 + 2*dof; cols < need {
		return nil, fmt.Errorf("%w: %d columns, need %d for %d joints", ErrFormat, cols, need, dof)
	}

	n := len(rows) / cols
	log := &Log{
		Time:        make([]float64, n),
		Q:           mat.NewDense(n, dof, nil),
		Tau:         mat.NewDense(n, dof, nil),
		DOF:         dof,
		Fingerprint: xxhash.Sum64(data),
	}
	for i := range n {
		row := rows[i*cols : (i+1)*cols]
		log.Time[i] = row[0]
		log.Q.SetRow(i, row[1:1+dof])
		log.Tau.SetRow(i, row[1+dof:1+2*dof])
	}
	return log, nil
}

// parseTable returns the row-major values of a numeric table and its column
// count. Every data line must have the same number of fields.
func parseTable(data []byte) ([]float64, int, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		values []float64
		cols   int
		line   int
	)
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		if cols == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, 0, fmt.Errorf("%w: line %d has %d columns, want %d", ErrFormat, line, len(fields), cols)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, 0, fmt.Errorf("%w: line %d: %w", ErrFormat, line, err)
			}
			values = append(values, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("rbtlog: %w", err)
	}
	if cols == 0 {
		return nil, 0, fmt.Errorf("%w: no data rows", ErrFormat)
	}
	return values, cols, nil
}

// Trajectory is a reference trajectory sampled at a nominal interval.
type Trajectory struct {
	// Time is h·i for row i.
	Time []float64
	// Data holds the trajectory table, one row per sample.
	Data *mat.Dense
}

// ReadTrajectory parses a reference trajectory table from r and builds its
// time base from the nominal interval h.
func ReadTrajectory(r io.Reader, h float64) (*Trajectory, error) {
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return nil, fmt.Errorf("rbtlog: sample interval must be finite and > 0: %v", h)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("rbtlog: %w", err)
	}

	values, cols, err := parseTable(data)
	if err != nil {
		return nil, err
	}
	n := len(values) / cols
	tr := &Trajectory{
		Time: make([]float64, n),
		Data: mat.NewDense(n, cols, values),
	}
	for i := range tr.Time {
		tr.Time[i] = h * float64(i)
	}
	return tr, nil
}

// SampleRateMismatch reports a log whose average sample interval differs
// from the nominal one.
type SampleRateMismatch struct {
	Nominal float64
	Average float64
}

func (e *SampleRateMismatch) Error() string {
	return fmt.Sprintf("rbtlog: average sample interval %g differs from nominal %g", e.Average, e.Nominal)
}

// IntervalTolerance is the relative deviation CheckSampleInterval accepts.
const IntervalTolerance = 1e-4

// CheckSampleInterval compares the mean interval of t with h. It returns nil
// when they agree within IntervalTolerance or when t has fewer than two
// samples.
func CheckSampleInterval(t []float64, h float64) *SampleRateMismatch {
	if len(t) < 2 {
		return nil
	}
	avg := (t[len(t)-1] - t[0]) / float64(len(t)-1)
	if math.Abs(avg/h-1) > IntervalTolerance || math.IsNaN(avg/h) {
		return &SampleRateMismatch{Nominal: h, Average: avg}
	}
	return nil
}
