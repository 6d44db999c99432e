package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Stats summarizes one channel in the time domain.
type Stats struct {
	Length int
	DC     float64 // mean
	RMS    float64
	Peak   float64 // max |x|
	StdDev float64
	Min    float64
	Max    float64
}

// Calculate computes Stats for signal. An empty signal yields a zero Stats.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{}
	}

	s := Stats{
		Length: n,
		DC:     vecmath.Sum(signal) / float64(n),
		RMS:    RMS(signal),
		Peak:   vecmath.MaxAbs(signal),
		Min:    signal[0],
		Max:    signal[0],
	}
	for _, v := range signal[1:] {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.StdDev = math.Sqrt(math.Max(s.RMS*s.RMS-s.DC*s.DC, 0))
	return s
}

// RMS returns the root-mean-square value of signal, 0 when empty.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return math.Sqrt(vecmath.DotProduct(signal, signal) / float64(len(signal)))
}

// DC returns the mean of signal, 0 when empty.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return vecmath.Sum(signal) / float64(len(signal))
}

// Peak returns the maximum absolute value of signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return vecmath.MaxAbs(signal)
}

// RMSDiff returns the RMS of a-b over the shorter of the two slices.
func RMSDiff(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	d := make([]float64, n)
	vecmath.ScaleBlock(d, b[:n], -1)
	vecmath.AddBlockInPlace(d, a[:n])
	return RMS(d)
}
