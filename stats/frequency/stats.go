package frequency

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// ErrTooShort reports a signal with fewer than two samples.
var ErrTooShort = errors.New("frequency: signal too short")

// DefaultRolloff is the energy fraction used by ChannelBandwidth.
const DefaultRolloff = 0.99

// binFreq returns the frequency in Hz of bin i of a one-sided spectrum with
// binCount bins.
func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Spectrum returns the one-sided magnitude spectrum of x after removing its
// mean. x is zero-padded to the next power of two N; the result has N/2+1
// bins from DC to Nyquist.
func Spectrum(x []float64) ([]float64, error) {
	if len(x) < 2 {
		return nil, ErrTooShort
	}

	size := nextPow2(len(x))
	mean := vecmath.Sum(x) / float64(len(x))
	in := make([]complex128, size)
	for i, v := range x {
		in[i] = complex(v-mean, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("frequency: fft plan: %w", err)
	}
	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("frequency: fft: %w", err)
	}

	mag := make([]float64, size/2+1)
	for i := range mag {
		mag[i] = cmplx.Abs(out[i])
	}
	return mag, nil
}

// Centroid returns the spectral centroid in Hz.
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(magnitude []float64, sampleRate float64) float64 {
	n := len(magnitude)
	sum := vecmath.Sum(magnitude)
	if n < 2 || sum == 0 {
		return 0
	}
	weighted := 0.0
	for i, v := range magnitude {
		weighted += binFreq(i, sampleRate, n) * v
	}
	return weighted / sum
}

// Rolloff returns the frequency below which the specified fraction (0..1) of
// spectral energy lies.
//
// Energy is defined as the sum of squared magnitudes.
func Rolloff(magnitude []float64, sampleRate float64, percent float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}
	energy := vecmath.DotProduct(magnitude, magnitude)
	if energy == 0 {
		return 0
	}

	threshold := percent * energy
	cum := 0.0
	for i, v := range magnitude {
		cum += v * v
		if cum >= threshold {
			return binFreq(i, sampleRate, n)
		}
	}
	return binFreq(n-1, sampleRate, n)
}

// ChannelBandwidth estimates the band occupied by a channel sampled at
// interval h: the frequency below which DefaultRolloff of its AC energy
// lies. It is reported next to the filter cutoffs to spot channels whose
// content is cut off.
func ChannelBandwidth(x []float64, h float64) (float64, error) {
	if math.IsNaN(h) || h <= 0 {
		return 0, fmt.Errorf("frequency: invalid sample interval %v", h)
	}
	mag, err := Spectrum(x)
	if err != nil {
		return 0, err
	}
	return Rolloff(mag, 1/h, DefaultRolloff), nil
}
