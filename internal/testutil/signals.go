package testutil

import (
	"math"
	"math/rand"
)

// Sine samples amplitude·sin(2π·freqHz·t + phase) at t = i·h.
func Sine(freqHz, h, amplitude, phase float64, length int) []float64 {
	out := make([]float64, length)
	w := 2 * math.Pi * freqHz
	for i := range out {
		out[i] = amplitude * math.Sin(w*float64(i)*h+phase)
	}
	return out
}

// Times returns the time base t_i = t0 + i·h.
func Times(t0, h float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = t0 + float64(i)*h
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Ramp returns f(i) = offset + slope·i.
func Ramp(slope, offset float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = offset + slope*float64(i)
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// ArgMax returns the index of the largest element in data[from:to].
func ArgMax(data []float64, from, to int) int {
	best := from
	for i := from + 1; i < to; i++ {
		if data[i] > data[best] {
			best = i
		}
	}
	return best
}
