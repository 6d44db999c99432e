// Package frequency computes frequency-domain descriptors of sampled
// channels from FFT magnitude spectra.
package frequency
