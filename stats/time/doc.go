// Package time computes time-domain summary statistics of sampled channels.
package time
