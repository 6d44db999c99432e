// Package conditioner turns raw joint position and torque logs into
// filtered position, velocity, acceleration and torque signals.
//
// Velocity and acceleration are obtained by finite differences of the raw
// position, then every channel is low-pass filtered with a zero-phase
// Butterworth filter. Each channel kind has its own cutoff frequency in Hz;
// a cutoff of +Inf disables filtering for that kind.
package conditioner
