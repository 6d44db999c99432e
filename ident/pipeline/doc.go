// Package pipeline wires log reading, signal conditioning, regression
// assembly and base-parameter reduction into one identification run driven
// by a YAML configuration.
package pipeline
