// Package models provides hand-derived regressors for small robots: a
// single pendulum with friction and a planar two-link arm. They drive the
// command-line tool and synthesize torque logs in tests.
package models
