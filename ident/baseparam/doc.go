// Package baseparam reduces a full regression system to its base
// parameters and factors it for least-squares solving.
//
// Reduce keeps the identifiable columns of W, computes the thin QR
// factorization W_base = Q·R and projects the torques onto the column space,
// ρ = Qᵀ·T. The least-squares estimate of the base parameters then solves
// the triangular system R·φ = ρ.
package baseparam
