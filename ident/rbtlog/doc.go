// Package rbtlog reads robot joint logs and reference trajectories.
//
// A log is a whitespace-separated text table with one sample per line:
//
//	t  q_1 … q_dof  tau_1 … tau_dof  [ignored columns]
//
// Lines starting with '#' and blank lines are skipped. Logs may be stored
// compressed with zstd (.zst), LZ4 frames (.lz4) or gzip (.gz); Open picks
// the decompressor from the file extension.
package rbtlog
