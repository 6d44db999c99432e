package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Clone returns a freshly allocated copy of src.
// Stages hand out clones so that no caller ever shares a buffer with an input.
func Clone(src []float64) []float64 {
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// Reversed returns a new slice holding src in reverse order.
func Reversed(src []float64) []float64 {
	n := len(src)
	out := make([]float64, n)
	for i, v := range src {
		out[n-1-i] = v
	}
	return out
}

// ReverseInPlace reverses buf.
func ReverseInPlace(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
