// Package diff provides boundary-aware finite-difference differentiation of
// uniformly sampled signals.
//
// Interior samples use central stencils, the samples next to each edge fall
// back to narrower central stencils and the two outermost samples use
// one-sided differences, so every output has the same length as its input.
//
// [Differentiate] computes first derivatives and obtains second derivatives by
// differentiating twice. [SecondDifference] applies a dedicated
// second-derivative stencil instead.
package diff
