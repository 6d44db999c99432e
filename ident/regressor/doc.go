// Package regressor assembles the stacked least-squares system W·φ = T that
// relates a robot's dynamics parameters φ to measured joint torques.
//
// The dynamics model enters as a [Func]: for one sample of joint position,
// velocity and acceleration it returns the dof × parameter regressor matrix.
// Row block i of W is that matrix evaluated at sample i, and block i of T
// holds the torques of sample i.
//
// [ParameterSet] selects which parameterization the columns of W describe:
// the full standard parameter vector, an effective projection of it, or the
// identifiable base subset.
package regressor
