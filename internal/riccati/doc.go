// Package riccati solves the discrete algebraic Riccati equation (DARE) by
// fixed-point iteration and derives infinite-horizon LQR state-feedback
// gains from the converged solution.
//
// [Solve] is the core entry point. [Gain] is a convenience wrapper that
// returns only the feedback gain, and [Residual] measures how well a
// cost-to-go matrix satisfies the equation.
package riccati
