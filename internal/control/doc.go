// Package control provides feedback controllers for discrete-time
// simulation.
//
// Controllers implement the [linsys.Controller] interface to compute
// control inputs from the current state:
//
//   - [StateFeedback]: linear state feedback u = -K·(x - target), with the
//     gain typically produced by the riccati solver
//   - [PID]: Proportional-Integral-Derivative controller on a single
//     measured state
//   - [None]: passthrough controller (zero control)
//
// # Usage
//
//	sol, err := riccati.Solve(sys.A, sys.B, w.Q, w.R, w.N, riccati.Options{})
//	ctrl := control.NewStateFeedback(sol.K, nil)
//	// Controller.Compute is called each timestep
package control
