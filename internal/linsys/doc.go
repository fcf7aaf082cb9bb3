// Package linsys provides discrete-time linear system primitives shared by
// the gain solver, the simulator, and the plant library.
//
//   - [State], [Control]: vectors exchanged with the simulation loop
//   - [System]: x[k+1] = A·x[k] + B·u[k]
//   - [Weights]: quadratic cost structure (Q, R, N)
//   - [Controller], [Metric], [Observer]: simulation loop interfaces
//
// [Discretize] converts a continuous-time model to zero-order-hold discrete
// form for a given sample time.
package linsys
