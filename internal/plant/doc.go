// Package plant provides linearized models of classic control benchmarks.
//
// Each model type carries its physical parameters and produces a
// continuous-time linearization about its operating point. The [Plant]
// wrapper bundles the linearization with default cost weights, a suggested
// sample time, and a representative initial disturbance:
//
//   - [CartPole]: inverted pendulum on a cart, balanced upright
//   - [Pendulum]: torque-driven pendulum, balanced upright
//   - [SpringMass]: damped mass on a spring with a force input
//   - [DoubleIntegrator]: frictionless point mass under acceleration control
//
// [Get] looks plants up by name for the command and config layers:
//
//	p, err := plant.Get("cartpole")
//	sys, err := p.Discretize()
package plant
