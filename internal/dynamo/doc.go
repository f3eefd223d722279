// Package dynamo provides the shared vocabulary of the particle engine.
//
// It is a leaf package: every other engine package imports it and it imports
// none of them. It defines
//
//   - [Config]: the run-time tunable physics parameters of a simulation
//   - [Scheme]: the closed set of integration schemes (Euler, Verlet, RK4)
//   - [AttractionPolicy]: adjacency-gated or all-pairs spring attraction
//   - [WallClampPolicy]: how the hard boundary accounts for particle radius
//   - the sentinel errors returned by the engine
//
// # Lazy validation
//
// The engine never validates a Config when it is set. A zero TimeScale, for
// instance, only surfaces as [ErrDivisionByZero] from the force evaluation
// that would have divided by it. Callers that want eager checks (the CLI
// does) call [Config.Validate] themselves.
//
// # Example
//
//	cfg := dynamo.DefaultConfig()
//	cfg.Attraction = dynamo.AttractAllPairs
//	s, _ := sim.New(200, sim.WithConfig(cfg), sim.WithScheme(dynamo.SchemeVerlet))
//	for i := 0; i < 1000; i++ {
//	    if err := s.Step(); err != nil {
//	        return err
//	    }
//	}
package dynamo
