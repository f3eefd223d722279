package sim

import (
	"context"
	"time"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/particles"
)

// Observer is notified after every completed step.
type Observer interface {
	OnStep(s particles.Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(particles.Snapshot)

func (f ObserverFunc) OnStep(s particles.Snapshot) { f(s) }

// Result summarizes a run. Trace holds one row per step with the value of
// each metric in Names order after that step was observed.
type Result struct {
	Steps      int
	Names      []string
	Metrics    map[string]float64
	Trace      [][]float64
	Collisions int
	Clamps     int
	Elapsed    time.Duration
}

// Runner drives a Simulation for a fixed number of steps, feeding metrics and
// observers.
type Runner struct {
	sim       *Simulation
	metrics   []metrics.Metric
	observers []Observer

	// Dt is passed to every StepDt call; zero uses the configured step.
	Dt float64
	// ValidateState stops the run with dynamo.ErrInvalidState as soon as a
	// position or velocity stops being finite.
	ValidateState bool
	// TraceEvery keeps every n-th step in Result.Trace; 0 or 1 keeps all.
	TraceEvery int
	// Before runs ahead of every step, for drivers that mutate the graph or
	// the configuration between steps. An error ends the run.
	Before func(step int) error
}

func NewRunner(s *Simulation) *Runner {
	return &Runner{sim: s, ValidateState: true}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)     { r.observers = append(r.observers, o) }
func (r *Runner) Simulation() *Simulation    { return r.sim }

// Run performs steps steps, checking ctx before each one. On cancellation
// the partial result is returned along with ctx.Err().
func (r *Runner) Run(ctx context.Context, steps int) (*Result, error) {
	start := time.Now()
	result := &Result{
		Names:   make([]string, len(r.metrics)),
		Metrics: make(map[string]float64, len(r.metrics)),
		Trace:   make([][]float64, 0, steps),
	}
	for i, m := range r.metrics {
		m.Reset()
		result.Names[i] = m.Name()
	}
	every := r.TraceEvery
	if every < 1 {
		every = 1
	}

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		if r.Before != nil {
			if err := r.Before(r.sim.Steps()); err != nil {
				runErr = err
				break
			}
		}
		if err := r.sim.StepDt(r.Dt); err != nil {
			runErr = err
			break
		}
		result.Steps++
		result.Collisions += r.sim.LastCollisions().Contacts
		result.Clamps += r.sim.LastClamps()

		if r.ValidateState && !r.sim.Valid() {
			runErr = &dynamo.StepError{Step: r.sim.Steps() - 1, Wrapped: dynamo.ErrInvalidState}
			break
		}

		if len(r.metrics) == 0 && len(r.observers) == 0 {
			continue
		}
		snap := r.sim.Snapshot()
		for _, m := range r.metrics {
			m.Observe(snap)
		}
		for _, o := range r.observers {
			o.OnStep(snap)
		}
		if len(r.metrics) > 0 && i%every == 0 {
			row := make([]float64, len(r.metrics))
			for k, m := range r.metrics {
				row[k] = m.Value()
			}
			result.Trace = append(result.Trace, row)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Elapsed = time.Since(start)
	return result, runErr
}
