// Package automation runs scripted sequences of experiments and
// one-parameter sweeps.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario is a YAML-defined list of runs executed in order.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep describes one run. Preset and Config are layered like on the
// command line; the remaining fields override them when non-zero.
type ScenarioStep struct {
	Preset     string             `yaml:"preset"`
	Config     string             `yaml:"config"`
	Particles  int                `yaml:"particles"`
	Steps      int                `yaml:"steps"`
	Seed       int64              `yaml:"seed"`
	Integrator string             `yaml:"integrator"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", dynamo.ErrInvalidConfig, scenario.Name)
	}
	return &scenario, nil
}

// Build resolves the step into a validated configuration.
func (s ScenarioStep) Build() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Config != "" {
		loaded, err := config.LoadOver(s.Config, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if s.Particles != 0 {
		cfg.Particles = s.Particles
	}
	if s.Steps != 0 {
		cfg.Steps = s.Steps
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// Outcome is the result of one scenario step. RunID is set when the step
// was saved.
type Outcome struct {
	Name   string
	Result *sim.Result
	RunID  string
}

// RunScenario executes every step in order. Steps with SaveAs set are
// stored when st is non-nil. The first failing step ends the scenario; the
// outcomes so far are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s-%d", scenario.Name, i+1)
		}
		slog.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "name", name)

		cfg, err := step.Build()
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp := experiment.New(cfg, nil)
		if err := exp.Setup(); err != nil {
			return outcomes, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return outcomes, fmt.Errorf("step %d run: %w", i+1, err)
		}

		out := Outcome{Name: name, Result: result}
		if step.SaveAs != "" && st != nil {
			if out.RunID, err = st.Save(step.SaveAs, cfg, result); err != nil {
				return outcomes, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// ParameterSweep runs Base once per evenly spaced value of Param.
type ParameterSweep struct {
	Base   *config.Config
	Param  string
	Min    float64
	Max    float64
	Points int
}

// SweepResult is one sweep point. A run that blew up is kept with
// Diverged set and the metrics it had reached.
type SweepResult struct {
	Value    float64
	Steps    int
	Metrics  map[string]float64
	Diverged bool
}

// RunSweep executes the sweep. Only cancellation and configuration errors
// abort it; a diverging run is recorded and the sweep moves on.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.Points < 2 {
		return nil, fmt.Errorf("%w: a sweep needs at least 2 points, got %d", dynamo.ErrInvalidConfig, sweep.Points)
	}
	results := make([]SweepResult, 0, sweep.Points)
	step := (sweep.Max - sweep.Min) / float64(sweep.Points-1)

	for i := 0; i < sweep.Points; i++ {
		val := sweep.Min + float64(i)*step
		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.Param, val); err != nil {
			return results, err
		}

		exp := experiment.New(cfg, nil)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, val, err)
		}
		result, err := exp.Run(ctx)
		if err != nil && (result == nil || !diverged(err)) {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, val, err)
		}

		results = append(results, SweepResult{
			Value:    val,
			Steps:    result.Steps,
			Metrics:  result.Metrics,
			Diverged: err != nil,
		})
		slog.Debug("sweep point", "param", sweep.Param, "value", val, "diverged", err != nil)
	}
	return results, nil
}

func diverged(err error) bool {
	return errors.Is(err, dynamo.ErrInvalidState) || errors.Is(err, dynamo.ErrDivisionByZero)
}
