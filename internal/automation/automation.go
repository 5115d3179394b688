// Package automation runs scripted batches of simulations: YAML scenarios
// and parameter sweeps.
package automation

import (
	"context"
	"fmt"
	"os"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/odosim/internal/config"
	"github.com/san-kum/odosim/internal/experiment"
	"github.com/san-kum/odosim/internal/monitoring"
	"github.com/san-kum/odosim/internal/sim"
	"github.com/san-kum/odosim/internal/storage"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset and decodes Config on top of it, using
// the same keys as a config file.
type ScenarioStep struct {
	Name   string    `yaml:"name"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
	Runs   int       `yaml:"runs"`
	Save   bool      `yaml:"save"`
}

// StepResult holds the logs of one step and the IDs of any saved runs.
type StepResult struct {
	Name   string
	Logs   []*sim.Log
	RunIDs []string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Resolve builds the configuration a step runs with.
func (s *ScenarioStep) Resolve() (*config.Config, error) {
	preset := s.Preset
	if preset == "" {
		preset = "default"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", preset)
	}
	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. When st is non-nil every log is
// saved to it.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		monitoring.Logf("running step %d/%d: %s", i+1, len(scenario.Steps), name)

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, registry)
		var logs []*sim.Log
		if step.Runs > 1 {
			logs, err = exp.RunEnsemble(ctx, step.Runs)
		} else {
			if err = exp.Setup(); err == nil {
				var log *sim.Log
				log, err = exp.Run(ctx)
				logs = []*sim.Log{log}
			}
		}
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		res := StepResult{Name: name, Logs: logs}
		if step.Save && st != nil {
			for _, log := range logs {
				runCfg := *cfg
				runCfg.Seed = log.Seed
				id, err := st.Save(&runCfg, log)
				if err != nil {
					return results, fmt.Errorf("step %d save: %w", i+1, err)
				}
				res.RunIDs = append(res.RunIDs, id)
			}
		}
		results = append(results, res)
	}

	return results, nil
}

// Sweep parameters accepted by SetParam.
var SweepParams = []string{
	"dt",
	"input.v",
	"input.omega",
	"input_noise.v",
	"input_noise.omega",
	"observation_params.period",
	"observation_params.sigma",
}

// SetParam assigns one numeric field of cfg by its config-file path.
func SetParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "dt":
		cfg.Dt = v
	case "input.v":
		cfg.Input.V = v
	case "input.omega":
		cfg.Input.Omega = v
	case "input_noise.v":
		cfg.InputNoise.V = v
	case "input_noise.omega":
		cfg.InputNoise.Omega = v
	case "observation_params.period":
		cfg.Obs.Period = v
	case "observation_params.sigma":
		cfg.Obs.Sigma = v
	default:
		return fmt.Errorf("unknown sweep parameter %q (have %v)", name, SweepParams)
	}
	return nil
}

// ParameterSweep runs simulations across a range of parameter values
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Runs      int
	Metric    string
}

// SweepResult summarises one metric over the ensemble at a parameter value.
type SweepResult struct {
	ParamValue float64
	Mean       float64
	StdDev     float64
	Min        float64
	Max        float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	runs := sweep.Runs
	if runs < 1 {
		runs = 1
	}
	metric := sweep.Metric
	if metric == "" {
		metric = "final_drift"
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := *sweep.Base
		if err := SetParam(&cfg, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		logs, err := experiment.New(&cfg, registry).RunEnsemble(ctx, runs)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		values := make([]float64, len(logs))
		for j, log := range logs {
			v, ok := log.Metrics[metric]
			if !ok {
				return nil, fmt.Errorf("unknown metric %q", metric)
			}
			values[j] = v
		}

		res := SweepResult{ParamValue: paramVal, Min: values[0], Max: values[0]}
		res.Mean, res.StdDev = stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			res.StdDev = 0
		}
		for _, v := range values {
			res.Min = min(res.Min, v)
			res.Max = max(res.Max, v)
		}
		results = append(results, res)

		monitoring.Logf("sweep %d/%d: %s=%.4f %s=%.4f", i+1, sweep.NumSteps, sweep.ParamName, paramVal, metric, res.Mean)
	}

	return results, nil
}
