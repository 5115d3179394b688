package config

import (
	"fmt"
	"os"

	"github.com/san-kum/odosim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt           = 0.1
	DefaultSimTime      = 50.0
	DefaultPeriod       = 4.0
	DefaultTolerance    = sim.DefaultDueTolerance
	DefaultObsSigma     = 0.1
	DefaultV            = 1.0
	DefaultOmega        = 0.1
	DefaultNoiseV       = 0.5
	DefaultNoiseOmega   = 0.1
	DefaultOutput       = "data.csv"
	DefaultCurveStop    = 10.0
	DefaultCurveStep    = 0.1
	DefaultCurveA       = 0.3
	DefaultCurveB       = 0.1
	DefaultCurveSigma   = 0.2
	DefaultFittedA      = 0.280248
	DefaultFittedB      = 0.2698163
	DefaultObservation  = sim.VariantExact
	DefaultCurveDataOut = "curve.csv"
)

type Config struct {
	Observation string            `yaml:"observation"`
	Dt          float64           `yaml:"dt"`
	SimTime     float64           `yaml:"sim_time"`
	Seed        int64             `yaml:"seed"`
	Output      string            `yaml:"output"`
	Initial     PoseConfig        `yaml:"initial"`
	Input       InputConfig       `yaml:"input"`
	InputNoise  InputConfig       `yaml:"input_noise"`
	Obs         ObservationConfig `yaml:"observation_params"`
	Curve       CurveConfig       `yaml:"curve"`
}

type PoseConfig struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	Yaw float64 `yaml:"yaw"`
}

type InputConfig struct {
	V     float64 `yaml:"v"`
	Omega float64 `yaml:"omega"`
}

type ObservationConfig struct {
	Period    float64 `yaml:"period"`
	Tolerance float64 `yaml:"tolerance"`
	Sigma     float64 `yaml:"sigma"`
}

// CurveConfig drives the exponential curve generator y = exp(a*x + b) + N(0, sigma)
// and the fitted-vs-true comparison.
type CurveConfig struct {
	Start   float64 `yaml:"start"`
	Stop    float64 `yaml:"stop"`
	Step    float64 `yaml:"step"`
	A       float64 `yaml:"a"`
	B       float64 `yaml:"b"`
	Sigma   float64 `yaml:"sigma"`
	FittedA float64 `yaml:"fitted_a"`
	FittedB float64 `yaml:"fitted_b"`
	Output  string  `yaml:"output"`
}

func DefaultConfig() *Config {
	return &Config{
		Observation: DefaultObservation,
		Dt:          DefaultDt,
		SimTime:     DefaultSimTime,
		Output:      DefaultOutput,
		Input:       InputConfig{V: DefaultV, Omega: DefaultOmega},
		InputNoise:  InputConfig{V: DefaultNoiseV, Omega: DefaultNoiseOmega},
		Obs: ObservationConfig{
			Period:    DefaultPeriod,
			Tolerance: DefaultTolerance,
			Sigma:     DefaultObsSigma,
		},
		Curve: CurveConfig{
			Stop:    DefaultCurveStop,
			Step:    DefaultCurveStep,
			A:       DefaultCurveA,
			B:       DefaultCurveB,
			Sigma:   DefaultCurveSigma,
			FittedA: DefaultFittedA,
			FittedB: DefaultFittedB,
			Output:  DefaultCurveDataOut,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig, so omitted keys keep their defaults.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto decodes a YAML file over base, which it modifies and returns.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the simulator cannot run.
func (c *Config) Validate() error {
	if err := c.Sim().Validate(); err != nil {
		return err
	}
	sched := sim.Schedule{Period: c.Obs.Period, Tolerance: c.Obs.Tolerance}
	if err := sched.Validate(); err != nil {
		return err
	}
	switch c.Observation {
	case sim.VariantExact, sim.VariantNoisy:
	default:
		return fmt.Errorf("unknown observation model: %q", c.Observation)
	}
	return nil
}

// ValidateCurve checks the curve sampling grid.
func (c *Config) ValidateCurve() error {
	if !(c.Curve.Step > 0) {
		return &sim.ConfigError{Field: "curve.step", Value: c.Curve.Step, Want: "> 0"}
	}
	return nil
}

func (c *Config) Sim() sim.Config {
	return sim.Config{
		Dt:         c.Dt,
		SimTime:    c.SimTime,
		Initial:    sim.Pose{X: c.Initial.X, Y: c.Initial.Y, Yaw: c.Initial.Yaw},
		Input:      sim.Input{V: c.Input.V, Omega: c.Input.Omega},
		InputNoise: sim.InputNoise{V: c.InputNoise.V, Omega: c.InputNoise.Omega},
		Seed:       c.Seed,
	}
}
