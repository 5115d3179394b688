package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/odosim/internal/config"
)

// simFlags holds the simulation flags shared by run, batch, live and sweep.
type simFlags struct {
	configFile  string
	preset      string
	observation string
	dt          float64
	simTime     float64
	seed        int64
	period      float64
	tolerance   float64
	sigma       float64
	v           float64
	omega       float64
	noiseV      float64
	noiseOmega  float64
	x, y, yaw   float64
}

func addSimFlags(cmd *cobra.Command, f *simFlags) {
	def := config.DefaultConfig()
	fs := cmd.Flags()
	fs.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&f.preset, "preset", "", "use preset configuration")
	fs.StringVar(&f.observation, "observation", def.Observation, "observation model (exact|noisy)")
	fs.Float64Var(&f.dt, "dt", def.Dt, "timestep")
	fs.Float64Var(&f.simTime, "time", def.SimTime, "simulated duration")
	fs.Int64Var(&f.seed, "seed", def.Seed, "random seed")
	fs.Float64Var(&f.period, "zdt", def.Obs.Period, "observation period")
	fs.Float64Var(&f.tolerance, "tolerance", def.Obs.Tolerance, "observation due tolerance")
	fs.Float64Var(&f.sigma, "sigma", def.Obs.Sigma, "observation noise std (noisy)")
	fs.Float64Var(&f.v, "v", def.Input.V, "nominal linear velocity")
	fs.Float64Var(&f.omega, "omega", def.Input.Omega, "nominal angular velocity")
	fs.Float64Var(&f.noiseV, "noise-v", def.InputNoise.V, "linear velocity noise std")
	fs.Float64Var(&f.noiseOmega, "noise-omega", def.InputNoise.Omega, "angular velocity noise std")
	fs.Float64Var(&f.x, "x", def.Initial.X, "initial x")
	fs.Float64Var(&f.y, "y", def.Initial.Y, "initial y")
	fs.Float64Var(&f.yaw, "yaw", def.Initial.Yaw, "initial yaw")
}

// resolveConfig layers preset, then config file, then any flag the user set.
func resolveConfig(cmd *cobra.Command, f *simFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if f.preset != "" {
		cfg = config.GetPreset(f.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
	}

	if f.configFile != "" {
		if _, err := config.LoadOnto(f.configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	changed := cmd.Flags().Changed
	if changed("observation") {
		cfg.Observation = f.observation
	}
	if changed("dt") {
		cfg.Dt = f.dt
	}
	if changed("time") {
		cfg.SimTime = f.simTime
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("zdt") {
		cfg.Obs.Period = f.period
	}
	if changed("tolerance") {
		cfg.Obs.Tolerance = f.tolerance
	}
	if changed("sigma") {
		cfg.Obs.Sigma = f.sigma
	}
	if changed("v") {
		cfg.Input.V = f.v
	}
	if changed("omega") {
		cfg.Input.Omega = f.omega
	}
	if changed("noise-v") {
		cfg.InputNoise.V = f.noiseV
	}
	if changed("noise-omega") {
		cfg.InputNoise.Omega = f.noiseOmega
	}
	if changed("x") {
		cfg.Initial.X = f.x
	}
	if changed("y") {
		cfg.Initial.Y = f.y
	}
	if changed("yaw") {
		cfg.Initial.Yaw = f.yaw
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
