// Package config defines the scalar run parameters for the packing
// pipeline and loads them from an optional YAML file. CLI flags layer
// on top of whatever the file sets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zdanovic/kaggle.santa-2025/internal/engine"
	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// Run holds every tunable of an optimize run.
type Run struct {
	Iterations int   `yaml:"iterations"`
	Restarts   int   `yaml:"restarts"`
	MinN       int   `yaml:"min_n"`
	MaxN       int   `yaml:"max_n"`
	SeedBase   int64 `yaml:"seed_base"`
	Workers    int   `yaml:"workers"`

	Generations int `yaml:"generations"`
	MaxStall    int `yaml:"max_stall"`

	RandomInits           int     `yaml:"random_inits"`
	RandomInitMaxN        int     `yaml:"random_init_max_n"`
	RandomInitScale       float64 `yaml:"random_init_scale"`
	RandomInitTries       int     `yaml:"random_init_tries"`
	RandomInitMaxAttempts int     `yaml:"random_init_max_attempts"`

	CompressSteps      int     `yaml:"compress_steps"`
	CompressFactor     float64 `yaml:"compress_factor"`
	CompressRelaxIters int     `yaml:"compress_relax_iters"`
	CompressRelaxStep  float64 `yaml:"compress_relax_step"`
}

// Default returns the production run parameters.
func Default() Run {
	anneal := engine.DefaultAnnealParams()
	group := engine.DefaultGroupParams()
	sched := engine.DefaultSchedulerParams()
	rinit := engine.DefaultRandomInitParams()
	comp := engine.DefaultCompressParams()
	return Run{
		Iterations:            anneal.Iterations,
		Restarts:              group.Restarts,
		MinN:                  sched.MinN,
		MaxN:                  sched.MaxN,
		SeedBase:              sched.SeedBase,
		Workers:               sched.Workers,
		Generations:           sched.Generations,
		MaxStall:              sched.MaxStall,
		RandomInits:           rinit.Inits,
		RandomInitMaxN:        rinit.MaxN,
		RandomInitScale:       rinit.SideScale,
		RandomInitTries:       rinit.Tries,
		RandomInitMaxAttempts: rinit.MaxAttempts,
		CompressSteps:         comp.Steps,
		CompressFactor:        comp.Factor,
		CompressRelaxIters:    comp.RelaxIter,
		CompressRelaxStep:     comp.RelaxStep,
	}
}

// LoadFile reads a YAML run config layered over the defaults.
func LoadFile(path string) (Run, error) {
	r := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := r.Validate(); err != nil {
		return r, fmt.Errorf("config %s: %w", path, err)
	}
	return r, nil
}

// Validate rejects parameter combinations the pipeline cannot run with.
func (r Run) Validate() error {
	if r.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", r.Iterations)
	}
	if r.Restarts <= 0 {
		return fmt.Errorf("restarts must be positive, got %d", r.Restarts)
	}
	if r.MinN < 1 || r.MaxN > model.MaxTrees || r.MinN > r.MaxN {
		return fmt.Errorf("n range [%d, %d] outside [1, %d]", r.MinN, r.MaxN, model.MaxTrees)
	}
	if r.Generations <= 0 {
		return fmt.Errorf("generations must be positive, got %d", r.Generations)
	}
	return nil
}

// SchedulerParams assembles the engine parameter tree for this run.
func (r Run) SchedulerParams() engine.SchedulerParams {
	anneal := engine.DefaultAnnealParams()
	anneal.Iterations = r.Iterations

	group := engine.DefaultGroupParams()
	group.Restarts = r.Restarts
	group.Anneal = anneal
	group.RandInit = engine.RandomInitParams{
		Inits:       r.RandomInits,
		MaxN:        r.RandomInitMaxN,
		SideScale:   r.RandomInitScale,
		Tries:       r.RandomInitTries,
		MaxAttempts: r.RandomInitMaxAttempts,
	}
	group.Compress = engine.CompressParams{
		Steps:     r.CompressSteps,
		Factor:    r.CompressFactor,
		RelaxIter: r.CompressRelaxIters,
		RelaxStep: r.CompressRelaxStep,
	}

	sched := engine.DefaultSchedulerParams()
	sched.MinN = r.MinN
	sched.MaxN = r.MaxN
	sched.Generations = r.Generations
	sched.MaxStall = r.MaxStall
	sched.Workers = r.Workers
	sched.SeedBase = r.SeedBase
	sched.Group = group
	return sched
}
