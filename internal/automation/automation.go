// Package automation runs batches of experiments: scripted scenarios,
// single-parameter sweeps and seeded Monte Carlo trials over irregular seas.
package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/buoydyn/internal/config"
	"github.com/san-kum/buoydyn/internal/dynamo"
	"github.com/san-kum/buoydyn/internal/experiment"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`

	dir string
}

// ScenarioStep starts from a preset ("group/name") or a config file, then
// applies Params by dotted name.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Config     string             `yaml:"config"`
	Integrator string             `yaml:"integrator"`
	Controller string             `yaml:"controller"`
	Wave       string             `yaml:"wave"`
	Params     map[string]float64 `yaml:"params"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("automation: scenario %q has no steps", scenario.Name)
	}
	scenario.dir = filepath.Dir(path)
	return &scenario, nil
}

// Resolve builds the configuration of step i.
func (s *Scenario) Resolve(i int) (*config.Config, error) {
	step := s.Steps[i]
	cfg := config.DefaultConfig()
	switch {
	case step.Config != "":
		path := step.Config
		if !filepath.IsAbs(path) && s.dir != "" {
			path = filepath.Join(s.dir, path)
		}
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	case step.Preset != "":
		group, name, _ := strings.Cut(step.Preset, "/")
		cfg = config.GetPreset(group, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", step.Preset)
		}
	}

	if step.Name != "" {
		cfg.Name = step.Name
	}
	if step.Integrator != "" {
		cfg.Integrator = step.Integrator
	}
	if step.Controller != "" {
		cfg.Controller = step.Controller
	}
	if step.Wave != "" {
		cfg.Wave.Type = step.Wave
	}
	for k, v := range step.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario executes all steps in a scenario. The callback, when not nil,
// receives each finished step before the next one starts.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, done func(cfg *config.Config, result *dynamo.Result) error) ([]dynamo.Result, error) {
	results := make([]dynamo.Result, 0, len(scenario.Steps))

	for i := range scenario.Steps {
		cfg, err := scenario.Resolve(i)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.WithFields(log.Fields{"step": i + 1, "of": len(scenario.Steps), "name": cfg.Name}).Info("running scenario step")

		result, err := run(ctx, cfg, registry)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if done != nil {
			if err := done(cfg, result); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		results = append(results, *result)
	}

	return results, nil
}

func run(ctx context.Context, cfg *config.Config, registry *experiment.Registry) (*dynamo.Result, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(registry); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	return result, nil
}

// ParameterSweep varies one parameter linearly between Min and Max.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	FinalState dynamo.State
	Metrics    map[string]float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step")
	}
	if _, err := sweep.Base.GetParam(sweep.ParamName); err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		result, err := run(ctx, cfg, registry)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		var finalState dynamo.State
		if len(result.States) > 0 {
			finalState = result.States[len(result.States)-1]
		}
		results = append(results, SweepResult{
			ParamValue: paramVal,
			FinalState: finalState,
			Metrics:    result.Metrics,
		})

		log.WithFields(log.Fields{"step": i + 1, "of": sweep.NumSteps, sweep.ParamName: paramVal}).Debug("sweep point done")
	}

	return results, nil
}

// MonteCarloConfig repeats Base with seeds Seed, Seed+1, ... so each trial
// sees a different realisation of the same irregular sea.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Seed      int64
	// Threshold bounds every position for a trial to count as stable.
	Threshold float64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID int
	Seed    int64
	Metrics map[string]float64
	Stable  bool
}

// RunMonteCarlo executes the trials in order.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, mc.NumTrials)
	threshold := mc.Threshold
	if threshold <= 0 {
		threshold = 1e3
	}

	for trial := 0; trial < mc.NumTrials; trial++ {
		cfg := mc.Base.Clone()
		cfg.Seed = mc.Seed + int64(trial)

		result, err := run(ctx, cfg, registry)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		stable := len(result.Errors) == 0
		for _, x := range result.States {
			if x.MaxExcursion() > threshold {
				stable = false
				break
			}
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Seed:    cfg.Seed,
			Metrics: result.Metrics,
			Stable:  stable,
		})

		if (trial+1)%10 == 0 {
			log.Infof("monte carlo: %d/%d trials complete", trial+1, mc.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// MetricStats returns the mean and sample standard deviation of a metric
// across trials.
func MetricStats(results []MonteCarloResult, metric string) (mean, std float64) {
	vals := make([]float64, 0, len(results))
	for _, r := range results {
		if v, ok := r.Metrics[metric]; ok {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0, 0
	}
	if len(vals) == 1 {
		return vals[0], 0
	}
	return stat.MeanStdDev(vals, nil)
}
