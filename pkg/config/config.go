// Package config carries the tunable constants of the route optimization
// engine. Everything the source dashboards hardcoded inconsistently
// (per-leg speeds, operational cost, penalty weights, efficiency blend)
// lives here as named, overridable values with documented defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/freshnet/coldchain/pkg/validation"
)

// Default leg speeds in km/h. The source systems assumed 40/45/50
// depending on the leg without documenting why; they are exposed here so
// deployments can calibrate instead of guessing.
const (
	DefaultCollectionSpeedKmh   = 40.0
	DefaultTransferSpeedKmh     = 45.0
	DefaultDistributionSpeedKmh = 50.0
)

// LegSpeeds overrides the vehicle's average speed per leg class.
// A zero value means "use the vehicle's own average speed".
type LegSpeeds struct {
	CollectionKmh   float64 `yaml:"collection_kmh"`
	TransferKmh     float64 `yaml:"transfer_kmh"`
	DistributionKmh float64 `yaml:"distribution_kmh"`
}

// Efficiency controls the network efficiency score blend. Weights must
// sum to 1; the score is hard-clamped to [0, 100] regardless.
type Efficiency struct {
	QualityWeight     float64 `yaml:"quality_weight"`
	CostWeight        float64 `yaml:"cost_weight"`
	TimeWeight        float64 `yaml:"time_weight"`
	UtilizationWeight float64 `yaml:"utilization_weight"`

	// Baselines for scoring cost and time per connected pair: a pair at
	// or above the baseline scores 0, a free/instant pair scores 100.
	CostBaselinePerPair      float64 `yaml:"cost_baseline_per_pair"`
	TimeBaselineHoursPerPair float64 `yaml:"time_baseline_hours_per_pair"`
}

// Engine is the full engine configuration.
type Engine struct {
	LegSpeeds LegSpeeds `yaml:"leg_speeds"`

	OperationalCostPerHour float64 `yaml:"operational_cost_per_hour"`
	SpoilagePenaltyWeight  float64 `yaml:"spoilage_penalty_weight"`

	// TemperaturePriorityFactor multiplies the spoilage penalty weight
	// when the caller sets the temperature-priority constraint flag.
	TemperaturePriorityFactor float64 `yaml:"temperature_priority_factor"`

	Efficiency Efficiency `yaml:"efficiency"`
}

// DefaultEngine returns the documented default configuration:
// quality 30%, cost 25%, time 25%, utilization 20%.
func DefaultEngine() Engine {
	return Engine{
		LegSpeeds: LegSpeeds{
			CollectionKmh:   DefaultCollectionSpeedKmh,
			TransferKmh:     DefaultTransferSpeedKmh,
			DistributionKmh: DefaultDistributionSpeedKmh,
		},
		OperationalCostPerHour:    250.0,
		SpoilagePenaltyWeight:     10.0,
		TemperaturePriorityFactor: 2.5,
		Efficiency: Efficiency{
			QualityWeight:            0.30,
			CostWeight:               0.25,
			TimeWeight:               0.25,
			UtilizationWeight:        0.20,
			CostBaselinePerPair:      10000.0,
			TimeBaselineHoursPerPair: 24.0,
		},
	}
}

// Load reads an Engine config from a YAML file, applying defaults for
// absent fields, and validates it.
func Load(path string) (Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Engine{}, fmt.Errorf("load engine config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Engine, error) {
	cfg := DefaultEngine()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Engine{}, fmt.Errorf("parse engine config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Engine{}, err
	}
	return cfg, nil
}

// Validate checks the configuration, collecting all problems rather
// than failing on the first.
func (c Engine) Validate() error {
	return validation.NewConfigValidator("Engine").
		NonNegative("LegSpeeds.CollectionKmh", c.LegSpeeds.CollectionKmh).
		NonNegative("LegSpeeds.TransferKmh", c.LegSpeeds.TransferKmh).
		NonNegative("LegSpeeds.DistributionKmh", c.LegSpeeds.DistributionKmh).
		NonNegative("OperationalCostPerHour", c.OperationalCostPerHour).
		NonNegative("SpoilagePenaltyWeight", c.SpoilagePenaltyWeight).
		Min("TemperaturePriorityFactor", c.TemperaturePriorityFactor, 1).
		NonNegative("Efficiency.QualityWeight", c.Efficiency.QualityWeight).
		NonNegative("Efficiency.CostWeight", c.Efficiency.CostWeight).
		NonNegative("Efficiency.TimeWeight", c.Efficiency.TimeWeight).
		NonNegative("Efficiency.UtilizationWeight", c.Efficiency.UtilizationWeight).
		SumsToOne("Efficiency weights",
			c.Efficiency.QualityWeight,
			c.Efficiency.CostWeight,
			c.Efficiency.TimeWeight,
			c.Efficiency.UtilizationWeight).
		Positive("Efficiency.CostBaselinePerPair", c.Efficiency.CostBaselinePerPair).
		Positive("Efficiency.TimeBaselineHoursPerPair", c.Efficiency.TimeBaselineHoursPerPair).
		Result()
}
