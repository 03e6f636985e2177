package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/senere/senere/sim/routing"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid simulation config")

// IntervalKind selects the distribution of an interval sampler.
type IntervalKind string

const (
	IntervalExponential IntervalKind = "exponential"
	IntervalConstant    IntervalKind = "constant"
	IntervalSequence    IntervalKind = "sequence" // replays Values cyclically
)

// IntervalSpec describes how a delay (time to failure, repair duration) is
// drawn.
type IntervalSpec struct {
	Type   IntervalKind `yaml:"type"`
	Mean   float64      `yaml:"mean,omitempty"`   // exponential
	Value  float64      `yaml:"value,omitempty"`  // constant
	Values []float64    `yaml:"values,omitempty"` // sequence
}

// Exponential returns an exponential IntervalSpec with the given mean.
func Exponential(mean float64) IntervalSpec {
	return IntervalSpec{Type: IntervalExponential, Mean: mean}
}

// Constant returns an IntervalSpec that always yields v.
func Constant(v float64) IntervalSpec {
	return IntervalSpec{Type: IntervalConstant, Value: v}
}

// Sequence returns an IntervalSpec replaying values in order, wrapping around.
func Sequence(values ...float64) IntervalSpec {
	return IntervalSpec{Type: IntervalSequence, Values: values}
}

func validDelay(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate reports whether the spec can produce non-negative delays.
func (s IntervalSpec) Validate() error {
	switch s.Type {
	case IntervalExponential:
		if !(s.Mean > 0) || math.IsInf(s.Mean, 0) {
			return fmt.Errorf("exponential mean must be > 0, got %v", s.Mean)
		}
	case IntervalConstant:
		if !validDelay(s.Value) {
			return fmt.Errorf("constant value must be >= 0, got %v", s.Value)
		}
	case IntervalSequence:
		if len(s.Values) == 0 {
			return errors.New("sequence needs at least one value")
		}
		for i, v := range s.Values {
			if !validDelay(v) {
				return fmt.Errorf("sequence value #%d must be >= 0, got %v", i, v)
			}
		}
	default:
		return fmt.Errorf("unknown interval type %q", s.Type)
	}
	return nil
}

// Config is the immutable parameter set of a failure/repair study. It is
// passed by value at construction and never mutated by a run.
type Config struct {
	Mode            routing.Mode `yaml:"mode"`
	RepairThreshold int          `yaml:"repair_threshold"` // K: offline sensors that trigger a repair
	Horizon         float64      `yaml:"stime_limit"`
	Runs            int          `yaml:"num_runs"`
	Seed            int64        `yaml:"seed"`
	Workers         int          `yaml:"workers,omitempty"` // 0 means one per CPU

	FailureInterval    IntervalSpec `yaml:"failure_interval"`
	RepairInterval     IntervalSpec `yaml:"repair_interval"`
	ConsRepairInterval IntervalSpec `yaml:"cons_repair_interval"`
}

// DefaultConfig returns the configuration used when a scenario file leaves
// the simulation section out.
func DefaultConfig() Config {
	return Config{
		Mode:               routing.ModeStatic,
		RepairThreshold:    1,
		Horizon:            1000,
		Runs:               1,
		Seed:               42,
		FailureInterval:    Exponential(100),
		RepairInterval:     Exponential(20),
		ConsRepairInterval: Exponential(10),
	}
}

// Validate checks every field and wraps ErrInvalidConfig on failure.
func (c Config) Validate() error {
	if !routing.IsValidMode(string(c.Mode)) {
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.RepairThreshold < 1 {
		return fmt.Errorf("%w: repair_threshold must be >= 1, got %d", ErrInvalidConfig, c.RepairThreshold)
	}
	if !(c.Horizon > 0) || math.IsInf(c.Horizon, 0) {
		return fmt.Errorf("%w: stime_limit must be > 0, got %v", ErrInvalidConfig, c.Horizon)
	}
	if c.Runs < 1 {
		return fmt.Errorf("%w: num_runs must be >= 1, got %d", ErrInvalidConfig, c.Runs)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	intervals := []struct {
		name string
		spec IntervalSpec
	}{
		{"failure_interval", c.FailureInterval},
		{"repair_interval", c.RepairInterval},
		{"cons_repair_interval", c.ConsRepairInterval},
	}
	for _, iv := range intervals {
		if err := iv.spec.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, iv.name, err)
		}
	}
	return nil
}
