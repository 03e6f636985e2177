package sim

import (
	"fmt"
	"math/rand"
)

// IntervalSampler draws a non-negative delay.
type IntervalSampler interface {
	Sample() float64
}

// IndexPicker returns an index in [0, n). It selects which failed sensor
// the repair crew works on next.
type IndexPicker func(n int) int

// ExponentialSampler draws exponentially distributed delays.
type ExponentialSampler struct {
	mean float64
	rng  *rand.Rand
}

func (s *ExponentialSampler) Sample() float64 {
	return s.rng.ExpFloat64() * s.mean
}

// ConstantSampler always returns the same delay.
type ConstantSampler float64

func (s ConstantSampler) Sample() float64 { return float64(s) }

// SequenceSampler replays a fixed list of delays, wrapping around.
type SequenceSampler struct {
	values []float64
	next   int
}

// NewSequenceSampler panics on an empty list.
func NewSequenceSampler(values ...float64) *SequenceSampler {
	if len(values) == 0 {
		panic("NewSequenceSampler: no values")
	}
	return &SequenceSampler{values: append([]float64(nil), values...)}
}

func (s *SequenceSampler) Sample() float64 {
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

// NewIntervalSampler builds the sampler described by spec. Exponential
// samplers draw from rng.
func NewIntervalSampler(spec IntervalSpec, rng *rand.Rand) (IntervalSampler, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	switch spec.Type {
	case IntervalExponential:
		return &ExponentialSampler{mean: spec.Mean, rng: rng}, nil
	case IntervalConstant:
		return ConstantSampler(spec.Value), nil
	case IntervalSequence:
		return NewSequenceSampler(spec.Values...), nil
	}
	return nil, fmt.Errorf("unknown interval type %q", spec.Type)
}

// UniformPicker picks indices uniformly with rng.
func UniformPicker(rng *rand.Rand) IndexPicker {
	return func(n int) int { return rng.Intn(n) }
}

// Samplers bundles the random collaborators of one run.
type Samplers struct {
	Failure    IntervalSampler
	Repair     IntervalSampler
	ConsRepair IntervalSampler
	Pick       IndexPicker
}

// NewSamplers derives the samplers of a run from cfg, each drawing from its
// own RNG subsystem.
func NewSamplers(cfg Config, rng *PartitionedRNG) (Samplers, error) {
	failure, err := NewIntervalSampler(cfg.FailureInterval, rng.ForSubsystem(SubsystemFailure))
	if err != nil {
		return Samplers{}, fmt.Errorf("failure_interval: %w", err)
	}
	repair, err := NewIntervalSampler(cfg.RepairInterval, rng.ForSubsystem(SubsystemRepair))
	if err != nil {
		return Samplers{}, fmt.Errorf("repair_interval: %w", err)
	}
	cons, err := NewIntervalSampler(cfg.ConsRepairInterval, rng.ForSubsystem(SubsystemConsRepair))
	if err != nil {
		return Samplers{}, fmt.Errorf("cons_repair_interval: %w", err)
	}
	return Samplers{
		Failure:    failure,
		Repair:     repair,
		ConsRepair: cons,
		Pick:       UniformPicker(rng.ForSubsystem(SubsystemPick)),
	}, nil
}
