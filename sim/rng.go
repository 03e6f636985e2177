package sim

import (
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey identifies one reproducible run. Equal keys over the same
// topology and Config yield identical traces.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// RunKey derives the key of run i of a batch seeded with seed. Runs are
// numbered from zero, so run 0 reuses the batch seed.
func RunKey(seed int64, run int) SimulationKey {
	return SimulationKey(seed + int64(run))
}

// === Subsystems ===

const (
	// SubsystemFailure draws the time to the next failure of a sensor.
	SubsystemFailure = "failure"

	// SubsystemRepair draws the duration of the repair that opens a
	// repair session.
	SubsystemRepair = "repair"

	// SubsystemConsRepair draws the durations of the follow-up repairs
	// the crew performs without returning to idle.
	SubsystemConsRepair = "cons_repair"

	// SubsystemPick chooses which failed sensor the crew repairs next.
	SubsystemPick = "pick"
)

// === PartitionedRNG ===

// PartitionedRNG hands out one *rand.Rand per subsystem, seeded with
// key XOR fnv1a64(subsystem). Extra failure draws never shift repair
// durations or the crew's picks.
//
// Not safe for concurrent use; every run owns its own instance.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:     key,
		streams: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the stream of the named subsystem, creating it on
// first use.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.streams[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
