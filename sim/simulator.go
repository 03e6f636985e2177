// sim/simulator.go
package sim

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/senere/senere/sim/network"
	"github.com/senere/senere/sim/topology"
	"github.com/senere/senere/sim/trace"
)

// Phase is the state of the repair crew.
type Phase string

const (
	PhaseIdle      Phase = "idle"      // no repair in progress
	PhaseRepairing Phase = "repairing" // the crew is fixing failed sensors one at a time
)

// Simulator runs one failure/repair timeline over a sensor network. It holds
// the logical clock, the event heap and the network state; handlers mutate
// the state only from the event loop.
type Simulator struct {
	Clock   float64
	Horizon float64

	cfg      Config
	queue    *EventHeap
	network  *network.State
	samplers Samplers
	stats    *trace.Collector
	metrics  *Metrics

	// failed keeps sensors in failure order; the crew picks among them.
	failed           []topology.Address
	repairInProgress bool
	phase            Phase
	started          bool
}

// NewSimulator validates cfg and builds the initial routing table over topo.
// metrics may be nil.
func NewSimulator(topo *topology.Topology, cfg Config, samplers Samplers, metrics *Metrics) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if samplers.Failure == nil || samplers.Repair == nil || samplers.ConsRepair == nil || samplers.Pick == nil {
		return nil, errors.New("NewSimulator: incomplete samplers")
	}
	state, err := network.NewState(topo, cfg.Mode)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		Clock:    0,
		Horizon:  cfg.Horizon,
		cfg:      cfg,
		queue:    NewEventHeap(),
		network:  state,
		samplers: samplers,
		stats:    trace.NewCollector(),
		metrics:  metrics,
		phase:    PhaseIdle,
	}, nil
}

// Network returns the network state driven by the simulator.
func (sim *Simulator) Network() *network.State { return sim.network }

// Stats returns the collector the simulator records into.
func (sim *Simulator) Stats() *trace.Collector { return sim.stats }

// Phase returns the repair crew state.
func (sim *Simulator) Phase() Phase { return sim.phase }

// RepairInProgress reports whether the crew is busy.
func (sim *Simulator) RepairInProgress() bool { return sim.repairInProgress }

// Failed returns the failed sensors in failure order.
func (sim *Simulator) Failed() []topology.Address {
	return slices.Clone(sim.failed)
}

// Pending returns the number of scheduled events.
func (sim *Simulator) Pending() int { return sim.queue.Len() }

// Schedule pushes an event into the heap. Scheduling before the current
// clock is a programming error and panics.
func (sim *Simulator) Schedule(ev Event) {
	ts := ev.Timestamp()
	if math.IsNaN(ts) || ts < sim.Clock {
		panic(fmt.Sprintf("Schedule: %T at %v is before clock %v", ev, ts, sim.Clock))
	}
	sim.queue.Schedule(ev)
}

// Start records the initial sample of every trace and schedules one failure
// per sensor, in ascending address order. Later calls are no-ops.
func (sim *Simulator) Start() {
	if sim.started {
		return
	}
	sim.started = true
	sim.stats.RecordCounts(sim.Clock, 0, len(sim.network.OfflineNodes()))
	sim.stats.RecordOperable(sim.Clock, true)
	for _, addr := range sim.network.Sensors() {
		sim.scheduleFailure(addr)
	}
}

// Step executes the next event if it is due within the horizon. It reports
// false once no such event is left.
func (sim *Simulator) Step() (bool, error) {
	next := sim.queue.Peek()
	if next == nil || next.Timestamp() > sim.Horizon {
		return false, nil
	}
	ev := sim.queue.PopNext()
	sim.Clock = ev.Timestamp()
	logrus.Debugf("[t=%10.3f] Executing %T", sim.Clock, ev)
	if err := ev.Execute(sim); err != nil {
		return false, fmt.Errorf("t=%v: %w", sim.Clock, err)
	}
	return true, nil
}

// Run starts the simulation if needed and executes events until the horizon.
// Events due after the horizon are left unexecuted; the clock then reads the
// horizon and the traces are closed there.
func (sim *Simulator) Run() (trace.RunResult, error) {
	sim.Start()
	for {
		ok, err := sim.Step()
		if err != nil {
			return trace.RunResult{}, err
		}
		if !ok {
			break
		}
	}
	sim.Clock = sim.Horizon
	logrus.Debugf("[t=%10.3f] Simulation ended, %d events pending", sim.Clock, sim.queue.Len())
	return sim.stats.Result(sim.Horizon), nil
}

func (sim *Simulator) scheduleFailure(addr topology.Address) {
	sim.Schedule(&FailureEvent{time: sim.Clock + sim.samplers.Failure.Sample(), Address: addr})
}

// scheduleNextRepair sends the crew to a failed sensor picked by the
// injected IndexPicker.
func (sim *Simulator) scheduleNextRepair(duration IntervalSampler) {
	if len(sim.failed) == 0 {
		panic("scheduleNextRepair: no failed nodes")
	}
	i := sim.samplers.Pick(len(sim.failed))
	if i < 0 || i >= len(sim.failed) {
		panic(fmt.Sprintf("scheduleNextRepair: picked index %d out of [0, %d)", i, len(sim.failed)))
	}
	addr := sim.failed[i]
	sim.Schedule(&RepairFinishedEvent{time: sim.Clock + duration.Sample(), Address: addr})
	logrus.Debugf("repair of sensor %d scheduled", addr)
}

func (sim *Simulator) handleFailure(addr topology.Address) error {
	if slices.Contains(sim.failed, addr) {
		logrus.Warnf("sensor %d already failed, ignoring failure at %v", addr, sim.Clock)
		return nil
	}
	if err := sim.network.TurnOff(addr); err != nil {
		return fmt.Errorf("failure of sensor %d: %w", addr, err)
	}
	sim.metrics.incRebuilds()
	sim.failed = append(sim.failed, addr)
	sim.stats.Failures++
	sim.metrics.incFailures()

	offline := len(sim.network.OfflineNodes())
	sim.stats.RecordCounts(sim.Clock, len(sim.failed), offline)
	sim.metrics.observeOffline(offline)

	if offline >= sim.cfg.RepairThreshold && !sim.repairInProgress {
		sim.scheduleNextRepair(sim.samplers.Repair)
		sim.repairInProgress = true
		sim.stats.RepairsStarted++
		sim.stats.RecordOperable(sim.Clock, false)
		sim.phase = PhaseRepairing
	}
	return nil
}

func (sim *Simulator) handleRepairFinished(addr topology.Address) error {
	if err := sim.network.TurnOn(addr); err != nil {
		return fmt.Errorf("repair of sensor %d: %w", addr, err)
	}
	if err := sim.network.BuildRoutingTable(sim.cfg.Mode); err != nil {
		return fmt.Errorf("repair of sensor %d: %w", addr, err)
	}
	sim.metrics.incRebuilds()
	sim.scheduleFailure(addr)

	sim.failed = slices.DeleteFunc(sim.failed, func(a topology.Address) bool { return a == addr })
	sim.stats.Repairs++
	sim.metrics.incRepairs()
	sim.stats.RecordCounts(sim.Clock, len(sim.failed), len(sim.network.OfflineNodes()))

	if len(sim.failed) > 0 {
		sim.scheduleNextRepair(sim.samplers.ConsRepair)
		return nil
	}
	sim.repairInProgress = false
	sim.stats.RecordOperable(sim.Clock, true)
	sim.phase = PhaseIdle
	return nil
}
