package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/senere/senere/sim/topology"
)

// Event defines the interface for all simulation events.
// Each event has a Timestamp (logical time) and an Execute method that
// advances the failure/repair state when invoked.
type Event interface {
	Timestamp() float64
	Execute(*Simulator) error
}

// FailureEvent represents a sensor breaking down.
type FailureEvent struct {
	time    float64
	Address topology.Address
}

// Timestamp returns the scheduled time of the FailureEvent.
func (e *FailureEvent) Timestamp() float64 {
	return e.time
}

// Execute turns the sensor off and opens a repair if too many sensors went
// offline.
func (e *FailureEvent) Execute(sim *Simulator) error {
	logrus.Debugf("<< Failure: sensor %d at %.3f", e.Address, e.time)
	return sim.handleFailure(e.Address)
}

// RepairFinishedEvent represents the repair crew finishing work on a sensor.
type RepairFinishedEvent struct {
	time    float64
	Address topology.Address
}

// Timestamp returns the scheduled time of the RepairFinishedEvent.
func (e *RepairFinishedEvent) Timestamp() float64 {
	return e.time
}

// Execute brings the sensor back and moves the crew to the next failed
// sensor, if any.
func (e *RepairFinishedEvent) Execute(sim *Simulator) error {
	logrus.Debugf("<< RepairFinished: sensor %d at %.3f", e.Address, e.time)
	return sim.handleRepairFinished(e.Address)
}
