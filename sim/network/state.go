package network

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/senere/senere/sim/routing"
	"github.com/senere/senere/sim/topology"
)

// State composes the topology, the device registry and the routing table.
// Every power change goes through State so that the table always reflects
// the set of devices that are currently off.
type State struct {
	topo    *topology.Topology
	devices *Registry
	table   *routing.Table
	mode    routing.Mode
}

// NewState builds the registry from topo and an initial routing table in
// the given mode.
func NewState(topo *topology.Topology, mode routing.Mode) (*State, error) {
	devices, err := NewRegistry(topo.Nodes())
	if err != nil {
		return nil, err
	}
	s := &State{
		topo:    topo,
		devices: devices,
		table:   routing.NewTable(),
	}
	if err := s.BuildRoutingTable(mode); err != nil {
		return nil, err
	}
	return s, nil
}

// Topology returns the underlying topology.
func (s *State) Topology() *topology.Topology { return s.topo }

// Table returns the current routing table.
func (s *State) Table() *routing.Table { return s.table }

// Mode returns the routing mode used by the last rebuild.
func (s *State) Mode() routing.Mode { return s.mode }

// Device returns the device of addr.
func (s *State) Device(addr topology.Address) (*Device, error) {
	return s.devices.Get(addr)
}

// BuildRoutingTable recomputes all routes in mode with every powered-off
// device excluded, and replaces the table contents. mode becomes the mode
// used by later TurnOff rebuilds.
func (s *State) BuildRoutingTable(mode routing.Mode) error {
	exclude := routing.NewExcludeSet(s.devices.Off()...)
	routes, err := routing.Build(s.topo, mode, exclude)
	if err != nil {
		return fmt.Errorf("building routing table: %w", err)
	}
	s.mode = mode
	s.table.Replace(routes)
	logrus.Debugf("routing table rebuilt (%s): %d routes, %d excluded", mode, len(routes), len(exclude))
	return nil
}

// TurnOff powers down a sensor and rebuilds the routing table, so sensors
// relaying through it either find another path or go offline.
func (s *State) TurnOff(addr topology.Address) error {
	if err := s.devices.TurnOff(addr); err != nil {
		return err
	}
	return s.BuildRoutingTable(s.mode)
}

// TurnOn powers up one or more sensors. The routing table is not rebuilt;
// callers must invoke BuildRoutingTable afterwards. All addresses are
// validated before any device changes state.
func (s *State) TurnOn(addrs ...topology.Address) error {
	for _, addr := range addrs {
		if _, err := s.devices.Get(addr); err != nil {
			return err
		}
	}
	for _, addr := range addrs {
		_ = s.devices.TurnOn(addr)
	}
	return nil
}

// OfflineNodes returns sensors without a routing entry, ascending. This
// covers both powered-off sensors and sensors cut off by a failed relay.
func (s *State) OfflineNodes() []topology.Address {
	var out []topology.Address
	for _, addr := range s.devices.Addresses(topology.KindSensor) {
		if !s.table.Has(addr) {
			out = append(out, addr)
		}
	}
	return out
}

// FailedSensors returns the sensors currently powered off, ascending.
func (s *State) FailedSensors() []topology.Address {
	return s.devices.Off()
}

// Sensors returns all sensor addresses, ascending.
func (s *State) Sensors() []topology.Address {
	return s.devices.Addresses(topology.KindSensor)
}

// Gateways returns all gateway addresses, ascending.
func (s *State) Gateways() []topology.Address {
	return s.devices.Addresses(topology.KindGateway)
}
