// Package network tracks the on/off state of every station and keeps the
// routing table coherent with it.
package network

import (
	"errors"
	"fmt"
	"sort"

	"github.com/senere/senere/sim/topology"
)

var (
	// ErrUnrecognizedNodeType is returned when a node is neither a sensor
	// nor a gateway.
	ErrUnrecognizedNodeType = errors.New("unrecognized node type")
	// ErrGatewayAlwaysOn is returned when asked to power off a gateway.
	ErrGatewayAlwaysOn = errors.New("gateway cannot be turned off")
)

// Device is the runtime state of a station. Only sensors carry an on/off
// flag; a gateway is always on.
type Device struct {
	Address topology.Address
	Kind    topology.Kind
	off     bool
}

// IsOn reports whether the device is powered.
func (d *Device) IsOn() bool {
	return d.Kind == topology.KindGateway || !d.off
}

// IsGateway reports whether the device is a gateway.
func (d *Device) IsGateway() bool { return d.Kind == topology.KindGateway }

// Registry holds one Device per topology node.
//
// Thread-safety: NOT thread-safe. Devices change state only through State.
type Registry struct {
	devices map[topology.Address]*Device
}

// NewRegistry creates a device for every node, all initially on. It fails
// without building a partial registry if any node has an unknown kind.
func NewRegistry(nodes []topology.Node) (*Registry, error) {
	devices := make(map[topology.Address]*Device, len(nodes))
	for _, n := range nodes {
		switch n.Kind {
		case topology.KindSensor, topology.KindGateway:
			devices[n.Address] = &Device{Address: n.Address, Kind: n.Kind}
		default:
			return nil, fmt.Errorf("node %d: %w %q", n.Address, ErrUnrecognizedNodeType, n.Kind)
		}
	}
	return &Registry{devices: devices}, nil
}

// Get returns the device of addr.
func (r *Registry) Get(addr topology.Address) (*Device, error) {
	d, ok := r.devices[addr]
	if !ok {
		return nil, fmt.Errorf("device %d: %w", addr, topology.ErrAddressNotFound)
	}
	return d, nil
}

// IsOn reports whether the device at addr is powered.
func (r *Registry) IsOn(addr topology.Address) (bool, error) {
	d, err := r.Get(addr)
	if err != nil {
		return false, err
	}
	return d.IsOn(), nil
}

// TurnOn powers the device at addr. Gateways are unaffected.
func (r *Registry) TurnOn(addr topology.Address) error {
	d, err := r.Get(addr)
	if err != nil {
		return err
	}
	d.off = false
	return nil
}

// TurnOff powers down the sensor at addr.
func (r *Registry) TurnOff(addr topology.Address) error {
	d, err := r.Get(addr)
	if err != nil {
		return err
	}
	if d.IsGateway() {
		return fmt.Errorf("device %d: %w", addr, ErrGatewayAlwaysOn)
	}
	d.off = true
	return nil
}

// Addresses returns the addresses of devices of kind, ascending.
func (r *Registry) Addresses(kind topology.Kind) []topology.Address {
	return r.collect(func(d *Device) bool { return d.Kind == kind })
}

// Off returns the addresses of all powered-off devices, ascending.
func (r *Registry) Off() []topology.Address {
	return r.collect(func(d *Device) bool { return !d.IsOn() })
}

func (r *Registry) collect(keep func(*Device) bool) []topology.Address {
	out := make([]topology.Address, 0, len(r.devices))
	for addr, d := range r.devices {
		if keep(d) {
			out = append(out, addr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
