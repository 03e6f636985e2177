// Package routing builds routes from sensors towards gateways and keeps them
// in a routing table keyed by source address.
package routing

import (
	"fmt"

	"github.com/senere/senere/sim/topology"
)

// RouteRecord is a single routing entry: traffic from Source is forwarded to
// NextHop and eventually reaches Gateway after Distance hops.
type RouteRecord struct {
	Source   topology.Address `yaml:"source"`
	NextHop  topology.Address `yaml:"next_hop"`
	Gateway  topology.Address `yaml:"gateway"`
	Distance int              `yaml:"distance"`
	Static   bool             `yaml:"static"`
}

// SelfRoute is the trivial record a gateway holds for itself.
func SelfRoute(gw topology.Address) RouteRecord {
	return RouteRecord{Source: gw, NextHop: gw, Gateway: gw, Distance: 0, Static: true}
}

// IsSelf reports whether the record routes a node to itself.
func (r RouteRecord) IsSelf() bool { return r.Source == r.NextHop }

func (r RouteRecord) String() string {
	kind := "dynamic"
	if r.Static {
		kind = "static"
	}
	return fmt.Sprintf("%d => %d (gw %d, dist %d, %s)", r.Source, r.NextHop, r.Gateway, r.Distance, kind)
}

// Mode selects the route construction algorithm.
type Mode string

const (
	// ModeStatic follows fixed point-to-point connections.
	ModeStatic Mode = "static"
	// ModeDynamic runs a shortest-hop search over the radio neighbour graph.
	ModeDynamic Mode = "dynamic"
)

var validModes = map[Mode]bool{
	ModeStatic:  true,
	ModeDynamic: true,
}

// IsValidMode returns true if the given string names a routing mode.
func IsValidMode(mode string) bool {
	return validModes[Mode(mode)]
}
