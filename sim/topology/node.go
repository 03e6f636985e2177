// Package topology holds the static description of a sensor network: placed
// nodes, their fixed point-to-point connections, and the radio-range
// neighbour graph derived from node positions.
//
// A Topology is read-only once a simulation starts; several independent runs
// may share one instance.
package topology

import (
	"fmt"
	"math"
)

// Address uniquely identifies a node within a topology.
type Address int

// Kind is the declared role of a node.
type Kind string

const (
	// KindSensor is a relay/leaf node that may fail.
	KindSensor Kind = "sensor"
	// KindGateway is a sink node; always on, root of routing.
	KindGateway Kind = "gateway"
)

// DefaultRadioRange is used by FromSpec when a node declares no range.
const DefaultRadioRange = 100.0

// Position is a point on the 2D placement plane.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Distance returns the Euclidean distance between two positions.
func (p Position) Distance(q Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Position) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", p.X, p.Y)
}

// Node is a placed network station.
type Node struct {
	Address    Address
	Kind       Kind
	Pos        Position
	RadioRange float64
}

// IsGateway reports whether the node is declared as a gateway.
func (n Node) IsGateway() bool { return n.Kind == KindGateway }

// CanReach reports whether n and m are within each other's radio range.
func (n Node) CanReach(m Node) bool {
	return n.Pos.Distance(m.Pos) <= math.Min(n.RadioRange, m.RadioRange)
}

func (n Node) String() string {
	return fmt.Sprintf("%d: %s at %s, radio_range=%.2f", n.Address, n.Kind, n.Pos, n.RadioRange)
}
