package topology

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAddressNotFound is returned when an address is not part of a topology
	// (or of any structure keyed by topology addresses).
	ErrAddressNotFound = errors.New("address not found")
	// ErrOutOfRange is returned when a fixed connection joins two nodes that
	// cannot hear each other.
	ErrOutOfRange = errors.New("nodes out of radio range")
	// ErrInvalidRadioRange is returned for a non-positive radio range.
	ErrInvalidRadioRange = errors.New("radio range must be positive")
)

// Connection is a fixed, directed link from a node to its designated next hop.
type Connection struct {
	From Address
	To   Address
}

// Topology stores nodes in insertion order plus at most one outgoing fixed
// connection per node. Insertion order drives every traversal so that route
// construction is deterministic.
type Topology struct {
	nodes       map[Address]Node
	order       []Address
	connections map[Address]Address
}

// New returns an empty topology.
func New() *Topology {
	return &Topology{
		nodes:       make(map[Address]Node),
		connections: make(map[Address]Address),
	}
}

// AddNode places a node. Re-adding an existing address replaces the node but
// keeps its original position in the traversal order.
func (t *Topology) AddNode(n Node) error {
	if !(n.RadioRange > 0) {
		return fmt.Errorf("node %d: %w, got %v", n.Address, ErrInvalidRadioRange, n.RadioRange)
	}
	if _, ok := t.nodes[n.Address]; !ok {
		t.order = append(t.order, n.Address)
	}
	t.nodes[n.Address] = n
	return nil
}

// AddNodes places several nodes, stopping at the first failure.
func (t *Topology) AddNodes(nodes ...Node) error {
	for _, n := range nodes {
		if err := t.AddNode(n); err != nil {
			return err
		}
	}
	return nil
}

// Connect sets the fixed next hop of from. A node has at most one outgoing
// connection, so connecting again replaces the previous one.
func (t *Topology) Connect(from, to Address) error {
	src, ok := t.nodes[from]
	if !ok {
		return fmt.Errorf("connect %d->%d: %d: %w", from, to, from, ErrAddressNotFound)
	}
	dst, ok := t.nodes[to]
	if !ok {
		return fmt.Errorf("connect %d->%d: %d: %w", from, to, to, ErrAddressNotFound)
	}
	if !src.CanReach(dst) {
		return fmt.Errorf("connect %d->%d: %w", from, to, ErrOutOfRange)
	}
	t.connections[from] = to
	return nil
}

// Disconnect removes the outgoing connection of from and returns the number
// of removed connections (0 or 1).
func (t *Topology) Disconnect(from Address) int {
	if _, ok := t.connections[from]; !ok {
		return 0
	}
	delete(t.connections, from)
	return 1
}

// Has reports whether the address belongs to the topology.
func (t *Topology) Has(addr Address) bool {
	_, ok := t.nodes[addr]
	return ok
}

// Len returns the number of nodes.
func (t *Topology) Len() int { return len(t.order) }

// Node returns the node with the given address.
func (t *Topology) Node(addr Address) (Node, error) {
	n, ok := t.nodes[addr]
	if !ok {
		return Node{}, fmt.Errorf("node %d: %w", addr, ErrAddressNotFound)
	}
	return n, nil
}

// Nodes returns all nodes in insertion order.
func (t *Topology) Nodes() []Node {
	out := make([]Node, 0, len(t.order))
	for _, addr := range t.order {
		out = append(out, t.nodes[addr])
	}
	return out
}

// Filter returns the nodes of the given kinds in insertion order. With no
// kinds all nodes are returned.
func (t *Topology) Filter(kinds ...Kind) []Node {
	if len(kinds) == 0 {
		return t.Nodes()
	}
	var out []Node
	for _, n := range t.Nodes() {
		for _, k := range kinds {
			if n.Kind == k {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// NextHop returns the fixed next hop of from, if any.
func (t *Topology) NextHop(from Address) (Address, bool) {
	to, ok := t.connections[from]
	return to, ok
}

// Connections returns all fixed connections ordered by source address.
func (t *Topology) Connections() []Connection {
	out := make([]Connection, 0, len(t.connections))
	for from, to := range t.connections {
		out = append(out, Connection{From: from, To: to})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

// Neighbours builds the undirected radio-range graph: a and b are neighbours
// iff their distance is within the smaller of the two radio ranges. Each call
// returns a fresh map the caller may mutate; lists follow insertion order.
func (t *Topology) Neighbours() map[Address][]Address {
	out := make(map[Address][]Address, len(t.order))
	for _, addr := range t.order {
		out[addr] = []Address{}
	}
	for i, a := range t.order {
		na := t.nodes[a]
		for _, b := range t.order[i+1:] {
			if na.CanReach(t.nodes[b]) {
				out[a] = append(out[a], b)
				out[b] = append(out[b], a)
			}
		}
	}
	return out
}

func (t *Topology) String() string {
	var sb strings.Builder
	sb.WriteString("NODES:\n")
	nodes := t.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Address < nodes[j].Address })
	for _, n := range nodes {
		fmt.Fprintf(&sb, "- %s\n", n)
	}
	sb.WriteString("CONNECTIONS:\n")
	for _, c := range t.Connections() {
		fmt.Fprintf(&sb, "- %d ==> %d\n", c.From, c.To)
	}
	return sb.String()
}
