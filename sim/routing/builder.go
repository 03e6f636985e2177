package routing

import (
	"errors"
	"fmt"

	"github.com/senere/senere/sim/topology"
)

// ErrUnknownMode is returned by Build for a mode it does not implement.
var ErrUnknownMode = errors.New("unknown routing mode")

// ExcludeSet holds addresses treated as removed (node and incident edges)
// for a single route computation.
type ExcludeSet map[topology.Address]struct{}

// NewExcludeSet builds an ExcludeSet from a list of addresses.
func NewExcludeSet(addrs ...topology.Address) ExcludeSet {
	s := make(ExcludeSet, len(addrs))
	for _, a := range addrs {
		s[a] = struct{}{}
	}
	return s
}

// Has reports whether addr is excluded. A nil set excludes nothing.
func (s ExcludeSet) Has(addr topology.Address) bool {
	_, ok := s[addr]
	return ok
}

// Build dispatches to the route builder for mode.
func Build(topo *topology.Topology, mode Mode, exclude ExcludeSet) ([]RouteRecord, error) {
	switch mode {
	case ModeStatic:
		return BuildStatic(topo, exclude), nil
	case ModeDynamic:
		return BuildDynamic(topo, exclude), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// BuildStatic derives routes from fixed connections. Starting from every
// gateway it walks connections backwards (to -> from) breadth-first, so each
// node routes to its fixed next hop with distance one more than that hop.
// Nodes that cannot reach a gateway through connections, including nodes
// stuck in a connection cycle, get no record.
//
// Routes are returned in emission order. A gateway never routes through
// another node, even if it declares a connection.
func BuildStatic(topo *topology.Topology, exclude ExcludeSet) []RouteRecord {
	var (
		gateways []topology.Address
		isGW     = make(map[topology.Address]bool)
	)
	for _, n := range topo.Nodes() {
		if exclude.Has(n.Address) {
			continue
		}
		if n.IsGateway() {
			gateways = append(gateways, n.Address)
			isGW[n.Address] = true
		}
	}
	if len(gateways) == 0 {
		return nil
	}

	// node -> nodes using it as their fixed next hop
	precursors := make(map[topology.Address][]topology.Address)
	for _, c := range topo.Connections() {
		if exclude.Has(c.From) || exclude.Has(c.To) || isGW[c.From] {
			continue
		}
		precursors[c.To] = append(precursors[c.To], c.From)
	}

	type visit struct {
		node, nextHop topology.Address
		distance      int
	}
	gatewayOf := make(map[topology.Address]topology.Address, len(gateways))
	queue := make([]visit, 0, len(gateways))
	for _, gw := range gateways {
		queue = append(queue, visit{node: gw, nextHop: gw})
		gatewayOf[gw] = gw
	}

	var routes []RouteRecord
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		gw := gatewayOf[v.nextHop]
		gatewayOf[v.node] = gw
		routes = append(routes, RouteRecord{
			Source:   v.node,
			NextHop:  v.nextHop,
			Gateway:  gw,
			Distance: v.distance,
			Static:   true,
		})
		// Every node has at most one outgoing connection, so precursor
		// fan-out is a forest and no node is queued twice.
		for _, p := range precursors[v.node] {
			queue = append(queue, visit{node: p, nextHop: v.node, distance: v.distance + 1})
		}
	}
	return routes
}

type mark uint8

const (
	notVisited mark = iota
	queued
	visited
	unreachable
)

// BuildDynamic assigns shortest-hop routes over the radio neighbour graph
// using a multi-source FIFO frontier rooted at the gateways. When a queued
// node is dequeued, its next hop is the already-routed neighbour with the
// smallest known distance (first one in neighbour order on ties).
//
// This is a frontier approximation, not a priority-queue Dijkstra: the
// result is deterministic for a fixed node order but minimal hop counts are
// not guaranteed in every topology.
func BuildDynamic(topo *topology.Topology, exclude ExcludeSet) []RouteRecord {
	neighbours := topo.Neighbours()
	for addr := range exclude {
		for _, other := range neighbours[addr] {
			neighbours[other] = without(neighbours[other], addr)
		}
		delete(neighbours, addr)
	}

	marks := make(map[topology.Address]mark)
	distance := make(map[topology.Address]int)
	gatewayOf := make(map[topology.Address]topology.Address)
	var (
		queue  []topology.Address
		routes []RouteRecord
	)

	for _, n := range topo.Filter(topology.KindGateway) {
		if exclude.Has(n.Address) {
			continue
		}
		gw := n.Address
		routes = append(routes, SelfRoute(gw))
		marks[gw] = visited
		distance[gw] = 0
		gatewayOf[gw] = gw
	}
	if len(routes) == 0 {
		return nil
	}
	// Gateways are marked first so that a gateway in range of another
	// gateway is never queued as a relay.
	for _, r := range routes {
		for _, v := range neighbours[r.Source] {
			if marks[v] == notVisited {
				marks[v] = queued
				queue = append(queue, v)
			}
		}
	}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		var (
			nextHop topology.Address
			found   bool
		)
		for _, v := range neighbours[node] {
			switch marks[v] {
			case notVisited:
				marks[v] = queued
				queue = append(queue, v)
			case visited:
				if !found || distance[v] < distance[nextHop] {
					nextHop, found = v, true
				}
			}
		}
		if !found {
			marks[node] = unreachable
			continue
		}
		d := distance[nextHop] + 1
		distance[node] = d
		gatewayOf[node] = gatewayOf[nextHop]
		marks[node] = visited
		routes = append(routes, RouteRecord{
			Source:   node,
			NextHop:  nextHop,
			Gateway:  gatewayOf[nextHop],
			Distance: d,
			Static:   false,
		})
	}
	return routes
}

func without(list []topology.Address, addr topology.Address) []topology.Address {
	out := list[:0:0]
	for _, a := range list {
		if a != addr {
			out = append(out, a)
		}
	}
	return out
}
