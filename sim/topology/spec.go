package topology

import "fmt"

// NodeSpec describes one node in a scenario file.
type NodeSpec struct {
	Address    Address `yaml:"address"`
	Type       Kind    `yaml:"type"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	RadioRange float64 `yaml:"radio_range,omitempty"` // 0 = DefaultRadioRange
}

// Spec is the serialized form of a topology.
type Spec struct {
	Nodes       []NodeSpec   `yaml:"nodes"`
	Connections [][2]Address `yaml:"connections,omitempty"` // [from, to]
}

// FromSpec builds a topology, placing nodes in declaration order.
func FromSpec(spec Spec) (*Topology, error) {
	t := New()
	for _, ns := range spec.Nodes {
		r := ns.RadioRange
		if r == 0 {
			r = DefaultRadioRange
		}
		n := Node{Address: ns.Address, Kind: ns.Type, Pos: Position{X: ns.X, Y: ns.Y}, RadioRange: r}
		if err := t.AddNode(n); err != nil {
			return nil, fmt.Errorf("building topology: %w", err)
		}
	}
	for _, c := range spec.Connections {
		if err := t.Connect(c[0], c[1]); err != nil {
			return nil, fmt.Errorf("building topology: %w", err)
		}
	}
	return t, nil
}
