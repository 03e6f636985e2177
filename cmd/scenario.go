package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/senere/senere/sim"
	"github.com/senere/senere/sim/topology"
)

// Scenario is the structure of a scenario file. Both top-level sections must
// be listed to satisfy KnownFields(true) strict parsing.
type Scenario struct {
	Simulation sim.Config    `yaml:"simulation"`
	Topology   topology.Spec `yaml:"topology"`
}

// LoadScenario reads a scenario file. Fields missing from the simulation
// section keep their sim.DefaultConfig values; unknown fields are errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return parseScenario(data)
}

func parseScenario(data []byte) (*Scenario, error) {
	sc := Scenario{Simulation: sim.DefaultConfig()}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}
	if len(sc.Topology.Nodes) == 0 {
		return nil, fmt.Errorf("scenario has no topology nodes")
	}
	return &sc, nil
}

// Build validates the simulation section and constructs the topology.
func (sc *Scenario) Build() (*topology.Topology, sim.Config, error) {
	if err := sc.Simulation.Validate(); err != nil {
		return nil, sim.Config{}, err
	}
	topo, err := topology.FromSpec(sc.Topology)
	if err != nil {
		return nil, sim.Config{}, fmt.Errorf("build topology: %w", err)
	}
	return topo, sc.Simulation, nil
}
