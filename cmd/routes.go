package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/senere/senere/sim/network"
	"github.com/senere/senere/sim/routing"
	"github.com/senere/senere/sim/topology"
)

var (
	offAddresses []int  // Sensors to power off before printing routes
	orderField   string // Routing table sort field
)

// routesCmd prints the routing table of the scenario topology
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Build and print the routing table of a scenario",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		sc, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Unable to load scenario: %v", err)
		}
		topo, err := topology.FromSpec(sc.Topology)
		if err != nil {
			logrus.Fatalf("Invalid topology: %v", err)
		}
		m := sc.Simulation.Mode
		if cmd.Flags().Changed("mode") {
			m = routing.Mode(mode)
		}
		if err := printRoutes(os.Stdout, topo, m, offAddresses, orderField); err != nil {
			logrus.Fatalf("Unable to build routes: %v", err)
		}
	},
}

// printRoutes builds the routing table with off sensors excluded and prints
// it ordered by field, followed by the offline sensors.
func printRoutes(w io.Writer, topo *topology.Topology, m routing.Mode, off []int, field string) error {
	if err := checkMode(string(m)); err != nil {
		return err
	}
	if !routing.IsValidOrderField(field) {
		return fmt.Errorf("unknown order field %q", field)
	}
	state, err := network.NewState(topo, m)
	if err != nil {
		return err
	}
	for _, a := range off {
		if err := state.TurnOff(topology.Address(a)); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "=== Routing Table (%s) ===\n", m)
	fmt.Fprintf(w, "%-8s %-8s %-8s %-8s %s\n", "SOURCE", "NEXT_HOP", "GATEWAY", "DISTANCE", "STATIC")
	for _, r := range state.Table().All(routing.OrderField(field)) {
		fmt.Fprintf(w, "%-8d %-8d %-8d %-8d %t\n", r.Source, r.NextHop, r.Gateway, r.Distance, r.Static)
	}
	fmt.Fprintf(w, "Offline sensors: %v\n", state.OfflineNodes())
	return nil
}

func init() {
	routesCmd.Flags().IntSliceVar(&offAddresses, "off", nil, "Comma-separated sensor addresses to power off")
	routesCmd.Flags().StringVar(&orderField, "order", string(routing.OrderSource), "Sort field (source, next_hop, gateway, distance, static)")
}
