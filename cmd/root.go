package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/senere/senere/sim"
	"github.com/senere/senere/sim/routing"
)

var (
	// CLI flags shared by run and routes
	scenarioPath string // Scenario YAML file (simulation + topology)
	logLevel     string // Log verbosity level
	mode         string // Routing mode: static or dynamic

	// CLI flags for run
	seed            int64   // Master seed; run i uses seed+i
	horizon         float64 // Simulated time limit per run
	numRuns         int     // Number of independent runs
	workers         int     // Parallel runs (0 = one per CPU)
	repairThreshold int     // Offline sensors that trigger a repair
	failureMean     float64 // Mean time to failure (exponential)
	repairMean      float64 // Mean repair duration (exponential)
	consRepairMean  float64 // Mean duration of each follow-up repair (exponential)
	resultsPath     string  // Optional YAML file for the aggregated summary
	metricsPath     string  // Optional Prometheus text file with run counters
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "senere",
	Short: "Failure and repair simulator for gateway-rooted sensor networks",
}

// runCmd simulates failures and repairs over the scenario topology
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the failure/repair simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		sc, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Unable to load scenario: %v", err)
		}
		applyRunOverrides(cmd, &sc.Simulation)
		topo, cfg, err := sc.Build()
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		reg := prometheus.NewRegistry()
		metrics, err := sim.NewMetrics(reg)
		if err != nil {
			logrus.Fatalf("Unable to register metrics: %v", err)
		}

		logrus.Infof("Starting simulation: %d nodes, mode=%s, K=%d, horizon=%v, runs=%d",
			topo.Len(), cfg.Mode, cfg.RepairThreshold, cfg.Horizon, cfg.Runs)
		startTime := time.Now()

		summary, err := sim.Simulate(context.Background(), topo, cfg, metrics)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		printSummary(os.Stdout, summary, time.Since(startTime))
		if resultsPath != "" {
			if err := writeSummaryYAML(resultsPath, summary); err != nil {
				logrus.Fatalf("Unable to save results: %v", err)
			}
			logrus.Infof("Results written to %s", resultsPath)
		}
		if metricsPath != "" {
			if err := writeMetrics(metricsPath, metrics.Gatherer()); err != nil {
				logrus.Fatalf("Unable to save metrics: %v", err)
			}
			logrus.Infof("Metrics written to %s", metricsPath)
		}
		logrus.Info("Simulation complete.")
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// applyRunOverrides copies flags the user actually set over the scenario
// values. Unset flags never overwrite the file.
func applyRunOverrides(cmd *cobra.Command, cfg *sim.Config) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = routing.Mode(mode)
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("runs") {
		cfg.Runs = numRuns
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("repair-threshold") {
		cfg.RepairThreshold = repairThreshold
	}
	if flags.Changed("failure-mean") {
		cfg.FailureInterval = sim.Exponential(failureMean)
	}
	if flags.Changed("repair-mean") {
		cfg.RepairInterval = sim.Exponential(repairMean)
	}
	if flags.Changed("cons-repair-mean") {
		cfg.ConsRepairInterval = sim.Exponential(consRepairMean)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	defaults := sim.DefaultConfig()

	rootCmd.PersistentFlags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file with simulation and topology sections")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", string(defaults.Mode), "Routing mode (static, dynamic)")
	_ = rootCmd.MarkPersistentFlagRequired("scenario")

	runCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Master seed; run i uses seed+i")
	runCmd.Flags().Float64Var(&horizon, "horizon", defaults.Horizon, "Simulated time limit of each run")
	runCmd.Flags().IntVar(&numRuns, "runs", defaults.Runs, "Number of independent runs")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Runs executed in parallel (0 = one per CPU)")
	runCmd.Flags().IntVar(&repairThreshold, "repair-threshold", defaults.RepairThreshold, "Offline sensors that trigger a repair (K)")
	runCmd.Flags().Float64Var(&failureMean, "failure-mean", defaults.FailureInterval.Mean, "Mean time to failure of a sensor")
	runCmd.Flags().Float64Var(&repairMean, "repair-mean", defaults.RepairInterval.Mean, "Mean duration of the first repair")
	runCmd.Flags().Float64Var(&consRepairMean, "cons-repair-mean", defaults.ConsRepairInterval.Mean, "Mean duration of each follow-up repair")
	runCmd.Flags().StringVar(&resultsPath, "results", "", "Write the aggregated summary to this YAML file")
	runCmd.Flags().StringVar(&metricsPath, "metrics-out", "", "Write failure, repair and rebuild counters to this file in Prometheus text format")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(routesCmd)
}

func checkMode(m string) error {
	if !routing.IsValidMode(m) {
		return fmt.Errorf("%w: %q", routing.ErrUnknownMode, m)
	}
	return nil
}
