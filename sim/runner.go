package sim

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/senere/senere/sim/topology"
	"github.com/senere/senere/sim/trace"
)

// RunOnce executes run number i of cfg: seed cfg.Seed+i, fresh network
// state and samplers.
func RunOnce(topo *topology.Topology, cfg Config, i int, metrics *Metrics) (trace.RunResult, error) {
	samplers, err := NewSamplers(cfg, NewPartitionedRNG(RunKey(cfg.Seed, i)))
	if err != nil {
		return trace.RunResult{}, err
	}
	sim, err := NewSimulator(topo, cfg, samplers, metrics)
	if err != nil {
		return trace.RunResult{}, err
	}
	res, err := sim.Run()
	if err != nil {
		return trace.RunResult{}, err
	}
	metrics.incRuns()
	return res, nil
}

// RunMany executes cfg.Runs independent runs over topo, at most cfg.Workers
// at a time (one per CPU when zero). Results are indexed by run number.
// The topology is only read and may be shared by the runs.
func RunMany(ctx context.Context, topo *topology.Topology, cfg Config, metrics *Metrics) ([]trace.RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	logrus.Infof("Starting %d run(s) in %s mode, horizon %v, %d worker(s)", cfg.Runs, cfg.Mode, cfg.Horizon, workers)

	results := make([]trace.RunResult, cfg.Runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cfg.Runs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := RunOnce(topo, cfg, i, metrics)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			logrus.Debugf("run %d finished: %d failures, %d repairs", i, res.Failures, res.Repairs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logrus.Infof("Finished %d run(s)", cfg.Runs)
	return results, nil
}

// Simulate runs every run of cfg and aggregates the results.
func Simulate(ctx context.Context, topo *topology.Topology, cfg Config, metrics *Metrics) (*trace.Summary, error) {
	results, err := RunMany(ctx, topo, cfg, metrics)
	if err != nil {
		return nil, err
	}
	return trace.Aggregate(results)
}
