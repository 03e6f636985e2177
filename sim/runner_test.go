package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/senere/senere/sim/routing"
)

func TestRunMany_IndependentOfWorkerCount(t *testing.T) {
	defer goleak.VerifyNone(t)

	topo := timelineTopology(t)
	cfg := DefaultConfig()
	cfg.Runs = 6
	cfg.Horizon = 2000
	cfg.RepairThreshold = 2

	cfg.Workers = 1
	serial, err := RunMany(context.Background(), topo, cfg, nil)
	require.NoError(t, err)

	cfg.Workers = 4
	parallel, err := RunMany(context.Background(), topo, cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
	require.Len(t, serial, 6)
	for i, res := range serial {
		single, err := RunOnce(topo, cfg, i, nil)
		require.NoError(t, err)
		assert.Equal(t, single, res, "run %d uses seed+%d", i, i)
	}
}

func TestRunMany_CountsRuns(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := newTestMetrics(t)
	cfg := timelineConfig(routing.ModeStatic)
	cfg.Runs = 3
	cfg.Workers = 2

	results, err := RunMany(context.Background(), timelineTopology(t), cfg, m)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 3.0, counterValue(m.RunsTotal))
	assert.Equal(t, 15.0, counterValue(m.FailuresTotal))
}

func TestRunMany_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultConfig()
	cfg.Runs = 4
	_, err := RunMany(ctx, timelineTopology(t), cfg, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunMany_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Runs = 0
	_, err := RunMany(context.Background(), timelineTopology(t), cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSimulate_AggregatesTimeline(t *testing.T) {
	// The crew's pick only decides between leaf sensors here, so every run
	// yields the same counts and the aggregate equals a single run.
	cfg := timelineConfig(routing.ModeStatic)
	cfg.Runs = 2

	summary, err := Simulate(context.Background(), timelineTopology(t), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Runs)
	assert.InDeltaSlice(t, []float64{0.36, 0.54, 0.10}, summary.FailedPMF, 1e-9)
	assert.InDelta(t, 0.79, summary.OperableFraction, 1e-9)
	assert.InDelta(t, 5.0, summary.MeanFailures, 1e-9)
}
