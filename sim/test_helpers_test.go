package sim

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/senere/senere/sim/routing"
	"github.com/senere/senere/sim/topology"
)

// timelineTopology is G1 <- S2 <- S3 plus G1 <- S4. Radio range 6 makes the
// radio neighbours coincide with the fixed connections.
func timelineTopology(t *testing.T) *topology.Topology {
	t.Helper()
	topo := topology.New()
	require.NoError(t, topo.AddNodes(
		topology.Node{Address: 1, Kind: topology.KindGateway, Pos: topology.Position{X: 0, Y: 0}, RadioRange: 6},
		topology.Node{Address: 2, Kind: topology.KindSensor, Pos: topology.Position{X: 5, Y: 0}, RadioRange: 6},
		topology.Node{Address: 3, Kind: topology.KindSensor, Pos: topology.Position{X: 10, Y: 0}, RadioRange: 6},
		topology.Node{Address: 4, Kind: topology.KindSensor, Pos: topology.Position{X: 0, Y: 5}, RadioRange: 6},
	))
	require.NoError(t, topo.Connect(2, 1))
	require.NoError(t, topo.Connect(3, 2))
	require.NoError(t, topo.Connect(4, 1))
	return topo
}

func timelineConfig(mode routing.Mode) Config {
	return Config{
		Mode:               mode,
		RepairThreshold:    2,
		Horizon:            100,
		Runs:               1,
		Seed:               1,
		FailureInterval:    Sequence(10, 30, 50, 100),
		RepairInterval:     Constant(5),
		ConsRepairInterval: Constant(3),
	}
}

// timelineSamplers mirrors timelineConfig with a crew that always takes the
// earliest failed sensor.
func timelineSamplers() Samplers {
	return Samplers{
		Failure:    NewSequenceSampler(10, 30, 50, 100),
		Repair:     ConstantSampler(5),
		ConsRepair: ConstantSampler(3),
		Pick:       func(int) int { return 0 },
	}
}

func newTimelineSimulator(t *testing.T, mode routing.Mode) *Simulator {
	t.Helper()
	sim, err := NewSimulator(timelineTopology(t), timelineConfig(mode), timelineSamplers(), nil)
	require.NoError(t, err)
	return sim
}

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return m
}

func counterValue(c prometheus.Counter) float64 {
	return testutil.ToFloat64(c)
}
