package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senere/senere/sim/routing"
	"github.com/senere/senere/sim/topology"
)

func node(addr topology.Address, kind topology.Kind, x, y, r float64) topology.Node {
	return topology.Node{Address: addr, Kind: kind, Pos: topology.Position{X: x, Y: y}, RadioRange: r}
}

// chain is G1 <- 2 <- 3 <- 4, both wired and in radio range.
func chain(t *testing.T) *topology.Topology {
	t.Helper()
	topo := topology.New()
	require.NoError(t, topo.AddNodes(
		node(1, topology.KindGateway, 0, 0, 6),
		node(2, topology.KindSensor, 5, 0, 6),
		node(3, topology.KindSensor, 10, 0, 6),
		node(4, topology.KindSensor, 15, 0, 6),
	))
	require.NoError(t, topo.Connect(2, 1))
	require.NoError(t, topo.Connect(3, 2))
	require.NoError(t, topo.Connect(4, 3))
	return topo
}

// diamond: 4 reaches the gateway through 2 or 3 over radio, but is wired
// through 2 only.
func diamond(t *testing.T) *topology.Topology {
	t.Helper()
	topo := topology.New()
	require.NoError(t, topo.AddNodes(
		node(1, topology.KindGateway, 0, 0, 6),
		node(2, topology.KindSensor, -4, 4, 6),
		node(3, topology.KindSensor, 4, 4, 6),
		node(4, topology.KindSensor, 0, 8, 6),
	))
	require.NoError(t, topo.Connect(2, 1))
	require.NoError(t, topo.Connect(3, 1))
	require.NoError(t, topo.Connect(4, 2))
	return topo
}

func TestNewState_BuildsInitialTable(t *testing.T) {
	s, err := NewState(chain(t), routing.ModeStatic)
	require.NoError(t, err)

	assert.Equal(t, 4, s.Table().Len())
	assert.Empty(t, s.OfflineNodes())
	assert.Equal(t, []topology.Address{2, 3, 4}, s.Sensors())
	assert.Equal(t, []topology.Address{1}, s.Gateways())
	assert.Equal(t, routing.ModeStatic, s.Mode())
}

func TestNewState_UnrecognizedNodeType(t *testing.T) {
	topo := topology.New()
	require.NoError(t, topo.AddNode(node(1, "satellite", 0, 0, 1)))
	_, err := NewState(topo, routing.ModeStatic)
	assert.ErrorIs(t, err, ErrUnrecognizedNodeType)
}

func TestNewState_UnknownMode(t *testing.T) {
	_, err := NewState(chain(t), routing.Mode("flooding"))
	assert.ErrorIs(t, err, routing.ErrUnknownMode)
}

func TestState_TurnOff_Cascades(t *testing.T) {
	for _, mode := range []routing.Mode{routing.ModeStatic, routing.ModeDynamic} {
		t.Run(string(mode), func(t *testing.T) {
			s, err := NewState(chain(t), mode)
			require.NoError(t, err)

			require.NoError(t, s.TurnOff(2))

			assert.Equal(t, []routing.RouteRecord{routing.SelfRoute(1)}, s.Table().All(routing.OrderNone))
			assert.Equal(t, []topology.Address{2, 3, 4}, s.OfflineNodes())
			assert.Equal(t, []topology.Address{2}, s.FailedSensors())
		})
	}
}

func TestState_TurnOff_DynamicReroutes(t *testing.T) {
	s, err := NewState(diamond(t), routing.ModeDynamic)
	require.NoError(t, err)

	r, err := s.Table().Get(4)
	require.NoError(t, err)
	assert.Equal(t, topology.Address(2), r.NextHop)

	require.NoError(t, s.TurnOff(2))

	r, err = s.Table().Get(4)
	require.NoError(t, err)
	assert.Equal(t, routing.RouteRecord{Source: 4, NextHop: 3, Gateway: 1, Distance: 2}, r)
	assert.Equal(t, []topology.Address{2}, s.OfflineNodes())
}

func TestState_TurnOff_StaticDoesNotReroute(t *testing.T) {
	s, err := NewState(diamond(t), routing.ModeStatic)
	require.NoError(t, err)

	require.NoError(t, s.TurnOff(2))
	assert.Equal(t, []topology.Address{2, 4}, s.OfflineNodes())
}

func TestState_TurnOn_RequiresRebuild(t *testing.T) {
	s, err := NewState(chain(t), routing.ModeStatic)
	require.NoError(t, err)
	require.NoError(t, s.TurnOff(3))
	assert.Equal(t, []topology.Address{3, 4}, s.OfflineNodes())

	require.NoError(t, s.TurnOn(3))
	assert.Equal(t, []topology.Address{3, 4}, s.OfflineNodes(), "table unchanged until rebuild")
	assert.Empty(t, s.FailedSensors())

	require.NoError(t, s.BuildRoutingTable(routing.ModeStatic))
	assert.Empty(t, s.OfflineNodes())
}

func TestState_TurnOn_Many(t *testing.T) {
	s, err := NewState(chain(t), routing.ModeDynamic)
	require.NoError(t, err)
	require.NoError(t, s.TurnOff(2))
	require.NoError(t, s.TurnOff(4))

	require.NoError(t, s.TurnOn(2, 4))
	require.NoError(t, s.BuildRoutingTable(routing.ModeDynamic))
	assert.Empty(t, s.OfflineNodes())
	assert.Equal(t, 4, s.Table().Len())
}

func TestState_TurnOn_UnknownAddressChangesNothing(t *testing.T) {
	s, err := NewState(chain(t), routing.ModeStatic)
	require.NoError(t, err)
	require.NoError(t, s.TurnOff(2))

	err = s.TurnOn(2, 42)
	assert.ErrorIs(t, err, topology.ErrAddressNotFound)
	assert.Equal(t, []topology.Address{2}, s.FailedSensors())
}

func TestState_TurnOff_Gateway(t *testing.T) {
	s, err := NewState(chain(t), routing.ModeStatic)
	require.NoError(t, err)
	assert.ErrorIs(t, s.TurnOff(1), ErrGatewayAlwaysOn)
	assert.ErrorIs(t, s.TurnOff(99), topology.ErrAddressNotFound)
	assert.Equal(t, 4, s.Table().Len())
}

func TestState_BuildRoutingTable_SwitchesMode(t *testing.T) {
	s, err := NewState(diamond(t), routing.ModeStatic)
	require.NoError(t, err)
	require.NoError(t, s.BuildRoutingTable(routing.ModeDynamic))
	assert.Equal(t, routing.ModeDynamic, s.Mode())

	// the next TurnOff rebuild reroutes like dynamic mode does
	require.NoError(t, s.TurnOff(2))
	assert.True(t, s.Table().Has(4))
}

func TestState_BuildRoutingTable_Idempotent(t *testing.T) {
	s, err := NewState(diamond(t), routing.ModeDynamic)
	require.NoError(t, err)
	require.NoError(t, s.TurnOff(3))

	before := s.Table().All(routing.OrderNone)
	require.NoError(t, s.BuildRoutingTable(routing.ModeDynamic))
	assert.Equal(t, before, s.Table().All(routing.OrderNone))
}
