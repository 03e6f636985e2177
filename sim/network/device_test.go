package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senere/senere/sim/topology"
)

func TestNewRegistry_UnrecognizedNodeType(t *testing.T) {
	nodes := []topology.Node{
		{Address: 1, Kind: topology.KindGateway, RadioRange: 1},
		{Address: 2, Kind: "relay", RadioRange: 1},
	}
	reg, err := NewRegistry(nodes)
	assert.ErrorIs(t, err, ErrUnrecognizedNodeType)
	assert.Nil(t, reg)
}

func TestRegistry_OnOff(t *testing.T) {
	reg, err := NewRegistry([]topology.Node{
		{Address: 1, Kind: topology.KindGateway, RadioRange: 1},
		{Address: 2, Kind: topology.KindSensor, RadioRange: 1},
	})
	require.NoError(t, err)

	on, err := reg.IsOn(2)
	require.NoError(t, err)
	assert.True(t, on, "sensors start on")

	require.NoError(t, reg.TurnOff(2))
	on, _ = reg.IsOn(2)
	assert.False(t, on)
	assert.Equal(t, []topology.Address{2}, reg.Off())

	require.NoError(t, reg.TurnOn(2))
	on, _ = reg.IsOn(2)
	assert.True(t, on)
	assert.Empty(t, reg.Off())
}

func TestRegistry_GatewayAlwaysOn(t *testing.T) {
	reg, err := NewRegistry([]topology.Node{{Address: 1, Kind: topology.KindGateway, RadioRange: 1}})
	require.NoError(t, err)

	assert.ErrorIs(t, reg.TurnOff(1), ErrGatewayAlwaysOn)
	require.NoError(t, reg.TurnOn(1))
	on, err := reg.IsOn(1)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestRegistry_UnknownAddress(t *testing.T) {
	reg, err := NewRegistry(nil)
	require.NoError(t, err)

	_, err = reg.IsOn(7)
	assert.ErrorIs(t, err, topology.ErrAddressNotFound)
	assert.ErrorIs(t, reg.TurnOn(7), topology.ErrAddressNotFound)
	assert.ErrorIs(t, reg.TurnOff(7), topology.ErrAddressNotFound)
}

func TestRegistry_Addresses(t *testing.T) {
	reg, err := NewRegistry([]topology.Node{
		{Address: 5, Kind: topology.KindSensor, RadioRange: 1},
		{Address: 1, Kind: topology.KindGateway, RadioRange: 1},
		{Address: 3, Kind: topology.KindSensor, RadioRange: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []topology.Address{3, 5}, reg.Addresses(topology.KindSensor))
	assert.Equal(t, []topology.Address{1}, reg.Addresses(topology.KindGateway))
}
