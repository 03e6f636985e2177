package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senere/senere/sim/topology"
)

func TestEventHeap_TimestampOrdering(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(&FailureEvent{time: 100, Address: 1})
	h.Schedule(&FailureEvent{time: 50, Address: 2})
	h.Schedule(&RepairFinishedEvent{time: 150, Address: 3})

	var got []float64
	for h.Len() > 0 {
		got = append(got, h.PopNext().Timestamp())
	}
	assert.Equal(t, []float64{50, 100, 150}, got)
}

func TestEventHeap_SameTimestampIsFIFO(t *testing.T) {
	// GIVEN events at the same time scheduled in a known order
	h := NewEventHeap()
	for _, addr := range []topology.Address{7, 3, 9, 1, 5} {
		h.Schedule(&FailureEvent{time: 10, Address: addr})
	}
	h.Schedule(&RepairFinishedEvent{time: 10, Address: 2})

	// WHEN popping them
	var got []topology.Address
	for h.Len() > 0 {
		switch ev := h.PopNext().(type) {
		case *FailureEvent:
			got = append(got, ev.Address)
		case *RepairFinishedEvent:
			got = append(got, ev.Address)
		}
	}

	// THEN scheduling order is preserved
	assert.Equal(t, []topology.Address{7, 3, 9, 1, 5, 2}, got)
}

func TestEventHeap_PeekAndEmpty(t *testing.T) {
	h := NewEventHeap()
	assert.Nil(t, h.Peek())
	assert.Nil(t, h.PopNext())

	h.Schedule(&FailureEvent{time: 3, Address: 1})
	require.NotNil(t, h.Peek())
	assert.Equal(t, 3.0, h.Peek().Timestamp())
	assert.Equal(t, 1, h.Len(), "Peek does not remove")
}
