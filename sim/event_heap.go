package sim

import "container/heap"

type queuedEvent struct {
	ev  Event
	seq uint64
}

// EventHeap is a priority queue of events with deterministic ordering:
// timestamp first, then the order in which events were scheduled.
type EventHeap struct {
	events  []queuedEvent
	nextSeq uint64
}

// NewEventHeap creates an empty event heap.
func NewEventHeap() *EventHeap {
	h := &EventHeap{events: make([]queuedEvent, 0)}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *EventHeap) Len() int { return len(h.events) }

// Less implements heap.Interface. Same-time events keep FIFO order.
func (h *EventHeap) Less(i, j int) bool {
	ei, ej := h.events[i], h.events[j]
	if ti, tj := ei.ev.Timestamp(), ej.ev.Timestamp(); ti != tj {
		return ti < tj
	}
	return ei.seq < ej.seq
}

// Swap implements heap.Interface
func (h *EventHeap) Swap(i, j int) { h.events[i], h.events[j] = h.events[j], h.events[i] }

// Push implements heap.Interface; use Schedule instead.
func (h *EventHeap) Push(x any) {
	h.events = append(h.events, x.(queuedEvent))
}

// Pop implements heap.Interface; use PopNext instead.
func (h *EventHeap) Pop() any {
	old := h.events
	n := len(old)
	item := old[n-1]
	h.events = old[0 : n-1]
	return item
}

// Schedule adds an event to the heap.
func (h *EventHeap) Schedule(e Event) {
	heap.Push(h, queuedEvent{ev: e, seq: h.nextSeq})
	h.nextSeq++
}

// PopNext removes and returns the next event, or nil if the heap is empty.
func (h *EventHeap) PopNext() Event {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(queuedEvent).ev
}

// Peek returns the next event without removing it.
func (h *EventHeap) Peek() Event {
	if h.Len() == 0 {
		return nil
	}
	return h.events[0].ev
}
