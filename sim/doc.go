// Package sim provides the discrete-event failure/repair engine for senere.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: the two events that drive a run (FailureEvent, RepairFinishedEvent)
//   - simulator.go: the event loop and the repair crew state machine (idle, repairing)
//   - runner.go: independent runs in parallel and their aggregation
//
// # Architecture
//
// The sim package owns time and randomness; the network model lives in
// sub-packages:
//   - sim/topology/: nodes, positions, fixed connections, radio neighbours
//   - sim/routing/: static and dynamic route building, the routing table
//   - sim/network/: device on/off registry and the NetworkState that rebuilds routes
//   - sim/trace/: step-function traces, time-weighted PMFs, cross-run aggregation
//
// A run is single-threaded. Every failure turns a sensor off and rebuilds the
// routing table from the set of powered-off sensors, so relays cut off
// upstream go offline with it. Once at least RepairThreshold sensors are
// offline the crew starts repairing failed sensors one at a time until none
// is left.
//
// Randomness comes from a PartitionedRNG keyed by the run seed: failure,
// repair and crew-pick draws use separate streams, so runs with the same seed
// are reproducible.
package sim
