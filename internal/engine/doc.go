// Package engine implements the instrumentation layer shared by the sort and
// search engines.
//
// ARCHITECTURE:
//
// Single Writer, Many Readers:
// Every run owns one RunHandle. Exactly one goroutine (the algorithm) appends
// snapshots through a Recorder; any number of readers (replay controllers,
// HTTP streams, tests) observe the growing trace. This ensures:
//   - Snapshot index = execution order
//   - Recorded snapshots are never mutated
//   - Readers never block the writer for longer than a slice append
//
// Run Lifecycle:
//  1. NewRunHandle() creates the handle in state Idle
//  2. Start() moves it to Running (once)
//  3. The algorithm records snapshots; each Record is a suspension point
//     where cancellation is checked and the Pacer delay applies
//  4. Finish() moves it to Completed, or to Cancelled if the cancellation
//     flag was set, and publishes the Outcome
//
// CRITICAL PATTERNS:
//
// Monotone Cancellation:
// The cancellation flag only goes false -> true. Once set, Append refuses
// further snapshots, so a cancelled run never grows after the flag is seen.
//
// Logical Ordering:
// Runs are stamped with a seq from Clock.Next(). Wall-clock time is only
// used for the Elapsed metric, never for ordering.
//
// One Run per Subject:
// Slot.Replace cancels the previous run and waits for its terminal state
// before the caller touches the shared subject again.
package engine
