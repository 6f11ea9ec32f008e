// Package ir provides the shared data model for algotrace.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the data model the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - NO float types in recorded data - values are int64, durations are
//     serialized as integer seconds and nanoseconds
//   - Snapshots are immutable once recorded; every snapshot holds full copies
//   - All JSON tags use snake_case
//   - Trace order is append order, never wall-clock time
package ir
