// Package testutil provides deterministic helpers shared by package tests:
// pacers that step or cancel runs on cue, grid builders and fixed run IDs.
//
// testutil must not import internal/engine so that engine tests can use it.
package testutil
