package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSortTrace() ([]SortSnapshot, Outcome) {
	snaps := []SortSnapshot{
		{Values: []int64{2, 1}, Tags: []Tag{TagDefault, TagDefault}, Milestone: true},
		{Values: []int64{1, 2}, Tags: []Tag{TagSettled, TagSettled}},
	}
	return snaps, Outcome{Success: true, Final: []int64{1, 2}, Order: []int{1, 0}, Steps: 2}
}

func TestSortTraceHashDeterminism(t *testing.T) {
	snaps, outcome := sampleSortTrace()

	h1, err := SortTraceHash(snaps, outcome)
	require.NoError(t, err)
	h2, err := SortTraceHash(snaps, outcome)
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "trace hash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestSortTraceHashChangesWithContent(t *testing.T) {
	snaps, outcome := sampleSortTrace()
	base, err := SortTraceHash(snaps, outcome)
	require.NoError(t, err)

	changed := []SortSnapshot{snaps[0], {Values: []int64{1, 2}, Tags: []Tag{TagActive, TagSettled}}}
	other, err := SortTraceHash(changed, outcome)
	require.NoError(t, err)
	assert.NotEqual(t, base, other)

	outcome.Success = false
	other, err = SortTraceHash(snaps, outcome)
	require.NoError(t, err)
	assert.NotEqual(t, base, other)
}

func TestTraceHashDomainSeparation(t *testing.T) {
	// Empty traces have identical canonical bytes; only the domain differs.
	sortHash, err := SortTraceHash(nil, Outcome{})
	require.NoError(t, err)
	searchHash, err := SearchTraceHash(nil, Outcome{})
	require.NoError(t, err)
	assert.NotEqual(t, sortHash, searchHash)
}

func TestCanonicalTraceLayout(t *testing.T) {
	snaps, outcome := sampleSortTrace()
	data, err := CanonicalTrace(snaps[:1], outcome)
	require.NoError(t, err)
	assert.Equal(t,
		`{"outcome":{"final":[1,2],"metrics":{"accesses":0,"comparisons":0,"expanded":0,"swaps":0},"order":[1,0],"steps":2,"success":true},"snapshots":[{"milestone":true,"tags":["default","default"],"values":[2,1]}]}`,
		string(data))
}
