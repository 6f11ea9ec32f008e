package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int64", int64(-100), "-100"},
		{"max int64", int64(9223372036854775807), "9223372036854775807"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"int64 slice", []int64{3, 1, 2}, "[3,1,2]"},
		{"string slice", []string{"a", "b"}, `["a","b"]`},
		{"coord", Coord{Row: 1, Col: 2}, `{"col":2,"row":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": 1,
		"alpha": 2,
		"beta":  map[string]any{"y": 1, "x": 2},
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":{"x":2,"y":1},"zebra":1}`, string(result))
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as a surrogate pair (0xD83D...) which sorts before
	// U+FF5E in UTF-16 even though its UTF-8 form sorts after.
	obj := map[string]any{
		"\uFF5E":     1,
		"\U0001F600": 2,
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uFF5E\":1}", string(result))
}

func TestMarshalCanonicalStringEscaping(t *testing.T) {
	result, err := MarshalCanonical("a<b>&\"c\"\\\n \x01")
	require.NoError(t, err)
	assert.Equal(t, "\"a<b>&\\\"c\\\"\\\\\\n \\u0001\"", string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	result, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(result))
}

func TestMarshalCanonicalRejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.ErrorContains(t, err, "null")

	_, err = MarshalCanonical(1.5)
	assert.ErrorContains(t, err, "floats")

	_, err = MarshalCanonical(map[string]any{"x": []any{nil}})
	assert.ErrorContains(t, err, "null")

	_, err = MarshalCanonical(struct{}{})
	assert.ErrorContains(t, err, "unsupported")
}

func TestSortSnapshotCanonical(t *testing.T) {
	snap := SortSnapshot{
		Values:    []int64{3, 5},
		Tags:      []Tag{TagActive, TagSettled},
		Milestone: true,
	}

	result, err := MarshalCanonical(snap)
	require.NoError(t, err)
	assert.Equal(t, `{"milestone":true,"tags":["active","settled"],"values":[3,5]}`, string(result))
}

func TestSearchSnapshotCanonical(t *testing.T) {
	visited := NewPredecessors(1, 2)
	visited.Set(Coord{Row: 0, Col: 0}, Coord{Row: 0, Col: 0})
	snap := SearchSnapshot{
		Current:  Coord{Row: 0, Col: 0},
		Frontier: []Coord{{Row: 0, Col: 1}},
		Visited:  visited,
	}

	result, err := MarshalCanonical(snap)
	require.NoError(t, err)
	assert.Equal(t,
		`{"current":{"col":0,"row":0},"frontier":[{"col":1,"row":0}],"visited":{"cols":2,"prev":[0,-1],"rows":1}}`,
		string(result))
}

func TestOutcomeCanonicalOmitsElapsed(t *testing.T) {
	a := Outcome{Success: true, Final: []int64{1}, Steps: 2}
	b := a
	a.Metrics.Elapsed = 5
	b.Metrics.Elapsed = 9000

	ja, err := MarshalCanonical(a)
	require.NoError(t, err)
	jb, err := MarshalCanonical(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
	assert.Equal(t,
		`{"final":[1],"metrics":{"accesses":0,"comparisons":0,"expanded":0,"swaps":0},"steps":2,"success":true}`,
		string(ja))
}
