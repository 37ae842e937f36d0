package scrub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerIndexSortsStable(t *testing.T) {
	idx := NewMarkerIndex([]SectionMarker{
		{Time: 30, Title: "c"},
		{Time: 10, Title: "a"},
		{Time: 30, Title: "b"},
		{Time: 20},
	})
	got := idx.Markers()
	require.Len(t, got, 4)
	assert.Equal(t, []SectionMarker{
		{Time: 10, Title: "a"},
		{Time: 20},
		{Time: 30, Title: "c"},
		{Time: 30, Title: "b"},
	}, got)
}

func TestMarkerIndexDoesNotAliasInput(t *testing.T) {
	in := []SectionMarker{{Time: 2}, {Time: 1}}
	idx := NewMarkerIndex(in)
	assert.Equal(t, 2.0, in[0].Time)

	out := idx.Markers()
	out[0].Time = 99
	assert.Equal(t, 1.0, idx.At(0).Time)
}

func TestPrecedingIndex(t *testing.T) {
	idx := NewMarkerIndex([]SectionMarker{{Time: 10}, {Time: 20}, {Time: 30}})

	_, ok := idx.PrecedingIndex(5)
	assert.False(t, ok)
	_, ok = idx.PrecedingIndex(10)
	assert.False(t, ok, "a marker at the playhead does not precede it")

	i, ok := idx.PrecedingIndex(10.5)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = idx.PrecedingIndex(30.1)
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = NewMarkerIndex(nil).PrecedingIndex(100)
	assert.False(t, ok)
}

func TestCrossedBetweenDirection(t *testing.T) {
	idx := NewMarkerIndex([]SectionMarker{{Time: 50}})

	assert.True(t, idx.CrossedBetween(40, 60))
	assert.True(t, idx.CrossedBetween(60, 40))
	assert.True(t, idx.CrossedBetween(40, 50), "arriving on a marker counts")
	assert.False(t, idx.CrossedBetween(50, 60), "leaving a marker does not")
	assert.True(t, idx.CrossedBetween(60, 50))
	assert.False(t, idx.CrossedBetween(50, 40))
	assert.False(t, idx.CrossedBetween(10, 20))
	assert.False(t, idx.CrossedBetween(50, 50))
}

func TestCrossedBetweenAntisymmetric(t *testing.T) {
	sets := [][]SectionMarker{
		nil,
		{{Time: 0}},
		{{Time: 10}, {Time: 10}, {Time: 25}},
		{{Time: -5}, {Time: 3.5}, {Time: 80}},
	}
	points := []float64{-10, 0, 3.5, 10, 12, 25, 50, 80, 100}
	for _, markers := range sets {
		idx := NewMarkerIndex(markers)
		for _, a := range points {
			assert.False(t, idx.CrossedBetween(a, a))
			for _, b := range points {
				if a == b {
					continue
				}
				// Reversing the travel flips which boundary is inclusive, so
				// a crossing either way implies a marker in the closed range.
				fwd := idx.CrossedBetween(a, b)
				back := idx.CrossedBetween(b, a)
				if fwd || back {
					assert.True(t, hasMarkerWithin(markers, a, b), "a=%v b=%v", a, b)
				}
				if hasMarkerStrictlyBetween(markers, a, b) {
					assert.True(t, fwd && back, "a=%v b=%v", a, b)
				}
			}
		}
	}
}

func hasMarkerWithin(markers []SectionMarker, a, b float64) bool {
	if a > b {
		a, b = b, a
	}
	for _, m := range markers {
		if m.Time >= a && m.Time <= b {
			return true
		}
	}
	return false
}

func hasMarkerStrictlyBetween(markers []SectionMarker, a, b float64) bool {
	if a > b {
		a, b = b, a
	}
	for _, m := range markers {
		if m.Time > a && m.Time < b {
			return true
		}
	}
	return false
}
