package scrub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGeometry = Geometry{TrackWidth: 400, TrackHeight: 44, HandleSize: Size{Width: 20, Height: 20}}

func TestProjectTicks(t *testing.T) {
	clock := NewClock(100)
	markers := NewMarkerIndex([]SectionMarker{{Time: 75}, {Time: 25}, {Time: 150}, {Time: -1}})

	l := Project(clock, markers, Idle(), testGeometry, DefaultMinTouchTarget)
	require.Len(t, l.Ticks, 2)
	assert.Equal(t, Tick{Index: 1, Fraction: 0.25, X: 10 + 0.25*380}, l.Ticks[0])
	assert.Equal(t, Tick{Index: 2, Fraction: 0.75, X: 10 + 0.75*380}, l.Ticks[1])
}

func TestProjectZeroDuration(t *testing.T) {
	clock := NewClock(0)
	markers := NewMarkerIndex([]SectionMarker{{Time: 0}, {Time: 5}})

	l := Project(clock, markers, Scrubbing(0), testGeometry, DefaultMinTouchTarget)
	assert.Empty(t, l.Ticks)
	assert.NotNil(t, l.Ticks)
	assert.Nil(t, l.Highlight)
	assert.Equal(t, 0.0, l.Progress)
	assert.Equal(t, 10.0, l.HandleX)
}

func TestProjectHandle(t *testing.T) {
	clock := NewClock(100)
	clock.SetPosition(50)

	l := Project(clock, NewMarkerIndex(nil), Idle(), testGeometry, DefaultMinTouchTarget)
	assert.Equal(t, 0.5, l.Progress)
	assert.Equal(t, 200.0, l.HandleX)
	assert.Equal(t, Rect{X: 190, Y: 12, Width: 20, Height: 20}, l.HandleFrame)
	assert.Equal(t, Rect{X: 178, Y: 0, Width: 44, Height: 44}, l.TouchTarget)
	assert.Equal(t, "idle", l.Phase)
}

func TestHighlightOnlyWhileScrubbing(t *testing.T) {
	clock := NewClock(100)
	clock.SetPosition(40)
	markers := NewMarkerIndex([]SectionMarker{{Time: 20}, {Time: 60}})

	assert.Nil(t, Project(clock, markers, Idle(), testGeometry, 44).Highlight)
	assert.Nil(t, Project(clock, markers, MaybeScrubbing(3), testGeometry, 44).Highlight)
	assert.Nil(t, Project(clock, NewMarkerIndex(nil), Scrubbing(0), testGeometry, 44).Highlight)

	h := Project(clock, markers, Scrubbing(0), testGeometry, 44).Highlight
	require.NotNil(t, h)
	assert.Equal(t, Highlight{Start: 0.2, End: 0.6}, *h)
}

func TestHighlightEdges(t *testing.T) {
	clock := NewClock(100)
	markers := NewMarkerIndex([]SectionMarker{{Time: 20}, {Time: 60}})

	clock.SetPosition(10)
	h := Project(clock, markers, Scrubbing(0), testGeometry, 44).Highlight
	require.NotNil(t, h)
	assert.Equal(t, Highlight{Start: 0, End: 0.2, StartsAtEdge: true}, *h)

	clock.SetPosition(90)
	h = Project(clock, markers, Scrubbing(0), testGeometry, 44).Highlight
	require.NotNil(t, h)
	assert.Equal(t, Highlight{Start: 0.6, End: 1, EndsAtEdge: true}, *h)
}

func TestHighlightOnMarker(t *testing.T) {
	clock := NewClock(100)
	markers := NewMarkerIndex([]SectionMarker{{Time: 0}, {Time: 50}})

	h := Project(clock, markers, Scrubbing(0), testGeometry, 44).Highlight
	require.NotNil(t, h)
	assert.Equal(t, Highlight{Start: 0, End: 0.5}, *h)

	clock.SetPosition(50)
	h = Project(clock, markers, Scrubbing(0), testGeometry, 44).Highlight
	require.NotNil(t, h)
	assert.Equal(t, Highlight{Start: 0.5, End: 1, EndsAtEdge: true}, *h)
}

func TestEngineLayoutFollowsGesture(t *testing.T) {
	e, _, _ := newTestEngine(t, scenarioOptions())

	assert.Nil(t, e.Layout().Highlight)
	e.PointerDown(1, Point{X: 10, Y: trackY})
	l := e.Layout()
	assert.Equal(t, "scrubbing", l.Phase)
	require.NotNil(t, l.Highlight)
	assert.Equal(t, Highlight{Start: 0, End: 0.5, StartsAtEdge: true}, *l.Highlight)

	e.PointerMove(1, Point{X: 390, Y: trackY})
	l = e.Layout()
	assert.Equal(t, 1.0, l.Progress)
	assert.Equal(t, 390.0, l.HandleX)

	e.PointerUp(1)
	assert.Nil(t, e.Layout().Highlight)
}

func TestLayoutJSON(t *testing.T) {
	clock := NewClock(10)
	l := Project(clock, NewMarkerIndex(nil), Idle(), testGeometry, 44)
	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ticks":[]`)
	assert.NotContains(t, string(data), "highlight")
}
