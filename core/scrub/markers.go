package scrub

import "sort"

// SectionMarker is a point-in-time annotation on the timeline, such as a
// chapter boundary.
type SectionMarker struct {
	Time        float64 `json:"time"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
}

// MarkerIndex keeps markers sorted ascending by time. Markers sharing a time
// keep their assignment order.
type MarkerIndex struct {
	markers []SectionMarker
}

// NewMarkerIndex returns an index over a sorted copy of markers.
func NewMarkerIndex(markers []SectionMarker) *MarkerIndex {
	idx := &MarkerIndex{}
	idx.Set(markers)
	return idx
}

// Set replaces the markers with a sorted copy of list.
func (m *MarkerIndex) Set(list []SectionMarker) {
	m.markers = SortMarkers(list)
}

// SortMarkers returns a copy of list sorted by time, stable for equal times.
func SortMarkers(list []SectionMarker) []SectionMarker {
	sorted := make([]SectionMarker, len(list))
	copy(sorted, list)
	for i := range sorted {
		sorted[i].Time = sanitize(sorted[i].Time)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	return sorted
}

// Markers returns a copy of the sorted markers.
func (m *MarkerIndex) Markers() []SectionMarker {
	out := make([]SectionMarker, len(m.markers))
	copy(out, m.markers)
	return out
}

// Len returns the number of markers.
func (m *MarkerIndex) Len() int { return len(m.markers) }

// At returns the i-th marker in time order.
func (m *MarkerIndex) At(i int) SectionMarker { return m.markers[i] }

// PrecedingIndex returns the index of the last marker with time < t.
func (m *MarkerIndex) PrecedingIndex(t float64) (int, bool) {
	i := m.NextIndex(t) - 1
	if i < 0 {
		return -1, false
	}
	return i, true
}

// NextIndex returns the index of the first marker with time >= t, or Len()
// when there is none.
func (m *MarkerIndex) NextIndex(t float64) int {
	return sort.Search(len(m.markers), func(i int) bool {
		return m.markers[i].Time >= t
	})
}

// UpperIndex returns the index of the first marker with time > t, or Len()
// when there is none.
func (m *MarkerIndex) UpperIndex(t float64) int {
	return sort.Search(len(m.markers), func(i int) bool {
		return m.markers[i].Time > t
	})
}

// CrossedBetween reports whether moving from a to b passes a marker. The
// boundary on the arrival side counts, the departure side does not, so a
// marker is crossed once going forward and once coming back.
func (m *MarkerIndex) CrossedBetween(a, b float64) bool {
	if a == b {
		return false
	}
	for _, mk := range m.markers {
		if (a < mk.Time && mk.Time <= b) || (a > mk.Time && mk.Time >= b) {
			return true
		}
	}
	return false
}
