package scrub

import "math"

// Point is a location in track coordinates (origin at the track's top-left).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectCentered returns a rectangle of the given size centered on c.
func RectCentered(c Point, s Size) Rect {
	return Rect{X: c.X - s.Width/2, Y: c.Y - s.Height/2, Width: s.Width, Height: s.Height}
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Expanded grows r around its center so each side is at least min long.
func (r Rect) Expanded(min float64) Rect {
	s := Size{Width: math.Max(r.Width, min), Height: math.Max(r.Height, min)}
	return RectCentered(r.Center(), s)
}

// Geometry is what the renderer reports about the track before a layout pass.
type Geometry struct {
	TrackWidth  float64 `json:"trackWidth"`
	TrackHeight float64 `json:"trackHeight"`
	HandleSize  Size    `json:"handleSize"`
}

// Inset is the distance from either track edge to the handle center at the
// extremes: half the handle width.
func (g Geometry) Inset() float64 {
	return math.Max(0, g.HandleSize.Width) / 2
}

// UsableWidth is the span the handle center travels across.
func (g Geometry) UsableWidth() float64 {
	return g.TrackWidth - 2*g.Inset()
}

// fractionAt maps an x coordinate onto [0,1]-ish track progress. The result
// is not clamped; callers clamp through the clock.
func (g Geometry) fractionAt(x float64) float64 {
	w := g.UsableWidth()
	if w <= 0 {
		return 0
	}
	return (x - g.Inset()) / w
}

// xAt maps a progress fraction back to a track x coordinate.
func (g Geometry) xAt(fraction float64) float64 {
	w := g.UsableWidth()
	if w <= 0 {
		return g.Inset()
	}
	return g.Inset() + fraction*w
}
