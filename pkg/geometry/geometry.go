package geometry

import "math"

// BaselineSize is the side length of the normalized coordinate space in
// which template window geometry is authored. Region coordinates are
// expressed against this baseline regardless of the template's actual
// pixel resolution.
const BaselineSize = 980

// Region is a rectangular window in baseline coordinates.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Rect is a rectangular area in native pixel coordinates.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return float64(r.X) + float64(r.W)/2, float64(r.Y) + float64(r.H)/2
}

// Contains reports whether the point (x, y) falls inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= float64(r.X) && x < float64(r.X+r.W) &&
		y >= float64(r.Y) && y < float64(r.Y+r.H)
}

// Area returns the area of the rect in pixels.
func (r Rect) Area() int {
	return r.W * r.H
}

// ScaleX returns the horizontal baseline-to-native scale factor for a
// template of native width w.
func ScaleX(w int) float64 {
	return float64(w) / BaselineSize
}

// ScaleY returns the vertical baseline-to-native scale factor for a
// template of native height h.
func ScaleY(h int) float64 {
	return float64(h) / BaselineSize
}

// Map scales a baseline region onto a template's native pixel space.
// X and Y axes scale independently; each coordinate rounds to the
// nearest integer pixel. Pure function with no side effects; callers
// must re-map whenever the template image (and so its native size)
// changes.
func Map(nativeW, nativeH int, r Region) Rect {
	sx := ScaleX(nativeW)
	sy := ScaleY(nativeH)
	return Rect{
		X: int(math.Round(float64(r.X) * sx)),
		Y: int(math.Round(float64(r.Y) * sy)),
		W: int(math.Round(float64(r.W) * sx)),
		H: int(math.Round(float64(r.H) * sy)),
	}
}

// InBounds reports whether the region, once mapped onto a nativeW×nativeH
// template, stays within the template bounds.
func InBounds(nativeW, nativeH int, r Region) bool {
	m := Map(nativeW, nativeH, r)
	return m.X >= 0 && m.Y >= 0 && m.X+m.W <= nativeW && m.Y+m.H <= nativeH
}
