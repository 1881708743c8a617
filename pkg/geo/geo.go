// Package geo converts between map-space pixel points and the geographic
// coordinate space the host mapping library renders in.
//
// Marker coordinates and tile templates are authored in a flat pixel
// coordinate system. The host library only understands latitude/longitude,
// so every position crosses this boundary exactly once in each direction.
package geo

import "math"

// Point is a position in map space: the pixel coordinate system in which
// tiles and markers are authored. Immutable value type.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Coord is a position in the host library's geographic coordinate space.
type Coord struct {
	Lat float64
	Lng float64
}

// Projection maps between the two spaces for one map instance. The scale
// factor is 2^baseZoom, where base zoom is the zoom level at which one
// map-space pixel equals one rendered tile pixel.
type Projection struct {
	scale float64
}

// NewProjection creates a projection for the given base zoom level.
func NewProjection(baseZoom int) Projection {
	return Projection{scale: math.Pow(2, float64(baseZoom))}
}

// Scale returns the projection's scale factor.
func (p Projection) Scale() float64 {
	return p.scale
}

// Coord converts a map-space point to geographic coordinates.
// Y grows downward in map space, so latitude is negated.
func (p Projection) Coord(pt Point) Coord {
	return Coord{
		Lat: -pt.Y / p.scale,
		Lng: pt.X / p.scale,
	}
}

// Point converts geographic coordinates back to a map-space point.
// Exact inverse of Coord to floating-point precision.
func (p Projection) Point(c Coord) Point {
	return Point{
		X: c.Lng * p.scale,
		Y: -c.Lat * p.scale,
	}
}
