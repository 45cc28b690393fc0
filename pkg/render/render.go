// Package render maps frames onto discrete display grids.
//
// Frames arrive in body units (meters, y up). A Bounds window selects the
// part of the plane to show; Rasterize maps it onto a grid of cols x rows
// cells with row 0 at the top. The terminal display uses character
// cells; the video writer uses pixels.
package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teslashibe/go-pointlight/pkg/errs"
)

// Bounds is an axis-aligned window on the projection plane.
type Bounds struct {
	Min, Max r2.Vec
}

// DefaultBounds frames a standing figure with room for travelling actions.
var DefaultBounds = Bounds{
	Min: r2.Vec{X: -2, Y: -0.3},
	Max: r2.Vec{X: 2, Y: 2.1},
}

// Width returns Max.X - Min.X.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns Max.Y - Min.Y.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Validate rejects empty or non-finite windows.
func (b Bounds) Validate() error {
	for _, v := range []float64{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errs.Config("render", "bounds must be finite")
		}
	}
	if b.Width() <= 0 || b.Height() <= 0 {
		return errs.Config("render", "empty bounds %v..%v", b.Min, b.Max)
	}
	return nil
}

// Fit grows b about its center until width/height equals aspect.
func Fit(b Bounds, aspect float64) Bounds {
	if aspect <= 0 || b.Height() <= 0 {
		return b
	}
	c := r2.Scale(0.5, r2.Add(b.Min, b.Max))
	w, h := b.Width(), b.Height()
	if w/h < aspect {
		w = h * aspect
	} else {
		h = w / aspect
	}
	half := r2.Vec{X: w / 2, Y: h / 2}
	return Bounds{Min: r2.Sub(c, half), Max: r2.Add(c, half)}
}

// Cell is one marker placed on the grid.
type Cell struct {
	Col, Row int

	// Index is the marker's position in the frame.
	Index int
}

// Rasterize places each point on a cols x rows grid covering b. Points
// outside b or not finite are skipped.
func Rasterize(points [][2]float64, b Bounds, cols, rows int) []Cell {
	if cols <= 0 || rows <= 0 || b.Width() <= 0 || b.Height() <= 0 {
		return nil
	}
	cells := make([]Cell, 0, len(points))
	for i, p := range points {
		u := (p[0] - b.Min.X) / b.Width()
		v := (b.Max.Y - p[1]) / b.Height()
		if !(u >= 0 && u <= 1 && v >= 0 && v <= 1) {
			continue
		}
		cells = append(cells, Cell{
			Col:   min(int(u*float64(cols)), cols-1),
			Row:   min(int(v*float64(rows)), rows-1),
			Index: i,
		})
	}
	return cells
}
