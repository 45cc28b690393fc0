package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teslashibe/go-pointlight/pkg/errs"
)

func TestRasterize(t *testing.T) {
	b := Bounds{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 10, Y: 5}}
	points := [][2]float64{
		{0, 5},    // top left
		{10, 0},   // bottom right, clamped into the last cell
		{5, 2.5},  // center
		{11, 1},   // outside
		{math.NaN(), 1},
		{2.4, 0.9},
	}
	got := Rasterize(points, b, 10, 5)
	want := []Cell{
		{Col: 0, Row: 0, Index: 0},
		{Col: 9, Row: 4, Index: 1},
		{Col: 5, Row: 2, Index: 2},
		{Col: 2, Row: 4, Index: 5},
	}
	assert.Equal(t, want, got)
}

func TestRasterize_Empty(t *testing.T) {
	assert.Nil(t, Rasterize([][2]float64{{0, 0}}, DefaultBounds, 0, 10))
	assert.Nil(t, Rasterize([][2]float64{{0, 0}}, Bounds{}, 10, 10))
}

func TestFit(t *testing.T) {
	b := Bounds{Min: r2.Vec{X: -1, Y: 0}, Max: r2.Vec{X: 1, Y: 2}}

	wide := Fit(b, 2)
	assert.InDelta(t, 4, wide.Width(), 1e-12)
	assert.InDelta(t, 2, wide.Height(), 1e-12)
	assert.InDelta(t, -2, wide.Min.X, 1e-12)

	tall := Fit(b, 0.5)
	assert.InDelta(t, 2, tall.Width(), 1e-12)
	assert.InDelta(t, 4, tall.Height(), 1e-12)
	assert.InDelta(t, -1, tall.Min.Y, 1e-12)

	assert.Equal(t, b, Fit(b, 0))
}

func TestBounds_Validate(t *testing.T) {
	assert.NoError(t, DefaultBounds.Validate())
	assert.ErrorIs(t, Bounds{}.Validate(), errs.ErrConfig)
	assert.ErrorIs(t, Bounds{Max: r2.Vec{X: math.Inf(1), Y: 1}}.Validate(), errs.ErrConfig)
}
