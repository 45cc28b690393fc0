// Package projection maps resolved 3-D joint positions onto the display plane.
package projection

import (
	"math"
	"strings"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mode selects the camera model.
type Mode int

const (
	// Orthographic drops the depth axis.
	Orthographic Mode = iota

	// Perspective scales x and y by f/(f - z) before dropping depth, so
	// points nearer the viewer (larger z) spread out.
	Perspective
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Orthographic:
		return "orthographic"
	case Perspective:
		return "perspective"
	default:
		return "unknown"
	}
}

// ParseMode maps a name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ortho", "orthographic":
		return Orthographic, nil
	case "perspective", "persp":
		return Perspective, nil
	default:
		return Orthographic, errs.Config("projection", "unknown mode %q", name)
	}
}

// Viewport maps projected body coordinates (meters, y up) to display
// units. The zero Viewport is the identity.
type Viewport struct {
	// Scale is display units per meter. Zero means 1.
	Scale float64

	// Origin is where the body-frame origin lands on the display.
	Origin r2.Vec

	// FlipY makes y grow downward, as on most screens.
	FlipY bool
}

// Apply maps one projected point to display coordinates.
func (v Viewport) Apply(p r2.Vec) r2.Vec {
	scale := v.Scale
	if scale == 0 {
		scale = 1
	}
	y := p.Y * scale
	if v.FlipY {
		y = -y
	}
	return r2.Vec{X: v.Origin.X + p.X*scale, Y: v.Origin.Y + y}
}

// Projector converts 3-D points to 2-D display points.
type Projector struct {
	mode     Mode
	focal    float64
	viewport Viewport
}

// New builds a projector. Perspective mode needs a positive, finite focal
// distance placed beyond the expected depth range of the body.
func New(mode Mode, focal float64, vp Viewport) (*Projector, error) {
	switch mode {
	case Orthographic:
	case Perspective:
		if focal <= 0 || math.IsNaN(focal) || math.IsInf(focal, 0) {
			return nil, errs.Projection("invalid focal distance %v", focal)
		}
	default:
		return nil, errs.Config("projection", "unknown mode %d", mode)
	}
	if vp.Scale < 0 || math.IsNaN(vp.Scale) {
		return nil, errs.Config("projection", "invalid viewport scale %v", vp.Scale)
	}
	return &Projector{mode: mode, focal: focal, viewport: vp}, nil
}

// Mode returns the camera model.
func (p *Projector) Mode() Mode {
	return p.mode
}

// Focal returns the focal distance.
func (p *Projector) Focal() float64 {
	return p.focal
}

// Viewport returns the display mapping.
func (p *Projector) Viewport() Viewport {
	return p.viewport
}

// ToPlane projects points. In perspective mode it fails with a
// ProjectionError if any point lies on the focal plane (depth == focal).
func (p *Projector) ToPlane(points []r3.Vec) ([]r2.Vec, error) {
	out := make([]r2.Vec, len(points))
	for i, pt := range points {
		q := r2.Vec{X: pt.X, Y: pt.Y}
		if p.mode == Perspective {
			denom := p.focal - pt.Z
			if denom == 0 {
				return nil, errs.Projection("point %d depth %v equals focal distance", i, pt.Z)
			}
			q = r2.Scale(p.focal/denom, q)
		}
		out[i] = p.viewport.Apply(q)
	}
	return out, nil
}
