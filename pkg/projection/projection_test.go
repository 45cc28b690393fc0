package projection

import (
	"errors"
	"testing"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestOrthographic_DropsDepth(t *testing.T) {
	p, err := New(Orthographic, 0, Viewport{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := p.ToPlane([]r3.Vec{{X: 0.3, Y: 1.2}, {X: -0.1, Y: 0.4, Z: 2}})
	if err != nil {
		t.Fatalf("ToPlane() error = %v", err)
	}
	if got[0] != (r2.Vec{X: 0.3, Y: 1.2}) {
		t.Errorf("depth 0 point = %+v, want unchanged", got[0])
	}
	if got[1] != (r2.Vec{X: -0.1, Y: 0.4}) {
		t.Errorf("orthographic ignores depth, got %+v", got[1])
	}
}

func TestPerspective_Scale(t *testing.T) {
	p, err := New(Perspective, 5, Viewport{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := p.ToPlane([]r3.Vec{
		{X: 1, Y: 1},         // on the picture plane
		{X: 1, Y: 1, Z: 1},   // nearer: 5/4
		{X: 1, Y: 1, Z: -5},  // farther: 5/10
	})
	if err != nil {
		t.Fatalf("ToPlane() error = %v", err)
	}

	want := []r2.Vec{{X: 1, Y: 1}, {X: 1.25, Y: 1.25}, {X: 0.5, Y: 0.5}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPerspective_FocalPlaneFails(t *testing.T) {
	p, _ := New(Perspective, 2, Viewport{})
	_, err := p.ToPlane([]r3.Vec{{X: 0, Y: 1}, {X: 0.5, Y: 1, Z: 2}})
	if !errors.Is(err, errs.ErrProjection) {
		t.Fatalf("expected ProjectionError, got %v", err)
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New(Perspective, 0, Viewport{}); !errors.Is(err, errs.ErrProjection) {
		t.Errorf("zero focal: got %v", err)
	}
	if _, err := New(Perspective, -3, Viewport{}); !errors.Is(err, errs.ErrProjection) {
		t.Errorf("negative focal: got %v", err)
	}
	if _, err := New(Mode(7), 1, Viewport{}); !errors.Is(err, errs.ErrConfig) {
		t.Errorf("unknown mode: got %v", err)
	}
	if _, err := New(Orthographic, 0, Viewport{Scale: -1}); !errors.Is(err, errs.ErrConfig) {
		t.Errorf("negative scale: got %v", err)
	}
}

func TestViewport(t *testing.T) {
	vp := Viewport{Scale: 100, Origin: r2.Vec{X: 320, Y: 400}, FlipY: true}
	got := vp.Apply(r2.Vec{X: 0.5, Y: 1.5})
	if got != (r2.Vec{X: 370, Y: 250}) {
		t.Errorf("Apply() = %+v, want {370 250}", got)
	}
	if (Viewport{}).Apply(r2.Vec{X: 0.3, Y: -2}) != (r2.Vec{X: 0.3, Y: -2}) {
		t.Error("zero viewport should be identity")
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": Orthographic, "ortho": Orthographic, "Perspective": Perspective} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("fisheye"); !errors.Is(err, errs.ErrConfig) {
		t.Errorf("ParseMode(fisheye) error = %v", err)
	}
}
