package motion

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"gonum.org/v1/gonum/spatial/r3"
)

func abs(x float64) float64 {
	return math.Abs(x)
}

// onePose builds a single-joint pose.
func onePose(x, y float64) Pose {
	return Pose{Offsets: []r3.Vec{{X: x, Y: y}}, Angles: []float64{0}}
}

func TestProcedural_Deterministic(t *testing.T) {
	src, err := NewProcedural([]MotionParams{
		{Baseline: r3.Vec{Y: 1}, Amplitude: r3.Vec{X: 0.3, Y: 0.05}, Frequency: 1.3, Phase: 0.4},
		{Baseline: r3.Vec{X: -0.1}, Amplitude: r3.Vec{Z: 0.2}, Frequency: 2, AngleBase: 0.1, AngleAmp: 0.5},
	})
	if err != nil {
		t.Fatalf("NewProcedural() error = %v", err)
	}

	for _, ts := range []float64{0, 0.001, 0.5, 1.7, 13.25, 1e4, -3} {
		a := src.Sample(ts)
		b := src.Sample(ts)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Sample(%v) not deterministic: %+v vs %+v", ts, a, b)
		}
	}
}

func TestProcedural_WalkingPeriodicity(t *testing.T) {
	// Left ankle swinging 0.4 m at 1 Hz.
	src, err := NewProcedural([]MotionParams{
		{Baseline: r3.Vec{X: -0.1, Y: 0.05}, Amplitude: r3.Vec{X: 0.4}, Frequency: 1, Phase: 0.3},
	})
	if err != nil {
		t.Fatalf("NewProcedural() error = %v", err)
	}

	x0 := src.Sample(0).Offsets[0].X
	x1 := src.Sample(1.0).Offsets[0].X
	if abs(x0-x1) > 1e-12 {
		t.Errorf("ankle x at t=0 (%v) and t=1s (%v) differ", x0, x1)
	}

	// Half a cycle later the swing is mirrored about the baseline.
	xh := src.Sample(0.5).Offsets[0].X
	if abs((x0+0.1)+(xh+0.1)) > 1e-12 {
		t.Errorf("half-cycle swing not mirrored: %v vs %v", x0, xh)
	}
}

func TestProcedural_ZeroFrequency(t *testing.T) {
	base := r3.Vec{X: 0.2, Y: 1.1, Z: -0.05}
	src, err := NewProcedural([]MotionParams{
		{Baseline: base, Amplitude: r3.Vec{X: 1, Y: 1}, Frequency: 0, Phase: 1.2, AngleBase: 0.7, AngleAmp: 3},
	})
	if err != nil {
		t.Fatalf("NewProcedural() error = %v", err)
	}

	for _, ts := range []float64{0, 0.3, 99} {
		p := src.Sample(ts)
		if p.Offsets[0] != base {
			t.Errorf("Sample(%v) = %+v, want baseline %+v", ts, p.Offsets[0], base)
		}
		if p.Angles[0] != 0.7 {
			t.Errorf("Sample(%v) angle = %v, want 0.7", ts, p.Angles[0])
		}
	}
}

func TestProcedural_StaticJoint(t *testing.T) {
	base := r3.Vec{X: 0.1, Y: 0.95}
	src, _ := NewProcedural([]MotionParams{{Baseline: base, Frequency: 1}})
	for _, ts := range []float64{0, 0.25, 0.8} {
		if got := src.Sample(ts).Offsets[0]; got != base {
			t.Errorf("static joint moved at t=%v: %+v", ts, got)
		}
	}
}

func TestProcedural_FreshPoses(t *testing.T) {
	src, _ := NewProcedural([]MotionParams{{Baseline: r3.Vec{Y: 1}}})
	a := src.Sample(0)
	a.Offsets[0].Y = 42
	if src.Sample(0).Offsets[0].Y != 1 {
		t.Error("mutating a sampled pose leaked into the source")
	}
}

func TestNewProcedural_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		params []MotionParams
	}{
		{"empty", nil},
		{"negative frequency", []MotionParams{{Frequency: -1}}},
		{"nan frequency", []MotionParams{{Frequency: math.NaN()}}},
		{"inf frequency", []MotionParams{{Frequency: math.Inf(1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProcedural(tt.params); !errors.Is(err, errs.ErrConfig) {
				t.Errorf("expected ConfigError, got %v", err)
			}
		})
	}
}

func bowSet() KeyframeSet {
	return KeyframeSet{
		Frames: []Keyframe{
			{Name: "stand", Phase: 0, Pose: onePose(0, 1.65)},
			{Name: "bowed", Phase: 0.5, Pose: onePose(0.3, 1.3)},
			{Name: "stand", Phase: 1, Pose: onePose(0, 1.65)},
		},
		Cyclic: true,
	}
}

func TestKeyframe_PassesThroughKeyframes(t *testing.T) {
	set := KeyframeSet{
		Frames: []Keyframe{
			{Name: "a", Phase: 0, Pose: onePose(0.1, 1)},
			{Name: "b", Phase: 0.25, Pose: onePose(0.3, 0.7)},
			{Name: "c", Phase: 0.5, Pose: onePose(-0.2, 0.9)},
			{Name: "d", Phase: 0.75, Pose: onePose(0.05, 1.2)},
		},
		Cyclic: true,
	}

	for _, easing := range []Easing{EaseLinear, EaseCosine, EaseHermite} {
		src, err := NewKeyframeSource(set, 2, easing)
		if err != nil {
			t.Fatalf("NewKeyframeSource(%v) error = %v", easing, err)
		}
		for _, kf := range set.Frames {
			got := src.Sample(kf.Phase * 2)
			if !reflect.DeepEqual(got, kf.Pose) {
				t.Errorf("%v: Sample at keyframe %q = %+v, want %+v", easing, kf.Name, got, kf.Pose)
			}
			if got := src.SamplePhase(kf.Phase); !reflect.DeepEqual(got, kf.Pose) {
				t.Errorf("%v: SamplePhase(%v) = %+v, want %+v", easing, kf.Phase, got, kf.Pose)
			}
		}
	}
}

func TestKeyframe_BowingMidTransition(t *testing.T) {
	for _, easing := range []Easing{EaseLinear, EaseCosine, EaseHermite} {
		src, err := NewKeyframeSource(bowSet(), 1, easing)
		if err != nil {
			t.Fatalf("NewKeyframeSource() error = %v", err)
		}
		y := src.Sample(0.25).Offsets[0].Y
		if !(y > 1.3 && y < 1.65) {
			t.Errorf("%v: head y at 0.25 = %v, want strictly between 1.3 and 1.65", easing, y)
		}
	}
}

func TestKeyframe_SeamExact(t *testing.T) {
	src, err := NewKeyframeSource(bowSet(), 4, EaseCosine)
	if err != nil {
		t.Fatalf("NewKeyframeSource() error = %v", err)
	}

	// t = 2 s is exactly the "bowed" keyframe (phase 0.5).
	got := src.Sample(2)
	if got.Offsets[0] != (r3.Vec{X: 0.3, Y: 1.3}) {
		t.Errorf("seam sample = %+v, want bowed pose", got.Offsets[0])
	}

	// t = 4 s wraps to phase 0.
	if got := src.Sample(4); got.Offsets[0] != (r3.Vec{Y: 1.65}) {
		t.Errorf("wrap sample = %+v, want stand pose", got.Offsets[0])
	}
	if got := src.Final(); got.Offsets[0] != (r3.Vec{Y: 1.65}) {
		t.Errorf("Final() = %+v, want stand pose", got.Offsets[0])
	}
}

func TestKeyframe_CosineEasing(t *testing.T) {
	src, _ := NewKeyframeSource(bowSet(), 1, EaseCosine)
	// u = 0.5 within the first segment: cosine easing is also 0.5.
	y := src.Sample(0.25).Offsets[0].Y
	if abs(y-1.475) > 1e-12 {
		t.Errorf("cosine midpoint y = %v, want 1.475", y)
	}
	// u = 0.25: eased value is 0.5 - 0.5*cos(pi/4).
	e := 0.5 - 0.5*math.Cos(math.Pi/4)
	y = src.Sample(0.125).Offsets[0].Y
	if want := 1.65 + e*(1.3-1.65); abs(y-want) > 1e-12 {
		t.Errorf("cosine quarter y = %v, want %v", y, want)
	}
}

func TestKeyframe_CyclicWrap(t *testing.T) {
	set := KeyframeSet{
		Frames: []Keyframe{
			{Name: "a", Phase: 0.2, Pose: onePose(0, 0)},
			{Name: "b", Phase: 0.6, Pose: onePose(1, 0)},
		},
		Cyclic: true,
	}
	src, err := NewKeyframeSource(set, 1, EaseLinear)
	if err != nil {
		t.Fatalf("NewKeyframeSource() error = %v", err)
	}

	// Halfway from b (0.6) back round to a (1.2).
	if x := src.SamplePhase(0.9).Offsets[0].X; abs(x-0.5) > 1e-12 {
		t.Errorf("wrap after last: x = %v, want 0.5", x)
	}
	// Before the first keyframe we are still on the b->a segment.
	if x := src.SamplePhase(0.1).Offsets[0].X; abs(x-(1-(0.5/0.6))) > 1e-12 {
		t.Errorf("wrap before first: x = %v, want %v", x, 1-(0.5/0.6))
	}
}

func TestKeyframe_NonCyclicHolds(t *testing.T) {
	set := KeyframeSet{
		Frames: []Keyframe{
			{Name: "a", Phase: 0.2, Pose: onePose(0, 0)},
			{Name: "b", Phase: 0.6, Pose: onePose(1, 0)},
		},
	}
	src, err := NewKeyframeSource(set, 1, EaseHermite)
	if err != nil {
		t.Fatalf("NewKeyframeSource() error = %v", err)
	}
	if x := src.SamplePhase(0.1).Offsets[0].X; x != 0 {
		t.Errorf("before first: x = %v, want 0", x)
	}
	if x := src.SamplePhase(0.9).Offsets[0].X; x != 1 {
		t.Errorf("after last: x = %v, want 1", x)
	}
	if x := src.Final().Offsets[0].X; x != 1 {
		t.Errorf("Final(): x = %v, want 1", x)
	}
}

func TestKeyframe_NegativeTime(t *testing.T) {
	src, _ := NewKeyframeSource(bowSet(), 1, EaseLinear)
	a := src.Sample(-0.25)
	b := src.Sample(0.75)
	if abs(a.Offsets[0].Y-b.Offsets[0].Y) > 1e-12 {
		t.Errorf("Sample(-0.25) = %v, Sample(0.75) = %v", a.Offsets[0], b.Offsets[0])
	}
}

func TestKeyframe_HermiteSmooth(t *testing.T) {
	set := KeyframeSet{
		Frames: []Keyframe{
			{Name: "a", Phase: 0, Pose: onePose(0, 0)},
			{Name: "b", Phase: 0.25, Pose: onePose(1, 0)},
			{Name: "c", Phase: 0.5, Pose: onePose(2, 0)},
			{Name: "d", Phase: 0.75, Pose: onePose(3, 0)},
		},
	}
	src, _ := NewKeyframeSource(set, 1, EaseHermite)

	// Collinear, evenly spaced keys: Catmull-Rom reproduces the line.
	x := src.SamplePhase(0.375).Offsets[0].X
	if abs(x-1.5) > 1e-12 {
		t.Errorf("hermite on a line: x = %v, want 1.5", x)
	}
}

func TestNewKeyframeSource_Invalid(t *testing.T) {
	two := func(p0, p1 float64) KeyframeSet {
		return KeyframeSet{Frames: []Keyframe{
			{Name: "a", Phase: p0, Pose: onePose(0, 0)},
			{Name: "b", Phase: p1, Pose: onePose(1, 1)},
		}}
	}
	mismatched := two(0, 1)
	mismatched.Frames[1].Pose = NewPose(3)

	tests := []struct {
		name   string
		set    KeyframeSet
		period float64
	}{
		{"one keyframe", KeyframeSet{Frames: []Keyframe{{Phase: 0, Pose: onePose(0, 0)}}}, 1},
		{"no keyframes", KeyframeSet{}, 1},
		{"equal phases", two(0.5, 0.5), 1},
		{"decreasing phases", two(0.7, 0.2), 1},
		{"phase above 1", two(0, 1.5), 1},
		{"negative phase", two(-0.1, 0.5), 1},
		{"zero period", two(0, 1), 0},
		{"negative period", two(0, 1), -2},
		{"joint mismatch", mismatched, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewKeyframeSource(tt.set, tt.period, EaseLinear); !errors.Is(err, errs.ErrConfig) {
				t.Errorf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestEasing(t *testing.T) {
	if EaseCosine.Apply(0) != 0 || EaseCosine.Apply(1) != 1 {
		t.Error("cosine easing must fix the endpoints")
	}
	if abs(EaseCosine.Apply(0.5)-0.5) > 1e-12 {
		t.Error("cosine easing midpoint should be 0.5")
	}
	if EaseLinear.Apply(0.3) != 0.3 {
		t.Error("linear easing should be identity")
	}
	if EaseLinear.Apply(2) != 1 || EaseLinear.Apply(-1) != 0 {
		t.Error("easing input should be clamped to [0,1]")
	}

	for name, want := range map[string]Easing{"linear": EaseLinear, "Cosine": EaseCosine, "hermite": EaseHermite, "": EaseLinear} {
		got, err := ParseEasing(name)
		if err != nil || got != want {
			t.Errorf("ParseEasing(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseEasing("bouncy"); !errors.Is(err, errs.ErrConfig) {
		t.Errorf("ParseEasing(bouncy) error = %v, want ConfigError", err)
	}
}
