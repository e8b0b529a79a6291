package posemath

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func vecApproxEqual(a, b Vector3, eps float64) bool {
	return approxEqual(a.X, b.X, eps) && approxEqual(a.Y, b.Y, eps) && approxEqual(a.Z, b.Z, eps)
}

func orientationApproxEqual(a, b Orientation, eps float64) bool {
	// A quaternion and its negation represent the same rotation.
	same := approxEqual(a.X, b.X, eps) && approxEqual(a.Y, b.Y, eps) &&
		approxEqual(a.Z, b.Z, eps) && approxEqual(a.W, b.W, eps)
	negated := approxEqual(a.X, -b.X, eps) && approxEqual(a.Y, -b.Y, eps) &&
		approxEqual(a.Z, -b.Z, eps) && approxEqual(a.W, -b.W, eps)
	return same || negated
}

func TestIdentityIsNormalized(t *testing.T) {
	if !IdentityOrientation.IsNormalized() {
		t.Error("identity orientation should be normalized")
	}
}

func TestIsNormalizedRejectsNonUnit(t *testing.T) {
	bad := Orientation{X: 1, Y: 1, Z: 1, W: 1} // norm = 2
	if bad.IsNormalized() {
		t.Error("non-unit quaternion reported as normalized")
	}
}

func TestComposeWithIdentityIsNoop(t *testing.T) {
	p := Pose{
		Orientation: Orientation{X: 0, Y: 0.7071, Z: 0, W: 0.7071},
		Position:    Vector3{X: 1, Y: 2, Z: 3},
	}
	got := Compose(p, IdentityPose)
	if !vecApproxEqual(got.Position, p.Position, 1e-4) {
		t.Errorf("Compose(p, Identity).Position = %v, want %v", got.Position, p.Position)
	}
	if !orientationApproxEqual(got.Orientation, p.Orientation, 1e-4) {
		t.Errorf("Compose(p, Identity).Orientation = %v, want %v", got.Orientation, p.Orientation)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	// A 90-degree rotation about Y, translated.
	p := Pose{
		Orientation: Orientation{X: 0, Y: 0.7071067811865476, Z: 0, W: 0.7071067811865476},
		Position:    Vector3{X: 1, Y: -2, Z: 0.5},
	}

	roundTrip := Compose(p, Invert(p))
	if !vecApproxEqual(roundTrip.Position, IdentityPose.Position, 1e-6) {
		t.Errorf("Compose(p, Invert(p)).Position = %v, want ~identity", roundTrip.Position)
	}
	if !orientationApproxEqual(roundTrip.Orientation, IdentityOrientation, 1e-6) {
		t.Errorf("Compose(p, Invert(p)).Orientation = %v, want ~identity", roundTrip.Orientation)
	}
}

func TestTransformRotatesThenTranslates(t *testing.T) {
	p := Pose{
		Orientation: Orientation{X: 0, Y: 0, Z: 0.7071067811865476, W: 0.7071067811865476},
		Position:    Vector3{X: 5, Y: 0, Z: 0},
	}
	v := Vector3{X: 1, Y: 0, Z: 0}

	got := p.Transform(v)
	// A 90-degree rotation about Z maps (1,0,0) to (0,1,0), then
	// translate by (5,0,0).
	want := Vector3{X: 5, Y: 1, Z: 0}
	if !vecApproxEqual(got, want, 1e-4) {
		t.Errorf("Transform = %v, want %v", got, want)
	}
}

func TestIsFinitePoseDetectsNaN(t *testing.T) {
	bad := Pose{
		Orientation: Orientation{X: math.NaN(), Y: 0, Z: 0, W: 1},
		Position:    Vector3{},
	}
	if IsFinitePose(bad) {
		t.Error("IsFinitePose should reject NaN orientation")
	}

	good := IdentityPose
	if !IsFinitePose(good) {
		t.Error("IsFinitePose should accept identity pose")
	}
}

func TestSubtractVelocity(t *testing.T) {
	a := Velocity{Linear: Vector3{X: 3, Y: 0, Z: 0}, Angular: Vector3{X: 0, Y: 1, Z: 0}}
	b := Velocity{Linear: Vector3{X: 1, Y: 0, Z: 0}, Angular: Vector3{X: 0, Y: 0.5, Z: 0}}

	got := SubtractVelocity(a, b)
	want := Velocity{Linear: Vector3{X: 2, Y: 0, Z: 0}, Angular: Vector3{X: 0, Y: 0.5, Z: 0}}
	if !vecApproxEqual(got.Linear, want.Linear, 1e-9) || !vecApproxEqual(got.Angular, want.Angular, 1e-9) {
		t.Errorf("SubtractVelocity = %+v, want %+v", got, want)
	}
}
