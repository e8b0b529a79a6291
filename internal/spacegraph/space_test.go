package spacegraph

import (
	"math"
	"testing"

	"github.com/mbucchia/openxr-hostbridge/internal/config"
	"github.com/mbucchia/openxr-hostbridge/internal/posemath"
	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

func approxEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestMirrorForRightSide(t *testing.T) {
	p := posemath.Pose{
		Orientation: posemath.Orientation{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9},
		Position:    posemath.Vector3{X: 1, Y: 2, Z: 3},
	}
	m := mirrorForRightSide(p)
	if m.Position.X != -1 || m.Position.Y != 2 || m.Position.Z != 3 {
		t.Errorf("mirrored position = %+v, want X negated only", m.Position)
	}
	if m.Orientation.X != 0.1 || m.Orientation.Y != -0.2 || m.Orientation.Z != -0.3 {
		t.Errorf("mirrored orientation = %+v, want Y,Z negated only", m.Orientation)
	}
}

func TestSameReferenceOrAction(t *testing.T) {
	a := Space{Kind: KindReference, Reference: ReferenceLocal}
	b := Space{Kind: KindReference, Reference: ReferenceLocal}
	c := Space{Kind: KindReference, Reference: ReferenceStage}
	if !sameReferenceOrAction(a, b) {
		t.Error("two LOCAL reference spaces should compare equal")
	}
	if sameReferenceOrAction(a, c) {
		t.Error("LOCAL and STAGE should not compare equal")
	}

	d := Space{Kind: KindAction, Source: SourceGrip, Side: SideLeft}
	e := Space{Kind: KindAction, Source: SourceGrip, Side: SideLeft}
	f := Space{Kind: KindAction, Source: SourceGrip, Side: SideRight}
	if !sameReferenceOrAction(d, e) {
		t.Error("two identical action spaces should compare equal")
	}
	if sameReferenceOrAction(d, f) {
		t.Error("left and right grip spaces should not compare equal")
	}
}

func TestPoseOffsetFromConfigConvertsUnits(t *testing.T) {
	p := poseOffsetFromConfig(config.PoseOffset{XMM: 10, YMM: 20, ZMM: 30})
	if !approxEqual(p.Position.X, 0.01, 1e-9) || !approxEqual(p.Position.Y, 0.02, 1e-9) || !approxEqual(p.Position.Z, 0.03, 1e-9) {
		t.Errorf("position = %+v, want millimeters converted to meters", p.Position)
	}
}

func TestEulerXYZIdentityAtZero(t *testing.T) {
	q := posemath.EulerXYZToQuaternion(0, 0, 0)
	if !q.IsNormalized() {
		t.Error("identity euler angles should produce a normalized quaternion")
	}
	if math.Abs(q.W-1) > 1e-9 {
		t.Errorf("W = %v, want 1", q.W)
	}
}

func TestScaleIPDKeepsMidpointFixed(t *testing.T) {
	left := posemath.Pose{Position: posemath.Vector3{X: -0.03}}
	right := posemath.Pose{Position: posemath.Vector3{X: 0.03}}

	scaledLeft, scaledRight := scaleIPD(left, right, 2.0)

	mid := scaledLeft.Position.Add(scaledRight.Position).Scale(0.5)
	if !approxEqual(mid.X, 0, 1e-9) {
		t.Errorf("midpoint.X = %v, want 0", mid.X)
	}
	if !approxEqual(scaledLeft.Position.X, -0.015, 1e-9) {
		t.Errorf("scaledLeft.X = %v, want -0.015", scaledLeft.Position.X)
	}
}

func TestClampLocateTimeZeroIgnoresFloor(t *testing.T) {
	g := &Graph{}
	clamped, ignoreFloor := g.clampLocateTime(0)
	if clamped != 0 || !ignoreFloor {
		t.Errorf("clampLocateTime(0) = (%v, %v), want (0, true)", clamped, ignoreFloor)
	}
}

func TestClampLocateTimeClampsToWindow(t *testing.T) {
	g := &Graph{lastPredictedDisplayTime: xrtime.Time(10e9)}
	clamped, ignoreFloor := g.clampLocateTime(xrtime.Time(1e9))
	if ignoreFloor {
		t.Error("ignoreFloor should be false for a positive, too-old time")
	}
	want := xrtime.Time(9e9)
	if clamped != want {
		t.Errorf("clamped = %v, want %v", clamped, want)
	}
}

func TestInferFloorHeightOnlyOnce(t *testing.T) {
	g := &Graph{}
	g.InferFloorHeight(1.7)
	g.InferFloorHeight(1.9)
	if g.lastKnownFloorHeight != 1.7 {
		t.Errorf("lastKnownFloorHeight = %v, want 1.7 (first observation wins)", g.lastKnownFloorHeight)
	}
}
