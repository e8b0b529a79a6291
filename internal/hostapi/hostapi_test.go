package hostapi

import (
	"errors"
	"testing"

	"github.com/mbucchia/openxr-hostbridge/internal/posemath"
)

func TestCheckResultSuccessIsNil(t *testing.T) {
	if err := checkResult("Host_Whatever", resultSuccess); err != nil {
		t.Errorf("checkResult(success) = %v, want nil", err)
	}
}

func TestCheckResultWrapsCode(t *testing.T) {
	err := checkResult("Host_CreateSession", resultDeviceLost)
	if err == nil {
		t.Fatal("checkResult should return non-nil for a failure code")
	}
	if !errors.Is(err, ErrDeviceLost) {
		t.Errorf("errors.Is(err, ErrDeviceLost) = false, want true")
	}

	var asErr *Error
	if !errors.As(err, &asErr) {
		t.Fatal("errors.As should find *Error")
	}
	if asErr.Call != "Host_CreateSession" || asErr.Code != resultDeviceLost {
		t.Errorf("asErr = %+v, want Call=Host_CreateSession Code=%d", asErr, resultDeviceLost)
	}
}

func TestCheckResultUnrecognizedCodeHasNoSentinel(t *testing.T) {
	err := checkResult("Host_Foo", -999)
	if err == nil {
		t.Fatal("expected non-nil error")
	}
	if errors.Is(err, ErrDeviceLost) || errors.Is(err, ErrAdapterLost) || errors.Is(err, ErrTimeout) {
		t.Error("unrecognized code should not match any sentinel")
	}
}

func TestCStringFromBytesStopsAtNUL(t *testing.T) {
	buf := make([]byte, 16)
	copy(buf, "Quest Pro")
	if got := cStringFromBytes(buf); got != "Quest Pro" {
		t.Errorf("cStringFromBytes = %q, want %q", got, "Quest Pro")
	}
}

func TestCStringFromBytesEmpty(t *testing.T) {
	if got := cStringFromBytes(make([]byte, 8)); got != "" {
		t.Errorf("cStringFromBytes(zeroed) = %q, want empty", got)
	}
}

func TestHostPoseRoundTrip(t *testing.T) {
	p := posemath.Pose{
		Orientation: posemath.Orientation{X: 0, Y: 0.7071, Z: 0, W: 0.7071},
		Position:    posemath.Vector3{X: 1, Y: 2, Z: 3},
	}
	wire := LayerSubmission{LeftPose: p}.toWire()
	got := wire.LeftPose.toPosemath()

	const eps = 1e-4
	if abs(got.Position.X-p.Position.X) > eps || abs(got.Position.Y-p.Position.Y) > eps || abs(got.Position.Z-p.Position.Z) > eps {
		t.Errorf("round-tripped position = %+v, want %+v", got.Position, p.Position)
	}
	if abs(got.Orientation.X-p.Orientation.X) > eps || abs(got.Orientation.W-p.Orientation.W) > eps {
		t.Errorf("round-tripped orientation = %+v, want %+v", got.Orientation, p.Orientation)
	}
}

func TestHostPoseStateStatusFlags(t *testing.T) {
	s := hostPoseState{StatusFlags: statusOrientationValid | statusConnected}
	state := s.toPoseState()
	if !state.OrientationValid {
		t.Error("OrientationValid = false, want true")
	}
	if state.PositionValid {
		t.Error("PositionValid = true, want false")
	}
	if !state.DeviceConnected {
		t.Error("DeviceConnected = false, want true")
	}
}

func TestSwapchainDescToWireStaticImage(t *testing.T) {
	wire := SwapchainDesc{StaticImage: true}.toWire()
	if wire.StaticImage != 1 {
		t.Errorf("StaticImage = %d, want 1", wire.StaticImage)
	}
	wire = SwapchainDesc{StaticImage: false}.toWire()
	if wire.StaticImage != 0 {
		t.Errorf("StaticImage = %d, want 0", wire.StaticImage)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
