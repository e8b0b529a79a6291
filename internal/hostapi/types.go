package hostapi

import "github.com/mbucchia/openxr-hostbridge/internal/posemath"

// SessionHandle identifies a host runtime session. It is opaque to the
// caller; the host runtime hands one back from CreateSession.
type SessionHandle uint64

// SwapchainHandle identifies a host runtime swapchain.
type SwapchainHandle uint64

// DeviceIndex selects which tracked device a pose/input query targets.
type DeviceIndex uint32

const (
	DeviceHMD DeviceIndex = iota
	DeviceControllerLeft
	DeviceControllerRight
	DeviceTrackerWaist
	DeviceTrackerLeftFoot
	DeviceTrackerRightFoot
)

// ControllerType is a bitmask describing which controller models the
// host runtime has connected, matching the bit layout a LibOVR-style
// ovrControllerType enum uses.
type ControllerType uint32

const (
	ControllerNone       ControllerType = 0
	ControllerLeftTouch  ControllerType = 1 << 0
	ControllerRightTouch ControllerType = 1 << 1
	ControllerRemote     ControllerType = 1 << 2
)

// hostPose is the wire layout of a host runtime pose: float32 fields in
// the order the host ABI declares them. It is never exposed outside
// this package; callers get a posemath.Pose instead.
type hostPose struct {
	OrientationX, OrientationY, OrientationZ, OrientationW float32
	PositionX, PositionY, PositionZ                        float32
}

func (p hostPose) toPosemath() posemath.Pose {
	return posemath.Pose{
		Orientation: posemath.Orientation{
			X: float64(p.OrientationX), Y: float64(p.OrientationY),
			Z: float64(p.OrientationZ), W: float64(p.OrientationW),
		},
		Position: posemath.Vector3{
			X: float64(p.PositionX), Y: float64(p.PositionY), Z: float64(p.PositionZ),
		},
	}
}

// hostPoseState is the wire layout returned by GetDevicePose: a pose
// plus first and second derivatives and a capture timestamp.
type hostPoseState struct {
	Pose                hostPose
	LinearVelocity      [3]float32
	AngularVelocity     [3]float32
	LinearAcceleration  [3]float32
	AngularAcceleration [3]float32
	TimeInSeconds       float64
	StatusFlags         uint32
}

// PoseState is the host-pose query result translated to posemath types.
type PoseState struct {
	Pose            posemath.Pose
	Velocity        posemath.Velocity
	TimeInSeconds   float64
	OrientationValid bool
	PositionValid    bool
	DeviceConnected  bool
}

const (
	statusOrientationValid uint32 = 1 << 0
	statusPositionValid    uint32 = 1 << 1
	statusConnected        uint32 = 1 << 2
)

func (s hostPoseState) toPoseState() PoseState {
	return PoseState{
		Pose: s.Pose.toPosemath(),
		Velocity: posemath.Velocity{
			Linear:  posemath.Vector3{X: float64(s.LinearVelocity[0]), Y: float64(s.LinearVelocity[1]), Z: float64(s.LinearVelocity[2])},
			Angular: posemath.Vector3{X: float64(s.AngularVelocity[0]), Y: float64(s.AngularVelocity[1]), Z: float64(s.AngularVelocity[2])},
		},
		TimeInSeconds:    s.TimeInSeconds,
		OrientationValid: s.StatusFlags&statusOrientationValid != 0,
		PositionValid:    s.StatusFlags&statusPositionValid != 0,
		DeviceConnected:  s.StatusFlags&statusConnected != 0,
	}
}

// hostInputState is the wire layout returned by GetInputState: digital
// buttons/touches as bitmasks, analog axes as floats, matching the
// flattened per-controller layout a LibOVR-style ovrInputState uses.
type hostInputState struct {
	Buttons       uint32
	Touches       uint32
	IndexTrigger  float32
	HandTrigger   float32
	ThumbstickX   float32
	ThumbstickY   float32
}

// InputState is the host input query result.
type InputState struct {
	Buttons      uint32
	Touches      uint32
	IndexTrigger float32
	HandTrigger  float32
	ThumbstickX  float32
	ThumbstickY  float32
}

func (s hostInputState) toInputState() InputState {
	return InputState(s)
}

// FovPort is the four half-tangent angles describing a projection's
// field of view, matching OpenXR's XrFovf layout.
type FovPort struct {
	AngleLeft, AngleRight, AngleUp, AngleDown float32
}

// hostEyeRenderInfo is the wire layout returned by GetEyeRenderInfo.
type hostEyeRenderInfo struct {
	Fov          FovPort
	HeadFromEye  hostPose
	PixelWidth   uint32
	PixelHeight  uint32
}

// EyeRenderInfo is the per-eye render parameters the host runtime
// recommends for a given field of view and eye index.
type EyeRenderInfo struct {
	Fov         FovPort
	HeadFromEye posemath.Pose
	PixelWidth  uint32
	PixelHeight uint32
}

func (r hostEyeRenderInfo) toEyeRenderInfo() EyeRenderInfo {
	return EyeRenderInfo{
		Fov:         r.Fov,
		HeadFromEye: r.HeadFromEye.toPosemath(),
		PixelWidth:  r.PixelWidth,
		PixelHeight: r.PixelHeight,
	}
}

// hostHMDDescriptor is the wire layout returned by GetHMDDescriptor.
type hostHMDDescriptor struct {
	ProductNameUTF8  [64]byte
	ManufacturerUTF8 [64]byte
	VendorID         uint16
	ProductID        uint16
	ResolutionWidth  uint32
	ResolutionHeight uint32
	RefreshRateHz    float32
}

// HMDDescriptor describes the connected headset.
type HMDDescriptor struct {
	ProductName      string
	Manufacturer     string
	VendorID         uint16
	ProductID        uint16
	ResolutionWidth  uint32
	ResolutionHeight uint32
	RefreshRateHz    float32
}

func cStringFromBytes(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}

func (d hostHMDDescriptor) toHMDDescriptor() HMDDescriptor {
	return HMDDescriptor{
		ProductName:      cStringFromBytes(d.ProductNameUTF8[:]),
		Manufacturer:     cStringFromBytes(d.ManufacturerUTF8[:]),
		VendorID:         d.VendorID,
		ProductID:        d.ProductID,
		ResolutionWidth:  d.ResolutionWidth,
		ResolutionHeight: d.ResolutionHeight,
		RefreshRateHz:    d.RefreshRateHz,
	}
}

// FovStencilVertex is a single 2D vertex of a visibility mask mesh, in
// normalized device coordinates for the eye it was requested for.
type FovStencilVertex struct {
	X, Y float32
}

// FovStencilMesh is the triangle-fan visibility mask mesh the host
// runtime reports for one eye and mesh type.
type FovStencilMesh struct {
	Vertices []FovStencilVertex
	Indices  []uint32
}

// SwapchainDesc describes the format and usage of a swapchain to
// create, matching the fields the host runtime's swapchain creation
// entry point expects.
type SwapchainDesc struct {
	Width, Height uint32
	ArraySize     uint32
	MipLevels     uint32
	SampleCount   uint32
	Format        uint32
	BindFlags     uint32
	StaticImage   bool
}

// hostSwapchainDesc is SwapchainDesc's wire layout.
type hostSwapchainDesc struct {
	Width, Height uint32
	ArraySize     uint32
	MipLevels     uint32
	SampleCount   uint32
	Format        uint32
	BindFlags     uint32
	StaticImage   uint32
}

func (d SwapchainDesc) toWire() hostSwapchainDesc {
	static := uint32(0)
	if d.StaticImage {
		static = 1
	}
	return hostSwapchainDesc{
		Width: d.Width, Height: d.Height, ArraySize: d.ArraySize,
		MipLevels: d.MipLevels, SampleCount: d.SampleCount,
		Format: d.Format, BindFlags: d.BindFlags, StaticImage: static,
	}
}

// LayerSubmission is one composition layer submitted to EndFrame: a
// pair of eye textures (by swapchain handle and slice index) plus the
// pose and fov they were rendered with.
type LayerSubmission struct {
	LeftSwapchain   SwapchainHandle
	LeftSliceIndex  uint32
	LeftPose        posemath.Pose
	LeftFov         FovPort
	RightSwapchain  SwapchainHandle
	RightSliceIndex uint32
	RightPose       posemath.Pose
	RightFov        FovPort
}

// hostLayerSubmission is LayerSubmission's wire layout.
type hostLayerSubmission struct {
	LeftSwapchain   uint64
	LeftSliceIndex  uint32
	LeftPose        hostPose
	LeftFov         FovPort
	RightSwapchain  uint64
	RightSliceIndex uint32
	RightPose       hostPose
	RightFov        FovPort
}

func (l LayerSubmission) toWire() hostLayerSubmission {
	return hostLayerSubmission{
		LeftSwapchain:  uint64(l.LeftSwapchain),
		LeftSliceIndex: l.LeftSliceIndex,
		LeftPose: hostPose{
			OrientationX: float32(l.LeftPose.Orientation.X), OrientationY: float32(l.LeftPose.Orientation.Y),
			OrientationZ: float32(l.LeftPose.Orientation.Z), OrientationW: float32(l.LeftPose.Orientation.W),
			PositionX: float32(l.LeftPose.Position.X), PositionY: float32(l.LeftPose.Position.Y), PositionZ: float32(l.LeftPose.Position.Z),
		},
		LeftFov:         l.LeftFov,
		RightSwapchain:  uint64(l.RightSwapchain),
		RightSliceIndex: l.RightSliceIndex,
		RightPose: hostPose{
			OrientationX: float32(l.RightPose.Orientation.X), OrientationY: float32(l.RightPose.Orientation.Y),
			OrientationZ: float32(l.RightPose.Orientation.Z), OrientationW: float32(l.RightPose.Orientation.W),
			PositionX: float32(l.RightPose.Position.X), PositionY: float32(l.RightPose.Position.Y), PositionZ: float32(l.RightPose.Position.Z),
		},
		RightFov: l.RightFov,
	}
}

// FrameTiming is the pacing information WaitToBeginFrame returns.
type FrameTiming struct {
	PredictedDisplayTimeSeconds   float64
	PredictedDisplayPeriodSeconds float64
}

type hostFrameTiming struct {
	PredictedDisplayTimeSeconds   float64
	PredictedDisplayPeriodSeconds float64
}

func (t hostFrameTiming) toFrameTiming() FrameTiming {
	return FrameTiming(t)
}
