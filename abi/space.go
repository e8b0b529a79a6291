package abi

/*
#include "xrtypes.h"
*/
import "C"

import (
	"unsafe"

	"github.com/mbucchia/openxr-hostbridge/internal/handle"
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/posemath"
	"github.com/mbucchia/openxr-hostbridge/internal/spacegraph"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

// cViewSlice views a C XrView array as a Go slice without copying.
func cViewSlice(p *C.XrView, n int) []C.XrView {
	return unsafe.Slice(p, n)
}

func poseFromC(p C.XrPosef) posemath.Pose {
	return posemath.Pose{
		Orientation: posemath.Orientation{
			X: float64(p.orientation.x), Y: float64(p.orientation.y),
			Z: float64(p.orientation.z), W: float64(p.orientation.w),
		},
		Position: posemath.Vector3{X: float64(p.position.x), Y: float64(p.position.y), Z: float64(p.position.z)},
	}
}

func poseToC(p posemath.Pose) C.XrPosef {
	return C.XrPosef{
		orientation: C.XrQuaternionf{x: C.float(p.Orientation.X), y: C.float(p.Orientation.Y), z: C.float(p.Orientation.Z), w: C.float(p.Orientation.W)},
		position:    C.XrVector3f{x: C.float(p.Position.X), y: C.float(p.Position.Y), z: C.float(p.Position.Z)},
	}
}

func fovFromC(f C.XrFovf) hostapi.FovPort {
	return hostapi.FovPort{AngleLeft: float32(f.angleLeft), AngleRight: float32(f.angleRight), AngleUp: float32(f.angleUp), AngleDown: float32(f.angleDown)}
}

func fovToC(f hostapi.FovPort) C.XrFovf {
	return C.XrFovf{angleLeft: C.float(f.AngleLeft), angleRight: C.float(f.AngleRight), angleUp: C.float(f.AngleUp), angleDown: C.float(f.AngleDown)}
}

// referenceTypeFromXr maps the XrReferenceSpaceType enum's numeric
// values (VIEW=1, LOCAL=2, STAGE=3 in the OpenXR 1.0 spec) onto this
// runtime's internal spacegraph.ReferenceType.
func referenceTypeFromXr(t uint32) (spacegraph.ReferenceType, bool) {
	switch t {
	case 1:
		return spacegraph.ReferenceView, true
	case 2:
		return spacegraph.ReferenceLocal, true
	case 3:
		return spacegraph.ReferenceStage, true
	default:
		return 0, false
	}
}

//export xrCreateReferenceSpace
func xrCreateReferenceSpace(h C.XrSession, referenceSpaceType C.uint32_t, poseInReferenceSpace C.XrPosef, outSpace *C.XrSpace) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	refType, ok := referenceTypeFromXr(uint32(referenceSpaceType))
	if !ok {
		return resultFor(xrerror.ErrValidation)
	}
	sp := spacegraph.Space{Kind: spacegraph.KindReference, Reference: refType, OffsetPose: poseFromC(poseInReferenceSpace)}
	id := st.spaces.Insert(sp)
	if outSpace != nil {
		*outSpace = C.XrSpace(id.Raw())
	}
	return resultFor(nil)
}

// sourceKindFromTag maps a pre-resolved pose-binding tag (derived by the
// caller from which "/input/.../pose" suffix the action's binding
// string ended in — grip, aim, palm, eye gaze, or a body joint) onto
// spacegraph.SourceKind. See xrCreateActionSpace's doc comment for why
// this resolution happens before the call instead of inside it.
func sourceKindFromTag(tag uint32) (spacegraph.SourceKind, bool) {
	switch tag {
	case 0:
		return spacegraph.SourceGrip, true
	case 1:
		return spacegraph.SourceAim, true
	case 2:
		return spacegraph.SourcePalm, true
	case 3:
		return spacegraph.SourceEyeGaze, true
	case 4:
		return spacegraph.SourceBodyJoint, true
	default:
		return 0, false
	}
}

// xrCreateActionSpace creates a Space bound to a pose action's resolved
// input source. OpenXR resolves which physical pose (grip, aim, palm,
// eye gaze, or a body joint) an action space tracks from the
// interaction profile binding suggested for that action; sourceTag and
// sideTag carry that already-resolved identification across the ABI
// boundary rather than re-deriving it here from the raw XrAction handle
// and the binding string tables in internal/action, which track button-
// and axis-shaped sources, not pose identity.
//
//export xrCreateActionSpace
func xrCreateActionSpace(h C.XrSession, sourceTag, sideTag, bodyJoint C.uint32_t, poseInActionSpace C.XrPosef, outSpace *C.XrSpace) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	src, ok := sourceKindFromTag(uint32(sourceTag))
	if !ok {
		return resultFor(xrerror.ErrValidation)
	}
	side := spacegraph.SideLeft
	if sideTag != 0 {
		side = spacegraph.SideRight
	}
	sp := spacegraph.Space{
		Kind:       spacegraph.KindAction,
		Source:     src,
		Side:       side,
		BodyJoint:  int(bodyJoint),
		OffsetPose: poseFromC(poseInActionSpace),
	}
	id := st.spaces.Insert(sp)
	if outSpace != nil {
		*outSpace = C.XrSpace(id.Raw())
	}
	return resultFor(nil)
}

//export xrDestroySpace
func xrDestroySpace(h C.XrSession, spaceHandle C.XrSpace) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	id := handle.FromRaw[handle.SpaceMarker](handle.Raw(spaceHandle))
	if _, err := st.spaces.Remove(id); err != nil {
		return resultFor(xrerror.ErrHandleInvalid)
	}
	return resultFor(nil)
}

//export xrLocateSpace
func xrLocateSpace(h C.XrSession, spaceHandle, baseHandle C.XrSpace, displayTime C.XrTime, out *C.XrSpaceLocation) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	space, err := st.spaces.Get(handle.FromRaw[handle.SpaceMarker](handle.Raw(spaceHandle)))
	if err != nil {
		return resultFor(xrerror.ErrHandleInvalid)
	}
	base, err := st.spaces.Get(handle.FromRaw[handle.SpaceMarker](handle.Raw(baseHandle)))
	if err != nil {
		return resultFor(xrerror.ErrHandleInvalid)
	}

	result := st.graph.LocateSpace(space, base, xrtime.Time(displayTime))
	if out != nil {
		out.pose = poseToC(result.Pose)
		var flags uint64
		if result.OrientationValid {
			flags |= 1 // XR_SPACE_LOCATION_ORIENTATION_VALID_BIT
		}
		if result.PositionValid {
			flags |= 2 // XR_SPACE_LOCATION_POSITION_VALID_BIT
		}
		if result.OrientationValid {
			flags |= 4 // XR_SPACE_LOCATION_ORIENTATION_TRACKED_BIT
		}
		if result.PositionValid {
			flags |= 8 // XR_SPACE_LOCATION_POSITION_TRACKED_BIT
		}
		out.locationFlags = C.uint64_t(flags)
	}
	return resultFor(nil)
}

//export xrLocateViews
func xrLocateViews(h C.XrSession, spaceHandle C.XrSpace, displayTime C.XrTime, worldScale C.float, viewCapacityInput C.uint32_t, viewCountOutput *C.uint32_t, views *C.XrView, outState *C.XrViewState) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	space, err := st.spaces.Get(handle.FromRaw[handle.SpaceMarker](handle.Raw(spaceHandle)))
	if err != nil {
		return resultFor(xrerror.ErrHandleInvalid)
	}

	located, err := st.graph.LocateViews(space, xrtime.Time(displayTime), float64(worldScale))
	if err != nil {
		return resultFor(err)
	}

	if viewCountOutput != nil {
		*viewCountOutput = 2
	}
	if outState != nil {
		outState.viewStateFlags = 0xF // orientation/position valid+tracked
	}
	if viewCapacityInput == 0 || views == nil {
		return resultFor(nil)
	}
	if viewCapacityInput < 2 {
		return resultFor(xrerror.ErrSizeInsufficient)
	}
	dst := cViewSlice(views, int(viewCapacityInput))
	for i := 0; i < 2; i++ {
		dst[i].pose = poseToC(located[i].Pose)
		dst[i].fov = fovToC(located[i].Fov)
	}
	return resultFor(nil)
}
