// Package spacegraph implements OpenXR reference spaces, action spaces,
// and the LocateSpace/LocateViews algorithms that resolve them against
// the host runtime's tracking data.
package spacegraph

import (
	"math"

	"github.com/mbucchia/openxr-hostbridge/internal/config"
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/posemath"
	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

// ReferenceType is the kind of a reference space.
type ReferenceType int

const (
	ReferenceView ReferenceType = iota
	ReferenceLocal
	ReferenceStage
)

// SourceKind is what an action space's pose is derived from.
type SourceKind int

const (
	SourceGrip SourceKind = iota
	SourceAim
	SourcePalm
	SourceEyeGaze
	SourceBodyJoint
)

// Side selects which controller/hand an action space or source refers
// to.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Kind distinguishes a reference space from an action space.
type Kind int

const (
	KindReference Kind = iota
	KindAction
)

// Space is either a reference space or an action space, matching
// spec.md §3's Space entity.
type Space struct {
	Kind Kind

	Reference ReferenceType

	Source    SourceKind
	Side      Side
	BodyJoint int

	// OffsetPose is applied space-to-reference (or space-to-source);
	// see spec.md §4.5.
	OffsetPose posemath.Pose
}

// BodyJointSource supplies a body-tracked joint pose when SourceBodyJoint
// spaces are located. internal/spacegraph does not own body tracking
// itself (internal/bodytracker does); a Graph is wired to one at
// construction so action spaces bound to a body joint can still be
// located through the same LocateSpace path as controller poses.
type BodyJointSource interface {
	JointPose(joint int) (posemath.Pose, posemath.Velocity, bool)
}

// Graph resolves spaces against the host runtime's tracking data. One
// Graph exists per session.
type Graph struct {
	host   *hostapi.Client
	cfg    *config.Watcher
	body   BodyJointSource
	deviceForSide map[Side]hostapi.DeviceIndex

	lastKnownFloorHeight   float64
	floorHeightInferred    bool
	lastPredictedDisplayTime xrtime.Time

	lastValidHead  posemath.Pose
	haveLastHead   bool

	// viewCache memoizes LocateViews results per displayTime so that
	// repeated calls with the same time are bit-identical, per spec.md
	// §8 testable property 3.
	viewCacheTime  xrtime.Time
	viewCacheValid bool
	viewCacheViews [2]ViewPose

	timeBase timeBase
}

// NewGraph constructs a Graph. body may be nil if body-tracker emulation
// is disabled.
func NewGraph(host *hostapi.Client, cfg *config.Watcher, body BodyJointSource) *Graph {
	return &Graph{
		host: host,
		cfg:  cfg,
		body: body,
		deviceForSide: map[Side]hostapi.DeviceIndex{
			SideLeft:  hostapi.DeviceControllerLeft,
			SideRight: hostapi.DeviceControllerRight,
		},
	}
}

// resolved is a space located relative to the host tracking origin.
type resolved struct {
	pose     posemath.Pose
	velocity posemath.Velocity
	tracked  bool
}

// clampLocateTime implements spec.md §4.5's time quirks: requested
// locate times are clamped to no earlier than
// lastPredictedDisplayTime-1s, and a time of exactly 0 disables floor
// inference for that call rather than erroring.
func (g *Graph) clampLocateTime(t xrtime.Time) (clamped xrtime.Time, ignoreFloor bool) {
	if t <= 0 {
		return t, true
	}
	floor := g.lastPredictedDisplayTime - xrtime.Time(1e9)
	if t < floor {
		return floor, false
	}
	return t, false
}

// NotePredictedDisplayTime records the most recent WaitFrame result so
// clampLocateTime has a basis.
func (g *Graph) NotePredictedDisplayTime(t xrtime.Time) {
	g.lastPredictedDisplayTime = t
}

func poseOffsetFromConfig(o config.PoseOffset) posemath.Pose {
	const mmToM = 0.001
	// Small-angle offsets expressed as a pose; rotation order XYZ.
	rx := degToRad(o.RotXDeg)
	ry := degToRad(o.RotYDeg)
	rz := degToRad(o.RotZDeg)
	q := posemath.EulerXYZToQuaternion(rx, ry, rz)
	return posemath.Pose{
		Orientation: q,
		Position:    posemath.Vector3{X: o.XMM * mmToM, Y: o.YMM * mmToM, Z: o.ZMM * mmToM},
	}
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// mirrorForRightSide negates X position and Y,Z quaternion components,
// per spec.md §4.5's mirroring rule for calibration offsets applied to
// the right hand.
func mirrorForRightSide(p posemath.Pose) posemath.Pose {
	p.Position.X = -p.Position.X
	p.Orientation.Y = -p.Orientation.Y
	p.Orientation.Z = -p.Orientation.Z
	return p
}

// resolveControllerSource resolves a grip/aim/palm action space source.
func (g *Graph) resolveControllerSource(src SourceKind, side Side, predictedTimeSeconds float64) resolved {
	device := g.deviceForSide[side]
	state, err := g.host.GetDevicePose(0, device, predictedTimeSeconds)
	if err != nil || !posemath.IsFinitePose(state.Pose) {
		if g.haveLastHead {
			return resolved{pose: g.lastValidHead, tracked: false}
		}
		return resolved{pose: posemath.IdentityPose, tracked: false}
	}

	var offset posemath.Pose
	if g.cfg != nil {
		store := g.cfg.Current()
		switch src {
		case SourceGrip:
			offset = poseOffsetFromConfig(store.GripPoseOffset)
		case SourceAim:
			offset = poseOffsetFromConfig(store.AimPoseOffset)
		case SourcePalm:
			offset = poseOffsetFromConfig(store.PalmPoseOffset)
		}
	} else {
		offset = posemath.IdentityPose
	}
	if side == SideRight {
		offset = mirrorForRightSide(offset)
	}

	pose := posemath.Compose(state.Pose, offset)
	return resolved{pose: pose, velocity: state.Velocity, tracked: state.OrientationValid && state.PositionValid}
}

// resolveToOrigin locates sp relative to the host tracking origin at
// predictedTimeSeconds.
func (g *Graph) resolveToOrigin(sp Space, predictedTimeSeconds float64) resolved {
	switch sp.Kind {
	case KindReference:
		switch sp.Reference {
		case ReferenceView:
			state, err := g.host.GetDevicePose(0, hostapi.DeviceHMD, predictedTimeSeconds)
			if err != nil || !posemath.IsFinitePose(state.Pose) {
				if g.haveLastHead {
					return resolved{pose: posemath.Compose(g.lastValidHead, sp.OffsetPose)}
				}
				return resolved{pose: sp.OffsetPose}
			}
			g.lastValidHead = state.Pose
			g.haveLastHead = true
			return resolved{
				pose:     posemath.Compose(state.Pose, sp.OffsetPose),
				velocity: state.Velocity,
				tracked:  state.OrientationValid && state.PositionValid,
			}
		case ReferenceLocal:
			return resolved{pose: sp.OffsetPose, tracked: true}
		case ReferenceStage:
			floorOffset := posemath.Pose{
				Orientation: posemath.IdentityOrientation,
				Position:    posemath.Vector3{Y: -g.lastKnownFloorHeight},
			}
			return resolved{pose: posemath.Compose(floorOffset, sp.OffsetPose), tracked: true}
		}

	case KindAction:
		switch sp.Source {
		case SourceGrip, SourceAim, SourcePalm:
			r := g.resolveControllerSource(sp.Source, sp.Side, predictedTimeSeconds)
			r.pose = posemath.Compose(r.pose, sp.OffsetPose)
			return r
		case SourceEyeGaze:
			// Head-relative rotation-only pose composed with current head.
			head := g.resolveToOrigin(Space{Kind: KindReference, Reference: ReferenceView}, predictedTimeSeconds)
			gazePose := posemath.Pose{Orientation: sp.OffsetPose.Orientation, Position: posemath.Vector3{}}
			return resolved{pose: posemath.Compose(head.pose, gazePose), tracked: head.tracked}
		case SourceBodyJoint:
			if g.body == nil {
				return resolved{pose: posemath.IdentityPose, tracked: false}
			}
			pose, vel, ok := g.body.JointPose(sp.BodyJoint)
			if !ok {
				return resolved{pose: posemath.IdentityPose, tracked: false}
			}
			return resolved{pose: posemath.Compose(pose, sp.OffsetPose), velocity: vel, tracked: true}
		}
	}
	return resolved{pose: posemath.IdentityPose, tracked: false}
}

// InferFloorHeight records headY as the floor height the first time it
// is called; later calls are ignored. It does not consult the host's
// reported eye height: LocateSpace calls it with the first tracked head
// pose it resolves while locating a STAGE space, whenever ignoreFloor
// (from clampLocateTime) is false.
func (g *Graph) InferFloorHeight(headY float64) {
	if g.floorHeightInferred {
		return
	}
	g.lastKnownFloorHeight = headY
	g.floorHeightInferred = true
}

// LocateResult is the outcome of LocateSpace.
type LocateResult struct {
	Pose             posemath.Pose
	Velocity         posemath.Velocity
	OrientationValid bool
	PositionValid    bool
}

// LocateSpace implements spec.md §4.5's LocateSpace algorithm.
func (g *Graph) LocateSpace(space, base Space, t xrtime.Time) LocateResult {
	clamped, ignoreFloor := g.clampLocateTime(t)
	seconds := g.secondsFor(clamped)

	if !ignoreFloor && space.Kind == KindReference && space.Reference == ReferenceStage && !g.floorHeightInferred {
		if head := g.resolveToOrigin(Space{Kind: KindReference, Reference: ReferenceView}, seconds); head.tracked {
			g.InferFloorHeight(head.pose.Position.Y)
		}
	}

	if sameReferenceOrAction(space, base) {
		pose := posemath.Compose(space.OffsetPose, posemath.Invert(base.OffsetPose))
		return LocateResult{Pose: pose, OrientationValid: true, PositionValid: true}
	}

	spaceR := g.resolveToOrigin(space, seconds)
	baseR := g.resolveToOrigin(base, seconds)

	if !spaceR.tracked || !baseR.tracked {
		return LocateResult{}
	}

	pose := posemath.Compose(spaceR.pose, posemath.Invert(baseR.pose))
	if !posemath.IsFinitePose(pose) {
		return LocateResult{}
	}

	return LocateResult{
		Pose:             pose,
		Velocity:         posemath.SubtractVelocity(spaceR.velocity, baseR.velocity),
		OrientationValid: true,
		PositionValid:    true,
	}
}

func sameReferenceOrAction(a, b Space) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindReference {
		return a.Reference == b.Reference
	}
	return a.Source == b.Source && a.Side == b.Side && a.BodyJoint == b.BodyJoint
}

func (g *Graph) secondsFor(t xrtime.Time) float64 {
	return g.Time().ToHostSeconds(t)
}

// Time is overridden in tests; production code wires the instance's
// xrtime.Base through SetTimeBase.
func (g *Graph) Time() timeBase { return g.timeBase }

type timeBase interface {
	ToHostSeconds(xrtime.Time) float64
}

// SetTimeBase wires the shared time base used to convert locate times
// to the host's seconds domain.
func (g *Graph) SetTimeBase(b timeBase) { g.timeBase = b }
