package spacegraph

import (
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/posemath"
	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

// ViewPose is one eye's pose and field of view, as LocateViews returns.
type ViewPose struct {
	Pose posemath.Pose
	Fov  hostapi.FovPort
}

// defaultWorldScale is the world scale LocateViews uses when its
// worldScale argument is zero. A world scale other than 1 overrides the
// interpupillary distance: the eye offsets are scaled by 1/worldScale
// about their shared midpoint, per spec.md §4.5.
var defaultWorldScale = 1.0

// LocateViews implements spec.md §4.5's LocateViews: the head pose in
// space, composed with the host's recommended per-eye head-to-eye
// offsets and field of view. Results for the same displayTime are
// memoized so repeated calls are bit-identical (testable property 3).
func (g *Graph) LocateViews(space Space, t xrtime.Time, worldScale float64) ([2]ViewPose, error) {
	if g.viewCacheValid && g.viewCacheTime == t {
		return g.viewCacheViews, nil
	}

	if worldScale == 0 {
		worldScale = defaultWorldScale
	}

	viewSpace := Space{Kind: KindReference, Reference: ReferenceView}
	located := g.LocateSpace(viewSpace, space, t)

	left, err := g.host.GetEyeRenderInfo(0, 0, hostapi.FovPort{})
	if err != nil {
		return [2]ViewPose{}, err
	}
	right, err := g.host.GetEyeRenderInfo(0, 1, hostapi.FovPort{})
	if err != nil {
		return [2]ViewPose{}, err
	}

	leftOffset, rightOffset := left.HeadFromEye, right.HeadFromEye
	if worldScale != 1 {
		leftOffset, rightOffset = scaleIPD(leftOffset, rightOffset, worldScale)
	}

	headInSpace := located.Pose
	views := [2]ViewPose{
		{Pose: posemath.Compose(headInSpace, leftOffset), Fov: left.Fov},
		{Pose: posemath.Compose(headInSpace, rightOffset), Fov: right.Fov},
	}

	g.viewCacheTime = t
	g.viewCacheValid = true
	g.viewCacheViews = views
	return views, nil
}

// scaleIPD scales the two eye offsets' positions about their midpoint by
// 1/worldScale, keeping the midpoint (and therefore the perceived head
// center) fixed while changing the apparent interpupillary distance.
func scaleIPD(left, right posemath.Pose, worldScale float64) (posemath.Pose, posemath.Pose) {
	mid := left.Position.Add(right.Position).Scale(0.5)
	inv := 1 / worldScale
	left.Position = mid.Add(left.Position.Sub(mid).Scale(inv))
	right.Position = mid.Add(right.Position.Sub(mid).Scale(inv))
	return left, right
}
