package frame

import (
	"github.com/mbucchia/openxr-hostbridge/internal/handle"
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/posemath"
	"github.com/mbucchia/openxr-hostbridge/internal/swapchain"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
)

// LayerType identifies a composition layer's shape, matching the
// OpenXR composition layer structure types this runtime recognizes.
type LayerType int

const (
	LayerProjection LayerType = iota
	LayerQuad
	LayerCylinder
	LayerCube
)

// SubImage names one eye's swapchain and the rectangle within it an
// application rendered to.
type SubImage struct {
	Swapchain  handle.SwapchainID
	ImageRect  Rect2D
	ArrayIndex uint32
}

// Rect2D is an offset+extent in swapchain pixels.
type Rect2D struct {
	OffsetX, OffsetY int32
	Width, Height    uint32
}

// ProjectionView is one eye of a PROJECTION layer.
type ProjectionView struct {
	Pose     posemath.Pose
	Fov      hostapi.FovPort
	SubImage SubImage
}

// Layer is one composition layer submitted to EndFrame. Only Projection
// is populated for LayerProjection; the other layer types carry only
// their Type. Because the host compositor's wire format
// (internal/hostapi.LayerSubmission) only expresses a single stereo
// eye-texture pair per frame, Quad/Cylinder/Cube layers have no
// host equivalent to submit to and are accepted-but-dropped rather than
// rejected outright, matching spec.md §4.7's "best-effort" language for
// features the host has no equivalent for.
type Layer struct {
	Type       LayerType
	Projection [2]ProjectionView // index 0 = left, 1 = right
}

// resolveSwapchain looks up a SubImage's swapchain and runs its
// EndFrame preprocessing pass, returning the committed host handle and
// slice index to submit.
func resolveSwapchain(swapchains *swapchain.Manager, sub SubImage, needAlphaCorrect, needUnpremultiply bool) (hostapi.SwapchainHandle, uint32, error) {
	sc, err := swapchains.Get(sub.Swapchain)
	if err != nil {
		return 0, 0, xrerror.ErrLayerInvalid
	}
	layer := int(sub.ArrayIndex)
	if layer >= sc.LayerCount() {
		return 0, 0, xrerror.ErrSwapchainRectInvalid
	}
	committed, err := sc.Preprocess(layer, needAlphaCorrect, needUnpremultiply)
	if err != nil {
		return 0, 0, err
	}
	return committed, sub.ArrayIndex, nil
}

// buildSubmission converts the application's layer list into the single
// hostapi.LayerSubmission the host compositor accepts. Only the first
// LayerProjection entry contributes real content — subsequent
// projection layers and every non-projection layer are skipped without
// logging, per the Layer doc comment above. An empty or
// entirely-skipped list returns nil; EndFrame then submits one disabled
// dummy submission so the host gets the timing stamp it needs
// (spec.md §4.7).
func buildSubmission(swapchains *swapchain.Manager, layers []Layer) ([]hostapi.LayerSubmission, error) {
	for _, l := range layers {
		if l.Type != LayerProjection {
			continue
		}

		left := l.Projection[0]
		right := l.Projection[1]

		// The bottom (and here, only) projection layer never needs the
		// forced-opaque pass; unpremultiply would come from a per-layer
		// flag this simplified Layer type doesn't carry yet.
		leftHandle, leftIndex, err := resolveSwapchain(swapchains, left.SubImage, false, false)
		if err != nil {
			return nil, err
		}
		rightHandle, rightIndex, err := resolveSwapchain(swapchains, right.SubImage, false, false)
		if err != nil {
			return nil, err
		}

		return []hostapi.LayerSubmission{{
			LeftSwapchain:   leftHandle,
			LeftSliceIndex:  leftIndex,
			LeftPose:        left.Pose,
			LeftFov:         left.Fov,
			RightSwapchain:  rightHandle,
			RightSliceIndex: rightIndex,
			RightPose:       right.Pose,
			RightFov:        right.Fov,
		}}, nil
	}

	return nil, nil
}
