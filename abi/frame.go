package abi

/*
#include "xrtypes.h"
*/
import "C"

import (
	"unsafe"

	"github.com/mbucchia/openxr-hostbridge/internal/frame"
	"github.com/mbucchia/openxr-hostbridge/internal/handle"
)

//export xrWaitFrame
func xrWaitFrame(h C.XrSession, out *C.XrFrameState) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	timing, err := st.frames.WaitFrame(st.sess.Instance.Time.Now())
	if err != nil {
		return resultFor(err)
	}
	if out != nil {
		out.predictedDisplayTime = C.XrTime(timing.PredictedDisplayTime)
		out.predictedDisplayPeriod = C.XrDuration(timing.PredictedDisplayPeriod)
		out.shouldRender = 1
	}
	return resultFor(nil)
}

//export xrBeginFrame
func xrBeginFrame(h C.XrSession) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	return resultFor(st.frames.BeginFrame())
}

//export xrEndFrame
func xrEndFrame(h C.XrSession, views *C.XrCompositionLayerProjectionView, viewCount C.uint32_t, layerSpace C.XrSpace) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}

	layer := frame.Layer{Type: frame.LayerProjection}
	if views != nil && viewCount > 0 {
		cviews := unsafe.Slice(views, int(viewCount))
		for i := 0; i < len(cviews) && i < 2; i++ {
			v := cviews[i]
			layer.Projection[i] = frame.ProjectionView{
				Pose: poseFromC(v.pose),
				Fov:  fovFromC(v.fov),
				SubImage: frame.SubImage{
					Swapchain:  handle.FromRaw[handle.SwapchainMarker](handle.Raw(v.subImage.swapchain)),
					ArrayIndex: uint32(v.subImage.imageArrayIndex),
					ImageRect: frame.Rect2D{
						OffsetX: int32(v.subImage.imageRect.offset.x),
						OffsetY: int32(v.subImage.imageRect.offset.y),
						Width:   uint32(v.subImage.imageRect.extent.width),
						Height:  uint32(v.subImage.imageRect.extent.height),
					},
				},
			}
		}
	}

	var layers []frame.Layer
	if viewCount > 0 {
		layers = []frame.Layer{layer}
	}
	return resultFor(st.frames.EndFrame(layers))
}
