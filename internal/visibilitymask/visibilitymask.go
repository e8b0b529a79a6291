// Package visibilitymask is the documented boundary for
// xrGetVisibilityMaskKHR. Visibility-mask geometry generation is an
// external collaborator this runtime does not implement (see
// DESIGN.md); an application calling the entry point must still get a
// defined OpenXR result rather than a missing symbol.
package visibilitymask

import "github.com/mbucchia/openxr-hostbridge/internal/xrerror"

// VertexCountOutput always returns zero counts and
// xrerror.ErrFunctionUnsupported, matching xrGetVisibilityMaskKHR's
// contract for a runtime that never advertises XR_KHR_visibility_mask.
func VertexCountOutput() (vertexCount, indexCount uint32, err error) {
	return 0, 0, xrerror.ErrFunctionUnsupported
}

// Fill always returns xrerror.ErrFunctionUnsupported and leaves both
// buffers untouched.
func Fill(vertices []float32, indices []uint32) error {
	return xrerror.ErrFunctionUnsupported
}
