package hostapi

import (
	"unsafe"

	"github.com/go-webgpu/goffi/types"
)

// GetHMDDescriptor returns static information about the connected
// headset: product/manufacturer strings, panel resolution, refresh
// rate.
func (c *Client) GetHMDDescriptor(session SessionHandle) (HMDDescriptor, error) {
	e, err := c.resolve("Host_GetHMDDescriptor", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor, types.PointerTypeDescriptor})
	if err != nil {
		return HMDDescriptor{}, err
	}

	h := uint64(session)
	var out hostHMDDescriptor
	outPtr := unsafe.Pointer(&out)
	args := [2]unsafe.Pointer{unsafe.Pointer(&h), unsafe.Pointer(&outPtr)}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])
	if err := checkResult("Host_GetHMDDescriptor", result); err != nil {
		return HMDDescriptor{}, err
	}

	return out.toHMDDescriptor(), nil
}

// GetEyeRenderInfo returns the host runtime's recommended render
// parameters (fov, head-from-eye pose, recommended pixel dimensions)
// for one eye, given a requested field of view. Passing a zero FovPort
// asks for the host runtime's default recommendation.
func (c *Client) GetEyeRenderInfo(session SessionHandle, eyeIndex uint32, fov FovPort) (EyeRenderInfo, error) {
	e, err := c.resolve("Host_GetEyeRenderInfo", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{
			types.UInt64TypeDescriptor,
			types.UInt32TypeDescriptor,
			types.PointerTypeDescriptor,
			types.PointerTypeDescriptor,
		})
	if err != nil {
		return EyeRenderInfo{}, err
	}

	h := uint64(session)
	fovPtr := unsafe.Pointer(&fov)
	var out hostEyeRenderInfo
	outPtr := unsafe.Pointer(&out)
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&h),
		unsafe.Pointer(&eyeIndex),
		unsafe.Pointer(&fovPtr),
		unsafe.Pointer(&outPtr),
	}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])
	if err := checkResult("Host_GetEyeRenderInfo", result); err != nil {
		return EyeRenderInfo{}, err
	}

	return out.toEyeRenderInfo(), nil
}

// GetFOVStencilMesh returns the visibility mask mesh the host runtime
// reports for the given eye and mesh type (hidden-area, visible-area,
// or line-loop, matching OpenXR's XrVisibilityMaskTypeKHR values).
//
// The host entry point follows the two-call idiom: a first call with a
// nil vertex/index buffer returns counts only, then the caller
// allocates and calls again to fill them. That is handled internally;
// callers just get a populated mesh.
func (c *Client) GetFOVStencilMesh(session SessionHandle, eyeIndex uint32, meshType uint32) (FovStencilMesh, error) {
	e, err := c.resolve("Host_GetFOVStencilMesh", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{
			types.UInt64TypeDescriptor,
			types.UInt32TypeDescriptor,
			types.UInt32TypeDescriptor,
			types.PointerTypeDescriptor,
			types.UInt32TypeDescriptor,
			types.PointerTypeDescriptor,
			types.UInt32TypeDescriptor,
			types.PointerTypeDescriptor,
			types.PointerTypeDescriptor,
		})
	if err != nil {
		return FovStencilMesh{}, err
	}

	h := uint64(session)

	// First call: counts only.
	var vertexCount, indexCount uint32
	if err := c.callFOVStencilMesh(e, h, eyeIndex, meshType, nil, 0, nil, 0, &vertexCount, &indexCount); err != nil {
		return FovStencilMesh{}, err
	}

	if vertexCount == 0 && indexCount == 0 {
		return FovStencilMesh{}, nil
	}

	vertices := make([]FovStencilVertex, vertexCount)
	indices := make([]uint32, indexCount)
	if err := c.callFOVStencilMesh(e, h, eyeIndex, meshType, vertices, vertexCount, indices, indexCount, &vertexCount, &indexCount); err != nil {
		return FovStencilMesh{}, err
	}

	return FovStencilMesh{Vertices: vertices, Indices: indices}, nil
}

func (c *Client) callFOVStencilMesh(e *callEntry, session uint64, eyeIndex, meshType uint32, vertices []FovStencilVertex, vertexCap uint32, indices []uint32, indexCap uint32, vertexCount, indexCount *uint32) error {
	var verticesPtr, indicesPtr unsafe.Pointer
	if len(vertices) > 0 {
		verticesPtr = unsafe.Pointer(&vertices[0])
	}
	if len(indices) > 0 {
		indicesPtr = unsafe.Pointer(&indices[0])
	}

	args := [9]unsafe.Pointer{
		unsafe.Pointer(&session),
		unsafe.Pointer(&eyeIndex),
		unsafe.Pointer(&meshType),
		unsafe.Pointer(&verticesPtr),
		unsafe.Pointer(&vertexCap),
		unsafe.Pointer(&indicesPtr),
		unsafe.Pointer(&indexCap),
		unsafe.Pointer(&vertexCount),
		unsafe.Pointer(&indexCount),
	}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])
	return checkResult("Host_GetFOVStencilMesh", result)
}
