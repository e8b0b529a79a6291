package swapchain

// SliceResource is an opaque per-texture handle a Resolver attaches to
// a swapchain at creation time and later operates on. Its concrete type
// is owned by the Resolver implementation (internal/interop/d3d11 wraps
// an ID3D11Texture2D pointer); this package never dereferences it.
type SliceResource interface{}

// Resolver performs the GPU-side work behind Preprocess: resolving an
// application's array/MSAA image into a single-layer single-sample
// slice, and running the alpha-correction compute pass on that slice
// before it is committed to the host compositor. internal/hostapi has
// no call for either (the host only ever sees the already-resolved,
// already-corrected slice), so a Resolver is the only thing that
// actually touches pixels; without one, Preprocess degrades to
// sequencing only (see the nil-Resolver branch in swapchain.go), which
// is correct for headless sessions but not for a real compositor.
type Resolver interface {
	// CreateSourceTexture allocates the resource the application's
	// array/MSAA image is copied into (or imported as, for a non-D3D11
	// session) before each resolve pass.
	CreateSourceTexture(width, height, sampleCount, arraySize uint32, format Format) (SliceResource, error)
	// CreateResolvedTexture allocates one single-layer single-sample
	// resource a resolved slice's host swapchain index backs.
	CreateResolvedTexture(width, height uint32, format Format) (SliceResource, error)
	// ResolveSlice copies (array) or resolves (MSAA) srcSubresource of
	// src into dst, which must be a CreateResolvedTexture result.
	ResolveSlice(src SliceResource, srcSubresource int, dst SliceResource, sampleCount uint32) error
	// CorrectAlpha dispatches the alpha-correction compute shader over
	// dst in place.
	CorrectAlpha(dst SliceResource, width, height uint32, forceAlphaOne, unpremultiply, srgb bool) error
	// Release frees a resource returned by either Create method.
	Release(r SliceResource)
}
