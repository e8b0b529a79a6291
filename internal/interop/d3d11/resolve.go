//go:build windows

package d3d11

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/hlsl"

	"github.com/mbucchia/openxr-hostbridge/hal/dx12/d3dcompile"
	"github.com/mbucchia/openxr-hostbridge/internal/swapchain"
)

// alphaCorrectShaderSource is the WGSL compute kernel run over a
// resolved slice to force full alpha and/or undo premultiplication
// before the slice is committed to the host compositor. It is compiled
// to DXBC once, on first use, through the same naga -> HLSL ->
// d3dcompile pipeline hal/dx12 uses for every other WGSL shader module
// in this tree.
const alphaCorrectShaderSource = `
struct Params {
    force_alpha_one: u32,
    unpremultiply: u32,
    is_srgb: u32,
    reserved: u32,
};

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var target: texture_storage_2d<rgba8unorm, read_write>;

@compute @workgroup_size(8, 8, 1)
fn cs_main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let dims = textureDimensions(target);
    if (gid.x >= dims.x || gid.y >= dims.y) {
        return;
    }
    var texel = textureLoad(target, vec2<i32>(gid.xy));
    if (params.unpremultiply != 0u && texel.a > 0.0001) {
        texel = vec4<f32>(texel.rgb / texel.a, texel.a);
    }
    if (params.force_alpha_one != 0u) {
        texel.a = 1.0;
    }
    textureStore(target, vec2<i32>(gid.xy), texel);
}
`

// correctionParams mirrors alphaCorrectShaderSource's Params constant
// buffer layout.
type correctionParams struct {
	forceAlphaOne uint32
	unpremultiply uint32
	isSRGB        uint32
	reserved      uint32
}

const (
	d3d11UsageDefault       = 0
	d3d11BindShaderResource = 0x8
	d3d11BindUnorderedAccess = 0x80
	d3d11BindConstantBuffer = 0x4
)

// textureDesc mirrors D3D11_TEXTURE2D_DESC.
type textureDesc struct {
	width, height  uint32
	mipLevels      uint32
	arraySize      uint32
	format         uint32
	sampleCount    uint32
	sampleQuality  uint32
	usage          uint32
	bindFlags      uint32
	cpuAccessFlags uint32
	miscFlags      uint32
}

// bufferDesc mirrors D3D11_BUFFER_DESC.
type bufferDesc struct {
	byteWidth           uint32
	usage               uint32
	bindFlags           uint32
	cpuAccessFlags      uint32
	miscFlags           uint32
	structureByteStride uint32
}

// hostFormatToDXGI maps swapchain.Format back to a DXGI_FORMAT value.
// Kept local rather than added to internal/swapchain, which only ever
// needs the vendor-to-host direction (see format.go); this is the one
// place in the tree that allocates a real DXGI surface from a host
// format.
var hostFormatToDXGI = map[swapchain.Format]uint32{
	swapchain.FormatR8G8B8A8Unorm:     28,
	swapchain.FormatR8G8B8A8UnormSrgb: 29,
	swapchain.FormatB8G8R8A8Unorm:     87,
	swapchain.FormatB8G8R8A8UnormSrgb: 91,
	swapchain.FormatR16G16B16A16Float: 10,
	swapchain.FormatD32Float:          40,
	swapchain.FormatD24UnormS8Uint:    45,
	swapchain.FormatR10G10B10A2Unorm:  24,
}

// texture is the SliceResource concrete type this package hands back
// through swapchain.Resolver: a plain ID3D11Texture2D plus the views
// created for it on demand.
type texture struct {
	resource unsafe.Pointer
	uav      unsafe.Pointer
}

// Resolver implements swapchain.Resolver against one SubmissionDevice,
// compiling the alpha-correction compute shader lazily on first use so
// a session that never needs alpha correction never pays for it.
type Resolver struct {
	dev *SubmissionDevice

	compileOnce sync.Once
	compileErr  error
	shader      unsafe.Pointer // ID3D11ComputeShader
	paramsBuf   unsafe.Pointer // ID3D11Buffer
}

// NewResolver returns a Resolver bound to dev. dev must outlive every
// resource the Resolver creates.
func NewResolver(dev *SubmissionDevice) *Resolver {
	return &Resolver{dev: dev}
}

func (r *Resolver) createTexture(width, height, sampleCount, arraySize uint32, format swapchain.Format, bindFlags uint32) (swapchain.SliceResource, error) {
	dxgiFormat, ok := hostFormatToDXGI[format]
	if !ok {
		return nil, fmt.Errorf("interop/d3d11: no DXGI format for host format %d", format)
	}
	if sampleCount == 0 {
		sampleCount = 1
	}
	if arraySize == 0 {
		arraySize = 1
	}
	desc := textureDesc{
		width: width, height: height,
		mipLevels: 1, arraySize: arraySize,
		format:      dxgiFormat,
		sampleCount: sampleCount, sampleQuality: 0,
		usage: d3d11UsageDefault, bindFlags: bindFlags,
	}
	var tex unsafe.Pointer
	if _, err := callCOM(r.dev.device, slotCreateTexture2D,
		uintptr(unsafe.Pointer(&desc)),
		0, // pInitialData
		uintptr(unsafe.Pointer(&tex)),
	); err != nil {
		return nil, fmt.Errorf("interop/d3d11: ID3D11Device.CreateTexture2D: %w", err)
	}
	return &texture{resource: tex}, nil
}

// CreateSourceTexture implements swapchain.Resolver.
func (r *Resolver) CreateSourceTexture(width, height, sampleCount, arraySize uint32, format swapchain.Format) (swapchain.SliceResource, error) {
	return r.createTexture(width, height, sampleCount, arraySize, format, d3d11BindShaderResource)
}

// CreateResolvedTexture implements swapchain.Resolver. The resolved
// slice needs both a shader-resource view (read by the host compositor
// path) and an unordered-access view (written by the alpha-correction
// compute pass), so it is always bound for both.
func (r *Resolver) CreateResolvedTexture(width, height uint32, format swapchain.Format) (swapchain.SliceResource, error) {
	return r.createTexture(width, height, 1, 1, format, d3d11BindShaderResource|d3d11BindUnorderedAccess)
}

// ResolveSlice implements swapchain.Resolver: a single-sample array
// layer is a straight subresource copy, a multisample layer must go
// through ResolveSubresource to down-sample into dst.
func (r *Resolver) ResolveSlice(src swapchain.SliceResource, srcSubresource int, dst swapchain.SliceResource, sampleCount uint32) error {
	srcTex, ok := src.(*texture)
	if !ok || srcTex == nil {
		return fmt.Errorf("interop/d3d11: ResolveSlice: invalid source resource")
	}
	dstTex, ok := dst.(*texture)
	if !ok || dstTex == nil {
		return fmt.Errorf("interop/d3d11: ResolveSlice: invalid destination resource")
	}

	if sampleCount > 1 {
		// ResolveSubresource(pDstResource, DstSubresource, pSrcResource, SrcSubresource, Format)
		if _, err := callCOM(r.dev.context, slotResolveSubresource,
			uintptr(dstTex.resource), 0,
			uintptr(srcTex.resource), uintptr(srcSubresource),
			0, // DXGI_FORMAT_UNKNOWN: use the resources' own format
		); err != nil {
			return fmt.Errorf("interop/d3d11: ResolveSubresource: %w", err)
		}
		return nil
	}

	// CopySubresourceRegion(pDstResource, DstSubresource, 0, 0, 0, pSrcResource, SrcSubresource, pSrcBox)
	if _, err := callCOM(r.dev.context, slotCopySubresourceRegion,
		uintptr(dstTex.resource), 0,
		0, 0, 0, // DstX, DstY, DstZ
		uintptr(srcTex.resource), uintptr(srcSubresource),
		0, // pSrcBox: nil copies the whole subresource
	); err != nil {
		return fmt.Errorf("interop/d3d11: CopySubresourceRegion: %w", err)
	}
	return nil
}

func (r *Resolver) ensureCompiled() error {
	r.compileOnce.Do(func() {
		ast, err := naga.Parse(alphaCorrectShaderSource)
		if err != nil {
			r.compileErr = fmt.Errorf("interop/d3d11: parsing alpha-correct shader: %w", err)
			return
		}
		irModule, err := naga.LowerWithSource(ast, alphaCorrectShaderSource)
		if err != nil {
			r.compileErr = fmt.Errorf("interop/d3d11: lowering alpha-correct shader: %w", err)
			return
		}
		hlslSource, info, err := hlsl.Compile(irModule, hlsl.DefaultOptions())
		if err != nil {
			r.compileErr = fmt.Errorf("interop/d3d11: WGSL->HLSL for alpha-correct shader: %w", err)
			return
		}
		entryPoint := "cs_main"
		if info != nil && info.EntryPointNames != nil {
			if mapped, ok := info.EntryPointNames[entryPoint]; ok {
				entryPoint = mapped
			}
		}
		compiler, err := d3dcompile.Load()
		if err != nil {
			r.compileErr = fmt.Errorf("interop/d3d11: loading d3dcompiler_47.dll: %w", err)
			return
		}
		bytecode, err := compiler.Compile(hlslSource, entryPoint, d3dcompile.TargetCS51)
		if err != nil {
			r.compileErr = fmt.Errorf("interop/d3d11: compiling alpha-correct shader: %w", err)
			return
		}

		var shader unsafe.Pointer
		if _, err := callCOM(r.dev.device, slotCreateComputeShader,
			uintptr(unsafe.Pointer(&bytecode[0])), uintptr(len(bytecode)),
			0, // pClassLinkage
			uintptr(unsafe.Pointer(&shader)),
		); err != nil {
			r.compileErr = fmt.Errorf("interop/d3d11: ID3D11Device.CreateComputeShader: %w", err)
			return
		}

		bdesc := bufferDesc{
			byteWidth: uint32(unsafe.Sizeof(correctionParams{})),
			usage:     d3d11UsageDefault,
			bindFlags: d3d11BindConstantBuffer,
		}
		var buf unsafe.Pointer
		if _, err := callCOM(r.dev.device, slotCreateBuffer,
			uintptr(unsafe.Pointer(&bdesc)),
			0, // pInitialData
			uintptr(unsafe.Pointer(&buf)),
		); err != nil {
			release(shader)
			r.compileErr = fmt.Errorf("interop/d3d11: ID3D11Device.CreateBuffer(params): %w", err)
			return
		}

		r.shader = shader
		r.paramsBuf = buf
	})
	return r.compileErr
}

func (r *Resolver) ensureUAV(t *texture) error {
	if t.uav != nil {
		return nil
	}
	var uav unsafe.Pointer
	// CreateUnorderedAccessView(pResource, pDesc, ppUAV); a nil desc
	// asks D3D11 to infer a default view over the whole resource, which
	// is correct here since every resolved texture is single-mip,
	// single-array, single-sample.
	if _, err := callCOM(r.dev.device, slotCreateUnorderedAccessView,
		uintptr(t.resource), 0, uintptr(unsafe.Pointer(&uav)),
	); err != nil {
		return fmt.Errorf("interop/d3d11: ID3D11Device.CreateUnorderedAccessView: %w", err)
	}
	t.uav = uav
	return nil
}

// CorrectAlpha implements swapchain.Resolver.
func (r *Resolver) CorrectAlpha(dst swapchain.SliceResource, width, height uint32, forceAlphaOne, unpremultiply, srgb bool) error {
	if err := r.ensureCompiled(); err != nil {
		return err
	}
	dstTex, ok := dst.(*texture)
	if !ok || dstTex == nil {
		return fmt.Errorf("interop/d3d11: CorrectAlpha: invalid destination resource")
	}
	if err := r.ensureUAV(dstTex); err != nil {
		return err
	}

	params := correctionParams{
		forceAlphaOne: boolToU32(forceAlphaOne),
		unpremultiply: boolToU32(unpremultiply),
		isSRGB:        boolToU32(srgb),
	}
	if _, err := callCOM(r.dev.context, slotUpdateSubresource,
		uintptr(r.paramsBuf), 0,
		0, // pDstBox: nil updates the whole resource
		uintptr(unsafe.Pointer(&params)),
		0, 0, // SrcRowPitch, SrcDepthPitch: unused for buffers
	); err != nil {
		return fmt.Errorf("interop/d3d11: UpdateSubresource(params): %w", err)
	}

	if _, err := callCOM(r.dev.context, slotCSSetConstantBuffers, 0, 1, uintptr(unsafe.Pointer(&r.paramsBuf))); err != nil {
		return fmt.Errorf("interop/d3d11: CSSetConstantBuffers: %w", err)
	}
	if _, err := callCOM(r.dev.context, slotCSSetUnorderedAccessViews, 0, 1, uintptr(unsafe.Pointer(&dstTex.uav)), 0xFFFFFFFF); err != nil {
		return fmt.Errorf("interop/d3d11: CSSetUnorderedAccessViews: %w", err)
	}
	if _, err := callCOM(r.dev.context, slotCSSetShader, uintptr(r.shader), 0, 0); err != nil {
		return fmt.Errorf("interop/d3d11: CSSetShader: %w", err)
	}

	groupsX := (width + 7) / 8
	groupsY := (height + 7) / 8
	if _, err := callCOM(r.dev.context, slotDispatch, uintptr(groupsX), uintptr(groupsY), 1); err != nil {
		return fmt.Errorf("interop/d3d11: Dispatch: %w", err)
	}

	// Unbind the UAV immediately: the same resource is read as an SRV by
	// the compositor submission path right after Preprocess returns, and
	// D3D11 forbids a resource bound as both at once.
	var nilUAV unsafe.Pointer
	_, _ = callCOM(r.dev.context, slotCSSetUnorderedAccessViews, 0, 1, uintptr(unsafe.Pointer(&nilUAV)), 0xFFFFFFFF)
	return nil
}

// Release implements swapchain.Resolver.
func (r *Resolver) Release(res swapchain.SliceResource) {
	t, ok := res.(*texture)
	if !ok || t == nil {
		return
	}
	release(t.uav)
	release(t.resource)
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
