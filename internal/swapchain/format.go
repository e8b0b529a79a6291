package swapchain

// Format is a host-runtime pixel format code, the value
// hostapi.SwapchainDesc.Format expects. The vendor-to-host tables and
// helpers below, and internal/interop/d3d11's host-to-DXGI table, are
// the code that interprets it.
type Format uint32

const (
	FormatUnknown Format = iota
	FormatR8G8B8A8Unorm
	FormatR8G8B8A8UnormSrgb
	FormatB8G8R8A8Unorm
	FormatB8G8R8A8UnormSrgb
	FormatR16G16B16A16Float
	FormatD32Float
	FormatD24UnormS8Uint
	FormatR10G10B10A2Unorm
)

// dxgiFormatTable maps a DXGI_FORMAT value (D3D11/D3D12 surface) to the
// host format, grounded on the teacher's hal/dx12/convert.go
// textureFormatToD3D12 table, inverted (host runtime speaks DXGI
// natively, so no translation is lossy in that direction).
var dxgiFormatTable = map[uint32]Format{
	28:  FormatR8G8B8A8Unorm,    // DXGI_FORMAT_R8G8B8A8_UNORM
	29:  FormatR8G8B8A8UnormSrgb, // DXGI_FORMAT_R8G8B8A8_UNORM_SRGB
	87:  FormatB8G8R8A8Unorm,     // DXGI_FORMAT_B8G8R8A8_UNORM
	91:  FormatB8G8R8A8UnormSrgb, // DXGI_FORMAT_B8G8R8A8_UNORM_SRGB
	10:  FormatR16G16B16A16Float, // DXGI_FORMAT_R16G16B16A16_FLOAT
	40:  FormatD32Float,          // DXGI_FORMAT_D32_FLOAT
	45:  FormatD24UnormS8Uint,    // DXGI_FORMAT_D24_UNORM_S8_UINT
	24:  FormatR10G10B10A2Unorm,  // DXGI_FORMAT_R10G10B10A2_UNORM
}

// vulkanFormatTable maps a VkFormat value to the host format.
var vulkanFormatTable = map[uint32]Format{
	37: FormatR8G8B8A8Unorm,     // VK_FORMAT_R8G8B8A8_UNORM
	43: FormatR8G8B8A8UnormSrgb, // VK_FORMAT_R8G8B8A8_SRGB
	44: FormatB8G8R8A8Unorm,     // VK_FORMAT_B8G8R8A8_UNORM
	50: FormatB8G8R8A8UnormSrgb, // VK_FORMAT_B8G8R8A8_SRGB
	97:  FormatR16G16B16A16Float, // VK_FORMAT_R16G16B16A16_SFLOAT
	126: FormatD32Float,          // VK_FORMAT_D32_SFLOAT
	129: FormatD24UnormS8Uint,    // VK_FORMAT_D24_UNORM_S8_UINT
	64:  FormatR10G10B10A2Unorm,  // VK_FORMAT_A2B10G10R10_UNORM_PACK32
}

// GL_RGBA8, GL_SRGB8_ALPHA8, GL_RGBA16F, GL_DEPTH_COMPONENT32F,
// GL_DEPTH24_STENCIL8, GL_RGB10_A2 — OpenGL has no native BGRA internal
// format, so a BGRA8 request is rejected at this layer (see
// OpenGLFormatToHost) rather than silently swapped to RGBA.
var openglFormatTable = map[uint32]Format{
	0x8058: FormatR8G8B8A8Unorm,
	0x8C43: FormatR8G8B8A8UnormSrgb,
	0x881A: FormatR16G16B16A16Float,
	0x8CAC: FormatD32Float,
	0x88F0: FormatD24UnormS8Uint,
	0x8059: FormatR10G10B10A2Unorm,
}

func lookup(table map[uint32]Format, vendor uint32) (Format, bool) {
	f, ok := table[vendor]
	return f, ok
}

// DXGIFormatToHost translates a D3D11/D3D12 DXGI_FORMAT value into a
// host swapchain format. ok is false for an unsupported format — swap-
// chain creation must fail rather than guess.
func DXGIFormatToHost(dxgiFormat uint32) (Format, bool) { return lookup(dxgiFormatTable, dxgiFormat) }

// VulkanFormatToHost translates a VkFormat value into a host swapchain
// format.
func VulkanFormatToHost(vkFormat uint32) (Format, bool) { return lookup(vulkanFormatTable, vkFormat) }

// OpenGLFormatToHost translates a GL internal format enum into a host
// swapchain format.
func OpenGLFormatToHost(glInternalFormat uint32) (Format, bool) {
	return lookup(openglFormatTable, glInternalFormat)
}

// IsDepthFormat reports whether f is a depth (or depth/stencil) format,
// used to decide EyeFovDepth vs EyeFov layer submission.
func IsDepthFormat(f Format) bool {
	return f == FormatD32Float || f == FormatD24UnormS8Uint
}

// IsSRGB reports whether f encodes sRGB gamma, used by the alpha-
// correction/premultiply compute shader to decide linear-vs-gamma
// handling.
func IsSRGB(f Format) bool {
	return f == FormatR8G8B8A8UnormSrgb || f == FormatB8G8R8A8UnormSrgb
}
