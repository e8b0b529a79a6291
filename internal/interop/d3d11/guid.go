//go:build windows

package d3d11

// GUID mirrors the Win32 GUID layout. Kept local to this package rather
// than reusing hal/dx12/d3d12.GUID so internal/interop/d3d11 has no
// compile-time dependency on the D3D12 COM surface.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// IID_ID3D11Device is the interface ID for ID3D11Device.
// {DB6F6DDB-AC77-4E88-8253-819DF9BBF140}
var IID_ID3D11Device = GUID{
	Data1: 0xDB6F6DDB,
	Data2: 0xAC77,
	Data3: 0x4E88,
	Data4: [8]byte{0x82, 0x53, 0x81, 0x9D, 0xF9, 0xBB, 0xF1, 0x40},
}

// IID_ID3D11Device5 is the interface ID for ID3D11Device5, which adds
// OpenSharedFence/CreateFence used for the cross-API submission fence.
// {8FFDE1D6-8311-44B1-9A0C-1BDD4D42EF2C}
var IID_ID3D11Device5 = GUID{
	Data1: 0x8FFDE1D6,
	Data2: 0x8311,
	Data3: 0x44B1,
	Data4: [8]byte{0x9A, 0x0C, 0x1B, 0xDD, 0x4D, 0x42, 0xEF, 0x2C},
}

// IID_ID3D11DeviceContext4 is the interface ID for ID3D11DeviceContext4,
// which adds the Signal/Wait pair used against cross-API fences.
// {917600DA-F58C-4C71-9DDE-35B727FC5476}
var IID_ID3D11DeviceContext4 = GUID{
	Data1: 0x917600DA,
	Data2: 0xF58C,
	Data3: 0x4C71,
	Data4: [8]byte{0x9D, 0xDE, 0x35, 0xB7, 0x27, 0xFC, 0x54, 0x76},
}

// IID_ID3D11Fence is the interface ID for ID3D11Fence.
// {AFFDE9D1-1DF0-4EF3-B761-6E7CE4D50543}
var IID_ID3D11Fence = GUID{
	Data1: 0xAFFDE9D1,
	Data2: 0x1DF0,
	Data3: 0x4EF3,
	Data4: [8]byte{0xB7, 0x61, 0x6E, 0x7C, 0xE4, 0xD5, 0x05, 0x43},
}

// IID_IDXGIDevice is the interface ID for IDXGIDevice.
// {54EC77FA-1377-44E6-8C32-88FD5F44C84C}
var IID_IDXGIDevice = GUID{
	Data1: 0x54EC77FA,
	Data2: 0x1377,
	Data3: 0x44E6,
	Data4: [8]byte{0x8C, 0x32, 0x88, 0xFD, 0x5F, 0x44, 0xC8, 0x4C},
}

// IID_IDXGIAdapter is the interface ID for IDXGIAdapter.
// {2411E7E1-12AC-4CCF-BD14-9798E8534DC0}
var IID_IDXGIAdapter = GUID{
	Data1: 0x2411E7E1,
	Data2: 0x12AC,
	Data3: 0x4CCF,
	Data4: [8]byte{0xBD, 0x14, 0x97, 0x98, 0xE8, 0x53, 0x4D, 0xC0},
}

// IID_IDXGIResource1 is the interface ID for IDXGIResource1, which adds
// CreateSharedHandle used to export swapchain textures to other APIs.
// {30961379-4609-4A41-998E-54FE567EE0C1}
var IID_IDXGIResource1 = GUID{
	Data1: 0x30961379,
	Data2: 0x4609,
	Data3: 0x4A41,
	Data4: [8]byte{0x99, 0x8E, 0x54, 0xFE, 0x56, 0x7E, 0xE0, 0xC1},
}
