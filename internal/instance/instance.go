// Package instance implements the OpenXR Instance and System objects:
// the enabled-extension table, application identity, the time base and
// path interner every other component shares, the graphics-requirements
// handshake, and bookkeeping for the "exactly one primary session"
// invariant (with room for a coexisting overlay session).
package instance

import (
	"errors"
	"sync"

	"github.com/mbucchia/openxr-hostbridge/internal/action"
	"github.com/mbucchia/openxr-hostbridge/internal/config"
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
	"github.com/mbucchia/openxr-hostbridge/internal/xrpath"
	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

// SystemID is the fixed, non-null system identifier this runtime
// reports from xrGetSystem. There is exactly one system: the connected
// headset, however it is implemented.
const SystemID uint64 = 1

// GraphicsAPI names the graphics bindings an application may enable.
type GraphicsAPI int

const (
	GraphicsNone GraphicsAPI = iota
	GraphicsD3D11
	GraphicsD3D12
	GraphicsVulkan
	GraphicsOpenGL
)

// SystemProperties mirrors the fields of XrSystemProperties this
// runtime can actually populate.
type SystemProperties struct {
	SystemName          string
	VendorID            uint32
	MaxSwapchainWidth   uint32
	MaxSwapchainHeight  uint32
	MaxLayerCount       uint32
	OrientationTracking bool
	PositionTracking    bool
}

// Instance is the process-wide OpenXR instance object. It is created
// once by xrCreateInstance and owns every shared service: extension
// table, path interner, time base, configuration store, and the host
// runtime client.
type Instance struct {
	mu sync.Mutex

	appName      string
	engineName   string
	extensions   map[string]bool
	graphicsReqClaimed map[GraphicsAPI]bool

	primaryActive bool
	overlayCount  int

	Paths   *xrpath.Interner
	Time    *xrtime.Base
	Config  *config.Watcher
	Host    *hostapi.Client
	Events  EventQueue

	// Actions is shared across every session this instance creates:
	// suggested interaction-profile bindings and the "has anything
	// attached yet" gate are instance-wide in real OpenXR even though
	// xrAttachSessionActionSets is called per XrSession.
	Actions *action.Manager

	systemProps SystemProperties
	hmdCached   bool
}

// Options configures Instance creation.
type Options struct {
	AppName      string
	EngineName   string
	Extensions   []string
	ConfigPath   string
	HostClient   *hostapi.Client
}

// New constructs an Instance. The host client is expected to already be
// open (see hostapi.Open); Instance takes ownership and closes it when
// Destroy is called.
func New(opts Options) *Instance {
	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[e] = true
	}

	inst := &Instance{
		appName:            opts.AppName,
		engineName:         opts.EngineName,
		extensions:         exts,
		graphicsReqClaimed: make(map[GraphicsAPI]bool),
		Paths: xrpath.New(),
		// The host runtime exposes no direct "current clock seconds"
		// query; WaitToBeginFrame's own predicted display time is what
		// ultimately anchors frame pacing, so the offset is 0 and is
		// not adjusted afterwards.
		Time:    xrtime.NewBase(0),
		Host:    opts.HostClient,
		Actions: action.NewManager(),
	}
	if opts.ConfigPath != "" {
		inst.Config = config.Load(opts.ConfigPath)
	} else {
		inst.Config = config.Load("")
	}

	xrlog.Logger().Info("instance: created", "app", opts.AppName, "engine", opts.EngineName, "extensions", opts.Extensions)
	return inst
}

// Destroy releases the host runtime client. Safe to call once.
func (inst *Instance) Destroy() error {
	xrlog.Logger().Info("instance: destroyed")
	if inst.Host != nil {
		return inst.Host.Close()
	}
	return nil
}

// IsExtensionEnabled reports whether name was passed to xrCreateInstance.
func (inst *Instance) IsExtensionEnabled(name string) bool {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.extensions[name]
}

// ErrSessionAlreadyExists is returned by AcquireSession when a primary
// session is already active and overlay is false.
var ErrSessionAlreadyExists = xrerror.ErrLayerInvalid

// AcquireSession enforces the "exactly one primary session" invariant
// while allowing any number of overlay sessions (XR_EXTX_overlay) to
// coexist alongside it.
func (inst *Instance) AcquireSession(overlay bool) error {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if !overlay {
		if inst.primaryActive {
			return ErrSessionAlreadyExists
		}
		inst.primaryActive = true
		return nil
	}

	inst.overlayCount++
	return nil
}

// ReleaseSession undoes a prior AcquireSession call with the same
// overlay flag.
func (inst *Instance) ReleaseSession(overlay bool) {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if !overlay {
		inst.primaryActive = false
		return
	}
	if inst.overlayCount > 0 {
		inst.overlayCount--
	}
}

// ClaimGraphicsRequirements marks that the application called the
// Get*GraphicsRequirements function for api. CreateSession checks this
// before accepting a binding for that API.
func (inst *Instance) ClaimGraphicsRequirements(api GraphicsAPI) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.graphicsReqClaimed[api] = true
}

// HasClaimedGraphicsRequirements reports whether ClaimGraphicsRequirements
// was called for api.
func (inst *Instance) HasClaimedGraphicsRequirements(api GraphicsAPI) bool {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.graphicsReqClaimed[api]
}

// SystemProperties returns cached system properties, querying the host
// HMD descriptor on first use.
func (inst *Instance) SystemProperties() (SystemProperties, error) {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if inst.hmdCached {
		return inst.systemProps, nil
	}

	if inst.Host == nil {
		return SystemProperties{}, errors.New("instance: no host runtime client")
	}

	desc, err := inst.Host.GetHMDDescriptor(0)
	if err != nil {
		return SystemProperties{}, err
	}

	inst.systemProps = SystemProperties{
		SystemName:          desc.ProductName,
		VendorID:            uint32(desc.VendorID),
		MaxSwapchainWidth:   desc.ResolutionWidth,
		MaxSwapchainHeight:  desc.ResolutionHeight,
		MaxLayerCount:       16,
		OrientationTracking: true,
		PositionTracking:    true,
	}
	inst.hmdCached = true
	return inst.systemProps, nil
}
