// Package swapchain implements the OpenXR swapchain's acquire/wait/
// release ordering contract, the array/multisample resolve chain into
// host-compatible slices, and the alpha-correction preprocessing pass
// that runs once per dirty slice before a frame is handed to the host
// compositor.
package swapchain

import (
	"sync"

	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

// UsageFlags mirrors OpenXR's XrSwapchainUsageFlags bits this engine
// cares about.
type UsageFlags uint32

const (
	UsageColorAttachment UsageFlags = 1 << iota
	UsageDepthStencilAttachment
	UsageUnorderedAccess
	UsageStaticImage
	UsageSourceAlpha        // XR_SWAPCHAIN_USAGE_SOURCE_ALPHA_BIT_KHR equivalent
	UsageUnpremultipliedAlpha
)

// Desc is the application-facing swapchain creation descriptor.
type Desc struct {
	Width, Height uint32
	Format        Format
	SampleCount   uint32
	ArraySize     uint32
	FaceCount     uint32
	MipCount      uint32
	Usage         UsageFlags
}

// slice is one resolved, single-layer single-sample host swapchain: the
// unit the host compositor actually consumes.
type slice struct {
	host      hostapi.SwapchainHandle
	resource  SliceResource // nil if this Swapchain has no Resolver
	committed bool          // committed this frame already
}

// Swapchain is one application-facing swapchain and its resolved
// slices.
type Swapchain struct {
	Desc Desc

	session hostapi.SessionHandle
	host    *hostapi.Client

	mu sync.Mutex

	// resolved holds one entry per array layer (len == Desc.ArraySize *
	// Desc.FaceCount); when the app-facing slice already matches what
	// the host wants (single layer, single sample, not a cube), direct
	// is true and resolved[0].host is also the app-facing swapchain —
	// no separate copy/resolve step runs.
	resolved []slice
	direct   bool

	// resolver performs the actual resolve-copy and alpha-correction
	// compute dispatch for this swapchain; nil for a headless session
	// or a session whose graphics backend has no Resolver implementation
	// yet, in which case Preprocess only sequences the host commit.
	resolver Resolver
	source   SliceResource // the app-facing array/MSAA resource; nil when direct

	acquired          []uint32
	nextAcquireIndex  uint32
	lastWaitedIndex   int
	lastReleasedIndex int
	dirty             bool

	static          bool
	staticConsumed  bool
}

// imageCount is fixed at creation and matches how many ring entries the
// host allocates per resolved slice; a triple-buffered ring is assumed
// throughout (index values are always in [0,3)).
const imageCount = 3

// New creates a Swapchain and its resolved host-side slices. resolver
// may be nil (headless sessions, or a graphics backend with no
// Resolver yet); Preprocess degrades gracefully when it is.
func New(host *hostapi.Client, session hostapi.SessionHandle, desc Desc, resolver Resolver) (*Swapchain, error) {
	if desc.ArraySize == 0 {
		desc.ArraySize = 1
	}
	if desc.FaceCount != 1 && desc.FaceCount != 6 {
		return nil, xrerror.ErrSwapchainFormatUnsupported
	}

	layers := int(desc.ArraySize * desc.FaceCount)
	direct := layers == 1 && desc.SampleCount <= 1 && desc.FaceCount == 1

	sc := &Swapchain{
		Desc:              desc,
		session:           session,
		host:              host,
		lastWaitedIndex:   -1,
		lastReleasedIndex: -1,
		static:            desc.Usage&UsageStaticImage != 0,
		direct:            direct,
		resolver:          resolver,
	}

	if resolver != nil && !direct {
		src, err := resolver.CreateSourceTexture(desc.Width, desc.Height, desc.SampleCount, uint32(layers), desc.Format)
		if err != nil {
			return nil, err
		}
		sc.source = src
	}

	for i := 0; i < layers; i++ {
		hostDesc := hostapi.SwapchainDesc{
			Width: desc.Width, Height: desc.Height,
			ArraySize: 1, MipLevels: 1, SampleCount: 1,
			Format:      uint32(desc.Format),
			BindFlags:   uint32(desc.Usage),
			StaticImage: sc.static,
		}
		h, err := host.CreateSwapchain(session, hostDesc)
		if err != nil {
			sc.destroySlices(i)
			return nil, err
		}
		s := slice{host: h}
		if resolver != nil {
			// Created unconditionally, even when direct: alpha
			// correction may still need to run on a single-layer
			// single-sample image, which is what the resolved texture
			// models regardless of whether a resolve copy feeds it.
			res, err := resolver.CreateResolvedTexture(desc.Width, desc.Height, desc.Format)
			if err != nil {
				_ = host.DestroySwapchain(session, h)
				sc.destroySlices(i)
				return nil, err
			}
			s.resource = res
		}
		sc.resolved = append(sc.resolved, s)
	}

	return sc, nil
}

func (sc *Swapchain) destroySlices(n int) {
	for i := 0; i < n; i++ {
		_ = sc.host.DestroySwapchain(sc.session, sc.resolved[i].host)
		if sc.resolver != nil && sc.resolved[i].resource != nil {
			sc.resolver.Release(sc.resolved[i].resource)
		}
	}
	if sc.resolver != nil && sc.source != nil {
		sc.resolver.Release(sc.source)
		sc.source = nil
	}
}

// Destroy releases every resolved slice's host swapchain and, if this
// Swapchain has a Resolver, its GPU-side resources.
func (sc *Swapchain) Destroy() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	var firstErr error
	for _, s := range sc.resolved {
		if err := sc.host.DestroySwapchain(sc.session, s.host); err != nil && firstErr == nil {
			firstErr = err
		}
		if sc.resolver != nil && s.resource != nil {
			sc.resolver.Release(s.resource)
		}
	}
	if sc.resolver != nil && sc.source != nil {
		sc.resolver.Release(sc.source)
	}
	return firstErr
}

// Acquire implements xrAcquireSwapchainImage: appends the next app-
// facing index to the acquired deque and returns it. The app-facing
// ring always has imageCount entries regardless of how many resolved
// slices back it.
func (sc *Swapchain) Acquire() (uint32, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.static && sc.staticConsumed {
		return 0, xrerror.ErrCallOrderInvalid
	}

	next := sc.nextAcquireIndex
	sc.nextAcquireIndex = (sc.nextAcquireIndex + 1) % imageCount
	sc.acquired = append(sc.acquired, next)
	return next, nil
}

// Wait implements xrWaitSwapchainImage: the target must be the front of
// the acquired deque. The host runtime does not expose a distinct wait
// entry point (see internal/hostapi), so readiness is tracked purely in
// this package via the commit/acquire cadence: an image is always
// immediately writable once acquired because the resolved slice's
// actual host-side fence is owned by the graphics interop layer
// (internal/interop), which blocks on the GPU timeline before Preprocess
// runs. This still enforces the ordering contract (only the front image
// may be waited).
func (sc *Swapchain) Wait(target uint32) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if len(sc.acquired) == 0 || sc.acquired[0] != target {
		return xrerror.ErrCallOrderInvalid
	}
	sc.lastWaitedIndex = int(target)
	return nil
}

// Release implements xrReleaseSwapchainImage: the waited image is
// popped from the deque and the swapchain is marked dirty so the next
// EndFrame preprocess pass resolves it.
func (sc *Swapchain) Release() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if len(sc.acquired) == 0 || int(sc.acquired[0]) != sc.lastWaitedIndex {
		return xrerror.ErrCallOrderInvalid
	}
	sc.lastReleasedIndex = int(sc.acquired[0])
	sc.acquired = sc.acquired[1:]
	sc.dirty = true
	if sc.static {
		sc.staticConsumed = true
	}
	return nil
}

// LastReleasedIndex returns the most recently released app-facing
// index, or -1 if none has been released yet.
func (sc *Swapchain) LastReleasedIndex() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.lastReleasedIndex
}

// SliceHandle returns the resolved host swapchain handle for layer i.
func (sc *Swapchain) SliceHandle(layer int) (hostapi.SwapchainHandle, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if layer < 0 || layer >= len(sc.resolved) {
		return 0, false
	}
	return sc.resolved[layer].host, true
}

// beginFrame resets every slice's committed flag; called once at the
// start of EndFrame's layer walk.
func (sc *Swapchain) beginFrame() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for i := range sc.resolved {
		sc.resolved[i].committed = false
	}
}

// Preprocess runs the resolve/alpha-correction pass for layer (an array
// index into resolved) unless that slice is already committed this
// frame, then commits the slice's host swapchain exactly once. The
// dirty flag is cleared here but not consulted. needAlphaCorrect and
// needUnpremultiply are forced by the caller (EndFrame's layer walk)
// based on the layer's role and flags, not stored on the swapchain
// itself — the same swapchain can be referenced by multiple layers in
// one frame with different correction needs in principle, though only
// its first reference per frame actually re-resolves (see the
// committed guard).
func (sc *Swapchain) Preprocess(layer int, needAlphaCorrect, needUnpremultiply bool) (hostapi.SwapchainHandle, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if layer < 0 || layer >= len(sc.resolved) {
		return 0, xrerror.ErrSwapchainRectInvalid
	}
	s := &sc.resolved[layer]
	if s.committed {
		return s.host, nil
	}

	if err := sc.runResolve(layer, needAlphaCorrect, needUnpremultiply); err != nil {
		return 0, err
	}

	if _, err := sc.host.AcquireSwapchainImage(sc.session, s.host); err != nil {
		return 0, err
	}
	s.committed = true
	sc.dirty = false

	return s.host, nil
}

// runResolve performs the actual GPU resolve-copy and alpha-correction
// dispatch for layer, against whichever Resolver the swapchain was
// created with. Split out of Preprocess so it can be exercised without
// a live hostapi.Client.
func (sc *Swapchain) runResolve(layer int, needAlphaCorrect, needUnpremultiply bool) error {
	s := &sc.resolved[layer]

	if sc.resolver == nil {
		// No Resolver bound (headless session, or a graphics backend
		// that has not wired one): there is no GPU resource to operate
		// on, so only the host commit ordering is enforced.
		if !sc.direct {
			xrlog.Logger().Debug("swapchain: no resolver bound, skipping array/MSAA resolve", "layer", layer)
		}
		return nil
	}

	if !sc.direct {
		if err := sc.resolver.ResolveSlice(sc.source, layer, s.resource, sc.Desc.SampleCount); err != nil {
			return err
		}
	}
	if (needAlphaCorrect || needUnpremultiply) && s.resource != nil {
		if err := sc.resolver.CorrectAlpha(s.resource, sc.Desc.Width, sc.Desc.Height, needAlphaCorrect, needUnpremultiply, IsSRGB(sc.Desc.Format)); err != nil {
			return err
		}
	}
	return nil
}

// LayerCount returns how many resolved slices back this swapchain
// (Desc.ArraySize * Desc.FaceCount).
func (sc *Swapchain) LayerCount() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.resolved)
}
