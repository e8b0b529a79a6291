package swapchain

import (
	"testing"

	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
)

// newTestSwapchain builds a Swapchain bypassing New/hostapi.Client so
// the acquire/wait/release contract can be tested without a loaded host
// library.
func newTestSwapchain(layers int, static bool) *Swapchain {
	sc := &Swapchain{
		lastWaitedIndex:   -1,
		lastReleasedIndex: -1,
		static:            static,
		direct:            layers == 1,
	}
	for i := 0; i < layers; i++ {
		sc.resolved = append(sc.resolved, slice{})
	}
	return sc
}

func TestAcquireWaitReleaseHappyPath(t *testing.T) {
	sc := newTestSwapchain(1, false)

	idx, err := sc.Acquire()
	if err != nil || idx != 0 {
		t.Fatalf("acquire: %v, %v", idx, err)
	}
	if err := sc.Wait(idx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if err := sc.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := sc.LastReleasedIndex(); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestWaitRejectsNonFrontOfDeque(t *testing.T) {
	sc := newTestSwapchain(1, false)
	first, _ := sc.Acquire()
	second, _ := sc.Acquire()

	if err := sc.Wait(second); err != xrerror.ErrCallOrderInvalid {
		t.Fatalf("got %v, want ErrCallOrderInvalid", err)
	}
	if err := sc.Wait(first); err != nil {
		t.Fatalf("unexpected error waiting on front: %v", err)
	}
}

func TestReleaseRequiresPriorWait(t *testing.T) {
	sc := newTestSwapchain(1, false)
	_, _ = sc.Acquire()

	if err := sc.Release(); err != xrerror.ErrCallOrderInvalid {
		t.Fatalf("got %v, want ErrCallOrderInvalid", err)
	}
}

func TestStaticImageSwapchainRejectsSecondAcquire(t *testing.T) {
	sc := newTestSwapchain(1, true)

	idx, err := sc.Acquire()
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := sc.Wait(idx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if err := sc.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	if _, err := sc.Acquire(); err != xrerror.ErrCallOrderInvalid {
		t.Fatalf("got %v, want ErrCallOrderInvalid on second acquire", err)
	}
}

func TestAcquireCyclesThroughImageRing(t *testing.T) {
	sc := newTestSwapchain(1, false)
	seen := map[uint32]bool{}
	for i := 0; i < imageCount; i++ {
		idx, err := sc.Acquire()
		if err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
		seen[idx] = true
		_ = sc.Wait(idx)
		_ = sc.Release()
	}
	if len(seen) != imageCount {
		t.Fatalf("got %d distinct indices, want %d", len(seen), imageCount)
	}
}

func TestDXGIFormatToHostKnownAndUnknown(t *testing.T) {
	if f, ok := DXGIFormatToHost(28); !ok || f != FormatR8G8B8A8Unorm {
		t.Fatalf("got %v, %v", f, ok)
	}
	if _, ok := DXGIFormatToHost(999999); ok {
		t.Fatalf("expected unknown DXGI format to fail")
	}
}

func TestVulkanFormatToHostDistinguishesSRGB(t *testing.T) {
	unorm, _ := VulkanFormatToHost(44)
	srgb, _ := VulkanFormatToHost(50)
	if unorm == srgb {
		t.Fatalf("expected distinct formats, got %v == %v", unorm, srgb)
	}
	if !IsSRGB(srgb) || IsSRGB(unorm) {
		t.Fatalf("IsSRGB classification wrong: unorm=%v srgb=%v", IsSRGB(unorm), IsSRGB(srgb))
	}
}

func TestIsDepthFormat(t *testing.T) {
	if !IsDepthFormat(FormatD32Float) || !IsDepthFormat(FormatD24UnormS8Uint) {
		t.Fatalf("expected depth formats classified as depth")
	}
	if IsDepthFormat(FormatR8G8B8A8Unorm) {
		t.Fatalf("color format misclassified as depth")
	}
}

// fakeResource and fakeResolver let runResolve's sequencing be tested
// without a live hostapi.Client or a real D3D11 device.
type fakeResource struct{ name string }

type fakeResolver struct {
	resolveCalls []string
	correctCalls []string
	failResolve  bool
	failCorrect  bool
}

func (f *fakeResolver) CreateSourceTexture(uint32, uint32, uint32, uint32, Format) (SliceResource, error) {
	return &fakeResource{name: "source"}, nil
}

func (f *fakeResolver) CreateResolvedTexture(uint32, uint32, Format) (SliceResource, error) {
	return &fakeResource{name: "resolved"}, nil
}

func (f *fakeResolver) ResolveSlice(src SliceResource, srcSubresource int, dst SliceResource, sampleCount uint32) error {
	if f.failResolve {
		return xrerror.ErrGraphicsDeviceInvalid
	}
	f.resolveCalls = append(f.resolveCalls, dst.(*fakeResource).name)
	return nil
}

func (f *fakeResolver) CorrectAlpha(dst SliceResource, width, height uint32, forceAlphaOne, unpremultiply, srgb bool) error {
	if f.failCorrect {
		return xrerror.ErrGraphicsDeviceInvalid
	}
	f.correctCalls = append(f.correctCalls, dst.(*fakeResource).name)
	return nil
}

func (f *fakeResolver) Release(SliceResource) {}

func TestRunResolveArraySliceCallsResolverBeforeCorrection(t *testing.T) {
	r := &fakeResolver{}
	sc := newTestSwapchain(2, false)
	sc.resolver = r
	sc.source = &fakeResource{name: "source"}
	for i := range sc.resolved {
		sc.resolved[i].resource = &fakeResource{name: "resolved"}
	}

	if err := sc.runResolve(1, true, true); err != nil {
		t.Fatalf("runResolve: %v", err)
	}
	if len(r.resolveCalls) != 1 || r.resolveCalls[0] != "resolved" {
		t.Fatalf("expected one resolve call against the resolved slice, got %v", r.resolveCalls)
	}
	if len(r.correctCalls) != 1 {
		t.Fatalf("expected one alpha-correction call, got %v", r.correctCalls)
	}
}

func TestRunResolveDirectSwapchainSkipsResolveCopy(t *testing.T) {
	r := &fakeResolver{}
	sc := newTestSwapchain(1, false)
	sc.resolver = r
	sc.resolved[0].resource = &fakeResource{name: "resolved"}

	if err := sc.runResolve(0, true, false); err != nil {
		t.Fatalf("runResolve: %v", err)
	}
	if len(r.resolveCalls) != 0 {
		t.Fatalf("direct swapchain should never call ResolveSlice, got %v", r.resolveCalls)
	}
	if len(r.correctCalls) != 1 {
		t.Fatalf("expected alpha correction to still run on the direct slice, got %v", r.correctCalls)
	}
}

func TestRunResolveNilResolverIsANoOp(t *testing.T) {
	sc := newTestSwapchain(1, false)
	if err := sc.runResolve(0, true, true); err != nil {
		t.Fatalf("runResolve with nil resolver: %v", err)
	}
}

func TestRunResolvePropagatesResolverErrors(t *testing.T) {
	r := &fakeResolver{failResolve: true}
	sc := newTestSwapchain(2, false)
	sc.resolver = r
	sc.resolved[0].resource = &fakeResource{name: "resolved"}

	if err := sc.runResolve(0, false, false); err != xrerror.ErrGraphicsDeviceInvalid {
		t.Fatalf("got %v, want ErrGraphicsDeviceInvalid", err)
	}
}
