package instance

import "testing"

func newTestInstance() *Instance {
	return New(Options{AppName: "test-app", EngineName: "test-engine"})
}

func TestIsExtensionEnabled(t *testing.T) {
	inst := New(Options{Extensions: []string{"XR_KHR_D3D11_enable"}})
	if !inst.IsExtensionEnabled("XR_KHR_D3D11_enable") {
		t.Error("expected extension to be enabled")
	}
	if inst.IsExtensionEnabled("XR_KHR_vulkan_enable") {
		t.Error("unexpected extension reported enabled")
	}
}

func TestAcquireSessionSingletonInvariant(t *testing.T) {
	inst := newTestInstance()

	if err := inst.AcquireSession(false); err != nil {
		t.Fatalf("first AcquireSession(false) failed: %v", err)
	}
	if err := inst.AcquireSession(false); err == nil {
		t.Error("second AcquireSession(false) should fail while primary is active")
	}

	inst.ReleaseSession(false)
	if err := inst.AcquireSession(false); err != nil {
		t.Errorf("AcquireSession(false) after release failed: %v", err)
	}
}

func TestAcquireSessionOverlayCoexistsWithPrimary(t *testing.T) {
	inst := newTestInstance()

	if err := inst.AcquireSession(false); err != nil {
		t.Fatalf("AcquireSession(false) failed: %v", err)
	}
	if err := inst.AcquireSession(true); err != nil {
		t.Errorf("AcquireSession(true) should succeed alongside a primary session: %v", err)
	}
	if err := inst.AcquireSession(true); err != nil {
		t.Errorf("a second overlay session should also be allowed: %v", err)
	}
}

func TestClaimGraphicsRequirements(t *testing.T) {
	inst := newTestInstance()
	if inst.HasClaimedGraphicsRequirements(GraphicsD3D11) {
		t.Error("requirements should not be claimed before the call")
	}
	inst.ClaimGraphicsRequirements(GraphicsD3D11)
	if !inst.HasClaimedGraphicsRequirements(GraphicsD3D11) {
		t.Error("requirements should be claimed after the call")
	}
	if inst.HasClaimedGraphicsRequirements(GraphicsVulkan) {
		t.Error("claiming D3D11 should not mark Vulkan as claimed")
	}
}

func TestEventQueueFIFO(t *testing.T) {
	var q EventQueue
	q.Push(Event{Type: EventSessionStateChanged, State: SessionStateReady})
	q.Push(Event{Type: EventInteractionProfileChanged})

	first, ok := q.Pop()
	if !ok || first.Type != EventSessionStateChanged {
		t.Fatalf("first Pop = %+v, ok=%v, want EventSessionStateChanged", first, ok)
	}
	second, ok := q.Pop()
	if !ok || second.Type != EventInteractionProfileChanged {
		t.Fatalf("second Pop = %+v, ok=%v, want EventInteractionProfileChanged", second, ok)
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue should return ok=false")
	}
}
