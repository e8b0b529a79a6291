package action

import (
	"testing"

	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
)

func TestChooseActualProfilePrefersTouch(t *testing.T) {
	suggested := map[Profile]bool{ProfileSimple: true, ProfileTouch: true}
	got, ok := ChooseActualProfile(suggested, false)
	if !ok || got != ProfileTouch {
		t.Fatalf("got %v, %v, want ProfileTouch", got, ok)
	}
}

func TestChooseActualProfileEmulatedIndex(t *testing.T) {
	suggested := map[Profile]bool{ProfileTouch: true, ProfileIndex: true}
	got, ok := ChooseActualProfile(suggested, true)
	if !ok || got != ProfileIndex {
		t.Fatalf("got %v, %v, want ProfileIndex", got, ok)
	}
}

func TestChooseActualProfileNoneSuggested(t *testing.T) {
	if _, ok := ChooseActualProfile(nil, false); ok {
		t.Fatalf("expected no profile chosen")
	}
}

func TestRewriteToTouchMSMotionMenu(t *testing.T) {
	left := RewriteToTouch(ProfileMSMotion, "input/menu/click", false)
	if left != "input/x/click" {
		t.Fatalf("left menu rewrite = %q, want input/x/click", left)
	}
	right := RewriteToTouch(ProfileMSMotion, "input/menu/click", true)
	if right != "input/a/click" {
		t.Fatalf("right menu rewrite = %q, want input/a/click", right)
	}
}

func TestRewriteToTouchTrackpadToThumbstick(t *testing.T) {
	got := RewriteToTouch(ProfileVive, "input/trackpad/x", false)
	if got != "input/thumbstick/x" {
		t.Fatalf("got %q, want input/thumbstick/x", got)
	}
}

func TestResolveSimpleProfileSelectClick(t *testing.T) {
	src, ok := Resolve(ProfileSimple, "input/select/click", SideRight)
	if !ok {
		t.Fatalf("expected resolution")
	}
	if src.Kind != ValueFloat || src.Field != FieldIndexTrigger {
		t.Fatalf("got %+v", src)
	}
}

func TestResolveUnknownPathFails(t *testing.T) {
	if _, ok := Resolve(ProfileTouch, "input/nonexistent/click", SideLeft); ok {
		t.Fatalf("expected resolution to fail")
	}
}

func TestReadBoolButton(t *testing.T) {
	src := ActionSource{Kind: ValueButton, ButtonBit: touchBitA}
	state := hostapi.InputState{Buttons: touchBitA}
	if !ReadBool(src, state) {
		t.Fatalf("expected true")
	}
	if ReadBool(src, hostapi.InputState{}) {
		t.Fatalf("expected false")
	}
}

func TestReadFloatTreatsButtonAsOneOrZero(t *testing.T) {
	src := ActionSource{Kind: ValueButton, ButtonBit: touchBitA}
	if v := ReadFloat(src, hostapi.InputState{Buttons: touchBitA}); v != 1 {
		t.Fatalf("got %v, want 1", v)
	}
	if v := ReadFloat(src, hostapi.InputState{}); v != 0 {
		t.Fatalf("got %v, want 0", v)
	}
}

func TestActionSetCreateActionRejectsAfterAttach(t *testing.T) {
	s := NewActionSet("gameplay", "Gameplay", 0)
	if _, err := s.CreateAction("fire", "Fire", TypeBool, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := NewManager()
	if err := m.AttachSessionActionSets([]*ActionSet{s}); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	if _, err := s.CreateAction("jump", "Jump", TypeBool, nil); err == nil {
		t.Fatalf("expected error creating action after attach")
	}
}

func TestSuggestBindingsRejectedAfterAttach(t *testing.T) {
	s := NewActionSet("gameplay", "Gameplay", 0)
	act, _ := s.CreateAction("fire", "Fire", TypeBool, nil)

	m := NewManager()
	if err := m.SuggestInteractionProfileBindings(ProfileSimple, map[*Action][]string{
		act: {"/user/hand/right/input/select/click"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.AttachSessionActionSets([]*ActionSet{s}); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	if err := m.SuggestInteractionProfileBindings(ProfileTouch, nil); err == nil {
		t.Fatalf("expected error suggesting bindings after attach")
	}
}

func TestGetActionStateBooleanReflectsSnapshot(t *testing.T) {
	s := NewActionSet("gameplay", "Gameplay", 0)
	act, _ := s.CreateAction("fire", "Fire", TypeBool, nil)

	m := NewManager()
	_ = m.SuggestInteractionProfileBindings(ProfileSimple, map[*Action][]string{
		act: {"/user/hand/right/input/select/click"},
	})
	_ = m.AttachSessionActionSets([]*ActionSet{s})

	s.mu.Lock()
	s.lastControllerType[SideRight] = "touch"
	s.mu.Unlock()
	m.rebindSide(s, SideRight)

	s.setSnapshot(SideRight, hostapi.InputState{IndexTrigger: 1})

	state := GetActionStateBoolean(act, "", nanosToXrTime(1))
	if !state.IsActive || !state.Current {
		t.Fatalf("got %+v, want active+true", state)
	}

	s.setSnapshot(SideRight, hostapi.InputState{})
	state2 := GetActionStateBoolean(act, "", nanosToXrTime(2))
	if !state2.ChangedSinceLastSync || state2.Current {
		t.Fatalf("got %+v, want changed+false", state2)
	}
}

func TestGetActionStateFloatTakesMaxAcrossSources(t *testing.T) {
	s := NewActionSet("gameplay", "Gameplay", 0)
	act, _ := s.CreateAction("grip", "Grip", TypeFloat, nil)

	m := NewManager()
	_ = m.SuggestInteractionProfileBindings(ProfileSimple, map[*Action][]string{
		act: {
			"/user/hand/left/input/select/click",
			"/user/hand/right/input/select/click",
		},
	})
	_ = m.AttachSessionActionSets([]*ActionSet{s})

	s.mu.Lock()
	s.lastControllerType[SideLeft] = "touch"
	s.lastControllerType[SideRight] = "touch"
	s.mu.Unlock()
	m.rebindSide(s, SideLeft)
	m.rebindSide(s, SideRight)

	s.setSnapshot(SideLeft, hostapi.InputState{IndexTrigger: 0.2})
	s.setSnapshot(SideRight, hostapi.InputState{IndexTrigger: 0.9})

	state := GetActionStateFloat(act, "", nanosToXrTime(1))
	if !state.IsActive || state.Current != 0.9 {
		t.Fatalf("got %+v, want 0.9", state)
	}
}

func TestControllerTypeString(t *testing.T) {
	if got := controllerTypeString(hostapi.ControllerLeftTouch, SideLeft); got != "touch" {
		t.Fatalf("got %q, want touch", got)
	}
	if got := controllerTypeString(hostapi.ControllerType(0), SideLeft); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestHapticStateExpiry(t *testing.T) {
	h := hapticState{active: true, startTime: 0, duration: 1000}
	if h.expired(500) {
		t.Fatalf("should not be expired yet")
	}
	if !h.expired(1000) {
		t.Fatalf("should be expired at duration boundary")
	}
}

func TestTrimUserPrefix(t *testing.T) {
	got, ok := trimUserPrefix("/user/hand/right/input/a/click", SideRight)
	if !ok || got != "input/a/click" {
		t.Fatalf("got %q, %v", got, ok)
	}
	if _, ok := trimUserPrefix("/user/hand/left/input/a/click", SideRight); ok {
		t.Fatalf("expected mismatch for wrong side")
	}
}
