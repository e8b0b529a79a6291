// Package action implements OpenXR action sets, actions, suggested
// interaction-profile bindings, cross-profile remapping, per-frame
// sync, state evaluation, and haptics.
package action

import "strings"

// Profile identifies an OpenXR interaction profile by its canonical
// path, e.g. "/interaction_profiles/khr/simple_controller".
type Profile string

const (
	ProfileSimple      Profile = "/interaction_profiles/khr/simple_controller"
	ProfileTouch       Profile = "/interaction_profiles/oculus/touch_controller"
	ProfileMSMotion    Profile = "/interaction_profiles/microsoft/motion_controller"
	ProfileVive        Profile = "/interaction_profiles/htc/vive_controller"
	ProfileIndex       Profile = "/interaction_profiles/valve/index_controller"
	ProfileHPReverb    Profile = "/interaction_profiles/hp/mixed_reality_controller"
	ProfileEyeGaze     Profile = "/interaction_profiles/ext/eye_gaze_interaction"
	ProfileBodyTracker Profile = "/interaction_profiles/meta/body_tracking_interaction"
)

// preferenceOrder is the physical-profile preference list spec.md §4.6
// names for choosing the "actual" interaction profile: prefer Touch if
// bound, else try each of these in turn.
var preferenceOrder = []Profile{
	ProfileTouch,
	ProfileMSMotion,
	ProfileIndex,
	ProfileVive,
	ProfileSimple,
}

// ChooseActualProfile implements spec.md §4.6 step 1-2: given the set of
// profiles the application suggested bindings for, and whether emulated
// Index controllers were requested, pick the physical profile to derive
// bindings from.
func ChooseActualProfile(suggested map[Profile]bool, emulatedIndexRequested bool) (Profile, bool) {
	if emulatedIndexRequested && suggested[ProfileIndex] {
		return ProfileIndex, true
	}
	for _, p := range preferenceOrder {
		if suggested[p] {
			return p, true
		}
	}
	return "", false
}

// rewriteRule is a deterministic textual rewrite from a virtual
// profile's binding path to its Touch-controller equivalent.
type rewriteRule struct {
	from   string
	to     string
	rightOnly bool
}

var virtualToTouchRewrites = map[Profile][]rewriteRule{
	ProfileMSMotion: {
		{from: "input/trackpad", to: "input/thumbstick"},
		{from: "input/menu", to: "input/a", rightOnly: true},
		{from: "input/menu", to: "input/x", rightOnly: false},
	},
	ProfileVive: {
		{from: "input/trackpad", to: "input/thumbstick"},
		{from: "input/menu", to: "input/b"},
	},
	ProfileIndex: {
		{from: "input/a", to: "input/a"},
		{from: "input/b", to: "input/b"},
		{from: "input/trackpad", to: "input/thumbstick"},
	},
	ProfileHPReverb: {
		{from: "input/trackpad", to: "input/thumbstick"},
		{from: "input/menu", to: "input/a", rightOnly: true},
	},
	ProfileSimple: {
		{from: "input/select", to: "input/trigger"},
		{from: "input/menu", to: "input/a", rightOnly: true},
		{from: "input/menu", to: "input/x", rightOnly: false},
	},
}

// RewriteToTouch rewrites bindingPath (the part after the top-level user
// path, e.g. "input/trackpad/x") from the given virtual profile to its
// Touch-controller equivalent, applying hand-specific rules
// (rightOnly) when isRightHand matches. Returns the path unchanged if no
// rule applies — the Touch mapping function is still given a chance to
// reject it.
func RewriteToTouch(profile Profile, bindingPath string, isRightHand bool) string {
	rules, ok := virtualToTouchRewrites[profile]
	if !ok {
		return bindingPath
	}
	for _, r := range rules {
		if r.rightOnly && !isRightHand {
			continue
		}
		if !r.rightOnly && isRightHand && hasRightSpecificOverride(rules, r.from) {
			continue
		}
		if strings.HasPrefix(bindingPath, r.from) {
			return r.to + strings.TrimPrefix(bindingPath, r.from)
		}
	}
	return bindingPath
}

func hasRightSpecificOverride(rules []rewriteRule, from string) bool {
	for _, r := range rules {
		if r.from == from && r.rightOnly {
			return true
		}
	}
	return false
}
