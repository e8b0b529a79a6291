package action

import (
	"sync"
	"time"

	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

type inputSnapshot = hostapi.InputState

var snapshotMu sync.Mutex

func (s *ActionSet) setSnapshot(side Side, state inputSnapshot) {
	snapshotMu.Lock()
	defer snapshotMu.Unlock()
	if s.snapshot == nil {
		s.snapshot = make(map[Side]inputSnapshot)
	}
	s.snapshot[side] = state
}

func (s *ActionSet) getSnapshot(side Side) (inputSnapshot, bool) {
	snapshotMu.Lock()
	defer snapshotMu.Unlock()
	state, ok := s.snapshot[side]
	return state, ok
}

func nanosToXrTime(n int64) xrtime.Time { return xrtime.Time(n) }

// Now returns the current instant as an XrTime using the wall clock;
// production callers pass the session's own time base instead, this is
// a convenience for straightforward call sites that don't have one
// handy (e.g. the ABI layer can always supply its own).
func Now() xrtime.Time { return nanosToXrTime(time.Now().UnixNano()) }

// isSideActive reports whether side's controller is currently connected,
// consulting the set's cached controller-type string.
func (s *ActionSet) isSideActive(side Side) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastControllerType[side] != ""
}

// BoolState is the result of GetActionStateBoolean.
type BoolState struct {
	Current              bool
	ChangedSinceLastSync bool
	IsActive             bool
}

// GetActionStateBoolean implements spec.md §4.6's state evaluation for
// bool actions, filtered to sources under subactionPath ("" for no
// filter).
func GetActionStateBoolean(a *Action, subactionPath string, now xrtime.Time) BoolState {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.Set.IsAttached() {
		return BoolState{}
	}

	var (
		found bool
		value bool
	)
	for _, src := range a.sources {
		if !sourceMatchesSubaction(src, subactionPath) {
			continue
		}
		if !a.Set.isSideActive(src.Side) {
			continue
		}
		state, ok := a.Set.getSnapshot(src.Side)
		if !ok {
			continue
		}
		if ReadBool(src, state) {
			value = true
		}
		found = true
	}

	return a.recordBool(subactionPath, found, value, now)
}

func (a *Action) recordBool(key string, found, value bool, now xrtime.Time) BoolState {
	lv, ok := a.last[key]
	if !ok {
		lv = &lastValue{}
		a.last[key] = lv
	}

	if !found {
		changed := lv.haveValue && lv.active
		lv.active = false
		lv.haveValue = true
		return BoolState{IsActive: false, ChangedSinceLastSync: changed}
	}

	changed := !lv.haveValue || !lv.active || lv.boolV != value
	if changed {
		lv.changedAt = now
	}
	lv.boolV = value
	lv.active = true
	lv.haveValue = true

	return BoolState{Current: value, IsActive: true, ChangedSinceLastSync: changed}
}

// FloatState is the result of GetActionStateFloat.
type FloatState struct {
	Current              float32
	ChangedSinceLastSync bool
	IsActive             bool
}

// GetActionStateFloat implements spec.md §4.6's state evaluation for
// float actions: the max over every matching, active binding.
func GetActionStateFloat(a *Action, subactionPath string, now xrtime.Time) FloatState {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.Set.IsAttached() {
		return FloatState{}
	}

	var (
		found bool
		value float64
	)
	for _, src := range a.sources {
		if !sourceMatchesSubaction(src, subactionPath) {
			continue
		}
		if !a.Set.isSideActive(src.Side) {
			continue
		}
		state, ok := a.Set.getSnapshot(src.Side)
		if !ok {
			continue
		}
		v := ReadFloat(src, state)
		if !found || v > value {
			value = v
		}
		found = true
	}

	lv, ok := a.last[subactionPath]
	if !ok {
		lv = &lastValue{}
		a.last[subactionPath] = lv
	}

	if !found {
		changed := lv.haveValue && lv.active
		lv.active = false
		lv.haveValue = true
		return FloatState{IsActive: false, ChangedSinceLastSync: changed}
	}

	changed := !lv.haveValue || !lv.active || lv.floatV != value
	if changed {
		lv.changedAt = now
	}
	lv.floatV = value
	lv.active = true
	lv.haveValue = true

	return FloatState{Current: float32(value), IsActive: true, ChangedSinceLastSync: changed}
}

// Vector2State is the result of GetActionStateVector2f.
type Vector2State struct {
	X, Y                 float32
	ChangedSinceLastSync bool
	IsActive             bool
}

// GetActionStateVector2f implements spec.md §4.6's state evaluation for
// Vector2 actions: the binding whose length is greatest wins.
func GetActionStateVector2f(a *Action, subactionPath string, now xrtime.Time) Vector2State {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.Set.IsAttached() {
		return Vector2State{}
	}

	var (
		found        bool
		bestX, bestY float64
		bestLenSq    float64
	)
	for _, src := range a.sources {
		if !sourceMatchesSubaction(src, subactionPath) {
			continue
		}
		if !a.Set.isSideActive(src.Side) {
			continue
		}
		state, ok := a.Set.getSnapshot(src.Side)
		if !ok {
			continue
		}
		x, y := ReadVector2(src, state)
		lenSq := x*x + y*y
		if !found || lenSq > bestLenSq {
			bestX, bestY, bestLenSq = x, y, lenSq
		}
		found = true
	}

	lv, ok := a.last[subactionPath]
	if !ok {
		lv = &lastValue{}
		a.last[subactionPath] = lv
	}

	if !found {
		changed := lv.haveValue && lv.active
		lv.active = false
		lv.haveValue = true
		return Vector2State{IsActive: false, ChangedSinceLastSync: changed}
	}

	changed := !lv.haveValue || !lv.active || lv.vec2X != bestX || lv.vec2Y != bestY
	if changed {
		lv.changedAt = now
	}
	lv.vec2X, lv.vec2Y = bestX, bestY
	lv.active = true
	lv.haveValue = true

	return Vector2State{X: float32(bestX), Y: float32(bestY), IsActive: true, ChangedSinceLastSync: changed}
}

// GetActionStatePose reports only whether a pose action is active: the
// controller is connected, a body joint is available, or eye tracking
// is enabled, depending on the action's bound source. Since pose sources
// live in internal/spacegraph rather than as ActionSource values here,
// the caller supplies the liveness check.
func GetActionStatePose(isLive bool) bool {
	return isLive
}

func sourceMatchesSubaction(src ActionSource, subactionPath string) bool {
	if subactionPath == "" {
		return true
	}
	want, ok := sideForSubactionPath(subactionPath)
	return ok && want == src.Side
}
