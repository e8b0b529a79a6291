package abi

/*
#include "xrtypes.h"
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/mbucchia/openxr-hostbridge/internal/action"
	"github.com/mbucchia/openxr-hostbridge/internal/handle"
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

// actionSets and actionObjs are instance-scoped, like the real
// XrActionSet/XrAction objects: xrCreateActionSet takes an XrInstance,
// not a session, and an action set created once can be attached to
// several sessions (the primary and an overlay) over its lifetime.
var (
	actionTablesMu sync.Mutex
	actionSets     = handle.NewTable[*action.ActionSet, handle.ActionSetMarker]()
	actionObjs     = handle.NewTable[*action.Action, handle.ActionMarker]()
)

func actionTypeFromXr(t uint32) (action.Type, bool) {
	switch t {
	case 1:
		return action.TypeBool, true
	case 2:
		return action.TypeFloat, true
	case 3:
		return action.TypeVector2, true
	case 4:
		return action.TypePose, true
	case 100:
		return action.TypeVibration, true
	default:
		return 0, false
	}
}

func sideFromSubactionPath(path string) (action.Side, bool) {
	switch path {
	case "/user/hand/left":
		return action.SideLeft, true
	case "/user/hand/right":
		return action.SideRight, true
	default:
		return 0, false
	}
}

// hapticDeviceForSide mirrors internal/action's own (unexported)
// deviceForSide table; kept here too since xrApplyHapticFeedback drives
// ActionSet.ApplyHapticFeedback directly rather than through
// SyncActions's haptics re-assertion path.
var hapticDeviceForSide = map[action.Side]hostapi.DeviceIndex{
	action.SideLeft:  hostapi.DeviceControllerLeft,
	action.SideRight: hostapi.DeviceControllerRight,
}

//export xrCreateActionSet
func xrCreateActionSet(instHandle C.XrInstance, name, localizedName *C.char, priority C.int32_t, outSet *C.XrActionSet) C.XrResult {
	if _, err := activeInstance(); err != nil {
		return resultFor(err)
	}
	set := action.NewActionSet(C.GoString(name), C.GoString(localizedName), int32(priority))

	actionTablesMu.Lock()
	id := actionSets.Insert(set)
	actionTablesMu.Unlock()

	if outSet != nil {
		*outSet = C.XrActionSet(id.Raw())
	}
	return resultFor(nil)
}

//export xrDestroyActionSet
func xrDestroyActionSet(setHandle C.XrActionSet) C.XrResult {
	id := handle.FromRaw[handle.ActionSetMarker](handle.Raw(setHandle))
	actionTablesMu.Lock()
	_, err := actionSets.Remove(id)
	actionTablesMu.Unlock()
	if err != nil {
		return resultFor(xrerror.ErrHandleInvalid)
	}
	return resultFor(nil)
}

//export xrCreateAction
func xrCreateAction(setHandle C.XrActionSet, name, localizedName *C.char, actionType C.uint32_t, subactionPaths **C.char, subactionPathCount C.uint32_t, outAction *C.XrAction) C.XrResult {
	actionTablesMu.Lock()
	set, err := actionSets.Get(handle.FromRaw[handle.ActionSetMarker](handle.Raw(setHandle)))
	actionTablesMu.Unlock()
	if err != nil {
		return resultFor(xrerror.ErrHandleInvalid)
	}

	t, ok := actionTypeFromXr(uint32(actionType))
	if !ok {
		return resultFor(xrerror.ErrValidation)
	}

	act, err := set.CreateAction(C.GoString(name), C.GoString(localizedName), t, cStringArray(subactionPaths, subactionPathCount))
	if err != nil {
		return resultFor(err)
	}

	actionTablesMu.Lock()
	id := actionObjs.Insert(act)
	actionTablesMu.Unlock()

	if outAction != nil {
		*outAction = C.XrAction(id.Raw())
	}
	return resultFor(nil)
}

//export xrDestroyAction
func xrDestroyAction(actionHandle C.XrAction) C.XrResult {
	id := handle.FromRaw[handle.ActionMarker](handle.Raw(actionHandle))
	actionTablesMu.Lock()
	_, err := actionObjs.Remove(id)
	actionTablesMu.Unlock()
	if err != nil {
		return resultFor(xrerror.ErrHandleInvalid)
	}
	return resultFor(nil)
}

//export xrSuggestInteractionProfileBindings
func xrSuggestInteractionProfileBindings(instHandle C.XrInstance, profilePath *C.char, actionHandles *C.XrAction, bindingPaths **C.char, count C.uint32_t) C.XrResult {
	inst, err := activeInstance()
	if err != nil {
		return resultFor(err)
	}
	if count == 0 {
		return resultFor(nil)
	}

	actionSlice := unsafe.Slice(actionHandles, int(count))
	pathSlice := unsafe.Slice(bindingPaths, int(count))

	bindings := make(map[*action.Action][]string, count)
	actionTablesMu.Lock()
	for i := range actionSlice {
		act, err := actionObjs.Get(handle.FromRaw[handle.ActionMarker](handle.Raw(actionSlice[i])))
		if err != nil {
			actionTablesMu.Unlock()
			return resultFor(xrerror.ErrHandleInvalid)
		}
		bindings[act] = append(bindings[act], C.GoString(pathSlice[i]))
	}
	actionTablesMu.Unlock()

	profile := action.Profile(C.GoString(profilePath))
	if err := inst.Actions.SuggestInteractionProfileBindings(profile, bindings); err != nil {
		return resultFor(err)
	}
	return resultFor(nil)
}

//export xrAttachSessionActionSets
func xrAttachSessionActionSets(h C.XrSession, setHandles *C.XrActionSet, count C.uint32_t) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	inst, err := activeInstance()
	if err != nil {
		return resultFor(err)
	}

	handles := unsafe.Slice(setHandles, int(count))
	sets := make([]*action.ActionSet, 0, count)
	actionTablesMu.Lock()
	for _, raw := range handles {
		set, err := actionSets.Get(handle.FromRaw[handle.ActionSetMarker](handle.Raw(raw)))
		if err != nil {
			actionTablesMu.Unlock()
			return resultFor(xrerror.ErrHandleInvalid)
		}
		sets = append(sets, set)
	}
	actionTablesMu.Unlock()

	if err := inst.Actions.AttachSessionActionSets(sets); err != nil {
		return resultFor(err)
	}
	st.attachedSets = sets
	return resultFor(nil)
}

//export xrSyncActions
func xrSyncActions(h C.XrSession, activeSetHandles *C.XrActionSet, activeCount C.uint32_t) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	inst, err := activeInstance()
	if err != nil {
		return resultFor(err)
	}

	sets := st.attachedSets
	if activeCount > 0 && activeSetHandles != nil {
		handles := unsafe.Slice(activeSetHandles, int(activeCount))
		sets = make([]*action.ActionSet, 0, activeCount)
		actionTablesMu.Lock()
		for _, raw := range handles {
			set, err := actionSets.Get(handle.FromRaw[handle.ActionSetMarker](handle.Raw(raw)))
			if err != nil {
				actionTablesMu.Unlock()
				return resultFor(xrerror.ErrHandleInvalid)
			}
			sets = append(sets, set)
		}
		actionTablesMu.Unlock()
	}

	now := inst.Time.Now()
	return resultFor(inst.Actions.SyncActions(inst.Host, sets, int64(now)))
}

//export xrGetActionStateBoolean
func xrGetActionStateBoolean(h C.XrSession, actionHandle C.XrAction, subactionPath *C.char, out *C.XrActionStateBoolean) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	act, err := lookupAction(actionHandle)
	if err != nil {
		return resultFor(err)
	}
	state := action.GetActionStateBoolean(act, C.GoString(subactionPath), st.sess.Instance.Time.Now())
	if out != nil {
		out.currentState = boolToC(state.Current)
		out.changedSinceLastSync = boolToC(state.ChangedSinceLastSync)
		out.isActive = boolToC(state.IsActive)
	}
	return resultFor(nil)
}

//export xrGetActionStateFloat
func xrGetActionStateFloat(h C.XrSession, actionHandle C.XrAction, subactionPath *C.char, out *C.XrActionStateFloat) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	act, err := lookupAction(actionHandle)
	if err != nil {
		return resultFor(err)
	}
	state := action.GetActionStateFloat(act, C.GoString(subactionPath), st.sess.Instance.Time.Now())
	if out != nil {
		out.currentState = C.float(state.Current)
		out.changedSinceLastSync = boolToC(state.ChangedSinceLastSync)
		out.isActive = boolToC(state.IsActive)
	}
	return resultFor(nil)
}

//export xrGetActionStateVector2f
func xrGetActionStateVector2f(h C.XrSession, actionHandle C.XrAction, subactionPath *C.char, out *C.XrActionStateVector2f) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	act, err := lookupAction(actionHandle)
	if err != nil {
		return resultFor(err)
	}
	state := action.GetActionStateVector2f(act, C.GoString(subactionPath), st.sess.Instance.Time.Now())
	if out != nil {
		out.currentState = C.XrVector2f{x: C.float(state.X), y: C.float(state.Y)}
		out.changedSinceLastSync = boolToC(state.ChangedSinceLastSync)
		out.isActive = boolToC(state.IsActive)
	}
	return resultFor(nil)
}

//export xrGetActionStatePose
func xrGetActionStatePose(h C.XrSession, actionHandle C.XrAction, subactionPath *C.char, out *C.XrActionStatePose) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	if _, err := lookupAction(actionHandle); err != nil {
		return resultFor(err)
	}

	mask, err := st.sess.Instance.Host.GetConnectedControllerTypes(st.hostSession)
	if err != nil {
		return resultFor(err)
	}
	isLive := mask != 0
	if side, ok := sideFromSubactionPath(C.GoString(subactionPath)); ok {
		switch side {
		case action.SideLeft:
			isLive = mask&hostapi.ControllerLeftTouch != 0
		case action.SideRight:
			isLive = mask&hostapi.ControllerRightTouch != 0
		}
	}

	if out != nil {
		out.isActive = boolToC(action.GetActionStatePose(isLive))
	}
	return resultFor(nil)
}

//export xrApplyHapticFeedback
func xrApplyHapticFeedback(h C.XrSession, actionHandle C.XrAction, subactionPath *C.char, haptic C.XrHapticVibration) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	act, err := lookupAction(actionHandle)
	if err != nil {
		return resultFor(err)
	}

	now := st.sess.Instance.Time.Now()
	for _, side := range hapticSides(C.GoString(subactionPath)) {
		device := hapticDeviceForSide[side]
		if err := act.Set.ApplyHapticFeedback(st.sess.Instance.Host, device, side, float32(haptic.frequency), float32(haptic.amplitude), xrtime.Time(haptic.duration), now); err != nil {
			return resultFor(err)
		}
	}
	return resultFor(nil)
}

//export xrStopHapticFeedback
func xrStopHapticFeedback(h C.XrSession, actionHandle C.XrAction, subactionPath *C.char) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	act, err := lookupAction(actionHandle)
	if err != nil {
		return resultFor(err)
	}

	for _, side := range hapticSides(C.GoString(subactionPath)) {
		device := hapticDeviceForSide[side]
		if err := act.Set.StopHapticFeedback(st.sess.Instance.Host, device, side); err != nil {
			return resultFor(err)
		}
	}
	return resultFor(nil)
}

func hapticSides(subactionPath string) []action.Side {
	if side, ok := sideFromSubactionPath(subactionPath); ok {
		return []action.Side{side}
	}
	return []action.Side{action.SideLeft, action.SideRight}
}

func lookupAction(h C.XrAction) (*action.Action, error) {
	actionTablesMu.Lock()
	defer actionTablesMu.Unlock()
	act, err := actionObjs.Get(handle.FromRaw[handle.ActionMarker](handle.Raw(h)))
	if err != nil {
		return nil, xrerror.ErrHandleInvalid
	}
	return act, nil
}
