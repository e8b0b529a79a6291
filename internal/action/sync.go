package action

import (
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
)

var deviceForSide = map[Side]hostapi.DeviceIndex{
	SideLeft:  hostapi.DeviceControllerLeft,
	SideRight: hostapi.DeviceControllerRight,
}

// controllerTypeString names the connected controller model for a side,
// or "" if none is connected. Used to detect the controller-type change
// that triggers rebindSide.
func controllerTypeString(mask hostapi.ControllerType, side Side) string {
	switch side {
	case SideLeft:
		if mask&hostapi.ControllerLeftTouch != 0 {
			return "touch"
		}
	case SideRight:
		if mask&hostapi.ControllerRightTouch != 0 {
			return "touch"
		}
	}
	if mask&hostapi.ControllerRemote != 0 {
		return "remote"
	}
	return ""
}

// rebindSide implements spec.md §4.6's "Rebind on controller-type
// change": remove every source on side across every action in s, then
// re-derive them from the manager's suggested bindings for the chosen
// actual profile.
func (m *Manager) rebindSide(s *ActionSet, side Side) {
	suggestedProfiles := m.suggestedProfiles()
	actual, ok := ChooseActualProfile(suggestedProfiles, m.emulatedIndex)

	for _, act := range s.actions {
		act.mu.Lock()
		kept := act.sources[:0]
		for _, src := range act.sources {
			if src.Side != side {
				kept = append(kept, src)
			}
		}
		act.sources = kept
		act.mu.Unlock()
	}

	if !ok {
		return
	}

	entries := m.suggested[actual]
	for _, entry := range entries {
		bindingPath, matches := trimUserPrefix(entry.bindingPath, side)
		if !matches {
			continue
		}
		src, ok := Resolve(actual, bindingPath, side)
		if !ok {
			continue
		}
		entry.action.mu.Lock()
		entry.action.sources = append(entry.action.sources, src)
		entry.action.mu.Unlock()
	}
}

// SyncActions implements spec.md §4.6's SyncActions: for each active
// set, detect controller-type changes and rebind, copy the live input
// snapshot into the set, and re-assert haptics.
func (m *Manager) SyncActions(host *hostapi.Client, activeSets []*ActionSet, nowNanos int64) error {
	mask, err := host.GetConnectedControllerTypes(0)
	if err != nil {
		return err
	}

	left := controllerTypeString(mask, SideLeft)
	right := controllerTypeString(mask, SideRight)

	for _, s := range activeSets {
		s.mu.Lock()
		leftChanged := s.lastControllerType[SideLeft] != left
		rightChanged := s.lastControllerType[SideRight] != right
		s.lastControllerType[SideLeft] = left
		s.lastControllerType[SideRight] = right
		s.mu.Unlock()

		if leftChanged {
			m.rebindSide(s, SideLeft)
		}
		if rightChanged {
			m.rebindSide(s, SideRight)
		}

		leftState, err := host.GetInputState(0, hostapi.DeviceControllerLeft)
		if err != nil {
			return err
		}
		rightState, err := host.GetInputState(0, hostapi.DeviceControllerRight)
		if err != nil {
			return err
		}

		s.setSnapshot(SideLeft, leftState)
		s.setSnapshot(SideRight, rightState)

		s.reassertHaptics(host, deviceForSide, nanosToXrTime(nowNanos))
	}

	return nil
}
