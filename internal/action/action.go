package action

import (
	"strings"
	"sync"

	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

// Type is an action's declared value type.
type Type int

const (
	TypeBool Type = iota
	TypeFloat
	TypeVector2
	TypePose
	TypeVibration
)

// lastValue holds the last-evaluated value for one subaction path, used
// to compute changedSinceLastSync.
type lastValue struct {
	boolV    bool
	floatV   float64
	vec2X    float64
	vec2Y    float64
	active   bool
	changedAt xrtime.Time
	haveValue bool
}

// Action is one OpenXR action: a typed, named handle onto zero or more
// bound input sources.
type Action struct {
	Name, LocalizedName string
	ValueType           Type
	Set                 *ActionSet
	SubactionPaths      []string

	mu      sync.Mutex
	sources []ActionSource
	last    map[string]*lastValue // keyed by subaction path, "" for none declared
}

func newAction(set *ActionSet, name, localized string, t Type, subactionPaths []string) *Action {
	return &Action{
		Name: name, LocalizedName: localized, ValueType: t, Set: set,
		SubactionPaths: subactionPaths,
		last:           make(map[string]*lastValue),
	}
}

func (a *Action) hasSubactionPath(path string) bool {
	if len(a.SubactionPaths) == 0 {
		return true
	}
	for _, p := range a.SubactionPaths {
		if p == path {
			return true
		}
	}
	return false
}

func sideForSubactionPath(path string) (Side, bool) {
	switch path {
	case "/user/hand/left":
		return SideLeft, true
	case "/user/hand/right":
		return SideRight, true
	default:
		return 0, false
	}
}

// ActionSet groups related actions and is attached to the session as a
// unit.
type ActionSet struct {
	Name, LocalizedName string
	Priority            int32

	mu             sync.Mutex
	attached       bool
	subactionPaths map[string]bool
	actions        []*Action

	lastControllerType map[Side]string
	haptics            map[Side]hapticState
	snapshot           map[Side]inputSnapshot
}

// NewActionSet creates an empty, unattached action set.
func NewActionSet(name, localized string, priority int32) *ActionSet {
	return &ActionSet{
		Name: name, LocalizedName: localized, Priority: priority,
		subactionPaths:     make(map[string]bool),
		lastControllerType: make(map[Side]string),
		haptics:            make(map[Side]hapticState),
	}
}

// CreateAction adds a new action to the set. Fails with
// ErrActionsetsAlreadyAttached if the set is already attached (OpenXR
// forbids creating actions in an attached set), and with
// ErrNameDuplicated if the set already holds an action named name.
// Localized names and action-set names are not checked for duplicates.
func (s *ActionSet) CreateAction(name, localized string, t Type, subactionPaths []string) (*Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached {
		return nil, xrerror.ErrActionsetsAlreadyAttached
	}
	for _, a := range s.actions {
		if a.Name == name {
			return nil, xrerror.ErrNameDuplicated
		}
	}
	act := newAction(s, name, localized, t, subactionPaths)
	s.actions = append(s.actions, act)
	return act, nil
}

func (s *ActionSet) IsAttached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// Manager owns suggested-binding tables across every profile and
// coordinates attach-once semantics across every ActionSet it knows
// about.
type Manager struct {
	mu         sync.Mutex
	suggested  map[Profile][]suggestedBinding
	allSets    []*ActionSet
	anyAttached bool
	emulatedIndex bool
}

type suggestedBinding struct {
	action      *Action
	bindingPath string // e.g. "/user/hand/right/input/trigger/click"
}

// NewManager creates an empty binding manager.
func NewManager() *Manager {
	return &Manager{suggested: make(map[Profile][]suggestedBinding)}
}

// SetEmulatedIndex toggles whether emulated Index controller bindings
// should be preferred over the physically-reported profile, per
// spec.md §4.6 step 2.
func (m *Manager) SetEmulatedIndex(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emulatedIndex = enabled
}

// SuggestInteractionProfileBindings records profile's bindings.
// The paths in bindings are full paths including the top-level user path,
// e.g. "/user/hand/right/input/trigger/click".
func (m *Manager) SuggestInteractionProfileBindings(profile Profile, bindings map[*Action][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.anyAttached {
		return xrerror.ErrActionsetsAlreadyAttached
	}

	var entries []suggestedBinding
	for act, paths := range bindings {
		for _, p := range paths {
			entries = append(entries, suggestedBinding{action: act, bindingPath: p})
		}
	}
	m.suggested[profile] = entries
	return nil
}

// AttachSessionActionSets attaches sets to the session, deriving each
// set's valid subaction paths and rejecting further suggestions or
// attachments afterward.
func (m *Manager) AttachSessionActionSets(sets []*ActionSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.anyAttached {
		return xrerror.ErrActionsetsAlreadyAttached
	}

	for _, s := range sets {
		s.mu.Lock()
		s.attached = true
		for _, act := range s.actions {
			if len(act.SubactionPaths) == 0 {
				s.subactionPaths["/user/hand/left"] = true
				s.subactionPaths["/user/hand/right"] = true
				continue
			}
			for _, p := range act.SubactionPaths {
				s.subactionPaths[p] = true
			}
		}
		s.mu.Unlock()
	}

	m.allSets = append(m.allSets, sets...)
	m.anyAttached = true
	return nil
}

// suggestedProfiles returns the set of profiles with any suggested
// bindings, used by ChooseActualProfile.
func (m *Manager) suggestedProfiles() map[Profile]bool {
	out := make(map[Profile]bool, len(m.suggested))
	for p, entries := range m.suggested {
		if len(entries) > 0 {
			out[p] = true
		}
	}
	return out
}

func trimUserPrefix(fullPath string, side Side) (string, bool) {
	prefix := "/user/hand/left/"
	if side == SideRight {
		prefix = "/user/hand/right/"
	}
	if !strings.HasPrefix(fullPath, prefix) {
		return "", false
	}
	return strings.TrimPrefix(fullPath, prefix), true
}
