package action

import (
	"strings"

	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
)

// Side selects which hand/controller a binding targets.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// ValueKind is how an ActionSource projects into an InputState snapshot.
type ValueKind int

const (
	ValueButton ValueKind = iota
	ValueTouch
	ValueFloat
	ValueVector2
)

// AnalogField selects which float field of hostapi.InputState a Float or
// Vector2 source reads.
type AnalogField int

const (
	FieldIndexTrigger AnalogField = iota
	FieldHandTrigger
	FieldThumbstick
)

// ActionSource is one resolved binding: a projection of a given side's
// input snapshot into a bool/float/vector2 value, per spec.md §3's
// ActionSource entity. RealPath is the canonical binding path this
// source resolved to, kept for diagnostics.
type ActionSource struct {
	Side  Side
	Kind  ValueKind
	Field AnalogField

	// ButtonBit selects a bit of InputState.Buttons/Touches for
	// ValueButton/ValueTouch sources.
	ButtonBit uint32

	// VectorComponent selects which Vector2 component a ValueVector2
	// source contributes: -1 = whole vector, 0 = X, 1 = Y.
	VectorComponent int

	RealPath string
}

// Button bit layout for the Touch controller's buttons/touches masks,
// matching the hostapi wire layout Host_GetInputState fills in.
const (
	touchBitA        uint32 = 1 << 0
	touchBitB        uint32 = 1 << 1
	touchBitX        uint32 = 1 << 0 // left controller reuses bit 0/1 for X/Y
	touchBitY        uint32 = 1 << 1
	touchBitThumb    uint32 = 1 << 2
	touchBitSystem   uint32 = 1 << 3
	touchBitSqueeze  uint32 = 1 << 4 // grip button, distinct from analog grip trigger
)

// touchMappingFn maps one Touch-controller-rewritten binding path
// (e.g. "input/trigger/value", "input/thumbstick/x") to an ActionSource
// for the given side. Returns ok=false if the path has no Touch
// equivalent — spec.md §4.6's remap functions must never panic, only
// report failure.
func touchMappingFn(side Side, bindingPath string) (ActionSource, bool) {
	switch {
	case bindingPath == "input/select/click", bindingPath == "input/trigger/click":
		return ActionSource{Side: side, Kind: ValueFloat, Field: FieldIndexTrigger, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/trigger/value"):
		return ActionSource{Side: side, Kind: ValueFloat, Field: FieldIndexTrigger, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/squeeze/value"), strings.HasPrefix(bindingPath, "input/squeeze/force"):
		return ActionSource{Side: side, Kind: ValueFloat, Field: FieldHandTrigger, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/squeeze/click"):
		return ActionSource{Side: side, Kind: ValueButton, ButtonBit: touchBitSqueeze, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/thumbstick/x"):
		return ActionSource{Side: side, Kind: ValueFloat, Field: FieldThumbstick, VectorComponent: 0, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/thumbstick/y"):
		return ActionSource{Side: side, Kind: ValueFloat, Field: FieldThumbstick, VectorComponent: 1, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/thumbstick/click"):
		return ActionSource{Side: side, Kind: ValueButton, ButtonBit: touchBitThumb, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/thumbstick"):
		return ActionSource{Side: side, Kind: ValueVector2, Field: FieldThumbstick, VectorComponent: -1, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/a/click"):
		return ActionSource{Side: side, Kind: ValueButton, ButtonBit: touchBitA, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/a/touch"):
		return ActionSource{Side: side, Kind: ValueTouch, ButtonBit: touchBitA, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/b/click"):
		return ActionSource{Side: side, Kind: ValueButton, ButtonBit: touchBitB, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/b/touch"):
		return ActionSource{Side: side, Kind: ValueTouch, ButtonBit: touchBitB, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/x/click"):
		return ActionSource{Side: side, Kind: ValueButton, ButtonBit: touchBitX, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/y/click"):
		return ActionSource{Side: side, Kind: ValueButton, ButtonBit: touchBitY, RealPath: bindingPath}, true
	case strings.HasPrefix(bindingPath, "input/system/click"):
		return ActionSource{Side: side, Kind: ValueButton, ButtonBit: touchBitSystem, RealPath: bindingPath}, true
	default:
		return ActionSource{}, false
	}
}

// Resolve derives an ActionSource for (actualProfile, bindingPath, side),
// implementing spec.md §4.6 step 3: bindings for the chosen physical
// profile are mapped via the remap table's (profile,profile) -> mapping_fn
// entry, which for every non-Touch profile is "rewrite then Touch-map".
func Resolve(actualProfile Profile, bindingPath string, side Side) (ActionSource, bool) {
	touchPath := bindingPath
	if actualProfile != ProfileTouch {
		touchPath = RewriteToTouch(actualProfile, bindingPath, side == SideRight)
	}
	return touchMappingFn(side, touchPath)
}

// ReadBool evaluates src against state as a boolean value.
func ReadBool(src ActionSource, state hostapi.InputState) bool {
	switch src.Kind {
	case ValueButton:
		return state.Buttons&src.ButtonBit != 0
	case ValueTouch:
		return state.Touches&src.ButtonBit != 0
	case ValueFloat:
		return readFloat(src, state) > 0.5
	default:
		return false
	}
}

// readFloat evaluates src against state as a float value.
func readFloat(src ActionSource, state hostapi.InputState) float64 {
	switch src.Field {
	case FieldIndexTrigger:
		return float64(state.IndexTrigger)
	case FieldHandTrigger:
		return float64(state.HandTrigger)
	case FieldThumbstick:
		switch src.VectorComponent {
		case 0:
			return float64(state.ThumbstickX)
		case 1:
			return float64(state.ThumbstickY)
		}
	}
	return 0
}

// ReadFloat evaluates src against state as a float value, treating a
// pressed button binding as 1.0/0.0 per spec.md §4.6.
func ReadFloat(src ActionSource, state hostapi.InputState) float64 {
	switch src.Kind {
	case ValueButton, ValueTouch:
		if ReadBool(src, state) {
			return 1
		}
		return 0
	default:
		return readFloat(src, state)
	}
}

// ReadVector2 evaluates src against state as a 2D value.
func ReadVector2(src ActionSource, state hostapi.InputState) (x, y float64) {
	if src.Kind != ValueVector2 {
		return 0, 0
	}
	return float64(state.ThumbstickX), float64(state.ThumbstickY)
}
