// Package handle provides the generation-checked slotmap that backs every
// opaque OpenXR handle (session, swapchain, space, action, action set).
//
// The design mirrors a generational-index resource table: an ID packs a
// dense array index with an epoch counter, so a destroyed-and-recycled
// slot can never satisfy a handle the application is still holding.
package handle

import "fmt"

// Index is the slot-array index component of an ID.
type Index = uint32

// Epoch is the generation component of an ID. Incrementing it on every
// release invalidates every previously issued ID for that slot.
type Epoch = uint32

// Raw is the 64-bit wire representation of an ID: low 32 bits index,
// high 32 bits epoch.
type Raw uint64

// Zip combines an index and epoch into a Raw ID.
func Zip(index Index, epoch Epoch) Raw {
	return Raw(index) | (Raw(epoch) << 32)
}

// Unzip splits a Raw ID back into its index and epoch.
func (r Raw) Unzip() (Index, Epoch) {
	return Index(r & 0xFFFFFFFF), Epoch(r >> 32)
}

// Marker distinguishes ID types at compile time so an ActionID can never
// be passed where a SpaceID is expected, even though both are backed by
// the same Raw representation.
type Marker interface {
	marker()
}

// ID is a type-safe, generation-checked handle parameterized by a marker
// type unique to the entity kind it identifies.
type ID[M Marker] struct {
	raw Raw
}

// Null is the zero value of any ID type; it never refers to a live slot.
func Null[M Marker]() ID[M] { return ID[M]{} }

// New builds an ID from its components.
func New[M Marker](index Index, epoch Epoch) ID[M] {
	return ID[M]{raw: Zip(index, epoch)}
}

// FromRaw reinterprets a Raw value (e.g. received across the C ABI) as an
// ID of the given kind. The caller is responsible for the kind matching.
func FromRaw[M Marker](raw Raw) ID[M] { return ID[M]{raw: raw} }

// Raw returns the wire representation of the ID.
func (id ID[M]) Raw() Raw { return id.raw }

// Index returns the slot index encoded in the ID.
func (id ID[M]) Index() Index { idx, _ := id.raw.Unzip(); return idx }

// Epoch returns the generation encoded in the ID.
func (id ID[M]) Epoch() Epoch { _, ep := id.raw.Unzip(); return ep }

// IsNull reports whether the ID is the reserved null handle.
func (id ID[M]) IsNull() bool { return id.raw == 0 }

// String implements fmt.Stringer for diagnostics and log lines.
func (id ID[M]) String() string {
	idx, ep := id.raw.Unzip()
	return fmt.Sprintf("ID(%d,%d)", idx, ep)
}

// Marker types, one per opaque OpenXR entity kind. Exported so that the
// owning package (internal/session, internal/swapchain, ...) can
// instantiate its own Table[T, M] producing handles of the canonical ID
// alias below, instead of every entity kind's table living inside this
// package.

type SessionMarker struct{}

func (SessionMarker) marker() {}

type SwapchainMarker struct{}

func (SwapchainMarker) marker() {}

type SpaceMarker struct{}

func (SpaceMarker) marker() {}

type ActionSetMarker struct{}

func (ActionSetMarker) marker() {}

type ActionMarker struct{}

func (ActionMarker) marker() {}

// SessionID identifies a Session. Sessions are singletons per instance
// but still route through the table so destruction invalidates stale
// handles the same way every other entity does.
type SessionID = ID[SessionMarker]

// SwapchainID identifies a Swapchain.
type SwapchainID = ID[SwapchainMarker]

// SpaceID identifies a reference or action Space.
type SpaceID = ID[SpaceMarker]

// ActionSetID identifies an ActionSet.
type ActionSetID = ID[ActionSetMarker]

// ActionID identifies an Action.
type ActionID = ID[ActionMarker]
