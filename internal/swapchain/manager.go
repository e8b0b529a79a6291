package swapchain

import (
	"github.com/mbucchia/openxr-hostbridge/internal/handle"
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
)

// Manager owns every swapchain created by one session, keyed by a
// generation-checked handle.SwapchainID so destroy-then-reuse can never
// resolve to the wrong swapchain.
type Manager struct {
	host     *hostapi.Client
	session  hostapi.SessionHandle
	table    *handle.Table[*Swapchain, handle.SwapchainMarker]
	resolver Resolver
}

// NewManager creates an empty swapchain table for one session.
func NewManager(host *hostapi.Client, session hostapi.SessionHandle) *Manager {
	return &Manager{host: host, session: session, table: handle.NewTable[*Swapchain, handle.SwapchainMarker]()}
}

// SetResolver attaches the Resolver every swapchain Create()s from this
// point on will use. Called once bindGraphics has resolved which
// submission device backs the session; swapchains created before that
// (there are none, in practice — xrCreateSwapchain always follows
// xrCreateSession) would fall back to sequencing-only Preprocess.
func (m *Manager) SetResolver(r Resolver) {
	m.resolver = r
}

// Create allocates a new swapchain and returns its handle.
func (m *Manager) Create(desc Desc) (handle.SwapchainID, error) {
	sc, err := New(m.host, m.session, desc, m.resolver)
	if err != nil {
		return handle.SwapchainID{}, err
	}
	return m.table.Insert(sc), nil
}

// Get resolves id to its Swapchain.
func (m *Manager) Get(id handle.SwapchainID) (*Swapchain, error) {
	return m.table.Get(id)
}

// Destroy releases id's host resources and removes it from the table.
func (m *Manager) Destroy(id handle.SwapchainID) error {
	sc, err := m.table.Remove(id)
	if err != nil {
		return err
	}
	return sc.Destroy()
}

// DestroyAll releases every swapchain still open on the session, used
// on session destruction.
func (m *Manager) DestroyAll() {
	m.table.ForEach(func(id handle.SwapchainID, sc *Swapchain) bool {
		_ = sc.Destroy()
		return true
	})
}
