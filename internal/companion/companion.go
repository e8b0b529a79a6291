//go:build windows

// Package companion implements the write side of the companion status
// shim handshake: a single named-pipe message sent on every session
// state change, so the external status shim can mirror session state
// without the runtime depending on it being present. Connection
// failures are swallowed — the shim is advisory, never load-bearing.
package companion

import (
	"encoding/binary"
	"sync"

	"golang.org/x/sys/windows"

	"github.com/mbucchia/openxr-hostbridge/internal/instance"
	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

// Notifier writes one fixed-size message per session state transition
// to a named pipe a status-shim process owns the server end of.
type Notifier struct {
	pipeName string

	mu     sync.Mutex
	handle windows.Handle
	open   bool
}

// New returns a Notifier targeting the given named pipe
// (e.g. `\\.\pipe\openxr-hostbridge-status`). The pipe is not opened
// until the first Notify call, and is reopened automatically if the
// shim process restarts and the write fails.
func New(pipeName string) *Notifier {
	return &Notifier{pipeName: pipeName}
}

// Notify best-effort sends a 9-byte message (1 byte state + 8 byte
// little-endian XrTime) for state. Failures are logged at debug level
// and otherwise ignored: a missing or restarting status shim must never
// affect session behavior.
func (n *Notifier) Notify(state instance.SessionState, nowNanos int64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.open {
		if err := n.connect(); err != nil {
			xrlog.Logger().Debug("companion: connect failed", "pipe", n.pipeName, "err", err)
			return
		}
	}

	msg := make([]byte, 9)
	msg[0] = byte(state)
	binary.LittleEndian.PutUint64(msg[1:], uint64(nowNanos))

	if err := n.write(msg); err != nil {
		xrlog.Logger().Debug("companion: write failed, will reconnect next time", "err", err)
		windows.CloseHandle(n.handle)
		n.open = false
	}
}

func (n *Notifier) connect() error {
	namePtr, err := windows.UTF16PtrFromString(n.pipeName)
	if err != nil {
		return err
	}
	h, err := windows.CreateFile(namePtr, windows.GENERIC_WRITE, 0, nil, windows.OPEN_EXISTING, 0, 0)
	if err != nil {
		return err
	}
	n.handle = h
	n.open = true
	return nil
}

func (n *Notifier) write(msg []byte) error {
	var written uint32
	return windows.WriteFile(n.handle, msg, &written, nil)
}

// Close releases the pipe handle, if one is open.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.open {
		return nil
	}
	n.open = false
	return windows.CloseHandle(n.handle)
}
