//go:build windows

// Package bodytracker reads the sidecar BodyStateV2 shared-memory
// block a companion body-tracking process publishes, and implements
// spacegraph.BodyJointSource so action spaces bound to a body joint
// resolve through the same LocateSpace path as controller poses.
package bodytracker

import (
	"encoding/binary"
	"math"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/mbucchia/openxr-hostbridge/internal/posemath"
	"github.com/mbucchia/openxr-hostbridge/internal/spacegraph"
	"github.com/mbucchia/openxr-hostbridge/internal/thread"
	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

// jointRecordSize is the byte size of one joint's pose+velocity record
// in the BodyStateV2 layout: 7 floats for pose (position xyz,
// orientation xyzw) + 6 floats for velocity (linear xyz, angular xyz) +
// 4 bytes of tracked/valid flags, padded to a 16-byte boundary.
const jointRecordSize = (7+6)*4 + 4 + 8

// headerSize holds a version tag, joint count, fidelity, and
// calibration state, padded to 16 bytes.
const headerSize = 16

// Reader maps a BodyStateV2 block by name and keeps a thread-safe
// snapshot of its joints refreshed by a watcher goroutine blocked on the
// block's companion update event.
type Reader struct {
	mapping windows.Handle
	view    uintptr
	size    uintptr
	event   windows.Handle

	watcher *thread.Thread
	stopped chan struct{}

	mu        sync.RWMutex
	fidelity  spacegraph.CalibrationFidelity
	calState  spacegraph.CalibrationState
	joints    [70]jointSnapshot
}

type jointSnapshot struct {
	pose     posemath.Pose
	velocity posemath.Velocity
	valid    bool
}

// Open maps the named BodyStateV2 file mapping and named update event
// another process has already created, and starts the watcher thread.
// The mapping and event names are process-external contracts, not
// negotiated over internal/companion's status pipe.
func Open(mappingName, eventName string) (*Reader, error) {
	size := uintptr(headerSize + 70*jointRecordSize)

	mappingNamePtr, err := windows.UTF16PtrFromString(mappingName)
	if err != nil {
		return nil, err
	}
	mapping, err := windows.OpenFileMapping(windows.FILE_MAP_READ, false, mappingNamePtr)
	if err != nil {
		return nil, err
	}

	view, err := windows.MapViewOfFile(mapping, windows.FILE_MAP_READ, 0, 0, size)
	if err != nil {
		windows.CloseHandle(mapping)
		return nil, err
	}

	eventNamePtr, err := windows.UTF16PtrFromString(eventName)
	if err != nil {
		windows.UnmapViewOfFile(view)
		windows.CloseHandle(mapping)
		return nil, err
	}
	event, err := windows.OpenEvent(windows.SYNCHRONIZE, false, eventNamePtr)
	if err != nil {
		windows.UnmapViewOfFile(view)
		windows.CloseHandle(mapping)
		return nil, err
	}

	r := &Reader{
		mapping: mapping,
		view:    view,
		size:    size,
		event:   event,
		watcher: thread.New(),
		stopped: make(chan struct{}),
	}
	r.refresh()
	r.watcher.CallAsync(r.watchLoop)
	return r, nil
}

// watchLoop blocks on the companion's update event and refreshes the
// cached snapshot each time it fires, until Close signals stopped.
func (r *Reader) watchLoop() {
	for {
		select {
		case <-r.stopped:
			return
		default:
		}
		result, err := windows.WaitForSingleObject(r.event, 1000)
		if err != nil {
			xrlog.Logger().Error("bodytracker: WaitForSingleObject failed", "err", err)
			return
		}
		if result == windows.WAIT_OBJECT_0 {
			r.refresh()
		}
	}
}

// refresh copies the current mapped block into the in-process snapshot
// under lock, so JointPose callers never read mid-update memory.
func (r *Reader) refresh() {
	buf := unsafe.Slice((*byte)(unsafe.Pointer(r.view)), r.size)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.fidelity = spacegraph.CalibrationFidelity(buf[4])
	r.calState = spacegraph.CalibrationState(buf[5])

	for j := 0; j < 70; j++ {
		off := headerSize + j*jointRecordSize
		rec := buf[off : off+jointRecordSize]
		r.joints[j] = jointSnapshot{
			pose: posemath.Pose{
				Position: posemath.Vector3{
					X: float64(readFloat32(rec, 0)),
					Y: float64(readFloat32(rec, 4)),
					Z: float64(readFloat32(rec, 8)),
				},
				Orientation: posemath.Orientation{
					X: float64(readFloat32(rec, 12)),
					Y: float64(readFloat32(rec, 16)),
					Z: float64(readFloat32(rec, 20)),
					W: float64(readFloat32(rec, 24)),
				},
			},
			velocity: posemath.Velocity{
				Linear: posemath.Vector3{
					X: float64(readFloat32(rec, 28)),
					Y: float64(readFloat32(rec, 32)),
					Z: float64(readFloat32(rec, 36)),
				},
				Angular: posemath.Vector3{
					X: float64(readFloat32(rec, 40)),
					Y: float64(readFloat32(rec, 44)),
					Z: float64(readFloat32(rec, 48)),
				},
			},
			valid: rec[52] != 0,
		}
	}
}

func readFloat32(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
}

// JointPose implements spacegraph.BodyJointSource.
func (r *Reader) JointPose(joint int) (posemath.Pose, posemath.Velocity, bool) {
	if joint < 0 || joint >= len(r.joints) {
		return posemath.Pose{}, posemath.Velocity{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	j := r.joints[joint]
	return j.pose, j.velocity, j.valid
}

// Fidelity returns the last reported calibration fidelity.
func (r *Reader) Fidelity() spacegraph.CalibrationFidelity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fidelity
}

// CalibrationState returns the last reported calibration state.
func (r *Reader) CalibrationState() spacegraph.CalibrationState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calState
}

// Close stops the watcher thread and unmaps the shared block.
func (r *Reader) Close() error {
	close(r.stopped)
	r.watcher.Stop()
	windows.UnmapViewOfFile(r.view)
	windows.CloseHandle(r.event)
	return windows.CloseHandle(r.mapping)
}
