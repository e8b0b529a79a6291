// Package config reads the fixed-path configuration store spec.md §6
// describes as a registry surrogate, and watches it for changes.
//
// The file is JSON tolerant of comments and trailing commas (the way a
// hand-edited registry-equivalent file ends up in practice), parsed
// with github.com/tailscale/hujson before standard json.Unmarshal.
// Recognized keys match spec.md §6 exactly; unknown keys are ignored.
package config

import (
	"encoding/json"
	"os"
	"sync/atomic"

	"github.com/tailscale/hujson"

	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

// PoseOffset is an aim/grip/palm calibration offset: translation in
// millimeters, rotation in degrees, matching the registry key units
// spec.md §6 documents (aim_pose_offset_{x,y,z} / aim_pose_rot_{x,y,z}).
type PoseOffset struct {
	XMM, YMM, ZMM          float64
	RotXDeg, RotYDeg, RotZDeg float64
}

// Store is an immutable snapshot of the configuration file's recognized
// keys. A new Store is published whenever the file changes; existing
// Store values are never mutated.
type Store struct {
	MirrorWindow            bool
	DisableRunningStart      bool
	SyncGPUWorkInEndFrame    bool
	DisableAsyncSubmission   bool
	AsyncSubmissionPriority  string

	AimPoseOffset  PoseOffset
	GripPoseOffset PoseOffset
	PalmPoseOffset PoseOffset
}

// Default returns the configuration that applies when no file is
// present or the file fails to parse: every quirk disabled, no offsets.
func Default() Store {
	return Store{}
}

// wireFormat is the JSON shape of the config file. Fields use the exact
// registry key names from spec.md §6; unrecognized top-level keys are
// silently dropped by json.Unmarshal into this struct (no catch-all
// field is needed since we never re-serialize the file).
type wireFormat struct {
	MirrorWindow               *bool    `json:"mirror_window"`
	QuirkDisableRunningStart   *bool    `json:"quirk_disable_running_start"`
	QuirkSyncGPUWorkInEndFrame *bool    `json:"quirk_sync_gpu_work_in_end_frame"`
	QuirkDisableAsyncSubmission *bool   `json:"quirk_disable_async_submission"`
	AsyncSubmissionPriority    *string  `json:"async_submission_priority"`

	AimPoseOffsetX   *float64 `json:"aim_pose_offset_x"`
	AimPoseOffsetY   *float64 `json:"aim_pose_offset_y"`
	AimPoseOffsetZ   *float64 `json:"aim_pose_offset_z"`
	AimPoseRotX      *float64 `json:"aim_pose_rot_x"`
	AimPoseRotY      *float64 `json:"aim_pose_rot_y"`
	AimPoseRotZ      *float64 `json:"aim_pose_rot_z"`

	GripPoseOffsetX  *float64 `json:"grip_pose_offset_x"`
	GripPoseOffsetY  *float64 `json:"grip_pose_offset_y"`
	GripPoseOffsetZ  *float64 `json:"grip_pose_offset_z"`
	GripPoseRotX     *float64 `json:"grip_pose_rot_x"`
	GripPoseRotY     *float64 `json:"grip_pose_rot_y"`
	GripPoseRotZ     *float64 `json:"grip_pose_rot_z"`

	PalmPoseOffsetX  *float64 `json:"palm_pose_offset_x"`
	PalmPoseOffsetY  *float64 `json:"palm_pose_offset_y"`
	PalmPoseOffsetZ  *float64 `json:"palm_pose_offset_z"`
	PalmPoseRotX     *float64 `json:"palm_pose_rot_x"`
	PalmPoseRotY     *float64 `json:"palm_pose_rot_y"`
	PalmPoseRotZ     *float64 `json:"palm_pose_rot_z"`
}

func boolVal(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}

func floatVal(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Parse decodes raw config file bytes into a Store. Malformed JSON (even
// after hujson's comment/trailing-comma standardization) returns an
// error; the caller should keep the previous snapshot in that case.
func Parse(raw []byte) (Store, error) {
	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return Store{}, err
	}

	var w wireFormat
	if err := json.Unmarshal(standardized, &w); err != nil {
		return Store{}, err
	}

	return Store{
		MirrorWindow:           boolVal(w.MirrorWindow),
		DisableRunningStart:    boolVal(w.QuirkDisableRunningStart),
		SyncGPUWorkInEndFrame:  boolVal(w.QuirkSyncGPUWorkInEndFrame),
		DisableAsyncSubmission: boolVal(w.QuirkDisableAsyncSubmission),
		AsyncSubmissionPriority: func() string {
			if w.AsyncSubmissionPriority == nil {
				return ""
			}
			return *w.AsyncSubmissionPriority
		}(),
		AimPoseOffset: PoseOffset{
			XMM: floatVal(w.AimPoseOffsetX), YMM: floatVal(w.AimPoseOffsetY), ZMM: floatVal(w.AimPoseOffsetZ),
			RotXDeg: floatVal(w.AimPoseRotX), RotYDeg: floatVal(w.AimPoseRotY), RotZDeg: floatVal(w.AimPoseRotZ),
		},
		GripPoseOffset: PoseOffset{
			XMM: floatVal(w.GripPoseOffsetX), YMM: floatVal(w.GripPoseOffsetY), ZMM: floatVal(w.GripPoseOffsetZ),
			RotXDeg: floatVal(w.GripPoseRotX), RotYDeg: floatVal(w.GripPoseRotY), RotZDeg: floatVal(w.GripPoseRotZ),
		},
		PalmPoseOffset: PoseOffset{
			XMM: floatVal(w.PalmPoseOffsetX), YMM: floatVal(w.PalmPoseOffsetY), ZMM: floatVal(w.PalmPoseOffsetZ),
			RotXDeg: floatVal(w.PalmPoseRotX), RotYDeg: floatVal(w.PalmPoseRotY), RotZDeg: floatVal(w.PalmPoseRotZ),
		},
	}, nil
}

// Watcher holds the live configuration snapshot and keeps it current by
// watching the backing file for writes.
type Watcher struct {
	path string
	cur  atomic.Pointer[Store]
}

// Load reads path once, parses it (falling back to Default on any
// error), and returns a Watcher exposing the current snapshot. Call
// Watch to keep it updated as the file changes.
func Load(path string) *Watcher {
	w := &Watcher{path: path}
	w.reload()
	return w
}

// Current returns the latest parsed snapshot. Safe for concurrent use;
// never blocks on the watcher goroutine.
func (w *Watcher) Current() Store {
	if s := w.cur.Load(); s != nil {
		return *s
	}
	return Default()
}

func (w *Watcher) reload() {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			xrlog.Logger().Warn("config: failed to read file, keeping previous snapshot", "path", w.path, "error", err)
		}
		if w.cur.Load() == nil {
			def := Default()
			w.cur.Store(&def)
		}
		return
	}

	store, err := Parse(raw)
	if err != nil {
		xrlog.Logger().Warn("config: malformed file, keeping previous snapshot", "path", w.path, "error", err)
		if w.cur.Load() == nil {
			def := Default()
			w.cur.Store(&def)
		}
		return
	}

	w.cur.Store(&store)
}
