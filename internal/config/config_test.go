package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseRecognizedKeys(t *testing.T) {
	raw := []byte(`{
		// enable the mirror window
		"mirror_window": true,
		"quirk_disable_async_submission": true,
		"aim_pose_offset_x": 1.5,
		"aim_pose_rot_y": 90,
		"unknown_future_key": "ignored",
	}`)

	store, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !store.MirrorWindow {
		t.Error("MirrorWindow = false, want true")
	}
	if !store.DisableAsyncSubmission {
		t.Error("DisableAsyncSubmission = false, want true")
	}
	if store.AimPoseOffset.XMM != 1.5 {
		t.Errorf("AimPoseOffset.XMM = %v, want 1.5", store.AimPoseOffset.XMM)
	}
	if store.AimPoseOffset.RotYDeg != 90 {
		t.Errorf("AimPoseOffset.RotYDeg = %v, want 90", store.AimPoseOffset.RotYDeg)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	if _, err := Parse([]byte(`{ not even close to json`)); err == nil {
		t.Error("Parse accepted malformed input")
	}
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	w := Load(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	if w.Current() != Default() {
		t.Errorf("Current() = %+v, want Default()", w.Current())
	}
}

func TestLoadMalformedFileFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.conf")
	if err := os.WriteFile(path, []byte("{{{"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := Load(path)
	if w.Current() != Default() {
		t.Errorf("Current() = %+v, want Default()", w.Current())
	}
}

func TestLoadValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "good.conf")
	if err := os.WriteFile(path, []byte(`{"mirror_window": true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	w := Load(path)
	if !w.Current().MirrorWindow {
		t.Error("MirrorWindow = false, want true")
	}
}
