package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewReturnsDefaults(t *testing.T) {
	s := New()
	v := s.Get()
	want := defaults()
	if !reflect.DeepEqual(v, want) {
		t.Errorf("New() store values = %+v, want defaults %+v", v, want)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	s := New()
	err := s.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load on a missing file should not error, got %v", err)
	}
	if !reflect.DeepEqual(s.Get(), defaults()) {
		t.Error("missing config file should leave defaults untouched")
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := "window_gap: 20\nraise_on_focus: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New()
	if err := s.Load(path); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	v := s.Get()
	if v.WindowGap != 20 {
		t.Errorf("WindowGap = %d, want 20", v.WindowGap)
	}
	if !v.RaiseOnFocus {
		t.Error("RaiseOnFocus should be true after loading")
	}
	// Fields absent from the file should keep their defaults.
	if v.SnapGap != defaults().SnapGap {
		t.Errorf("SnapGap = %d, want default %d", v.SnapGap, defaults().SnapGap)
	}
	s.Close()
}

func TestSetNotifiesWatchers(t *testing.T) {
	s := New()
	var got Values
	calls := 0
	s.Watch(func(v Values) {
		got = v
		calls++
	})

	newValues := defaults()
	newValues.WindowGap = 99
	s.Set(newValues)

	if calls != 1 {
		t.Fatalf("expected exactly one watcher call, got %d", calls)
	}
	if got.WindowGap != 99 {
		t.Errorf("watcher received WindowGap=%d, want 99", got.WindowGap)
	}
	if s.Get().WindowGap != 99 {
		t.Error("Set should update the value readable via Get")
	}
}

func TestCloseWithoutLoadIsSafe(t *testing.T) {
	s := New()
	if err := s.Close(); err != nil {
		t.Errorf("Close on a never-Loaded store should not error, got %v", err)
	}
}
