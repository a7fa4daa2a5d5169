package store

import (
	"path/filepath"
	"testing"

	"github.com/sadopc/nutriplan/internal/nutrition"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != currentVersion {
		t.Fatalf("expected user_version %d, got %d", currentVersion, version)
	}
}

func TestNewWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "nutriplan.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("k", "v"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migrations are not re-run destructively.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	v, ok, err := s2.Get("k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("expected persisted value, got %q %v %v", v, ok, err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "nutriplan.db" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestIsMemory(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{":memory:", true},
		{"file::memory:?cache=shared", true},
		{"/tmp/nutriplan.db", false},
	}
	for _, tt := range tests {
		if got := isMemory(tt.path); got != tt.want {
			t.Errorf("isMemory(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// ============================================================
// Key-value
// ============================================================

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	v, ok, err := s.Get("nope")
	if err != nil {
		t.Fatal(err)
	}
	if ok || v != "" {
		t.Fatalf("expected missing key, got %q ok=%v", v, ok)
	}
}

func TestPutOverwrite(t *testing.T) {
	s := newTestStore(t)
	s.Put("key", "v1")
	s.Put("key", "v2")
	v, ok, _ := s.Get("key")
	if !ok || v != "v2" {
		t.Fatalf("expected v2, got %q", v)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	s.Put("key", "v")
	if err := s.Delete("key"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get("key"); ok {
		t.Fatal("key should be gone")
	}
	// Deleting again is fine.
	if err := s.Delete("key"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestGetRecord(t *testing.T) {
	s := newTestStore(t)
	s.Put("key", "value")
	r, err := s.GetRecord("key")
	if err != nil {
		t.Fatal(err)
	}
	if r.Value != "value" || r.UpdatedAt.IsZero() {
		t.Fatalf("unexpected record %+v", r)
	}
	if _, err := s.GetRecord("missing"); err == nil {
		t.Fatal("expected error for missing record")
	}
}

// ============================================================
// Food log on SQLite
// ============================================================

func TestFoodLogOnStore(t *testing.T) {
	s := newTestStore(t)
	l := nutrition.NewLog(s)

	e, err := l.Append(nutrition.Item{Name: "Shakshuka", Cal: 450, Pro: 25, Carb: 40, Fat: 12})
	if err != nil {
		t.Fatal(err)
	}
	entries := l.List()
	if len(entries) != 1 || entries[0] != e {
		t.Fatalf("expected appended entry, got %v", entries)
	}

	raw, ok, _ := s.Get(nutrition.DefaultKey)
	if !ok || raw == "" {
		t.Fatal("food log should be stored under its key")
	}

	if err := l.Clear(); err != nil {
		t.Fatal(err)
	}
	if len(l.List()) != 0 {
		t.Fatal("expected empty log after clear")
	}
}

func TestFoodLogCorruptOnStore(t *testing.T) {
	s := newTestStore(t)
	s.Put(nutrition.DefaultKey, "{{{")
	if got := nutrition.NewLog(s).List(); len(got) != 0 {
		t.Fatalf("corrupt value should list empty, got %v", got)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		nutrition.SettingTargetCal:  "2000",
		nutrition.SettingTargetPro:  "50",
		nutrition.SettingTargetCarb: "250",
		nutrition.SettingTargetFat:  "65",
	}
	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}

	if nutrition.LoadTargets(s) != nutrition.DefaultTargets() {
		t.Fatal("seeded settings should load as default targets")
	}
}

func TestSetSettingsSingleKey(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSettings(map[string]string{nutrition.SettingTargetCal: "1800"}); err != nil {
		t.Fatal(err)
	}
	val, _ := s.GetSetting(nutrition.SettingTargetCal)
	if val != "1800" {
		t.Fatalf("expected 1800, got %s", val)
	}
	if nutrition.LoadTargets(s).Cal != 1800 {
		t.Fatal("override should be picked up by LoadTargets")
	}
}

func TestSetSettings(t *testing.T) {
	s := newTestStore(t)
	want := nutrition.Targets{Cal: 2400, Pro: 140, Carb: 280, Fat: 80}
	if err := s.SetSettings(want.Settings()); err != nil {
		t.Fatal(err)
	}
	if got := nutrition.LoadTargets(s); got != want {
		t.Fatalf("LoadTargets = %+v, want %+v", got, want)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("nonexistent"); err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 default settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
}
