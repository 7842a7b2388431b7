package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.Theme != "dark" {
		t.Errorf("expected default theme 'dark', got %q", cfg.UI.Theme)
	}
	if !cfg.UI.ShowDifficulty {
		t.Error("expected difficulty badges on by default")
	}
	if cfg.Filter.Difficulty != "all" {
		t.Errorf("expected filter difficulty 'all', got %q", cfg.Filter.Difficulty)
	}
	if cfg.Watch.DebounceMS != 200 {
		t.Errorf("expected debounce 200ms, got %d", cfg.Watch.DebounceMS)
	}
	if cfg.Favorites == nil {
		t.Error("expected favorites map to be initialized")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected default config, got theme %q", cfg.UI.Theme)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
sheets:
  - name: interview
    path: ~/work/interview
  - name: other
    path: /absolute/path

favorites:
  1: interview
  2: other

ui:
  theme: light
  default_expand: true

filter:
  difficulty: Easy
  status: unsolved
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(cfg.Sheets))
	}
	if cfg.Sheets[0].Name != "interview" {
		t.Errorf("expected sheet name 'interview', got %q", cfg.Sheets[0].Name)
	}
	// Path should have ~ expanded
	home, _ := os.UserHomeDir()
	expectedPath := filepath.Join(home, "work/interview")
	if cfg.Sheets[0].Path != expectedPath {
		t.Errorf("expected expanded path %q, got %q", expectedPath, cfg.Sheets[0].Path)
	}
	if cfg.Sheets[1].Path != "/absolute/path" {
		t.Errorf("expected absolute path preserved, got %q", cfg.Sheets[1].Path)
	}

	if cfg.Favorites[1] != "interview" {
		t.Errorf("expected favorite 1 = 'interview', got %q", cfg.Favorites[1])
	}

	if cfg.UI.Theme != "light" {
		t.Errorf("expected theme 'light', got %q", cfg.UI.Theme)
	}
	if !cfg.UI.DefaultExpand {
		t.Error("expected default_expand true")
	}
	if cfg.Filter.Difficulty != "Easy" {
		t.Errorf("expected filter difficulty 'Easy', got %q", cfg.Filter.Difficulty)
	}
	if cfg.Filter.Status != "unsolved" {
		t.Errorf("expected filter status 'unsolved', got %q", cfg.Filter.Status)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Config{
		Sheets: []Sheet{
			{Name: "sheet1", Path: "/path/to/sheet1"},
			{Name: "sheet2", Path: "/path/to/sheet2"},
		},
		Favorites: map[int]string{
			1: "sheet1",
			3: "sheet2",
		},
		UI: UIConfig{
			Theme:         "light",
			DefaultExpand: true,
		},
	}

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}

	if len(loaded.Sheets) != 2 {
		t.Errorf("expected 2 sheets, got %d", len(loaded.Sheets))
	}
	if loaded.Sheets[0].Name != "sheet1" {
		t.Errorf("expected 'sheet1', got %q", loaded.Sheets[0].Name)
	}
	if loaded.Favorites[1] != "sheet1" {
		t.Errorf("expected favorite 1 = 'sheet1', got %q", loaded.Favorites[1])
	}
	if loaded.Favorites[3] != "sheet2" {
		t.Errorf("expected favorite 3 = 'sheet2', got %q", loaded.Favorites[3])
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("expected 'light', got %q", loaded.UI.Theme)
	}
}

func TestFindSheet(t *testing.T) {
	cfg := Config{
		Sheets: []Sheet{
			{Name: "alpha", Path: "/a"},
			{Name: "Beta", Path: "/b"},
		},
	}

	s := cfg.FindSheet("alpha")
	if s == nil || s.Name != "alpha" {
		t.Error("expected to find 'alpha'")
	}

	// Case-insensitive
	s = cfg.FindSheet("BETA")
	if s == nil || s.Name != "Beta" {
		t.Error("expected to find 'Beta' case-insensitively")
	}

	s = cfg.FindSheet("nonexistent")
	if s != nil {
		t.Error("expected nil for nonexistent sheet")
	}
}

func TestFavoriteSheet(t *testing.T) {
	cfg := Config{
		Sheets: []Sheet{
			{Name: "sheet1", Path: "/s1"},
		},
		Favorites: map[int]string{
			1: "sheet1",
		},
	}

	s := cfg.FavoriteSheet(1)
	if s == nil || s.Name != "sheet1" {
		t.Error("expected favorite 1 to return sheet1")
	}

	s = cfg.FavoriteSheet(5)
	if s != nil {
		t.Error("expected nil for unset favorite")
	}
}

func TestSetFavorite(t *testing.T) {
	cfg := Config{Favorites: make(map[int]string)}

	cfg.SetFavorite(1, "mysheet")
	if cfg.Favorites[1] != "mysheet" {
		t.Error("expected favorite 1 set to 'mysheet'")
	}

	// Clear favorite
	cfg.SetFavorite(1, "")
	if _, ok := cfg.Favorites[1]; ok {
		t.Error("expected favorite 1 to be cleared")
	}
}

func TestWatchEnabled(t *testing.T) {
	cfg := Config{}
	if !cfg.WatchEnabled() {
		t.Error("expected watch enabled by default")
	}

	off := false
	cfg.Watch.Enabled = &off
	if cfg.WatchEnabled() {
		t.Error("expected watch disabled when explicitly off")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := ConfigDir()
	expected := filepath.Join(dir, "sw")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestDataDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got := DataDir()
	expected := filepath.Join(dir, "sw")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestStateDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	got := StateDir()
	expected := filepath.Join(dir, "sw")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestLoadFrom_EmptyFavorites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
sheets:
  - name: solo
    path: /solo
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Favorites == nil {
		t.Error("expected favorites map to be initialized even when empty in config")
	}
}
