package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	s := Default()

	if s.Width != 1080 || s.Height != 1920 {
		t.Errorf("Expected 1080x1920, got %dx%d", s.Width, s.Height)
	}
	if s.FPS != 30 {
		t.Errorf("Expected 30 fps, got %d", s.FPS)
	}
	if s.TargetFraction != 0.75 {
		t.Errorf("Expected target fraction 0.75, got %.2f", s.TargetFraction)
	}
	if s.ConflictPolicy != "stack" {
		t.Errorf("Expected stack policy, got %q", s.ConflictPolicy)
	}
	if !s.WordByWord {
		t.Error("Expected word-by-word captions by default")
	}
	if s.MaxLineChars != 30 || s.MaxLines != 2 {
		t.Errorf("Unexpected caption limits: %d chars, %d lines", s.MaxLineChars, s.MaxLines)
	}
}

func TestNormalizePresets(t *testing.T) {
	tests := []struct {
		preset string
		width  int
		height int
	}{
		{"16:9", 1920, 1080},
		{"9:16", 1080, 1920},
		{"4:5", 1080, 1350},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			s := Settings{Preset: tt.preset, Width: 10, Height: 10}
			s.Normalize()
			if s.Width != tt.width || s.Height != tt.height {
				t.Errorf("Expected %dx%d, got %dx%d", tt.width, tt.height, s.Width, s.Height)
			}
		})
	}

	// No preset keeps explicit dimensions.
	s := Settings{Width: 640, Height: 480}
	s.Normalize()
	if s.Width != 640 || s.Height != 480 {
		t.Errorf("Explicit dimensions overridden: %dx%d", s.Width, s.Height)
	}
}

func TestValidate(t *testing.T) {
	s := Settings{Preset: "21:9"}
	if err := s.Validate(); err == nil {
		t.Error("Expected error for unknown preset")
	}
	s = Settings{ConflictPolicy: "maybe"}
	if err := s.Validate(); err == nil {
		t.Error("Expected error for unknown conflict policy")
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	data := "preset: \"16:9\"\nquality: 20\nword_by_word: true\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Width != 1920 || s.Height != 1080 {
		t.Errorf("Preset not applied: %dx%d", s.Width, s.Height)
	}
	if s.Quality != 20 {
		t.Errorf("Expected quality 20, got %d", s.Quality)
	}
	// Unset fields come back as defaults.
	if s.FPS != 30 || s.MaxLines != 2 {
		t.Errorf("Defaults not filled: fps %d, max lines %d", s.FPS, s.MaxLines)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	os.WriteFile(path, []byte("conflict_policy: random\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("Expected error for bad conflict policy")
	}

	os.WriteFile(path, []byte("preset: [nested\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s := Default()
	s.Encoder = "h264_nvenc"
	s.Language = "en"

	if err := Save(s, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if back != s {
		t.Errorf("Roundtrip drifted:\nsaved %+v\ngot   %+v", s, back)
	}
}
