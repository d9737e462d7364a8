// Package config holds the editor settings and their YAML file form.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the full editor configuration. Zero fields are filled with
// defaults by Normalize, so a partial YAML file is fine.
type Settings struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Preset string `yaml:"preset"` // 16:9, 9:16 or 4:5; overrides width/height

	// Overlay placement.
	TargetFraction float64 `yaml:"target_fraction"`
	ConflictPolicy string  `yaml:"conflict_policy"` // stack, reject or last-wins
	ImageDuration  float64 `yaml:"image_duration"`
	TextDuration   float64 `yaml:"text_duration"`

	// Captions.
	MaxLineChars int    `yaml:"max_line_chars"`
	MaxLines     int    `yaml:"max_lines"`
	WordByWord   bool   `yaml:"word_by_word"`
	FontRef      string `yaml:"font"`
	FontSize     int    `yaml:"font_size"`
	FontColor    string `yaml:"font_color"`

	// Encoding.
	Encoder string `yaml:"encoder"` // empty means auto-detect
	Quality int    `yaml:"quality"` // 0 means the encoder's default
	Workers int    `yaml:"workers"` // 0 means size from the machine

	// Transcription.
	WhisperModel string `yaml:"whisper_model"`
	Language     string `yaml:"language"`
}

// Default returns the settings used when no config file is given: a
// vertical 1080x1920 30fps clip with word-by-word captions.
func Default() Settings {
	s := Settings{Preset: "9:16", WordByWord: true}
	s.Normalize()
	return s
}

// Normalize fills zero fields with defaults and applies the preset.
func (s *Settings) Normalize() {
	switch s.Preset {
	case "16:9":
		s.Width, s.Height = 1920, 1080
	case "9:16":
		s.Width, s.Height = 1080, 1920
	case "4:5":
		s.Width, s.Height = 1080, 1350
	}
	if s.Width <= 0 || s.Height <= 0 {
		s.Width, s.Height = 1080, 1920
	}
	if s.FPS <= 0 {
		s.FPS = 30
	}
	if s.TargetFraction <= 0 || s.TargetFraction > 1 {
		s.TargetFraction = 0.75
	}
	if s.ConflictPolicy == "" {
		s.ConflictPolicy = "stack"
	}
	if s.ImageDuration <= 0 {
		s.ImageDuration = 5.0
	}
	if s.TextDuration <= 0 {
		s.TextDuration = 3.0
	}
	if s.MaxLineChars <= 0 {
		s.MaxLineChars = 30
	}
	if s.MaxLines <= 0 {
		s.MaxLines = 2
	}
	if s.FontSize <= 0 {
		s.FontSize = 40
	}
	if s.FontColor == "" {
		s.FontColor = "white"
	}
	if s.WhisperModel == "" {
		s.WhisperModel = "base"
	}
}

// Validate rejects values Normalize cannot repair.
func (s *Settings) Validate() error {
	switch s.Preset {
	case "", "16:9", "9:16", "4:5":
	default:
		return fmt.Errorf("config: unknown preset %q", s.Preset)
	}
	switch s.ConflictPolicy {
	case "", "stack", "reject", "last-wins":
	default:
		return fmt.Errorf("config: unknown conflict policy %q", s.ConflictPolicy)
	}
	return nil
}

// Load reads settings from a YAML file, normalizing afterwards.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	s.Normalize()
	return s, nil
}

// Save writes settings to a YAML file.
func Save(s Settings, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
