package scheduler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"clipforge/internal/overlay"
)

// requestDoc is the YAML form of an overlay batch file.
type requestDoc struct {
	Overlays []requestEntry `yaml:"overlays"`
}

type requestEntry struct {
	Image     string                 `yaml:"image,omitempty"`
	Text      string                 `yaml:"text,omitempty"`
	Start     string                 `yaml:"start"`
	Duration  float64                `yaml:"duration,omitempty"`
	Position  string                 `yaml:"position,omitempty"`
	Font      string                 `yaml:"font,omitempty"`
	Animation *overlay.AnimationSpec `yaml:"animation,omitempty"`
}

// LoadRequests reads an overlay batch from a YAML file. Entries are not
// validated here; Schedule rejects the bad ones individually.
func LoadRequests(path string) ([]Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc requestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scheduler: parse %s: %w", path, err)
	}

	reqs := make([]Request, 0, len(doc.Overlays))
	for _, e := range doc.Overlays {
		reqs = append(reqs, Request{
			ImageRef:  e.Image,
			Text:      e.Text,
			Start:     e.Start,
			Duration:  e.Duration,
			Position:  overlay.Position(e.Position),
			FontRef:   e.Font,
			Animation: e.Animation,
		})
	}
	return reqs, nil
}
