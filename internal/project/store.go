package project

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"clipforge/internal/config"
	"clipforge/internal/overlay"
	"clipforge/internal/timeline"
)

const documentVersion = "1.0"

// document is the YAML form of a saved project. Overlay payloads are
// stored in kind-specific fields so the file stays self-describing.
type document struct {
	Version      string          `yaml:"version"`
	Base         string          `yaml:"base"`
	BaseDuration float64         `yaml:"base_duration"`
	Settings     config.Settings `yaml:"settings"`
	Items        []documentItem  `yaml:"items"`
}

type documentItem struct {
	Kind     string  `yaml:"kind"`
	Start    float64 `yaml:"start"`
	Duration float64 `yaml:"duration"`
	Track    int     `yaml:"track"`
	ZOrder   int     `yaml:"z_order"`
	Enabled  bool    `yaml:"enabled"`
	MediaRef string  `yaml:"media_ref,omitempty"`

	Image *overlay.Image `yaml:"image,omitempty"`
	Text  *overlay.Text  `yaml:"text,omitempty"`
}

// Save writes the project to a YAML file.
func (p *Project) Save(path string) error {
	doc := document{
		Version:      documentVersion,
		Base:         p.basePath,
		BaseDuration: p.baseDuration,
		Settings:     p.Settings,
	}

	for _, h := range p.Model.Handles() {
		item, err := p.Model.Item(h)
		if err != nil {
			continue
		}
		di := documentItem{
			Kind:     string(item.Kind),
			Start:    item.StartTime,
			Duration: item.Duration,
			Track:    item.TrackIndex,
			ZOrder:   item.ZOrder,
			Enabled:  item.Enabled,
			MediaRef: item.MediaRef,
		}
		switch ov := item.Overlay.(type) {
		case *overlay.Image:
			di.Image = ov
		case *overlay.Text:
			di.Text = ov
		}
		doc.Items = append(doc.Items, di)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a project from a YAML file. The base clip is not re-probed:
// the stored duration is trusted, so a saved project opens without its
// media being reachable.
func Load(path string, logger *slog.Logger) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("project: parse %s: %w", path, err)
	}
	if err := doc.Settings.Validate(); err != nil {
		return nil, err
	}

	p, err := New(doc.Settings, logger)
	if err != nil {
		return nil, err
	}
	if doc.Base != "" {
		p.attachBase(doc.Base, doc.BaseDuration)
	}

	for i, di := range doc.Items {
		item := timeline.Item{
			Kind:       timeline.ItemKind(di.Kind),
			StartTime:  di.Start,
			Duration:   di.Duration,
			TrackIndex: di.Track,
			ZOrder:     di.ZOrder,
			Enabled:    di.Enabled,
			MediaRef:   di.MediaRef,
		}
		switch {
		case di.Image != nil:
			item.Overlay = di.Image
		case di.Text != nil:
			item.Overlay = di.Text
		}
		if _, err := p.Model.AddItem(item); err != nil {
			return nil, fmt.Errorf("project: item %d of %s: %w", i, path, err)
		}
	}
	return p, nil
}
