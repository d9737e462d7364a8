// Package render is the boundary to the compositing collaborator: it
// flattens a timeline into an ordered list of layers with per-frame
// transform functions, and provides an ffmpeg-backed compositor that
// renders them.
package render

import (
	"sort"

	"clipforge/internal/animation"
	"clipforge/internal/overlay"
	"clipforge/internal/timeline"
)

// Layer is one renderable element. Transform maps local time within the
// layer (0 at StartTime) to the overlay transform; it is nil for base
// media layers, which render at rest.
type Layer struct {
	ZOrder    int
	Kind      timeline.ItemKind
	MediaRef  string
	StartTime float64
	Duration  float64

	// Resting geometry. RestX/RestY is the top-left anchor for images
	// and the text anchor for text layers; RestW/RestH is the fitted box
	// for images; Scale is the static fit scale applied to image layers
	// before animation.
	RestX float64
	RestY float64
	RestW float64
	RestH float64
	Scale float64

	// Text-layer fields.
	Text      string
	FontRef   string
	FontSize  int
	FontColor string

	Anim      overlay.AnimationSpec
	Transform func(local float64) animation.Transform
}

// BuildLayers snapshots the enabled items of a model into layers ordered
// by z-order (stable on insertion order for ties). The snapshot is
// immutable: mutating the model afterwards does not affect the returned
// layers, so an export pass can render without holding the model.
func BuildLayers(m *timeline.Model, eng *animation.Engine, frameH float64) []Layer {
	var layers []Layer
	for _, h := range m.Handles() {
		item, err := m.Item(h)
		if err != nil || !item.Enabled {
			continue
		}
		layers = append(layers, buildLayer(item, eng, frameH))
	}
	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].ZOrder < layers[j].ZOrder
	})
	return layers
}

func buildLayer(item timeline.Item, eng *animation.Engine, frameH float64) Layer {
	l := Layer{
		ZOrder:    item.ZOrder,
		Kind:      item.Kind,
		MediaRef:  item.MediaRef,
		StartTime: item.StartTime,
		Duration:  item.Duration,
		Scale:     1,
	}

	switch ov := item.Overlay.(type) {
	case *overlay.Image:
		l.Scale = ov.Scale
		l.RestW = float64(ov.SourceW) * ov.Scale
		l.RestH = float64(ov.SourceH) * ov.Scale
		if ov.Custom != nil {
			l.RestX, l.RestY = ov.Custom.X, ov.Custom.Y
		}
		l.Anim = ov.Animation
	case *overlay.Text:
		l.Text = ov.Text
		l.FontRef = ov.FontRef
		l.FontSize = ov.Size
		l.FontColor = ov.Color
		if ov.Custom != nil {
			l.RestX, l.RestY = ov.Custom.X, ov.Custom.Y
		}
		l.Anim = ov.Animation
	default:
		// Base video/audio layers render at rest.
		return l
	}

	spec := l.Anim
	duration := item.Duration
	l.Transform = func(local float64) animation.Transform {
		return eng.Evaluate(spec, duration, frameH, local)
	}
	return l
}
