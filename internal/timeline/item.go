package timeline

import "clipforge/internal/overlay"

// ItemKind is the category of one timeline item.
type ItemKind string

const (
	ItemVideo ItemKind = "video"
	ItemAudio ItemKind = "audio"
	ItemImage ItemKind = "image"
	ItemText  ItemKind = "text"
)

// Item is a time-bounded placement of one payload on one track.
// Duration is always positive for stored items; the scheduler rejects
// zero and negative durations before they reach the model.
type Item struct {
	Kind       ItemKind        `yaml:"kind"`
	StartTime  float64         `yaml:"start_time"`
	Duration   float64         `yaml:"duration"`
	TrackIndex int             `yaml:"track_index"`
	ZOrder     int             `yaml:"z_order"`
	Enabled    bool            `yaml:"enabled"`
	MediaRef   string          `yaml:"media_ref,omitempty"`
	Overlay    overlay.Overlay `yaml:"-"`
}

// EndTime is StartTime + Duration.
func (it Item) EndTime() float64 {
	return it.StartTime + it.Duration
}

// ActiveAt reports whether the item is enabled and covers time t. The
// interval is closed on both ends, matching point-in-time queries; the
// conflict test in Overlaps uses half-open intervals. The asymmetry is
// deliberate and documented on Model.OverlapsWith.
func (it Item) ActiveAt(t float64) bool {
	return it.Enabled && it.StartTime <= t && t <= it.EndTime()
}

// Overlaps reports whether the two items occupy intersecting time on the
// same track, using half-open [start, end) semantics: items that merely
// touch at a boundary do not conflict.
func (it Item) Overlaps(other Item) bool {
	if it.TrackIndex != other.TrackIndex {
		return false
	}
	return it.StartTime < other.EndTime() && other.StartTime < it.EndTime()
}
