package timeline

// TrackKind is the category of items a track carries.
type TrackKind string

const (
	TrackVideo        TrackKind = "video"
	TrackAudio        TrackKind = "audio"
	TrackImageOverlay TrackKind = "image-overlay"
	TrackTextOverlay  TrackKind = "text-overlay"
)

// Track is a logical lane on the timeline. The index is stable for the life
// of the timeline.
type Track struct {
	Index int       `yaml:"index"`
	Kind  TrackKind `yaml:"kind"`
}

// DefaultTracks is the standard four-lane layout: primary video, audio,
// image overlays, text overlays.
func DefaultTracks() []Track {
	return []Track{
		{Index: 0, Kind: TrackVideo},
		{Index: 1, Kind: TrackAudio},
		{Index: 2, Kind: TrackImageOverlay},
		{Index: 3, Kind: TrackTextOverlay},
	}
}
