// Package scheduler validates raw overlay requests and turns them into
// timeline items with computed geometry. Every per-request failure is
// local: the request is skipped with a warning and the rest of the batch
// continues.
package scheduler

import (
	"fmt"
	"log/slog"

	"clipforge/internal/assets"
	"clipforge/internal/overlay"
	"clipforge/internal/timeline"
)

// ConflictPolicy decides what happens when a new overlay's interval
// intersects an existing item on the same track.
type ConflictPolicy string

const (
	// ConflictStack keeps both items; the newer one gets a higher
	// z-order. This matches what the original compositor did and is the
	// default.
	ConflictStack ConflictPolicy = "stack"
	// ConflictReject skips the new overlay with a TrackConflictError.
	ConflictReject ConflictPolicy = "reject"
	// ConflictLastWins removes the existing conflicting items.
	ConflictLastWins ConflictPolicy = "last-wins"
)

// AssetProber resolves an image source reference to its dimensions.
// *assets.Resolver implements it; tests substitute a stub.
type AssetProber interface {
	Resolve(ref string) (assets.Asset, error)
}

// Request is one raw overlay request. Exactly one of ImageRef and Text is
// set. Start arrives as a free-form string (possibly "5.5s" or
// "Not specified") and is parsed, never guessed.
type Request struct {
	ImageRef  string
	Text      string
	Start     string
	Duration  float64
	Position  overlay.Position
	FontRef   string
	Animation *overlay.AnimationSpec
}

func (r Request) isImage() bool { return r.ImageRef != "" }

func (r Request) ref() string {
	if r.isImage() {
		return r.ImageRef
	}
	return r.Text
}

// Options configures a Scheduler.
type Options struct {
	FrameW         int
	FrameH         int
	MediaDuration  float64
	TargetFraction float64
	Policy         ConflictPolicy
	// Defaults used when a request leaves Duration at zero.
	ImageDuration float64
	TextDuration  float64
	FontRef       string
	TextSize      int
	TextColor     string
	Logger        *slog.Logger
}

// Scheduler validates overlay requests against one media clip and places
// the results on the timeline model.
type Scheduler struct {
	model  *timeline.Model
	prober AssetProber
	opts   Options
	logger *slog.Logger
	nextZ  map[int]int
}

// New creates a scheduler writing into model.
func New(model *timeline.Model, prober AssetProber, opts Options) *Scheduler {
	if opts.TargetFraction <= 0 || opts.TargetFraction > 1 {
		opts.TargetFraction = DefaultTargetFraction
	}
	if opts.Policy == "" {
		opts.Policy = ConflictStack
	}
	if opts.ImageDuration <= 0 {
		opts.ImageDuration = 5.0
	}
	if opts.TextDuration <= 0 {
		opts.TextDuration = 3.0
	}
	if opts.TextSize <= 0 {
		opts.TextSize = 40
	}
	if opts.TextColor == "" {
		opts.TextColor = "white"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		model:  model,
		prober: prober,
		opts:   opts,
		logger: logger,
		nextZ:  make(map[int]int),
	}
}

// Schedule validates one request and adds it to the timeline.
func (s *Scheduler) Schedule(req Request) (timeline.Handle, error) {
	start, err := ParseTimestamp(req.Start)
	if err != nil {
		return timeline.Handle{}, err
	}

	duration := req.Duration
	if duration <= 0 {
		if req.isImage() {
			duration = s.opts.ImageDuration
		} else {
			duration = s.opts.TextDuration
		}
	}

	// Clamp to the media window. An overlay that would begin at or after
	// the media end is rejected outright.
	if start+duration > s.opts.MediaDuration {
		duration = s.opts.MediaDuration - start
	}
	if duration <= 0 {
		return timeline.Handle{}, &OutOfRangeError{Start: start, MediaDuration: s.opts.MediaDuration}
	}

	var item timeline.Item
	if req.isImage() {
		item, err = s.buildImageItem(req, start, duration)
	} else {
		item, err = s.buildTextItem(req, start, duration)
	}
	if err != nil {
		return timeline.Handle{}, err
	}

	return s.place(item)
}

// ScheduleBatch schedules each request independently, collecting a warning
// per skipped request. A non-empty batch that schedules nothing returns
// ErrNoValidItems alongside the warnings.
func (s *Scheduler) ScheduleBatch(reqs []Request) ([]timeline.Handle, []Warning, error) {
	var handles []timeline.Handle
	var warnings []Warning
	for i, req := range reqs {
		h, err := s.Schedule(req)
		if err != nil {
			warnings = append(warnings, Warning{Index: i, Ref: req.ref(), Err: err})
			s.logger.Warn("overlay skipped", "ref", req.ref(), "err", err)
			continue
		}
		handles = append(handles, h)
	}
	if len(reqs) > 0 && len(handles) == 0 {
		return nil, warnings, ErrNoValidItems
	}
	return handles, warnings, nil
}

func (s *Scheduler) buildImageItem(req Request, start, duration float64) (timeline.Item, error) {
	asset, err := s.prober.Resolve(req.ImageRef)
	if err != nil {
		return timeline.Item{}, err
	}

	scale := FitScale(s.opts.FrameW, s.opts.FrameH, asset.Width, asset.Height, s.opts.TargetFraction)
	var pos overlay.Point
	if req.Position == "" || req.Position == overlay.PositionCenter {
		pos = CenteredPosition(s.opts.FrameW, s.opts.FrameH, asset.Width, asset.Height, scale)
	} else {
		boxW := float64(asset.Width) * scale
		boxH := float64(asset.Height) * scale
		pos = resolvePreset(req.Position, s.opts.FrameW, s.opts.FrameH, boxW, boxH)
	}

	anim := overlay.AnimationSpec{Kind: overlay.AnimationSlide, Fade: true}
	if req.Animation != nil {
		anim = *req.Animation
	}

	track, ok := s.model.TrackByKind(timeline.TrackImageOverlay)
	if !ok {
		return timeline.Item{}, fmt.Errorf("scheduler: no image-overlay track")
	}

	return timeline.Item{
		Kind:       timeline.ItemImage,
		StartTime:  start,
		Duration:   duration,
		TrackIndex: track.Index,
		Enabled:    true,
		MediaRef:   asset.Path,
		Overlay: &overlay.Image{
			SourceRef: req.ImageRef,
			SourceW:   asset.Width,
			SourceH:   asset.Height,
			Scale:     scale,
			FitMode:   overlay.FitContain,
			Opacity:   1,
			Position:  overlay.PositionCenter,
			Custom:    &pos,
			Animation: anim,
		},
	}, nil
}

func (s *Scheduler) buildTextItem(req Request, start, duration float64) (timeline.Item, error) {
	anim := overlay.AnimationSpec{Kind: overlay.AnimationFade}
	if req.Animation != nil {
		anim = *req.Animation
	}

	font := req.FontRef
	if font == "" {
		font = s.opts.FontRef
	}

	track, ok := s.model.TrackByKind(timeline.TrackTextOverlay)
	if !ok {
		return timeline.Item{}, fmt.Errorf("scheduler: no text-overlay track")
	}

	pos := req.Position
	if pos == "" {
		pos = overlay.PositionBottom
	}
	anchor := overlay.Point{
		X: float64(s.opts.FrameW) / 2,
		Y: float64(s.opts.FrameH) * textVerticalAnchor,
	}

	return timeline.Item{
		Kind:       timeline.ItemText,
		StartTime:  start,
		Duration:   duration,
		TrackIndex: track.Index,
		Enabled:    true,
		Overlay: &overlay.Text{
			Text:        req.Text,
			FontRef:     font,
			Size:        s.opts.TextSize,
			Color:       s.opts.TextColor,
			Align:       "center",
			LineSpacing: 1.2,
			Position:    pos,
			Custom:      &anchor,
			Animation:   anim,
		},
	}, nil
}

// place applies the conflict policy and adds the item, assigning a
// per-track z-order.
func (s *Scheduler) place(item timeline.Item) (timeline.Handle, error) {
	conflicts := s.model.OverlapsWith(item)
	if len(conflicts) > 0 {
		switch s.opts.Policy {
		case ConflictReject:
			return timeline.Handle{}, &TrackConflictError{
				TrackIndex: item.TrackIndex,
				Start:      item.StartTime,
				End:        item.EndTime(),
			}
		case ConflictLastWins:
			for _, h := range conflicts {
				if err := s.model.RemoveItem(h); err != nil {
					return timeline.Handle{}, err
				}
			}
		}
	}

	s.nextZ[item.TrackIndex]++
	item.ZOrder = trackZBase(item.TrackIndex) + s.nextZ[item.TrackIndex]
	return s.model.AddItem(item)
}

// trackZBase spaces per-track z-orders so text overlays always render
// above image overlays, which render above the primary media.
func trackZBase(trackIndex int) int {
	return trackIndex * 1000
}
