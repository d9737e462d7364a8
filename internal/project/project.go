// Package project wires the timeline model, overlay scheduler, animation
// engine, asset resolver and compositor into one editing session.
package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"clipforge/internal/animation"
	"clipforge/internal/assets"
	"clipforge/internal/captions"
	"clipforge/internal/config"
	"clipforge/internal/probe"
	"clipforge/internal/render"
	"clipforge/internal/scheduler"
	"clipforge/internal/timeline"
)

// ErrNoBase is returned by operations that need a primary clip before one
// has been set.
var ErrNoBase = errors.New("project: no base clip set")

// Project is one editing session over a single base clip.
type Project struct {
	Settings config.Settings
	Model    *timeline.Model

	// Compositor overrides the default ffmpeg compositor when non-nil.
	Compositor render.Compositor

	resolver *assets.Resolver
	sched    *scheduler.Scheduler
	engine   *animation.Engine
	logger   *slog.Logger

	basePath     string
	baseDuration float64
}

// New creates an empty project with the default track layout.
func New(settings config.Settings, logger *slog.Logger) (*Project, error) {
	settings.Normalize()
	if logger == nil {
		logger = slog.Default()
	}

	model, err := timeline.NewModel(timeline.DefaultTracks())
	if err != nil {
		return nil, err
	}
	resolver, err := assets.NewResolver()
	if err != nil {
		return nil, err
	}

	return &Project{
		Settings: settings,
		Model:    model,
		resolver: resolver,
		engine:   animation.NewEngine(logger),
		logger:   logger,
	}, nil
}

// Close releases generated assets.
func (p *Project) Close() error {
	return p.resolver.Close()
}

// BaseDuration is the probed duration of the base clip, zero before
// SetBase.
func (p *Project) BaseDuration() float64 { return p.baseDuration }

// SetBase probes the primary clip and anchors the timeline to it. All
// overlay scheduling is clamped against its duration.
func (p *Project) SetBase(ctx context.Context, path string) error {
	d, err := probe.MediaDuration(ctx, path)
	if err != nil {
		return err
	}
	p.attachBase(path, d)

	track, _ := p.Model.TrackByKind(timeline.TrackVideo)
	_, err = p.Model.AddItem(timeline.Item{
		Kind:       timeline.ItemVideo,
		StartTime:  0,
		Duration:   d,
		TrackIndex: track.Index,
		Enabled:    true,
		MediaRef:   path,
	})
	if err != nil {
		return err
	}
	p.logger.Info("base clip set", "path", path, "duration", d)
	return nil
}

// attachBase records the base clip and rebuilds the scheduler against its
// duration without touching the model.
func (p *Project) attachBase(path string, duration float64) {
	p.basePath = path
	p.baseDuration = duration
	p.sched = scheduler.New(p.Model, p.resolver, scheduler.Options{
		FrameW:         p.Settings.Width,
		FrameH:         p.Settings.Height,
		MediaDuration:  duration,
		TargetFraction: p.Settings.TargetFraction,
		Policy:         scheduler.ConflictPolicy(p.Settings.ConflictPolicy),
		ImageDuration:  p.Settings.ImageDuration,
		TextDuration:   p.Settings.TextDuration,
		FontRef:        p.Settings.FontRef,
		TextSize:       p.Settings.FontSize,
		TextColor:      p.Settings.FontColor,
		Logger:         p.logger,
	})
}

// AddOverlays schedules a batch of overlay requests. Image references are
// pre-resolved concurrently before the sequential scheduling pass.
func (p *Project) AddOverlays(ctx context.Context, reqs []scheduler.Request) ([]timeline.Handle, []scheduler.Warning, error) {
	if p.sched == nil {
		return nil, nil, ErrNoBase
	}
	p.prewarmAssets(ctx, reqs)
	return p.sched.ScheduleBatch(reqs)
}

// prewarmAssets renders distinct image references into the resolver cache
// with a bounded worker pool. Failures are left for the scheduler, which
// records them as per-request warnings.
func (p *Project) prewarmAssets(ctx context.Context, reqs []scheduler.Request) {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	seen := make(map[string]bool)
	for _, req := range reqs {
		ref := req.ImageRef
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		g.Go(func() error {
			_, _ = p.resolver.Resolve(ref)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Project) workers() int {
	if p.Settings.Workers > 0 {
		return p.Settings.Workers
	}
	return probe.EncodeWorkers()
}

// AddCaptionSegments places caption segments on the text track. With
// WordByWord each segment is split into per-word windows; otherwise the
// whole segment becomes one wrapped text overlay. A segment with an
// invalid time range is skipped with a warning, like any other bad
// request.
func (p *Project) AddCaptionSegments(segs []captions.Segment) ([]timeline.Handle, []scheduler.Warning, error) {
	if p.sched == nil {
		return nil, nil, ErrNoBase
	}

	var reqs []scheduler.Request
	var warnings []scheduler.Warning
	for i, seg := range segs {
		if p.Settings.WordByWord {
			windows, err := captions.Distribute(seg)
			if err != nil {
				warnings = append(warnings, scheduler.Warning{Index: i, Ref: seg.Text, Err: err})
				p.logger.Warn("caption segment skipped", "text", seg.Text, "err", err)
				continue
			}
			for _, w := range windows {
				// A zero-length window would read as "no duration given"
				// downstream and inherit the text default; drop it instead.
				if w.Duration <= 0 {
					err := fmt.Errorf("captions: zero-length window for %q at %ss", w.Word, formatStart(w.Start))
					warnings = append(warnings, scheduler.Warning{Index: i, Ref: w.Word, Err: err})
					p.logger.Warn("caption word skipped", "word", w.Word, "start", w.Start)
					continue
				}
				reqs = append(reqs, scheduler.Request{
					Text:     w.Word,
					Start:    formatStart(w.Start),
					Duration: w.Duration,
				})
			}
			continue
		}

		if seg.End < seg.Start {
			err := &captions.InvalidSegmentError{Start: seg.Start, End: seg.End}
			warnings = append(warnings, scheduler.Warning{Index: i, Ref: seg.Text, Err: err})
			p.logger.Warn("caption segment skipped", "text", seg.Text, "err", err)
			continue
		}
		lines := captions.WrapLines(seg.Text, p.Settings.MaxLineChars, p.Settings.MaxLines)
		reqs = append(reqs, scheduler.Request{
			Text:     strings.Join(lines, "\n"),
			Start:    formatStart(seg.Start),
			Duration: seg.Duration(),
		})
	}

	handles, schedWarnings, err := p.sched.ScheduleBatch(reqs)
	warnings = append(warnings, schedWarnings...)
	return handles, warnings, err
}

func formatStart(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Export flattens the timeline into an immutable layer snapshot and
// renders it over the base clip. Edits made to the model while the render
// runs do not affect the output.
func (p *Project) Export(ctx context.Context, outPath string) error {
	if p.basePath == "" {
		return ErrNoBase
	}

	enc := p.Settings.Encoder
	if enc == "" {
		enc = probe.BestH264Encoder()
	}
	quality := p.Settings.Quality
	if quality <= 0 {
		quality = probe.DefaultQuality(enc)
	}

	layers := render.BuildLayers(p.Model, p.engine, float64(p.Settings.Height))

	comp := p.Compositor
	if comp == nil {
		comp = render.NewFFmpegCompositor(render.EncodeOptions{
			Width:   p.Settings.Width,
			Height:  p.Settings.Height,
			FPS:     p.Settings.FPS,
			Encoder: enc,
			Quality: quality,
		}, p.logger)
	}

	p.logger.Info("export started", "out", outPath, "layers", len(layers), "encoder", enc)
	if err := comp.Compose(ctx, p.basePath, outPath, layers); err != nil {
		return err
	}
	p.logger.Info("export finished", "out", outPath)
	return nil
}
