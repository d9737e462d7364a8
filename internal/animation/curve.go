// Package animation maps elapsed time within a timeline item to a frame
// transform. All functions are pure and deterministic; the engine only
// carries a logger and a memo of unknown kinds it already warned about.
package animation

import (
	"log/slog"
	"math"

	"clipforge/internal/overlay"
)

const (
	// phaseFloor is the minimum entrance/exit phase length that still
	// reads as smooth motion. It is only enforced when the item is long
	// enough to hold two full phases.
	phaseFloor = 0.6

	// fadeWindowMax caps the fade ramp regardless of item duration.
	fadeWindowMax = 0.5
)

// Transform is the per-frame state of an overlay relative to its resting
// position: zero offsets, opacity 1 and scale 1 mean "at rest".
type Transform struct {
	OffsetX float64
	OffsetY float64
	Opacity float64
	Scale   float64
}

// Identity is the resting transform.
func Identity() Transform {
	return Transform{Opacity: 1, Scale: 1}
}

// PhaseDuration clamps a requested entrance or exit phase length for an
// item of the given total duration. The phase never exceeds a third of the
// item, so entry and exit cannot overlap; the floor is applied only when
// the item can hold two floored phases.
func PhaseDuration(configured, total float64) float64 {
	if total <= 0 {
		return 0
	}
	d := configured
	if d < 0 {
		d = 0
	}
	if d > total/3 {
		d = total / 3
	}
	if d < phaseFloor {
		if total >= 2*phaseFloor {
			d = phaseFloor
		} else {
			d = total / 3
		}
	}
	return d
}

// FadeWindow is the fade ramp length for an item of the given duration:
// a quarter of the item, capped at half a second.
func FadeWindow(total float64) float64 {
	return math.Min(fadeWindowMax, total/4)
}

// Engine evaluates animation curves. The zero value is usable; a logger
// enables the unknown-kind warning.
type Engine struct {
	logger *slog.Logger
	warned map[overlay.AnimationKind]bool
}

// NewEngine creates an engine logging through the given logger.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, warned: make(map[overlay.AnimationKind]bool)}
}

// Evaluate returns the transform of an overlay at local time t within an
// item of the given duration. frameH is the frame height used as the
// offscreen offset for slide. t outside [0, duration] is clamped.
//
// An unknown animation kind is not an error: it evaluates as none and is
// logged once per kind.
func (e *Engine) Evaluate(spec overlay.AnimationSpec, duration, frameH, t float64) Transform {
	if t < 0 {
		t = 0
	}
	if t > duration {
		t = duration
	}

	tr := Identity()
	switch spec.Kind {
	case overlay.AnimationNone, "":
	case overlay.AnimationFade:
		tr.Opacity = fadeOpacity(duration, t)
	case overlay.AnimationSlide:
		tr.OffsetY = slideOffset(spec, duration, frameH, t)
		if spec.Fade {
			tr.Opacity = fadeOpacity(duration, t)
		}
	case overlay.AnimationZoom:
		tr.Scale = zoomScale(spec, duration, t)
		if spec.Fade {
			tr.Opacity = fadeOpacity(duration, t)
		}
	case overlay.AnimationTypewriter:
		// Reveal progress is queried through RevealCount; the transform
		// itself stays at rest.
		if spec.Fade {
			tr.Opacity = fadeOpacity(duration, t)
		}
	default:
		e.warnUnknown(spec.Kind)
	}
	return tr
}

// RevealCount returns how many characters of a typewriter overlay are
// visible at local time t. The reveal completes at duration minus the exit
// phase; at least one character is always shown for non-empty text.
func (e *Engine) RevealCount(spec overlay.AnimationSpec, textLen int, duration, t float64) int {
	if textLen == 0 {
		return 0
	}
	if spec.Kind != overlay.AnimationTypewriter {
		return textLen
	}
	exit := PhaseDuration(spec.ExitDuration, duration)
	window := duration - exit
	if window <= 0 {
		return textLen
	}
	if t >= window {
		return textLen
	}
	if t < 0 {
		t = 0
	}
	n := int(math.Floor(float64(textLen) * t / window))
	if n < 1 {
		n = 1
	}
	if n > textLen {
		n = textLen
	}
	return n
}

func (e *Engine) warnUnknown(kind overlay.AnimationKind) {
	if e.warned == nil {
		e.warned = make(map[overlay.AnimationKind]bool)
	}
	if e.warned[kind] {
		return
	}
	e.warned[kind] = true
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("unknown animation kind, treating as none", "kind", string(kind))
}

// slideOffset computes the vertical offset of a slide animation. The
// overlay enters from one frame height below rest with an ease-out curve,
// holds at rest, then exits back down with an ease-in curve. The function
// is continuous at both phase boundaries.
func slideOffset(spec overlay.AnimationSpec, duration, frameH, t float64) float64 {
	entry := PhaseDuration(spec.EntryDuration, duration)
	exit := PhaseDuration(spec.ExitDuration, duration)

	if entry > 0 && t < entry {
		p := entryProgress(spec.Easing, clamp01(t/entry))
		return frameH * (1 - p)
	}
	if exit > 0 && t > duration-exit {
		p := exitProgress(spec.Easing, clamp01((t-(duration-exit))/exit))
		return frameH * p
	}
	return 0
}

// zoomScale ramps scale 0.5 to 1.0 over the entry window and back down over
// the exit window.
func zoomScale(spec overlay.AnimationSpec, duration, t float64) float64 {
	entry := PhaseDuration(spec.EntryDuration, duration)
	exit := PhaseDuration(spec.ExitDuration, duration)

	if entry > 0 && t < entry {
		p := entryProgress(spec.Easing, clamp01(t/entry))
		return lerp(0.5, 1.0, p)
	}
	if exit > 0 && t > duration-exit {
		p := exitProgress(spec.Easing, clamp01((t-(duration-exit))/exit))
		return lerp(1.0, 0.5, p)
	}
	return 1.0
}

// fadeOpacity ramps opacity linearly 0 to 1 at entry and 1 to 0 at exit
// over a min(0.5s, duration/4) window.
func fadeOpacity(duration, t float64) float64 {
	fd := FadeWindow(duration)
	if fd <= 0 {
		return 1
	}
	if t < fd {
		return clamp01(t / fd)
	}
	if t > duration-fd {
		return clamp01((duration - t) / fd)
	}
	return 1
}
