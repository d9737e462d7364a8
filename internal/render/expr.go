package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"clipforge/internal/animation"
	"clipforge/internal/overlay"
)

// phaseSamples is the number of breakpoints taken across an entry or exit
// window when flattening an eased curve into a piecewise-linear ffmpeg
// expression. Eight segments keep the worst-case deviation of a quadratic
// ease well under one pixel at 1080p.
const phaseSamples = 8

type sample struct {
	t float64
	v float64
}

// sampleCurve evaluates one component of a layer's transform at breakpoints
// dense enough for a piecewise-linear fit: sub-sampled over the entry and
// exit windows, a single span across the hold where the curve is constant.
func sampleCurve(l Layer, pick func(animation.Transform) float64) []sample {
	d := l.Duration
	head, tail := animatedWindows(l)

	times := []float64{0, d}
	times = append(times, subdivide(0, math.Min(head, d))...)
	times = append(times, subdivide(math.Max(d-tail, 0), d)...)
	sort.Float64s(times)

	samples := make([]sample, 0, len(times))
	for _, t := range times {
		if len(samples) > 0 && t-samples[len(samples)-1].t < 1e-6 {
			continue
		}
		samples = append(samples, sample{t: t, v: pick(l.Transform(t))})
	}
	return samples
}

// animatedWindows returns how far the animated head and tail of a layer
// extend into its duration, covering both the eased phases and the fade
// ramp.
func animatedWindows(l Layer) (head, tail float64) {
	head = animation.PhaseDuration(l.Anim.EntryDuration, l.Duration)
	tail = animation.PhaseDuration(l.Anim.ExitDuration, l.Duration)
	if layerFades(l) {
		fw := animation.FadeWindow(l.Duration)
		head = math.Max(head, fw)
		tail = math.Max(tail, fw)
	}
	return head, tail
}

func layerFades(l Layer) bool {
	return l.Anim.Fade || l.Anim.Kind == overlay.AnimationFade
}

func subdivide(a, b float64) []float64 {
	if b <= a {
		return nil
	}
	out := make([]float64, 0, phaseSamples+1)
	for i := 0; i <= phaseSamples; i++ {
		out = append(out, a+(b-a)*float64(i)/phaseSamples)
	}
	return out
}

// piecewiseExpr renders breakpoint samples as nested if(lte(t,...)) linear
// segments in the ffmpeg expression language. shift moves the breakpoints
// from layer-local time onto the enclosing filter's clock. A flat curve
// collapses to a single constant.
func piecewiseExpr(samples []sample, shift float64) string {
	if len(samples) == 0 {
		return "0"
	}
	if flat(samples) {
		return formatNum(samples[0].v)
	}

	var b strings.Builder
	n := len(samples)
	for i := 0; i < n-1; i++ {
		seg := segmentExpr(samples[i], samples[i+1], shift)
		if i < n-2 {
			fmt.Fprintf(&b, "if(lte(t,%s),%s,", formatNum(samples[i+1].t+shift), seg)
		} else {
			b.WriteString(seg)
		}
	}
	b.WriteString(strings.Repeat(")", n-2))
	return b.String()
}

// segmentExpr linearly interpolates between two samples.
func segmentExpr(s0, s1 sample, shift float64) string {
	dt := s1.t - s0.t
	if dt <= 0 || math.Abs(s1.v-s0.v) < 1e-9 {
		return formatNum(s0.v)
	}
	return fmt.Sprintf("%s+(t-%s)/%s*(%s)",
		formatNum(s0.v), formatNum(s0.t+shift), formatNum(dt), formatNum(s1.v-s0.v))
}

func flat(samples []sample) bool {
	for _, s := range samples[1:] {
		if math.Abs(s.v-samples[0].v) > 1e-9 {
			return false
		}
	}
	return true
}

func formatNum(v float64) string {
	return fmt.Sprintf("%.6f", v)
}
