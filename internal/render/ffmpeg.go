package render

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strings"
	"unicode/utf8"

	"clipforge/internal/animation"
	"clipforge/internal/overlay"
	"clipforge/internal/timeline"
)

// Compositor renders a flattened layer stack over a base clip.
type Compositor interface {
	Compose(ctx context.Context, basePath, outPath string, layers []Layer) error
}

// EncodeOptions selects the output geometry and encoder. Encoder and
// Quality follow the probe package's conventions: CRF for libx264, CQ for
// NVENC, a bitrate multiplier for VideoToolbox.
type EncodeOptions struct {
	Width   int
	Height  int
	FPS     int
	Encoder string
	Quality int
}

// FFmpegCompositor composes layers with a single ffmpeg invocation. Image
// layers become shifted overlay inputs; text layers become drawtext
// filters. Animation curves are flattened into piecewise-linear filter
// expressions, so one process renders the whole clip.
type FFmpegCompositor struct {
	opts   EncodeOptions
	logger *slog.Logger
}

func NewFFmpegCompositor(opts EncodeOptions, logger *slog.Logger) *FFmpegCompositor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpegCompositor{opts: opts, logger: logger}
}

func (c *FFmpegCompositor) Compose(ctx context.Context, basePath, outPath string, layers []Layer) error {
	args := []string{"-y", "-i", basePath}

	// Image layers each get a looped still input; the input index is
	// needed when building the graph.
	inputIndex := make(map[int]int)
	next := 1
	for i, l := range layers {
		if l.Kind != timeline.ItemImage {
			continue
		}
		args = append(args,
			"-loop", "1",
			"-t", formatSeconds(l.Duration),
			"-i", l.MediaRef,
		)
		inputIndex[i] = next
		next++
	}

	graph := c.buildGraph(layers, inputIndex)
	args = append(args,
		"-filter_complex", graph,
		"-map", "[vout]",
		"-map", "0:a?",
		"-c:a", "copy",
		"-r", fmt.Sprintf("%d", c.opts.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", c.opts.Encoder,
	)
	args = append(args, qualityArgs(c.opts.Encoder, c.opts.Quality)...)
	args = append(args, outPath)

	c.logger.Debug("compose", "base", basePath, "out", outPath, "layers", len(layers))

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("render: ffmpeg compose: %v, output: %s", err, string(out))
	}
	return nil
}

// buildGraph assembles the filter_complex string. The base is normalized
// to the output geometry, then every layer is folded in bottom to top.
func (c *FFmpegCompositor) buildGraph(layers []Layer, inputIndex map[int]int) string {
	parts := []string{
		fmt.Sprintf("[0:v]scale=%d:%d,setsar=1[v0]", c.opts.Width, c.opts.Height),
	}
	cur := "[v0]"

	for i, l := range layers {
		switch l.Kind {
		case timeline.ItemImage:
			out := fmt.Sprintf("[mix%d]", i)
			parts = append(parts, c.imagePrepChain(l, inputIndex[i], i))
			parts = append(parts, c.overlayStep(l, cur, fmt.Sprintf("[ov%d]", i), out))
			cur = out
		case timeline.ItemText:
			out := fmt.Sprintf("[mix%d]", i)
			parts = append(parts, cur+c.drawtextChain(l)+out)
			cur = out
		}
	}

	// Relabel whatever ended up on top as the mapped output.
	parts = append(parts, cur+"null[vout]")
	return strings.Join(parts, ";")
}

// imagePrepChain scales a still input to its resting box (animated for
// zoom), applies the fade ramps, and shifts its timestamps to the layer's
// start on the output clock.
func (c *FFmpegCompositor) imagePrepChain(l Layer, input, idx int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d:v]format=rgba", input)

	if l.Anim.Kind == overlay.AnimationZoom {
		z := piecewiseExpr(sampleCurve(l, func(tr animation.Transform) float64 { return tr.Scale }), 0)
		fmt.Fprintf(&b, ",scale=w='trunc(%s*%s/2)*2':h='trunc(%s*%s/2)*2':eval=frame",
			formatNum(l.RestW), z, formatNum(l.RestH), z)
	} else {
		fmt.Fprintf(&b, ",scale=%d:%d", evenDim(l.RestW), evenDim(l.RestH))
	}

	if layerFades(l) {
		fw := animation.FadeWindow(l.Duration)
		fmt.Fprintf(&b, ",fade=t=in:st=0:d=%s:alpha=1,fade=t=out:st=%s:d=%s:alpha=1",
			formatSeconds(fw), formatSeconds(l.Duration-fw), formatSeconds(fw))
	}

	fmt.Fprintf(&b, ",setpts=PTS-STARTPTS+%s/TB[ov%d]", formatNum(l.StartTime), idx)
	return b.String()
}

// overlayStep composites one prepared still over the current stack. The
// x/y expressions track the animated center of the box so zoom stays
// centered and slide follows its eased path.
func (c *FFmpegCompositor) overlayStep(l Layer, cur, ov, out string) string {
	xe := piecewiseExpr(sampleCurve(l, func(tr animation.Transform) float64 {
		return l.RestX + l.RestW/2 + tr.OffsetX
	}), l.StartTime)
	ye := piecewiseExpr(sampleCurve(l, func(tr animation.Transform) float64 {
		return l.RestY + l.RestH/2 + tr.OffsetY
	}), l.StartTime)

	return fmt.Sprintf("%s%soverlay=x='%s-overlay_w/2':y='%s-overlay_h/2':eof_action=pass:enable='between(t,%s,%s)'%s",
		cur, ov, xe, ye,
		formatSeconds(l.StartTime), formatSeconds(l.StartTime+l.Duration), out)
}

// drawtextChain renders a text layer as one or more drawtext filters. A
// typewriter layer becomes a sequence of word-prefix drawtexts, each
// enabled for its own reveal window; everything else is a single filter.
func (c *FFmpegCompositor) drawtextChain(l Layer) string {
	xe := piecewiseExpr(sampleCurve(l, func(tr animation.Transform) float64 {
		return l.RestX + tr.OffsetX
	}), l.StartTime)
	ye := piecewiseExpr(sampleCurve(l, func(tr animation.Transform) float64 {
		return l.RestY + tr.OffsetY
	}), l.StartTime)

	alpha := ""
	if layerFades(l) {
		ae := piecewiseExpr(sampleCurve(l, func(tr animation.Transform) float64 {
			return tr.Opacity
		}), l.StartTime)
		alpha = fmt.Sprintf(":alpha='%s'", ae)
	}

	var b strings.Builder
	for _, w := range c.textWindows(l) {
		b.WriteString("drawtext=")
		if l.FontRef != "" {
			fmt.Fprintf(&b, "fontfile='%s':", escapeDrawtext(l.FontRef))
		}
		fmt.Fprintf(&b, "text='%s':fontsize=%d:fontcolor=%s:x='%s-text_w/2':y='%s-text_h/2'%s:enable='between(t,%s,%s)',",
			escapeDrawtext(w.text), l.FontSize, l.FontColor,
			xe, ye, alpha,
			formatSeconds(w.start), formatSeconds(w.end))
	}
	s := strings.TrimSuffix(b.String(), ",")
	return s
}

type textWindow struct {
	text  string
	start float64
	end   float64
}

// textWindows splits a typewriter layer into word-prefix reveal windows.
// The reveal runs over the item duration minus the exit phase, each word
// appearing in proportion to its character offset, matching the character
// reveal at word granularity. Non-typewriter layers get a single window.
func (c *FFmpegCompositor) textWindows(l Layer) []textWindow {
	start, end := l.StartTime, l.StartTime+l.Duration
	if l.Anim.Kind != overlay.AnimationTypewriter {
		return []textWindow{{text: l.Text, start: start, end: end}}
	}

	words := strings.Fields(l.Text)
	if len(words) <= 1 {
		return []textWindow{{text: l.Text, start: start, end: end}}
	}

	exit := animation.PhaseDuration(l.Anim.ExitDuration, l.Duration)
	window := l.Duration - exit
	total := float64(utf8.RuneCountInString(strings.Join(words, " ")))

	var out []textWindow
	offset := 0
	prev := 0.0
	for i, w := range words {
		if i > 0 {
			offset++ // joining space
		}
		at := window * float64(offset) / total
		if i > 0 {
			out[len(out)-1].end = start + at
		}
		out = append(out, textWindow{
			text:  strings.Join(words[:i+1], " "),
			start: start + math.Max(at, prev),
			end:   end,
		})
		prev = at
		offset += utf8.RuneCountInString(w)
	}
	return out
}

func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default:
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func evenDim(v float64) int {
	n := int(math.Round(v/2)) * 2
	if n < 2 {
		n = 2
	}
	return n
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

var drawtextEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `'\''`,
	`:`, `\:`,
	`%`, `\%`,
)

func escapeDrawtext(s string) string {
	return drawtextEscaper.Replace(s)
}
