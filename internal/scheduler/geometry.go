package scheduler

import "clipforge/internal/overlay"

// DefaultTargetFraction is the share of each frame dimension an image
// overlay may occupy.
const DefaultTargetFraction = 0.75

// textVerticalAnchor places text overlays at 70% of the frame height,
// matching the resting position captions are rendered at.
const textVerticalAnchor = 0.7

// FitScale computes the uniform scale factor that fits an image inside
// fraction of each frame dimension while preserving aspect ratio.
func FitScale(frameW, frameH, imgW, imgH int, fraction float64) float64 {
	if imgW <= 0 || imgH <= 0 {
		return 1
	}
	ws := float64(frameW) * fraction / float64(imgW)
	hs := float64(frameH) * fraction / float64(imgH)
	if ws < hs {
		return ws
	}
	return hs
}

// CenteredPosition returns the top-left point that centers a scaled image
// in the frame.
func CenteredPosition(frameW, frameH, imgW, imgH int, scale float64) overlay.Point {
	return overlay.Point{
		X: (float64(frameW) - float64(imgW)*scale) / 2,
		Y: (float64(frameH) - float64(imgH)*scale) / 2,
	}
}

// resolvePreset maps a position preset to a concrete anchor point for a
// box of the given size. Margins hug the frame edges at 5%.
func resolvePreset(pos overlay.Position, frameW, frameH int, boxW, boxH float64) overlay.Point {
	fw, fh := float64(frameW), float64(frameH)
	margin := 0.05
	mx, my := fw*margin, fh*margin

	cx := (fw - boxW) / 2
	cy := (fh - boxH) / 2

	switch pos {
	case overlay.PositionTop:
		return overlay.Point{X: cx, Y: my}
	case overlay.PositionBottom:
		return overlay.Point{X: cx, Y: fh - boxH - my}
	case overlay.PositionLeft:
		return overlay.Point{X: mx, Y: cy}
	case overlay.PositionRight:
		return overlay.Point{X: fw - boxW - mx, Y: cy}
	case overlay.PositionTopLeft:
		return overlay.Point{X: mx, Y: my}
	case overlay.PositionTopRight:
		return overlay.Point{X: fw - boxW - mx, Y: my}
	case overlay.PositionBottomLeft:
		return overlay.Point{X: mx, Y: fh - boxH - my}
	case overlay.PositionBottomRight:
		return overlay.Point{X: fw - boxW - mx, Y: fh - boxH - my}
	default:
		return overlay.Point{X: cx, Y: cy}
	}
}
