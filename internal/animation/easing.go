package animation

import "clipforge/internal/overlay"

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// easeOutQuad decelerates toward the end of the phase.
func easeOutQuad(p float64) float64 {
	return 1 - (1-p)*(1-p)
}

// easeInQuad accelerates from rest.
func easeInQuad(p float64) float64 {
	return p * p
}

// easeInOutCubic applies smooth easing on both ends.
func easeInOutCubic(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	q := -2*p + 2
	return 1 - q*q*q/2
}

// entryProgress remaps entrance progress. The default curve is ease-out so
// motion settles into the resting position.
func entryProgress(e overlay.Easing, p float64) float64 {
	switch e {
	case overlay.EasingLinear:
		return p
	case overlay.EasingEaseIn:
		return easeInQuad(p)
	case overlay.EasingEaseInOut:
		return easeInOutCubic(p)
	default:
		return easeOutQuad(p)
	}
}

// exitProgress remaps exit progress. The default curve is ease-in so motion
// accelerates away from the resting position.
func exitProgress(e overlay.Easing, p float64) float64 {
	switch e {
	case overlay.EasingLinear:
		return p
	case overlay.EasingEaseOut:
		return easeOutQuad(p)
	case overlay.EasingEaseInOut:
		return easeInOutCubic(p)
	default:
		return easeInQuad(p)
	}
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
