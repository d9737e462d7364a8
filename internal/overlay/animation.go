package overlay

// AnimationKind selects the entrance/exit behavior of an overlay. At most
// one position-affecting kind (slide, zoom) applies at a time; fade is an
// independent toggle that composes with slide and zoom.
type AnimationKind string

const (
	AnimationNone       AnimationKind = "none"
	AnimationFade       AnimationKind = "fade"
	AnimationSlide      AnimationKind = "slide"
	AnimationZoom       AnimationKind = "zoom"
	AnimationTypewriter AnimationKind = "typewriter"
)

// Easing remaps animation progress. Slide and zoom default to ease-out on
// entry and ease-in on exit when the field is empty.
type Easing string

const (
	EasingLinear    Easing = "linear"
	EasingEaseIn    Easing = "ease_in"
	EasingEaseOut   Easing = "ease_out"
	EasingEaseInOut Easing = "ease_in_out"
)

// AnimationSpec describes the animation of one overlay. EntryDuration and
// ExitDuration are requests; the curve engine clamps them so that
// entry+exit never exceeds the item duration.
type AnimationSpec struct {
	Kind          AnimationKind `yaml:"kind"`
	EntryDuration float64       `yaml:"entry_duration"`
	ExitDuration  float64       `yaml:"exit_duration"`
	Easing        Easing        `yaml:"easing"`
	Fade          bool          `yaml:"fade"`
}
