package overlay

// Kind discriminates overlay payload variants.
type Kind string

const (
	KindImage Kind = "image"
	KindText  Kind = "text"
)

// FitMode controls how an image is fitted into its target box.
type FitMode string

const (
	FitContain FitMode = "contain"
	FitCover   FitMode = "cover"
	FitFill    FitMode = "fill"
	FitStretch FitMode = "stretch"
)

// Position is a named placement preset inside the frame.
type Position string

const (
	PositionCenter      Position = "center"
	PositionTop         Position = "top"
	PositionBottom      Position = "bottom"
	PositionLeft        Position = "left"
	PositionRight       Position = "right"
	PositionTopLeft     Position = "top_left"
	PositionTopRight    Position = "top_right"
	PositionBottomLeft  Position = "bottom_left"
	PositionBottomRight Position = "bottom_right"
)

// Point is an absolute frame coordinate overriding a Position preset.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Overlay is the payload attached to a timeline item. Exactly one concrete
// type exists per Kind; code branching on overlay behavior switches on the
// concrete type, never on stringly-typed fields.
type Overlay interface {
	Kind() Kind
}

// Image is a still-image payload. SourceRef is resolved by the assets
// package and may be a plain file, a "file.pdf#page=N" reference or a
// "qr:DATA" reference.
type Image struct {
	SourceRef       string        `yaml:"source_ref"`
	SourceW         int           `yaml:"source_width"`
	SourceH         int           `yaml:"source_height"`
	Scale           float64       `yaml:"scale"`
	RotationDegrees float64       `yaml:"rotation_degrees"`
	FitMode         FitMode       `yaml:"fit_mode"`
	Opacity         float64       `yaml:"opacity"`
	Position        Position      `yaml:"position"`
	Custom          *Point        `yaml:"custom_position,omitempty"`
	Animation       AnimationSpec `yaml:"animation"`
}

func (*Image) Kind() Kind { return KindImage }

// Text is a rendered-text payload.
type Text struct {
	Text            string        `yaml:"text"`
	FontRef         string        `yaml:"font_ref"`
	Size            int           `yaml:"size"`
	Color           string        `yaml:"color"`
	BackgroundColor string        `yaml:"background_color,omitempty"`
	StrokeColor     string        `yaml:"stroke_color,omitempty"`
	StrokeWidth     int           `yaml:"stroke_width,omitempty"`
	Align           string        `yaml:"align"`
	LineSpacing     float64       `yaml:"line_spacing"`
	Position        Position      `yaml:"position"`
	Custom          *Point        `yaml:"custom_position,omitempty"`
	Animation       AnimationSpec `yaml:"animation"`
}

func (*Text) Kind() Kind { return KindText }
