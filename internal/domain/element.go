package domain

// ElementKind is the concrete kind of a design element.
type ElementKind string

// Element kinds.
const (
	KindText  ElementKind = "text"
	KindImage ElementKind = "image"
	KindShape ElementKind = "shape"
)

// Element is one live object on the design surface. Geometry follows the
// canvas convention: Width/Height are the natural (unscaled) size and
// ScaleX/ScaleY turn them into the displayed footprint.
type Element struct {
	Kind ElementKind

	Left   float64
	Top    float64
	Width  float64
	Height float64
	ScaleX float64
	ScaleY float64
	Angle  float64

	// Text content, for KindText.
	Text     string
	FontSize float64
	FontFam  string
	Color    string

	// Image reference (URL or data URI), for KindImage.
	ImageRef string

	// Shape styling, for KindShape.
	Fill        string
	Stroke      string
	StrokeWidth float64

	// Interaction state. The document format does not persist these; the
	// mapping table restores Visible/Locked, and Locked implies
	// non-selectable, non-movable.
	Visible    bool
	Locked     bool
	Selectable bool
	Movable    bool

	// Tag is the semantic role. Lives only in memory; carried across
	// serialization by the mapping codec.
	Tag RoleTag
}

// DisplayWidth returns the on-canvas width after scaling.
func (e *Element) DisplayWidth() float64 {
	return e.Width * e.ScaleX
}

// DisplayHeight returns the on-canvas height after scaling.
func (e *Element) DisplayHeight() float64 {
	return e.Height * e.ScaleY
}

// SetLocked toggles the lock state together with the interaction flags a
// locked element must lose.
func (e *Element) SetLocked(locked bool) {
	e.Locked = locked
	e.Selectable = !locked
	e.Movable = !locked
}

// State snapshots the element into its serializable form. The role tag and
// interaction flags are deliberately absent: that is the format gap the
// mapping codec exists to bridge.
func (e *Element) State() ElementState {
	return ElementState{
		Kind:        e.Kind,
		Left:        e.Left,
		Top:         e.Top,
		Width:       e.Width,
		Height:      e.Height,
		ScaleX:      e.ScaleX,
		ScaleY:      e.ScaleY,
		Angle:       e.Angle,
		Text:        e.Text,
		FontSize:    e.FontSize,
		FontFam:     e.FontFam,
		Color:       e.Color,
		ImageRef:    e.ImageRef,
		Fill:        e.Fill,
		Stroke:      e.Stroke,
		StrokeWidth: e.StrokeWidth,
	}
}

// FromState rebuilds a live element from its serialized form. Interaction
// flags reset to their defaults; the mapping codec reapplies the persisted
// ones afterwards.
func FromState(s ElementState) *Element {
	return &Element{
		Kind:        s.Kind,
		Left:        s.Left,
		Top:         s.Top,
		Width:       s.Width,
		Height:      s.Height,
		ScaleX:      s.ScaleX,
		ScaleY:      s.ScaleY,
		Angle:       s.Angle,
		Text:        s.Text,
		FontSize:    s.FontSize,
		FontFam:     s.FontFam,
		Color:       s.Color,
		ImageRef:    s.ImageRef,
		Fill:        s.Fill,
		Stroke:      s.Stroke,
		StrokeWidth: s.StrokeWidth,
		Visible:     true,
		Selectable:  true,
		Movable:     true,
	}
}
