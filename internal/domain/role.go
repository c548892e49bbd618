package domain

// Category is a coarse grouping for custom elements. Standard fields carry no
// category.
type Category string

// Categories for user-added elements.
const (
	CategoryNone        Category = ""
	CategoryCustomShape Category = "custom-shape"
	CategoryCustomImage Category = "custom-image"
)

// RoleTag is the semantic metadata attached to a design element. The canvas
// document format does not persist it; the mapping codec carries it across
// save/reload instead.
type RoleTag struct {
	// Type drives the personalization dispatch. Empty means untagged.
	Type SemanticType `json:"type,omitempty"`

	// Reusable marks content that is never substituted per recipient, such as
	// a logo or fixed decoration.
	Reusable bool `json:"reusable,omitempty"`

	// DisplayName is the human label shown in the layer list. User-editable
	// for custom elements only.
	DisplayName string `json:"displayName,omitempty"`

	// Category groups custom elements for the editor's layer panel.
	Category Category `json:"category,omitempty"`

	// Payload holds per-category data the canvas format cannot round-trip on
	// its own: the original upload reference for custom images, fill/stroke
	// parameters for custom shapes.
	Payload map[string]any `json:"payload,omitempty"`
}

// IsZero reports whether the tag carries no information at all. Untagged
// elements (plain decoration the user never named) hold a zero tag and are
// excluded from the mapping table.
func (rt RoleTag) IsZero() bool {
	return rt.Type == TypeNone && !rt.Reusable && rt.DisplayName == "" &&
		rt.Category == CategoryNone && len(rt.Payload) == 0
}

// Substitutable reports whether the personalization pass may replace this
// element's content.
func (rt RoleTag) Substitutable() bool {
	return !rt.Reusable && rt.Type != TypeNone
}

// NewTag builds a tag for a standard semantic field with its fixed label.
func NewTag(t SemanticType, reusable bool) RoleTag {
	return RoleTag{
		Type:        t,
		Reusable:    reusable,
		DisplayName: t.DefaultDisplayName(),
	}
}
