package domain

import (
	"encoding/json/v2"
	"fmt"
)

// ElementState is the serialized shape of one element, mirroring what the
// canvas format actually persists. Role tags and interaction flags are not
// part of it.
type ElementState struct {
	Kind        ElementKind `json:"kind"`
	Left        float64     `json:"left"`
	Top         float64     `json:"top"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	ScaleX      float64     `json:"scaleX"`
	ScaleY      float64     `json:"scaleY"`
	Angle       float64     `json:"angle,omitempty"`
	Text        string      `json:"text,omitempty"`
	FontSize    float64     `json:"fontSize,omitempty"`
	FontFam     string      `json:"fontFamily,omitempty"`
	Color       string      `json:"color,omitempty"`
	ImageRef    string      `json:"imageRef,omitempty"`
	Fill        string      `json:"fill,omitempty"`
	Stroke      string      `json:"stroke,omitempty"`
	StrokeWidth float64     `json:"strokeWidth,omitempty"`
}

// BackgroundRef describes the canvas-level background image and its cover-fit
// placement. The background is a canvas property, not a regular element.
type BackgroundRef struct {
	ImageRef string  `json:"imageRef"`
	Scale    float64 `json:"scale"`
	OffsetX  float64 `json:"offsetX"`
	OffsetY  float64 `json:"offsetY"`
}

// DesignDocument is the serialized canvas state: dimensions, background, and
// the ordered element list. Element ordering is load-bearing - the mapping
// table is keyed by position in this list.
type DesignDocument struct {
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Background *BackgroundRef `json:"background,omitempty"`
	Elements   []ElementState `json:"elements"`
}

// MarshalDocument serializes a document to JSON.
func MarshalDocument(doc *DesignDocument) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal design document: %w", err)
	}
	return data, nil
}

// UnmarshalDocument parses a serialized document.
func UnmarshalDocument(data []byte) (*DesignDocument, error) {
	var doc DesignDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal design document: %w", err)
	}
	return &doc, nil
}
