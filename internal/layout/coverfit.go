// Package layout provides the pure geometry math for placing images on the
// design surface: cover-fit scaling for backgrounds and logos, and the
// footprint-matching variant used when swapping QR codes.
package layout

import (
	"fmt"
	"math"
)

// Placement is a uniform scale plus a centering offset. Offsets are expressed
// in target coordinates; the caller's surface clips any overflow.
type Placement struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Cover computes the uniform scale and centering offsets so content of
// arbitrary aspect ratio fully covers the target rectangle without
// distortion, analogous to CSS background-size: cover.
//
// The returned scale satisfies contentW*scale >= targetW and
// contentH*scale >= targetH, with equality on at least one axis. Off-axis
// offsets are never positive.
func Cover(contentW, contentH, targetW, targetH float64) (Placement, error) {
	if contentW <= 0 || contentH <= 0 {
		return Placement{}, fmt.Errorf("content dimensions must be positive, got %gx%g", contentW, contentH)
	}
	if targetW <= 0 || targetH <= 0 {
		return Placement{}, fmt.Errorf("target dimensions must be positive, got %gx%g", targetW, targetH)
	}

	scale := math.Max(targetW/contentW, targetH/contentH)
	return Placement{
		Scale:   scale,
		OffsetX: (targetW - contentW*scale) / 2,
		OffsetY: (targetH - contentH*scale) / 2,
	}, nil
}

// Footprint is the displayed size an element occupies on the canvas.
type Footprint struct {
	Size float64 // displayed edge length; QR codes are treated as square
}

// ElementFootprint derives the square footprint of an existing element from
// its natural size and scale. The smaller scaled edge wins, forcing square
// treatment regardless of how the source image was cropped.
func ElementFootprint(naturalW, naturalH, scaleX, scaleY float64) Footprint {
	return Footprint{Size: math.Min(naturalW*scaleX, naturalH*scaleY)}
}

// MatchFootprint computes the scale a replacement image needs so that it
// occupies exactly the same square footprint as the element it replaces,
// regardless of the replacement's native resolution.
func MatchFootprint(old Footprint, newNaturalSize float64) (float64, error) {
	if newNaturalSize <= 0 {
		return 0, fmt.Errorf("replacement natural size must be positive, got %g", newNaturalSize)
	}
	if old.Size <= 0 {
		return 0, fmt.Errorf("old footprint must be positive, got %g", old.Size)
	}
	return old.Size / newNaturalSize, nil
}
