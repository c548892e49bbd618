// Package mapping carries role tags across the canvas document round trip.
//
// The document format does not persist custom fields, so the engine keeps a
// position-indexed side-table alongside every saved document. Extract derives
// the table from the live surface immediately before serialization; Apply
// reconstructs tags and transient UI state onto a freshly loaded surface.
// Position is the only identity the format offers: the table is valid only
// against a document whose element ordering has not changed since extraction.
package mapping

import (
	"log/slog"

	"github.com/mailcanvas/mailcanvas-server/internal/canvas"
	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/errors"
)

// ApplyResult reports what a table application restored.
type ApplyResult struct {
	// Restored is the number of entries copied onto elements.
	Restored int
	// Skipped counts entries whose index fell outside the element list - a
	// stale or corrupted table. Surfaced as a warning, not a failure.
	Skipped int
	// Markers is the number of restored semantic types. Zero markers means
	// the template cannot be personalized.
	Markers int
}

// Codec converts between live tagged surfaces and persisted mapping tables.
type Codec struct {
	logger *slog.Logger
}

// New creates a codec.
func New(logger *slog.Logger) *Codec {
	return &Codec{logger: logger}
}

// Extract walks the surface in element order and records an entry for every
// element carrying a non-zero tag, keyed by its position. Pure read; must run
// immediately before serialization, with no intervening reorder.
func (c *Codec) Extract(surface *canvas.Surface) *domain.MappingTable {
	table := &domain.MappingTable{}
	for i, el := range surface.Elements() {
		if el.Tag.IsZero() {
			continue
		}
		table.Entries = append(table.Entries, domain.MappingEntry{
			Index:   i,
			Tag:     el.Tag,
			Visible: el.Visible,
			Locked:  el.Locked,
		})
	}
	return table
}

// Apply copies table entries onto the surface's elements by position.
// Entries referencing indexes beyond the element list are skipped and
// counted; the caller surfaces the count as a MappingIndexMismatch warning.
// Restoring Locked also clears the element's interaction capabilities.
//
// If the whole table restores zero semantic markers the template is unusable
// for personalization and Apply fails with ErrTemplateMarkersMissing.
func (c *Codec) Apply(surface *canvas.Surface, table *domain.MappingTable) (ApplyResult, error) {
	if surface.Closed() {
		return ApplyResult{}, errors.ErrSurfaceUnavailable
	}

	elements := surface.Elements()
	var res ApplyResult

	for _, entry := range table.Entries {
		if entry.Index < 0 || entry.Index >= len(elements) {
			res.Skipped++
			c.logger.Warn("mapping entry references missing element",
				"index", entry.Index,
				"element_count", len(elements),
				"type", string(entry.Tag.Type),
			)
			continue
		}

		el := elements[entry.Index]
		el.Tag = entry.Tag
		el.Visible = entry.Visible
		el.SetLocked(entry.Locked)

		res.Restored++
		if entry.Tag.Type != domain.TypeNone {
			res.Markers++
		}
	}

	if res.Markers == 0 {
		return res, errors.TemplateMarkersMissing("mapping table restored no semantic markers").
			WithDetails(res)
	}

	return res, nil
}
