// Package canvas provides the design surface: an ordered element list with a
// canvas-level background, batched rendering, and an explicit lifecycle. It
// wraps the document model the way an editor wraps its drawing library; the
// rest of the engine never touches element storage directly.
package canvas

import (
	"sync"

	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/errors"
)

// RenderFunc is invoked by RenderOnce with the current document state. The
// surface batches mutations; a repaint happens only when RenderOnce is called.
type RenderFunc func(doc *domain.DesignDocument) error

// Surface is one live design canvas. It is owned by exactly one session and
// torn down with Close when the session ends. All operations on a closed
// surface fail with ErrSurfaceUnavailable.
//
// Element ordering is stable: Elements, Serialize, and the mapping codec all
// observe the same order.
type Surface struct {
	mu sync.Mutex

	width    float64
	height   float64
	bg       *domain.BackgroundRef
	elements []*domain.Element

	// zoom is a view-only transform; persisted coordinates are always at
	// native scale.
	zoom float64

	// selected is the active selection index, or -1.
	selected int

	render  RenderFunc
	renders int

	// pending is set by mutations and RequestRender, and cleared by the
	// next RenderOnce. Repaint requests coalesce.
	pending bool

	closed bool
}

// New creates a surface with the given canvas dimensions.
func New(width, height float64) *Surface {
	return &Surface{
		width:    width,
		height:   height,
		zoom:     1,
		selected: -1,
	}
}

// OnRender installs the repaint hook.
func (s *Surface) OnRender(fn RenderFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.render = fn
}

// Size returns the canvas dimensions.
func (s *Surface) Size() (width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Closed reports whether the surface has been torn down.
func (s *Surface) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close tears the surface down. Idempotent. In-flight continuations must
// re-check liveness before mutating.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.elements = nil
	s.bg = nil
	s.render = nil
}

// Add appends an element to the top of the stack.
func (s *Surface) Add(el *domain.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrSurfaceUnavailable
	}
	s.elements = append(s.elements, el)
	s.pending = true
	return nil
}

// InsertAt places an element at a specific stack position, preserving the
// order of everything around it. Used by the QR swap so the replacement keeps
// the original's document position.
func (s *Surface) InsertAt(index int, el *domain.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrSurfaceUnavailable
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.elements) {
		index = len(s.elements)
	}
	s.elements = append(s.elements, nil)
	copy(s.elements[index+1:], s.elements[index:])
	s.elements[index] = el
	s.pending = true
	return nil
}

// Remove deletes an element from the surface. Removing an element that is not
// present is a no-op.
func (s *Surface) Remove(el *domain.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrSurfaceUnavailable
	}
	for i, e := range s.elements {
		if e == el {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			if s.selected == i {
				s.selected = -1
			}
			s.pending = true
			return nil
		}
	}
	return nil
}

// IndexOf returns the stack position of an element, or -1.
func (s *Surface) IndexOf(el *domain.Element) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.elements {
		if e == el {
			return i
		}
	}
	return -1
}

// Elements returns the elements in stack order. The returned slice is a copy;
// the elements themselves are live.
func (s *Surface) Elements() []*domain.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// Len returns the element count.
func (s *Surface) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.elements)
}

// SetBackground replaces the canvas-level background. The background is a
// canvas property, not an element, and never appears in the element list.
func (s *Surface) SetBackground(bg *domain.BackgroundRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrSurfaceUnavailable
	}
	s.bg = bg
	s.pending = true
	return nil
}

// Background returns the current canvas background, or nil.
func (s *Surface) Background() *domain.BackgroundRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bg
}

// Clear removes every element, the background, and the selection. The surface
// stays live and keeps its dimensions.
func (s *Surface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrSurfaceUnavailable
	}
	s.elements = nil
	s.bg = nil
	s.selected = -1
	s.pending = true
	return nil
}

// Select marks an element as the active selection.
func (s *Surface) Select(el *domain.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.elements {
		if e == el {
			s.selected = i
			return
		}
	}
}

// ClearSelection discards the active selection. Called before save so
// selection chrome never distorts serialized geometry.
func (s *Surface) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = -1
}

// Selected returns the active selection, or nil.
func (s *Surface) Selected() *domain.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 || s.selected >= len(s.elements) {
		return nil
	}
	return s.elements[s.selected]
}

// SetZoom applies a view-only zoom transform.
func (s *Surface) SetZoom(zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if zoom > 0 {
		s.zoom = zoom
	}
}

// Zoom returns the current view zoom.
func (s *Surface) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

// ResetZoom restores native scale. Called before save so persisted
// coordinates are never zoom-distorted.
func (s *Surface) ResetZoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = 1
}

// Serialize snapshots the surface into a design document. Tags and
// interaction flags are not part of the document; callers that need them
// persisted must extract a mapping table first, against this same ordering.
func (s *Surface) Serialize() (*domain.DesignDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.ErrSurfaceUnavailable
	}

	doc := &domain.DesignDocument{
		Width:    s.width,
		Height:   s.height,
		Elements: make([]domain.ElementState, len(s.elements)),
	}
	if s.bg != nil {
		bg := *s.bg
		doc.Background = &bg
	}
	for i, el := range s.elements {
		doc.Elements[i] = el.State()
	}
	return doc, nil
}

// Load replaces the surface contents with a deserialized document. Elements
// come back with default interaction state and zero tags; the mapping codec
// restores both.
func (s *Surface) Load(doc *domain.DesignDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrSurfaceUnavailable
	}

	s.width = doc.Width
	s.height = doc.Height
	s.selected = -1
	if doc.Background != nil {
		bg := *doc.Background
		s.bg = &bg
	} else {
		s.bg = nil
	}
	s.elements = make([]*domain.Element, len(doc.Elements))
	for i, state := range doc.Elements {
		s.elements[i] = domain.FromState(state)
	}
	s.pending = true
	return nil
}

// RequestRender marks the surface as needing a repaint, without repainting.
// Requests coalesce; the next RenderOnce performs a single repaint. Callers
// that mutate elements directly (text substitution) use this to schedule the
// batched repaint.
func (s *Surface) RequestRender() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = true
}

// RenderOnce flushes pending repaint work with exactly one repaint. It is the
// only operation that repaints; with nothing pending it is a no-op.
func (s *Surface) RenderOnce() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.ErrSurfaceUnavailable
	}
	if !s.pending {
		s.mu.Unlock()
		return nil
	}
	s.pending = false
	render := s.render
	s.renders++
	s.mu.Unlock()

	if render == nil {
		return nil
	}

	doc, err := s.Serialize()
	if err != nil {
		return err
	}
	return render(doc)
}

// RenderCount returns how many repaints have happened. Exists so tests can
// assert the one-render-per-pass contract.
func (s *Surface) RenderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}
