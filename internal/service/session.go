// Package service provides the business logic of the personalization engine:
// the session orchestrator that builds, loads, personalizes, and saves
// designs, and the per-recipient substitution pass.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mailcanvas/mailcanvas-server/internal/assets"
	"github.com/mailcanvas/mailcanvas-server/internal/canvas"
	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/errors"
	"github.com/mailcanvas/mailcanvas-server/internal/id"
	"github.com/mailcanvas/mailcanvas-server/internal/mapping"
	"github.com/mailcanvas/mailcanvas-server/internal/validation"
)

// AssetFetcher fetches and decodes images. Implemented by assets.Fetcher.
type AssetFetcher interface {
	Fetch(ctx context.Context, ref string) (*assets.Asset, error)
}

// TemplateStore persists and retrieves templates. Implemented by store.Store.
type TemplateStore interface {
	GetTemplate(tplID string) (*domain.Template, error)
	SaveTemplate(tpl *domain.Template) error
}

// Previewer renders a document to PNG bytes for the saved artifact.
type Previewer interface {
	RenderPNG(ctx context.Context, doc *domain.DesignDocument) ([]byte, error)
}

// SaveResult is the artifact bundle produced by Save. Document and mapping
// table travel together; they are never persisted separately.
type SaveResult struct {
	TemplateID   string
	DocumentJSON []byte
	MappingJSON  []byte
	Preview      []byte
}

// LoadReport describes how a template-load session started.
type LoadReport struct {
	// UsedFallback is true when the template could not drive personalization
	// and the design was rebuilt from the session data instead.
	UsedFallback bool
	// Apply is the mapping restoration outcome (zero value when fallback).
	Apply mapping.ApplyResult
	// Pass is the personalization outcome.
	Pass *PassReport
}

// Session owns one design surface and its mapping table for the duration of
// one editing/personalization session. It never shares a live document across
// recipients: a new pass for a new recipient starts from a fresh load.
type Session struct {
	ID string

	surface   *canvas.Surface
	codec     *mapping.Codec
	fetcher   AssetFetcher
	templates TemplateStore
	previewer Previewer
	validate  *validation.Validator
	logger    *slog.Logger

	mu         sync.Mutex
	templateID string
	name       string
	passCancel context.CancelFunc
	closed     bool
}

// NewSession creates a session around an explicitly owned surface handle.
// The caller tears the session down with Close when the editor navigates
// away.
func NewSession(
	surface *canvas.Surface,
	fetcher AssetFetcher,
	templates TemplateStore,
	previewer Previewer,
	logger *slog.Logger,
) *Session {
	sessionID := uuid.NewString()
	return &Session{
		ID:        sessionID,
		surface:   surface,
		codec:     mapping.New(logger),
		fetcher:   fetcher,
		templates: templates,
		previewer: previewer,
		validate:  validation.New(),
		logger:    logger.With("session_id", sessionID),
	}
}

// Surface exposes the owned surface for editor chrome (selection, zoom).
func (s *Session) Surface() *canvas.Surface {
	return s.surface
}

// SetName names the design for the next Save.
func (s *Session) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// Close tears the session down: the surface dies and in-flight substitution
// work is cancelled. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	cancel := s.passCancel
	s.passCancel = nil
	s.closed = true
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.surface.Close()
	s.logger.Debug("session closed")
}

// beginPass opens a cancellable scope for one personalization pass so Close
// can abort its in-flight fetches.
func (s *Session) beginPass(ctx context.Context) (context.Context, context.CancelFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, nil, errors.ErrSurfaceUnavailable
	}
	passCtx, cancel := context.WithCancel(ctx)
	s.passCancel = cancel
	return passCtx, cancel, nil
}

func (s *Session) endPass() {
	s.mu.Lock()
	s.passCancel = nil
	s.mu.Unlock()
}

// LoadFromTemplate starts the session from a saved template and personalizes
// it for the session's recipient. If the template cannot be fetched, or it
// restores no semantic markers, the session falls back to building the design
// fresh from the session data so the user still gets a working design.
func (s *Session) LoadFromTemplate(ctx context.Context, tplID string, data *domain.SessionData) (*LoadReport, error) {
	if err := s.validate.Validate(data); err != nil {
		return nil, err
	}

	tpl, err := s.templates.GetTemplate(tplID)
	if err != nil {
		s.logger.Warn("template fetch failed, building fresh design",
			"template_id", tplID,
			"error", err,
		)
		return s.fallbackToFresh(ctx, data)
	}

	doc, err := domain.UnmarshalDocument(tpl.DocumentJSON)
	if err != nil {
		s.logger.Warn("template document unreadable, building fresh design",
			"template_id", tplID,
			"error", err,
		)
		return s.fallbackToFresh(ctx, data)
	}
	table, err := domain.UnmarshalMappingTable(tpl.MappingJSON)
	if err != nil {
		s.logger.Warn("template mapping table unreadable, building fresh design",
			"template_id", tplID,
			"error", err,
		)
		return s.fallbackToFresh(ctx, data)
	}

	if err := s.surface.Load(doc); err != nil {
		return nil, err
	}

	applied, err := s.codec.Apply(s.surface, table)
	if err != nil {
		if errors.Is(err, errors.ErrTemplateMarkersMissing) {
			s.logger.Warn("template markers missing, building fresh design",
				"template_id", tplID,
				"skipped", applied.Skipped,
			)
			return s.fallbackToFresh(ctx, data)
		}
		return nil, err
	}
	if applied.Skipped > 0 {
		s.logger.Warn("mapping table partially stale",
			"template_id", tplID,
			"restored", applied.Restored,
			"skipped", applied.Skipped,
		)
	}

	s.mu.Lock()
	s.templateID = tplID
	s.name = tpl.Name
	s.mu.Unlock()

	pass, err := s.PersonalizeCurrent(ctx, &data.Recipient)
	if err != nil {
		return nil, err
	}

	return &LoadReport{Apply: applied, Pass: pass}, nil
}

func (s *Session) fallbackToFresh(ctx context.Context, data *domain.SessionData) (*LoadReport, error) {
	// The surface may hold a partially loaded template by now.
	if err := s.surface.Clear(); err != nil {
		return nil, err
	}
	pass, err := s.BuildFresh(ctx, data)
	if err != nil {
		return nil, err
	}
	return &LoadReport{UsedFallback: true, Pass: pass}, nil
}

// Save persists the current design and its regenerated mapping table as one
// atomic unit, together with a rendered preview. Selection and zoom state are
// discarded first so persisted geometry is at native scale.
func (s *Session) Save(ctx context.Context) (*SaveResult, error) {
	if s.surface.Closed() {
		return nil, errors.ErrSurfaceUnavailable
	}

	// UI state must never leak into the artifact.
	s.surface.ClearSelection()
	s.surface.ResetZoom()

	// Extract immediately before serialization: the table is position-keyed
	// and valid only against this exact element ordering.
	table := s.codec.Extract(s.surface)
	doc, err := s.surface.Serialize()
	if err != nil {
		return nil, err
	}

	docJSON, err := domain.MarshalDocument(doc)
	if err != nil {
		return nil, err
	}
	tableJSON, err := domain.MarshalMappingTable(table)
	if err != nil {
		return nil, err
	}

	preview, err := s.previewer.RenderPNG(ctx, doc)
	if err != nil {
		// A missing preview never blocks persisting the design itself.
		s.logger.Warn("preview render failed", "error", err)
		preview = nil
	}

	s.mu.Lock()
	if s.templateID == "" {
		s.templateID = id.MustGenerate(id.PrefixTemplate)
	}
	tplID := s.templateID
	name := s.name
	s.mu.Unlock()

	tpl := &domain.Template{
		ID:           tplID,
		Name:         name,
		DocumentJSON: docJSON,
		MappingJSON:  tableJSON,
		Preview:      preview,
	}
	if err := s.templates.SaveTemplate(tpl); err != nil {
		return nil, err
	}

	s.logger.Info("design saved",
		"template_id", tplID,
		"elements", len(doc.Elements),
		"mapped", len(table.Entries),
	)

	return &SaveResult{
		TemplateID:   tplID,
		DocumentJSON: docJSON,
		MappingJSON:  tableJSON,
		Preview:      preview,
	}, nil
}
