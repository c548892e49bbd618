package service

import (
	"context"
	"sync"

	"github.com/mailcanvas/mailcanvas-server/internal/assets"
	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/errors"
	"github.com/mailcanvas/mailcanvas-server/internal/layout"
)

// PassReport accumulates the warnings of one personalization pass. Element-
// local failures are counted here instead of surfacing per-element noise to
// the user; session-level failures come back as the pass error.
type PassReport struct {
	// Substituted counts elements whose content was replaced.
	Substituted int
	// AssetFailures counts image fetches/decodes that failed.
	AssetFailures int
	// SkippedUnknown counts tagged elements with an unrecognized semantic
	// type, skipped for forward compatibility.
	SkippedUnknown int
}

// qrSwap is one pending QR replacement: the old element's document position
// and footprint, and the fetched replacement.
type qrSwap struct {
	old   *domain.Element
	asset *assets.Asset
}

// PersonalizeCurrent runs one substitution pass over the loaded design for a
// single recipient. Reusable elements are preserved verbatim; variable
// elements are dispatched by semantic type. Image work (background, QR) is
// fetched concurrently and joined before the single terminal render.
//
// If the surface is torn down after the pass begins, the whole pass fails
// with ErrSurfaceUnavailable: a half-applied personalization is never
// rendered or saved.
func (s *Session) PersonalizeCurrent(ctx context.Context, recipient *domain.Recipient) (*PassReport, error) {
	passCtx, cancel, err := s.beginPass(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer s.endPass()

	if s.surface.Closed() {
		return nil, errors.ErrSurfaceUnavailable
	}

	report := &PassReport{}

	// Stage 1: issue all asset fetches concurrently. Failures are
	// independent; one bad image never cancels its siblings.
	var (
		mu      sync.Mutex
		bgAsset *assets.Asset
		swaps   []qrSwap
		wg      sync.WaitGroup
	)

	if recipient.BackgroundRef != "" {
		wg.Go(func() {
			asset, err := s.fetcher.Fetch(passCtx, recipient.BackgroundRef)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.AssetFailures++
				s.logger.Warn("background fetch failed", "error", err)
				return
			}
			bgAsset = asset
		})
	}

	for _, el := range s.surface.Elements() {
		if el.Tag.Type != domain.TypeQRCode || el.Tag.Reusable {
			continue
		}
		if el.Kind != domain.KindImage {
			report.SkippedUnknown++
			s.logger.Warn("qr tag on non-image element, skipping")
			continue
		}
		if recipient.QRImageRef == "" {
			continue
		}
		wg.Go(func() {
			asset, err := s.fetcher.Fetch(passCtx, recipient.QRImageRef)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.AssetFailures++
				s.logger.Warn("qr fetch failed", "error", err)
				return
			}
			swaps = append(swaps, qrSwap{old: el, asset: asset})
		})
	}

	wg.Wait()

	// Continuations must not mutate a surface the user has navigated away
	// from; by this point the pass is half-applied, so a dead surface fails
	// the whole pass.
	if s.surface.Closed() {
		return nil, errors.ErrSurfaceUnavailable
	}

	// Stage 2: canvas-level background replacement.
	if bgAsset != nil {
		w, h := s.surface.Size()
		placement, perr := layout.Cover(float64(bgAsset.Width), float64(bgAsset.Height), w, h)
		if perr != nil {
			report.AssetFailures++
			s.logger.Warn("background placement failed", "error", perr)
		} else if err := s.surface.SetBackground(&domain.BackgroundRef{
			ImageRef: bgAsset.Ref,
			Scale:    placement.Scale,
			OffsetX:  placement.OffsetX,
			OffsetY:  placement.OffsetY,
		}); err != nil {
			return nil, err
		} else {
			report.Substituted++
		}
	}

	// Stage 3: per-element text substitution, in document order. Text writes
	// bypass the surface mutators, so a repaint is requested explicitly.
	textChanged := false
	for _, el := range s.surface.Elements() {
		if el.Tag.Type == domain.TypeNone {
			continue // untagged decoration
		}
		if el.Tag.Reusable {
			continue // preserved verbatim for every recipient
		}

		switch el.Tag.Type {
		case domain.TypeMessage:
			el.Text = recipient.Message
			textChanged = true
			report.Substituted++
		case domain.TypeRecipientName:
			el.Text = recipient.FullName()
			textChanged = true
			report.Substituted++
		case domain.TypeRecipientAddress:
			el.Text = recipient.AddressLine()
			textChanged = true
			report.Substituted++
		case domain.TypePhoneNumber:
			el.Text = recipient.FormattedPhone()
			textChanged = true
			report.Substituted++
		case domain.TypeQRCode:
			// Swapped in stage 4.
		case domain.TypeLogo:
			// A logo is never substituted, even when its reusable flag
			// was lost.
		case domain.TypeBackgroundImage:
			// Canvas-level, handled in stage 2.
		default:
			report.SkippedUnknown++
			s.logger.Info("unrecognized semantic type, skipping",
				"type", string(el.Tag.Type),
			)
		}
	}

	if textChanged {
		s.surface.RequestRender()
	}

	// Stage 4: QR swaps. The replacement takes the old element's document
	// position, rotation, and exact square footprint.
	for _, swap := range swaps {
		if err := s.applyQRSwap(swap, recipient, report); err != nil {
			return nil, err
		}
	}

	// Exactly one repaint per pass.
	if err := s.surface.RenderOnce(); err != nil {
		return nil, err
	}

	s.logger.Info("personalized design",
		"recipient", recipient.FullName(),
		"substituted", report.Substituted,
		"asset_failures", report.AssetFailures,
		"skipped_unknown", report.SkippedUnknown,
	)
	return report, nil
}

func (s *Session) applyQRSwap(swap qrSwap, recipient *domain.Recipient, report *PassReport) error {
	index := s.surface.IndexOf(swap.old)
	if index < 0 {
		// The element vanished between fetch and apply; nothing to replace.
		report.AssetFailures++
		return nil
	}

	footprint := layout.ElementFootprint(swap.old.Width, swap.old.Height, swap.old.ScaleX, swap.old.ScaleY)
	scale, err := layout.MatchFootprint(footprint, float64(swap.asset.Width))
	if err != nil {
		report.AssetFailures++
		s.logger.Warn("qr footprint derivation failed", "error", err)
		return nil
	}

	replacement := &domain.Element{
		Kind:       domain.KindImage,
		ImageRef:   recipient.QRImageRef,
		Left:       swap.old.Left,
		Top:        swap.old.Top,
		Angle:      swap.old.Angle,
		Width:      float64(swap.asset.Width),
		Height:     float64(swap.asset.Width), // QR codes are square by construction
		ScaleX:     scale,
		ScaleY:     scale,
		Visible:    swap.old.Visible,
		Selectable: swap.old.Selectable,
		Movable:    swap.old.Movable,
		Tag:        domain.NewTag(domain.TypeQRCode, false),
	}

	if err := s.surface.Remove(swap.old); err != nil {
		return err
	}
	if err := s.surface.InsertAt(index, replacement); err != nil {
		return err
	}
	report.Substituted++
	return nil
}
