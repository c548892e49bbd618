package service

import (
	"context"
	"sync"

	"github.com/mailcanvas/mailcanvas-server/internal/assets"
	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/errors"
	"github.com/mailcanvas/mailcanvas-server/internal/layout"
)

// Fresh-build placement, as fractions of the canvas size.
const (
	marginFrac   = 0.05
	logoBoxFrac  = 0.18 // logo box edge, fraction of canvas width
	qrFrac       = 0.15 // QR edge, fraction of the smaller canvas dimension
	messageFontPt = 28.0
	fieldFontPt   = 18.0
)

// BuildFresh constructs a new design directly from the session data: cover-
// fit background, then the standard personalization fields, each tagged as it
// is placed. Ends with exactly one render. Asset failures degrade the
// affected element and are counted on the report; they never abort the build.
func (s *Session) BuildFresh(ctx context.Context, data *domain.SessionData) (*PassReport, error) {
	if err := s.validate.Validate(data); err != nil {
		return nil, err
	}

	passCtx, cancel, err := s.beginPass(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer s.endPass()

	report := &PassReport{}

	// Fetch every image up front, concurrently. Each fetch fails
	// independently without cancelling its siblings.
	var (
		mu      sync.Mutex
		bgAsset *assets.Asset
		logoAsset *assets.Asset
		qrAsset *assets.Asset
		wg      sync.WaitGroup
	)
	fetchInto := func(ref, what string, dst **assets.Asset) {
		if ref == "" {
			return
		}
		wg.Go(func() {
			asset, err := s.fetcher.Fetch(passCtx, ref)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.AssetFailures++
				s.logger.Warn("asset fetch failed", "what", what, "error", err)
				return
			}
			*dst = asset
		})
	}
	fetchInto(data.BackgroundRef, "background", &bgAsset)
	fetchInto(data.Branding.LogoRef, "logo", &logoAsset)
	fetchInto(data.Recipient.QRImageRef, "qr", &qrAsset)
	wg.Wait()

	// The surface may have been torn down while fetches were in flight.
	if s.surface.Closed() {
		return nil, errors.ErrSurfaceUnavailable
	}

	w, h := data.CanvasWidth, data.CanvasHeight
	margin := w * marginFrac

	if bgAsset != nil {
		placement, err := layout.Cover(float64(bgAsset.Width), float64(bgAsset.Height), w, h)
		if err != nil {
			report.AssetFailures++
			s.logger.Warn("background placement failed", "error", err)
		} else if err := s.surface.SetBackground(&domain.BackgroundRef{
			ImageRef: bgAsset.Ref,
			Scale:    placement.Scale,
			OffsetX:  placement.OffsetX,
			OffsetY:  placement.OffsetY,
		}); err != nil {
			return nil, err
		}
	}

	if logoAsset != nil {
		box := w * logoBoxFrac
		placement, err := layout.Cover(float64(logoAsset.Width), float64(logoAsset.Height), box, box)
		if err != nil {
			report.AssetFailures++
			s.logger.Warn("logo placement failed", "error", err)
		} else {
			logo := &domain.Element{
				Kind:       domain.KindImage,
				ImageRef:   logoAsset.Ref,
				Left:       margin,
				Top:        margin,
				Width:      float64(logoAsset.Width),
				Height:     float64(logoAsset.Height),
				ScaleX:     placement.Scale,
				ScaleY:     placement.Scale,
				Visible:    true,
				Selectable: true,
				Movable:    true,
				Tag:        domain.NewTag(domain.TypeLogo, true),
			}
			if err := s.surface.Add(logo); err != nil {
				return nil, err
			}
		}
	}

	fields := []struct {
		text     string
		topFrac  float64
		fontSize float64
		semType  domain.SemanticType
	}{
		{data.Recipient.Message, 0.55, messageFontPt, domain.TypeMessage},
		{data.Recipient.FullName(), 0.70, fieldFontPt, domain.TypeRecipientName},
		{data.Recipient.AddressLine(), 0.78, fieldFontPt, domain.TypeRecipientAddress},
		{data.Recipient.FormattedPhone(), 0.86, fieldFontPt, domain.TypePhoneNumber},
	}
	for _, f := range fields {
		el := newTextElement(f.text, margin, h*f.topFrac, w*0.5, f.fontSize)
		el.Tag = domain.NewTag(f.semType, false)
		if err := s.surface.Add(el); err != nil {
			return nil, err
		}
	}

	if qrAsset != nil {
		qrEdge := min(w, h) * qrFrac
		scale, err := layout.MatchFootprint(layout.Footprint{Size: qrEdge}, float64(qrAsset.Width))
		if err != nil {
			report.AssetFailures++
			s.logger.Warn("qr placement failed", "error", err)
		} else {
			qr := &domain.Element{
				Kind:       domain.KindImage,
				ImageRef:   qrAsset.Ref,
				Left:       w - margin - qrEdge,
				Top:        h - margin - qrEdge,
				Width:      float64(qrAsset.Width),
				Height:     float64(qrAsset.Height),
				ScaleX:     scale,
				ScaleY:     scale,
				Visible:    true,
				Selectable: true,
				Movable:    true,
				Tag:        domain.NewTag(domain.TypeQRCode, false),
			}
			if err := s.surface.Add(qr); err != nil {
				return nil, err
			}
		}
	}

	if err := s.surface.RenderOnce(); err != nil {
		return nil, err
	}

	s.logger.Info("built fresh design",
		"elements", s.surface.Len(),
		"asset_failures", report.AssetFailures,
	)
	return report, nil
}

func newTextElement(text string, left, top, width, fontSize float64) *domain.Element {
	return &domain.Element{
		Kind:       domain.KindText,
		Text:       text,
		Left:       left,
		Top:        top,
		Width:      width,
		Height:     fontSize * 1.3,
		ScaleX:     1,
		ScaleY:     1,
		FontSize:   fontSize,
		Color:      "#202020",
		Visible:    true,
		Selectable: true,
		Movable:    true,
	}
}
