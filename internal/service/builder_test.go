package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/errors"
)

func TestBuildFresh_PlacesAndTagsEverything(t *testing.T) {
	fx := newFixture(t)
	data := testSessionData(fx.fetcher)

	report, err := fx.session.BuildFresh(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 0, report.AssetFailures)

	// Background is a canvas property with cover-fit placement: a 3000x1000
	// image on a 1500x1050 canvas scales by 1.05 and centers horizontally.
	bg := fx.surface.Background()
	require.NotNil(t, bg)
	assert.InDelta(t, 1.05, bg.Scale, 1e-9)
	assert.InDelta(t, (1500-3000*1.05)/2, bg.OffsetX, 1e-9)
	assert.InDelta(t, 0, bg.OffsetY, 1e-9)

	logo := elementByType(t, fx.surface, domain.TypeLogo)
	assert.True(t, logo.Tag.Reusable)
	assert.Equal(t, domain.KindImage, logo.Kind)

	assert.Equal(t, "Hello!", elementByType(t, fx.surface, domain.TypeMessage).Text)
	assert.Equal(t, "Jane Doe", elementByType(t, fx.surface, domain.TypeRecipientName).Text)
	assert.Equal(t, "12 Main St, Springfield, 62704", elementByType(t, fx.surface, domain.TypeRecipientAddress).Text)
	assert.Equal(t, "(555) 123-4567", elementByType(t, fx.surface, domain.TypePhoneNumber).Text)

	qr := elementByType(t, fx.surface, domain.TypeQRCode)
	assert.False(t, qr.Tag.Reusable)
	// QR occupies a square footprint of 15% of the smaller canvas edge.
	assert.InDelta(t, 1050*0.15, qr.DisplayWidth(), 1e-9)
	assert.InDelta(t, qr.DisplayWidth(), qr.DisplayHeight(), 1e-9)

	// Exactly one render for the whole build.
	assert.Equal(t, 1, fx.surface.RenderCount())
}

func TestBuildFresh_AssetFailureDegradesElementOnly(t *testing.T) {
	fx := newFixture(t)
	data := testSessionData(fx.fetcher)
	fx.fetcher.fail("https://assets.test/logo.png")

	report, err := fx.session.BuildFresh(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, report.AssetFailures)

	// No logo element, but everything else landed.
	for _, el := range fx.surface.Elements() {
		assert.NotEqual(t, domain.TypeLogo, el.Tag.Type)
	}
	assert.NotNil(t, fx.surface.Background())
	assert.Equal(t, "Hello!", elementByType(t, fx.surface, domain.TypeMessage).Text)
	assert.Equal(t, 1, fx.surface.RenderCount())
}

func TestBuildFresh_ValidatesSessionData(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.session.BuildFresh(context.Background(), &domain.SessionData{
		CanvasWidth:  0,
		CanvasHeight: 1050,
		Recipient:    domain.Recipient{Name: "Jane", LastName: "Doe"},
	})
	assert.ErrorIs(t, err, errors.ErrValidation)
	assert.Equal(t, 0, fx.surface.RenderCount())
}

func TestBuildFresh_ClosedSessionFails(t *testing.T) {
	fx := newFixture(t)
	data := testSessionData(fx.fetcher)
	fx.session.Close()

	_, err := fx.session.BuildFresh(context.Background(), data)
	assert.ErrorIs(t, err, errors.ErrSurfaceUnavailable)
}
