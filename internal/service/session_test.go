package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/errors"
)

func TestSession_SaveThenLoadEquivalentToFreshBuild(t *testing.T) {
	// First session: build fresh and save.
	fx := newFixture(t)
	data := testSessionData(fx.fetcher)

	_, err := fx.session.BuildFresh(context.Background(), data)
	require.NoError(t, err)
	fx.session.SetName("Spring postcard")

	saved, err := fx.session.Save(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(saved.TemplateID, "tpl-"))

	freshMessage := elementByType(t, fx.surface, domain.TypeMessage).Text
	freshQR := elementByType(t, fx.surface, domain.TypeQRCode)
	freshQRSize := freshQR.DisplayWidth()

	// Second session: same store, load the template, personalize for the
	// same recipient. The result must match the fresh build.
	fx2 := newFixture(t)
	fx2.templates.templates = fx.templates.templates
	testSessionData(fx2.fetcher)

	report, err := fx2.session.LoadFromTemplate(context.Background(), saved.TemplateID, data)
	require.NoError(t, err)
	assert.False(t, report.UsedFallback)
	assert.Equal(t, 6, report.Apply.Restored)
	assert.Zero(t, report.Apply.Skipped)

	assert.Equal(t, fx.surface.Len(), fx2.surface.Len())
	assert.Equal(t, freshMessage, elementByType(t, fx2.surface, domain.TypeMessage).Text)
	assert.Equal(t, "Jane Doe", elementByType(t, fx2.surface, domain.TypeRecipientName).Text)

	loadedQR := elementByType(t, fx2.surface, domain.TypeQRCode)
	assert.InDelta(t, freshQRSize, loadedQR.DisplayWidth(), 1e-9)

	logo := elementByType(t, fx2.surface, domain.TypeLogo)
	assert.True(t, logo.Tag.Reusable)
}

func TestSession_LoadMissingTemplateFallsBack(t *testing.T) {
	fx := newFixture(t)
	data := testSessionData(fx.fetcher)

	report, err := fx.session.LoadFromTemplate(context.Background(), "tpl-gone", data)
	require.NoError(t, err)
	assert.True(t, report.UsedFallback)

	// The fallback produced a working design: background, logo, four text
	// fields, a QR element.
	assert.Equal(t, 6, fx.surface.Len())
	assert.NotNil(t, fx.surface.Background())
	assert.Equal(t, "Hello!", elementByType(t, fx.surface, domain.TypeMessage).Text)
}

func TestSession_LoadTemplateWithoutMarkersFallsBack(t *testing.T) {
	fx := newFixture(t)
	data := testSessionData(fx.fetcher)

	// A decorative-only document: one untagged rectangle, empty table.
	docJSON, err := domain.MarshalDocument(&domain.DesignDocument{
		Width: 1500, Height: 1050,
		Elements: []domain.ElementState{
			{Kind: domain.KindShape, Fill: "#ff0000", Width: 50, Height: 50, ScaleX: 1, ScaleY: 1},
		},
	})
	require.NoError(t, err)
	tableJSON, err := domain.MarshalMappingTable(&domain.MappingTable{})
	require.NoError(t, err)
	require.NoError(t, fx.templates.SaveTemplate(&domain.Template{
		ID: "tpl-blank", Name: "blank", DocumentJSON: docJSON, MappingJSON: tableJSON,
	}))

	report, err := fx.session.LoadFromTemplate(context.Background(), "tpl-blank", data)
	require.NoError(t, err)
	assert.True(t, report.UsedFallback)

	// The stale decorative document was discarded, not layered under the
	// fresh build.
	assert.Equal(t, 6, fx.surface.Len())
	for _, el := range fx.surface.Elements() {
		assert.NotEqual(t, "#ff0000", el.Fill)
	}
}

func TestSession_LoadCorruptDocumentFallsBack(t *testing.T) {
	fx := newFixture(t)
	data := testSessionData(fx.fetcher)

	require.NoError(t, fx.templates.SaveTemplate(&domain.Template{
		ID: "tpl-corrupt", DocumentJSON: []byte("{not json"), MappingJSON: []byte("{}"),
	}))

	report, err := fx.session.LoadFromTemplate(context.Background(), "tpl-corrupt", data)
	require.NoError(t, err)
	assert.True(t, report.UsedFallback)
	assert.Equal(t, 6, fx.surface.Len())
}

func TestSession_SaveArtifactsTravelTogether(t *testing.T) {
	fx := newFixture(t)
	data := testSessionData(fx.fetcher)

	_, err := fx.session.BuildFresh(context.Background(), data)
	require.NoError(t, err)

	saved, err := fx.session.Save(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.DocumentJSON)
	assert.NotEmpty(t, saved.MappingJSON)
	assert.Equal(t, []byte("preview-png"), saved.Preview)

	stored, err := fx.templates.GetTemplate(saved.TemplateID)
	require.NoError(t, err)
	assert.Equal(t, saved.DocumentJSON, stored.DocumentJSON)
	assert.Equal(t, saved.MappingJSON, stored.MappingJSON)

	// A second save updates the same template instead of forking a new one.
	saved2, err := fx.session.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved.TemplateID, saved2.TemplateID)
}

func TestSession_SavePersistsDespitePreviewFailure(t *testing.T) {
	fx := newFixture(t)
	data := testSessionData(fx.fetcher)

	_, err := fx.session.BuildFresh(context.Background(), data)
	require.NoError(t, err)

	broken := &fakePreviewer{err: errors.Internal("rasterizer crashed")}
	fx.session.previewer = broken

	saved, err := fx.session.Save(context.Background())
	require.NoError(t, err)
	assert.Nil(t, saved.Preview)
	assert.NotEmpty(t, saved.DocumentJSON)
}

func TestSession_SaveDiscardsUIState(t *testing.T) {
	fx := newFixture(t)
	data := testSessionData(fx.fetcher)

	_, err := fx.session.BuildFresh(context.Background(), data)
	require.NoError(t, err)

	fx.surface.SetZoom(2.5)
	fx.surface.Select(fx.surface.Elements()[0])

	_, err = fx.session.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, fx.surface.Zoom())
	assert.Nil(t, fx.surface.Selected())
}

func TestSession_MappingRegeneratedAtSave(t *testing.T) {
	fx := newFixture(t)
	data := testSessionData(fx.fetcher)

	_, err := fx.session.BuildFresh(context.Background(), data)
	require.NoError(t, err)

	// Retag an element between build and save. The saved table must reflect
	// the surface at save time, not at build time.
	msg := elementByType(t, fx.surface, domain.TypeMessage)
	msg.Tag = domain.RoleTag{}

	saved, err := fx.session.Save(context.Background())
	require.NoError(t, err)

	table, err := domain.UnmarshalMappingTable(saved.MappingJSON)
	require.NoError(t, err)
	assert.Len(t, table.Entries, 5)
	for _, entry := range table.Entries {
		assert.NotEqual(t, domain.TypeMessage, entry.Tag.Type)
	}
}

func TestSession_CloseAbortsOperations(t *testing.T) {
	fx := newFixture(t)
	data := testSessionData(fx.fetcher)

	fx.session.Close()
	fx.session.Close() // idempotent

	_, err := fx.session.BuildFresh(context.Background(), data)
	assert.ErrorIs(t, err, errors.ErrSurfaceUnavailable)

	_, err = fx.session.Save(context.Background())
	assert.ErrorIs(t, err, errors.ErrSurfaceUnavailable)

	_, err = fx.session.PersonalizeCurrent(context.Background(), &data.Recipient)
	assert.ErrorIs(t, err, errors.ErrSurfaceUnavailable)
}
