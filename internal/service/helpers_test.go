package service

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mailcanvas/mailcanvas-server/internal/assets"
	"github.com/mailcanvas/mailcanvas-server/internal/canvas"
	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/errors"
)

// fakeFetcher serves pre-registered assets by reference. onFetch, when set,
// runs before each lookup so tests can simulate navigation-away mid-fetch.
type fakeFetcher struct {
	mu      sync.Mutex
	assets  map[string]*assets.Asset
	failing map[string]bool
	onFetch func(ref string)
	fetches []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		assets:  make(map[string]*assets.Asset),
		failing: make(map[string]bool),
	}
}

func (f *fakeFetcher) register(ref string, w, h int) {
	f.assets[ref] = &assets.Asset{
		Ref:    ref,
		Image:  image.NewRGBA(image.Rect(0, 0, w, h)),
		Width:  w,
		Height: h,
		Format: "png",
	}
}

func (f *fakeFetcher) fail(ref string) {
	f.failing[ref] = true
}

func (f *fakeFetcher) Fetch(_ context.Context, ref string) (*assets.Asset, error) {
	if f.onFetch != nil {
		f.onFetch(ref)
	}
	f.mu.Lock()
	f.fetches = append(f.fetches, ref)
	f.mu.Unlock()

	if f.failing[ref] {
		return nil, errors.AssetFetchFailedf("fake failure for %s", ref)
	}
	asset, ok := f.assets[ref]
	if !ok {
		return nil, errors.AssetFetchFailedf("unregistered ref %s", ref)
	}
	return asset, nil
}

// fakeTemplates is an in-memory TemplateStore and TemplateCatalog.
type fakeTemplates struct {
	mu        sync.Mutex
	templates map[string]*domain.Template
	saveErr   error
}

func newFakeTemplates() *fakeTemplates {
	return &fakeTemplates{templates: make(map[string]*domain.Template)}
}

func (ft *fakeTemplates) GetTemplate(tplID string) (*domain.Template, error) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	tpl, ok := ft.templates[tplID]
	if !ok {
		return nil, errors.NotFoundf("template %s not found", tplID)
	}
	return tpl, nil
}

func (ft *fakeTemplates) SaveTemplate(tpl *domain.Template) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if ft.saveErr != nil {
		return ft.saveErr
	}
	ft.templates[tpl.ID] = tpl
	return nil
}

func (ft *fakeTemplates) ListTemplates() ([]*domain.Template, error) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	out := make([]*domain.Template, 0, len(ft.templates))
	for _, tpl := range ft.templates {
		out = append(out, tpl)
	}
	return out, nil
}

func (ft *fakeTemplates) DeleteTemplate(tplID string) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	delete(ft.templates, tplID)
	return nil
}

// fakePreviewer returns a fixed PNG-ish payload without rasterizing.
type fakePreviewer struct {
	err error
}

func (fp *fakePreviewer) RenderPNG(context.Context, *domain.DesignDocument) ([]byte, error) {
	if fp.err != nil {
		return nil, fp.err
	}
	return []byte("preview-png"), nil
}

// sessionFixture bundles a session with its fakes.
type sessionFixture struct {
	session   *Session
	surface   *canvas.Surface
	fetcher   *fakeFetcher
	templates *fakeTemplates
}

func newFixture(t *testing.T) *sessionFixture {
	t.Helper()
	surface := canvas.New(1500, 1050)
	fetcher := newFakeFetcher()
	templates := newFakeTemplates()
	session := NewSession(surface, fetcher, templates, &fakePreviewer{}, slog.New(slog.DiscardHandler))
	t.Cleanup(session.Close)
	return &sessionFixture{
		session:   session,
		surface:   surface,
		fetcher:   fetcher,
		templates: templates,
	}
}

// testSessionData is a fully resolvable session payload.
func testSessionData(fetcher *fakeFetcher) *domain.SessionData {
	fetcher.register("https://assets.test/bg.jpg", 3000, 1000)
	fetcher.register("https://assets.test/logo.png", 400, 200)
	fetcher.register("https://assets.test/qr-jane.png", 256, 256)

	return &domain.SessionData{
		CanvasWidth:   1500,
		CanvasHeight:  1050,
		BackgroundRef: "https://assets.test/bg.jpg",
		Branding: domain.Branding{
			CompanyName: "Acme Mailers",
			LogoRef:     "https://assets.test/logo.png",
		},
		Recipient: domain.Recipient{
			ID:         "rcp-jane",
			Name:       "Jane",
			LastName:   "Doe",
			Street:     "12 Main St",
			City:       "Springfield",
			Zip:        "62704",
			Phone:      "5551234567",
			Message:    "Hello!",
			QRImageRef: "https://assets.test/qr-jane.png",
		},
	}
}

// elementByType finds the first element carrying a semantic type.
func elementByType(t *testing.T, surface *canvas.Surface, st domain.SemanticType) *domain.Element {
	t.Helper()
	for _, el := range surface.Elements() {
		if el.Tag.Type == st {
			return el
		}
	}
	require.Failf(t, "element not found", "no element with semantic type %q", st)
	return nil
}
