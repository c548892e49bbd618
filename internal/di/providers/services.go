package providers

import (
	"github.com/samber/do/v2"

	"github.com/mailcanvas/mailcanvas-server/internal/assets"
	"github.com/mailcanvas/mailcanvas-server/internal/canvas"
	"github.com/mailcanvas/mailcanvas-server/internal/logger"
	"github.com/mailcanvas/mailcanvas-server/internal/render"
	"github.com/mailcanvas/mailcanvas-server/internal/service"
)

// ProvideTemplateService provides the template catalog service.
func ProvideTemplateService(i do.Injector) (*service.TemplateService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTemplateService(storeHandle.Store, log.Logger), nil
}

// ProvideCampaignService provides the campaign service.
func ProvideCampaignService(i do.Injector) (*service.CampaignService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCampaignService(storeHandle.Store, log.Logger), nil
}

// SessionFactory opens editing sessions. Sessions are per-surface and
// short-lived, so the factory is the injectable unit, not the session.
type SessionFactory struct {
	fetcher   *assets.Fetcher
	store     *StoreHandle
	previewer *render.Previewer
	logger    *logger.Logger
}

// Open creates a session around a fresh surface of the given size.
func (f *SessionFactory) Open(width, height float64) *service.Session {
	surface := canvas.New(width, height)
	return service.NewSession(surface, f.fetcher, f.store.Store, f.previewer, f.logger.Logger)
}

// ProvideSessionFactory provides the session factory.
func ProvideSessionFactory(i do.Injector) (*SessionFactory, error) {
	return &SessionFactory{
		fetcher:   do.MustInvoke[*assets.Fetcher](i),
		store:     do.MustInvoke[*StoreHandle](i),
		previewer: do.MustInvoke[*render.Previewer](i),
		logger:    do.MustInvoke[*logger.Logger](i),
	}, nil
}
