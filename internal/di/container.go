// Package di provides dependency injection configuration for the MailCanvas engine.
package di

import (
	"github.com/samber/do/v2"

	"github.com/mailcanvas/mailcanvas-server/internal/assets"
	"github.com/mailcanvas/mailcanvas-server/internal/config"
	"github.com/mailcanvas/mailcanvas-server/internal/di/providers"
	"github.com/mailcanvas/mailcanvas-server/internal/logger"
	"github.com/mailcanvas/mailcanvas-server/internal/render"
	"github.com/mailcanvas/mailcanvas-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Asset pipeline
	do.Provide(injector, providers.ProvideFetcher)
	do.Provide(injector, providers.ProvidePreviewer)

	// Business services
	do.Provide(injector, providers.ProvideTemplateService)
	do.Provide(injector, providers.ProvideCampaignService)
	do.Provide(injector, providers.ProvideSessionFactory)

	return injector
}

// Bootstrap triggers lazy initialization of all core services and returns
// once the engine is ready to open sessions.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*assets.Fetcher](injector)
	_ = do.MustInvoke[*render.Previewer](injector)
	_ = do.MustInvoke[*service.TemplateService](injector)
	_ = do.MustInvoke[*service.CampaignService](injector)
	_ = do.MustInvoke[*providers.SessionFactory](injector)
	return nil
}
