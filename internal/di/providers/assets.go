package providers

import (
	"context"
	"image"

	"github.com/samber/do/v2"

	"github.com/mailcanvas/mailcanvas-server/internal/assets"
	"github.com/mailcanvas/mailcanvas-server/internal/config"
	"github.com/mailcanvas/mailcanvas-server/internal/logger"
	"github.com/mailcanvas/mailcanvas-server/internal/render"
)

// ProvideFetcher provides the image fetcher.
func ProvideFetcher(i do.Injector) (*assets.Fetcher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return assets.NewFetcher(assets.Options{
		MaxBytes: cfg.Assets.MaxBytes,
		Timeout:  cfg.Assets.FetchTimeout,
	}, log.Logger), nil
}

// ProvidePreviewer provides the PNG previewer, resolving image references
// through the fetcher.
func ProvidePreviewer(i do.Injector) (*render.Previewer, error) {
	log := do.MustInvoke[*logger.Logger](i)
	fetcher := do.MustInvoke[*assets.Fetcher](i)

	resolve := func(ctx context.Context, ref string) (image.Image, error) {
		asset, err := fetcher.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		return asset.Image, nil
	}
	return render.New(resolve, log.Logger), nil
}
