// Package assets fetches and decodes the images a personalization pass needs:
// backgrounds, logos, and per-recipient QR codes. References are HTTP(S) URLs
// or data URIs. Retry and timeout policy beyond a single bounded request
// belongs to the caller's infrastructure, not here.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bbrks/go-blurhash"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/mailcanvas/mailcanvas-server/internal/errors"
)

const (
	// defaultMaxBytes limits download size to prevent memory exhaustion.
	defaultMaxBytes = 10 * 1024 * 1024 // 10MB

	// defaultTimeout is the maximum time for one image download.
	defaultTimeout = 30 * time.Second

	// blurHashSize is the thumbnail edge used for BlurHash computation.
	// BlurHash is a low-resolution placeholder; 64px is plenty.
	blurHashSize = 64
)

// Asset is one fetched, decoded image.
type Asset struct {
	Ref      string      // the reference it was fetched from
	Data     []byte      // raw encoded bytes
	Image    image.Image // decoded pixels
	Width    int         // natural width
	Height   int         // natural height
	Format   string      // "png", "jpeg", ...
	BlurHash string      // placeholder hash for layer-list thumbnails
}

// Fetcher fetches and decodes images.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
	logger     *slog.Logger
}

// Options tune a Fetcher. Zero values pick the defaults.
type Options struct {
	MaxBytes int64
	Timeout  time.Duration
}

// NewFetcher creates an image fetcher.
func NewFetcher(opts Options, logger *slog.Logger) *Fetcher {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: opts.Timeout},
		maxBytes:   opts.MaxBytes,
		logger:     logger,
	}
}

// Fetch retrieves and decodes the image behind ref. Failures come back as
// AssetFetchFailed errors; the caller decides whether one failure aborts
// anything beyond the element that needed this image.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*Asset, error) {
	if ref == "" {
		return nil, errors.AssetFetchFailed("empty image reference")
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(ref, "data:") {
		data, err = decodeDataURI(ref)
	} else {
		data, err = f.download(ctx, ref)
	}
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeAssetFetchFailed, "decode image %s", describeRef(ref))
	}

	bounds := img.Bounds()
	asset := &Asset{
		Ref:    ref,
		Data:   data,
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
	}

	// BlurHash failures are cosmetic; the asset is still usable.
	if hash, err := blurhash.Encode(4, 3, thumbnailFor(img)); err == nil {
		asset.BlurHash = hash
	} else {
		f.logger.Debug("blurhash encode failed", "ref", describeRef(ref), "error", err)
	}

	f.logger.Debug("fetched asset",
		"ref", describeRef(ref),
		"format", format,
		"width", asset.Width,
		"height", asset.Height,
		"size", len(data),
	)

	return asset, nil
}

// download performs one bounded HTTP GET.
func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeAssetFetchFailed, "create request for %s", url)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeAssetFetchFailed, "download %s", url)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing to do about close errors

	if resp.StatusCode != http.StatusOK {
		return nil, errors.AssetFetchFailedf("download %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeAssetFetchFailed, "read %s", url)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, errors.AssetFetchFailedf("image %s exceeds %d bytes", url, f.maxBytes)
	}
	return data, nil
}

// decodeDataURI extracts the payload of a base64 data URI.
func decodeDataURI(ref string) ([]byte, error) {
	_, payload, ok := strings.Cut(ref, ",")
	if !ok {
		return nil, errors.AssetFetchFailed("malformed data URI")
	}
	if !strings.Contains(ref[:len(ref)-len(payload)], ";base64") {
		return nil, errors.AssetFetchFailed("data URI must be base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeAssetFetchFailed, "decode data URI")
	}
	return data, nil
}

// thumbnailFor shrinks an image for fast BlurHash computation using
// nearest-neighbor sampling.
func thumbnailFor(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= blurHashSize && bounds.Dy() <= blurHashSize {
		return img
	}

	thumb := image.NewRGBA(image.Rect(0, 0, blurHashSize, blurHashSize))
	for y := range blurHashSize {
		srcY := bounds.Min.Y + y*bounds.Dy()/blurHashSize
		for x := range blurHashSize {
			srcX := bounds.Min.X + x*bounds.Dx()/blurHashSize
			thumb.Set(x, y, img.At(srcX, srcY))
		}
	}
	return thumb
}

// describeRef keeps data URIs out of log lines.
func describeRef(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		return fmt.Sprintf("data URI (%d chars)", len(ref))
	}
	return ref
}
