package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailcanvas/mailcanvas-server/internal/errors"
)

func newFetcher(opts Options) *Fetcher {
	return NewFetcher(opts, slog.New(slog.DiscardHandler))
}

// pngBytes renders a solid-color PNG of the given size.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetch_HTTPImage(t *testing.T) {
	data := pngBytes(t, 32, 48)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(data) //nolint:errcheck // test server
	}))
	defer srv.Close()

	asset, err := newFetcher(Options{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, 32, asset.Width)
	assert.Equal(t, 48, asset.Height)
	assert.Equal(t, "png", asset.Format)
	assert.NotEmpty(t, asset.BlurHash)
	assert.Equal(t, data, asset.Data)
}

func TestFetch_DataURI(t *testing.T) {
	data := pngBytes(t, 8, 8)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	asset, err := newFetcher(Options{}).Fetch(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, 8, asset.Width)
	assert.Equal(t, 8, asset.Height)
}

func TestFetch_EmptyRef(t *testing.T) {
	_, err := newFetcher(Options{}).Fetch(context.Background(), "")
	assert.ErrorIs(t, err, errors.ErrAssetFetchFailed)
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newFetcher(Options{}).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, errors.ErrAssetFetchFailed)
}

func TestFetch_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("definitely not an image")) //nolint:errcheck // test server
	}))
	defer srv.Close()

	_, err := newFetcher(Options{}).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, errors.ErrAssetFetchFailed)
}

func TestFetch_SizeLimit(t *testing.T) {
	data := pngBytes(t, 64, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(data) //nolint:errcheck // test server
	}))
	defer srv.Close()

	_, err := newFetcher(Options{MaxBytes: 16}).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAssetFetchFailed)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestFetch_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(pngBytes(t, 4, 4)) //nolint:errcheck // test server
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newFetcher(Options{}).Fetch(ctx, srv.URL)
	assert.Error(t, err)
}

func TestFetch_MalformedDataURI(t *testing.T) {
	_, err := newFetcher(Options{}).Fetch(context.Background(), "data:image/png;base64")
	assert.ErrorIs(t, err, errors.ErrAssetFetchFailed)

	_, err = newFetcher(Options{}).Fetch(context.Background(), "data:image/png,plaintext")
	assert.ErrorIs(t, err, errors.ErrAssetFetchFailed)
}
