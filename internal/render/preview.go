// Package render rasterizes a design document into a preview PNG. It is a
// preview, not a print pass: text is drawn with a bitmap face and images the
// resolver cannot supply become placeholder boxes. Layout and typesetting
// fidelity belong to the canvas library upstream.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mailcanvas/mailcanvas-server/internal/domain"
)

// ImageResolver supplies decoded pixels for an image reference. A nil
// resolver, or a resolver error, degrades that element to a placeholder;
// preview rendering never fails because one image is missing.
type ImageResolver func(ctx context.Context, ref string) (image.Image, error)

// Previewer renders design documents to PNG bytes.
type Previewer struct {
	resolve ImageResolver
	logger  *slog.Logger
}

// New creates a previewer. resolve may be nil.
func New(resolve ImageResolver, logger *slog.Logger) *Previewer {
	return &Previewer{resolve: resolve, logger: logger}
}

var (
	colorCanvas      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorPlaceholder = color.RGBA{R: 0xd9, G: 0xd9, B: 0xd9, A: 0xff}
	colorText        = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
)

// RenderPNG rasterizes the document at one canvas unit per pixel.
func (p *Previewer) RenderPNG(ctx context.Context, doc *domain.DesignDocument) ([]byte, error) {
	w, h := int(doc.Width), int(doc.Height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("document has degenerate dimensions %gx%g", doc.Width, doc.Height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(dst, dst.Bounds(), colorCanvas)

	if doc.Background != nil {
		p.drawBackground(ctx, dst, doc.Background)
	}

	for i, el := range doc.Elements {
		switch el.Kind {
		case domain.KindImage:
			p.drawImage(ctx, dst, el)
		case domain.KindShape:
			drawShape(dst, el)
		case domain.KindText:
			drawText(dst, el)
		default:
			p.logger.Debug("skipping unknown element kind", "index", i, "kind", string(el.Kind))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// drawBackground paints the cover-fit background using its stored placement.
func (p *Previewer) drawBackground(ctx context.Context, dst *image.RGBA, bg *domain.BackgroundRef) {
	img := p.resolveImage(ctx, bg.ImageRef)
	if img == nil {
		fillRect(dst, dst.Bounds(), colorPlaceholder)
		return
	}

	src := img.Bounds()
	target := image.Rect(
		int(bg.OffsetX),
		int(bg.OffsetY),
		int(bg.OffsetX+float64(src.Dx())*bg.Scale),
		int(bg.OffsetY+float64(src.Dy())*bg.Scale),
	)
	xdraw.ApproxBiLinear.Scale(dst, target, img, src, xdraw.Over, nil)
}

func (p *Previewer) drawImage(ctx context.Context, dst *image.RGBA, el domain.ElementState) {
	rect := displayRect(el)
	img := p.resolveImage(ctx, el.ImageRef)
	if img == nil {
		fillRect(dst, rect, colorPlaceholder)
		return
	}
	xdraw.ApproxBiLinear.Scale(dst, rect, img, img.Bounds(), xdraw.Over, nil)
}

func (p *Previewer) resolveImage(ctx context.Context, ref string) image.Image {
	if p.resolve == nil || ref == "" {
		return nil
	}
	img, err := p.resolve(ctx, ref)
	if err != nil {
		p.logger.Debug("preview image unavailable", "ref", ref, "error", err)
		return nil
	}
	return img
}

func drawShape(dst *image.RGBA, el domain.ElementState) {
	fillRect(dst, displayRect(el), parseHexColor(el.Fill, colorPlaceholder))
}

func drawText(dst *image.RGBA, el domain.ElementState) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(parseHexColor(el.Color, colorText)),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(el.Left)),
			Y: fixed.I(int(el.Top) + face.Ascent),
		},
	}
	d.DrawString(el.Text)
}

func displayRect(el domain.ElementState) image.Rectangle {
	return image.Rect(
		int(el.Left),
		int(el.Top),
		int(el.Left+el.Width*el.ScaleX),
		int(el.Top+el.Height*el.ScaleY),
	)
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.Set(x, y, c)
		}
	}
}

// parseHexColor parses "#rgb" and "#rrggbb"; anything else falls back.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	if len(s) == 0 || s[0] != '#' {
		return fallback
	}
	hex := s[1:]
	var r, g, b uint8
	switch len(hex) {
	case 3:
		rv, ok1 := hexNibble(hex[0])
		gv, ok2 := hexNibble(hex[1])
		bv, ok3 := hexNibble(hex[2])
		if !ok1 || !ok2 || !ok3 {
			return fallback
		}
		r, g, b = rv*17, gv*17, bv*17
	case 6:
		for i, dst := range []*uint8{&r, &g, &b} {
			hi, ok1 := hexNibble(hex[i*2])
			lo, ok2 := hexNibble(hex[i*2+1])
			if !ok1 || !ok2 {
				return fallback
			}
			*dst = hi*16 + lo
		}
	default:
		return fallback
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
