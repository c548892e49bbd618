// Package main provides a tool to seed the store with a demo campaign.
//
// It creates a campaign with test recipients, then builds and saves a starter
// template through the full session pipeline. Assets are generated in-process
// and handed to the engine as data URIs, so seeding works offline.
//
// Usage:
//
//	go run ./cmd/seed --data-path ~/.mailcanvas/data
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"

	"github.com/samber/do/v2"

	"github.com/mailcanvas/mailcanvas-server/internal/di"
	"github.com/mailcanvas/mailcanvas-server/internal/di/providers"
	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/id"
	"github.com/mailcanvas/mailcanvas-server/internal/service"
)

var (
	canvasWidth  = flag.Float64("width", 1500, "Canvas width of the seeded campaign")
	canvasHeight = flag.Float64("height", 1050, "Canvas height of the seeded campaign")
)

// testRecipients are the demo recipients created for the seeded campaign.
var testRecipients = []*domain.Recipient{
	{
		Name: "Jane", LastName: "Doe",
		Street: "12 Main St", City: "Springfield", Zip: "62704",
		Phone:   "5551234567",
		Message: "Your spring offer is here!",
	},
	{
		Name: "John", LastName: "Smith",
		Street: "99 Oak Ave", City: "Portland", Zip: "97201",
		Phone:   "5559876543",
		Message: "We miss you, come back for 20% off.",
	},
	{
		Name: "Ana", LastName: "Garcia",
		Street: "7 Elm Rd", City: "Austin", Zip: "78701",
		Phone:   "5552468135",
		Message: "A neighborhood welcome from all of us.",
	},
}

func main() {
	// Flag parsing happens inside config loading so engine flags and seed
	// flags share one parse.
	injector := di.NewContainer()
	if err := di.Bootstrap(injector); err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}
	defer func() {
		if err := injector.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	ctx := context.Background()

	campaigns := do.MustInvoke[*service.CampaignService](injector)
	storeHandle := do.MustInvoke[*providers.StoreHandle](injector)
	sessions := do.MustInvoke[*providers.SessionFactory](injector)

	campaign := &domain.Campaign{
		ID:            id.MustGenerate(id.PrefixCampaign),
		Name:          "Demo Spring Mailer",
		CanvasWidth:   *canvasWidth,
		CanvasHeight:  *canvasHeight,
		BackgroundRef: solidPNG(1600, 1120, color.NRGBA{R: 0xf4, G: 0xe8, B: 0xd4, A: 0xff}),
		Branding: domain.Branding{
			CompanyName: "Acme Mailers",
			LogoRef:     solidPNG(400, 200, color.NRGBA{R: 0x1f, G: 0x6f, B: 0xeb, A: 0xff}),
		},
	}
	for _, r := range testRecipients {
		r.QRImageRef = checkerPNG(256, 32)
	}
	if err := campaigns.Create(campaign, testRecipients); err != nil {
		log.Fatalf("Failed to create campaign: %v", err)
	}
	fmt.Printf("Created campaign %s with %d recipients\n", campaign.ID, len(testRecipients))

	// Build a starter template for the first recipient and save it.
	data, err := storeHandle.FetchSession(campaign.ID, testRecipients[0].ID)
	if err != nil {
		log.Fatalf("Failed to assemble session data: %v", err)
	}

	session := sessions.Open(*canvasWidth, *canvasHeight)
	defer session.Close()

	report, err := session.BuildFresh(ctx, data)
	if err != nil {
		log.Fatalf("Failed to build starter design: %v", err)
	}
	if report.AssetFailures > 0 {
		log.Printf("Starter design built with %d degraded assets", report.AssetFailures)
	}

	session.SetName("Starter " + campaign.Name)
	saved, err := session.Save(ctx)
	if err != nil {
		log.Fatalf("Failed to save starter template: %v", err)
	}

	fmt.Printf("Saved starter template %s (%d byte preview)\n", saved.TemplateID, len(saved.Preview))
	fmt.Println("\nSeeding complete!")
}

// solidPNG returns a data URI for a solid-color PNG of the given size.
func solidPNG(w, h int, c color.NRGBA) string {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return encodePNG(img)
}

// checkerPNG returns a data URI for a QR-like black/white checkerboard.
func checkerPNG(size, cell int) string {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			if (x/cell+y/cell)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{A: 0xff})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
			}
		}
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) string {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Fatalf("Failed to encode seed image: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
