// Package main provides a tool to export a saved template's preview PNG.
//
// It writes the preview stored with the template when present, and falls back
// to rendering the document from scratch otherwise.
//
// Usage:
//
//	DATA_PATH=~/.mailcanvas/data go run ./cmd/preview <template-id> <out.png>
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/logger"
	"github.com/mailcanvas/mailcanvas-server/internal/render"
	"github.com/mailcanvas/mailcanvas-server/internal/store"
)

var rerender = flag.Bool("rerender", false, "Re-render the document instead of using the stored preview")

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: preview [-rerender] <template-id> <out.png>")
		os.Exit(2)
	}
	tplID, outPath := flag.Arg(0), flag.Arg(1)

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/.mailcanvas/data")
	}

	lg := logger.Discard()
	s, err := store.New(dataPath, lg.Logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	tpl, err := s.GetTemplate(tplID)
	if err != nil {
		log.Fatalf("Failed to fetch template: %v", err)
	}

	data := tpl.Preview
	if *rerender || len(data) == 0 {
		doc, err := domain.UnmarshalDocument(tpl.DocumentJSON)
		if err != nil {
			log.Fatalf("Failed to parse template document: %v", err)
		}
		data, err = render.New(nil, lg.Logger).RenderPNG(context.Background(), doc)
		if err != nil {
			log.Fatalf("Failed to render preview: %v", err)
		}
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", outPath, err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", outPath, len(data))
}
