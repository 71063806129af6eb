// Package pdf renders document pages to model-ready JPEG images and pulls
// the embedded text layer, both via MuPDF.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"

	"github.com/mcatarino/order-extractor/internal/common"
	"github.com/mcatarino/order-extractor/internal/pipeline"
)

// Service implements pipeline.Renderer.
type Service struct {
	dpi          int
	maxDimension int
	jpegQuality  int
	log          *slog.Logger
}

// NewService builds a renderer from the PDF configuration.
func NewService(cfg common.PDFConfig, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = 150
	}
	maxDim := cfg.MaxDimension
	if maxDim <= 0 {
		maxDim = 1200
	}
	quality := cfg.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Service{dpi: dpi, maxDimension: maxDim, jpegQuality: quality, log: log}
}

// RenderPages converts every page to an optimized JPEG in page order.
func (s *Service) RenderPages(ctx context.Context, path string) ([]pipeline.PageImage, error) {
	start := time.Now()
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open document %s: %w", path, err)
	}
	defer doc.Close()

	pages := make([]pipeline.PageImage, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(n, float64(s.dpi))
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", n+1, err)
		}
		data, err := s.encode(img)
		if err != nil {
			return nil, fmt.Errorf("encode page %d: %w", n+1, err)
		}
		pages = append(pages, pipeline.PageImage{
			Page:     n + 1,
			Data:     data,
			MIMEType: "image/jpeg",
		})
	}

	s.log.Info("pdf.render.ok", "path", path, "pages", len(pages),
		"dpi", s.dpi, "elapsed_ms", time.Since(start).Milliseconds())
	return pages, nil
}

// encode downsizes an image so neither dimension exceeds the maximum and
// compresses it to JPEG.
func (s *Service) encode(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() > s.maxDimension || bounds.Dy() > s.maxDimension {
		img = imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExtractText concatenates the text layer of every page.
func (s *Service) ExtractText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open document %s: %w", path, err)
	}
	defer doc.Close()

	var b strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			s.log.Warn("pdf.text.page_error", "page", n+1, "err", err)
			continue
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
