// Package pipeline orchestrates one document's journey: context analysis,
// strictly sequential page extraction, color resolution, cross-page merging
// and the final numeric consistency pass.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mcatarino/order-extractor/internal/colors"
	"github.com/mcatarino/order-extractor/internal/common"
	"github.com/mcatarino/order-extractor/internal/entity"
	"github.com/mcatarino/order-extractor/internal/extract"
	"github.com/mcatarino/order-extractor/internal/jsonutil"
	"github.com/mcatarino/order-extractor/internal/llm"
)

// PageImage is one rendered page ready for the vision model.
type PageImage struct {
	Page     int
	Data     []byte
	MIMEType string
}

// Renderer turns a document file into page images and raw text. The pdf
// package provides the MuPDF-backed implementation.
type Renderer interface {
	RenderPages(ctx context.Context, path string) ([]PageImage, error)
	ExtractText(path string) (string, error)
}

// ProgressFunc receives coarse progress in [0, 100] while a document runs.
type ProgressFunc func(percent float64)

// Processor runs documents end to end.
type Processor struct {
	oracle   llm.Oracle
	renderer Renderer
	contexts *ContextService
	resolver *colors.Resolver
	log      *slog.Logger
}

// NewProcessor wires the pipeline. All dependencies are required except the
// logger.
func NewProcessor(oracle llm.Oracle, renderer Renderer, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		oracle:   oracle,
		renderer: renderer,
		contexts: NewContextService(oracle, log),
		resolver: colors.NewResolver(oracle, log),
		log:      log,
	}
}

// ProcessDocument extracts one document. Pages run strictly sequentially:
// each page's prompt carries the count of products already found. A first
// page that yields nothing usable is fatal; later failures are logged and
// skipped. progress may be nil.
func (p *Processor) ProcessDocument(ctx context.Context, path string, progress ProgressFunc) (*entity.ExtractionResult, error) {
	start := time.Now()
	report := func(pct float64) {
		if progress != nil {
			progress(pct)
		}
	}
	report(5)

	pages, err := p.renderer.RenderPages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("render pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, common.NewAppError("EMPTY_DOCUMENT", "document has no pages", common.ErrInvalidInput)
	}
	p.log.Info("pipeline.render.ok", "path", path, "pages", len(pages))
	report(10)

	pdfText, err := p.renderer.ExtractText(path)
	if err != nil {
		p.log.Warn("pipeline.text.error", "err", err)
		pdfText = ""
	}

	docCtx := p.contexts.Analyze(ctx, llm.ContextRequest{
		Image:    pages[0].Data,
		MIMEType: pages[0].MIMEType,
		PDFText:  pdfText,
		Filename: filepath.Base(path),
	})
	contextDescription := FormatForExtraction(docCtx)
	report(15)

	var (
		allProducts []entity.Product
		orderInfo   = orderInfoFromContext(docCtx)
		warnings    []string
		pagesUsed   int
	)

	progressPerPage := 65.0 / float64(len(pages))
	for i, page := range pages {
		pageNum := i + 1
		p.log.Info("pipeline.page.start", "page", pageNum, "total", len(pages))

		pageResult, err := p.processPage(ctx, page, contextDescription, len(pages), len(allProducts))
		if err != nil {
			if pageNum == 1 {
				return nil, fmt.Errorf("%w: %v", common.ErrFirstPageFailure, err)
			}
			p.log.Error("pipeline.page.failed", "page", pageNum, "err", err)
			warnings = append(warnings, fmt.Sprintf("page %d skipped: %v", pageNum, err))
			continue
		}

		pagesUsed++
		allProducts = append(allProducts, pageResult.Products...)
		mergeOrderInfo(orderInfo, pageResult.OrderInfo)
		if pageResult.PartiallyRecovered {
			warnings = append(warnings, fmt.Sprintf("page %d partially recovered", pageNum))
		}
		p.log.Info("pipeline.page.ok", "page", pageNum, "products", len(pageResult.Products))
		report(15 + float64(pageNum)*progressPerPage)
	}

	if len(allProducts) > 0 {
		p.resolver.MapProducts(ctx, allProducts)
	} else {
		p.log.Warn("pipeline.colors.skipped", "reason", "no products")
	}
	report(85)

	processed, resolution := PostProcess(allProducts, docCtx, p.log)
	processed = jsonutil.FixProducts(processed, resolution.Markup)
	orderInfo["supplier"] = resolution.Name
	report(95)

	result := &entity.ExtractionResult{
		Products:  processed,
		OrderInfo: orderInfo,
		PageCount: len(pages),
		PagesUsed: pagesUsed,
		Supplier:  resolution.Name,
		Warnings:  warnings,
	}
	p.log.Info("pipeline.document.ok",
		"path", path,
		"products", len(processed),
		"pages_used", pagesUsed,
		"elapsed_ms", time.Since(start).Milliseconds())
	report(100)
	return result, nil
}

// processPage sends one page to the model and cleans the response. The
// recovery pass runs only when the primary parse fails outright.
func (p *Processor) processPage(ctx context.Context, page PageImage, contextDescription string, totalPages, previousProducts int) (entity.PageResult, error) {
	text, err := p.oracle.ExtractPage(ctx, llm.PageRequest{
		Image:            page.Data,
		MIMEType:         page.MIMEType,
		Context:          contextDescription,
		Page:             page.Page,
		TotalPages:       totalPages,
		PreviousProducts: previousProducts,
	})
	if err != nil {
		return entity.PageResult{}, err
	}

	raw, err := extract.PageJSON(text)
	if err != nil {
		if recovered, ok := extract.Recover(text, page.Page); ok {
			p.log.Warn("pipeline.page.recovered", "page", page.Page, "products", len(recovered.Products))
			return recovered, nil
		}
		return entity.PageResult{}, err
	}
	return extract.CleanPage(raw, page.Page), nil
}

func orderInfoFromContext(docCtx entity.DocumentContext) map[string]any {
	return map[string]any{
		"supplier":      docCtx.Supplier,
		"document_type": docCtx.DocumentType,
		"order_number":  docCtx.ReferenceNumber,
		"date":          docCtx.Date,
		"customer":      docCtx.Customer,
		"brand":         docCtx.Brand,
		"season":        docCtx.Season,
	}
}

// mergeOrderInfo fills empty slots only: the first page to report a value
// wins.
func mergeOrderInfo(dst, src map[string]any) {
	for k, v := range src {
		if v == nil || v == "" {
			continue
		}
		if existing, ok := dst[k]; !ok || existing == nil || existing == "" {
			dst[k] = v
		}
	}
}
