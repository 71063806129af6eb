package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mcatarino/order-extractor/internal/catalog"
	"github.com/mcatarino/order-extractor/internal/entity"
	"github.com/mcatarino/order-extractor/internal/llm"
	"github.com/mcatarino/order-extractor/internal/supplier"
)

// ContextService runs the pre-extraction document analysis and guarantees
// the supplier/brand fields are usable afterwards.
type ContextService struct {
	analyzer llm.ContextAnalyzer
	log      *slog.Logger
}

// NewContextService builds the service. analyzer may be nil; analysis then
// relies on the filename fallback alone.
func NewContextService(analyzer llm.ContextAnalyzer, log *slog.Logger) *ContextService {
	if log == nil {
		log = slog.Default()
	}
	return &ContextService{analyzer: analyzer, log: log}
}

// Analyze inspects the first page and returns the document context. It never
// fails: when the model is unavailable or its response is unusable, the
// filename fallback and the placeholders fill in.
func (s *ContextService) Analyze(ctx context.Context, req llm.ContextRequest) entity.DocumentContext {
	docCtx := entity.DocumentContext{
		Supplier: entity.PlaceholderSupplier,
		Brand:    entity.PlaceholderBrand,
	}

	if s.analyzer != nil {
		text, err := s.analyzer.AnalyzeContext(ctx, req)
		if err != nil {
			s.log.Error("context.analyze.error", "err", err)
		} else if parsed, ok := parseContext(text); ok {
			docCtx = parsed
			s.log.Info("context.analyze.ok", "supplier", docCtx.Supplier, "brand", docCtx.Brand, "type", docCtx.DocumentType)
		} else {
			s.log.Warn("context.analyze.invalid")
		}
	}

	s.ensureSupplierAndBrand(&docCtx, req.Filename)
	return docCtx
}

var contextFencedPattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

func parseContext(text string) (entity.DocumentContext, bool) {
	candidate := text
	if m := contextFencedPattern.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	} else if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			candidate = text[start : end+1]
		}
	}

	var doc any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return entity.DocumentContext{}, false
	}
	if err := llm.ValidateDocumentContext(doc); err != nil {
		return entity.DocumentContext{}, false
	}

	var docCtx entity.DocumentContext
	raw, _ := json.Marshal(doc)
	if err := json.Unmarshal(raw, &docCtx); err != nil {
		return entity.DocumentContext{}, false
	}
	return docCtx, true
}

// filenameNoisePattern strips the words that appear in order-document
// filenames before they are mined for a supplier name.
var filenameNoisePattern = regexp.MustCompile(
	`\b(nota|encomenda|pedido|order|orçamento|fatura|invoice|pdf|doc|documento|ficheiro|file|de|do|da|das|dos)\b`)

// ensureSupplierAndBrand fills missing supplier/brand: filename mining, then
// similarity normalization, then brand↔supplier cross-fill.
func (s *ContextService) ensureSupplierAndBrand(docCtx *entity.DocumentContext, filename string) {
	if !docCtx.HasSupplier() && filename != "" {
		if name, ok := supplierFromFilename(filename); ok {
			docCtx.Supplier = name
			s.log.Info("context.supplier.from_filename", "supplier", name)
		}
	}

	if docCtx.HasSupplier() {
		if normalized := supplier.Match(docCtx.Supplier); normalized != docCtx.Supplier {
			s.log.Info("context.supplier.normalized", "from", docCtx.Supplier, "to", normalized)
			docCtx.Supplier = normalized
		}
	}

	if !docCtx.HasBrand() {
		if docCtx.HasSupplier() {
			docCtx.Brand = docCtx.Supplier
		} else {
			docCtx.Brand = entity.PlaceholderBrand
		}
	}

	if !docCtx.HasSupplier() && docCtx.HasBrand() {
		docCtx.Supplier = supplier.Match(docCtx.Brand)
	}
	if docCtx.Supplier == "" {
		docCtx.Supplier = entity.PlaceholderSupplier
	}
}

// supplierFromFilename strips document-noise words from the filename and
// checks the remaining parts against the catalog, falling back to the
// longest surviving token.
func supplierFromFilename(filename string) (string, bool) {
	clean := strings.ToLower(filename)
	clean = strings.TrimSuffix(clean, ".pdf")
	clean = filenameNoisePattern.ReplaceAllString(clean, "")
	clean = strings.NewReplacer("_", " ", "-", " ").Replace(clean)

	parts := strings.Fields(clean)
	if len(parts) == 0 {
		return "", false
	}

	for _, sup := range catalog.Suppliers() {
		lower := strings.ToLower(sup.Name)
		for _, part := range parts {
			if strings.Contains(lower, part) || strings.Contains(part, lower) {
				return sup.Name, true
			}
		}
	}

	longest := ""
	for _, part := range parts {
		if len(part) > len(longest) {
			longest = part
		}
	}
	if len(longest) > 2 {
		return strings.ToUpper(longest[:1]) + longest[1:], true
	}
	return "", false
}

// FormatForExtraction turns the context into the prompt section the page
// extractor receives.
func FormatForExtraction(docCtx entity.DocumentContext) string {
	var b strings.Builder
	b.WriteString("## Informações do Documento\n")
	writeContextLine(&b, "Document Type", docCtx.DocumentType)
	writeContextLine(&b, "Supplier", docCtx.Supplier)
	writeContextLine(&b, "Brand", docCtx.Brand)
	writeContextLine(&b, "Customer", docCtx.Customer)
	writeContextLine(&b, "Reference Number", docCtx.ReferenceNumber)
	writeContextLine(&b, "Date", docCtx.Date)
	writeContextLine(&b, "Season", docCtx.Season)

	if docCtx.LayoutInfo != "" {
		b.WriteString("\n## Informações de Layout\n")
		b.WriteString(docCtx.LayoutInfo)
		b.WriteString("\n")
	}

	b.WriteString("\n## Instruções para Extração\n")
	b.WriteString("- Extrair apenas produtos com dados completos (código, cores, tamanhos)\n")
	b.WriteString("- Ignorar linhas de totais ou resumos\n")
	b.WriteString("- Verificar células vazias que indicam tamanhos indisponíveis")
	return b.String()
}

func writeContextLine(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s: %s\n", label, value)
	}
}
