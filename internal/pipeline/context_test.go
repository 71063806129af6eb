package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcatarino/order-extractor/internal/entity"
	"github.com/mcatarino/order-extractor/internal/llm"
)

type stubAnalyzer struct {
	response string
	err      error
}

func (s *stubAnalyzer) AnalyzeContext(context.Context, llm.ContextRequest) (string, error) {
	return s.response, s.err
}

func TestAnalyzeParsesModelResponse(t *testing.T) {
	svc := NewContextService(&stubAnalyzer{
		response: "```json\n" + `{"supplier": "Hugo Boss S.p.A.", "brand": "BOSS",
			"document_type": "order", "season": "FW26"}` + "\n```",
	}, nil)

	docCtx := svc.Analyze(context.Background(), llm.ContextRequest{Filename: "order.pdf"})
	// Supplier normalized onto the catalog name.
	assert.Equal(t, "HUGO BOSS", docCtx.Supplier)
	assert.Equal(t, "BOSS", docCtx.Brand)
	assert.Equal(t, "FW26", docCtx.Season)
}

func TestAnalyzeModelFailureFallsBackToFilename(t *testing.T) {
	svc := NewContextService(&stubAnalyzer{err: errors.New("model down")}, nil)

	docCtx := svc.Analyze(context.Background(), llm.ContextRequest{Filename: "encomenda_gant_2026.pdf"})
	assert.Equal(t, "GANT", docCtx.Supplier)
	assert.Equal(t, "GANT", docCtx.Brand)
}

func TestAnalyzeUnusableResponseKeepsPlaceholders(t *testing.T) {
	svc := NewContextService(&stubAnalyzer{response: "I could not read the document"}, nil)

	docCtx := svc.Analyze(context.Background(), llm.ContextRequest{Filename: "documento.pdf"})
	assert.Equal(t, entity.PlaceholderSupplier, docCtx.Supplier)
	assert.Equal(t, entity.PlaceholderBrand, docCtx.Brand)
}

func TestAnalyzeBrandBackfillsSupplier(t *testing.T) {
	svc := NewContextService(&stubAnalyzer{
		response: `{"supplier": "", "brand": "TOMMY HILFIGER"}`,
	}, nil)

	docCtx := svc.Analyze(context.Background(), llm.ContextRequest{})
	assert.Equal(t, "TOMMY HILFIGER", docCtx.Brand)
	assert.Equal(t, "TOMMY HILFIGER", docCtx.Supplier)
}

func TestSupplierFromFilename(t *testing.T) {
	name, ok := supplierFromFilename("nota_de_encomenda_marella.pdf")
	require.True(t, ok)
	assert.Equal(t, "MARELLA", name)

	// No catalog hit: the longest surviving token, title-cased.
	name, ok = supplierFromFilename("pedido_windsor_outono.pdf")
	require.True(t, ok)
	assert.Equal(t, "Windsor", name)

	_, ok = supplierFromFilename("doc.pdf")
	assert.False(t, ok)
}

func TestFormatForExtraction(t *testing.T) {
	out := FormatForExtraction(entity.DocumentContext{
		DocumentType: "order",
		Supplier:     "GANT",
		Brand:        "GANT",
		Season:       "SS26",
		LayoutInfo:   "tabela com tamanhos nas colunas",
	})

	assert.Contains(t, out, "## Informações do Documento")
	assert.Contains(t, out, "Supplier: GANT")
	assert.Contains(t, out, "Season: SS26")
	assert.Contains(t, out, "## Informações de Layout")
	assert.Contains(t, out, "tabela com tamanhos nas colunas")
	assert.Contains(t, out, "## Instruções para Extração")
	// Empty fields leave no line behind.
	assert.NotContains(t, out, "Customer:")
}
