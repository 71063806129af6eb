package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFirstPagePrompt(t *testing.T) {
	prompt := BuildFirstPagePrompt("## CONTEXTO\nFornecedor: GANT", 1, 3)

	assert.Contains(t, prompt, "página 1 de 3")
	assert.Contains(t, prompt, "Fornecedor: GANT")
	assert.Contains(t, prompt, `"material_code"`)
	assert.Contains(t, prompt, "POLOS", "category taxonomy rides along")
	assert.NotContains(t, prompt, "páginas anteriores")
}

func TestBuildAdditionalPagePrompt(t *testing.T) {
	prompt := BuildAdditionalPagePrompt("ctx", 2, 3, 7)

	assert.Contains(t, prompt, "página 2 de 3")
	assert.Contains(t, prompt, "Já extraímos 7 produtos")
	assert.Contains(t, prompt, "IGNORE seções de resumo")
	assert.Contains(t, prompt, "order_info")
}

func TestBuildColorPrompt(t *testing.T) {
	prompt := BuildColorPrompt("Charcoal Melange")

	assert.Contains(t, prompt, `"Charcoal Melange"`)
	assert.Contains(t, prompt, "011: Cinza")
	assert.Contains(t, prompt, "030:", "all thirty catalog codes listed")
	assert.Contains(t, prompt, `"code": "XXX"`)
}

func TestBuildContextPromptTruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", 6000)
	prompt := BuildContextPrompt(ContextRequest{Filename: "order.pdf", PDFText: long})

	assert.Contains(t, prompt, "order.pdf")
	assert.Contains(t, prompt, "…(truncado)")
	assert.Less(t, strings.Count(prompt, "x"), 4100)
}

func TestBuildContextPromptOmitsEmptyText(t *testing.T) {
	prompt := BuildContextPrompt(ContextRequest{PDFText: "   "})

	assert.NotContains(t, prompt, "Texto extraído")
	assert.Contains(t, prompt, "Fornecedor não identificado")
}
