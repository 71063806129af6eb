package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestValidateColorMapping(t *testing.T) {
	assert.NoError(t, ValidateColorMapping(decode(t, `{
		"code": "008", "name": "Azul",
		"confidence": "high", "reasoning": "navy is a shade of blue"
	}`)))

	// Confidence and reasoning are optional.
	assert.NoError(t, ValidateColorMapping(decode(t, `{"code": "011", "name": "Cinza"}`)))

	assert.Error(t, ValidateColorMapping(decode(t, `{"code": "8", "name": "Azul"}`)),
		"code must be exactly three digits")
	assert.Error(t, ValidateColorMapping(decode(t, `{"code": "abc", "name": "Azul"}`)))
	assert.Error(t, ValidateColorMapping(decode(t, `{"code": "008", "name": ""}`)))
	assert.Error(t, ValidateColorMapping(decode(t, `{"name": "Azul"}`)))
}

func TestValidateDocumentContext(t *testing.T) {
	assert.NoError(t, ValidateDocumentContext(decode(t, `{
		"document_type": "nota de encomenda",
		"supplier": "HUGO BOSS",
		"brand": "BOSS",
		"customer": null,
		"reference_number": "PO-42",
		"date": "2026-02-01",
		"season": "FW26",
		"layout_info": "uma linha por cor"
	}`)))

	// Only supplier and brand are required.
	assert.NoError(t, ValidateDocumentContext(decode(t, `{"supplier": "GANT", "brand": "GANT"}`)))

	assert.Error(t, ValidateDocumentContext(decode(t, `{"supplier": "GANT"}`)))
	assert.Error(t, ValidateDocumentContext(decode(t, `{"supplier": 42, "brand": "GANT"}`)))
}
