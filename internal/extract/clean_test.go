package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcatarino/order-extractor/internal/common"
)

func TestPageJSONFencedBlock(t *testing.T) {
	text := "Here is the result:\n```json\n{\"products\": [], \"order_info\": {}}\n```\nDone."
	obj, err := PageJSON(text)
	require.NoError(t, err)
	assert.Contains(t, obj, "products")
}

func TestPageJSONFencedWithoutLanguage(t *testing.T) {
	text := "```\n{\"products\": []}\n```"
	obj, err := PageJSON(text)
	require.NoError(t, err)
	assert.Contains(t, obj, "products")
}

func TestPageJSONFencedBlockBrokenFails(t *testing.T) {
	// A fenced block that does not parse is an error, even if valid JSON
	// exists elsewhere in the text.
	text := "```json\n{broken\n```\n{\"products\": []}"
	_, err := PageJSON(text)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMalformedResponse))
}

func TestPageJSONLargestBraceObject(t *testing.T) {
	text := `noise {"other": 1} more noise {"products": [{"name": "A"}], "order_info": {}} trailing`
	obj, err := PageJSON(text)
	require.NoError(t, err)
	products, ok := obj["products"].([]any)
	require.True(t, ok)
	assert.Len(t, products, 1)
}

func TestPageJSONBracesInsideStrings(t *testing.T) {
	text := `{"products": [{"name": "curly } brace", "colors": []}]}`
	obj, err := PageJSON(text)
	require.NoError(t, err)
	assert.Contains(t, obj, "products")
}

func TestPageJSONWholeText(t *testing.T) {
	obj, err := PageJSON(`{"order_info": {"supplier": "GANT"}}`)
	require.NoError(t, err)
	assert.Contains(t, obj, "order_info")
}

func TestPageJSONNothingUsable(t *testing.T) {
	_, err := PageJSON("the model refused to answer")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMalformedResponse))
}

func TestCleanPageDropCascade(t *testing.T) {
	raw := map[string]any{
		"products": []any{
			// Valid product.
			map[string]any{
				"name":          "Paddy",
				"material_code": "123456",
				"colors": []any{
					map[string]any{
						"color_code": "008",
						"sizes": []any{
							map[string]any{"size": "M", "quantity": 2.0},
							// Missing quantity: dropped.
							map[string]any{"size": "L"},
							// Zero quantity: dropped.
							map[string]any{"size": "XL", "quantity": 0.0},
							// Non-integral quantity: dropped.
							map[string]any{"size": "S", "quantity": 1.5},
						},
					},
					// All sizes invalid: color dropped.
					map[string]any{
						"color_code": "010",
						"sizes":      []any{map[string]any{"size": "M", "quantity": -1.0}},
					},
				},
			},
			// No valid colors at all: product dropped.
			map[string]any{
				"name":          "Ghost",
				"material_code": "999999",
				"colors":        []any{},
			},
			// Not even an object: dropped.
			"garbage",
		},
	}

	result := CleanPage(raw, 3)
	assert.Equal(t, 3, result.Page)
	require.Len(t, result.Products, 1)

	p := result.Products[0]
	assert.Equal(t, "Paddy", p.Name)
	require.Len(t, p.Colors, 1)
	require.Len(t, p.Colors[0].Sizes, 1)
	assert.Equal(t, "M", p.Colors[0].Sizes[0].Size)
	assert.Equal(t, 2, p.Colors[0].Sizes[0].Quantity)
}

func TestCleanPagePriceCoercion(t *testing.T) {
	raw := map[string]any{
		"products": []any{
			map[string]any{
				"name":          "Percy",
				"material_code": "111111",
				"colors": []any{
					map[string]any{
						"color_code": "001",
						"unit_price": "12,50",
						"subtotal":   25.0,
						"sizes":      []any{map[string]any{"size": "M", "quantity": 2.0}},
					},
				},
			},
		},
	}

	result := CleanPage(raw, 1)
	require.Len(t, result.Products, 1)
	c := result.Products[0].Colors[0]
	require.NotNil(t, c.UnitPrice)
	assert.InDelta(t, 12.5, *c.UnitPrice, 0.001)

	// total_price missing: derived from subtotals.
	require.NotNil(t, result.Products[0].TotalPrice)
	assert.InDelta(t, 25.0, *result.Products[0].TotalPrice, 0.001)
}

func TestCleanPageOrderInfo(t *testing.T) {
	raw := map[string]any{
		"order_info": map[string]any{
			"supplier":     "GANT",
			"total_pieces": "24",
			"total_value":  "not a number",
		},
		"products": []any{},
	}

	result := CleanPage(raw, 1)
	assert.Equal(t, "GANT", result.OrderInfo["supplier"])
	assert.Equal(t, 24, result.OrderInfo["total_pieces"])
	assert.Nil(t, result.OrderInfo["total_value"])
}

func TestRecoverSalvagesProducts(t *testing.T) {
	// Overall response is malformed, but two product objects are intact.
	text := `{"products": [
		{"name": "Paddy", "material_code": "123456", "colors": [{"color_code": "008", "sizes": [{"size": "M", "quantity": 2}]}]},
		{"name": "Percy", "material_code": "654321", "colors": [{"color_code": "010", "sizes": [{"size": "L", "quantity": 1}]}]},
		{"name": "Broken", "material_`

	_, err := PageJSON(text)
	require.Error(t, err)

	result, ok := Recover(text, 2)
	require.True(t, ok)
	assert.True(t, result.PartiallyRecovered)
	require.Len(t, result.Products, 2)
	assert.Equal(t, "Paddy", result.Products[0].Name)
	assert.Equal(t, "Percy", result.Products[1].Name)
}

func TestRecoverSingleQuotes(t *testing.T) {
	text := `{'name': 'Paddy', 'colors': [{'color_code': '008', 'sizes': [{'size': 'M', 'quantity': 2}]}]}`
	// PageJSON cannot parse single quotes.
	_, err := PageJSON(text)
	require.Error(t, err)

	result, ok := Recover(text, 1)
	require.True(t, ok)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Paddy", result.Products[0].Name)
}

func TestRecoverNothingUsable(t *testing.T) {
	_, ok := Recover("no products here", 1)
	assert.False(t, ok)
}
