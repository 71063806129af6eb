// Package extract locates, parses and cleans the JSON fragment a vision
// model returns for one document page. Malformed pieces are dropped rather
// than surfaced: partial model output is expected and a product missing its
// quantities is worthless downstream.
package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mcatarino/order-extractor/internal/common"
	"github.com/mcatarino/order-extractor/internal/entity"
)

var fencedBlockPattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// PageJSON locates the JSON object in a raw model response. Lookup order:
// first fenced code block, then the largest balanced brace object that
// parses and contains a "products" key, then the whole text.
func PageJSON(text string) (map[string]any, error) {
	if m := fencedBlockPattern.FindStringSubmatch(text); m != nil {
		var obj map[string]any
		if err := json.Unmarshal([]byte(m[1]), &obj); err != nil {
			return nil, fmt.Errorf("%w: fenced block is not a JSON object", common.ErrMalformedResponse)
		}
		return obj, nil
	}

	if obj := largestProductsObject(text); obj != nil {
		return obj, nil
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, nil
	}
	return nil, fmt.Errorf("%w: no JSON object found in response", common.ErrMalformedResponse)
}

// largestProductsObject scans every balanced {...} substring and returns the
// longest one that parses to an object holding a "products" key.
func largestProductsObject(text string) map[string]any {
	var best map[string]any
	bestLen := 0
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		end := matchingBrace(text, start)
		if end < 0 {
			continue
		}
		candidate := text[start : end+1]
		if len(candidate) <= bestLen {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
			continue
		}
		if _, ok := obj["products"]; !ok {
			continue
		}
		best = obj
		bestLen = len(candidate)
	}
	return best
}

// matchingBrace returns the index of the brace closing the one at start,
// skipping braces inside string literals, or -1 when unbalanced.
func matchingBrace(s string, start int) int {
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// CleanPage applies the drop-on-invalid policy to a parsed page object and
// returns the typed page result. It never fails: an unusable page comes back
// with zero products.
func CleanPage(raw map[string]any, page int) entity.PageResult {
	result := entity.PageResult{Page: page, OrderInfo: map[string]any{}}

	if info, ok := raw["order_info"].(map[string]any); ok {
		result.OrderInfo = cleanOrderInfo(info)
	}

	rawProducts, _ := raw["products"].([]any)
	for _, rp := range rawProducts {
		pm, ok := rp.(map[string]any)
		if !ok {
			continue
		}
		if product, ok := cleanProduct(pm); ok {
			result.Products = append(result.Products, product)
		}
	}
	return result
}

func cleanProduct(pm map[string]any) (entity.Product, bool) {
	product := entity.Product{
		Name:         asString(pm["name"]),
		MaterialCode: asString(pm["material_code"]),
		Category:     asString(pm["category"]),
		Model:        asString(pm["model"]),
		Composition:  asString(pm["composition"]),
		Brand:        asString(pm["brand"]),
	}

	rawColors, _ := pm["colors"].([]any)
	for _, rc := range rawColors {
		cm, ok := rc.(map[string]any)
		if !ok {
			continue
		}
		if color, ok := cleanColor(cm); ok {
			product.Colors = append(product.Colors, color)
		}
	}
	if len(product.Colors) == 0 {
		return entity.Product{}, false
	}

	if tp := asFloat(pm["total_price"]); tp != nil {
		product.TotalPrice = tp
	} else if sum, ok := product.SumSubtotals(); ok {
		product.TotalPrice = entity.Float64Ptr(sum)
	}
	return product, true
}

func cleanColor(cm map[string]any) (entity.ColorVariant, bool) {
	color := entity.ColorVariant{
		ColorCode:  asString(cm["color_code"]),
		ColorName:  asString(cm["color_name"]),
		UnitPrice:  asFloat(cm["unit_price"]),
		SalesPrice: asFloat(cm["sales_price"]),
		Subtotal:   asFloat(cm["subtotal"]),
	}

	rawSizes, _ := cm["sizes"].([]any)
	for _, rs := range rawSizes {
		sm, ok := rs.(map[string]any)
		if !ok {
			continue
		}
		if _, has := sm["size"]; !has {
			continue
		}
		if _, has := sm["quantity"]; !has {
			continue
		}
		qty := asFloat(sm["quantity"])
		if qty == nil || *qty <= 0 || *qty != math.Trunc(*qty) {
			continue
		}
		color.Sizes = append(color.Sizes, entity.SizeQuantity{
			Size:     asString(sm["size"]),
			Quantity: int(*qty),
		})
	}
	if len(color.Sizes) == 0 {
		return entity.ColorVariant{}, false
	}
	return color, true
}

func cleanOrderInfo(info map[string]any) map[string]any {
	out := make(map[string]any, len(info))
	for k, v := range info {
		out[k] = v
	}
	if v, ok := out["total_pieces"]; ok && v != nil {
		if f := asFloat(v); f != nil {
			out["total_pieces"] = int(*f)
		} else {
			out["total_pieces"] = nil
		}
	}
	if v, ok := out["total_value"]; ok && v != nil {
		if f := asFloat(v); f != nil {
			out["total_value"] = *f
		} else {
			out["total_value"] = nil
		}
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// asFloat coerces JSON numbers and numeric strings; anything else is nil.
// Non-finite values are rejected here so they never enter the pipeline.
func asFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return entity.Float64Ptr(t)
	case int:
		return entity.Float64Ptr(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return entity.Float64Ptr(f)
		}
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return entity.Float64Ptr(f)
		}
	}
	return nil
}
