package extract

import (
	"encoding/json"
	"strings"

	"github.com/mcatarino/order-extractor/internal/entity"
)

// Recover runs only after PageJSON failed outright: it scans the raw text
// for product-shaped substrings and salvages whatever parses. The returned
// page is flagged as partially recovered; ok is false when nothing usable
// was found.
func Recover(text string, page int) (entity.PageResult, bool) {
	// Sloppy model output sometimes single-quotes its JSON; normalizing up
	// front lets the brace scanner treat both forms the same.
	text = strings.ReplaceAll(text, "'", `"`)

	var rawProducts []any
	for idx := 0; idx < len(text); {
		pos := strings.Index(text[idx:], `{"name"`)
		if pos < 0 {
			break
		}
		start := idx + pos
		end := matchingBrace(text, start)
		if end < 0 {
			idx = start + 1
			continue
		}
		candidate := text[start : end+1]
		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
			if _, ok := obj["colors"]; ok {
				rawProducts = append(rawProducts, obj)
			}
		}
		idx = end + 1
	}
	if len(rawProducts) == 0 {
		return entity.PageResult{}, false
	}

	result := CleanPage(map[string]any{"products": rawProducts}, page)
	if len(result.Products) == 0 {
		return entity.PageResult{}, false
	}
	result.PartiallyRecovered = true
	return result, true
}
