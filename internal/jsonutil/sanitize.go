// Package jsonutil guarantees the pipeline's output is always serializable:
// a structural sanitizer that replaces non-finite numbers, and a typed
// recovery pass that derives missing prices instead of zeroing them.
package jsonutil

import (
	"math"

	"github.com/mcatarino/order-extractor/internal/entity"
)

// MaxDepth bounds the sanitizer's recursion. Nodes deeper than this come
// back as nil.
const MaxDepth = 100

// Sanitize walks obj and replaces every NaN or ±Inf float with
// defaultNumber. The traversal is depth-bounded and idempotent; the input is
// not modified.
func Sanitize(obj any, defaultNumber any) any {
	return sanitize(obj, defaultNumber, 0)
}

// SanitizeZero replaces non-finite numbers with 0.0, the policy for tabular
// export.
func SanitizeZero(obj any) any {
	return Sanitize(obj, 0.0)
}

// SanitizeNull replaces non-finite numbers with null, the policy for API
// responses.
func SanitizeNull(obj any) any {
	return Sanitize(obj, nil)
}

func sanitize(obj any, defaultNumber any, depth int) any {
	if depth > MaxDepth {
		return nil
	}
	switch t := obj.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return defaultNumber
		}
		return t
	case float32:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return defaultNumber
		}
		return f
	case *float64:
		if t == nil {
			return nil
		}
		return sanitize(*t, defaultNumber, depth+1)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = sanitize(v, defaultNumber, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = sanitize(v, defaultNumber, depth+1)
		}
		return out
	default:
		return obj
	}
}

// FixProducts is the last-resort numeric consistency pass before
// persistence: instead of zeroing broken prices it derives them from the
// unit price, markup and quantities. Sizes with non-positive quantity are
// dropped, then colors without sizes, then products without colors.
func FixProducts(products []entity.Product, markup float64) []entity.Product {
	if markup <= 0 {
		markup = 2.73
	}
	fixed := make([]entity.Product, 0, len(products))
	for _, p := range products {
		var colors []entity.ColorVariant
		for _, c := range p.Colors {
			if c.UnitPrice == nil || !isFinite(*c.UnitPrice) {
				c.UnitPrice = entity.Float64Ptr(0)
			}
			if c.SalesPrice == nil || !isFinite(*c.SalesPrice) {
				c.SalesPrice = entity.Float64Ptr(round2(*c.UnitPrice * markup))
			}

			var sizes []entity.SizeQuantity
			for _, s := range c.Sizes {
				if s.Quantity > 0 {
					sizes = append(sizes, s)
				}
			}
			c.Sizes = sizes

			if c.Subtotal == nil || !isFinite(*c.Subtotal) {
				c.Subtotal = entity.Float64Ptr(round2(*c.UnitPrice * float64(c.TotalQuantity())))
			}
			if len(c.Sizes) > 0 {
				colors = append(colors, c)
			}
		}
		p.Colors = colors

		if p.TotalPrice == nil || !isFinite(*p.TotalPrice) {
			sum, _ := p.SumSubtotals()
			p.TotalPrice = entity.Float64Ptr(sum)
		}
		if len(p.Colors) > 0 {
			fixed = append(fixed, p)
		}
	}
	return fixed
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
