package supplier

import (
	"math"

	"github.com/mcatarino/order-extractor/internal/catalog"
	"github.com/mcatarino/order-extractor/internal/entity"
)

// Resolution is the document-level supplier decision. Code is "" and the
// markup falls back to the catalog default when the name never resolved to a
// known supplier.
type Resolution struct {
	Name   string
	Code   string
	Markup float64
	Source string
}

// DetermineBest picks one supplier for the whole document from the context's
// supplier and brand strings. The declared supplier field outranks the brand
// via a +0.1 bonus, but a brand that matches the catalog beats an unmatched
// supplier string. With no usable candidate the placeholder is returned.
func DetermineBest(ctx entity.DocumentContext) Resolution {
	type candidate struct {
		source string
		value  string
	}
	var candidates []candidate
	if ctx.HasSupplier() {
		candidates = append(candidates, candidate{"supplier_context", ctx.Supplier})
	}
	if ctx.HasBrand() && ctx.Brand != ctx.Supplier {
		candidates = append(candidates, candidate{"brand_context", ctx.Brand})
	}
	if len(candidates) == 0 {
		return Resolution{Name: entity.PlaceholderSupplier, Markup: catalog.DefaultMarkup}
	}

	var best Resolution
	bestScore := 0.0
	for _, c := range candidates {
		matched, code := MatchWithCode(c.value)
		if code == "" {
			continue
		}
		if _, inCatalog := catalog.SupplierByName(matched); !inCatalog {
			continue
		}
		score := 0.8
		if matched == c.value {
			score = 1.0
		}
		if c.source == "supplier_context" {
			score += 0.1
		}
		if score > bestScore {
			bestScore = score
			best = Resolution{Name: matched, Code: code, Source: c.source}
		}
	}

	if best.Name == "" {
		return Resolution{
			Name:   candidates[0].value,
			Markup: catalog.DefaultMarkup,
			Source: candidates[0].source,
		}
	}
	best.Markup = catalog.Markup(best.Code)
	if best.Markup == 0 {
		best.Markup = catalog.DefaultMarkup
	}
	return best
}

// AssignToProducts stamps the resolved supplier onto every product, color and
// reference, and fills missing sales prices and subtotals from the markup.
// Present prices are never overwritten.
func AssignToProducts(products []entity.Product, name string, markup float64) {
	for i := range products {
		p := &products[i]
		p.Supplier = name
		for j := range p.Colors {
			c := &p.Colors[j]
			c.Supplier = name
			if c.SalesPrice == nil && c.UnitPrice != nil {
				c.SalesPrice = entity.Float64Ptr(round2(*c.UnitPrice * markup))
			}
			if c.Subtotal == nil && c.UnitPrice != nil {
				if qty := c.TotalQuantity(); qty > 0 {
					c.Subtotal = entity.Float64Ptr(round2(*c.UnitPrice * float64(qty)))
				}
			}
		}
		for j := range p.References {
			p.References[j].Supplier = name
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
