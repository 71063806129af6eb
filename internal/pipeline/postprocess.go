package pipeline

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mcatarino/order-extractor/internal/barcode"
	"github.com/mcatarino/order-extractor/internal/category"
	"github.com/mcatarino/order-extractor/internal/entity"
	"github.com/mcatarino/order-extractor/internal/supplier"
)

var (
	// namePattern captures the leading alphabetic product name before any
	// trailing numeric model codes.
	namePattern        = regexp.MustCompile(`^([A-Za-z\s]+)(?:\s+\d+.*)?$`)
	digitsPattern      = regexp.MustCompile(`\d+`)
	whitespaceCollapse = regexp.MustCompile(`\s+`)
)

// CleanName strips trailing numeric runs from a product name; names that do
// not fit the leading-alphabetic shape lose all digits instead.
func CleanName(name string) string {
	if m := namePattern.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1])
	}
	cleaned := digitsPattern.ReplaceAllString(name, "")
	return strings.TrimSpace(whitespaceCollapse.ReplaceAllString(cleaned, " "))
}

// PostProcess merges per-page product fragments into the final catalog:
// one supplier for the whole document, cleaned names, normalized categories,
// dedupe by material code with append-only colors, reference lines, uniform
// supplier with fill-don't-overwrite pricing, preserved document brand,
// lexicographic order and barcodes.
func PostProcess(products []entity.Product, docCtx entity.DocumentContext, log *slog.Logger) ([]entity.Product, supplier.Resolution) {
	if log == nil {
		log = slog.Default()
	}

	resolution := supplier.DetermineBest(docCtx)
	log.Info("pipeline.supplier.resolved",
		"supplier", resolution.Name, "code", resolution.Code,
		"markup", resolution.Markup, "source", resolution.Source)

	var processed []entity.Product
	index := map[string]int{}

	for _, p := range products {
		if p.MaterialCode == "" {
			log.Warn("pipeline.product.no_material_code", "name", p.Name)
			continue
		}

		p.Name = CleanName(p.Name)

		if !hasValidColors(p) {
			continue
		}

		brand := p.Brand
		if brand == "" {
			brand = docCtx.Brand
		}
		normalized := category.Map(p.Category, p.Name, brand)
		if normalized != p.Category {
			log.Info("pipeline.category.normalized", "from", p.Category, "to", normalized, "product", p.Name)
		}
		p.Category = normalized

		if at, seen := index[p.MaterialCode]; seen {
			mergeColors(&processed[at], p)
			continue
		}

		p.References = buildReferences(&p)
		index[p.MaterialCode] = len(processed)
		processed = append(processed, p)
	}

	supplier.AssignToProducts(processed, resolution.Name, resolution.Markup)

	for i := range processed {
		if docCtx.HasBrand() {
			processed[i].Brand = docCtx.Brand
		}
		processed[i].Supplier = resolution.Name
	}

	sort.Slice(processed, func(i, j int) bool {
		return processed[i].MaterialCode < processed[j].MaterialCode
	})

	barcode.AddToProducts(processed, barcode.DefaultSeason)
	return processed, resolution
}

func hasValidColors(p entity.Product) bool {
	for _, c := range p.Colors {
		if len(c.Sizes) > 0 {
			return true
		}
	}
	return false
}

// mergeColors appends the incoming product's colors whose color code is not
// present yet, then recomputes the total price from all subtotals. Existing
// colors are never overwritten.
func mergeColors(existing *entity.Product, incoming entity.Product) {
	seen := map[string]struct{}{}
	for _, c := range existing.Colors {
		seen[c.ColorCode] = struct{}{}
	}
	for _, c := range incoming.Colors {
		if c.ColorCode == "" {
			continue
		}
		if _, dup := seen[c.ColorCode]; dup {
			continue
		}
		existing.Colors = append(existing.Colors, c)
		seen[c.ColorCode] = struct{}{}
	}
	if sum, ok := existing.SumSubtotals(); ok {
		existing.TotalPrice = entity.Float64Ptr(sum)
	} else {
		existing.TotalPrice = nil
	}
}

// buildReferences emits one line per positive-quantity size, colors in
// order, counter starting at 1 per material code. Barcodes are attached in
// the final pass once the supplier is settled.
func buildReferences(p *entity.Product) []entity.Reference {
	var refs []entity.Reference
	counter := 0
	for _, color := range p.Colors {
		for _, size := range color.Sizes {
			if size.Quantity <= 0 {
				continue
			}
			counter++
			refs = append(refs, entity.Reference{
				Reference:   p.MaterialCode + "." + strconv.Itoa(counter),
				Counter:     counter,
				ColorCode:   color.ColorCode,
				ColorName:   color.ColorName,
				Size:        size.Size,
				Quantity:    size.Quantity,
				Description: p.Name + "[" + color.ColorCode + "/" + size.Size + "]",
			})
		}
	}
	return refs
}
