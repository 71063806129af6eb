// Package barcode derives the 13-digit numeric codes printed on article
// labels: season(2) + supplier(2) + sequence(3) + color(3) + size(3).
package barcode

import (
	"fmt"

	"github.com/mcatarino/order-extractor/internal/catalog"
	"github.com/mcatarino/order-extractor/internal/entity"
	"github.com/mcatarino/order-extractor/internal/supplier"
)

// DefaultSeason is used until season codes are wired through from order
// metadata.
const DefaultSeason = "00"

// Generate composes one barcode. The sequence segment is 100+counter so it
// never carries leading zeros; the counter caps at 899 to keep the segment
// three digits. Generation never fails: unresolvable parts fall back to
// fixed defaults.
func Generate(supplierName string, counter int, colorCode, size, seasonCode string) string {
	if seasonCode == "" {
		seasonCode = DefaultSeason
	}

	_, supplierCode := supplier.MatchWithCode(supplierName)
	if supplierCode == "" {
		supplierCode = "00"
	}
	supplierCode = pad(supplierCode, 2)

	counterCode := fmt.Sprintf("%03d", 100+min(counter, 899))

	if colorCode == "" {
		colorCode = "001"
	}
	colorCode = pad(colorCode, 3)

	sizeCode := catalog.SizeCode(size)
	if sizeCode == "" {
		sizeCode = "001"
	}
	sizeCode = pad(sizeCode, 3)

	return seasonCode + supplierCode + counterCode + colorCode + sizeCode
}

// Dummy is the placeholder emitted when a barcode cannot be composed; it
// keeps the 13-digit layout with the counter embedded.
func Dummy(counter int) string {
	return fmt.Sprintf("0001100%03d001001", counter)
}

// AddToProducts rebuilds every product's reference list with barcodes,
// iterating colors and sizes in input order and restarting the counter per
// product.
func AddToProducts(products []entity.Product, seasonCode string) {
	for i := range products {
		p := &products[i]
		counter := 0
		var refs []entity.Reference
		for _, color := range p.Colors {
			supplierName := color.Supplier
			if supplierName == "" {
				supplierName = p.Brand
			}
			for _, size := range color.Sizes {
				if size.Quantity <= 0 {
					continue
				}
				counter++
				refs = append(refs, entity.Reference{
					Reference: fmt.Sprintf("%s.%d", p.MaterialCode, counter),
					Counter:   counter,
					ColorCode: color.ColorCode,
					ColorName: color.ColorName,
					Size:      size.Size,
					Quantity:  size.Quantity,
					Description: fmt.Sprintf("%s[%s/%s]",
						p.Name, color.ColorCode, size.Size),
					Barcode:  Generate(supplierName, counter, color.ColorCode, size.Size, seasonCode),
					Supplier: supplierName,
				})
			}
		}
		p.References = refs
	}
}

func pad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	if len(s) > width {
		s = s[len(s)-width:]
	}
	return s
}
