// Package entity defines the data shapes flowing through the extraction
// pipeline, from raw page fragments to the final merged catalog.
package entity

// SizeQuantity is one size line inside a color variant. Quantity is always
// positive once cleaning has run.
type SizeQuantity struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// ColorVariant groups the sizes ordered for one color of a product. Prices
// live here: unit price as printed on the document, sales price derived from
// the supplier markup, subtotal for the color's total quantity.
type ColorVariant struct {
	ColorCode  string         `json:"color_code"`
	ColorName  string         `json:"color_name,omitempty"`
	Sizes      []SizeQuantity `json:"sizes"`
	UnitPrice  *float64       `json:"unit_price,omitempty"`
	SalesPrice *float64       `json:"sales_price,omitempty"`
	Subtotal   *float64       `json:"subtotal,omitempty"`
	Supplier   string         `json:"supplier,omitempty"`
}

// TotalQuantity sums the variant's size quantities.
func (v ColorVariant) TotalQuantity() int {
	total := 0
	for _, s := range v.Sizes {
		total += s.Quantity
	}
	return total
}

// Reference is one derived per-color-size line: a sequential counter scoped
// to the material code, plus the 13-digit barcode for the line.
type Reference struct {
	Reference   string `json:"reference"`
	Counter     int    `json:"counter"`
	ColorCode   string `json:"color_code"`
	ColorName   string `json:"color_name,omitempty"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
	Barcode     string `json:"barcode"`
	Supplier    string `json:"supplier,omitempty"`
}

// Product is one catalog article, merged across pages by material code.
type Product struct {
	Name         string         `json:"name"`
	MaterialCode string         `json:"material_code"`
	Category     string         `json:"category,omitempty"`
	Model        string         `json:"model,omitempty"`
	Composition  string         `json:"composition,omitempty"`
	Brand        string         `json:"brand,omitempty"`
	Supplier     string         `json:"supplier,omitempty"`
	Colors       []ColorVariant `json:"colors"`
	References   []Reference    `json:"references,omitempty"`
	TotalPrice   *float64       `json:"total_price,omitempty"`
}

// TotalQuantity sums quantities across every color and size.
func (p Product) TotalQuantity() int {
	total := 0
	for _, c := range p.Colors {
		total += c.TotalQuantity()
	}
	return total
}

// SumSubtotals adds up the non-nil color subtotals. ok is false when no
// color carries a subtotal.
func (p Product) SumSubtotals() (sum float64, ok bool) {
	for _, c := range p.Colors {
		if c.Subtotal != nil {
			sum += *c.Subtotal
			ok = true
		}
	}
	return sum, ok
}

// PageResult is the cleaned output of one document page.
type PageResult struct {
	Page               int            `json:"page"`
	Products           []Product      `json:"products"`
	OrderInfo          map[string]any `json:"order_info,omitempty"`
	PartiallyRecovered bool           `json:"partially_recovered,omitempty"`
}

// ExtractionResult is the merged, post-processed output of one document.
type ExtractionResult struct {
	Products  []Product      `json:"products"`
	OrderInfo map[string]any `json:"order_info,omitempty"`
	PageCount int            `json:"page_count"`
	PagesUsed int            `json:"pages_used"`
	Supplier  string         `json:"supplier,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// Float64Ptr returns a pointer to v. Optional numeric fields throughout the
// pipeline use *float64 so "absent" and "zero" stay distinct.
func Float64Ptr(v float64) *float64 {
	return &v
}
