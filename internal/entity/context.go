package entity

// DocumentContext is the pre-extraction analysis of a document's first page.
// It steers the per-page prompts and supplies the supplier/brand defaults the
// merger falls back to. LayoutInfo is consumed only by prompt construction,
// never by merge logic.
type DocumentContext struct {
	DocumentType    string `json:"document_type,omitempty"`
	Supplier        string `json:"supplier"`
	Brand           string `json:"brand"`
	Customer        string `json:"customer,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Date            string `json:"date,omitempty"`
	Season          string `json:"season,omitempty"`
	LayoutInfo      string `json:"layout_info,omitempty"`
}

// PlaceholderSupplier and PlaceholderBrand mark an analysis that could not
// identify the field. They are treated as absent everywhere downstream.
const (
	PlaceholderSupplier = "Fornecedor não identificado"
	PlaceholderBrand    = "Marca não identificada"
)

// HasSupplier reports whether the context carries a real supplier name.
func (c DocumentContext) HasSupplier() bool {
	return c.Supplier != "" && c.Supplier != PlaceholderSupplier
}

// HasBrand reports whether the context carries a real brand name.
func (c DocumentContext) HasBrand() bool {
	return c.Brand != "" && c.Brand != PlaceholderBrand
}
