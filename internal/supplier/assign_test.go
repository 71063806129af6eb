package supplier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcatarino/order-extractor/internal/catalog"
	"github.com/mcatarino/order-extractor/internal/entity"
)

func TestDetermineBestSupplierContext(t *testing.T) {
	res := DetermineBest(entity.DocumentContext{Supplier: "HUGO BOSS", Brand: "BOSS"})
	assert.Equal(t, "HUGO BOSS", res.Name)
	assert.Equal(t, "02", res.Code)
	assert.InDelta(t, 2.73, res.Markup, 0.001)
	assert.Equal(t, "supplier_context", res.Source)
}

func TestDetermineBestBrandBeatsUnmatchedSupplier(t *testing.T) {
	res := DetermineBest(entity.DocumentContext{
		Supplier: "Zzz Qqq Trading",
		Brand:    "GANT",
	})
	assert.Equal(t, "GANT", res.Name)
	assert.Equal(t, "01", res.Code)
	assert.Equal(t, "brand_context", res.Source)
}

func TestDetermineBestFallbackToRawCandidate(t *testing.T) {
	res := DetermineBest(entity.DocumentContext{Supplier: "Zzz Qqq Trading"})
	assert.Equal(t, "Zzz Qqq Trading", res.Name)
	assert.Equal(t, "", res.Code)
	assert.InDelta(t, catalog.DefaultMarkup, res.Markup, 0.001)
}

func TestDetermineBestNoCandidates(t *testing.T) {
	res := DetermineBest(entity.DocumentContext{})
	assert.Equal(t, entity.PlaceholderSupplier, res.Name)
	assert.InDelta(t, catalog.DefaultMarkup, res.Markup, 0.001)

	// Placeholders do not count as candidates.
	res = DetermineBest(entity.DocumentContext{
		Supplier: entity.PlaceholderSupplier,
		Brand:    entity.PlaceholderBrand,
	})
	assert.Equal(t, entity.PlaceholderSupplier, res.Name)
}

func TestDetermineBestMissingMarkupFallsBack(t *testing.T) {
	// LVX has no markup on record.
	res := DetermineBest(entity.DocumentContext{Supplier: "LVX"})
	assert.Equal(t, "LVX", res.Name)
	assert.InDelta(t, catalog.DefaultMarkup, res.Markup, 0.001)
}

func TestAssignToProducts(t *testing.T) {
	products := []entity.Product{
		{
			Name:         "Paddy",
			MaterialCode: "123456",
			Colors: []entity.ColorVariant{
				{
					ColorCode: "008",
					Sizes:     []entity.SizeQuantity{{Size: "M", Quantity: 2}, {Size: "L", Quantity: 3}},
					UnitPrice: entity.Float64Ptr(10),
				},
				{
					ColorCode:  "010",
					Sizes:      []entity.SizeQuantity{{Size: "M", Quantity: 1}},
					UnitPrice:  entity.Float64Ptr(20),
					SalesPrice: entity.Float64Ptr(99),
					Subtotal:   entity.Float64Ptr(42),
				},
			},
			References: []entity.Reference{{Reference: "123456.1"}},
		},
	}

	AssignToProducts(products, "HUGO BOSS", 2.73)

	p := products[0]
	assert.Equal(t, "HUGO BOSS", p.Supplier)
	assert.Equal(t, "HUGO BOSS", p.Colors[0].Supplier)
	assert.Equal(t, "HUGO BOSS", p.References[0].Supplier)

	// Missing prices are derived from the markup and quantities.
	require.NotNil(t, p.Colors[0].SalesPrice)
	assert.InDelta(t, 27.3, *p.Colors[0].SalesPrice, 0.001)
	require.NotNil(t, p.Colors[0].Subtotal)
	assert.InDelta(t, 50.0, *p.Colors[0].Subtotal, 0.001)

	// Present prices are never overwritten.
	assert.InDelta(t, 99.0, *p.Colors[1].SalesPrice, 0.001)
	assert.InDelta(t, 42.0, *p.Colors[1].Subtotal, 0.001)
}

func TestAssignToProductsNoUnitPrice(t *testing.T) {
	products := []entity.Product{
		{
			MaterialCode: "654321",
			Colors: []entity.ColorVariant{
				{ColorCode: "001", Sizes: []entity.SizeQuantity{{Size: "S", Quantity: 1}}},
			},
		},
	}
	AssignToProducts(products, "GANT", 1.65)
	assert.Nil(t, products[0].Colors[0].SalesPrice)
	assert.Nil(t, products[0].Colors[0].Subtotal)
}
