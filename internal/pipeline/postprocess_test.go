package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcatarino/order-extractor/internal/entity"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Paddy 123456", "Paddy"},
		{"Paddy", "Paddy"},
		{"Knit Shirt 10234 56", "Knit Shirt"},
		// The hyphen breaks the leading-alphabetic shape, so digit runs are
		// stripped and whitespace collapsed instead.
		{"C-Paddy 12 Slim", "C-Paddy Slim"},
		{"  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanName(tt.in), "input %q", tt.in)
	}
}

func twoPageFragments() []entity.Product {
	// Same material code seen on two pages with overlapping and new colors.
	return []entity.Product{
		{
			Name:         "Paddy 123",
			MaterialCode: "50468301",
			Category:     "Polo",
			Brand:        "HUGO BOSS",
			Colors: []entity.ColorVariant{{
				ColorCode: "008",
				ColorName: "Azul",
				UnitPrice: entity.Float64Ptr(30),
				Subtotal:  entity.Float64Ptr(60),
				Sizes:     []entity.SizeQuantity{{Size: "M", Quantity: 2}},
			}},
		},
		{
			Name:         "Paddy 123",
			MaterialCode: "50468301",
			Category:     "Polo",
			Brand:        "HUGO BOSS",
			Colors: []entity.ColorVariant{
				{
					// Duplicate color: ignored on merge.
					ColorCode: "008",
					ColorName: "Azul",
					UnitPrice: entity.Float64Ptr(31),
					Subtotal:  entity.Float64Ptr(999),
					Sizes:     []entity.SizeQuantity{{Size: "S", Quantity: 1}},
				},
				{
					// New color: appended.
					ColorCode: "010",
					ColorName: "Preto",
					UnitPrice: entity.Float64Ptr(30),
					Subtotal:  entity.Float64Ptr(90),
					Sizes:     []entity.SizeQuantity{{Size: "L", Quantity: 3}},
				},
			},
		},
	}
}

func TestPostProcessMergesAcrossPages(t *testing.T) {
	docCtx := entity.DocumentContext{Supplier: "HUGO BOSS", Brand: "HUGO BOSS"}

	processed, resolution := PostProcess(twoPageFragments(), docCtx, nil)
	require.Len(t, processed, 1)
	assert.Equal(t, "HUGO BOSS", resolution.Name)
	assert.Equal(t, "02", resolution.Code)

	p := processed[0]
	assert.Equal(t, "Paddy", p.Name)
	assert.Equal(t, "POLOS", p.Category)

	// First-seen color wins; the new color is appended.
	require.Len(t, p.Colors, 2)
	assert.Equal(t, "008", p.Colors[0].ColorCode)
	assert.InDelta(t, 30.0, *p.Colors[0].UnitPrice, 0.001)
	assert.Equal(t, "010", p.Colors[1].ColorCode)

	// Total price recomputed from the merged subtotals.
	require.NotNil(t, p.TotalPrice)
	assert.InDelta(t, 150.0, *p.TotalPrice, 0.001)

	// References rebuilt across both colors with a continuing counter.
	require.Len(t, p.References, 2)
	assert.Equal(t, "50468301.1", p.References[0].Reference)
	assert.Equal(t, "50468301.2", p.References[1].Reference)
	assert.Equal(t, "010", p.References[1].ColorCode)
	assert.Len(t, p.References[0].Barcode, 13)
	assert.Equal(t, "Paddy[008/M]", p.References[0].Description)

	// Supplier stamped uniformly.
	assert.Equal(t, "HUGO BOSS", p.Supplier)
	for _, c := range p.Colors {
		assert.Equal(t, "HUGO BOSS", c.Supplier)
	}
	for _, r := range p.References {
		assert.Equal(t, "HUGO BOSS", r.Supplier)
	}
}

func TestPostProcessSkipsInvalidProducts(t *testing.T) {
	products := []entity.Product{
		{Name: "No Code", Colors: []entity.ColorVariant{{
			ColorCode: "001",
			Sizes:     []entity.SizeQuantity{{Size: "M", Quantity: 1}},
		}}},
		{Name: "No Colors", MaterialCode: "111111"},
		{Name: "Empty Sizes", MaterialCode: "222222", Colors: []entity.ColorVariant{{ColorCode: "001"}}},
		{Name: "Valid", MaterialCode: "333333", Colors: []entity.ColorVariant{{
			ColorCode: "001",
			Sizes:     []entity.SizeQuantity{{Size: "M", Quantity: 1}},
		}}},
	}

	processed, _ := PostProcess(products, entity.DocumentContext{}, nil)
	require.Len(t, processed, 1)
	assert.Equal(t, "333333", processed[0].MaterialCode)
}

func TestPostProcessSortsByMaterialCode(t *testing.T) {
	products := []entity.Product{
		{MaterialCode: "999999", Colors: []entity.ColorVariant{{
			ColorCode: "001", Sizes: []entity.SizeQuantity{{Size: "M", Quantity: 1}},
		}}},
		{MaterialCode: "111111", Colors: []entity.ColorVariant{{
			ColorCode: "002", Sizes: []entity.SizeQuantity{{Size: "M", Quantity: 1}},
		}}},
	}

	processed, _ := PostProcess(products, entity.DocumentContext{}, nil)
	require.Len(t, processed, 2)
	assert.Equal(t, "111111", processed[0].MaterialCode)
	assert.Equal(t, "999999", processed[1].MaterialCode)
}

func TestPostProcessDocumentBrandWins(t *testing.T) {
	products := []entity.Product{{
		MaterialCode: "111111",
		Brand:        "SOMETHING ELSE",
		Colors: []entity.ColorVariant{{
			ColorCode: "001", Sizes: []entity.SizeQuantity{{Size: "M", Quantity: 1}},
		}},
	}}
	docCtx := entity.DocumentContext{Supplier: "GANT", Brand: "GANT"}

	processed, resolution := PostProcess(products, docCtx, nil)
	require.Len(t, processed, 1)
	assert.Equal(t, "GANT", processed[0].Brand)
	assert.Equal(t, "GANT", resolution.Name)
	assert.InDelta(t, 1.65, resolution.Markup, 0.001)
}

func TestPostProcessFillsPricesWithoutOverwriting(t *testing.T) {
	products := []entity.Product{{
		MaterialCode: "111111",
		Colors: []entity.ColorVariant{
			{
				ColorCode: "001",
				UnitPrice: entity.Float64Ptr(10),
				Sizes:     []entity.SizeQuantity{{Size: "M", Quantity: 2}},
			},
			{
				ColorCode:  "002",
				UnitPrice:  entity.Float64Ptr(10),
				SalesPrice: entity.Float64Ptr(55),
				Subtotal:   entity.Float64Ptr(44),
				Sizes:      []entity.SizeQuantity{{Size: "M", Quantity: 1}},
			},
		},
	}}
	docCtx := entity.DocumentContext{Supplier: "HUGO BOSS"}

	processed, _ := PostProcess(products, docCtx, nil)
	require.Len(t, processed, 1)
	c0 := processed[0].Colors[0]
	require.NotNil(t, c0.SalesPrice)
	assert.InDelta(t, 27.3, *c0.SalesPrice, 0.001)
	require.NotNil(t, c0.Subtotal)
	assert.InDelta(t, 20.0, *c0.Subtotal, 0.001)

	c1 := processed[0].Colors[1]
	assert.InDelta(t, 55.0, *c1.SalesPrice, 0.001)
	assert.InDelta(t, 44.0, *c1.Subtotal, 0.001)
}
