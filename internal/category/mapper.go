// Package category normalizes free-text product categories into the fixed
// Portuguese taxonomy. Rules apply in a fixed priority order; the first rule
// that produces a match wins.
package category

import (
	"regexp"
	"strings"

	"github.com/mcatarino/order-extractor/internal/catalog"
	"github.com/mcatarino/order-extractor/internal/fuzzy"
)

const closeMatchCutoff = 0.6

type translation struct {
	english    string
	portuguese string
}

// englishToPortuguese translates declared categories. Kept as an ordered
// slice so substring scans are deterministic.
var englishToPortuguese = []translation{
	{"SHIRT", "CAMISAS"},
	{"SHIRTS", "CAMISAS"},
	{"CASUAL SHIRT", "CAMISAS"},
	{"DRESS SHIRT", "CAMISAS"},
	{"FORMAL SHIRT", "CAMISAS"},

	{"COAT", "CASACOS"},
	{"COATS", "CASACOS"},
	{"JACKET", "CASACOS"},
	{"JACKETS", "CASACOS"},
	{"OVERCOAT", "CASACOS"},
	{"RAINCOAT", "CASACOS"},

	{"PARKA", "BLUSÕES E PARKAS"},
	{"PARKAS", "BLUSÕES E PARKAS"},
	{"WIND JACKET", "BLUSÕES E PARKAS"},
	{"WINDBREAKER", "BLUSÕES E PARKAS"},

	{"DRESS", "VESTIDOS"},
	{"DRESSES", "VESTIDOS"},
	{"EVENING DRESS", "VESTIDOS"},
	{"COCKTAIL DRESS", "VESTIDOS"},

	{"BLOUSE", "BLUSAS"},
	{"BLOUSES", "BLUSAS"},
	{"TOP", "BLUSAS"},
	{"TOPS", "BLUSAS"},

	{"PANTS", "CALÇAS"},
	{"TROUSERS", "CALÇAS"},
	{"CHINOS", "CALÇAS"},
	{"SLACKS", "CALÇAS"},

	{"KNITWEAR", "MALHAS"},
	{"KNIT", "MALHAS"},
	{"PULLOVER", "MALHAS"},
	{"SWEATER", "MALHAS"},
	{"CARDIGAN", "MALHAS"},

	{"SKIRT", "SAIAS"},
	{"SKIRTS", "SAIAS"},
	{"MIDI SKIRT", "SAIAS"},
	{"MAXI SKIRT", "SAIAS"},

	{"T-SHIRT", "T-SHIRTS"},
	{"T SHIRT", "T-SHIRTS"},
	{"TEE", "T-SHIRTS"},
	{"TSHIRT", "T-SHIRTS"},

	{"POLO", "POLOS"},
	{"POLO SHIRT", "POLOS"},
	{"JERSEY", "POLOS"},
	{"JERSEYS", "POLOS"},

	{"JEAN", "JEANS"},
	{"DENIM", "JEANS"},
	{"DENIM PANTS", "JEANS"},
	{"JEANS PANTS", "JEANS"},

	{"SWEATSHIRT", "SWEATSHIRTS"},
	{"HOODIE", "SWEATSHIRTS"},
	{"HOODED SWEAT", "SWEATSHIRTS"},
	{"SWEAT", "SWEATSHIRTS"},

	{"BLAZER", "BLAZERS E FATOS"},
	{"SUIT", "BLAZERS E FATOS"},
	{"FORMAL SUIT", "BLAZERS E FATOS"},
	{"TUXEDO", "BLAZERS E FATOS"},

	{"SHOES", "CALÇADO"},
	{"FOOTWEAR", "CALÇADO"},
	{"BOOTS", "CALÇADO"},
	{"SNEAKERS", "CALÇADO"},
	{"LOAFERS", "CALÇADO"},

	{"ACCESSORIES", "ACESSÓRIOS"},
	{"BELT", "ACESSÓRIOS"},
	{"TIE", "ACESSÓRIOS"},
	{"SCARF", "ACESSÓRIOS"},
	{"HAT", "ACESSÓRIOS"},
	{"BAG", "ACESSÓRIOS"},
	{"WALLET", "ACESSÓRIOS"},
	{"JEWELRY", "ACESSÓRIOS"},
	{"WATCH", "ACESSÓRIOS"},
	{"SUNGLASSES", "ACESSÓRIOS"},
	{"ACCESSORY", "ACESSÓRIOS"},
}

// bossPoloPattern matches the HUGO BOSS model names that are always polos or
// knit jerseys regardless of the declared category.
var bossPoloPattern = regexp.MustCompile(
	`PADDY|PAUL|POLO|JERSEY|PIMA|PARLAY|PALLAS|PROUT|PLAYER|PERCY|PAULE|PIRO|PASSERBY|PACELLO|PHILLIPSON|PLISY|PRIDE|PENROSE`)

// keywords is scanned against the category text as a late fallback.
var keywords = []translation{
	{"SHIRT", "CAMISAS"},
	{"COAT", "CASACOS"},
	{"JACKET", "CASACOS"},
	{"DRESS", "VESTIDOS"},
	{"BLOUSE", "BLUSAS"},
	{"TOP", "BLUSAS"},
	{"PANT", "CALÇAS"},
	{"TROUSER", "CALÇAS"},
	{"KNIT", "MALHAS"},
	{"SWEATER", "MALHAS"},
	{"SKIRT", "SAIAS"},
	{"TEE", "T-SHIRTS"},
	{"POLO", "POLOS"},
	{"JEAN", "JEANS"},
	{"DENIM", "JEANS"},
	{"SWEAT", "SWEATSHIRTS"},
	{"HOODIE", "SWEATSHIRTS"},
	{"BLAZER", "BLAZERS E FATOS"},
	{"SUIT", "BLAZERS E FATOS"},
	{"SHOE", "CALÇADO"},
	{"BOOT", "CALÇADO"},
	{"SNEAKER", "CALÇADO"},
}

// Map normalizes a declared category, taking the product name and brand into
// account for brand-specific overrides.
func Map(declared, productName, brand string) string {
	upper := strings.ToUpper(strings.TrimSpace(declared))

	// 1. Already canonical.
	for _, c := range catalog.Categories {
		if upper == c {
			return c
		}
	}

	// 2. Catalog containment fallback.
	if c := catalog.Category(declared); c != "" {
		return c
	}

	// 3. BOSS model names that are always polos.
	if productName != "" && brand != "" {
		brandUpper := strings.ToUpper(brand)
		if strings.Contains(brandUpper, "BOSS") {
			nameUpper := strings.ToUpper(productName)
			if bossPoloPattern.MatchString(nameUpper) ||
				strings.Contains(nameUpper, "KNIT SHIRT") {
				return "POLOS"
			}
		}
	}

	// 4. Direct English translation.
	for _, t := range englishToPortuguese {
		if t.english == upper {
			return t.portuguese
		}
	}

	// 5. Partial translation match.
	if upper != "" {
		for _, t := range englishToPortuguese {
			if strings.Contains(upper, t.english) || strings.Contains(t.english, upper) {
				return t.portuguese
			}
		}
	}

	// 6. Keyword scan.
	for _, k := range keywords {
		if strings.Contains(upper, k.english) {
			return k.portuguese
		}
	}

	// 7. Closest catalog entry, defaulting to accessories.
	return bestMatch(declared)
}

// bestMatch returns the catalog category closest to the input, or the
// default when nothing clears the cutoff.
func bestMatch(declared string) string {
	if strings.TrimSpace(declared) == "" {
		return catalog.DefaultCategory
	}
	if best, _, ok := fuzzy.ClosestMatch(strings.ToUpper(declared), catalog.Categories, closeMatchCutoff); ok {
		return best
	}
	return catalog.DefaultCategory
}
