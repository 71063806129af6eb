// Package catalog holds the fixed reference tables (colors, sizes,
// categories, suppliers) every free-text value extracted from a document is
// resolved toward. Lookups never fail hard: an unmatched input yields the
// zero value and the caller applies its own default policy.
package catalog

import "strings"

// DefaultMarkup is applied when a supplier has no markup on record.
const DefaultMarkup = 2.73

// DefaultCategory is the fallback when no category rule matches.
const DefaultCategory = "ACESSÓRIOS"

// colorNames maps 3-digit color codes to canonical Portuguese names.
var colorNames = map[string]string{
	"001": "Branco",
	"002": "Vermelho",
	"003": "Verde",
	"004": "Castanho",
	"005": "Amarelo",
	"006": "Lilás",
	"007": "Rosa",
	"008": "Azul",
	"009": "Laranja",
	"010": "Preto",
	"011": "Cinza",
	"012": "Bege",
	"013": "Camel",
	"014": "Coral",
	"015": "Chocolate",
	"016": "Creme",
	"017": "Dourado",
	"018": "Gelo",
	"019": "Grená",
	"020": "Turquesa",
	"021": "Prata",
	"022": "Púrpura",
	"023": "Roxo",
	"024": "Violeta",
	"025": "Salmão",
	"026": "Bronze",
	"027": "Cereja",
	"028": "Fucsia",
	"029": "Marfim",
	"030": "Tijolo",
}

var colorCodes = invert(colorNames)

// sizeCodes maps size labels to 3-digit codes used in barcodes.
var sizeCodes = map[string]string{
	"XS": "001", "S": "002", "M": "003", "L": "004", "XL": "005",
	"XXL": "006", "XXXL": "007",
	"31": "008", "32": "009", "33": "010", "34": "011", "35": "012",
	"36": "013", "37": "014", "38": "015", "39": "016", "40": "017",
	"42": "018", "44": "019", "46": "020", "48": "021", "50": "022",
	"52": "023", "54": "024", "56": "025", "58": "026",
	"2": "027", "4": "028", "6": "029", "8": "030", "10": "031",
	"12": "032", "14": "033", "16": "034",
	"TU": "035",
	"28": "036", "29": "037", "30": "038", "26": "039", "27": "040",
	"39-40": "041", "41-42": "042", "43-44": "043", "41": "044", "43": "045",
}

// Categories is the fixed Portuguese taxonomy every product category is
// normalized into.
var Categories = []string{
	"CAMISAS",
	"CASACOS",
	"VESTIDOS",
	"BLUSAS",
	"CALÇAS",
	"CALÇÃO",
	"MALHAS",
	"SAIAS",
	"T-SHIRTS",
	"POLOS",
	"JEANS",
	"SWEATSHIRTS",
	"BLAZERS E FATOS",
	"BLUSÕES E PARKAS",
	"CALÇADO",
	"TOP",
	"ACESSÓRIOS",
}

// Supplier is one catalog supplier entry. Markup 0 means no markup on
// record; callers fall back to DefaultMarkup.
type Supplier struct {
	Code   string
	Name   string
	Markup float64
}

// suppliers is kept in code order; tie-breaks in fuzzy matching depend on
// iteration order being stable.
var suppliers = []Supplier{
	{Code: "01", Name: "GANT", Markup: 1.65},
	{Code: "02", Name: "HUGO BOSS", Markup: 2.73},
	{Code: "03", Name: "VANDOMA- António M. Sousa", Markup: 4.0},
	{Code: "04", Name: "ESCORPION", Markup: 2.6},
	{Code: "05", Name: "MAXMARA", Markup: 2.6},
	{Code: "06", Name: "MARELLA", Markup: 2.7},
	{Code: "07", Name: "PAUL & SHARK- DAMA", Markup: 2.5},
	{Code: "08", Name: "MARCOTEX", Markup: 2.7},
	{Code: "09", Name: "FLORENTINO COLECCION", Markup: 2.6},
	{Code: "10", Name: "MEYER- HOSEN", Markup: 2.7},
	{Code: "11", Name: "DECENIO", Markup: 2.5},
	{Code: "12", Name: "MIGUEL BELLIDO", Markup: 3.0},
	{Code: "13", Name: "LINDENMANN", Markup: 3.0},
	{Code: "15", Name: "TOMMY HILFIGER", Markup: 2.45},
	{Code: "17", Name: "LEBEK FASHION", Markup: 3.0},
	{Code: "18", Name: "NAULOVER", Markup: 2.6},
	{Code: "20", Name: "DIELMAR", Markup: 2.6},
	{Code: "22", Name: "RALPH LAUREN", Markup: 2.7},
	{Code: "23", Name: "LVX"},
	{Code: "24", Name: "LIU.JO", Markup: 2.6},
	{Code: "25", Name: "PENNYBLACK", Markup: 2.6},
	{Code: "26", Name: "CB BENNETT", Markup: 3.0},
	{Code: "27", Name: "TOMMY HILFIGER- ACESS"},
	{Code: "28", Name: "REFIVE"},
	{Code: "29", Name: "MICHAELA LOUISA"},
	{Code: "30", Name: "COCCINELLE", Markup: 2.61},
	{Code: "31", Name: "LOVE MOSCHINO- SINV", Markup: 2.6},
	{Code: "32", Name: "BOUTIQUE MOSCHINO-AEFFE", Markup: 2.6},
	{Code: "33", Name: "TWINSET- ANDRÉ COSTA", Markup: 2.5},
	{Code: "35", Name: "MORPHOPOLIS OFICINA DE ARQUITECTURA"},
}

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// ColorName returns the canonical name for a color code, or the code itself
// when unknown.
func ColorName(code string) string {
	if name, ok := colorNames[code]; ok {
		return name
	}
	return code
}

// ColorCodeKnown reports whether code is a catalog color code.
func ColorCodeKnown(code string) bool {
	_, ok := colorNames[code]
	return ok
}

// ColorCode resolves a color name to its code, trying an exact match first
// and then case-insensitive substring containment in either direction.
// Returns "" when nothing matches.
func ColorCode(name string) string {
	if code, ok := colorCodes[name]; ok {
		return code
	}
	upper := strings.ToUpper(name)
	for n, code := range colorNames {
		cn := strings.ToUpper(n)
		if strings.Contains(upper, cn) || strings.Contains(cn, upper) {
			return code
		}
	}
	return ""
}

// SizeCode returns the 3-digit code for a size label, or "" when unknown.
func SizeCode(size string) string {
	return sizeCodes[strings.ToUpper(strings.TrimSpace(size))]
}

// NormalizeSize maps spelled-out size labels onto catalog labels. Unknown
// sizes pass through unchanged.
func NormalizeSize(size string) string {
	upper := strings.ToUpper(strings.TrimSpace(size))
	if _, ok := sizeCodes[upper]; ok {
		return upper
	}
	switch upper {
	case "EXTRA SMALL":
		return "XS"
	case "SMALL":
		return "S"
	case "MEDIUM":
		return "M"
	case "LARGE":
		return "L"
	case "EXTRA LARGE":
		return "XL"
	case "2XL", "XX LARGE", "EXTRA EXTRA LARGE":
		return "XXL"
	case "3XL", "XXX LARGE":
		return "XXXL"
	}
	return size
}

// Category returns the canonical category for name via exact then substring
// containment match, or "" when nothing matches.
func Category(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return ""
	}
	for _, c := range Categories {
		if c == upper {
			return c
		}
	}
	for _, c := range Categories {
		if strings.Contains(upper, c) || strings.Contains(c, upper) {
			return c
		}
	}
	return ""
}

// Suppliers returns the supplier table in catalog order.
func Suppliers() []Supplier {
	return suppliers
}

// SupplierByName returns the supplier whose canonical name equals name.
func SupplierByName(name string) (Supplier, bool) {
	for _, s := range suppliers {
		if s.Name == name {
			return s, true
		}
	}
	return Supplier{}, false
}

// SupplierCode resolves a supplier name to its 2-digit code, exact match
// first, then substring containment either way. Returns "" when unknown.
func SupplierCode(name string) string {
	if s, ok := SupplierByName(name); ok {
		return s.Code
	}
	upper := strings.ToUpper(name)
	for _, s := range suppliers {
		sn := strings.ToUpper(s.Name)
		if strings.Contains(upper, sn) || strings.Contains(sn, upper) {
			return s.Code
		}
	}
	return ""
}

// SupplierByCode returns the supplier for a code, tolerating a missing
// leading zero.
func SupplierByCode(code string) (Supplier, bool) {
	if len(code) == 1 {
		code = "0" + code
	}
	for _, s := range suppliers {
		if s.Code == code {
			return s, true
		}
	}
	return Supplier{}, false
}

// Markup returns the markup for a supplier code, or 0 when the supplier is
// unknown or carries no markup.
func Markup(code string) float64 {
	s, ok := SupplierByCode(code)
	if !ok {
		return 0
	}
	return s.Markup
}
