package colors

import "strings"

// fallbackEntry keeps insertion order so substring scans are deterministic.
type fallbackEntry struct {
	key  string
	code string
	name string
}

// fallbackTable covers the color variants the classifier historically got
// wrong plus the basic English and Portuguese names. Exact match first, then
// substring containment in either direction, in table order.
var fallbackTable = []fallbackEntry{
	{"charcoal", "011", "Cinza"},
	{"natural", "012", "Bege"},
	{"navy", "008", "Azul"},
	{"navy blue", "008", "Azul"},
	{"dark blue", "008", "Azul"},
	{"light blue", "008", "Azul"},
	{"pastel blue", "008", "Azul"},
	{"open green", "003", "Verde"},
	{"medium green", "003", "Verde"},
	{"light pink", "007", "Rosa"},
	{"pastel pink", "007", "Rosa"},
	{"light/pastel pink", "007", "Rosa"},
	{"open beige", "012", "Bege"},
	{"open red", "002", "Vermelho"},

	{"white", "001", "Branco"},
	{"black", "010", "Preto"},
	{"red", "002", "Vermelho"},
	{"green", "003", "Verde"},
	{"blue", "008", "Azul"},
	{"pink", "007", "Rosa"},
	{"gray", "011", "Cinza"},
	{"grey", "011", "Cinza"},
	{"beige", "012", "Bege"},

	{"branco", "001", "Branco"},
	{"preto", "010", "Preto"},
	{"vermelho", "002", "Vermelho"},
	{"verde", "003", "Verde"},
	{"azul", "008", "Azul"},
	{"rosa", "007", "Rosa"},
	{"cinza", "011", "Cinza"},
	{"cinzento", "011", "Cinza"},
	{"bege", "012", "Bege"},
}

// fallbackLookup resolves a color name against the static table.
func fallbackLookup(name string) (code, canonical string, ok bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return "", "", false
	}
	for _, e := range fallbackTable {
		if e.key == lower {
			return e.code, e.name, true
		}
	}
	for _, e := range fallbackTable {
		if strings.Contains(lower, e.key) || strings.Contains(e.key, lower) {
			return e.code, e.name, true
		}
	}
	return "", "", false
}
