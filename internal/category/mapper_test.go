package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapAlreadyCanonical(t *testing.T) {
	assert.Equal(t, "CAMISAS", Map("camisas", "", ""))
	assert.Equal(t, "BLUSÕES E PARKAS", Map("BLUSÕES E PARKAS", "", ""))
}

func TestMapCatalogContainment(t *testing.T) {
	assert.Equal(t, "SAIAS", Map("saias compridas", "", ""))
	// Containment works in both directions, so the English "shirt" lands on
	// the catalog entry that contains it.
	assert.Equal(t, "T-SHIRTS", Map("Shirt", "", ""))
}

func TestMapBossModelOverride(t *testing.T) {
	// BOSS model names are polos when the declared category resolves nowhere.
	assert.Equal(t, "POLOS", Map("Jumper", "PADDY", "HUGO BOSS"))
	assert.Equal(t, "POLOS", Map("", "PHILLIPSON 36", "BOSS"))
	assert.Equal(t, "POLOS", Map("Sweater", "Knit Shirt Slim", "HUGO BOSS"))

	// Same model name without the brand follows the declared category.
	assert.Equal(t, "MALHAS", Map("Sweater", "PADDY", "GANT"))
}

func TestMapEnglishTranslation(t *testing.T) {
	assert.Equal(t, "CASACOS", Map("JACKET", "", ""))
	assert.Equal(t, "MALHAS", Map("knitwear", "", ""))
	assert.Equal(t, "T-SHIRTS", Map("Tee", "", ""))
	assert.Equal(t, "BLUSÕES E PARKAS", Map("Windbreaker", "", ""))
}

func TestMapPartialTranslation(t *testing.T) {
	assert.Equal(t, "CAMISAS", Map("Casual Shirt Regular", "", ""))
	assert.Equal(t, "JEANS", Map("5-pocket denim style", "", ""))
}

func TestMapKeywordScan(t *testing.T) {
	assert.Equal(t, "CALÇADO", Map("hiking boot style", "", ""))
}

func TestMapCloseMatch(t *testing.T) {
	// Transposition typo, caught by the closest-match fallback.
	assert.Equal(t, "CAMISAS", Map("CAMSIAS", "", ""))
}

func TestMapDefault(t *testing.T) {
	assert.Equal(t, "ACESSÓRIOS", Map("", "", ""))
	assert.Equal(t, "ACESSÓRIOS", Map("zzzz", "", ""))
}
