// Package supplier resolves free-text supplier names from scanned documents
// to canonical catalog suppliers via normalization and fuzzy scoring.
package supplier

import (
	"regexp"
	"strings"

	"github.com/mcatarino/order-extractor/internal/catalog"
	"github.com/mcatarino/order-extractor/internal/entity"
	"github.com/mcatarino/order-extractor/internal/fuzzy"
)

// Corporate suffixes stripped before comparison.
var suffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bS\.p\.A\.?\B?`),
	regexp.MustCompile(`(?i)\bS\.A\.?\B?`),
	regexp.MustCompile(`(?i)\bS\.L\.?\B?`),
	regexp.MustCompile(`(?i)\bLtd\.?\b`),
	regexp.MustCompile(`(?i)\bLtda\.?\b`),
	regexp.MustCompile(`(?i)\bInc\.?\b`),
	regexp.MustCompile(`(?i)\bLLC\.?\b`),
	regexp.MustCompile(`(?i)\bGmbH\.?\b`),
	regexp.MustCompile(`(?i)\bCo\.?\b`),
	regexp.MustCompile(`(?i)\bCorp\.?\b`),
	regexp.MustCompile(`(?i)\bB\.V\.?\B?`),
	regexp.MustCompile(`(?i)\bA\.G\.?\B?`),
}

var (
	nonWordPattern    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize prepares a supplier name for comparison: uppercase, corporate
// suffixes removed, punctuation collapsed to spaces, whitespace collapsed.
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	result := strings.ToUpper(name)
	for _, p := range suffixPatterns {
		result = p.ReplaceAllString(result, "")
	}
	result = nonWordPattern.ReplaceAllString(result, " ")
	result = whitespacePattern.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// similarity combines sequence similarity (0.4), token overlap (0.4) and a
// shared-significant-token bonus (0.2). Inputs are already normalized.
func similarity(a, b string) float64 {
	seq := fuzzy.Ratio(a, b)

	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	var overlap float64
	if len(tokensA) > 0 && len(tokensB) > 0 {
		common := 0
		for t := range tokensA {
			if _, ok := tokensB[t]; ok {
				common++
			}
		}
		overlap = float64(common) / float64(max(len(tokensA), len(tokensB)))
	}

	bonus := 0.0
	if sharesSignificantToken(tokensA, tokensB) {
		bonus = 0.2
	}

	score := seq*0.4 + overlap*0.4 + bonus
	return min(score, 1.0)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}

// sharesSignificantToken reports whether a token of at least 4 characters
// appears verbatim or as a substring across the two sets.
func sharesSignificantToken(a, b map[string]struct{}) bool {
	for t1 := range a {
		if len([]rune(t1)) < 4 {
			continue
		}
		for t2 := range b {
			if t1 == t2 || strings.Contains(t2, t1) {
				return true
			}
			if len([]rune(t2)) >= 4 && strings.Contains(t1, t2) {
				return true
			}
		}
	}
	return false
}

// mostSimilar finds the best-scoring catalog supplier for an already
// normalized name. A shared token of ≥4 characters floors the score at 0.7.
// Ties break on catalog order.
func mostSimilar(normalized string) (string, float64) {
	if normalized == "" {
		return "", 0
	}
	for _, s := range catalog.Suppliers() {
		if Normalize(s.Name) == normalized {
			return s.Name, 1.0
		}
	}

	bestName := ""
	bestScore := 0.0
	inputTokens := tokenSet(normalized)
	for _, s := range catalog.Suppliers() {
		candidate := Normalize(s.Name)
		if candidate == "" {
			continue
		}
		score := similarity(normalized, candidate)
		for t := range inputTokens {
			if len([]rune(t)) >= 4 {
				if _, ok := tokenSet(candidate)[t]; ok {
					score = max(score, 0.7)
					break
				}
			}
		}
		if score > bestScore {
			bestScore = score
			bestName = s.Name
		}
	}
	return bestName, bestScore
}

// Match resolves an extracted supplier string to a canonical catalog name.
// Exact catalog names pass through; fuzzy matches must clear 0.3 or the
// original string comes back unchanged so callers can log what was attempted.
func Match(extracted string) string {
	if strings.TrimSpace(extracted) == "" {
		return entity.PlaceholderSupplier
	}
	if _, ok := catalog.SupplierByName(extracted); ok {
		return extracted
	}
	normalized := Normalize(extracted)
	if normalized == "" {
		return extracted
	}
	best, score := mostSimilar(normalized)
	if best != "" && score > 0.3 {
		return best
	}
	return extracted
}

// MatchWithCode resolves a supplier name and returns both the canonical name
// and its catalog code ("" when the name is outside the catalog).
func MatchWithCode(name string) (string, string) {
	matched := Match(name)
	if s, ok := catalog.SupplierByName(matched); ok {
		return matched, s.Code
	}
	return matched, catalog.SupplierCode(matched)
}
