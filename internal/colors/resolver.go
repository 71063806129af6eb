// Package colors normalizes extracted color names onto the catalog's
// code/name pairs, using a semantic classification model with a static
// fallback table behind it. A color is never invented: resolution either
// lands on a catalog-valid pair or leaves the input untouched.
package colors

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mcatarino/order-extractor/internal/catalog"
	"github.com/mcatarino/order-extractor/internal/entity"
	"github.com/mcatarino/order-extractor/internal/llm"
)

// MappingDetail records one before/after pair for observability.
type MappingDetail struct {
	OriginalName string `json:"original_name"`
	OriginalCode string `json:"original_code"`
	MappedName   string `json:"mapped_name"`
	MappedCode   string `json:"mapped_code"`
	Confidence   string `json:"confidence,omitempty"`
}

// Stats accumulates resolution counters for one document run.
type Stats struct {
	Processed int             `json:"total_colors_processed"`
	Mapped    int             `json:"successfully_mapped"`
	Failed    int             `json:"failed_mappings"`
	Details   []MappingDetail `json:"mappings_details,omitempty"`
}

// Resolver drives color normalization for a document.
type Resolver struct {
	classifier llm.ColorClassifier
	log        *slog.Logger
	stats      Stats
}

// NewResolver builds a resolver. classifier may be nil, in which case only
// the fallback table and the catalog code lookup run.
func NewResolver(classifier llm.ColorClassifier, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{classifier: classifier, log: log}
}

// MapProducts resolves every color variant (and reference line) in place and
// resets the run statistics.
func (r *Resolver) MapProducts(ctx context.Context, products []entity.Product) {
	r.stats = Stats{}
	for i := range products {
		p := &products[i]
		for j := range p.Colors {
			r.resolveVariant(ctx, &p.Colors[j])
			r.stats.Processed++
		}
		for j := range p.References {
			ref := &p.References[j]
			if ref.ColorName == "" {
				continue
			}
			if code, name, _, ok := r.resolveName(ctx, ref.ColorName); ok {
				ref.ColorName = name
				if ref.ColorCode == "" || ref.ColorCode != code {
					ref.ColorCode = code
				}
			}
		}
	}
	r.logStats()
}

// Stats returns the counters for the latest MapProducts run.
func (r *Resolver) Stats() Stats {
	return r.stats
}

func (r *Resolver) resolveVariant(ctx context.Context, color *entity.ColorVariant) {
	originalName := color.ColorName
	originalCode := color.ColorCode

	if originalName != "" {
		if code, name, confidence, ok := r.resolveName(ctx, originalName); ok {
			if originalCode != "" && originalCode != code {
				r.log.Info("colors.code.corrected", "name", originalName, "from", originalCode, "to", code)
			}
			color.ColorCode = code
			color.ColorName = name
			r.stats.Mapped++
			r.stats.Details = append(r.stats.Details, MappingDetail{
				OriginalName: originalName,
				OriginalCode: originalCode,
				MappedName:   name,
				MappedCode:   code,
				Confidence:   confidence,
			})
			return
		}
	}

	// Name did not resolve; trust the code if it is a catalog code.
	if catalog.ColorCodeKnown(originalCode) {
		color.ColorName = catalog.ColorName(originalCode)
		if originalName != color.ColorName {
			r.log.Warn("colors.name.from_code", "name", originalName, "code", originalCode, "resolved", color.ColorName)
		}
		r.stats.Mapped++
		return
	}

	r.stats.Failed++
	r.log.Warn("colors.resolve.failed", "name", originalName, "code", originalCode)
}

// resolveName tries the classifier first, then the static fallback table.
func (r *Resolver) resolveName(ctx context.Context, name string) (code, canonical, confidence string, ok bool) {
	if strings.TrimSpace(name) == "" {
		return "", "", "", false
	}

	if r.classifier != nil {
		text, err := r.classifier.ClassifyColor(ctx, name)
		if err == nil {
			if mapping, valid := parseMapping(text); valid {
				return mapping["code"], catalog.ColorName(mapping["code"]), mapping["confidence"], true
			}
			r.log.Warn("colors.classify.invalid", "name", name)
		} else {
			r.log.Error("colors.classify.error", "name", name, "err", err)
		}
	}

	if code, canonical, ok := fallbackLookup(name); ok {
		r.log.Info("colors.fallback.hit", "name", name, "code", code, "resolved", canonical)
		return code, canonical, "fallback", true
	}
	return "", "", "", false
}

var fencedPattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// parseMapping extracts and validates the {code, name} object from the
// classifier's raw response. The catalog name for the code always wins over
// the name text the model produced.
func parseMapping(text string) (map[string]string, bool) {
	candidate := ""
	if m := fencedPattern.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	} else if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			candidate = text[start : end+1]
		}
	}
	if candidate == "" {
		return nil, false
	}

	var doc any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return nil, false
	}
	if err := llm.ValidateColorMapping(doc); err != nil {
		return nil, false
	}

	obj := doc.(map[string]any)
	code, _ := obj["code"].(string)
	if !catalog.ColorCodeKnown(code) {
		return nil, false
	}
	confidence, _ := obj["confidence"].(string)
	return map[string]string{
		"code":       code,
		"name":       catalog.ColorName(code),
		"confidence": confidence,
	}, true
}

func (r *Resolver) logStats() {
	if r.stats.Processed == 0 {
		return
	}
	r.log.Info("colors.resolve.summary",
		"processed", r.stats.Processed,
		"mapped", r.stats.Mapped,
		"failed", r.stats.Failed,
		"success_rate", float64(r.stats.Mapped)/float64(r.stats.Processed))
}
