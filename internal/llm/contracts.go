// Package llm defines the boundary to the vision/classification model. The
// rest of the pipeline depends on these interfaces only; the gemini
// subpackage provides the production implementation.
package llm

import "context"

// PageRequest carries one rendered page image plus the running extraction
// context to the model.
type PageRequest struct {
	Image            []byte
	MIMEType         string
	Context          string
	Page             int
	TotalPages       int
	PreviousProducts int
}

// ContextRequest carries the first page image and the document's raw text
// for the pre-extraction analysis.
type ContextRequest struct {
	Image    []byte
	MIMEType string
	PDFText  string
	Filename string
}

// PageExtractor extracts product data from one page image. The response is
// raw model text; the extract package locates and cleans the JSON inside.
type PageExtractor interface {
	ExtractPage(ctx context.Context, req PageRequest) (string, error)
}

// ColorClassifier resolves a free-text color name semantically. The
// response is raw model text containing a {code, name, ...} object.
type ColorClassifier interface {
	ClassifyColor(ctx context.Context, colorName string) (string, error)
}

// ContextAnalyzer inspects the first page and returns raw model text
// containing a document-context object.
type ContextAnalyzer interface {
	AnalyzeContext(ctx context.Context, req ContextRequest) (string, error)
}

// Oracle bundles the three model roles a document run needs.
type Oracle interface {
	PageExtractor
	ColorClassifier
	ContextAnalyzer
}
