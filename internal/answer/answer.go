// Package answer turns retrieved facts into a concise, sourced response.
// Generation is delegated to the generative service under a strict prompt
// contract; when that fails the composer degrades through templated fallback
// tiers rather than erroring.
package answer

import (
	"github.com/fundwise/fundfaq/internal/catalog"
	"github.com/fundwise/fundfaq/internal/intent"
)

// Answer is the pipeline's final response for one query. Every answer that
// states specific factual content carries a SourceURL traceable to the
// grounding data; otherwise the text says the information is unavailable.
type Answer struct {
	Text        string
	SourceURL   string
	ProductName string
	FactType    catalog.FactType
	Scope       intent.Scope
	// LastUpdated is the extraction date of the grounding fact, when known,
	// formatted as 2006-01-02.
	LastUpdated string
}
