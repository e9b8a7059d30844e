package answer

import (
	"fmt"
	"strings"

	"github.com/fundwise/fundfaq/internal/catalog"
	"github.com/fundwise/fundfaq/internal/retrieval"
)

// contextKind tags the shape of the grounding data. Exactly one applies per
// query, in priority order: semantic documents, single-product facts,
// category facts, nothing.
type contextKind int

const (
	kindEmpty contextKind = iota
	kindSemantic
	kindSingleProduct
	kindCategory
)

// maxCategoryProducts caps how many products a category context includes.
const maxCategoryProducts = 5

// grounding is the assembled context for one generation call. urls records
// every URL present in the context so in-text URLs in the generated answer
// can be cross-validated against it.
type grounding struct {
	kind contextKind
	text string
	urls map[string]bool
}

func (g *grounding) noteURL(url string) {
	if url == "" {
		return
	}
	if g.urls == nil {
		g.urls = make(map[string]bool)
	}
	g.urls[url] = true
}

func (g *grounding) hasURL(url string) bool {
	return g.urls[url]
}

// buildGrounding classifies the retrieval outcome and renders it as the
// context string for the generation prompt.
func buildGrounding(res retrieval.Result) grounding {
	switch {
	case len(res.Documents) > 0:
		return semanticGrounding(res)
	case res.Product != nil && len(res.Facts) > 0:
		g := grounding{kind: kindSingleProduct}
		g.text = formatProductFacts(&g, *res.Product, res.Facts)
		return g
	case len(res.Products) > 0 && len(res.Facts) > 0:
		return categoryGrounding(res)
	default:
		return grounding{kind: kindEmpty}
	}
}

func semanticGrounding(res retrieval.Result) grounding {
	g := grounding{kind: kindSemantic}
	var parts []string
	for i, doc := range res.Documents {
		var sb strings.Builder
		fmt.Fprintf(&sb, "[Document %d]", i+1)
		if name := doc.Metadata["scheme_name"]; name != "" {
			fmt.Fprintf(&sb, "\nScheme: %s", name)
		}
		if factType := doc.Metadata["fact_type"]; factType != "" {
			fmt.Fprintf(&sb, "\nFact Type: %s", factType)
		}
		if value := doc.Metadata["fact_value"]; value != "" {
			fmt.Fprintf(&sb, "\nValue: %s", value)
		}
		if url := doc.Metadata["source_url"]; url != "" {
			fmt.Fprintf(&sb, "\nSource: %s", url)
			g.noteURL(url)
		}
		if doc.Content != "" {
			fmt.Fprintf(&sb, "\nContent: %s", doc.Content)
		}
		parts = append(parts, sb.String())
	}
	g.text = strings.Join(parts, "\n\n")
	return g
}

func categoryGrounding(res retrieval.Result) grounding {
	g := grounding{kind: kindCategory}
	factsByProduct := make(map[uint][]catalog.Fact, len(res.Products))
	for _, f := range res.Facts {
		factsByProduct[f.ProductID] = append(factsByProduct[f.ProductID], f)
	}

	var parts []string
	for _, p := range res.Products {
		if len(parts) == maxCategoryProducts {
			break
		}
		facts := factsByProduct[p.ID]
		if len(facts) == 0 {
			continue
		}
		parts = append(parts, formatProductFacts(&g, p, facts))
	}
	g.text = strings.Join(parts, "\n\n---\n\n")
	return g
}

// formatProductFacts renders one product's attributes and active facts.
func formatProductFacts(g *grounding, p catalog.Product, facts []catalog.Fact) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Scheme: %s\n", p.Name)
	fmt.Fprintf(&sb, "Category: %s\n", orNA(p.Category))
	fmt.Fprintf(&sb, "Risk Level: %s\n", orNA(p.RiskLevel))
	fmt.Fprintf(&sb, "NAV: ₹%.2f\n", p.NAV)
	fmt.Fprintf(&sb, "Expense Ratio: %s\n", orNA(p.ExpenseRatio))
	fmt.Fprintf(&sb, "Rating: %s/5\n", orNA(p.Rating))
	fmt.Fprintf(&sb, "Fund Size: ₹%.0f Cr\n", p.FundSizeCr)
	fmt.Fprintf(&sb, "Source URL: %s\n", p.SourceURL)
	g.noteURL(p.SourceURL)
	sb.WriteString("\nFacts:\n")

	factsByType := make(map[catalog.FactType]catalog.Fact, len(facts))
	for _, f := range facts {
		factsByType[f.Type] = f
	}
	for _, t := range catalog.StoredFactTypes {
		f, ok := factsByType[t]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "  %s: %s\n", t.Label(), f.Value)
		fmt.Fprintf(&sb, "    Source: %s\n", f.SourceURL)
		g.noteURL(f.SourceURL)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
