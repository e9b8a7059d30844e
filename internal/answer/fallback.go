package answer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fundwise/fundfaq/internal/catalog"
	"github.com/fundwise/fundfaq/internal/intent"
	"github.com/fundwise/fundfaq/internal/retrieval"
)

// defaultProductName labels tier-B clauses when no product resolved.
const defaultProductName = "ICICI Prudential Mutual Fund"

const (
	quotaPreface   = "Temporarily exceeded LLM quota; sharing stored facts instead. "
	quotaMessage   = "Temporarily exceeded daily limits. Please try again shortly."
	genericMessage = "I couldn't access the answer service right now. Please try again in a few minutes."
)

// fallback degrades through templated tiers when generation fails: document
// metadata, then structured facts, then a fixed apologetic message. The
// first tier with content wins; the last always succeeds.
func (c *Composer) fallback(it intent.Intent, res retrieval.Result, quota bool) Answer {
	preface := ""
	if quota {
		preface = quotaPreface
	}

	if a, ok := c.documentFallback(it, res, preface); ok {
		c.logger.Info("fallback answer synthesized from retrieved documents")
		return a
	}
	if a, ok := c.factFallback(it, res, preface); ok {
		c.logger.Info("fallback answer synthesized from stored facts")
		return a
	}

	c.logger.Warn("no stored data for fallback, returning fixed message", zap.Bool("quota", quota))
	text := genericMessage
	if quota {
		text = quotaMessage
	}
	return Answer{
		Text:     text,
		SourceURL: c.rootURL,
		FactType: it.FactType,
		Scope:    it.Scope,
	}
}

// documentFallback synthesizes up to three "<product>: <label> is <value>"
// clauses from semantic document metadata.
func (c *Composer) documentFallback(it intent.Intent, res retrieval.Result, preface string) (Answer, bool) {
	var clauses []string
	for _, doc := range res.Documents {
		if len(clauses) == 3 {
			break
		}
		name := doc.Metadata["scheme_name"]
		value := doc.Metadata["fact_value"]
		if name == "" || value == "" {
			continue
		}
		factType := catalog.FactType(doc.Metadata["fact_type"])
		clauses = append(clauses, fmt.Sprintf("%s: %s is %s", name, factType.Label(), value))
	}
	if len(clauses) == 0 {
		return Answer{}, false
	}

	text := clauses[0]
	if len(clauses) > 1 {
		text = strings.Join(clauses, ". ") + "."
	}

	sourceURL := res.Documents[0].Metadata["source_url"]
	if sourceURL == "" {
		sourceURL = c.rootURL
	}

	return Answer{
		Text:        strings.TrimSpace(preface + text),
		SourceURL:   sourceURL,
		ProductName: res.Documents[0].Metadata["scheme_name"],
		FactType:    it.FactType,
		Scope:       it.Scope,
		LastUpdated: lastUpdated(res),
	}, true
}

// factFallback synthesizes one clause from the fact matching the requested
// type, or the first available fact.
func (c *Composer) factFallback(it intent.Intent, res retrieval.Result, preface string) (Answer, bool) {
	if len(res.Facts) == 0 {
		return Answer{}, false
	}

	fact := res.Facts[0]
	for _, f := range res.Facts {
		if f.Type == it.FactType {
			fact = f
			break
		}
	}

	name := defaultProductName
	if res.Product != nil {
		name = res.Product.Name
	}
	text := fmt.Sprintf("%s: %s is %s", name, fact.Type.Label(), fact.Value)

	sourceURL := fact.SourceURL
	if sourceURL == "" && res.Product != nil {
		sourceURL = res.Product.SourceURL
	}
	if sourceURL == "" {
		sourceURL = c.rootURL
	}

	return Answer{
		Text:        strings.TrimSpace(preface + text),
		SourceURL:   sourceURL,
		ProductName: productName(res),
		FactType:    it.FactType,
		Scope:       it.Scope,
		LastUpdated: fact.ExtractionDate.Format("2006-01-02"),
	}, true
}
