package answer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/fundwise/fundfaq/internal/catalog"
	"github.com/fundwise/fundfaq/internal/guardrail"
	"github.com/fundwise/fundfaq/internal/intent"
	"github.com/fundwise/fundfaq/internal/llm"
	"github.com/fundwise/fundfaq/internal/retrieval"
)

// maxSentences caps every generated answer.
const maxSentences = 3

// generationTemperature keeps factual answers low-variance.
const generationTemperature = 0.3

var urlRe = regexp.MustCompile(`https?://[^\s]+`)

// Composer builds the final answer for a query.
type Composer struct {
	llm     llm.Client
	rootURL string
	logger  *zap.Logger
}

// NewComposer creates a Composer. rootURL is the catalog's root page, used
// as the source citation of last resort.
func NewComposer(client llm.Client, rootURL string, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{llm: client, rootURL: rootURL, logger: logger}
}

// Compose produces the answer for one query. Advice-seeking queries get the
// canned redirect without touching the generative service; all other paths
// degrade through the fallback tiers rather than returning an error.
func (c *Composer) Compose(ctx context.Context, query string, it intent.Intent, res retrieval.Result, guard guardrail.Result) Answer {
	if guard.AdviceSeeking {
		c.logger.Info("advice-seeking query redirected", zap.String("topic", string(guard.Topic)))
		return Answer{
			Text:      guardrail.RedirectAnswer(guard.Topic),
			SourceURL: guardrail.Link(guard.Topic),
			FactType:  catalog.FactGeneral,
			Scope:     intent.ScopeGeneral,
		}
	}

	g := buildGrounding(res)
	prompt := c.buildPrompt(query, it, g)

	text, err := c.llm.Generate(ctx, prompt, generationTemperature)
	if err != nil {
		quota := errors.Is(err, llm.ErrQuotaExceeded)
		if quota {
			c.logger.Warn("generation quota exceeded, using stored-data fallback")
		} else {
			c.logger.Error("generation failed, using stored-data fallback", zap.Error(err))
		}
		return c.fallback(it, res, quota)
	}

	text = truncateSentences(text, maxSentences)

	return Answer{
		Text:        text,
		SourceURL:   c.chooseSourceURL(text, g, res),
		ProductName: productName(res),
		FactType:    it.FactType,
		Scope:       it.Scope,
		LastUpdated: lastUpdated(res),
	}
}

// buildPrompt assembles the strict generation prompt for the grounding shape.
func (c *Composer) buildPrompt(query string, it intent.Intent, g grounding) string {
	topic := strings.ReplaceAll(string(it.FactType), "_", " ")

	switch g.kind {
	case kindSemantic:
		return fmt.Sprintf(`You are a factual FAQ assistant for ICICI Prudential Mutual Funds on Groww platform.

User Question: %q

Retrieved Context (from semantic search):
%s

CRITICAL INSTRUCTIONS:
1. Answer in MAXIMUM 3 sentences - be extremely concise
2. Use ONLY information from the retrieved context above
3. Do NOT provide investment advice, recommendations, or comparisons
4. Do NOT compute or compare returns
5. If information is not in context, say "Information not available"

Answer the user's question about %s in 3 sentences or less.`, query, g.text, topic)

	case kindSingleProduct:
		return fmt.Sprintf(`You are a factual FAQ assistant for ICICI Prudential Mutual Funds on Groww platform.

User Question: %q

Available Data:
%s

CRITICAL INSTRUCTIONS:
1. Answer in MAXIMUM 3 sentences - be extremely concise
2. Use ONLY information from the provided data above
3. Do NOT provide investment advice, recommendations, or comparisons
4. Do NOT compute or compare returns
5. If information is not available, say "Information not available for this scheme"

Answer the user's question about %s in 3 sentences or less.`, query, g.text, topic)

	case kindCategory:
		return fmt.Sprintf(`You are a factual FAQ assistant for ICICI Prudential Mutual Funds on Groww platform.

User Question: %q

Available Data for Multiple Schemes:
%s

CRITICAL INSTRUCTIONS:
1. Answer in MAXIMUM 3 sentences - be extremely concise
2. Use ONLY information from the provided data above
3. Do NOT provide investment advice, recommendations, or comparisons
4. Do NOT compute or compare returns
5. If multiple schemes, mention key facts only

Answer the user's question about %s in 3 sentences or less.`, query, g.text, topic)

	default:
		return fmt.Sprintf(`You are a factual FAQ assistant for ICICI Prudential Mutual Funds on Groww platform.

User Question: %q

CRITICAL INSTRUCTIONS:
1. Answer in MAXIMUM 3 sentences - be extremely concise
2. Provide factual information only - do NOT provide investment advice
3. Do NOT compute or compare returns
4. If specific scheme info needed, ask user to specify scheme name
5. For statement downloads, provide general Groww account access instructions

Answer the user's question in 3 sentences or less.`, query)
	}
}

// chooseSourceURL picks the citation for a generated answer. Context-derived
// URLs are preferred; a URL embedded in the generated text is honored only
// when it also appears in the grounding context, so a hallucinated link is
// never surfaced.
func (c *Composer) chooseSourceURL(text string, g grounding, res retrieval.Result) string {
	if inText := strings.TrimRight(urlRe.FindString(text), ".,;)"); inText != "" && g.hasURL(inText) {
		return inText
	}
	if len(res.Documents) > 0 {
		if url := res.Documents[0].Metadata["source_url"]; url != "" {
			return url
		}
	}
	if res.Product != nil && res.Product.SourceURL != "" {
		return res.Product.SourceURL
	}
	if len(res.Facts) > 0 && res.Facts[0].SourceURL != "" {
		return res.Facts[0].SourceURL
	}
	return c.rootURL
}

// truncateSentences keeps the first n sentences of text.
func truncateSentences(text string, n int) string {
	parts := strings.Split(text, ".")
	var sentences []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	if len(sentences) <= n {
		return text
	}
	return strings.Join(sentences[:n], ". ") + "."
}

func productName(res retrieval.Result) string {
	if res.Product != nil {
		return res.Product.Name
	}
	if len(res.Documents) > 0 {
		return res.Documents[0].Metadata["scheme_name"]
	}
	return ""
}

func lastUpdated(res retrieval.Result) string {
	if len(res.Facts) > 0 {
		return res.Facts[0].ExtractionDate.Format("2006-01-02")
	}
	if len(res.Documents) > 0 {
		return res.Documents[0].Metadata["extraction_date"]
	}
	return ""
}
