package intent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fundwise/fundfaq/internal/catalog"
	"github.com/fundwise/fundfaq/internal/llm"
	"github.com/fundwise/fundfaq/internal/match"
)

// ProductSource supplies the candidate products the fallback path matches
// queries against. Usually the catalog cache.
type ProductSource interface {
	Products(ctx context.Context) ([]catalog.Product, error)
}

// Classifier extracts intents, delegating to the generative service and
// falling back to deterministic keyword matching whenever that fails.
type Classifier struct {
	llm       llm.Client
	products  ProductSource
	threshold float64
	logger    *zap.Logger
}

// NewClassifier creates a Classifier. threshold is the fuzzy-match threshold
// used when the fallback path resolves products.
func NewClassifier(client llm.Client, products ProductSource, threshold float64, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if threshold == 0 {
		threshold = match.DefaultThreshold
	}
	return &Classifier{
		llm:       client,
		products:  products,
		threshold: threshold,
		logger:    logger,
	}
}

// intentPayload is the structured-output contract with the model.
type intentPayload struct {
	IntentType string `json:"intent_type"`
	SchemeName string `json:"scheme_name"`
	QueryType  string `json:"query_type"`
	Category   string `json:"category"`
}

const intentPromptTemplate = `You are a query understanding system for a mutual fund FAQ assistant.

User Query: %q

Analyze this query and extract:
1. What information is the user asking about? (expense_ratio, exit_load, min_sip, min_lumpsum, lock_in_period, riskometer, benchmark, statement_download, or general)
2. Which ICICI Prudential mutual fund scheme is mentioned? (extract the scheme name if present)
3. What type of query is this? (specific_fund, category_query, general)

Respond in JSON format:
{
    "intent_type": "expense_ratio|exit_load|min_sip|min_lumpsum|lock_in_period|riskometer|benchmark|statement_download|general",
    "scheme_name": "extracted scheme name or null",
    "query_type": "specific_fund|category_query|general",
    "category": "Large Cap|Mid Cap|Small Cap or null if not mentioned"
}

Examples:
- "What is the expense ratio of ICICI Prudential Large Cap Fund?" -> {"intent_type": "expense_ratio", "scheme_name": "ICICI Prudential Large Cap Fund", "query_type": "specific_fund", "category": null}
- "What is the minimum SIP for mid cap funds?" -> {"intent_type": "min_sip", "scheme_name": null, "query_type": "category_query", "category": "Mid Cap"}
- "How to download statements?" -> {"intent_type": "statement_download", "scheme_name": null, "query_type": "general", "category": null}`

// Classify derives an Intent for the query. The generative path is primary;
// any failure there (transport, quota, malformed output) falls through to
// the keyword fallback, so Classify always returns a usable Intent.
func (c *Classifier) Classify(ctx context.Context, query string) Intent {
	prompt := fmt.Sprintf(intentPromptTemplate, query)

	var payload intentPayload
	if err := c.llm.GenerateStructured(ctx, prompt, 0.3, &payload); err != nil {
		c.logger.Warn("intent extraction failed, using keyword fallback", zap.Error(err))
		return c.fallback(ctx, query)
	}

	factType := catalog.FactType(payload.IntentType)
	scope := Scope(payload.QueryType)
	if !factType.Valid() || !scope.Valid() {
		c.logger.Warn("intent extraction returned out-of-range fields, using keyword fallback",
			zap.String("intent_type", payload.IntentType),
			zap.String("query_type", payload.QueryType),
		)
		return c.fallback(ctx, query)
	}

	return Intent{
		FactType:    factType,
		ProductName: payload.SchemeName,
		Scope:       scope,
		Category:    payload.Category,
	}
}

// keywordRule maps query keywords to a fact type. Rules are checked in
// order; the first match wins.
type keywordRule struct {
	keywords []string
	factType catalog.FactType
}

var keywordRules = []keywordRule{
	{[]string{"expense ratio", "expense"}, catalog.FactExpenseRatio},
	{[]string{"exit load"}, catalog.FactExitLoad},
	{[]string{"minimum sip", "min sip"}, catalog.FactMinSIP},
	{[]string{"minimum lumpsum", "min lumpsum"}, catalog.FactMinLumpsum},
	{[]string{"lock-in", "lock"}, catalog.FactLockInPeriod},
	{[]string{"riskometer", "risk"}, catalog.FactRiskometer},
	{[]string{"benchmark"}, catalog.FactBenchmark},
	{[]string{"statement", "download"}, catalog.FactStatementDownload},
}

// fallback is the deterministic path: keyword scan for the fact type, then
// fuzzy product resolution over the raw query. It never fails.
func (c *Classifier) fallback(ctx context.Context, query string) Intent {
	lower := strings.ToLower(query)

	factType := catalog.FactGeneral
	for _, rule := range keywordRules {
		matched := false
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if matched {
			factType = rule.factType
			break
		}
	}

	result := Intent{FactType: factType, Scope: ScopeGeneral}

	products, err := c.products.Products(ctx)
	if err != nil {
		c.logger.Warn("loading products for fallback matching failed", zap.Error(err))
		return result
	}
	if product := match.Resolve(query, products, c.threshold); product != nil {
		result.ProductName = product.Name
		result.Scope = ScopeProduct
	}
	return result
}
