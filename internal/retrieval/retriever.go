// Package retrieval fetches the facts that ground an answer. Two
// interchangeable strategies: semantic similarity search over the vector
// index, and structured lookup against the fact store. Semantic runs first
// when available; a hard semantic failure disables that path for the rest of
// the process lifetime, and an empty semantic result falls through to the
// structured strategy for that query.
package retrieval

import (
	"context"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/fundwise/fundfaq/internal/catalog"
	"github.com/fundwise/fundfaq/internal/intent"
	"github.com/fundwise/fundfaq/internal/match"
	"github.com/fundwise/fundfaq/internal/vectorstore"
)

var tracer = otel.Tracer("fundfaq.retrieval")

// DefaultTopK is the number of nearest documents fetched per semantic search.
const DefaultTopK = 5

// Searcher is the semantic-search collaborator. A nil Searcher leaves the
// retriever structured-only.
type Searcher interface {
	Search(ctx context.Context, query string, k int, filters map[string]string) ([]vectorstore.SearchResult, error)
}

// Result is the tagged outcome of one retrieval. Documents is set by the
// semantic strategy; Facts with Product or Products by the structured one.
// The answer composer classifies the shape explicitly.
type Result struct {
	Documents []vectorstore.SearchResult
	Facts     []catalog.Fact
	Product   *catalog.Product
	Products  []catalog.Product
}

// semanticState tracks availability of the semantic path. The transition to
// disabled is sticky and one-way.
type semanticState int

const (
	semanticUntried semanticState = iota
	semanticAvailable
	semanticDisabled
)

// Retriever fetches supporting facts for a classified query.
type Retriever struct {
	searcher  Searcher
	catalog   catalog.Store
	topK      int
	threshold float64
	logger    *zap.Logger

	mu    sync.Mutex
	state semanticState
}

// Config holds retriever tuning knobs.
type Config struct {
	TopK           int
	MatchThreshold float64
}

// New creates a Retriever. searcher may be nil to run structured-only.
func New(searcher Searcher, cat catalog.Store, cfg Config, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.MatchThreshold == 0 {
		cfg.MatchThreshold = match.DefaultThreshold
	}
	return &Retriever{
		searcher:  searcher,
		catalog:   cat,
		topK:      cfg.TopK,
		threshold: cfg.MatchThreshold,
		logger:    logger,
	}
}

// Retrieve fetches supporting data for the query. Semantic failures are
// handled internally; a returned error comes from the fact store and is
// meant for the caller's catch-and-fallback.
func (r *Retriever) Retrieve(ctx context.Context, query string, it intent.Intent) (Result, error) {
	ctx, span := tracer.Start(ctx, "retrieval.Retrieve")
	defer span.End()
	span.SetAttributes(
		attribute.String("scope", string(it.Scope)),
		attribute.String("fact_type", string(it.FactType)),
	)

	var res Result

	if r.semanticEnabled() {
		docs, product, err := r.semantic(ctx, query, it)
		r.recordSemanticOutcome(err)
		if err == nil && len(docs) > 0 {
			res.Documents = docs
			res.Product = product
			span.SetAttributes(attribute.Int("documents", len(docs)))
			return res, nil
		}
		// Zero rows or a hard failure both fall through to structured.
	}

	if err := r.structured(ctx, query, it, &res); err != nil {
		span.RecordError(err)
		return Result{}, err
	}
	span.SetAttributes(attribute.Int("facts", len(res.Facts)))
	return res, nil
}

func (r *Retriever) semanticEnabled() bool {
	if r.searcher == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state != semanticDisabled
}

// recordSemanticOutcome updates the tri-state availability flag. Disablement
// is sticky for the process lifetime; there is no per-call retry.
func (r *Retriever) recordSemanticOutcome(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		if r.state != semanticDisabled {
			r.logger.Warn("semantic retrieval failed, disabling semantic path for process lifetime",
				zap.Error(err))
		}
		r.state = semanticDisabled
		return
	}
	if r.state == semanticUntried {
		r.state = semanticAvailable
	}
}

// semantic embeds the query and searches the vector index, filtered by the
// resolved product and the targeted fact type when known.
func (r *Retriever) semantic(ctx context.Context, query string, it intent.Intent) ([]vectorstore.SearchResult, *catalog.Product, error) {
	var product *catalog.Product
	if it.ProductName != "" {
		products, err := r.catalog.Products(ctx)
		if err != nil {
			r.logger.Warn("loading products for semantic filter failed", zap.Error(err))
		} else {
			product = match.Resolve(it.ProductName, products, r.threshold)
		}
	}

	filters := make(map[string]string)
	if product != nil {
		filters["product_id"] = strconv.FormatUint(uint64(product.ID), 10)
	}
	if it.FactType != catalog.FactGeneral {
		filters["fact_type"] = string(it.FactType)
	}
	if len(filters) == 0 {
		filters = nil
	}

	docs, err := r.searcher.Search(ctx, query, r.topK, filters)
	if err != nil {
		return nil, nil, err
	}
	return docs, product, nil
}

// structured performs direct fact-store lookups according to scope.
func (r *Retriever) structured(ctx context.Context, query string, it intent.Intent, res *Result) error {
	switch it.Scope {
	case intent.ScopeProduct:
		name := it.ProductName
		if name == "" {
			name = query
		}
		products, err := r.catalog.Products(ctx)
		if err != nil {
			return err
		}
		product := match.Resolve(name, products, r.threshold)
		if product == nil {
			// Resolution failure is not an error; the composer asks the
			// user to specify.
			return nil
		}
		facts, err := r.catalog.ActiveFacts(ctx, product.ID)
		if err != nil {
			return err
		}
		res.Product = product
		res.Facts = facts
		return nil

	case intent.ScopeCategory:
		if it.Category == "" {
			return r.generalLookup(ctx, res)
		}
		products, err := r.catalog.ProductsByCategory(ctx, it.Category)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		ids := make([]uint, len(products))
		for i, p := range products {
			ids[i] = p.ID
		}
		facts, err := r.catalog.ActiveFactsForProducts(ctx, ids)
		if err != nil {
			return err
		}
		res.Products = products
		res.Facts = facts
		return nil

	default:
		return r.generalLookup(ctx, res)
	}
}

// generalLookup returns the full product catalog with no facts.
func (r *Retriever) generalLookup(ctx context.Context, res *Result) error {
	products, err := r.catalog.Products(ctx)
	if err != nil {
		return err
	}
	res.Products = products
	return nil
}
