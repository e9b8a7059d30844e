package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundwise/fundfaq/internal/catalog"
	"github.com/fundwise/fundfaq/internal/intent"
	"github.com/fundwise/fundfaq/internal/vectorstore"
)

// fakeSearcher records calls and returns canned results or an error.
type fakeSearcher struct {
	results     []vectorstore.SearchResult
	err         error
	calls       int
	lastQuery   string
	lastK       int
	lastFilters map[string]string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, k int, filters map[string]string) ([]vectorstore.SearchResult, error) {
	f.calls++
	f.lastQuery = query
	f.lastK = k
	f.lastFilters = filters
	return f.results, f.err
}

type fakeStore struct {
	products      []catalog.Product
	factsByID     map[uint][]catalog.Fact
	productsErr   error
	byCategoryErr error
}

func (f *fakeStore) Products(ctx context.Context) ([]catalog.Product, error) {
	return f.products, f.productsErr
}

func (f *fakeStore) ProductsByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	if f.byCategoryErr != nil {
		return nil, f.byCategoryErr
	}
	var matched []catalog.Product
	for _, p := range f.products {
		if p.Category == category {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (f *fakeStore) ActiveFacts(ctx context.Context, productID uint) ([]catalog.Fact, error) {
	return f.factsByID[productID], nil
}

func (f *fakeStore) ActiveFactsForProducts(ctx context.Context, productIDs []uint) ([]catalog.Fact, error) {
	var facts []catalog.Fact
	for _, id := range productIDs {
		facts = append(facts, f.factsByID[id]...)
	}
	return facts, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: []catalog.Product{
			{ID: 1, Name: "ICICI Prudential Bluechip Fund", Category: catalog.CategoryLargeCap},
			{ID: 2, Name: "ICICI Prudential Midcap Fund", Category: catalog.CategoryMidCap},
		},
		factsByID: map[uint][]catalog.Fact{
			1: {{ID: 10, ProductID: 1, Type: catalog.FactExpenseRatio, Value: "1.02%"}},
			2: {{ID: 11, ProductID: 2, Type: catalog.FactMinSIP, Value: "₹100"}},
		},
	}
}

func productIntent(name string, ft catalog.FactType) intent.Intent {
	return intent.Intent{FactType: ft, ProductName: name, Scope: intent.ScopeProduct}
}

func TestRetrieveSemanticFirst(t *testing.T) {
	searcher := &fakeSearcher{results: []vectorstore.SearchResult{
		{ID: "fact_10", Content: "expense ratio doc", Score: 0.92},
	}}
	r := New(searcher, newFakeStore(), Config{}, nil)

	res, err := r.Retrieve(context.Background(),
		"What is the expense ratio of ICICI Prudential Bluechip Fund?",
		productIntent("ICICI Prudential Bluechip Fund", catalog.FactExpenseRatio))

	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Empty(t, res.Facts)
	assert.Equal(t, 1, searcher.calls)
	assert.Equal(t, DefaultTopK, searcher.lastK)
	// Resolved product and fact type narrow the search.
	assert.Equal(t, "1", searcher.lastFilters["product_id"])
	assert.Equal(t, "expense_ratio", searcher.lastFilters["fact_type"])
	require.NotNil(t, res.Product)
	assert.Equal(t, uint(1), res.Product.ID)
}

func TestRetrieveGeneralIntentSearchesUnfiltered(t *testing.T) {
	searcher := &fakeSearcher{results: []vectorstore.SearchResult{{ID: "product_1", Score: 0.5}}}
	r := New(searcher, newFakeStore(), Config{}, nil)

	_, err := r.Retrieve(context.Background(), "tell me about mutual funds",
		intent.General())

	require.NoError(t, err)
	assert.Nil(t, searcher.lastFilters)
}

func TestRetrieveEmptySemanticFallsThrough(t *testing.T) {
	searcher := &fakeSearcher{} // no results, no error
	r := New(searcher, newFakeStore(), Config{}, nil)
	ctx := context.Background()

	res, err := r.Retrieve(ctx,
		"What is the expense ratio of ICICI Prudential Bluechip Fund?",
		productIntent("ICICI Prudential Bluechip Fund", catalog.FactExpenseRatio))

	require.NoError(t, err)
	assert.Empty(t, res.Documents)
	require.NotNil(t, res.Product)
	require.Len(t, res.Facts, 1)
	assert.Equal(t, "1.02%", res.Facts[0].Value)

	// An empty result is not a failure; the semantic path stays on.
	_, err = r.Retrieve(ctx, "same again",
		productIntent("ICICI Prudential Bluechip Fund", catalog.FactExpenseRatio))
	require.NoError(t, err)
	assert.Equal(t, 2, searcher.calls)
}

func TestRetrieveSemanticFailureIsSticky(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("index corrupted")}
	r := New(searcher, newFakeStore(), Config{}, nil)
	ctx := context.Background()
	it := productIntent("ICICI Prudential Bluechip Fund", catalog.FactExpenseRatio)

	res, err := r.Retrieve(ctx, "expense ratio of bluechip fund", it)
	require.NoError(t, err)
	require.NotNil(t, res.Product)
	assert.Equal(t, 1, searcher.calls)

	// Disabled for the rest of the process: the searcher is never touched again.
	for range 3 {
		_, err = r.Retrieve(ctx, "expense ratio of bluechip fund", it)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, searcher.calls)
}

func TestRetrieveNilSearcherIsStructuredOnly(t *testing.T) {
	r := New(nil, newFakeStore(), Config{}, nil)

	res, err := r.Retrieve(context.Background(),
		"What is the minimum SIP of ICICI Prudential Midcap Fund?",
		productIntent("ICICI Prudential Midcap Fund", catalog.FactMinSIP))

	require.NoError(t, err)
	assert.Empty(t, res.Documents)
	require.NotNil(t, res.Product)
	assert.Equal(t, uint(2), res.Product.ID)
}

func TestRetrieveProductScopeUnresolvedName(t *testing.T) {
	r := New(nil, newFakeStore(), Config{}, nil)

	res, err := r.Retrieve(context.Background(), "completely unrelated text",
		productIntent("", catalog.FactGeneral))

	// No resolution is not an error; the empty result signals "ask the user".
	require.NoError(t, err)
	assert.Nil(t, res.Product)
	assert.Empty(t, res.Facts)
	assert.Empty(t, res.Products)
}

func TestRetrieveCategoryScope(t *testing.T) {
	r := New(nil, newFakeStore(), Config{}, nil)

	res, err := r.Retrieve(context.Background(), "minimum SIP for mid cap funds",
		intent.Intent{FactType: catalog.FactMinSIP, Scope: intent.ScopeCategory, Category: catalog.CategoryMidCap})

	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, uint(2), res.Products[0].ID)
	require.Len(t, res.Facts, 1)
	assert.Equal(t, catalog.FactMinSIP, res.Facts[0].Type)
}

func TestRetrieveCategoryScopeWithoutCategoryListsAll(t *testing.T) {
	r := New(nil, newFakeStore(), Config{}, nil)

	res, err := r.Retrieve(context.Background(), "which funds do you cover?",
		intent.Intent{FactType: catalog.FactGeneral, Scope: intent.ScopeCategory})

	require.NoError(t, err)
	assert.Len(t, res.Products, 2)
	assert.Empty(t, res.Facts)
}

func TestRetrieveGeneralScope(t *testing.T) {
	r := New(nil, newFakeStore(), Config{}, nil)

	res, err := r.Retrieve(context.Background(), "what can you tell me?", intent.General())

	require.NoError(t, err)
	assert.Len(t, res.Products, 2)
}

func TestRetrieveStructuredErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.productsErr = errors.New("database gone")
	r := New(nil, store, Config{}, nil)

	_, err := r.Retrieve(context.Background(), "what can you tell me?", intent.General())
	require.Error(t, err)
}
