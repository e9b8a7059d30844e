package intent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundwise/fundfaq/internal/catalog"
)

// fakeLLM returns a canned structured payload, or an error.
type fakeLLM struct {
	payload string
	err     error
	calls   int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	return "", errors.New("not expected")
}

func (f *fakeLLM) GenerateStructured(ctx context.Context, prompt string, temperature float32, out any) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.payload), out)
}

type staticProducts struct {
	products []catalog.Product
	err      error
}

func (s *staticProducts) Products(ctx context.Context) ([]catalog.Product, error) {
	return s.products, s.err
}

func testProducts() *staticProducts {
	return &staticProducts{products: []catalog.Product{
		{ID: 1, Name: "ICICI Prudential Bluechip Fund", Category: catalog.CategoryLargeCap},
		{ID: 2, Name: "ICICI Prudential Midcap Fund", Category: catalog.CategoryMidCap},
	}}
}

func TestClassifyFromModel(t *testing.T) {
	model := &fakeLLM{payload: `{
		"intent_type": "expense_ratio",
		"scheme_name": "ICICI Prudential Bluechip Fund",
		"query_type": "specific_fund",
		"category": ""
	}`}
	c := NewClassifier(model, testProducts(), 0, nil)

	it := c.Classify(context.Background(), "What is the expense ratio of ICICI Prudential Bluechip Fund?")

	assert.Equal(t, catalog.FactExpenseRatio, it.FactType)
	assert.Equal(t, "ICICI Prudential Bluechip Fund", it.ProductName)
	assert.Equal(t, ScopeProduct, it.Scope)
	assert.Equal(t, 1, model.calls)
}

func TestClassifyCategoryFromModel(t *testing.T) {
	model := &fakeLLM{payload: `{
		"intent_type": "min_sip",
		"scheme_name": "",
		"query_type": "category_query",
		"category": "Mid Cap"
	}`}
	c := NewClassifier(model, testProducts(), 0, nil)

	it := c.Classify(context.Background(), "What is the minimum SIP for mid cap funds?")

	assert.Equal(t, catalog.FactMinSIP, it.FactType)
	assert.Equal(t, ScopeCategory, it.Scope)
	assert.Equal(t, "Mid Cap", it.Category)
}

func TestClassifyFallsBackOnModelError(t *testing.T) {
	model := &fakeLLM{err: errors.New("service unavailable")}
	c := NewClassifier(model, testProducts(), 0, nil)

	it := c.Classify(context.Background(), "What is the exit load of ICICI Prudential Bluechip Fund?")

	assert.Equal(t, catalog.FactExitLoad, it.FactType)
	assert.Equal(t, "ICICI Prudential Bluechip Fund", it.ProductName)
	assert.Equal(t, ScopeProduct, it.Scope)
}

func TestClassifyFallsBackOnOutOfRangeFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"unknown intent type", `{"intent_type": "nav_history", "query_type": "general"}`},
		{"unknown query type", `{"intent_type": "expense_ratio", "query_type": "everything"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(&fakeLLM{payload: tt.payload}, testProducts(), 0, nil)
			it := c.Classify(context.Background(), "what is the expense ratio?")
			assert.Equal(t, catalog.FactExpenseRatio, it.FactType)
			assert.Equal(t, ScopeGeneral, it.Scope)
		})
	}
}

func TestFallbackKeywordRules(t *testing.T) {
	tests := []struct {
		query string
		want  catalog.FactType
	}{
		{"what is the expense ratio?", catalog.FactExpenseRatio},
		{"tell me about exit load charges", catalog.FactExitLoad},
		{"what is the minimum sip amount?", catalog.FactMinSIP},
		{"what is the min lumpsum?", catalog.FactMinLumpsum},
		{"what is the lock-in period?", catalog.FactLockInPeriod},
		{"what does the riskometer say?", catalog.FactRiskometer},
		{"which index is the benchmark?", catalog.FactBenchmark},
		{"how do i download my statement?", catalog.FactStatementDownload},
		{"tell me something about mutual funds", catalog.FactGeneral},
	}
	model := &fakeLLM{err: errors.New("down")}
	c := NewClassifier(model, testProducts(), 0, nil)
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			it := c.Classify(context.Background(), tt.query)
			assert.Equal(t, tt.want, it.FactType)
		})
	}
}

func TestFallbackSurvivesProductSourceError(t *testing.T) {
	model := &fakeLLM{err: errors.New("down")}
	products := &staticProducts{err: errors.New("database gone")}
	c := NewClassifier(model, products, 0, nil)

	it := c.Classify(context.Background(), "what is the expense ratio of the bluechip fund?")

	assert.Equal(t, catalog.FactExpenseRatio, it.FactType)
	assert.Equal(t, ScopeGeneral, it.Scope)
	assert.Empty(t, it.ProductName)
}

func TestScopeValid(t *testing.T) {
	assert.True(t, ScopeProduct.Valid())
	assert.True(t, ScopeCategory.Valid())
	assert.True(t, ScopeGeneral.Valid())
	assert.False(t, Scope("everything").Valid())
}

func TestGeneral(t *testing.T) {
	it := General()
	assert.Equal(t, catalog.FactGeneral, it.FactType)
	assert.Equal(t, ScopeGeneral, it.Scope)
	require.True(t, it.Scope.Valid())
}
