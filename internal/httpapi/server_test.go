package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fundwise/fundfaq/internal/answer"
	"github.com/fundwise/fundfaq/internal/catalog"
	"github.com/fundwise/fundfaq/internal/intent"
)

type fakeAnswerer struct {
	answer    answer.Answer
	err       error
	lastQuery string
}

func (f *fakeAnswerer) AnswerQuery(ctx context.Context, query string) (answer.Answer, error) {
	f.lastQuery = query
	return f.answer, f.err
}

func newTestServer(t *testing.T, answerer Answerer) *Server {
	t.Helper()
	s, err := NewServer(answerer, Config{Host: "localhost", Port: 0}, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer(nil, Config{}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewServer(&fakeAnswerer{}, Config{}, nil)
	assert.Error(t, err)
}

func TestHandleQuery(t *testing.T) {
	fake := &fakeAnswerer{answer: answer.Answer{
		Text:        "The expense ratio is 1.02%.",
		SourceURL:   "https://example.com/bluechip",
		ProductName: "ICICI Prudential Bluechip Fund",
		FactType:    catalog.FactExpenseRatio,
		Scope:       intent.ScopeProduct,
		LastUpdated: "2025-06-01",
	}}
	s := newTestServer(t, fake)

	body := `{"query": "What is the expense ratio of ICICI Prudential Bluechip Fund?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "The expense ratio is 1.02%.", resp.Answer)
	assert.Equal(t, "https://example.com/bluechip", resp.SourceURL)
	assert.Equal(t, "ICICI Prudential Bluechip Fund", resp.ProductName)
	assert.Equal(t, "expense_ratio", resp.FactType)
	assert.Equal(t, "specific_fund", resp.Scope)
	assert.Equal(t, "2025-06-01", resp.LastUpdated)
	assert.Equal(t, "What is the expense ratio of ICICI Prudential Bluechip Fund?", fake.lastQuery)
}

func TestHandleQueryTrimsWhitespace(t *testing.T) {
	fake := &fakeAnswerer{answer: answer.Answer{Text: "ok"}}
	s := newTestServer(t, fake)

	body := `{"query": "  expense ratio?  "}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "expense ratio?", fake.lastQuery)
}

func TestHandleQueryBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"query": `},
		{"missing query", `{}`},
		{"blank query", `{"query": "   "}`},
	}
	s := newTestServer(t, &fakeAnswerer{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			s.echo.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleQueryAnswererError(t *testing.T) {
	s := newTestServer(t, &fakeAnswerer{err: context.DeadlineExceeded})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{"query": "anything"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &fakeAnswerer{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestHandleSuggestions(t *testing.T) {
	s := newTestServer(t, &fakeAnswerer{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/suggestions", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["suggestions"])
}
