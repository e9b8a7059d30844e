// Package intent derives a structured interpretation of a query: which fact
// category it targets and whether it concerns one product, a category, or is
// general. Intents are ephemeral and never persisted.
package intent

import "github.com/fundwise/fundfaq/internal/catalog"

// Scope is the breadth of a query.
type Scope string

const (
	// ScopeProduct targets a single named product.
	ScopeProduct Scope = "specific_fund"
	// ScopeCategory targets a category of products.
	ScopeCategory Scope = "category_query"
	// ScopeGeneral is unscoped.
	ScopeGeneral Scope = "general"
)

// Valid reports whether s is a member of the scope enumeration.
func (s Scope) Valid() bool {
	switch s {
	case ScopeProduct, ScopeCategory, ScopeGeneral:
		return true
	}
	return false
}

// Intent is the classifier's interpretation of one query.
type Intent struct {
	// FactType is the targeted fact category, or catalog.FactGeneral.
	FactType catalog.FactType
	// ProductName is the mentioned product, when one was extracted.
	ProductName string
	// Scope is the query's breadth.
	Scope Scope
	// Category optionally narrows category queries ("Mid Cap", ...).
	Category string
}

// General is the best-effort default intent.
func General() Intent {
	return Intent{FactType: catalog.FactGeneral, Scope: ScopeGeneral}
}
