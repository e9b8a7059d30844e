// Package catalog provides the product/fact data model and read access to
// the relational fact store. The store is populated by an external ingestion
// job; nothing in this package writes to it at query time.
package catalog

import "time"

// FactType identifies the kind of data point a Fact carries. The set is
// closed; FactGeneral exists only in the intent domain and is never stored.
type FactType string

const (
	FactExpenseRatio      FactType = "expense_ratio"
	FactExitLoad          FactType = "exit_load"
	FactMinSIP            FactType = "min_sip"
	FactMinLumpsum        FactType = "min_lumpsum"
	FactLockInPeriod      FactType = "lock_in_period"
	FactRiskometer        FactType = "riskometer"
	FactBenchmark         FactType = "benchmark"
	FactStatementDownload FactType = "statement_download"
	FactGeneral           FactType = "general"
)

// StoredFactTypes lists the fact types that may appear in the fact store,
// in display order.
var StoredFactTypes = []FactType{
	FactExpenseRatio,
	FactExitLoad,
	FactMinSIP,
	FactMinLumpsum,
	FactLockInPeriod,
	FactRiskometer,
	FactBenchmark,
	FactStatementDownload,
}

var factLabels = map[FactType]string{
	FactExpenseRatio:      "Expense Ratio",
	FactExitLoad:          "Exit Load",
	FactMinSIP:            "Minimum SIP",
	FactMinLumpsum:        "Minimum Lumpsum Investment",
	FactLockInPeriod:      "Lock-in Period",
	FactRiskometer:        "Riskometer",
	FactBenchmark:         "Benchmark",
	FactStatementDownload: "Statement Download Instructions",
}

// Label returns the display label for the fact type, falling back to the
// raw value for unknown types.
func (t FactType) Label() string {
	if label, ok := factLabels[t]; ok {
		return label
	}
	return string(t)
}

// Valid reports whether t is a member of the closed enumeration.
func (t FactType) Valid() bool {
	if t == FactGeneral {
		return true
	}
	_, ok := factLabels[t]
	return ok
}

// Fund categories as they appear in the catalog.
const (
	CategoryLargeCap = "Large Cap"
	CategoryMidCap   = "Mid Cap"
	CategorySmallCap = "Small Cap"
	CategoryMultiCap = "Multi Cap"
	CategoryELSS     = "ELSS"
)

// Product is one catalog entry. Identity is immutable once created;
// attributes are refreshed by the ingestion job.
type Product struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	Name       string    `gorm:"size:255;not null"`
	Slug       string    `gorm:"size:255;uniqueIndex"`
	Category   string    `gorm:"size:100"`
	NAV        float64   `gorm:"column:nav"`
	FundSizeCr float64   `gorm:"column:fund_size_cr"`
	// Textual attributes are kept verbatim as scraped, units included.
	ExpenseRatio string `gorm:"size:50"`
	Rating       string `gorm:"size:20"`
	RiskLevel    string `gorm:"size:50"`
	SourceURL    string `gorm:"size:500"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName implements gorm's Tabler.
func (Product) TableName() string { return "products" }

// Fact is a single sourced, dated, typed data point about a Product.
// At most one fact exists per (product, type, extraction date); historical
// facts coexist across dates, and only active ones are served.
type Fact struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	ProductID      uint      `gorm:"not null;uniqueIndex:idx_fact_version,priority:1"`
	Type           FactType  `gorm:"size:50;not null;uniqueIndex:idx_fact_version,priority:2"`
	Value          string    `gorm:"type:text;not null"`
	SourceURL      string    `gorm:"size:500"`
	ExtractionDate time.Time `gorm:"type:date;uniqueIndex:idx_fact_version,priority:3"`
	Active         bool      `gorm:"default:true"`
	CreatedAt      time.Time
}

// TableName implements gorm's Tabler.
func (Fact) TableName() string { return "facts" }
