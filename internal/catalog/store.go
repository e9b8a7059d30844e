package catalog

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is read access to the fact catalog. The pipeline depends on this
// interface so tests can substitute fakes.
type Store interface {
	// Products returns every product in the catalog.
	Products(ctx context.Context) ([]Product, error)
	// ProductsByCategory returns products whose category contains the given
	// substring, case-insensitively, preserving catalog order.
	ProductsByCategory(ctx context.Context, category string) ([]Product, error)
	// ActiveFacts returns the active facts for one product.
	ActiveFacts(ctx context.Context, productID uint) ([]Fact, error)
	// ActiveFactsForProducts returns the union of active facts for a product set.
	ActiveFactsForProducts(ctx context.Context, productIDs []uint) ([]Fact, error)
}

// GormStore implements Store against a relational database.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the MySQL fact store.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening fact store: %w", err)
	}
	return db, nil
}

// Migrate creates the catalog tables. Used by the ingestion side and tests;
// the query pipeline never alters schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Product{}, &Fact{})
}

// NewGormStore creates a Store backed by the given database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

func (s *GormStore) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	var products []Product
	pattern := "%" + strings.ToLower(category) + "%"
	err := s.db.WithContext(ctx).
		Where("LOWER(category) LIKE ?", pattern).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("listing products by category %q: %w", category, err)
	}
	return products, nil
}

func (s *GormStore) ActiveFacts(ctx context.Context, productID uint) ([]Fact, error) {
	var facts []Fact
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND active = ?", productID, true).
		Order("id").
		Find(&facts).Error
	if err != nil {
		return nil, fmt.Errorf("listing facts for product %d: %w", productID, err)
	}
	return facts, nil
}

func (s *GormStore) ActiveFactsForProducts(ctx context.Context, productIDs []uint) ([]Fact, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var facts []Fact
	err := s.db.WithContext(ctx).
		Where("product_id IN ? AND active = ?", productIDs, true).
		Order("id").
		Find(&facts).Error
	if err != nil {
		return nil, fmt.Errorf("listing facts for %d products: %w", len(productIDs), err)
	}
	return facts, nil
}

var _ Store = (*GormStore)(nil)
