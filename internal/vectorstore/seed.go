package vectorstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fundwise/fundfaq/internal/catalog"
)

// SeedFromCatalog indexes one document per product overview and one per
// active fact, mirroring what the external ingestion job maintains. Document
// IDs are deterministic so re-seeding after a catalog refresh overwrites in
// place. Returns the number of documents indexed.
func SeedFromCatalog(ctx context.Context, store *Store, cat catalog.Store) (int, error) {
	products, err := cat.Products(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading products: %w", err)
	}

	var docs []Document
	for _, p := range products {
		docs = append(docs, Document{
			ID: fmt.Sprintf("product_%d", p.ID),
			Content: fmt.Sprintf("%s is a %s mutual fund scheme. NAV ₹%.2f, fund size ₹%.0f Cr, risk level %s.",
				p.Name, p.Category, p.NAV, p.FundSizeCr, p.RiskLevel),
			Metadata: map[string]string{
				"product_id":  strconv.FormatUint(uint64(p.ID), 10),
				"scheme_name": p.Name,
				"category":    p.Category,
				"source_url":  p.SourceURL,
			},
		})

		facts, err := cat.ActiveFacts(ctx, p.ID)
		if err != nil {
			return 0, fmt.Errorf("loading facts for product %d: %w", p.ID, err)
		}
		for _, f := range facts {
			docs = append(docs, Document{
				ID: fmt.Sprintf("fact_%d", f.ID),
				Content: fmt.Sprintf("%s (%s): %s is %s.",
					p.Name, p.Category, f.Type.Label(), f.Value),
				Metadata: map[string]string{
					"product_id":      strconv.FormatUint(uint64(p.ID), 10),
					"scheme_name":     p.Name,
					"category":        p.Category,
					"fact_type":       string(f.Type),
					"fact_value":      f.Value,
					"source_url":      f.SourceURL,
					"extraction_date": f.ExtractionDate.Format("2006-01-02"),
				},
			})
		}
	}

	if len(docs) == 0 {
		return 0, nil
	}
	if err := store.AddDocuments(ctx, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}
