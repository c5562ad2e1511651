package product

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// seedCreator is recorded as the creator of the sample catalogue.
const seedCreator = "admin"

var seedProducts = []Product{
	{Name: "Laptop Pro", Description: "High-performance laptop for professionals", Price: decimal.RequireFromString("1299.99"), Quantity: 50, Category: "Electronics"},
	{Name: "Wireless Mouse", Description: "Ergonomic wireless mouse", Price: decimal.RequireFromString("49.99"), Quantity: 200, Category: "Electronics"},
	{Name: "Mechanical Keyboard", Description: "RGB mechanical keyboard with blue switches", Price: decimal.RequireFromString("149.99"), Quantity: 100, Category: "Electronics"},
	{Name: "USB-C Hub", Description: "7-in-1 USB-C hub with HDMI", Price: decimal.RequireFromString("79.99"), Quantity: 150, Category: "Electronics"},
	{Name: "Monitor Stand", Description: "Adjustable aluminum monitor stand", Price: decimal.RequireFromString("89.99"), Quantity: 80, Category: "Accessories"},
}

// Seed inserts the sample catalogue when the products table is empty and
// returns the number of rows inserted.
func (s *Service) Seed(ctx context.Context) (int, error) {
	inserted := 0
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, sp := range seedProducts {
			p := sp
			p.CreatedBy = seedCreator
			if err := repo.Create(ctx, &p); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seeding products: %w", err)
	}

	if inserted == 0 {
		slog.Info("products already exist, skipping initialization")
	} else {
		slog.Info("sample products initialized", "count", inserted)
	}
	return inserted, nil
}
