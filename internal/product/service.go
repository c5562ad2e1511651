package product

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/daap14/stockroom/internal/auth"
	"github.com/daap14/stockroom/internal/validation"
)

// Service implements the product catalogue operations. Mutations run inside a
// unit of work; validation failures abort before any write.
type Service struct {
	store Store
}

// NewService creates a new product Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns every product in persistence order.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.store.List(ctx)
}

// Get returns the product with the given id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.store.GetByID(ctx, id)
}

// ListByCategory returns products whose category matches exactly.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.store.FindBy(ctx, FieldCategory, category)
}

// Search returns products whose name contains fragment, ignoring case.
func (s *Service) Search(ctx context.Context, fragment string) ([]Product, error) {
	return s.store.FindByContaining(ctx, FieldName, fragment)
}

// Create validates in and persists a new product attributed to the caller.
func (s *Service) Create(ctx context.Context, in Input, caller auth.Identity) (*Product, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	p := &Product{CreatedBy: caller.Username}
	apply(p, in)

	err := s.store.WithinTx(ctx, func(repo Repository) error {
		return repo.Create(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	slog.Info("product created", "id", p.ID, "name", p.Name, "createdBy", p.CreatedBy)
	return p, nil
}

// Update overwrites name, description, price, quantity and category. CreatedBy
// is never changed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Product, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	var updated *Product
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		apply(p, in)
		if err := repo.Save(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating product %s: %w", id, err)
	}

	return updated, nil
}

// Delete permanently removes the product with the given id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting product %s: %w", id, err)
	}

	slog.Info("product deleted", "id", id)
	return nil
}

// SetQuantity replaces the stock count of a product, leaving other fields untouched.
func (s *Service) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) (*Product, error) {
	if fe := validation.ValidateQuantity(quantity); fe != nil {
		return nil, validation.Check([]validation.FieldError{*fe})
	}

	var updated *Product
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		p.Quantity = quantity
		if err := repo.Save(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("setting quantity of product %s: %w", id, err)
	}

	return updated, nil
}

func validate(in Input) error {
	return validation.Check(validation.ValidateProduct(validation.ProductInput{
		Name:     in.Name,
		Price:    in.Price,
		Quantity: in.Quantity,
		Category: in.Category,
	}))
}

// apply copies validated input onto p.
func apply(p *Product, in Input) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = *in.Price
	p.Quantity = *in.Quantity
	p.Category = in.Category
}
