package product

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a product record is not found.
var ErrNotFound = errors.New("product not found")

// ErrUnknownField is returned when a query names a field that is not filterable.
var ErrUnknownField = errors.New("unknown product field")

// Field names a filterable product column.
type Field string

const (
	FieldName      Field = "name"
	FieldCategory  Field = "category"
	FieldCreatedBy Field = "created_by"
)

func (f Field) column() (string, error) {
	switch f {
	case FieldName, FieldCategory, FieldCreatedBy:
		return string(f), nil
	}
	return "", ErrUnknownField
}

// Repository provides persistence operations on the products table.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	// FindBy returns products whose field equals value exactly (case-sensitive).
	FindBy(ctx context.Context, field Field, value string) ([]Product, error)
	// FindByContaining returns products whose field contains fragment, ignoring case.
	FindByContaining(ctx context.Context, field Field, fragment string) ([]Product, error)
	// Save overwrites every mutable column of an existing product.
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// Store is a Repository that can also run a unit of work. The Repository passed
// to fn is bound to a transaction that commits when fn returns nil.
type Store interface {
	Repository
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
}

// likePattern escapes LIKE wildcards in s and wraps it for a contains match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
