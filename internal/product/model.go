package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a row in the products table.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	Category    string
	CreatedBy   string // preferred username of the creator; set once on create
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Input carries caller-supplied product fields for create and update.
// Price and Quantity are pointers so that absent values can be reported.
type Input struct {
	Name        string
	Description string
	Price       *decimal.Decimal
	Quantity    *int
	Category    string
}
