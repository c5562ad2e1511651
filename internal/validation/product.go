package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// maxQuantity is the largest stock count the quantity column can hold.
const maxQuantity = math.MaxInt32

// ProductInput mirrors the fields needed for product validation. Nil pointers
// mean the field was absent from the request.
type ProductInput struct {
	Name     string
	Price    *decimal.Decimal
	Quantity *int
	Category string
}

// ValidateProduct validates a product create or update input.
func ValidateProduct(in ProductInput) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "Product name is required"})
	} else if tooLong(in.Name, maxNameLength) {
		errs = append(errs, FieldError{Field: "name", Message: "Product name must be at most 255 characters"})
	}

	if in.Price == nil {
		errs = append(errs, FieldError{Field: "price", Message: "Price is required"})
	} else if !in.Price.IsPositive() {
		errs = append(errs, FieldError{Field: "price", Message: "Price must be greater than 0"})
	}

	if in.Quantity == nil {
		errs = append(errs, FieldError{Field: "quantity", Message: "Quantity is required"})
	} else if fe := ValidateQuantity(*in.Quantity); fe != nil {
		errs = append(errs, *fe)
	}

	if tooLong(in.Category, maxNameLength) {
		errs = append(errs, FieldError{Field: "category", Message: "Category must be at most 255 characters"})
	}

	return errs
}

// ValidateQuantity rejects negative stock counts and counts the store cannot hold.
func ValidateQuantity(q int) *FieldError {
	switch {
	case q < 0:
		return &FieldError{Field: "quantity", Message: "Quantity cannot be negative"}
	case q > maxQuantity:
		return &FieldError{Field: "quantity", Message: fmt.Sprintf("Quantity must be at most %d", maxQuantity)}
	}
	return nil
}
