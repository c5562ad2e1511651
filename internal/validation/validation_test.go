package validation_test

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/stockroom/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name       string
		in         validation.ProductInput
		wantFields []string
	}{
		{
			name: "valid",
			in:   validation.ProductInput{Name: "Laptop Pro", Price: ptr(decimal.RequireFromString("1299.99")), Quantity: ptr(50)},
		},
		{
			name: "zero quantity is valid",
			in:   validation.ProductInput{Name: "Cable", Price: ptr(decimal.RequireFromString("0.01")), Quantity: ptr(0)},
		},
		{
			name:       "all missing",
			in:         validation.ProductInput{},
			wantFields: []string{"name", "price", "quantity"},
		},
		{
			name:       "blank name",
			in:         validation.ProductInput{Name: "   ", Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(1)},
			wantFields: []string{"name"},
		},
		{
			name:       "name too long",
			in:         validation.ProductInput{Name: strings.Repeat("x", 256), Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(1)},
			wantFields: []string{"name"},
		},
		{
			name:       "zero price",
			in:         validation.ProductInput{Name: "x", Price: ptr(decimal.Zero), Quantity: ptr(1)},
			wantFields: []string{"price"},
		},
		{
			name:       "quantity beyond column range",
			in:         validation.ProductInput{Name: "x", Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(math.MaxInt32 + 1)},
			wantFields: []string{"quantity"},
		},
		{
			name:       "largest quantity is valid",
			in:         validation.ProductInput{Name: "x", Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(math.MaxInt32)},
		},
		{
			name:       "category too long",
			in:         validation.ProductInput{Name: "x", Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(1), Category: strings.Repeat("c", 256)},
			wantFields: []string{"category"},
		},
		{
			name: "multibyte name counts characters",
			in:   validation.ProductInput{Name: strings.Repeat("é", 255), Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(1)},
		},
		{
			name:       "negative price and quantity",
			in:         validation.ProductInput{Name: "x", Price: ptr(decimal.NewFromInt(-5)), Quantity: ptr(-1)},
			wantFields: []string{"price", "quantity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validation.ValidateProduct(tt.in)
			var got []string
			for _, e := range errs {
				got = append(got, e.Field)
			}
			assert.Equal(t, tt.wantFields, got)
		})
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, validation.Check(nil))

	err := validation.Check([]validation.FieldError{{Field: "quantity", Message: "Quantity cannot be negative"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "Quantity cannot be negative")

	wrapped := fmt.Errorf("updating: %w", err)
	assert.ErrorIs(t, wrapped, validation.ErrInvalidArgument)
	assert.Len(t, validation.Fields(wrapped), 1)
	assert.Nil(t, validation.Fields(errors.New("other")))
}

func TestValidateUserUpdate(t *testing.T) {
	assert.Empty(t, validation.ValidateUserUpdate(validation.UserUpdateInput{FirstName: "Ada", LastName: ""}))

	long := strings.Repeat("x", 256)
	errs := validation.ValidateUserUpdate(validation.UserUpdateInput{FirstName: long, LastName: long})
	require.Len(t, errs, 2)
	assert.Equal(t, "firstName", errs[0].Field)
	assert.Equal(t, "lastName", errs[1].Field)
}

func TestValidateExternalID(t *testing.T) {
	assert.Nil(t, validation.ValidateExternalID("f3b1c6e2"))

	fe := validation.ValidateExternalID("  ")
	require.NotNil(t, fe)
	assert.Equal(t, "externalId", fe.Field)
}

func TestValidateUserProfile(t *testing.T) {
	valid := validation.UserProfileInput{ExternalID: "f3b1c6e2", Username: "alice", Email: "alice@example.com", Role: "user"}
	assert.Empty(t, validation.ValidateUserProfile(valid))

	long := strings.Repeat("x", 256)
	errs := validation.ValidateUserProfile(validation.UserProfileInput{
		ExternalID: " ",
		Username:   long,
		Email:      long,
		FirstName:  long,
		Role:       strings.Repeat("r", 65),
	})
	var fields []string
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"externalId", "username", "email", "firstName", "role"}, fields)
}
