package product_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/stockroom/internal/product"
	"github.com/daap14/stockroom/internal/testutil"
)

func setupSQLiteRepo(t *testing.T) product.Store {
	t.Helper()
	return product.NewSQLiteRepository(testutil.OpenSQLite(t).DB())
}

func newProduct(name, category string) *product.Product {
	return &product.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString("10.50"),
		Quantity:    3,
		Category:    category,
		CreatedBy:   "alice",
	}
}

// --- Create / GetByID ---

func TestSQLiteCreate_Success(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	p := newProduct("Wireless Mouse", "Electronics")
	require.NoError(t, repo.Create(ctx, p))

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	found, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	assert.Equal(t, "Wireless Mouse", found.Name)
	assert.Equal(t, "Wireless Mouse description", found.Description)
	assert.True(t, decimal.RequireFromString("10.5").Equal(found.Price))
	assert.Equal(t, 3, found.Quantity)
	assert.Equal(t, "Electronics", found.Category)
	assert.Equal(t, "alice", found.CreatedBy)
}

func TestSQLiteGetByID_NotFound(t *testing.T) {
	repo := setupSQLiteRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, product.ErrNotFound)
}

// --- List / FindBy / FindByContaining ---

func TestSQLiteList_InsertionOrder(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Create(ctx, newProduct(name, "x")))
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].Name)
	assert.Equal(t, "a", items[1].Name)
	assert.Equal(t, "b", items[2].Name)
}

func TestSQLiteList_Empty(t *testing.T) {
	repo := setupSQLiteRepo(t)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSQLiteFindBy_CategoryIsCaseSensitive(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProduct("Laptop Pro", "Electronics")))
	require.NoError(t, repo.Create(ctx, newProduct("Monitor Stand", "Accessories")))

	items, err := repo.FindBy(ctx, product.FieldCategory, "Electronics")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Laptop Pro", items[0].Name)

	items, err = repo.FindBy(ctx, product.FieldCategory, "electronics")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSQLiteFindByContaining_IgnoresCase(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProduct("Wireless Mouse", "Electronics")))
	require.NoError(t, repo.Create(ctx, newProduct("Mechanical Keyboard", "Electronics")))

	items, err := repo.FindByContaining(ctx, product.FieldName, "MOUSE")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Wireless Mouse", items[0].Name)
}

func TestSQLiteFindByContaining_IgnoresCaseBeyondASCII(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProduct("Écran Pro", "Electronics")))
	require.NoError(t, repo.Create(ctx, newProduct("ÜBERDRIVE", "Electronics")))

	tests := []struct {
		fragment string
		want     string
	}{
		{"écran", "Écran Pro"},
		{"überdrive", "ÜBERDRIVE"},
		{"ÉCRAN", "Écran Pro"},
	}
	for _, tc := range tests {
		t.Run(tc.fragment, func(t *testing.T) {
			items, err := repo.FindByContaining(ctx, product.FieldName, tc.fragment)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, tc.want, items[0].Name)
		})
	}
}

func TestSQLiteFindByContaining_EscapesWildcards(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProduct("100% Cotton", "Apparel")))
	require.NoError(t, repo.Create(ctx, newProduct("1000 Cotton", "Apparel")))

	items, err := repo.FindByContaining(ctx, product.FieldName, "0%")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "100% Cotton", items[0].Name)

	items, err = repo.FindByContaining(ctx, product.FieldName, "_")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSQLiteFindBy_UnknownField(t *testing.T) {
	repo := setupSQLiteRepo(t)

	_, err := repo.FindBy(context.Background(), product.Field("price; DROP TABLE products"), "x")
	assert.ErrorIs(t, err, product.ErrUnknownField)
}

// --- Save / Delete / Count ---

func TestSQLiteSave_KeepsCreatedBy(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	p := newProduct("Laptop", "Electronics")
	require.NoError(t, repo.Create(ctx, p))

	p.Name = "Laptop Pro"
	p.CreatedBy = "mallory"
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop Pro", found.Name)
	assert.Equal(t, "alice", found.CreatedBy)
}

func TestSQLiteSave_NotFound(t *testing.T) {
	repo := setupSQLiteRepo(t)

	p := newProduct("ghost", "x")
	p.ID = uuid.New()
	assert.ErrorIs(t, repo.Save(context.Background(), p), product.ErrNotFound)
}

func TestSQLiteDelete(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	p := newProduct("Temp", "x")
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), product.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// --- WithinTx ---

func TestSQLiteWithinTx_RollsBackOnError(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	err := repo.WithinTx(ctx, func(tx product.Repository) error {
		if err := tx.Create(ctx, newProduct("rolled back", "x")); err != nil {
			return err
		}
		return product.ErrNotFound
	})
	assert.ErrorIs(t, err, product.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSQLiteWithinTx_Commits(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	err := repo.WithinTx(ctx, func(tx product.Repository) error {
		return tx.Create(ctx, newProduct("kept", "x"))
	})
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
