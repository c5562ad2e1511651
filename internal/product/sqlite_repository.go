package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// sqlQuerier is satisfied by both *sql.DB and *sql.Tx.
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const sqliteSelectColumns = `
		SELECT id, name, description, price, quantity, category, created_by,
		       created_at, updated_at
		FROM products`

// SQLiteRepository implements Store on a SQLite database.
type SQLiteRepository struct {
	db *sql.DB
	q  sqlQuerier
}

// NewSQLiteRepository creates a new Store backed by db.
func NewSQLiteRepository(db *sql.DB) Store {
	return &SQLiteRepository{db: db, q: db}
}

// WithinTx runs fn against a repository bound to a single transaction.
func (r *SQLiteRepository) WithinTx(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(&SQLiteRepository{db: r.db, q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Create inserts a new product record, assigning its ID and timestamps.
func (r *SQLiteRepository) Create(ctx context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, quantity, category, created_by,
		                      created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.Name, p.Description, p.Price.String(), p.Quantity, p.Category,
		p.CreatedBy, now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}

	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetByID retrieves a single product by its UUID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.q.QueryRowContext(ctx, sqliteSelectColumns+` WHERE id = ?`, id.String())

	p, err := scanSQLiteProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying product: %w", err)
	}

	return p, nil
}

// List retrieves all products in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]Product, error) {
	return r.queryMany(ctx, sqliteSelectColumns+` ORDER BY rowid`)
}

// FindBy returns products whose field equals value.
func (r *SQLiteRepository) FindBy(ctx context.Context, field Field, value string) ([]Product, error) {
	col, err := field.column()
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`%s WHERE %s = ? ORDER BY rowid`, sqliteSelectColumns, col)
	return r.queryMany(ctx, query, value)
}

// FindByContaining returns products whose field contains fragment, ignoring case.
func (r *SQLiteRepository) FindByContaining(ctx context.Context, field Field, fragment string) ([]Product, error) {
	col, err := field.column()
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`%s WHERE unicode_lower(%s) LIKE unicode_lower(?) ESCAPE '\' ORDER BY rowid`, sqliteSelectColumns, col)
	return r.queryMany(ctx, query, likePattern(fragment))
}

// Save overwrites the mutable columns of an existing product.
func (r *SQLiteRepository) Save(ctx context.Context, p *Product) error {
	now := time.Now().UTC()

	result, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, quantity = ?, category = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Price.String(), p.Quantity, p.Category, now, p.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("updating product: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}

	p.UpdatedAt = now
	return nil
}

// Delete permanently removes a product by its UUID.
func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of products.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) queryMany(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanSQLiteProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteProduct(row rowScanner) (*Product, error) {
	var p Product
	var id, price string
	err := row.Scan(
		&id, &p.Name, &p.Description, &price, &p.Quantity, &p.Category,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing id %q: %w", id, err)
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parsing price %q: %w", price, err)
	}
	return &p, nil
}
