package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const selectColumns = `
		SELECT id, name, description, price::text, quantity, category, created_by,
		       created_at, updated_at
		FROM products`

// PostgresRepository implements Store using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
	q    querier
}

// NewPostgresRepository creates a new Store backed by the given connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) Store {
	return &PostgresRepository{pool: pool, q: pool}
}

// WithinTx runs fn against a repository bound to a single transaction.
func (r *PostgresRepository) WithinTx(ctx context.Context, fn func(repo Repository) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&PostgresRepository{pool: r.pool, q: tx})
	})
}

// Create inserts a new product record, assigning its ID and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	query := `
		INSERT INTO products (id, name, description, price, quantity, category, created_by,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, clock_timestamp(), clock_timestamp())
		RETURNING created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price.String(),
		p.Quantity,
		p.Category,
		p.CreatedBy,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}

	return nil
}

// GetByID retrieves a single product by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.q.QueryRow(ctx, selectColumns+` WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying product: %w", err)
	}

	return p, nil
}

// List retrieves all products in insertion order.
func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	return r.queryMany(ctx, selectColumns+` ORDER BY created_at ASC, id ASC`)
}

// FindBy returns products whose field equals value.
func (r *PostgresRepository) FindBy(ctx context.Context, field Field, value string) ([]Product, error) {
	col, err := field.column()
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`%s WHERE %s = $1 ORDER BY created_at ASC, id ASC`, selectColumns, col)
	return r.queryMany(ctx, query, value)
}

// FindByContaining returns products whose field contains fragment, ignoring case.
func (r *PostgresRepository) FindByContaining(ctx context.Context, field Field, fragment string) ([]Product, error) {
	col, err := field.column()
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`%s WHERE %s ILIKE $1 ESCAPE '\' ORDER BY created_at ASC, id ASC`, selectColumns, col)
	return r.queryMany(ctx, query, likePattern(fragment))
}

// Save overwrites the mutable columns of an existing product.
func (r *PostgresRepository) Save(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4::numeric, quantity = $5,
		    category = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.q.QueryRow(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price.String(),
		p.Quantity,
		p.Category,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("updating product: %w", err)
	}

	return nil
}

// Delete permanently removes a product by its UUID.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the total number of products.
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
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

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var price string
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &price, &p.Quantity, &p.Category,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parsing price %q: %w", price, err)
	}
	return &p, nil
}
