package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const sqliteSelectColumns = `
		SELECT id, external_id, username, email, first_name, last_name, role, active,
		       created_at, updated_at
		FROM users`

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

// Create inserts a new user record, assigning its ID and timestamps.
func (r *SQLiteRepository) Create(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, external_id, username, email, first_name, last_name, role, active,
		                   created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.ExternalID, u.Username, u.Email, u.FirstName, u.LastName,
		u.Role, u.Active, now, now,
	)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateExternalID
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

// GetByID retrieves a single user by its UUID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, sqliteSelectColumns+` WHERE id = ?`, id.String())
}

// GetByExternalID retrieves the user synchronized for an identity-provider subject.
func (r *SQLiteRepository) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	return r.getOne(ctx, sqliteSelectColumns+` WHERE external_id = ?`, externalID)
}

// List retrieves all users in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.q.QueryContext(ctx, sqliteSelectColumns+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanSQLiteUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	return users, nil
}

// Save overwrites the mutable columns of an existing user.
func (r *SQLiteRepository) Save(ctx context.Context, u *User) error {
	now := time.Now().UTC()

	result, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET username = ?, email = ?, first_name = ?, last_name = ?, role = ?, active = ?,
		    updated_at = ?
		WHERE id = ?`,
		u.Username, u.Email, u.FirstName, u.LastName, u.Role, u.Active, now, u.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("updating user: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}

	u.UpdatedAt = now
	return nil
}

// Delete permanently removes a user by its UUID.
func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	u, err := scanSQLiteUser(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteUser(row rowScanner) (*User, error) {
	var u User
	var id string
	err := row.Scan(
		&id, &u.ExternalID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing id %q: %w", id, err)
	}
	return &u, nil
}
