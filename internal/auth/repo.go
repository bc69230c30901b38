package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Operator is a site maintainer allowed to trigger ingestion and view
// run history. There is no public signup; operators are bootstrapped
// from env or created by another operator.
type Operator struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	TokenVersion int
	CreatedAt    time.Time
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, o Operator) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO operators (id, username, email, password_hash)
		VALUES (?, ?, ?, ?)
	`, o.ID, o.Username, o.Email, o.PasswordHash)

	if err != nil {
		return fmt.Errorf("create operator: %w", err)
	}
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*Operator, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, token_version, created_at
		FROM operators
		WHERE LOWER(email) = ?
	`, email)

	var o Operator
	if err := row.Scan(&o.ID, &o.Username, &o.Email, &o.PasswordHash, &o.TokenVersion, &o.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get by email: %w", err)
	}
	return &o, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Operator, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, token_version, created_at
		FROM operators
		WHERE id = ?
	`, id)

	var o Operator
	if err := row.Scan(&o.ID, &o.Username, &o.Email, &o.PasswordHash, &o.TokenVersion, &o.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &o, nil
}

func (r *Repo) GetTokenVersion(ctx context.Context, id string) (int, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT token_version
		FROM operators
		WHERE id = ?
	`, id)

	var version int
	if err := row.Scan(&version); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("get token version: %w", err)
	}
	return version, nil
}

// UpdatePassword swaps the hash and bumps token_version so every token
// signed before the change stops validating.
func (r *Repo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE operators
		SET password_hash = ?, token_version = token_version + 1
		WHERE id = ?
	`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update password: operator not found")
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM operators`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count operators: %w", err)
	}
	return n, nil
}
