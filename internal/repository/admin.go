package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrAdminNotConfigured indicates no admin credential row exists yet.
var ErrAdminNotConfigured = errors.New("admin credential not configured")

// adminCredentialID is the fixed row id for the single shared credential.
const adminCredentialID = 1

// GetAdminPasswordHash returns the stored Argon2id hash of the shared admin
// password.
func (r *Repository) GetAdminPasswordHash(ctx context.Context) (string, error) {
	query := `SELECT password_hash FROM admin_credentials WHERE id = $1`

	var hash string
	err := r.pool.QueryRow(ctx, query, adminCredentialID).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrAdminNotConfigured
		}
		return "", fmt.Errorf("failed to get admin password hash: %w", err)
	}

	return hash, nil
}

// SetAdminPasswordHash stores (or replaces) the shared admin password hash.
func (r *Repository) SetAdminPasswordHash(ctx context.Context, hash string) error {
	query := `
		INSERT INTO admin_credentials (id, password_hash, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, adminCredentialID, hash); err != nil {
		return fmt.Errorf("failed to set admin password hash: %w", err)
	}

	return nil
}

// TouchAdminLastAccess records a successful credential check.
func (r *Repository) TouchAdminLastAccess(ctx context.Context) error {
	query := `UPDATE admin_credentials SET last_access = NOW() WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, adminCredentialID); err != nil {
		return fmt.Errorf("failed to touch admin last access: %w", err)
	}

	return nil
}
