package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventwall/eventwall/internal/auth"
	"github.com/eventwall/eventwall/internal/metrics"
	"github.com/eventwall/eventwall/internal/repository"
)

// Credential service errors.
var (
	ErrPasswordRequired   = errors.New("password is required")
	ErrAdminNotConfigured = errors.New("admin credential not configured")
)

// CredentialStore is the persistence surface for the shared admin secret.
type CredentialStore interface {
	GetAdminPasswordHash(ctx context.Context) (string, error)
	TouchAdminLastAccess(ctx context.Context) error
}

// CredentialService checks the shared admin password against its stored
// Argon2id hash. It issues no session or token; persistence of the login
// state is the consuming application's concern.
type CredentialService struct {
	store   CredentialStore
	metrics metrics.Recorder
}

// NewCredentialService creates a new CredentialService.
func NewCredentialService(store CredentialStore, recorder metrics.Recorder) *CredentialService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CredentialService{store: store, metrics: recorder}
}

// Verify checks the password against the stored hash and reports the
// outcome. A successful check records the access time; that side effect is
// best-effort and never fails the request.
func (s *CredentialService) Verify(ctx context.Context, password string) (bool, error) {
	if password == "" {
		return false, ErrPasswordRequired
	}

	hash, err := s.store.GetAdminPasswordHash(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotConfigured) {
			return false, ErrAdminNotConfigured
		}
		return false, fmt.Errorf("failed to load admin credential: %w", err)
	}

	ok, err := auth.VerifyPassword(password, hash)
	if err != nil {
		return false, fmt.Errorf("failed to verify password: %w", err)
	}

	if ok {
		s.metrics.IncAuthAttempt("ok")
		_ = s.store.TouchAdminLastAccess(ctx)
	} else {
		s.metrics.IncAuthAttempt("denied")
	}

	return ok, nil
}
