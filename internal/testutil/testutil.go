package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/eventwall/eventwall/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// resetSchema drops and recreates a schema from its migration pair.
func resetSchema(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downPath := filepath.Join(root, "migrations", name+".down.sql")
	upPath := filepath.Join(root, "migrations", name+".up.sql")

	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// ResetEventsSchema drops and recreates the events schema for tests.
func ResetEventsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000001_events")
}

// ResetInteractionsSchema drops and recreates the interactions schema for tests.
func ResetInteractionsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000002_interactions")
}

// ResetAdminSchema drops and recreates the admin_credentials schema for tests.
func ResetAdminSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000003_admin_credentials")
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestEvent creates a test event with sensible defaults.
func NewTestEvent(t testing.TB, name string, order int) *model.Event {
	t.Helper()
	now := time.Now().UTC()
	return &model.Event{
		ID:        fmt.Sprintf("event-%d", now.UnixNano()),
		Name:      name,
		Link:      "https://example.com/" + name,
		Order:     order,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestEventWithDates creates a test event with a visibility window.
// Empty strings leave the corresponding bound open.
func NewTestEventWithDates(t testing.TB, name string, order int, startDate, endDate string) *model.Event {
	t.Helper()
	event := NewTestEvent(t, name, order)
	if startDate != "" {
		event.StartDate = &startDate
	}
	if endDate != "" {
		event.EndDate = &endDate
	}
	return event
}

// NewTestInteraction creates a test interaction with sensible defaults.
func NewTestInteraction(t testing.TB, interactionType model.InteractionType, targetKey string) *model.Interaction {
	t.Helper()
	now := time.Now().UTC()
	interaction := &model.Interaction{
		ID:        fmt.Sprintf("interaction-%d", now.UnixNano()),
		Type:      interactionType,
		IPHash:    fmt.Sprintf("iphash-%d", now.UnixNano()),
		UAHash:    fmt.Sprintf("uahash-%d", now.UnixNano()),
		IsUnique:  true,
		CreatedAt: now,
	}
	if targetKey != "" {
		interaction.TargetKey = &targetKey
	}
	return interaction
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
