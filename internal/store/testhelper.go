package store

import (
	"context"
	"os"
	"testing"

	"data-processor/internal/observability"
)

// SetupTestDB connects to the database named by TEST_DATABASE_URL and
// ensures a clean user_data table. Tests that need a live database are
// skipped when the variable is not set.
func SetupTestDB(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	logger := observability.NewLogger()
	s, err := New(dsn, logger)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	ctx := context.Background()
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}
	truncateUserData(t, s)

	return s
}

func truncateUserData(t *testing.T, s *Store) {
	t.Helper()
	if _, err := s.db.Exec(`TRUNCATE user_data RESTART IDENTITY`); err != nil {
		t.Fatalf("failed to truncate user_data: %v", err)
	}
}
