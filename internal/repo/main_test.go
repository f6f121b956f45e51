package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/GuyBarda/airbxb-backend/migrations"
	"github.com/GuyBarda/airbxb-backend/testutil"
)

// TestMain applies all pending migrations to the Postgres test database once
// per test binary so individual tests never need to think about schema state.
// Without TEST_DATABASE_URL the Postgres tests skip and nothing is migrated.
func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(os.Getenv("TEST_DATABASE_URL"))

	if _, err := migrations.Up(context.Background(), db); err != nil {
		db.Close()
		log.Fatalf("TestMain: run migrations: %v", err)
	}
	db.Close()

	os.Exit(m.Run())
}
