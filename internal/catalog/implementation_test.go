package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costumier/internal/engine"
	"costumier/pkg/eventstore"
)

// setupTestDB attempts to connect to a PostgreSQL database for testing.
// It skips the test if the connection cannot be established.
func setupTestDB(t testing.TB) *sql.DB {
	t.Helper()

	pgUser := os.Getenv("PGUSER")
	pgPassword := os.Getenv("PGPASSWORD")
	pgHost := os.Getenv("PGHOST")
	pgPort := os.Getenv("PGPORT")
	pgDB := os.Getenv("PGDATABASE")

	if pgUser == "" {
		pgUser = "costumier"
	}
	if pgPassword == "" {
		pgPassword = "dev_password_change_in_prod"
	}
	if pgHost == "" {
		pgHost = "localhost"
	}
	if pgPort == "" {
		pgPort = "5432"
	}
	if pgDB == "" {
		pgDB = "costumier"
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pgHost, pgPort, pgUser, pgPassword, pgDB)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open database connection: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("skipping: could not connect to postgres: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id BIGSERIAL PRIMARY KEY,
			aggregate_id UUID NOT NULL,
			aggregate_type TEXT NOT NULL,
			event_type TEXT NOT NULL,
			event_data JSONB NOT NULL,
			metadata JSONB,
			version INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (aggregate_id, version)
		);
		CREATE TABLE IF NOT EXISTS costumes (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category VARCHAR(64) NOT NULL,
			size VARCHAR(8) NOT NULL,
			price NUMERIC(10, 2) NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			condition VARCHAR(16) NOT NULL DEFAULT 'good',
			quantity INT NOT NULL DEFAULT 0,
			total_quantity INT NOT NULL DEFAULT 0,
			available BOOLEAN NOT NULL DEFAULT FALSE,
			status VARCHAR(16) NOT NULL DEFAULT 'active',
			version INT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}

// noRentals satisfies RentalSource for tests that never touch rental data.
type noRentals struct{}

func (noRentals) Snapshot(ctx context.Context) ([]engine.Rental, error) {
	return nil, nil
}

func TestUpdateQuantityStaleVersionConflicts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	svc := NewService(eventstore.NewEventStore(db), db, noRentals{})

	costume, err := svc.AddCostume(ctx, NewCostume{
		Name:          "Last Unit Knight",
		Category:      "Historical",
		Size:          "M",
		Price:         40,
		Condition:     "good",
		TotalQuantity: 1,
	})
	require.NoError(t, err)
	require.Equal(t, 1, costume.Version)

	// Two writers both saw version 1 with one unit left. The first decrement
	// lands; the second must fail instead of silently overselling.
	require.NoError(t, svc.UpdateQuantity(ctx, costume.ID, 1, 0, costume.Version))

	err = svc.UpdateQuantity(ctx, costume.ID, 1, 0, costume.Version)
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)

	current, err := svc.GetCostume(ctx, costume.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.Quantity)
	assert.Equal(t, 2, current.Version)
	assert.False(t, current.Available)
}

func TestUpdateQuantityZeroVersionUsesCurrent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	svc := NewService(eventstore.NewEventStore(db), db, noRentals{})

	costume, err := svc.AddCostume(ctx, NewCostume{
		Name:          "Restocked Wizard",
		Category:      "Fantasy",
		Size:          "L",
		Price:         30,
		Condition:     "excellent",
		TotalQuantity: 2,
	})
	require.NoError(t, err)

	// Version 0 delegates the optimistic check to the catalog's own read.
	require.NoError(t, svc.UpdateQuantity(ctx, costume.ID, 2, 1, 0))
	require.NoError(t, svc.UpdateQuantity(ctx, costume.ID, 2, 2, 0))

	current, err := svc.GetCostume(ctx, costume.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, current.Quantity)
	assert.Equal(t, 3, current.Version)
	assert.True(t, current.Available)
}
