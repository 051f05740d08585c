// Package testhelpers provides shared infrastructure for integration tests.
package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/kodinet/kodibot-engine/pkg/database"
)

// PostgresImage is the database image used for integration tests.
const PostgresImage = "postgres:16-alpine"

// TestDB holds a shared test database container and connection pool with the
// kodibot schema migrated.
type TestDB struct {
	Container testcontainers.Container
	DB        *database.DB
	ConnStr   string
}

var (
	sharedTestDB     *TestDB
	sharedTestDBOnce sync.Once
	sharedTestDBErr  error
)

// GetTestDB returns a shared PostgreSQL container for integration tests.
// The container is created once, migrated, and reused across all tests in
// the run.
func GetTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTestDBOnce.Do(func() {
		sharedTestDB, sharedTestDBErr = setupTestDB()
	})

	if sharedTestDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedTestDBErr)
	}

	return sharedTestDB
}

func setupTestDB() (*TestDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "kodibot_test",
			"POSTGRES_USER":     "kodibot",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://kodibot:test_password@%s:%s/kodibot_test?sslmode=disable",
		host, port.Port())

	migrationDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer func() { _ = migrationDB.Close() }()

	// The container can report ready before accepting connections.
	for i := 0; i < 10; i++ {
		if err = migrationDB.PingContext(ctx); err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reach test database: %w", err)
	}

	if err := database.RunMigrations(migrationDB, migrationsDir(), zap.NewNop()); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &TestDB{
		Container: container,
		DB:        &database.DB{Pool: pool},
		ConnStr:   connStr,
	}, nil
}

// migrationsDir resolves the repository's migrations directory relative to
// this source file, so tests work regardless of the package they run from.
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// TruncateAll clears mutable tables between tests while keeping the schema.
func (tdb *TestDB) TruncateAll(t *testing.T) {
	t.Helper()

	_, err := tdb.DB.Exec(context.Background(), `
		TRUNCATE chat_logs, identity_links, etax_accounts, procedures,
		         kcaf_records, parcels, tax_records, citizens RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}
