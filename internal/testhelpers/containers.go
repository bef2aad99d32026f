package testhelpers

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"skillsync/internal/config"
	"skillsync/internal/database"
	"skillsync/internal/database/migration"
	"skillsync/internal/database/postgres"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:16-alpine"

// TestDB is a migrated database in a container shared by every test in the
// binary.
type TestDB struct {
	Container testcontainers.Container
	DB        database.DB
	Config    config.DatabaseConfig
}

var (
	sharedTestDB     *TestDB
	sharedTestDBOnce sync.Once
	sharedTestDBErr  error
)

func GetTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTestDBOnce.Do(func() {
		sharedTestDB, sharedTestDBErr = setupTestDB()
	})

	if sharedTestDBErr != nil {
		t.Skipf("Skipping integration test, test database unavailable: %v", sharedTestDBErr)
	}

	return sharedTestDB
}

func setupTestDB() (*TestDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "skillsync_test",
			"POSTGRES_USER":     "skillsync",
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

	cfg := config.DatabaseConfig{
		DBHost:         host,
		DBPort:         port.Port(),
		DBName:         "skillsync_test",
		DBUser:         "skillsync",
		DBPassword:     "test_password",
		DBSSLMode:      "disable",
		ConnectTimeout: 5 * time.Second,
		PoolMaxConns:   5,
	}

	db, err := postgres.Connect(ctx, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	r := migration.Runner{Dir: MigrationsDir()}
	if _, err := r.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestDB{Container: container, DB: db, Config: cfg}, nil
}

// MigrationsDir locates the repository's migrations directory from this
// source file, so tests work from any package directory.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
