// Package testutil provides shared testing utilities for the vetrina project.
//
// It contains reusable test infrastructure used across packages, following
// the pattern of standard library packages like net/http/httptest.
package testutil

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vetrina-ai/vetrina/internal/database"
)

// Test database credentials used by the container.
const (
	TestDBName     = "vetrina_test"
	TestDBUser     = "vetrina_test"
	TestDBPassword = "test_password"
)

// SetupTestDB starts an isolated PostgreSQL container and returns the
// executor connection parameters for it. The container is terminated via
// t.Cleanup. Tests calling this must be guarded with testing.Short().
func SetupTestDB(t *testing.T) database.ConnConfig {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(TestDBName),
		postgres.WithUsername(TestDBUser),
		postgres.WithPassword(TestDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("starting PostgreSQL container (docker unavailable?): %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	mapped, err := pgContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	port, err := strconv.Atoi(mapped.Port())
	if err != nil {
		t.Fatalf("parsing mapped port %q: %v", mapped.Port(), err)
	}

	// Resolve hostnames like "localhost" consistently for pgx.
	if _, lookupErr := net.LookupHost(host); lookupErr != nil {
		host = "127.0.0.1"
	}

	return database.ConnConfig{
		Host:     host,
		Port:     port,
		User:     TestDBUser,
		Password: TestDBPassword,
		Database: TestDBName,
		SSLMode:  "disable",
	}
}
