package database

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Container-backed tests only run when TEST_DATABASE_CONTAINERS is set, so the
// rest of the suite stays runnable without Docker.
func skipWithoutContainers(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_DATABASE_CONTAINERS") == "" {
		t.Skip("set TEST_DATABASE_CONTAINERS=1 to run container-backed database tests")
	}
}

func mustStartPostgresContainer() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	database = dbName
	password = dbPwd
	username = dbUser

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	host = dbHost
	port = dbPort.Port()

	return dbContainer.Terminate, err
}

func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_CONTAINERS") == "" {
		os.Exit(m.Run())
	}

	teardown, err := mustStartPostgresContainer()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}

	os.Exit(code)
}

func TestNew(t *testing.T) {
	skipWithoutContainers(t)

	srv := New()
	if srv == nil {
		t.Fatal("New() returned nil")
	}
	if srv.GetDB() == nil {
		t.Fatal("GetDB() returned nil")
	}
}

func TestHealth(t *testing.T) {
	skipWithoutContainers(t)

	srv := New()
	stats := srv.Health()

	if stats["status"] != "up" {
		t.Fatalf("expected status up, got %s (%s)", stats["status"], stats["error"])
	}
	if _, ok := stats["open_connections"]; !ok {
		t.Error("expected open_connections stat")
	}
}

func TestClose(t *testing.T) {
	skipWithoutContainers(t)

	srv := New()
	if err := srv.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}
}
