//go:build integration
// +build integration

package importer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "quantlog",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=quantlog sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "quantlog")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openAndMigrate(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func countTrades(t *testing.T, db *sql.DB, userID string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM trades WHERE user_id=$1", userID).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestProcessDirectory_Integration(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openAndMigrate(t, dsn)
	defer db.Close()

	dir := t.TempDir()
	content := "symbol,side,entry_price,exit_price,quantity,profit_loss,roi,executed_at\n" +
		"BTCUSDT,long,42000,43000,0.5,500,2.38,2026-01-10T14:30:00Z\n" +
		"ETHUSDT,short,2500,2400,2,200,4.0,2026-01-11\n"
	if err := os.WriteFile(filepath.Join(dir, "january.csv"), []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx := context.Background()

	if err := ProcessDirectory(ctx, dir, db, "u1", 1, false); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if n := countTrades(t, db, "u1"); n != 2 {
		t.Fatalf("expected 2 trades after import, got %d", n)
	}

	// Second run is a no-op thanks to the checksum log.
	if err := ProcessDirectory(ctx, dir, db, "u1", 1, false); err != nil {
		t.Fatalf("second import: %v", err)
	}
	if n := countTrades(t, db, "u1"); n != 2 {
		t.Fatalf("expected idempotent import, got %d trades", n)
	}

	// Force reimports without duplicating rows.
	if err := ProcessDirectory(ctx, dir, db, "u1", 1, true); err != nil {
		t.Fatalf("forced import: %v", err)
	}
	if n := countTrades(t, db, "u1"); n != 2 {
		t.Fatalf("expected 2 trades after forced reimport, got %d", n)
	}
}
