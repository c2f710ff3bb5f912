package migrate

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := Sources()
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(ups) < 2 {
		t.Fatalf("expected kv_store and products migrations, got %v", ups)
	}
	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := migrationsFS.ReadFile(down); err != nil {
			t.Fatalf("missing down migration for %s", up)
		}
	}
}

func TestApplyAgainstDatabase(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := Apply(ctx, pool); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := Apply(ctx, pool); err != nil {
		t.Fatalf("apply should be idempotent: %v", err)
	}
	version, dirty, err := Version(ctx, pool)
	if err != nil || dirty || version < 2 {
		t.Fatalf("unexpected version=%d dirty=%v err=%v", version, dirty, err)
	}
}
