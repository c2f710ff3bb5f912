package main

import (
	"context"
	"flag"
	"log"
	"os"

	"delicias-urbanas/internal/config"
	"delicias-urbanas/internal/db"
	"delicias-urbanas/internal/migrate"
)

func main() {
	down := flag.Int("down", 0, "revert this many migrations instead of applying (-1 reverts all)")
	flag.Parse()

	cfg := config.Load()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if *down != 0 {
		steps := *down
		if steps < 0 {
			steps = 0
		}
		if err := migrate.Rollback(ctx, pool, steps); err != nil {
			logger.Fatalf("rollback migrations: %v", err)
		}
	} else if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		logger.Fatalf("read version: %v", err)
	}
	logger.Printf("migrations done version=%d dirty=%v", version, dirty)
}
