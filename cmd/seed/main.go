package main

import (
	"context"
	"flag"
	"log"
	"os"

	"delicias-urbanas/internal/config"
	"delicias-urbanas/internal/db"
	productrepo "delicias-urbanas/internal/repository/product"
	"delicias-urbanas/internal/seed"
)

func main() {
	file := flag.String("file", "", "YAML menu to load (defaults to the embedded menu)")
	flag.Parse()

	cfg := config.Load()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	products, err := seed.LoadMenu(*file)
	if err != nil {
		logger.Fatalf("load menu: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, productrepo.NewPostgres(pool, logger), products, logger); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
