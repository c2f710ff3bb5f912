package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"delicias-urbanas/internal/config"
	"delicias-urbanas/internal/db"
	"delicias-urbanas/internal/importer"
	productrepo "delicias-urbanas/internal/repository/product"
)

func main() {
	var (
		filePath string
		position int
	)
	flag.StringVar(&filePath, "file", "", "Path to the menu CSV")
	flag.IntVar(&position, "position", 100, "Menu position of the first imported product")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, productrepo.NewPostgres(pool, logger), position)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	logger.Printf("imported %d products in %s", count, time.Since(start).Truncate(time.Millisecond))
}
