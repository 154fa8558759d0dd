// Command importer builds the spell database from the upstream CSV dataset.
// It is a one-shot tool: run it once to create or rebuild the database, then
// serve queries with the server command.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/config"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/importer"
	sqliteClient "github.com/BubbleCoding/Spellfinder-PF1E/internal/platform/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	dbPath := flag.String("db", cfg.DB.Path, "path to the SQLite database file")
	csvURL := flag.String("csv-url", cfg.Import.CSVURL, "URL of the spells CSV dataset")
	csvFile := flag.String("csv-file", "", "local CSV file to load instead of downloading")
	categories := flag.String("categories", cfg.Import.CategoriesPath, "optional category assignments JSON file")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := sqliteClient.New(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open database failed: %v", err)
	}

	var csvText string
	if *csvFile != "" {
		csvText, err = importer.ReadCSVFile(*csvFile)
	} else {
		log.Printf("downloading dataset from %s", *csvURL)
		csvText, err = importer.FetchCSV(ctx, *csvURL)
	}
	if err != nil {
		log.Fatalf("load dataset failed: %v", err)
	}

	stats, err := importer.New(db).Run(ctx, csvText, *categories)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("imported %d spells, %d class associations, %d category assignments into %s",
		stats.Spells, stats.Classes, stats.Categories, *dbPath)
}
