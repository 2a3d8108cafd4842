package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cognigenx/config"
	"cognigenx/db"
)

func main() {
	configPath := flag.String("config", config.Path(), "Path to config file")
	source := flag.String("source", "TriviaQuestions", "Database to copy trivia buckets from")
	target := flag.String("target", "", "Database to copy trivia buckets into (default: configured database)")
	dryRun := flag.Bool("dry-run", false, "Only count the buckets that would be copied")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.URI == "" {
		fmt.Println("Error: database URI is required (set MONGO_URI or database.uri)")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := db.ConnectMongoDB(cfg.Database.URI, *target); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Disconnect()

	if *source == db.MongoDatabase.Name() {
		log.Fatalf("Source and target database are both %q", *source)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if !*dryRun {
		if err := db.EnsureIndexes(ctx, db.MongoDatabase); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
	}

	result, err := db.CopyTrivia(ctx, db.MongoClient.Database(*source), db.MongoDatabase, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Printf("Found %d buckets in %s\n", result.Found, *source)
	switch {
	case result.Found == 0:
		fmt.Println("No documents to migrate.")
	case *dryRun:
		fmt.Printf("Dry run: would copy into %s\n", db.MongoDatabase.Name())
	default:
		fmt.Printf("Inserted %d, skipped %d existing buckets in %s\n", result.Inserted, result.Skipped, db.MongoDatabase.Name())
	}
}
