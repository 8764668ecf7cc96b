// Command migrate inspects and applies the database schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"smartchecklist/internal/config"
	"smartchecklist/internal/database"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <status|auto>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "auto":
		if err := database.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")
		return printStats(ctx, db)
	case "status":
		status, err := database.InspectSchema(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("env=%s driver=%s ready=%t", status.Environment, status.Driver, status.Ready)
		for _, table := range status.MissingTables {
			log.Printf("missing table: %s", table)
		}
		if !status.Ready {
			return nil
		}
		return printStats(ctx, db)
	default:
		return usage()
	}
}

func printStats(ctx context.Context, db *gorm.DB) error {
	counts, err := database.Stats(ctx, db)
	if err != nil {
		return err
	}
	log.Printf("users=%d checklists=%d items=%d", counts.Users, counts.Checklists, counts.Items)
	return nil
}
