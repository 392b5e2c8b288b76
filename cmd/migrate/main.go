package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"wingo/internal/config"
	"wingo/internal/database"
)

const migrationsDir = "./internal/database/migrations"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()
	cfg.SetupLogging()
	command := os.Args[1]

	if command == "create" {
		if len(os.Args) < 3 {
			logrus.Fatal("Usage: migrate create <migration_name>")
		}
		createMigration(os.Args[2])
		return
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	migrationsPath := cfg.Database.MigrationsPath

	switch command {
	case "up":
		logrus.Info("running migrations")
		if err := database.RunMigrations(db.DB(), migrationsPath); err != nil {
			logrus.WithError(err).Fatal("migration failed")
		}
		logrus.Info("migrations completed successfully")

	case "down":
		logrus.Info("rolling back last migration")
		if err := database.RollbackMigration(db.DB(), migrationsPath); err != nil {
			logrus.WithError(err).Fatal("rollback failed")
		}
		logrus.Info("rollback completed successfully")

	case "version":
		version, dirty, err := database.GetMigrationVersion(db.DB(), migrationsPath)
		if err != nil {
			logrus.WithError(err).Fatal("failed to get version")
		}
		if dirty {
			logrus.Warnf("current version: %d (DIRTY - needs manual intervention)", version)
		} else {
			logrus.Infof("current version: %d", version)
		}

	default:
		logrus.Errorf("unknown command: %s", command)
		printUsage()
		os.Exit(1)
	}
}

func createMigration(name string) {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		logrus.WithError(err).Fatal("failed to read migrations directory")
	}
	nextVersion := len(files) + 1

	upFile := filepath.Join(migrationsDir, fmt.Sprintf("%06d_%s.up.sql", nextVersion, name))
	downFile := filepath.Join(migrationsDir, fmt.Sprintf("%06d_%s.down.sql", nextVersion, name))

	upContent := fmt.Sprintf("-- Migration: %s\n-- Created: %s\n\n-- Add your SQL here\n", name, time.Now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(upFile, []byte(upContent), 0644); err != nil {
		logrus.WithError(err).Fatal("failed to create up migration")
	}
	downContent := fmt.Sprintf("-- Rollback: %s\n\n-- Add your rollback SQL here\n", name)
	if err := os.WriteFile(downFile, []byte(downContent), 0644); err != nil {
		logrus.WithError(err).Fatal("failed to create down migration")
	}

	logrus.WithFields(logrus.Fields{"up": upFile, "down": downFile}).Info("created migration files")
}

func printUsage() {
	fmt.Println("Database Migration Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  migrate up              Run all pending migrations")
	fmt.Println("  migrate down            Rollback the last migration")
	fmt.Println("  migrate version         Show current migration version")
	fmt.Println("  migrate create <name>   Create a new migration file")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_HOST                 Database host (default: localhost)")
	fmt.Println("  DB_PORT                 Database port (default: 5432)")
	fmt.Println("  DB_DATABASE             Database name (default: wingo)")
	fmt.Println("  DB_USERNAME             Database user (default: postgres)")
	fmt.Println("  DB_PASSWORD             Database password (default: postgres)")
	fmt.Println("  DB_SCHEMA               Search path schema (default: public)")
	fmt.Println("  MIGRATIONS_PATH         Path to migrations (default: embedded)")
}
