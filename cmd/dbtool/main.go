package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"field-dispatch-service/internal/adapters/repositories"
	"field-dispatch-service/internal/config"
	"field-dispatch-service/internal/platform/db"
	"field-dispatch-service/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found (using environment variables)")
	}

	var (
		databaseURL string
		seedPath    string
		migrate     bool
		seed        bool
	)

	flagSet := pflag.NewFlagSet("dbtool", pflag.ContinueOnError)
	flagSet.StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "postgres connection string (default $DATABASE_URL)")
	flagSet.StringVar(&seedPath, "seed-file", config.Get("SEED_PATH", "data/seeds/seed.yaml"), "YAML seed file with targets and agents")
	flagSet.BoolVar(&migrate, "migrate", true, "apply pending schema migrations")
	flagSet.BoolVar(&seed, "seed", false, "upsert demo targets and agents from --seed-file")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if strings.TrimSpace(databaseURL) == "" {
		return fmt.Errorf("--database-url or DATABASE_URL is required")
	}

	log := logger.New(config.Get("APP_ENV", "development"))
	slog.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrate {
		log.Info("applying migrations")
		sqlDB := db.SQLDB(pool)
		err := db.Migrate(ctx, sqlDB)
		sqlDB.Close()
		if err != nil {
			return err
		}
		log.Info("schema ready")
	}

	if seed {
		log.Info("seeding database", "file", seedPath)
		f, err := repositories.LoadSeed(seedPath)
		if err != nil {
			return err
		}
		if err := repositories.Seed(ctx, pool, f, time.Now()); err != nil {
			return err
		}
		log.Info("seeding complete", "targets", len(f.Targets), "agents", len(f.Agents))
	}

	return nil
}
