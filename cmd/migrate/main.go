// Command migrate manages the storefront_kv schema used by the postgres
// storage backend.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"github.com/joao-fontenele/storefront/internal/config"
	"github.com/joao-fontenele/storefront/internal/storage"
)

const usage = "usage: migrate [-env file] <up|down|version|force N>"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	envFile := flag.String("env", ".env", "dotenv file to load")
	flag.Parse()

	if err := run(logger, *envFile, flag.Args()); err != nil {
		logger.Error("migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, envFile string, args []string) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.PostgresURL == "" {
		return errors.New("POSTGRES_URL environment variable is required")
	}

	m, err := storage.NewMigrator(cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	switch args[0] {
	case "up":
		err := m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no pending migrations")
			return nil
		}
		if err != nil {
			return fmt.Errorf("up: %w", err)
		}
		logger.Info("migrations applied")

	case "down":
		err := m.Steps(-1)
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no migrations to roll back")
			return nil
		}
		if err != nil {
			return fmt.Errorf("down: %w", err)
		}
		logger.Info("rolled back one migration")

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migrations applied yet")
			return nil
		}
		if err != nil {
			return fmt.Errorf("version: %w", err)
		}
		logger.Info("storefront_kv schema", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	case "force":
		// Clears the dirty flag after a failed migration was fixed by hand.
		if len(args) != 2 {
			return errors.New("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force: %w", err)
		}
		logger.Info("schema version forced", slog.Int("version", version))

	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
	return nil
}
