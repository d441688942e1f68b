package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thefavrs/backend/internal/config"
	"github.com/thefavrs/backend/internal/logging"
	"github.com/thefavrs/backend/internal/repository"
	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   apply pending migrations
  reset       drop every table and recreate from the consolidated schema
  fresh       drop every table and apply all migrations in order`)
	os.Exit(1)
}

type migrator struct {
	pool   *pgxpool.Pool
	dir    string
	logger *zap.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel).Named("migrate")
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal(logger, "connect failed", zap.Error(err))
	}
	defer pool.Close()

	m := &migrator{pool: pool, dir: findMigrationDir(), logger: logger}

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "":
		m.runIncremental(ctx)
	case "reset":
		m.runFile(ctx, "000_drop_all.sql")
		m.runConsolidated(ctx)
	case "fresh":
		m.runFile(ctx, "000_drop_all.sql")
		m.runIncremental(ctx)
	default:
		usage()
	}
}

func findMigrationDir() string {
	dir := "migrations"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = "../migrations"
	}
	return dir
}

// upFiles returns the sorted .up.sql file names.
func (m *migrator) upFiles() []string {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		logging.Fatal(m.logger, "read migrations dir failed", zap.Error(err))
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files
}

func (m *migrator) ensureSchemaMigrations(ctx context.Context) {
	_, err := m.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		logging.Fatal(m.logger, "create schema_migrations failed", zap.Error(err))
	}
}

func (m *migrator) runIncremental(ctx context.Context) {
	m.ensureSchemaMigrations(ctx)

	applied := 0
	for _, filename := range m.upFiles() {
		name := strings.TrimSuffix(filename, ".up.sql")

		var exists bool
		if err := m.pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists); err != nil {
			logging.Fatal(m.logger, "check migration failed", zap.String("migration", name), zap.Error(err))
		}
		if exists {
			continue
		}

		m.runFile(ctx, filename)
		if _, err := m.pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			logging.Fatal(m.logger, "record migration failed", zap.String("migration", name), zap.Error(err))
		}
		applied++
	}

	if applied == 0 {
		m.logger.Info("all migrations already applied")
	} else {
		m.logger.Info("migrations completed", zap.Int("count", applied))
	}
}

func (m *migrator) runFile(ctx context.Context, filename string) {
	sql, err := os.ReadFile(filepath.Join(m.dir, filename))
	if err != nil {
		logging.Fatal(m.logger, "read migration failed", zap.String("file", filename), zap.Error(err))
	}
	if _, err := m.pool.Exec(ctx, string(sql)); err != nil {
		logging.Fatal(m.logger, "migration failed", zap.String("file", filename), zap.Error(err))
	}
	m.logger.Info("applied", zap.String("file", filename))
}

// runConsolidated applies the consolidated schema and marks every
// migration as applied.
func (m *migrator) runConsolidated(ctx context.Context) {
	m.runFile(ctx, "000_consolidated.sql")

	m.ensureSchemaMigrations(ctx)
	files := m.upFiles()
	for _, filename := range files {
		name := strings.TrimSuffix(filename, ".up.sql")
		if _, err := m.pool.Exec(ctx,
			"INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING", name); err != nil {
			logging.Fatal(m.logger, "record migration failed", zap.String("migration", name), zap.Error(err))
		}
	}
	m.logger.Info("consolidated schema applied", zap.Int("migrations_marked", len(files)))
}
