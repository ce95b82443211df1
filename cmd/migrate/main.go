package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
		confirm        bool
	)

	flag.StringVar(&migrationsPath, "path", "migrations", "Path to migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&confirm, "confirm", false, "Required by drop")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	logCfg := logger.DefaultConfig()
	logCfg.Level = logLevel
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	// File-only commands do not need a database connection
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Usage: migrate create <name> [description]")
		}
		mf, err := migration.CreateMigration(migrationsPath, args[1], strings.Join(args[2:], " "))
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		fmt.Printf("Created:\n  %s\n  %s\n", mf.UpPath, mf.DownPath)
		return
	case "list":
		names, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	if err := runCommand(m, command, args[1:], confirm); err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func runCommand(m *migration.Migrator, command string, args []string, confirm bool) error {
	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args, "step")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		v, err := intArg(args, "goto")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("goto version must not be negative")
		}
		return m.GoTo(uint(v))
	case "force":
		v, err := intArg(args, "force")
		if err != nil {
			return err
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("Version: %d\nDirty: %t\n", version, dirty)
		return nil
	case "drop":
		if !confirm {
			return fmt.Errorf("drop deletes every table; rerun with -confirm")
		}
		return m.Drop()
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func intArg(args []string, command string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("usage: migrate %s <n>", command)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", args[0], err)
	}
	return n, nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `WMS Database Migration Tool

Usage:
  migrate [flags] <command> [args]

Commands:
  create <name> [description]  Create a new migration pair
  list                         List migration files
  up                           Apply all pending migrations
  down                         Roll back all migrations
  step <n>                     Apply n migrations (negative rolls back)
  goto <version>               Migrate to a specific version
  version                      Print the current version
  force <version>              Set the version without running migrations
  drop -confirm                Drop everything in the database

Flags:
  -path string       Path to migrations directory (default "migrations")
  -log-level string  Log level (default "info")
  -confirm           Confirm destructive commands

Environment:
  WMS_DATABASE_HOST, WMS_DATABASE_PORT, WMS_DATABASE_USER,
  WMS_DATABASE_PASSWORD, WMS_DATABASE_DBNAME, WMS_DATABASE_SSLMODE
`)
}
