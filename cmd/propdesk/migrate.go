package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Strob0t/PropDesk/internal/adapter/postgres"
	"github.com/Strob0t/PropDesk/internal/config"
)

// runMigrate dispatches migrate subcommands (up, down, status).
func runMigrate(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printMigrateHelp()
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dsn := cfg.Postgres.DSN
	ctx := context.Background()

	switch args[0] {
	case "up":
		if err := postgres.RunMigrations(ctx, dsn); err != nil {
			return err
		}
	case "down":
		fs := flag.NewFlagSet("down", flag.ContinueOnError)
		steps := fs.Int("steps", 1, "number of migrations to roll back")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *steps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		if err := postgres.RollbackMigrations(ctx, dsn, *steps); err != nil {
			return err
		}
	case "status":
	default:
		printMigrateHelp()
		return fmt.Errorf("unknown migrate command: %s", args[0])
	}

	version, err := postgres.MigrationVersion(ctx, dsn)
	if err != nil {
		return err
	}
	fmt.Printf("Database version: %d\n", version)
	return nil
}

func printMigrateHelp() {
	fmt.Fprintf(os.Stderr, `Usage: propdesk migrate <command> [options]

Commands:
  up       Apply all pending migrations
  down     Roll back migrations (--steps N, default 1)
  status   Print the current migration version
  help     Show this help message

Examples:
  propdesk migrate up
  propdesk migrate down --steps 2
  propdesk migrate status
`)
}
