// ABOUTME: CLI command for migrating data between storage backends.
// ABOUTME: Copies sessions and sets from one backend to another, e.g. sqlite to charm.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/config"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom       string
	migrateTo         string
	migrateDryRun     bool
	migrateForce      bool
	migrateSetDefault bool
)

// batchSyncer is implemented by backends that sync to a remote after writes.
type batchSyncer interface {
	SetAutoSync(enabled bool)
	Sync() error
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Copy all sessions and sets from one storage backend to another.

BACKENDS:

  sqlite   Local SQLite database (default)
  charm    Charm KV, synced across devices

IMPORTANT:

  - The destination must be empty unless --force is given
  - Duplicate IDs in the destination cause an error
  - Run with --dry-run first to see what would be migrated

USAGE:

  lift migrate --from sqlite --to charm --dry-run   # Preview
  lift migrate --from sqlite --to charm             # Copy
  lift migrate --from sqlite --to charm --set-default`,
	Annotations: map[string]string{skipRepo: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination are both %s", migrateFrom)
		}

		c, err := config.LoadFrom(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log := newLogger(c, false)

		src, err := c.OpenBackend(migrateFrom)
		if err != nil {
			return fmt.Errorf("failed to open source %s: %w", migrateFrom, err)
		}
		defer src.Close()

		if migrateDryRun {
			data, err := src.GetAllData()
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Printf("  Would migrate %d sessions and %d sets from %s to %s\n",
				len(data.Sessions), len(data.Sets), migrateFrom, migrateTo)
			return nil
		}

		dst, err := c.OpenBackend(migrateTo)
		if err != nil {
			return fmt.Errorf("failed to open destination %s: %w", migrateTo, err)
		}
		defer dst.Close()

		if !migrateForce {
			has, err := storage.HasData(dst)
			if err != nil {
				return err
			}
			if has {
				return fmt.Errorf("destination %s already has data (use --force to merge)", migrateTo)
			}
		}

		if bs, ok := dst.(batchSyncer); ok {
			bs.SetAutoSync(false)
			defer bs.SetAutoSync(true)
		}

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		if bs, ok := dst.(batchSyncer); ok {
			if err := bs.Sync(); err != nil {
				color.Yellow("⚠ Sync after migration failed: %v", err)
			}
		}

		log.Info().
			Str("from", migrateFrom).
			Str("to", migrateTo).
			Int("sessions", summary.Sessions).
			Int("sets", summary.Sets).
			Msg("migration complete")

		color.Green("✓ Migrated %d sessions and %d sets from %s to %s",
			summary.Sessions, summary.Sets, migrateFrom, migrateTo)

		if migrateSetDefault {
			c.Backend = migrateTo
			if err := c.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("  Default backend is now %s (%s)\n", migrateTo, c.Path())
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "sqlite", "source backend (sqlite or charm)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "charm", "destination backend (sqlite or charm)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "migrate even if the destination has data")
	migrateCmd.Flags().BoolVar(&migrateSetDefault, "set-default", false, "make the destination the configured backend")
	rootCmd.AddCommand(migrateCmd)
}
