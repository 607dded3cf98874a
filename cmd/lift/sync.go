// ABOUTME: CLI commands for Charm-based sync when the charm backend is selected.
// ABOUTME: Supports link, unlink, status, repair, reset, and wipe operations.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/charm"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync training data across devices",
	Long: `Sync training data across devices using Charm Cloud.

Sync applies when "backend" is "charm" in ~/.config/lift/config.json.
Move existing SQLite data over with 'lift migrate --from sqlite --to charm'.
Data is E2E encrypted with your SSH key before upload.

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  repair      Repair database corruption (checkpoints WAL, removes SHM, vacuums)
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)

Data syncs automatically after each write.`,
}

// charmRepo returns the open repository as a Charm client, or nil for other backends.
func charmRepo() *charm.Client {
	c, _ := repo.(*charm.Client)
	return c
}

func runCharmCLI(args ...string) error {
	charmCmd := exec.Command("charm", args...)
	charmCmd.Stdin = os.Stdin
	charmCmd.Stdout = os.Stdout
	charmCmd.Stderr = os.Stderr
	return charmCmd.Run()
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI("link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		color.Green("\n✓ Device linked to Charm")

		if c := charmRepo(); c != nil {
			if err := c.Sync(); err != nil {
				color.Yellow("⚠ Initial sync failed: %v", err)
			} else {
				color.Green("✓ Initial sync complete")
			}
		} else {
			fmt.Println("Set \"backend\": \"charm\" in your config to start syncing.")
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:         "unlink",
	Short:       "Disconnect from Charm",
	Annotations: map[string]string{skipRepo: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI("unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		color.Green("✓ Device unlinked from Charm")
		fmt.Println("Your local training data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := charmRepo()
		if c == nil {
			color.Yellow("Sync is off: backend is %s", cfg.GetBackend())
			fmt.Println("\nRun 'lift migrate --from sqlite --to charm --set-default' to switch.")
			return nil
		}

		id, err := c.ID()
		if err != nil {
			color.Yellow("Not linked to Charm")
			fmt.Println("\nRun 'lift sync link' to connect to Charm.")
			return nil
		}

		host := cfg.CharmHost
		if host == "" {
			host = charm.DefaultHost
		}
		fmt.Println("Charm ID:", id)
		fmt.Println("Server:", host)
		if c.IsReadOnly() {
			color.Yellow("Read-only: another lift process holds the database")
		}
		fmt.Println()

		sets, _ := c.ListSets(storage.SetFilter{})
		sessions, _ := c.ListSessions(nil, 0)

		color.Green("✓ Connected to Charm")
		fmt.Printf("  Sets: %d\n", len(sets))
		fmt.Printf("  Sessions: %d\n", len(sessions))
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:         "wipe",
	Short:       "Delete all cloud and local data",
	Annotations: map[string]string{skipRepo: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will PERMANENTLY DELETE all cloud backups and local lift data.")
		fmt.Print("Type 'wipe' to confirm: ")
		var confirm string
		_, _ = fmt.Scanln(&confirm)
		if confirm != "wipe" {
			fmt.Println("Canceled.")
			return nil
		}

		result, err := kv.Wipe(charm.DefaultDBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.Green("✓ Data wiped successfully")
		fmt.Printf("  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Printf("  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:         "repair",
	Short:       "Repair database corruption",
	Annotations: map[string]string{skipRepo: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		fmt.Println("Repairing lift database...")
		result, err := kv.Repair(charm.DefaultDBName, force)

		if result.WalCheckpointed {
			color.Green("  ✓ WAL checkpointed")
		}
		if result.ShmRemoved {
			color.Green("  ✓ SHM file removed")
		}
		if result.IntegrityOK {
			color.Green("  ✓ Integrity check passed")
		} else {
			color.Red("  ✗ Integrity check failed")
		}
		if result.Vacuumed {
			color.Green("  ✓ Database vacuumed")
		}

		if err != nil {
			if !force {
				color.Yellow("\nRun with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		color.Green("\n✓ Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := charmRepo()
		if c == nil {
			return fmt.Errorf("reset needs the charm backend (current: %s)", cfg.GetBackend())
		}

		fmt.Println("This will DELETE all local lift data and restore from cloud.")
		fmt.Print("Continue? [y/N]: ")
		var confirm string
		_, _ = fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Canceled.")
			return nil
		}

		if err := c.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		color.Green("✓ Local data reset and restored from cloud")
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	syncRepairCmd.Flags().Bool("force", false, "Attempt recovery even if integrity checks fail")

	rootCmd.AddCommand(syncCmd)
}
