// ABOUTME: CLI commands for exporting and importing training data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput   string
	exportExercise string
	exportSince    string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export training data",
	Long: `Export training data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export grouped by exercise (human-readable)
  markdown   Markdown tables (for documentation/sharing)

OPTIONS:

  --output, -o     Write to file instead of stdout
  --exercise, -e   Only one exercise (markdown only)
  --since          Only include sets since this date (YYYY-MM-DD, markdown only)

EXAMPLES:

  lift export json                          # Export all data as JSON
  lift export json -o backup.json           # Save to file
  lift export yaml                          # Export as YAML
  lift export markdown --exercise squat     # Squat sets as Markdown
  lift export markdown --since 2025-01-01   # Sets from 2025 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(repo)
		case "yaml":
			data, err = storage.ExportYAML(repo)
		case "markdown", "md":
			var since *time.Time
			if exportSince != "" {
				t, perr := time.ParseInLocation("2006-01-02", exportSince, time.Local)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			var md string
			md, err = storage.ExportMarkdown(repo, exportExercise, since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import training data from JSON",
	Long: `Import sessions and sets from a JSON backup file.

Every set is validated before anything is written. Duplicate entries
(same ID) cause an error.

EXAMPLES:

  lift import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := storage.ImportJSON(repo, data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportExercise, "exercise", "e", "", "filter by exercise (markdown only)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include sets since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
