// ABOUTME: Install Claude Code skill for lift.
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/.

package main

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the lift skill for Claude Code.

This copies the skill definition to ~/.claude/skills/lift/
so Claude Code can log sets and ask for recommendations.`,
	Annotations: map[string]string{skipRepo: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(home, os.Stdin)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

// skillPath is where the skill lives under home.
func skillPath(home string) string {
	return filepath.Join(home, ".claude", "skills", "lift", "SKILL.md")
}

func installSkill(home string, in io.Reader) error {
	path := skillPath(home)

	fmt.Println("This will install the lift skill, enabling Claude Code to:")
	fmt.Println()
	fmt.Println("  • Log sets with RPE")
	fmt.Println("  • Start and finish training sessions")
	fmt.Println("  • Recommend weight, reps and rest for next time")
	fmt.Println()
	fmt.Println("Destination:")
	fmt.Printf("  %s\n", path)
	fmt.Println()

	if _, err := os.Stat(path); err == nil {
		fmt.Println("Note: A skill file already exists and will be overwritten.")
		fmt.Println()
	}

	if !skillSkipConfirm {
		fmt.Print("Install the lift skill? [y/N] ")
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Installation canceled.")
			return nil
		}
		fmt.Println()
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	color.Green("✓ Installed lift skill")
	fmt.Println("Try asking Claude: \"I just did squats, 100kg for 5 at RPE 8\"")
	return nil
}
