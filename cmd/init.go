package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newhook/outlook/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a new outlook project",
	Long: `Create .outlook/ in the given directory (default: current directory) with a
documented config.toml and an empty item database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	proj, err := project.Create(GetContext(), dir)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	defer proj.Close()

	fmt.Printf("Project '%s' created successfully!\n", proj.Config.Project.Name)
	fmt.Printf("  Directory: %s\n", proj.Root)
	fmt.Printf("  Database:  %s\n", proj.DBPath())
	fmt.Printf("  Repo:      %s\n", proj.RepoPath())
	fmt.Println()
	fmt.Println("Next: load work items with 'outlook import items.toml'.")
	return nil
}
