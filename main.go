// Package main implements a CLI tool that bumps the canary version in
// Cargo.toml, refreshes the lock file, and commits, tags, and pushes the
// release using git.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	canary "github.com/shiguredo/canary/pkg"
)

var dryRun bool

var rootCmd = &cobra.Command{
	Use:   "canary",
	Short: "Bump the Cargo.toml canary version and push a release commit",
	Long: `canary bumps the version in the [package] section of ./Cargo.toml:
a X.Y.Z-canary.N version increments N, a stable X.Y.Z version rolls to
X.(Y+1).0-canary.0. After interactive confirmation it runs
'cargo update ` + canary.DefaultDependency + `', commits Cargo.toml and
Cargo.lock, tags the commit with the new version, and pushes the branch
and the tag.`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		meta, err := canary.New(dryRun).Run()
		if err != nil {
			return err
		}
		if !meta.Released {
			// User declined; nothing was touched.
			return nil
		}

		// Summary
		if dryRun {
			fmt.Println("Dry run complete. No files or git state were modified.")
		} else {
			fmt.Println("Canary release complete!")
		}
		fmt.Printf("Old Version: %s\n", meta.OldVersion)
		fmt.Printf("New Version: %s\n", meta.NewVersion)
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the intended changes without touching files or running commands")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
