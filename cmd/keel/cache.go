package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"keel/internal/metadata"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the compiled-metadata disk cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all cached compiled payloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := metadata.OpenCache("keel")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if err := cache.Clean(); err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}
		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleaned")
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
}
