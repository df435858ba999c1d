package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/motoblog/internal/catalog"
	"github.com/hyperjump/motoblog/internal/config"
	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file and create the content directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "config.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			contentDir := cfg.Content.Dir
			if !filepath.IsAbs(contentDir) {
				contentDir = filepath.Join(filepath.Dir(path), contentDir)
			}
			if err := os.MkdirAll(contentDir, 0o755); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			if cat, err := a.contentLoader().BuildCatalog(cmd.Context(), contentDir); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Content: %s\n", catalogStats(cat))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "motoblog version %s\n", version)
		},
	}
}

// catalogStats is a short summary used by init.
func catalogStats(c *catalog.Catalog) string {
	return fmt.Sprintf("%d posts, %d categories, %d tags", c.Len(), len(c.CategoriesWithCounts()), len(c.TagsWithCounts()))
}
