package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hyperjump/motoblog/internal/catalog"
	"github.com/hyperjump/motoblog/internal/cli"
	"github.com/hyperjump/motoblog/internal/config"
	"github.com/hyperjump/motoblog/internal/content"
	"github.com/hyperjump/motoblog/internal/search"
	"github.com/hyperjump/motoblog/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the state shared by all subcommands.
type app struct {
	cfgFile string
	envFile string
	debug   bool
	jsonOut bool
	cfg     *config.Config
	cfgPath string
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "motoblog",
		Short:         "Motorcycle blog catalog, search and API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./config.yaml if present)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file with MOTOBLOG_* overrides")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		newServeCmd(a),
		newPostsCmd(a),
		newRelatedCmd(a),
		newFacetsCmd(a),
		newBrowseCmd(a),
		newRecentCmd(a),
		newSitemapCmd(a),
		newInitCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup() error {
	if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", a.envFile, err)
	}
	cfg, path, err := loadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	a.cfgPath = path
	a.logger, err = utils.NewLogger(cfg.Debug || a.debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger.Debug("config loaded", zap.String("config_path", path))
	return nil
}

// loadConfig loads config from path. When path is empty it uses config.yaml in the
// current directory if there is one, and the defaults otherwise. Returns the config
// and the path that was loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", err
		}
		fallback := filepath.Join(cwd, "config.yaml")
		if _, statErr := os.Stat(fallback); statErr != nil {
			return config.Default(cwd), "", nil
		}
		path = fallback
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func (a *app) format() cli.OutputFormat {
	if a.jsonOut {
		return cli.OutputJSON
	}
	return cli.OutputText
}

func (a *app) contentLoader() *content.Loader {
	return content.NewLoader(a.cfg.Content.Extensions, a.logger)
}

// buildEngine loads the content directory into a catalog and returns an engine over it.
func (a *app) buildEngine(cmd *cobra.Command) (*search.Engine, *catalog.Store, error) {
	cat, err := a.contentLoader().BuildCatalog(cmd.Context(), a.cfg.Content.Dir)
	if err != nil {
		return nil, nil, err
	}
	store := catalog.NewStore(cat)
	return search.NewEngine(store, &a.cfg.Catalog, a.logger), store, nil
}
