package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyperjump/motoblog/internal/ranking"
	"github.com/hyperjump/motoblog/internal/server"
	"github.com/hyperjump/motoblog/internal/storage"
	"github.com/hyperjump/motoblog/internal/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the catalog and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Server.Port = port
			}
			return a.serve(cmd)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	return cmd
}

func (a *app) serve(cmd *cobra.Command) error {
	logger := a.logger
	engine, catalogs, err := a.buildEngine(cmd)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded",
		zap.String("content_dir", a.cfg.Content.Dir),
		zap.Int("posts", engine.Catalog().Len()),
	)

	recent, err := storage.New(a.cfg.Storage)
	if err != nil {
		return err
	}
	defer recent.Close()

	rankCfg := ranking.DefaultRankingConfig()
	rankCfg.DefaultLimit = a.cfg.Catalog.RelatedLimit
	srv := server.NewServer(engine, ranking.NewRanker(rankCfg), recent, a.cfg, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.Content.WatchOrDefault() {
		loader := a.contentLoader()
		dir := a.cfg.Content.Dir
		w := watcher.NewWatcher(dir, loader.IsRelevant, func(ctx context.Context) {
			_ = loader.Reload(ctx, dir, catalogs)
		}, watcher.WithLogger(logger))
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
		srv.WithWatcher(w)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
