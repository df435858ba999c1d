package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/motoblog/internal/catalog"
	"go.uber.org/zap"
)

// BuildCatalog loads dir and builds a catalog from it. Any unreadable file or invalid
// record fails the whole build.
func (l *Loader) BuildCatalog(ctx context.Context, dir string) (*catalog.Catalog, error) {
	recs, loadErr := l.LoadDir(ctx, dir)
	if loadErr != nil && (errors.Is(loadErr, context.Canceled) || errors.Is(loadErr, context.DeadlineExceeded)) {
		return nil, loadErr
	}
	cat, catErr := catalog.Load(recs)
	if err := errors.Join(loadErr, catErr); err != nil {
		return nil, fmt.Errorf("build catalog from %s: %w", dir, err)
	}
	return cat, nil
}

// Reload rebuilds the catalog from dir and swaps it into store. On failure the catalog
// in service is kept and the error returned.
func (l *Loader) Reload(ctx context.Context, dir string, store *catalog.Store) error {
	cat, err := l.BuildCatalog(ctx, dir)
	if err != nil {
		l.logger.Error("content reload failed; keeping current catalog", zap.String("dir", dir), zap.Error(err))
		return err
	}
	prev := store.Swap(cat)
	prevLen := 0
	if prev != nil {
		prevLen = prev.Len()
	}
	l.logger.Info("content reloaded", zap.String("dir", dir), zap.Int("posts", cat.Len()), zap.Int("previous", prevLen))
	return nil
}
