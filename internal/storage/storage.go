// Package storage persists per-session recent searches.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/motoblog/internal/config"
)

// MaxRecentSearches is the number of searches kept per session.
const MaxRecentSearches = 5

// RecentSearchStore keeps the latest search texts of each session, most recent first.
// Adding a text already in the list moves it to the front. Blank texts are ignored.
type RecentSearchStore interface {
	Get(ctx context.Context, session string) ([]string, error)
	Add(ctx context.Context, session, text string) error
	Clear(ctx context.Context, session string) error
	Close() error
}

// New opens the store selected by cfg.Backend.
func New(cfg config.StorageConfig) (RecentSearchStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendSQLite, "":
		return NewSQLiteStore(cfg.DatabasePath)
	case config.BackendRedis:
		return NewRedisStore(NewRedisClient(cfg.Redis)), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func normalizeSearch(text string) string {
	return strings.TrimSpace(text)
}

// pushRecent returns list with text moved or added to the front, capped at limit.
func pushRecent(list []string, text string, limit int) []string {
	out := make([]string, 0, limit)
	out = append(out, text)
	for _, s := range list {
		if len(out) == limit {
			break
		}
		if s != text {
			out = append(out, s)
		}
	}
	return out
}
