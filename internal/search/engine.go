// Package search provides filtering, sorting and pagination over the post catalog.
package search

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hyperjump/motoblog/internal/catalog"
	"github.com/hyperjump/motoblog/internal/config"
	"github.com/hyperjump/motoblog/internal/models"
	"go.uber.org/zap"
)

// minSuggestRunes is the shortest text that produces suggestions.
const minSuggestRunes = 2

// Engine runs queries against the catalog currently in service.
type Engine struct {
	catalogs *catalog.Store
	config   *config.CatalogConfig
	logger   *zap.Logger
}

// NewEngine creates a search engine over the given catalog store.
func NewEngine(catalogs *catalog.Store, cfg *config.CatalogConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		catalogs: catalogs,
		config:   cfg,
		logger:   logger,
	}
}

// Catalog returns the catalog in service.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalogs.Current()
}

// DefaultQuery returns page 1 of the unfiltered listing with the configured page size.
func (e *Engine) DefaultQuery() models.Query {
	return models.NewQuery(e.config.PageSize)
}

// Search returns the page of posts selected by q.
func (e *Engine) Search(ctx context.Context, q models.Query) (*models.ResultPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	startTime := time.Now()
	page, err := FilterSortPaginate(e.catalogs.Current().All(), q)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("query",
		zap.String("q", q.SearchText),
		zap.String("category", q.Category),
		zap.String("tag", q.Tag),
		zap.String("sort", string(q.Sort)),
		zap.Int("requested_page", q.Page),
		zap.Int("page", page.Page),
		zap.Int("total_items", page.TotalItems),
		zap.Duration("took", time.Since(startTime)),
	)
	return page, nil
}

// Suggest returns up to limit posts whose title, excerpt, category or tags contain text,
// most recent first. Texts shorter than two characters yield nothing. A non-positive
// limit uses the configured suggestion limit.
func (e *Engine) Suggest(ctx context.Context, text string, limit int) ([]models.Post, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minSuggestRunes {
		return nil, nil
	}
	if limit <= 0 {
		limit = e.config.SuggestLimit
	}
	page, err := e.Search(ctx, models.Query{SearchText: text, Sort: models.SortDate, Page: 1, PageSize: limit})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}
