package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hyperjump/motoblog/internal/models"
	"github.com/hyperjump/motoblog/internal/search"
)

// Fetcher returns the posts on one page of q. A page past the last one yields no posts.
type Fetcher interface {
	FetchPage(ctx context.Context, q models.Query, page int) ([]models.Post, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, q models.Query, page int) ([]models.Post, error)

// FetchPage calls f.
func (f FetcherFunc) FetchPage(ctx context.Context, q models.Query, page int) ([]models.Post, error) {
	return f(ctx, q, page)
}

// CatalogFetcher reads pages from an in-process search engine.
type CatalogFetcher struct {
	engine *search.Engine
	delay  time.Duration
}

// NewCatalogFetcher creates a fetcher over engine. A positive delay is waited out
// before every fetch.
func NewCatalogFetcher(engine *search.Engine, delay time.Duration) *CatalogFetcher {
	return &CatalogFetcher{engine: engine, delay: delay}
}

// FetchPage returns page of q, or no posts when page is past the last page.
func (f *CatalogFetcher) FetchPage(ctx context.Context, q models.Query, page int) ([]models.Post, error) {
	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	res, err := f.engine.Search(ctx, q.WithPage(page))
	if err != nil {
		return nil, err
	}
	return pageItems(res, page), nil
}

// HTTPFetcher reads pages from a running server's posts endpoint.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher for the server at baseURL. A nil client uses
// http.DefaultClient.
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// FetchPage requests page of q from the server.
func (f *HTTPFetcher) FetchPage(ctx context.Context, q models.Query, page int) ([]models.Post, error) {
	res, err := f.Search(ctx, q.WithPage(page))
	if err != nil {
		return nil, err
	}
	return pageItems(res, page), nil
}

// Search requests the result page for q.
func (f *HTTPFetcher) Search(ctx context.Context, q models.Query) (*models.ResultPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/api/v1/posts?"+q.Values().Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var res models.ResultPage
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &res, nil
}

// pageItems drops a page that was clamped to a different page number.
func pageItems(res *models.ResultPage, page int) []models.Post {
	if res.Page != page {
		return []models.Post{}
	}
	return res.Items
}
