package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hyperjump/motoblog/internal/cli"
	"github.com/hyperjump/motoblog/internal/loader"
	"github.com/hyperjump/motoblog/internal/models"
	"github.com/hyperjump/motoblog/internal/ranking"
	"github.com/hyperjump/motoblog/internal/site"
	"github.com/hyperjump/motoblog/internal/storage"
	"github.com/spf13/cobra"
)

// queryFlags are the listing filters shared by posts and browse.
type queryFlags struct {
	category string
	tag      string
	sort     string
	page     int
	pageSize int
	server   string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "only posts in this category")
	cmd.Flags().StringVar(&f.tag, "tag", "", "only posts with this tag")
	cmd.Flags().StringVar(&f.sort, "sort", "date", "sort order: date or title")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "posts per page (default from config)")
	cmd.Flags().StringVar(&f.server, "server", "", "query a running server at this URL instead of the content directory")
}

func (f *queryFlags) query(args []string, defaultPageSize int) models.Query {
	q := models.Query{
		SearchText: buildSearchQuery(args),
		Category:   strings.TrimSpace(f.category),
		Tag:        strings.TrimSpace(f.tag),
		Sort:       models.ParseSortMode(f.sort),
		Page:       f.page,
		PageSize:   f.pageSize,
	}
	if q.PageSize == 0 {
		q.PageSize = defaultPageSize
	}
	return q
}

// buildSearchQuery joins all positional args with spaces so multi-word searches
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func httpClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func newPostsCmd(a *app) *cobra.Command {
	var f queryFlags
	cmd := &cobra.Command{
		Use:   "posts [search text]",
		Short: "List one page of posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := f.query(args, a.cfg.Catalog.PageSize)
			var (
				page *models.ResultPage
				err  error
			)
			if f.server != "" {
				page, err = loader.NewHTTPFetcher(f.server, httpClient(a.cfg.Loader.Timeout)).Search(cmd.Context(), q)
			} else {
				engine, _, buildErr := a.buildEngine(cmd)
				if buildErr != nil {
					return buildErr
				}
				page, err = engine.Search(cmd.Context(), q)
			}
			if err != nil {
				return err
			}
			return cli.WriteResultPage(cmd.OutOrStdout(), page, a.format())
		},
	}
	f.register(cmd)
	return cmd
}

func newRelatedCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "related <slug>",
		Short: "Show the posts most related to a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := a.buildEngine(cmd)
			if err != nil {
				return err
			}
			cat := engine.Catalog()
			post, ok := cat.Get(args[0])
			if !ok {
				return fmt.Errorf("post %q not found", args[0])
			}
			if limit <= 0 {
				limit = a.cfg.Catalog.RelatedLimit
			}
			related := ranking.NewRanker(ranking.DefaultRankingConfig()).Related(cat, post, limit)
			return cli.WritePosts(cmd.OutOrStdout(), "Related to "+post.Title, related, a.format())
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of related posts (default from config)")
	return cmd
}

func newFacetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "List categories and tags with post counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := a.buildEngine(cmd)
			if err != nil {
				return err
			}
			return cli.WriteFacets(cmd.OutOrStdout(), engine.Catalog().Facets(), a.format())
		},
	}
}

func newBrowseCmd(a *app) *cobra.Command {
	var (
		f        queryFlags
		maxPages int
	)
	cmd := &cobra.Command{
		Use:   "browse [search text]",
		Short: "Load pages one after another until the listing is exhausted",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := f.query(args, a.cfg.Catalog.PageSize).WithPage(1)
			var fetcher loader.Fetcher
			if f.server != "" {
				fetcher = loader.NewHTTPFetcher(f.server, httpClient(a.cfg.Loader.Timeout))
			} else {
				engine, _, err := a.buildEngine(cmd)
				if err != nil {
					return err
				}
				fetcher = loader.NewCatalogFetcher(engine, a.cfg.Loader.SimulatedDelay)
			}
			return browse(cmd.Context(), a, fetcher, q, maxPages, cmd)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many pages (0 = until exhausted)")
	return cmd
}

func browse(ctx context.Context, a *app, fetcher loader.Fetcher, q models.Query, maxPages int, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	l := loader.New(fetcher, q, nil,
		loader.WithTimeout(a.cfg.Loader.Timeout),
		loader.WithLogger(a.logger),
	)
	shown := 0
	for maxPages <= 0 || l.Page() < maxPages {
		if !l.OnSentinelVisible(ctx) {
			break
		}
		if err := l.Wait(ctx); err != nil {
			return err
		}
		if err := l.Err(); err != nil {
			return err
		}
		items := l.Items()
		if len(items) == shown {
			break
		}
		if err := cli.WritePosts(out, fmt.Sprintf("Page %d", l.Page()), items[shown:], a.format()); err != nil {
			return err
		}
		shown = len(items)
	}
	if l.State() == loader.Exhausted && !a.jsonOut {
		fmt.Fprintf(out, "End of list: %d posts\n", shown)
	}
	return nil
}

func newRecentCmd(a *app) *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "recent <session>",
		Short: "Show or clear a session's recent searches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.New(a.cfg.Storage)
			if err != nil {
				return err
			}
			defer store.Close()
			if clearAll {
				return store.Clear(cmd.Context(), args[0])
			}
			searches, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, s := range searches {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "clear the session's searches")
	return cmd
}

func newSitemapCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Write sitemap.xml for the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := a.buildEngine(cmd)
			if err != nil {
				return err
			}
			body, err := site.MarshalSitemap(site.Sitemap(a.cfg.Server.BaseURL, engine.Catalog().All(), time.Now()))
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			return os.WriteFile(output, body, 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
