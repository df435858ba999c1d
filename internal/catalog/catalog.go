// Package catalog holds the immutable in-memory collection of posts and its facet indexes.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hyperjump/motoblog/internal/models"
)

// Catalog is a validated, read-only sequence of posts with derived indexes.
// A Catalog is never mutated after Load returns; share it by pointer.
type Catalog struct {
	posts          []models.Post
	bySlug         map[string]int
	categoryCounts map[string]int
	categoryOrder  []string
	tagCounts      map[string]int
	loadedAt       time.Time
}

// Load validates items and builds a catalog. Every offending record is reported;
// when any record is invalid no catalog is returned.
func Load(items []models.PostInput) (*Catalog, error) {
	c := &Catalog{
		posts:          make([]models.Post, 0, len(items)),
		bySlug:         make(map[string]int, len(items)),
		categoryCounts: make(map[string]int),
		tagCounts:      make(map[string]int),
		loadedAt:       time.Now(),
	}

	var errs []error
	for _, in := range items {
		post, err := validate(in)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.bySlug[post.Slug]; dup {
			errs = append(errs, &models.ValidationError{
				Slug: post.Slug, Source: in.Source, Field: "slug", Reason: "duplicate slug",
			})
			continue
		}
		c.bySlug[post.Slug] = len(c.posts)
		c.posts = append(c.posts, post)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("catalog load: %w", errors.Join(errs...))
	}

	for _, p := range c.posts {
		if _, seen := c.categoryCounts[p.Category]; !seen {
			c.categoryOrder = append(c.categoryOrder, p.Category)
		}
		c.categoryCounts[p.Category]++
		for _, t := range p.Tags {
			c.tagCounts[t]++
		}
	}
	return c, nil
}

// validate converts one input record, joining every problem found in it.
func validate(in models.PostInput) (models.Post, error) {
	var errs []error
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		errs = append(errs, &models.ValidationError{Source: in.Source, Field: "slug", Reason: "empty"})
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		errs = append(errs, &models.ValidationError{Slug: slug, Source: in.Source, Field: "category", Reason: "empty"})
	}
	date, ok := models.ParseDate(strings.TrimSpace(in.Date))
	if !ok {
		errs = append(errs, &models.ValidationError{
			Slug: slug, Source: in.Source, Field: "date", Reason: fmt.Sprintf("cannot parse %q", in.Date),
		})
	}
	if len(errs) > 0 {
		return models.Post{}, errors.Join(errs...)
	}
	return models.Post{
		Slug:        slug,
		Title:       in.Title,
		Excerpt:     in.Excerpt,
		Category:    category,
		Tags:        dedupeTags(in.Tags),
		Date:        date,
		Author:      in.Author,
		Image:       in.Image,
		ReadingTime: in.ReadingTime,
		Body:        in.Body,
		Source:      in.Source,
	}, nil
}

// dedupeTags drops blank and repeated tags, keeping first-occurrence order.
func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Len returns the number of posts.
func (c *Catalog) Len() int {
	return len(c.posts)
}

// All returns the posts in catalog order. The slice is a copy; the posts' tag
// slices are shared and must not be modified.
func (c *Catalog) All() []models.Post {
	return append([]models.Post(nil), c.posts...)
}

// Get returns the post with slug.
func (c *Catalog) Get(slug string) (models.Post, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return models.Post{}, false
	}
	return c.posts[i], true
}

// CategoriesWithCounts returns category -> number of posts.
func (c *Catalog) CategoriesWithCounts() map[string]int {
	return copyCounts(c.categoryCounts)
}

// TagsWithCounts returns tag -> number of posts carrying the tag.
func (c *Catalog) TagsWithCounts() map[string]int {
	return copyCounts(c.tagCounts)
}

// Categories returns category facets ordered by count, most used first.
// Equal counts keep the order in which the categories first appear in the catalog.
func (c *Catalog) Categories() []models.Facet {
	out := make([]models.Facet, 0, len(c.categoryOrder))
	for _, name := range c.categoryOrder {
		out = append(out, models.Facet{Name: name, Count: c.categoryCounts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Tags returns all distinct tags in alphabetical order.
func (c *Catalog) Tags() []string {
	out := make([]string, 0, len(c.tagCounts))
	for t := range c.tagCounts {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Facets returns the sidebar facets: categories by count and tags alphabetically.
func (c *Catalog) Facets() models.Facets {
	return models.Facets{
		Categories: c.Categories(),
		Tags:       c.Tags(),
		TagCounts:  c.TagsWithCounts(),
	}
}

// LoadedAt returns when the catalog was built.
func (c *Catalog) LoadedAt() time.Time {
	return c.loadedAt
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
