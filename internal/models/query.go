package models

import (
	"net/url"
	"strconv"
	"strings"
)

// SortMode selects the ordering applied before filtering.
type SortMode string

const (
	// SortDate orders by date, most recent first.
	SortDate SortMode = "date"
	// SortTitle orders by title, A to Z.
	SortTitle SortMode = "title"
	// sortPopular is accepted from URLs; views are not tracked so it orders like SortTitle.
	sortPopular SortMode = "popular"
)

// DefaultPageSize is the number of posts per page on the blog listing.
const DefaultPageSize = 9

// ParseSortMode maps a URL sort value to a SortMode. Unknown or empty values mean SortDate.
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortTitle, sortPopular:
		return SortTitle
	default:
		return SortDate
	}
}

// Query describes the desired filtered, sorted and paginated view of the catalog.
// It is a value type: build a new one per interaction rather than mutating.
type Query struct {
	SearchText string   `json:"q,omitempty"`
	Category   string   `json:"category,omitempty"`
	Tag        string   `json:"tag,omitempty"`
	Sort       SortMode `json:"sort"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
}

// NewQuery returns a query for page 1 of the unfiltered catalog ordered by date.
func NewQuery(pageSize int) Query {
	return Query{Sort: SortDate, Page: 1, PageSize: pageSize}
}

// WithPage returns a copy of q requesting page.
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}

// SameView reports whether q and other select the same result sequence, ignoring the page.
func (q Query) SameView(other Query) bool {
	return q.WithPage(0) == other.WithPage(0)
}

// Values encodes q as URL parameters (q, category, tag, sort, page, page_size).
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.SearchText != "" {
		v.Set("q", q.SearchText)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}
	if q.Sort != "" {
		v.Set("sort", string(q.Sort))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

// ParseQuery builds a Query from URL parameters. Unparseable page values become 1;
// a missing or unparseable page_size falls back to defaultPageSize. Range checks
// happen later: pages are clamped when the query runs.
func ParseQuery(v url.Values, defaultPageSize int) Query {
	q := Query{
		SearchText: strings.TrimSpace(v.Get("q")),
		Category:   strings.TrimSpace(v.Get("category")),
		Tag:        strings.TrimSpace(v.Get("tag")),
		Sort:       ParseSortMode(v.Get("sort")),
		Page:       1,
		PageSize:   defaultPageSize,
	}
	if p, err := strconv.Atoi(v.Get("page")); err == nil {
		q.Page = p
	}
	if ps, err := strconv.Atoi(v.Get("page_size")); err == nil {
		q.PageSize = ps
	}
	return q
}
