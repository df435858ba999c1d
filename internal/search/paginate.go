package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hyperjump/motoblog/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterSortPaginate sorts items by q.Sort, keeps the items matching every active
// filter of q, and returns the requested page. The page is clamped into
// [1, TotalPages]; TotalPages is at least 1 so an empty result still has a page 1.
// items is not modified. A non-positive page size is the only error.
func FilterSortPaginate(items []models.Post, q models.Query) (*models.ResultPage, error) {
	if q.PageSize <= 0 {
		return nil, fmt.Errorf("page size %d: %w", q.PageSize, models.ErrInvalidArgument)
	}

	sorted := append([]models.Post(nil), items...)
	sortPosts(sorted, q.Sort)

	m := newMatcher(q)
	filtered := sorted[:0]
	for _, p := range sorted {
		if m.match(&p) {
			filtered = append(filtered, p)
		}
	}

	total := len(filtered)
	totalPages := (total + q.PageSize - 1) / q.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := clampPage(q.Page, totalPages)

	start := (page - 1) * q.PageSize
	end := start + q.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &models.ResultPage{
		Items:      append(make([]models.Post, 0, end-start), filtered[start:end]...),
		Page:       page,
		PageSize:   q.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
		Pages:      PageWindow(page, totalPages),
	}, nil
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// sortPosts orders posts in place. Both modes are stable, so ties keep catalog order.
func sortPosts(posts []models.Post, mode models.SortMode) {
	switch mode {
	case models.SortTitle:
		// A Collator is not safe for concurrent use.
		col := collate.New(language.English)
		slices.SortStableFunc(posts, func(a, b models.Post) int {
			return col.CompareString(a.Title, b.Title)
		})
	default:
		slices.SortStableFunc(posts, func(a, b models.Post) int {
			return b.Date.Compare(a.Date)
		})
	}
}

// matcher holds the case-folded filters of one query.
type matcher struct {
	fold     cases.Caser
	category string
	tag      string
	text     string
}

func newMatcher(q models.Query) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.category = m.fold.String(strings.TrimSpace(q.Category))
	m.tag = m.fold.String(strings.TrimSpace(q.Tag))
	m.text = m.fold.String(strings.TrimSpace(q.SearchText))
	return m
}

func (m *matcher) match(p *models.Post) bool {
	if m.category != "" && m.fold.String(p.Category) != m.category {
		return false
	}
	if m.tag != "" && !m.anyTag(p, func(t string) bool { return t == m.tag }) {
		return false
	}
	if m.text != "" {
		contains := func(s string) bool { return strings.Contains(s, m.text) }
		if !contains(m.fold.String(p.Title)) &&
			!contains(m.fold.String(p.Excerpt)) &&
			!contains(m.fold.String(p.Category)) &&
			!m.anyTag(p, contains) {
			return false
		}
	}
	return true
}

func (m *matcher) anyTag(p *models.Post, pred func(string) bool) bool {
	for _, t := range p.Tags {
		if pred(m.fold.String(t)) {
			return true
		}
	}
	return false
}

// PageWindow returns the page numbers to show in pagination controls around current.
// Every page is listed when total <= 7; otherwise the first and last pages are kept,
// the neighbours of current are shown, and 0 marks each elided run.
// Returns nil when there is at most one page.
func PageWindow(current, total int) []int {
	if total <= 1 {
		return nil
	}
	if total <= 7 {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}
	pages := []int{1}
	if current > 3 {
		pages = append(pages, 0)
	}
	for i := max(2, current-1); i <= min(total-1, current+1); i++ {
		pages = append(pages, i)
	}
	if current < total-2 {
		pages = append(pages, 0)
	}
	return append(pages, total)
}
