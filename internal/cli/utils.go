// Package cli provides output formatting for the motoblog commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/motoblog/internal/models"
	"github.com/hyperjump/motoblog/internal/site"
	"github.com/hyperjump/motoblog/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const excerptWidth = 120

// WriteResultPage writes one page of posts to w in the given format.
func WriteResultPage(w io.Writer, page *models.ResultPage, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, page)
	}
	fmt.Fprintf(w, "\nPage %d of %d (%d posts)\n\n", page.Page, page.TotalPages, page.TotalItems)
	for _, p := range page.Items {
		writePost(w, p)
	}
	if nav := FormatPageWindow(page.Pages, page.Page); nav != "" {
		fmt.Fprintf(w, "Pages: %s\n", nav)
	}
	return nil
}

// WritePosts writes a titled list of posts, as used for related posts and
// incremental browsing.
func WritePosts(w io.Writer, heading string, posts []models.Post, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, map[string]interface{}{"items": posts})
	}
	fmt.Fprintf(w, "\n%s (%d)\n\n", heading, len(posts))
	for _, p := range posts {
		writePost(w, p)
	}
	return nil
}

// WriteFacets writes the category and tag listings.
func WriteFacets(w io.Writer, facets models.Facets, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, facets)
	}
	fmt.Fprintln(w, "Categories:")
	for _, c := range facets.Categories {
		fmt.Fprintf(w, "  %-24s %d\n", c.Name, c.Count)
	}
	fmt.Fprintln(w, "\nTags:")
	for _, t := range facets.Tags {
		fmt.Fprintf(w, "  %-24s %d\n", t, facets.TagCounts[t])
	}
	return nil
}

func writePost(w io.Writer, p models.Post) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "%s\n", p.Title)
	fmt.Fprintf(w, "%s\n", utils.JoinNonEmpty(" | ", p.Category, site.FormatDate(p.Date), p.ReadingTime, p.Author))
	fmt.Fprintf(w, "%s\n", site.PostPath(p.Slug))
	if len(p.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	if p.Excerpt != "" {
		fmt.Fprintf(w, "\n%s\n", utils.Truncate(p.Excerpt, excerptWidth))
	}
	fmt.Fprintln(w)
}

// FormatPageWindow renders a pagination window, bracketing the current page and
// showing 0 entries as an ellipsis.
func FormatPageWindow(pages []int, current int) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		switch p {
		case 0:
			parts = append(parts, "…")
		case current:
			parts = append(parts, fmt.Sprintf("[%d]", p))
		default:
			parts = append(parts, fmt.Sprint(p))
		}
	}
	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
