// Package site holds presentation helpers shared by the HTTP API and the CLI.
package site

import (
	"strings"
	"time"
)

// PlaceholderImage is served for posts without an image.
const PlaceholderImage = "/images/placeholder.jpg"

// DateLayout is the display format for post dates.
const DateLayout = "January 2, 2006"

// ImagePath resolves a post image reference to a URL path. Empty paths use fallback
// (PlaceholderImage when fallback is empty), external URLs and absolute paths are
// returned unchanged, and bare file names are placed under /images/.
func ImagePath(path, fallback string) string {
	if fallback == "" {
		fallback = PlaceholderImage
	}
	switch {
	case path == "":
		return fallback
	case strings.HasPrefix(path, "http"):
		return path
	case strings.HasPrefix(path, "/"):
		return path
	default:
		return "/images/" + path
	}
}

// FormatDate renders t for display, e.g. "March 10, 2024".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// PostPath is the URL path of a post page.
func PostPath(slug string) string {
	return "/blog/" + slug
}
