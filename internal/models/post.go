// Package models defines core data structures for posts, queries, and result pages.
package models

import "time"

// Post is a published article in the catalog. Posts are immutable once a catalog is built.
type Post struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Date        time.Time `json:"date"`
	Author      string    `json:"author"`
	Image       string    `json:"image"`
	ReadingTime string    `json:"reading_time"`
	Body        string    `json:"-"`
	Source      string    `json:"-"`
}

// HasTag reports whether the post carries tag exactly as stored.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PostInput is a post record as supplied by a content source, before validation.
// Date is kept as text so that the catalog can reject values that do not parse.
type PostInput struct {
	Slug        string   `json:"slug" yaml:"slug"`
	Title       string   `json:"title" yaml:"title"`
	Excerpt     string   `json:"excerpt" yaml:"excerpt"`
	Category    string   `json:"category" yaml:"category"`
	Tags        []string `json:"tags" yaml:"tags"`
	Date        string   `json:"date" yaml:"date"`
	Author      string   `json:"author" yaml:"author"`
	Image       string   `json:"image" yaml:"image"`
	ReadingTime string   `json:"reading_time" yaml:"readingTime"`
	Body        string   `json:"-" yaml:"body"`
	Source      string   `json:"-" yaml:"-"`
}

// DateLayouts are the accepted layouts for PostInput.Date, tried in order.
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate parses s using DateLayouts.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
