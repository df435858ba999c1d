package site

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/hyperjump/motoblog/internal/models"
)

// sitemapNS is the sitemaps.org schema namespace.
const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLSet is a sitemap document.
type URLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapURL is one sitemap entry.
type SitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

type staticPage struct {
	path       string
	changeFreq string
	priority   float64
}

var staticPages = []staticPage{
	{"", "daily", 1.0},
	{"/learn-to-ride", "monthly", 0.8},
	{"/buying-guides", "monthly", 0.8},
	{"/maintenance", "monthly", 0.8},
	{"/gear-reviews", "weekly", 0.8},
	{"/road-life", "weekly", 0.8},
	{"/blog", "daily", 0.9},
}

// Sitemap lists the static pages, stamped with now, followed by every post,
// stamped with its own date.
func Sitemap(baseURL string, posts []models.Post, now time.Time) *URLSet {
	baseURL = strings.TrimRight(baseURL, "/")
	set := &URLSet{XMLNS: sitemapNS, URLs: make([]SitemapURL, 0, len(staticPages)+len(posts))}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, SitemapURL{
			Loc:        baseURL + p.path,
			LastMod:    now.UTC().Format(time.RFC3339),
			ChangeFreq: p.changeFreq,
			Priority:   p.priority,
		})
	}
	for _, p := range posts {
		set.URLs = append(set.URLs, SitemapURL{
			Loc:        baseURL + PostPath(p.Slug),
			LastMod:    p.Date.UTC().Format(time.RFC3339),
			ChangeFreq: "monthly",
			Priority:   0.7,
		})
	}
	return set
}

// MarshalSitemap encodes set as an indented XML document with header.
func MarshalSitemap(set *URLSet) ([]byte, error) {
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
