package models

// ResultPage is one page of a filtered and sorted post sequence.
type ResultPage struct {
	Items      []Post `json:"items"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalItems int    `json:"total_items"`
	TotalPages int    `json:"total_pages"`
	// Pages is the pagination window for navigation; 0 marks an ellipsis.
	Pages []int `json:"pages,omitempty"`
}

// Facet is a category or tag with the number of posts carrying it.
type Facet struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Facets is the response for the facet listing.
type Facets struct {
	Categories []Facet        `json:"categories"`
	Tags       []string       `json:"tags"`
	TagCounts  map[string]int `json:"tag_counts"`
}

// PostDetail is a single post with its rendered body.
type PostDetail struct {
	Post
	ContentHTML string `json:"content_html"`
	DisplayDate string `json:"display_date"`
}
