package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/hyperjump/motoblog/internal/catalog"
	"github.com/hyperjump/motoblog/internal/config"
	"github.com/hyperjump/motoblog/internal/models"
	"go.uber.org/zap"
)

func post(slug, title, category, date string, tags ...string) models.PostInput {
	return models.PostInput{Slug: slug, Title: title, Category: category, Date: date, Tags: tags}
}

func mustCatalog(t *testing.T, items []models.PostInput) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(items)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// numbered returns n posts dated one day apart, post-01 oldest.
func numbered(n int) []models.PostInput {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PostInput, n)
	for i := range out {
		out[i] = post(
			fmt.Sprintf("post-%02d", i+1),
			fmt.Sprintf("Post %02d", i+1),
			"Road Life",
			base.AddDate(0, 0, i).Format("2006-01-02"),
		)
	}
	return out
}

func slugs(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func TestFilterSortPaginate_CategoryFilter(t *testing.T) {
	items := numbered(7)
	items = append(items,
		post("m1", "Chain Care", "Maintenance", "2024-02-01"),
		post("m2", "Oil Change", "Maintenance", "2024-03-01"),
		post("m3", "Brake Pads", "Maintenance", "2024-01-15"),
	)
	c := mustCatalog(t, items)

	page, err := FilterSortPaginate(c.All(), models.Query{Category: "maintenance", Sort: models.SortDate, Page: 1, PageSize: 9})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalItems != 3 || page.TotalPages != 1 {
		t.Errorf("totals = %d items / %d pages, want 3 / 1", page.TotalItems, page.TotalPages)
	}
	if got, want := slugs(page.Items), []string{"m2", "m1", "m3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("items = %v, want %v", got, want)
	}
}

func TestFilterSortPaginate_PagesAndClamp(t *testing.T) {
	c := mustCatalog(t, numbered(20))
	q := models.Query{Sort: models.SortDate, PageSize: 9}

	first, err := FilterSortPaginate(c.All(), q.WithPage(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Items) != 9 || first.Items[0].Slug != "post-20" {
		t.Errorf("page 1 = %v", slugs(first.Items))
	}
	if first.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3", first.TotalPages)
	}

	third, _ := FilterSortPaginate(c.All(), q.WithPage(3))
	if got, want := slugs(third.Items), []string{"post-02", "post-01"}; !reflect.DeepEqual(got, want) {
		t.Errorf("page 3 = %v, want %v", got, want)
	}

	fourth, _ := FilterSortPaginate(c.All(), q.WithPage(4))
	if fourth.Page != 3 || !reflect.DeepEqual(slugs(fourth.Items), slugs(third.Items)) {
		t.Errorf("page 4 should clamp to page 3, got page %d %v", fourth.Page, slugs(fourth.Items))
	}
}

func TestFilterSortPaginate_ClampNeverFails(t *testing.T) {
	c := mustCatalog(t, numbered(5))
	for _, p := range []int{-10, -1, 0, 1, 2, 100} {
		page, err := FilterSortPaginate(c.All(), models.Query{Sort: models.SortDate, Page: p, PageSize: 2})
		if err != nil {
			t.Fatalf("page %d: %v", p, err)
		}
		if page.Page < 1 || page.Page > page.TotalPages {
			t.Errorf("page %d clamped to %d outside [1,%d]", p, page.Page, page.TotalPages)
		}
	}
}

func TestFilterSortPaginate_InvalidPageSize(t *testing.T) {
	c := mustCatalog(t, numbered(3))
	for _, size := range []int{0, -1} {
		_, err := FilterSortPaginate(c.All(), models.Query{Page: 1, PageSize: size})
		if !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("page size %d: err = %v, want ErrInvalidArgument", size, err)
		}
	}
}

func TestFilterSortPaginate_EmptyResult(t *testing.T) {
	c := mustCatalog(t, numbered(3))
	page, err := FilterSortPaginate(c.All(), models.Query{SearchText: "nothing matches", Page: 7, PageSize: 9})
	if err != nil {
		t.Fatal(err)
	}
	if page.Page != 1 || page.TotalPages != 1 || page.TotalItems != 0 || len(page.Items) != 0 {
		t.Errorf("empty result = %+v", page)
	}
	if page.Items == nil {
		t.Error("items should be an empty list, not nil")
	}
}

func TestFilterSortPaginate_Coverage(t *testing.T) {
	c := mustCatalog(t, numbered(23))
	full, err := FilterSortPaginate(c.All(), models.Query{Sort: models.SortTitle, Page: 1, PageSize: 1000})
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []int{1, 4, 9, 23, 30} {
		q := models.Query{Sort: models.SortTitle, PageSize: k}
		first, _ := FilterSortPaginate(c.All(), q.WithPage(1))
		var all []string
		for p := 1; p <= first.TotalPages; p++ {
			page, _ := FilterSortPaginate(c.All(), q.WithPage(p))
			all = append(all, slugs(page.Items)...)
		}
		if !reflect.DeepEqual(all, slugs(full.Items)) {
			t.Errorf("page size %d: concatenated pages %v differ from full %v", k, all, slugs(full.Items))
		}
	}
}

func TestFilterSortPaginate_Idempotent(t *testing.T) {
	c := mustCatalog(t, numbered(12))
	q := models.Query{SearchText: "post", Sort: models.SortTitle, Page: 2, PageSize: 5}
	a, _ := FilterSortPaginate(c.All(), q)
	b, _ := FilterSortPaginate(c.All(), q)
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Errorf("results differ:\n%s\n%s", ja, jb)
	}
}

func TestFilterSortPaginate_DoesNotModifyInput(t *testing.T) {
	c := mustCatalog(t, numbered(4))
	items := c.All()
	before := slugs(items)
	if _, err := FilterSortPaginate(items, models.Query{Sort: models.SortDate, Page: 1, PageSize: 2}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, slugs(items)) {
		t.Errorf("input reordered: %v -> %v", before, slugs(items))
	}
}

func TestFilterSortPaginate_CategoryAndTag(t *testing.T) {
	c := mustCatalog(t, []models.PostInput{
		post("a", "A", "Gear Reviews", "2024-01-01", "helmets"),
		post("b", "B", "Gear Reviews", "2024-01-02", "jackets"),
		post("c", "C", "Road Life", "2024-01-03", "helmets"),
		post("d", "D", "gear reviews", "2024-01-04", "Helmets", "safety"),
	})
	page, err := FilterSortPaginate(c.All(), models.Query{Category: "GEAR REVIEWS", Tag: "helmets", Page: 1, PageSize: 9})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := slugs(page.Items), []string{"d", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("items = %v, want %v", got, want)
	}
}

func TestFilterSortPaginate_SearchText(t *testing.T) {
	items := []models.PostInput{
		post("chain", "Weekend Jobs", "Maintenance", "2024-01-01"),
		post("honda", "Honda CB500X Review", "Buying Guides", "2024-01-02"),
		post("tagged", "Touring Kit", "Gear Reviews", "2024-01-03", "Honda"),
		post("other", "Other", "Road Life", "2024-01-04"),
	}
	items[0].Excerpt = "A quick guide to Chain Maintenance at home."
	c := mustCatalog(t, items)

	tests := []struct {
		text string
		want []string
	}{
		{"chain", []string{"chain"}},
		{"CHAIN", []string{"chain"}},
		{"honda", []string{"tagged", "honda"}},
		{"HONDA", []string{"tagged", "honda"}},
		{"road", []string{"other"}},
		{"  ", []string{"other", "tagged", "honda", "chain"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			page, err := FilterSortPaginate(c.All(), models.Query{SearchText: tt.text, Sort: models.SortDate, Page: 1, PageSize: 9})
			if err != nil {
				t.Fatal(err)
			}
			if got := slugs(page.Items); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("items = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterSortPaginate_StableTies(t *testing.T) {
	c := mustCatalog(t, []models.PostInput{
		post("x", "Same", "A", "2024-01-01"),
		post("y", "Same", "A", "2024-01-01"),
		post("z", "Same", "A", "2024-01-01"),
	})
	for _, mode := range []models.SortMode{models.SortDate, models.SortTitle} {
		page, _ := FilterSortPaginate(c.All(), models.Query{Sort: mode, Page: 1, PageSize: 9})
		if got, want := slugs(page.Items), []string{"x", "y", "z"}; !reflect.DeepEqual(got, want) {
			t.Errorf("%s: ties reordered: %v", mode, got)
		}
	}
}

func TestFilterSortPaginate_TitleCollation(t *testing.T) {
	c := mustCatalog(t, []models.PostInput{
		post("b", "beginner tips", "A", "2024-01-01"),
		post("z", "Zero Gravity", "A", "2024-01-02"),
		post("a", "Adventure Bikes", "A", "2024-01-03"),
		post("e", "Électrique", "A", "2024-01-04"),
	})
	page, _ := FilterSortPaginate(c.All(), models.Query{Sort: models.SortTitle, Page: 1, PageSize: 9})
	if got, want := slugs(page.Items), []string{"a", "b", "e", "z"}; !reflect.DeepEqual(got, want) {
		t.Errorf("title order = %v, want %v", got, want)
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 1, nil},
		{1, 3, []int{1, 2, 3}},
		{4, 7, []int{1, 2, 3, 4, 5, 6, 7}},
		{1, 10, []int{1, 2, 0, 10}},
		{5, 10, []int{1, 0, 4, 5, 6, 0, 10}},
		{10, 10, []int{1, 0, 9, 10}},
		{3, 10, []int{1, 2, 3, 4, 0, 10}},
		{8, 10, []int{1, 0, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.current, tt.total), func(t *testing.T) {
			if got := PageWindow(tt.current, tt.total); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PageWindow(%d, %d) = %v, want %v", tt.current, tt.total, got, tt.want)
			}
		})
	}
}

func newTestEngine(t *testing.T, items []models.PostInput) (*Engine, *catalog.Store) {
	t.Helper()
	store := catalog.NewStore(mustCatalog(t, items))
	cfg := &config.CatalogConfig{PageSize: 9, RelatedLimit: 3, SuggestLimit: 2}
	return NewEngine(store, cfg, zap.NewNop()), store
}

func TestEngine_Search(t *testing.T) {
	engine, store := newTestEngine(t, numbered(12))
	ctx := context.Background()

	page, err := engine.Search(ctx, engine.DefaultQuery())
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalItems != 12 || len(page.Items) != 9 {
		t.Errorf("page = %d items of %d", len(page.Items), page.TotalItems)
	}

	store.Swap(mustCatalog(t, numbered(2)))
	page, err = engine.Search(ctx, engine.DefaultQuery())
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalItems != 2 {
		t.Errorf("after swap: total = %d, want 2", page.TotalItems)
	}
}

func TestEngine_SearchCancelled(t *testing.T) {
	engine, _ := newTestEngine(t, numbered(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Search(ctx, engine.DefaultQuery()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestEngine_Suggest(t *testing.T) {
	engine, _ := newTestEngine(t, numbered(5))
	ctx := context.Background()

	got, err := engine.Suggest(ctx, "p", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("single character should not suggest, got %v", slugs(got))
	}

	got, err = engine.Suggest(ctx, "post", 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"post-05", "post-04"}; !reflect.DeepEqual(slugs(got), want) {
		t.Errorf("suggest = %v, want %v", slugs(got), want)
	}

	got, _ = engine.Suggest(ctx, "post 03", 10)
	if want := []string{"post-03"}; !reflect.DeepEqual(slugs(got), want) {
		t.Errorf("suggest = %v, want %v", slugs(got), want)
	}
}
