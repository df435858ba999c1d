package ranking

import (
	"reflect"
	"testing"

	"github.com/hyperjump/motoblog/internal/catalog"
	"github.com/hyperjump/motoblog/internal/models"
)

func in(slug, category string, tags ...string) models.PostInput {
	return models.PostInput{Slug: slug, Title: slug, Category: category, Date: "2024-05-01", Tags: tags}
}

func mustCatalog(t *testing.T, items ...models.PostInput) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(items)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func mustGet(t *testing.T, c *catalog.Catalog, slug string) models.Post {
	t.Helper()
	p, ok := c.Get(slug)
	if !ok {
		t.Fatalf("post %q not in catalog", slug)
	}
	return p
}

func slugs(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func TestNewRanker(t *testing.T) {
	ranker := NewRanker(nil)
	if ranker.GetConfig().DefaultLimit != 3 {
		t.Errorf("default limit = %d, want 3", ranker.GetConfig().DefaultLimit)
	}

	ranker = NewRanker(&RankingConfig{SameCategoryScore: 5})
	if ranker.GetConfig().SameCategoryScore != 5 || ranker.GetConfig().SharedTagScore != 1 {
		t.Errorf("unexpected config: %+v", ranker.GetConfig())
	}
}

func TestRanker_Related_Ordering(t *testing.T) {
	c := mustCatalog(t,
		in("nothing", "Road Life", "coffee"),
		in("tag-only", "Maintenance", "gps"),
		in("current", "Adventure", "touring", "gps"),
		in("category-only", "Adventure", "offroad"),
	)
	ranker := NewRanker(nil)

	got := ranker.Related(c, mustGet(t, c, "current"), 3)
	want := []string{"category-only", "tag-only", "nothing"}
	if !reflect.DeepEqual(slugs(got), want) {
		t.Errorf("related = %v, want %v", slugs(got), want)
	}
}

func TestRanker_RelatedWithScores(t *testing.T) {
	c := mustCatalog(t,
		in("current", "Adventure", "touring", "gps"),
		in("both", "Adventure", "gps", "touring"),
		in("category-only", "Adventure"),
		in("tag-only", "Maintenance", "gps"),
		in("lower-case", "adventure"),
	)
	ranker := NewRanker(nil)

	ranked := ranker.RelatedWithScores(c, mustGet(t, c, "current"), 10)
	want := map[string]int{"both": 4, "category-only": 2, "tag-only": 1, "lower-case": 0}
	if len(ranked) != len(want) {
		t.Fatalf("got %d results, want %d", len(ranked), len(want))
	}
	for _, r := range ranked {
		if r.Score != want[r.Post.Slug] {
			t.Errorf("%s: score %d, want %d", r.Post.Slug, r.Score, want[r.Post.Slug])
		}
		if r.Breakdown.FinalScore != r.Score {
			t.Errorf("%s: breakdown total %d != score %d", r.Post.Slug, r.Breakdown.FinalScore, r.Score)
		}
	}
	if ranked[0].Breakdown.Components["category"] != 2 || ranked[0].Breakdown.Components["tags"] != 2 {
		t.Errorf("unexpected breakdown: %+v", ranked[0].Breakdown.Components)
	}
}

func TestRanker_Related_ExcludesCurrent(t *testing.T) {
	c := mustCatalog(t,
		in("a", "Adventure", "gps"),
		in("b", "Adventure", "gps"),
		in("c", "Road Life"),
	)
	ranker := NewRanker(nil)
	for _, p := range c.All() {
		for _, r := range ranker.Related(c, p, 10) {
			if r.Slug == p.Slug {
				t.Errorf("%s appears in its own related posts", p.Slug)
			}
		}
	}
}

func TestRanker_Related_Limits(t *testing.T) {
	c := mustCatalog(t,
		in("current", "Adventure"),
		in("a", "Adventure"),
		in("b", "Adventure"),
		in("c", "Adventure"),
		in("d", "Adventure"),
	)
	ranker := NewRanker(nil)
	current := mustGet(t, c, "current")

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"default", 0, []string{"a", "b", "c"}},
		{"negative", -1, []string{"a", "b", "c"}},
		{"two", 2, []string{"a", "b"}},
		{"more than available", 10, []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slugs(ranker.Related(c, current, tt.limit)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("related = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRanker_Related_EmptyCatalog(t *testing.T) {
	ranker := NewRanker(nil)
	c := mustCatalog(t)
	if got := ranker.Related(c, models.Post{Slug: "x", Category: "A"}, 3); len(got) != 0 {
		t.Errorf("expected no related posts, got %v", slugs(got))
	}
	if got := ranker.Related(nil, models.Post{Slug: "x"}, 3); len(got) != 0 {
		t.Errorf("expected no related posts for nil catalog, got %v", slugs(got))
	}
}

func TestRanker_Related_OnlyCurrent(t *testing.T) {
	c := mustCatalog(t, in("only", "Adventure", "gps"))
	ranker := NewRanker(nil)
	if got := ranker.Related(c, mustGet(t, c, "only"), 3); len(got) != 0 {
		t.Errorf("expected no related posts, got %v", slugs(got))
	}
}

func TestTagScorer_CountsEachSharedTagOnce(t *testing.T) {
	s := NewTagScorer(DefaultRankingConfig())
	current := &models.Post{Tags: []string{"gps", "touring"}}
	candidate := &models.Post{Tags: []string{"gps", "gps", "touring", "camping"}}
	if got := s.Score(&ScoringContext{Current: current, Candidate: candidate}); got != 2 {
		t.Errorf("score = %d, want 2", got)
	}
}

func TestCategoryScorer_CaseSensitive(t *testing.T) {
	s := NewCategoryScorer(DefaultRankingConfig())
	tests := []struct {
		current, candidate string
		want               int
	}{
		{"Adventure", "Adventure", 2},
		{"Adventure", "adventure", 0},
		{"Adventure", "Road Life", 0},
	}
	for _, tt := range tests {
		ctx := &ScoringContext{
			Current:   &models.Post{Category: tt.current},
			Candidate: &models.Post{Category: tt.candidate},
		}
		if got := s.Score(ctx); got != tt.want {
			t.Errorf("Score(%q, %q) = %d, want %d", tt.current, tt.candidate, got, tt.want)
		}
	}
}
