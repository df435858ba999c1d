package ranking

import (
	"slices"

	"github.com/hyperjump/motoblog/internal/catalog"
	"github.com/hyperjump/motoblog/internal/models"
)

// Ranker combines scorers to order a catalog by relatedness to one post.
type Ranker struct {
	config  *RankingConfig
	scorers []Scorer
}

// NewRanker creates a new Ranker with the given configuration.
func NewRanker(config *RankingConfig) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()

	return &Ranker{
		config: config,
		scorers: []Scorer{
			NewCategoryScorer(config),
			NewTagScorer(config),
		},
	}
}

// Rank returns the total score of candidate against current.
func (r *Ranker) Rank(current, candidate *models.Post) int {
	ctx := &ScoringContext{Current: current, Candidate: candidate}
	score := 0
	for _, s := range r.scorers {
		score += s.Score(ctx)
	}
	return score
}

// RankWithBreakdown returns detailed scoring information.
func (r *Ranker) RankWithBreakdown(current, candidate *models.Post) *ScoreBreakdown {
	ctx := &ScoringContext{Current: current, Candidate: candidate}
	breakdown := NewScoreBreakdown()
	for _, s := range r.scorers {
		v := s.Score(ctx)
		breakdown.Components[s.Name()] = v
		breakdown.FinalScore += v
	}
	return breakdown
}

// Related returns up to limit posts from cat ordered by relatedness to current.
// The current post is excluded by slug. Posts scoring zero are still returned when
// fewer related posts exist. A non-positive limit uses the configured default.
func (r *Ranker) Related(cat *catalog.Catalog, current models.Post, limit int) []models.Post {
	ranked := r.RelatedWithScores(cat, current, limit)
	out := make([]models.Post, len(ranked))
	for i, rp := range ranked {
		out[i] = rp.Post
	}
	return out
}

// RelatedWithScores is Related with each post's score and breakdown attached.
func (r *Ranker) RelatedWithScores(cat *catalog.Catalog, current models.Post, limit int) []*RankedPost {
	if limit <= 0 {
		limit = r.config.DefaultLimit
	}
	if cat == nil {
		return []*RankedPost{}
	}

	posts := cat.All()
	results := make([]*RankedPost, 0, len(posts))
	for i := range posts {
		if posts[i].Slug == current.Slug {
			continue
		}
		breakdown := r.RankWithBreakdown(&current, &posts[i])
		results = append(results, &RankedPost{
			Post:      posts[i],
			Score:     breakdown.FinalScore,
			Breakdown: breakdown,
		})
	}

	// Stable, so equal scores keep catalog order.
	slices.SortStableFunc(results, func(a, b *RankedPost) int {
		return b.Score - a.Score
	})

	return TopN(results, limit)
}

// GetConfig returns the ranking configuration.
func (r *Ranker) GetConfig() *RankingConfig {
	return r.config
}

// TopN returns the top N results.
func TopN(results []*RankedPost, n int) []*RankedPost {
	if n >= len(results) {
		return results
	}
	return results[:n]
}
