package ranking

// CategoryScorer rewards candidates filed under the same category.
// Categories are compared exactly as stored.
type CategoryScorer struct {
	config *RankingConfig
}

// NewCategoryScorer creates a new CategoryScorer with the given config.
func NewCategoryScorer(config *RankingConfig) *CategoryScorer {
	return &CategoryScorer{config: config}
}

// Name returns the scorer name.
func (s *CategoryScorer) Name() string {
	return "category"
}

// Score returns the same-category score, or 0.
func (s *CategoryScorer) Score(ctx *ScoringContext) int {
	if ctx.Current == nil || ctx.Candidate == nil {
		return 0
	}
	if ctx.Candidate.Category == ctx.Current.Category {
		return s.config.SameCategoryScore
	}
	return 0
}

// TagScorer rewards each tag the candidate shares with the current post.
type TagScorer struct {
	config *RankingConfig
}

// NewTagScorer creates a new TagScorer with the given config.
func NewTagScorer(config *RankingConfig) *TagScorer {
	return &TagScorer{config: config}
}

// Name returns the scorer name.
func (s *TagScorer) Name() string {
	return "tags"
}

// Score counts each shared tag once.
func (s *TagScorer) Score(ctx *ScoringContext) int {
	if ctx.Current == nil || ctx.Candidate == nil || len(ctx.Current.Tags) == 0 {
		return 0
	}
	current := make(map[string]struct{}, len(ctx.Current.Tags))
	for _, t := range ctx.Current.Tags {
		current[t] = struct{}{}
	}
	seen := make(map[string]struct{}, len(ctx.Candidate.Tags))
	shared := 0
	for _, t := range ctx.Candidate.Tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := current[t]; ok {
			shared++
		}
	}
	return shared * s.config.SharedTagScore
}
