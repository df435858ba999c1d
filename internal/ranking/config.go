package ranking

// RankingConfig holds the weights used to score related posts.
type RankingConfig struct {
	SameCategoryScore int `yaml:"same_category_score"` // default: 2
	SharedTagScore    int `yaml:"shared_tag_score"`    // default: 1
	DefaultLimit      int `yaml:"default_limit"`       // default: 3
}

// DefaultRankingConfig returns the default ranking configuration.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		SameCategoryScore: 2,
		SharedTagScore:    1,
		DefaultLimit:      3,
	}
}

// ApplyDefaults fills zero values with defaults.
func (c *RankingConfig) ApplyDefaults() {
	defaults := DefaultRankingConfig()
	if c.SameCategoryScore == 0 {
		c.SameCategoryScore = defaults.SameCategoryScore
	}
	if c.SharedTagScore == 0 {
		c.SharedTagScore = defaults.SharedTagScore
	}
	if c.DefaultLimit == 0 {
		c.DefaultLimit = defaults.DefaultLimit
	}
}
