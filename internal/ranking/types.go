// Package ranking scores catalog posts by how related they are to a given post.
package ranking

import "github.com/hyperjump/motoblog/internal/models"

// ScoringContext carries the pair of posts being compared.
type ScoringContext struct {
	Current   *models.Post
	Candidate *models.Post
}

// Scorer computes one component of a relatedness score.
type Scorer interface {
	Name() string
	Score(ctx *ScoringContext) int
}

// ScoreBreakdown records the per-scorer contributions to a final score.
type ScoreBreakdown struct {
	Components map[string]int `json:"components"`
	FinalScore int            `json:"final_score"`
}

// NewScoreBreakdown creates an empty breakdown.
func NewScoreBreakdown() *ScoreBreakdown {
	return &ScoreBreakdown{Components: make(map[string]int)}
}

// RankedPost is a candidate post with its relatedness score.
type RankedPost struct {
	Post      models.Post     `json:"post"`
	Score     int             `json:"score"`
	Breakdown *ScoreBreakdown `json:"breakdown,omitempty"`
}
