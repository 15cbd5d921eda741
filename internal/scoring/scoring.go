// Package scoring holds the pure per-game scoring functions. Every scorer is
// a deterministic mapping from a raw metrics record to a normalized score,
// trait contributions and a qualitative performance bucket; nothing in this
// package touches storage or time.
package scoring

import (
	"errors"
	"math"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
)

// Game codes with a registered scoring function.
const (
	CodeNBack        = "NBACK"
	CodeStroop       = "STROOP"
	CodeReactionTime = "REACTION_TIME"
)

// Performance level buckets, uniform across all games.
const (
	LevelExcellent        = "Excellent"
	LevelGood             = "Good"
	LevelAverage          = "Average"
	LevelNeedsImprovement = "Needs Improvement"
)

// ErrUnsupportedGame is returned when no scoring function is registered for a
// game code.
var ErrUnsupportedGame = errors.New("no scoring function registered for game code")

// Result is the outcome of scoring one submission.
type Result struct {
	RawScore         float64            `json:"raw_score"`        // 0-1, clamped
	NormalizedScore  float64            `json:"normalized_score"` // 0-100, one decimal place
	TraitScores      map[string]float64 `json:"trait_scores"`     // trait name -> 0-100 contribution
	PerformanceLevel string             `json:"performance_level"`
	Feedback         string             `json:"feedback"`
}

// Scorer maps a raw metrics record to a scoring result.
type Scorer interface {
	Code() string
	Score(raw models.RawMetrics) Result
}

// Registry is the closed set of scorers, keyed by game code. Adding a game
// means registering one more Scorer; dispatch call sites never change.
type Registry struct {
	scorers map[string]Scorer
}

// NewRegistry builds a registry from the given scorers.
func NewRegistry(scorers ...Scorer) *Registry {
	r := &Registry{scorers: make(map[string]Scorer, len(scorers))}
	for _, s := range scorers {
		r.scorers[s.Code()] = s
	}
	return r
}

// DefaultRegistry returns a registry with every built-in game.
func DefaultRegistry() *Registry {
	return NewRegistry(NBackScorer{}, StroopScorer{}, ReactionTimeScorer{})
}

// Supports reports whether a scoring function exists for the code.
func (r *Registry) Supports(code string) bool {
	_, ok := r.scorers[code]
	return ok
}

// Score dispatches to the scorer registered for code.
func (r *Registry) Score(code string, raw models.RawMetrics) (Result, error) {
	s, ok := r.scorers[code]
	if !ok {
		return Result{}, ErrUnsupportedGame
	}
	return s.Score(raw), nil
}

// performanceLevel buckets a normalized 0-100 score.
func performanceLevel(normalized float64) string {
	switch {
	case normalized >= 85:
		return LevelExcellent
	case normalized >= 70:
		return LevelGood
	case normalized >= 50:
		return LevelAverage
	default:
		return LevelNeedsImprovement
	}
}

// clamp01 bounds a raw score to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ratio divides safely; an empty denominator yields 0, not an error.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// round1 rounds to one decimal place for the stored 0-100 score.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// normalize clamps a raw 0-1 score and scales it to 0-100.
func normalize(raw float64) (float64, float64) {
	clamped := clamp01(raw)
	return clamped, round1(clamped * 100)
}
