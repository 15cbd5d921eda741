package scoring

import "github.com/Akila-Wasalathilaka/cognihire/internal/models"

// ReactionTimeScorer scores the processing-speed game. Speed is the primary
// signal, gated by accuracy so random mashing does not score; 350ms is the
// baseline reaction time and 850ms or slower earns nothing.
type ReactionTimeScorer struct{}

func (ReactionTimeScorer) Code() string { return CodeReactionTime }

func (ReactionTimeScorer) Score(raw models.RawMetrics) Result {
	accuracy := ratio(raw.CorrectResponses, raw.CorrectResponses+raw.IncorrectResponses)
	speedScore := clamp01(1 - (raw.AvgResponseMs-350)/500)

	rawScore, normalized := normalize(speedScore * accuracy)
	level := performanceLevel(normalized)

	return Result{
		RawScore:        rawScore,
		NormalizedScore: normalized,
		TraitScores: map[string]float64{
			"processing_speed": normalized,
		},
		PerformanceLevel: level,
		Feedback:         reactionFeedback(level),
	}
}

func reactionFeedback(level string) string {
	switch level {
	case LevelExcellent:
		return "Excellent processing speed: consistently fast and accurate reactions."
	case LevelGood:
		return "Good processing speed with reliable accuracy."
	case LevelAverage:
		return "Average processing speed; reactions were accurate but not fast."
	default:
		return "Processing speed below expectations; reactions were slow or inaccurate."
	}
}
