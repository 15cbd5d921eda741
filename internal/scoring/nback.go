package scoring

import "github.com/Akila-Wasalathilaka/cognihire/internal/models"

// NBackScorer scores the working-memory N-back game. Accuracy dominates; a
// completion term penalizes missed trials.
type NBackScorer struct{}

func (NBackScorer) Code() string { return CodeNBack }

func (NBackScorer) Score(raw models.RawMetrics) Result {
	responses := raw.CorrectResponses + raw.IncorrectResponses + raw.FalsePositives
	accuracy := ratio(raw.CorrectResponses, responses)

	completion := 0.0
	if raw.TotalTrials > 0 {
		completion = 1 - float64(raw.Misses)/float64(raw.TotalTrials)
	}

	rawScore, normalized := normalize(accuracy*0.8 + completion*0.2)
	level := performanceLevel(normalized)

	return Result{
		RawScore:        rawScore,
		NormalizedScore: normalized,
		TraitScores: map[string]float64{
			"memory": normalized,
		},
		PerformanceLevel: level,
		Feedback:         nbackFeedback(level),
	}
}

func nbackFeedback(level string) string {
	switch level {
	case LevelExcellent:
		return "Excellent working memory: high accuracy with very few missed targets."
	case LevelGood:
		return "Good working memory performance with consistent target detection."
	case LevelAverage:
		return "Average working memory performance; accuracy dropped on some trials."
	default:
		return "Working memory performance below expectations; many targets were missed or misidentified."
	}
}
