package scoring

import "github.com/Akila-Wasalathilaka/cognihire/internal/models"

// StroopScorer scores the Stroop-style attention game. Accuracy carries most
// of the weight, with a bonus for fast responses; 800ms is treated as the
// baseline response time and anything a full second slower earns no bonus.
type StroopScorer struct{}

func (StroopScorer) Code() string { return CodeStroop }

func (StroopScorer) Score(raw models.RawMetrics) Result {
	accuracy := ratio(raw.CorrectResponses, raw.CorrectResponses+raw.IncorrectResponses)
	speedBonus := clamp01(1 - (raw.AvgResponseMs-800)/1000)

	rawScore, normalized := normalize(accuracy*0.7 + speedBonus*0.3)
	level := performanceLevel(normalized)

	return Result{
		RawScore:        rawScore,
		NormalizedScore: normalized,
		TraitScores: map[string]float64{
			"attention":             round1(0.8 * normalized),
			"cognitive_flexibility": round1(0.2 * normalized),
		},
		PerformanceLevel: level,
		Feedback:         stroopFeedback(level),
	}
}

func stroopFeedback(level string) string {
	switch level {
	case LevelExcellent:
		return "Excellent selective attention: fast, accurate responses under interference."
	case LevelGood:
		return "Good attention control with only occasional interference errors."
	case LevelAverage:
		return "Average attention control; response times or accuracy suffered under interference."
	default:
		return "Attention control below expectations; interference caused frequent errors."
	}
}
