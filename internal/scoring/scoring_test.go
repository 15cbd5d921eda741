package scoring

import (
	"math"
	"reflect"
	"testing"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNBackScorer(t *testing.T) {
	cases := []struct {
		name      string
		raw       models.RawMetrics
		wantScore float64
		wantLevel string
	}{
		{
			name: "strong run",
			raw: models.RawMetrics{
				CorrectResponses:   16,
				IncorrectResponses: 2,
				FalsePositives:     1,
				Misses:             1,
				TotalTrials:        20,
			},
			wantScore: 86.4,
			wantLevel: LevelExcellent,
		},
		{
			name: "perfect run",
			raw: models.RawMetrics{
				CorrectResponses: 20,
				TotalTrials:      20,
			},
			wantScore: 100,
			wantLevel: LevelExcellent,
		},
		{
			name:      "no responses",
			raw:       models.RawMetrics{TotalTrials: 20, Misses: 20},
			wantScore: 0,
			wantLevel: LevelNeedsImprovement,
		},
		{
			name:      "empty payload",
			raw:       models.RawMetrics{},
			wantScore: 0,
			wantLevel: LevelNeedsImprovement,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := (NBackScorer{}).Score(c.raw)
			if !almostEqual(got.NormalizedScore, c.wantScore) {
				t.Fatalf("normalized score = %v, want %v", got.NormalizedScore, c.wantScore)
			}
			if got.PerformanceLevel != c.wantLevel {
				t.Fatalf("performance level = %q, want %q", got.PerformanceLevel, c.wantLevel)
			}
			if !almostEqual(got.TraitScores["memory"], c.wantScore) {
				t.Fatalf("memory contribution = %v, want %v", got.TraitScores["memory"], c.wantScore)
			}
		})
	}
}

func TestStroopScorer(t *testing.T) {
	cases := []struct {
		name          string
		raw           models.RawMetrics
		wantScore     float64
		wantAttention float64
		wantFlex      float64
		wantLevel     string
	}{
		{
			name: "accurate and fast",
			raw: models.RawMetrics{
				CorrectResponses:   45,
				IncorrectResponses: 5,
				AvgResponseMs:      900,
			},
			wantScore:     90,
			wantAttention: 72,
			wantFlex:      18,
			wantLevel:     LevelExcellent,
		},
		{
			name: "speed bonus clamps at one",
			raw: models.RawMetrics{
				CorrectResponses: 50,
				AvgResponseMs:    100,
			},
			wantScore:     100,
			wantAttention: 80,
			wantFlex:      20,
			wantLevel:     LevelExcellent,
		},
		{
			name: "very slow earns no bonus",
			raw: models.RawMetrics{
				CorrectResponses:   50,
				IncorrectResponses: 0,
				AvgResponseMs:      3000,
			},
			wantScore:     70,
			wantAttention: 56,
			wantFlex:      14,
			wantLevel:     LevelGood,
		},
		{
			name:      "no responses",
			raw:       models.RawMetrics{AvgResponseMs: 2000},
			wantScore: 0,
			wantLevel: LevelNeedsImprovement,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := (StroopScorer{}).Score(c.raw)
			if !almostEqual(got.NormalizedScore, c.wantScore) {
				t.Fatalf("normalized score = %v, want %v", got.NormalizedScore, c.wantScore)
			}
			if !almostEqual(got.TraitScores["attention"], c.wantAttention) {
				t.Fatalf("attention = %v, want %v", got.TraitScores["attention"], c.wantAttention)
			}
			if !almostEqual(got.TraitScores["cognitive_flexibility"], c.wantFlex) {
				t.Fatalf("cognitive_flexibility = %v, want %v", got.TraitScores["cognitive_flexibility"], c.wantFlex)
			}
			if got.PerformanceLevel != c.wantLevel {
				t.Fatalf("performance level = %q, want %q", got.PerformanceLevel, c.wantLevel)
			}
		})
	}
}

func TestReactionTimeScorer(t *testing.T) {
	cases := []struct {
		name      string
		raw       models.RawMetrics
		wantScore float64
		wantLevel string
	}{
		{
			name: "fast and accurate",
			raw: models.RawMetrics{
				CorrectResponses: 30,
				AvgResponseMs:    350,
			},
			wantScore: 100,
			wantLevel: LevelExcellent,
		},
		{
			name: "accuracy gates speed",
			raw: models.RawMetrics{
				CorrectResponses:   28,
				IncorrectResponses: 2,
				AvgResponseMs:      400,
			},
			wantScore: 84,
			wantLevel: LevelGood,
		},
		{
			name: "too slow",
			raw: models.RawMetrics{
				CorrectResponses: 30,
				AvgResponseMs:    900,
			},
			wantScore: 0,
			wantLevel: LevelNeedsImprovement,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := (ReactionTimeScorer{}).Score(c.raw)
			if !almostEqual(got.NormalizedScore, c.wantScore) {
				t.Fatalf("normalized score = %v, want %v", got.NormalizedScore, c.wantScore)
			}
			if got.PerformanceLevel != c.wantLevel {
				t.Fatalf("performance level = %q, want %q", got.PerformanceLevel, c.wantLevel)
			}
		})
	}
}

// Scoring is pure: identical input yields identical output.
func TestScorersAreDeterministic(t *testing.T) {
	raw := models.RawMetrics{
		CorrectResponses:   16,
		IncorrectResponses: 2,
		FalsePositives:     1,
		Misses:             1,
		TotalTrials:        20,
		AvgResponseMs:      640,
	}
	reg := DefaultRegistry()
	for _, code := range []string{CodeNBack, CodeStroop, CodeReactionTime} {
		first, err := reg.Score(code, raw)
		if err != nil {
			t.Fatalf("%s: %v", code, err)
		}
		second, err := reg.Score(code, raw)
		if err != nil {
			t.Fatalf("%s: %v", code, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("%s: repeated scoring differed: %+v vs %+v", code, first, second)
		}
	}
}

func TestRegistryUnsupportedGame(t *testing.T) {
	reg := DefaultRegistry()
	if _, err := reg.Score("TOWER_OF_HANOI", models.RawMetrics{}); err != ErrUnsupportedGame {
		t.Fatalf("expected ErrUnsupportedGame, got %v", err)
	}
	if reg.Supports("TOWER_OF_HANOI") {
		t.Fatal("Supports reported an unregistered code")
	}
	if !reg.Supports(CodeNBack) {
		t.Fatal("Supports missed a registered code")
	}
}

func TestPerformanceLevelBuckets(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, LevelExcellent},
		{85, LevelExcellent},
		{84.9, LevelGood},
		{70, LevelGood},
		{69.9, LevelAverage},
		{50, LevelAverage},
		{49.9, LevelNeedsImprovement},
		{0, LevelNeedsImprovement},
	}
	for _, c := range cases {
		if got := performanceLevel(c.score); got != c.want {
			t.Fatalf("performanceLevel(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}
