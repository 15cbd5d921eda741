package services

import (
	"context"
	"math"
	"time"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"github.com/Akila-Wasalathilaka/cognihire/internal/repository"

	"go.uber.org/zap"
)

// Aggregator watches item state after each submission and finalizes the
// assessment once every item reaches SUBMITTED. Callers must hold the
// per-assessment lock so two racing submissions cannot both finalize.
type Aggregator struct {
	log         *zap.Logger
	assessments *repository.AssessmentRepo
	items       *repository.ItemRepo
}

func NewAggregator(log *zap.Logger, assessments *repository.AssessmentRepo, items *repository.ItemRepo) *Aggregator {
	return &Aggregator{log: log, assessments: assessments, items: items}
}

// CheckAndFinalize computes the total score and completes the assessment if
// every item is SUBMITTED, returning true when it finalized. total_score is
// write-once: an assessment past IN_PROGRESS is left untouched.
func (a *Aggregator) CheckAndFinalize(ctx context.Context, assessmentID string) (bool, error) {
	assessment, err := a.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		return false, err
	}
	if assessment.Status != models.AssessmentInProgress {
		return false, nil
	}

	items, err := a.items.ListByAssessment(ctx, assessmentID)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.Status != models.ItemSubmitted {
			return false, nil
		}
	}

	// Mean of the non-nil item scores; zero when none carry a score.
	var sum float64
	var scored int
	for _, item := range items {
		if item.Score != nil {
			sum += *item.Score
			scored++
		}
	}
	total := 0.0
	if scored > 0 {
		total = math.Round(sum/float64(scored)*10) / 10
	}

	if err := a.assessments.Complete(ctx, assessmentID, total, time.Now().UTC()); err != nil {
		return false, err
	}

	a.log.Info("Assessment completed",
		zap.String("assessment_id", assessmentID),
		zap.Float64("total_score", total),
		zap.Int("item_count", len(items)))
	return true, nil
}
