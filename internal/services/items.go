package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"github.com/Akila-Wasalathilaka/cognihire/internal/repository"
	"github.com/Akila-Wasalathilaka/cognihire/internal/scoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ItemService governs one item's PENDING -> ACTIVE -> SUBMITTED transitions
// and computes server-side deadlines.
type ItemService struct {
	log         *zap.Logger
	items       *repository.ItemRepo
	assessments *repository.AssessmentRepo
	registry    *scoring.Registry
	aggregator  *Aggregator
	locks       *assessmentLocks
}

func NewItemService(
	log *zap.Logger,
	items *repository.ItemRepo,
	assessments *repository.AssessmentRepo,
	registry *scoring.Registry,
	aggregator *Aggregator,
	locks *assessmentLocks,
) *ItemService {
	return &ItemService{
		log:         log,
		items:       items,
		assessments: assessments,
		registry:    registry,
		aggregator:  aggregator,
		locks:       locks,
	}
}

// Activate moves a PENDING item to ACTIVE, stamps server_started_at and, when
// a timer is configured, the deadline. The returned deadline is advisory for
// the client countdown; the server never enforces it.
func (s *ItemService) Activate(ctx context.Context, itemID string, p Principal) (*time.Time, error) {
	item, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, item, p); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(item.AssessmentID)
	defer unlock()

	// Re-read under the lock so a concurrent activation fails cleanly.
	if item, err = s.load(ctx, itemID); err != nil {
		return nil, err
	}
	if item.Status != models.ItemPending {
		return nil, fmt.Errorf("cannot activate item in status %s: %w", item.Status, ErrInvalidState)
	}

	now := time.Now().UTC()
	item.ServerStartedAt = &now
	if item.TimerSeconds != nil {
		deadline := now.Add(time.Duration(*item.TimerSeconds) * time.Second)
		item.ServerDeadlineAt = &deadline
	}
	item.Status = models.ItemActive

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info("Item activated",
		zap.String("item_id", item.ID),
		zap.String("assessment_id", item.AssessmentID))
	return item.ServerDeadlineAt, nil
}

// Submit scores the raw metrics for an item and stores the result. Submission
// is accepted from ACTIVE or PENDING — skipping activation is a deliberate
// leniency — and rejected from terminal states. A deadline that has already
// passed does not block submission.
func (s *ItemService) Submit(ctx context.Context, itemID string, raw models.RawMetrics, p Principal) (*scoring.Result, error) {
	item, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, item, p); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(item.AssessmentID)
	defer unlock()

	if item, err = s.load(ctx, itemID); err != nil {
		return nil, err
	}
	if item.Status.Terminal() {
		return nil, fmt.Errorf("cannot submit item in status %s: %w", item.Status, ErrInvalidState)
	}
	if item.Game == nil {
		return nil, fmt.Errorf("item %s game: %w", itemID, ErrNotFound)
	}

	result, err := s.registry.Score(item.Game.Code, raw)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", item.Game.Code, err)
	}

	score := result.NormalizedScore
	item.Score = &score
	item.Metrics = models.MetricsRecord{
		Version: 1,
		Raw:     raw,
		ServerScoring: &models.ServerScoring{
			NormalizedScore:  result.NormalizedScore,
			TraitScores:      result.TraitScores,
			PerformanceLevel: result.PerformanceLevel,
			Feedback:         result.Feedback,
		},
	}
	item.Status = models.ItemSubmitted

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info("Item submitted",
		zap.String("item_id", item.ID),
		zap.String("assessment_id", item.AssessmentID),
		zap.String("game_code", item.Game.Code),
		zap.Float64("score", score))

	// Still under the assessment lock: the all-submitted check and the
	// total-score write happen exactly once.
	if _, err := s.aggregator.CheckAndFinalize(ctx, item.AssessmentID); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExpireOverdue transitions ACTIVE items whose deadline has passed to
// EXPIRED. This is the extension point for deadline enforcement; nothing in
// the server schedules it today, and late submissions remain accepted.
func (s *ItemService) ExpireOverdue(ctx context.Context, assessmentID string, now time.Time) (int, error) {
	unlock := s.locks.Lock(assessmentID)
	defer unlock()

	items, err := s.items.ListByAssessment(ctx, assessmentID)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range items {
		item := &items[i]
		if item.Status != models.ItemActive || item.ServerDeadlineAt == nil {
			continue
		}
		if item.ServerDeadlineAt.After(now) {
			continue
		}
		item.Status = models.ItemExpired
		if err := s.items.Save(ctx, item); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

func (s *ItemService) load(ctx context.Context, itemID string) (*models.AssessmentItem, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

func (s *ItemService) authorize(ctx context.Context, item *models.AssessmentItem, p Principal) error {
	assessment, err := s.assessments.GetByID(ctx, item.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("assessment %s: %w", item.AssessmentID, ErrNotFound)
		}
		return err
	}
	if !p.CanAccessAssessment(assessment) {
		return fmt.Errorf("assessment %s: %w", item.AssessmentID, ErrPermissionDenied)
	}
	return nil
}
