package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"github.com/Akila-Wasalathilaka/cognihire/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionService is the top-level assessment state machine:
// NOT_STARTED -> IN_PROGRESS -> COMPLETED | EXPIRED | CANCELLED.
type SessionService struct {
	log         *zap.Logger
	assessments *repository.AssessmentRepo
	items       *repository.ItemRepo
	users       *repository.UserRepo
	roles       *repository.JobRoleRepo
	scheduler   *Scheduler
	locks       *assessmentLocks
}

func NewSessionService(
	log *zap.Logger,
	assessments *repository.AssessmentRepo,
	items *repository.ItemRepo,
	users *repository.UserRepo,
	roles *repository.JobRoleRepo,
	scheduler *Scheduler,
	locks *assessmentLocks,
) *SessionService {
	return &SessionService{
		log:         log,
		assessments: assessments,
		items:       items,
		users:       users,
		roles:       roles,
		scheduler:   scheduler,
		locks:       locks,
	}
}

// Create produces a new NOT_STARTED assessment for a candidate and job role.
func (s *SessionService) Create(ctx context.Context, candidateID, jobRoleID string) (*models.Assessment, error) {
	candidate, err := s.users.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
		}
		return nil, err
	}
	if candidate.Role != models.RoleCandidate {
		return nil, fmt.Errorf("user %s is not a candidate: %w", candidateID, ErrNotFound)
	}
	if _, err := s.roles.GetByID(ctx, jobRoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job role %s: %w", jobRoleID, ErrNotFound)
		}
		return nil, err
	}

	assessment := &models.Assessment{
		ID:             uuid.NewString(),
		TenantID:       candidate.TenantID,
		CandidateID:    candidate.ID,
		JobRoleID:      jobRoleID,
		Status:         models.AssessmentNotStarted,
		IntegrityFlags: models.IntegrityFlagList{},
	}
	if err := s.assessments.Create(ctx, assessment); err != nil {
		return nil, err
	}

	s.log.Info("Assessment created",
		zap.String("assessment_id", assessment.ID),
		zap.String("candidate_id", candidateID),
		zap.String("job_role_id", jobRoleID))
	return assessment, nil
}

// Start materializes the item schedule and flips the assessment to
// IN_PROGRESS. Items are created in one transaction with the status change:
// either every item exists or the assessment stays NOT_STARTED. A duplicate
// retry fails the status check rather than creating items twice.
func (s *SessionService) Start(ctx context.Context, assessmentID string, p Principal) ([]models.AssessmentItem, error) {
	unlock := s.locks.Lock(assessmentID)
	defer unlock()

	assessment, err := s.get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if !p.CanAccessAssessment(assessment) {
		return nil, fmt.Errorf("assessment %s: %w", assessmentID, ErrPermissionDenied)
	}
	if assessment.Status != models.AssessmentNotStarted {
		return nil, fmt.Errorf("cannot start assessment in status %s: %w", assessment.Status, ErrInvalidState)
	}

	// A job role deleted after assignment degrades to the default schedule
	// rather than blocking the candidate.
	var profile models.TraitProfile
	if role, err := s.roles.GetByID(ctx, assessment.JobRoleID); err == nil {
		profile = role.TraitProfile
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	items, err := s.scheduler.Schedule(ctx, assessment.ID, profile)
	if err != nil {
		return nil, err
	}

	startedAt := time.Now().UTC()
	err = s.assessments.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.items.CreateBatch(ctx, tx, items); err != nil {
			return err
		}
		return s.assessments.MarkStarted(ctx, tx, assessment.ID, startedAt)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Assessment started",
		zap.String("assessment_id", assessment.ID),
		zap.Int("item_count", len(items)))
	return items, nil
}

// Delete removes an assessment that has not been started yet; anything later
// is a conflict.
func (s *SessionService) Delete(ctx context.Context, assessmentID string) error {
	unlock := s.locks.Lock(assessmentID)
	defer unlock()

	assessment, err := s.get(ctx, assessmentID)
	if err != nil {
		return err
	}
	if assessment.Status != models.AssessmentNotStarted {
		return fmt.Errorf("cannot delete assessment in status %s: %w", assessment.Status, ErrInvalidState)
	}
	return s.assessments.Delete(ctx, assessmentID)
}

// Current returns the candidate's most recently created assessment that is
// still NOT_STARTED or IN_PROGRESS, or nil.
func (s *SessionService) Current(ctx context.Context, p Principal) (*models.Assessment, error) {
	return s.assessments.CurrentForCandidate(ctx, p.UserID)
}

// Get loads one assessment with the ownership rule applied.
func (s *SessionService) Get(ctx context.Context, assessmentID string, p Principal) (*models.Assessment, error) {
	assessment, err := s.get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if !p.CanAccessAssessment(assessment) {
		return nil, fmt.Errorf("assessment %s: %w", assessmentID, ErrPermissionDenied)
	}
	return assessment, nil
}

// List returns recent assessments for administrative review.
func (s *SessionService) List(ctx context.Context, limit int) ([]models.Assessment, error) {
	return s.assessments.List(ctx, limit)
}

// ListItems returns the assessment's items in schedule order, with the
// ownership rule applied.
func (s *SessionService) ListItems(ctx context.Context, assessmentID string, p Principal) ([]models.AssessmentItem, error) {
	assessment, err := s.get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if !p.CanAccessAssessment(assessment) {
		return nil, fmt.Errorf("assessment %s: %w", assessmentID, ErrPermissionDenied)
	}
	return s.items.ListByAssessment(ctx, assessmentID)
}

func (s *SessionService) get(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	assessment, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assessment %s: %w", assessmentID, ErrNotFound)
		}
		return nil, err
	}
	return assessment, nil
}
