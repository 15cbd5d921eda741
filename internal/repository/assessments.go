package repository

import (
	"context"
	"time"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"gorm.io/gorm"
)

type AssessmentRepo struct {
	db *gorm.DB
}

func NewAssessmentRepo(db *gorm.DB) *AssessmentRepo {
	return &AssessmentRepo{db: db}
}

// DB exposes the underlying handle for transaction scoping by services.
func (r *AssessmentRepo) DB() *gorm.DB {
	return r.db
}

func (r *AssessmentRepo) Create(ctx context.Context, assessment *models.Assessment) error {
	return r.db.WithContext(ctx).Create(assessment).Error
}

func (r *AssessmentRepo) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	var assessment models.Assessment
	if err := r.db.WithContext(ctx).First(&assessment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *AssessmentRepo) List(ctx context.Context, limit int) ([]models.Assessment, error) {
	var assessments []models.Assessment
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&assessments).Error
	return assessments, err
}

// CurrentForCandidate returns the most recently created assessment for the
// candidate that is still NOT_STARTED or IN_PROGRESS, or nil if none exists.
func (r *AssessmentRepo) CurrentForCandidate(ctx context.Context, candidateID string) (*models.Assessment, error) {
	var assessment models.Assessment
	err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND status IN ?", candidateID,
			[]models.AssessmentStatus{models.AssessmentNotStarted, models.AssessmentInProgress}).
		Order("created_at DESC").
		First(&assessment).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

// MarkStarted flips the assessment into IN_PROGRESS within tx.
func (r *AssessmentRepo) MarkStarted(ctx context.Context, tx *gorm.DB, id string, startedAt time.Time) error {
	return tx.WithContext(ctx).
		Model(&models.Assessment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     models.AssessmentInProgress,
			"started_at": startedAt,
		}).Error
}

// Complete sets the terminal COMPLETED state with the aggregate score.
func (r *AssessmentRepo) Complete(ctx context.Context, id string, totalScore float64, completedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Assessment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       models.AssessmentCompleted,
			"total_score":  totalScore,
			"completed_at": completedAt,
		}).Error
}

// SaveFlags persists the grown integrity flag collection. Callers only ever
// append to the list.
func (r *AssessmentRepo) SaveFlags(ctx context.Context, id string, flags models.IntegrityFlagList) error {
	return r.db.WithContext(ctx).
		Model(&models.Assessment{}).
		Where("id = ?", id).
		Update("integrity_flags", flags).Error
}

func (r *AssessmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Assessment{}, "id = ?", id).Error
}
