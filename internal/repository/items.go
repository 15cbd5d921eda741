package repository

import (
	"context"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"gorm.io/gorm"
)

type ItemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// CreateBatch inserts the scheduled items inside tx, so an assessment start
// creates all of its items or none of them.
func (r *ItemRepo) CreateBatch(ctx context.Context, tx *gorm.DB, items []models.AssessmentItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*models.AssessmentItem, error) {
	var item models.AssessmentItem
	if err := r.db.WithContext(ctx).Preload("Game").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByAssessment returns the assessment's items in schedule order.
func (r *ItemRepo) ListByAssessment(ctx context.Context, assessmentID string) ([]models.AssessmentItem, error) {
	var items []models.AssessmentItem
	err := r.db.WithContext(ctx).
		Preload("Game").
		Where("assessment_id = ?", assessmentID).
		Order("order_index ASC").
		Find(&items).Error
	return items, err
}

// Save persists item mutations (activation timestamps, status, score,
// metrics).
func (r *ItemRepo) Save(ctx context.Context, item *models.AssessmentItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
