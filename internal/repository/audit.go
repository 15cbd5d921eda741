package repository

import (
	"context"
	"time"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"gorm.io/gorm"
)

// AuditRepo persists structured audit facts, including raw telemetry events.
type AuditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CountActionsSince counts audit rows for one target and action recorded at
// or after the cutoff. Used for sliding integrity windows.
func (r *AuditRepo) CountActionsSince(ctx context.Context, targetID, action string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("target_id = ? AND action = ? AND created_at >= ?", targetID, action, since).
		Count(&count).Error
	return count, err
}

// ListTelemetry returns recent telemetry rows for an assessment, newest
// first. An empty eventType matches every telemetry action.
func (r *AuditRepo) ListTelemetry(ctx context.Context, assessmentID, eventType string, limit int) ([]models.AuditLog, error) {
	q := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("target_id = ?", assessmentID)
	if eventType != "" {
		q = q.Where("action = ?", models.TelemetryActionPrefix+eventType)
	} else {
		q = q.Where("action LIKE ?", models.TelemetryActionPrefix+"%")
	}
	var entries []models.AuditLog
	err := q.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// CountByAction counts audit rows for one target and exact action.
func (r *AuditRepo) CountByAction(ctx context.Context, targetID, action string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("target_id = ? AND action = ?", targetID, action).
		Count(&count).Error
	return count, err
}
