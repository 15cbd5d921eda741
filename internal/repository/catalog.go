package repository

import (
	"context"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"gorm.io/gorm"
)

// GameRepo reads the game catalog. The catalog is read-only from the
// orchestration engine's perspective.
type GameRepo struct {
	db *gorm.DB
}

func NewGameRepo(db *gorm.DB) *GameRepo {
	return &GameRepo{db: db}
}

func (r *GameRepo) GetByCode(ctx context.Context, code string) (*models.Game, error) {
	var game models.Game
	if err := r.db.WithContext(ctx).First(&game, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// GetByCodes returns the catalog entries for the given codes, keyed by code.
// Codes absent from the catalog are simply missing from the map.
func (r *GameRepo) GetByCodes(ctx context.Context, codes []string) (map[string]models.Game, error) {
	var games []models.Game
	if err := r.db.WithContext(ctx).Where("code IN ?", codes).Find(&games).Error; err != nil {
		return nil, err
	}
	byCode := make(map[string]models.Game, len(games))
	for _, g := range games {
		byCode[g.Code] = g
	}
	return byCode, nil
}

func (r *GameRepo) List(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	err := r.db.WithContext(ctx).Order("code").Find(&games).Error
	return games, err
}

// JobRoleRepo reads job roles and their trait profiles.
type JobRoleRepo struct {
	db *gorm.DB
}

func NewJobRoleRepo(db *gorm.DB) *JobRoleRepo {
	return &JobRoleRepo{db: db}
}

func (r *JobRoleRepo) GetByID(ctx context.Context, id string) (*models.JobRole, error) {
	var role models.JobRole
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
