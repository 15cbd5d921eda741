package database

import (
	"fmt"
	"os"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// seedGame mirrors one entry of config/games.yaml.
type seedGame struct {
	Code        string            `yaml:"code"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	BaseConfig  models.GameConfig `yaml:"base_config"`
}

type seedCatalog struct {
	Games []seedGame `yaml:"games"`
}

// LoadGameCatalog reads and parses the games.yaml seed file.
func LoadGameCatalog(path string) ([]seedGame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game catalog file: %w", err)
	}

	var catalog seedCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game catalog YAML: %w", err)
	}
	return catalog.Games, nil
}

// SeedGames inserts catalog entries that are not present yet. Existing rows
// are left untouched so catalog edits stay an administrative action.
func SeedGames(db *gorm.DB, log *zap.Logger, path string) error {
	games, err := LoadGameCatalog(path)
	if err != nil {
		return err
	}

	for _, g := range games {
		var count int64
		if err := db.Model(&models.Game{}).Where("code = ?", g.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		game := models.Game{
			ID:          uuid.NewString(),
			Code:        g.Code,
			Title:       g.Title,
			Description: g.Description,
			BaseConfig:  g.BaseConfig,
		}
		if err := db.Create(&game).Error; err != nil {
			return err
		}
		log.Info("Seeded game", zap.String("code", g.Code))
	}
	return nil
}
