package services

import (
	"context"

	"github.com/Akila-Wasalathilaka/cognihire/internal/config"
	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"github.com/Akila-Wasalathilaka/cognihire/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scheduler derives the ordered item list for an assessment from the job
// role's trait profile. It runs exactly once, at assessment start.
type Scheduler struct {
	log   *zap.Logger
	games *repository.GameRepo
	cfg   config.SchedulerConfig
}

func NewScheduler(log *zap.Logger, games *repository.GameRepo, cfg config.SchedulerConfig) *Scheduler {
	return &Scheduler{log: log, games: games, cfg: cfg}
}

// scheduled pairs a game code with the timer the resulting item gets.
type scheduled struct {
	gameCode     string
	timerSeconds int
	snapshot     bool // capture the game's base config at creation
}

// Schedule builds the item batch for one assessment. Traits are evaluated in
// the configured order; only required traits produce items. A trait whose
// game code is absent from the catalog is silently skipped — an observable
// policy, not a failure. An absent or non-matching profile falls back to the
// default game set with empty config snapshots.
func (s *Scheduler) Schedule(ctx context.Context, assessmentID string, profile models.TraitProfile) ([]models.AssessmentItem, error) {
	var wanted []scheduled
	for _, tg := range s.cfg.TraitGames {
		if req, ok := profile[tg.Trait]; ok && req.Required {
			wanted = append(wanted, scheduled{gameCode: tg.GameCode, timerSeconds: tg.TimerSeconds, snapshot: true})
		}
	}
	if len(wanted) == 0 {
		for _, code := range s.cfg.DefaultGames {
			wanted = append(wanted, scheduled{gameCode: code, timerSeconds: s.cfg.DefaultTimerSeconds})
		}
	}

	codes := make([]string, len(wanted))
	for i, w := range wanted {
		codes[i] = w.gameCode
	}
	catalog, err := s.games.GetByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}

	var items []models.AssessmentItem
	for _, w := range wanted {
		game, ok := catalog[w.gameCode]
		if !ok {
			s.log.Warn("Skipping scheduled game absent from catalog",
				zap.String("assessment_id", assessmentID),
				zap.String("game_code", w.gameCode))
			continue
		}

		snapshot := models.ConfigSnapshot{Version: 1}
		if w.snapshot {
			snapshot.Game = game.BaseConfig
		}

		timer := w.timerSeconds
		items = append(items, models.AssessmentItem{
			ID:             uuid.NewString(),
			AssessmentID:   assessmentID,
			GameID:         game.ID,
			OrderIndex:     len(items), // dense, zero-based
			TimerSeconds:   &timer,
			Status:         models.ItemPending,
			ConfigSnapshot: snapshot,
		})
	}
	return items, nil
}
