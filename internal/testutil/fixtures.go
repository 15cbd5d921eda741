package testutil

import (
	"testing"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SeedTenant(tb testing.TB, db *gorm.DB) *models.Tenant {
	tb.Helper()
	t := &models.Tenant{
		ID:        uuid.NewString(),
		Name:      "Acme Hiring",
		Subdomain: "acme-" + uuid.NewString()[:8],
	}
	if err := db.Create(t).Error; err != nil {
		tb.Fatalf("seed tenant: %v", err)
	}
	return t
}

func SeedUser(tb testing.TB, db *gorm.DB, tenantID, role string) *models.User {
	tb.Helper()
	id := uuid.NewString()
	u := &models.User{
		ID:           id,
		TenantID:     tenantID,
		Email:        id[:8] + "@example.com",
		Username:     "user-" + id[:8],
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCandidate(tb testing.TB, db *gorm.DB, tenantID string) *models.User {
	tb.Helper()
	return SeedUser(tb, db, tenantID, models.RoleCandidate)
}

func SeedAdmin(tb testing.TB, db *gorm.DB, tenantID string) *models.User {
	tb.Helper()
	return SeedUser(tb, db, tenantID, models.RoleAdmin)
}

func SeedGame(tb testing.TB, db *gorm.DB, code string, cfg models.GameConfig) *models.Game {
	tb.Helper()
	g := &models.Game{
		ID:         uuid.NewString(),
		Code:       code,
		Title:      code + " test",
		BaseConfig: cfg,
	}
	if err := db.Create(g).Error; err != nil {
		tb.Fatalf("seed game %s: %v", code, err)
	}
	return g
}

// SeedCatalog inserts the three built-in games with realistic base configs.
func SeedCatalog(tb testing.TB, db *gorm.DB) {
	tb.Helper()
	SeedGame(tb, db, "NBACK", models.GameConfig{N: 2, Trials: 20, StimulusDurationMs: 500})
	SeedGame(tb, db, "STROOP", models.GameConfig{Trials: 50, Colors: []string{"red", "blue", "green", "yellow"}})
	SeedGame(tb, db, "REACTION_TIME", models.GameConfig{Trials: 30, MinDelayMs: 500, MaxDelayMs: 2000})
}

func SeedJobRole(tb testing.TB, db *gorm.DB, tenantID string, profile models.TraitProfile) *models.JobRole {
	tb.Helper()
	r := &models.JobRole{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Title:        "Software Engineer",
		TraitProfile: profile,
	}
	if err := db.Create(r).Error; err != nil {
		tb.Fatalf("seed job role: %v", err)
	}
	return r
}
