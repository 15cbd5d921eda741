package services

import (
	"context"
	"testing"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"github.com/Akila-Wasalathilaka/cognihire/internal/testutil"
)

func TestScheduleSingleRequiredTrait(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedCatalog(t, env.db)
	ctx := context.Background()

	profile := models.TraitProfile{
		"memory": {Required: true, Weight: 0.25},
	}
	items, err := env.scheduler.Schedule(ctx, "assessment-1", profile)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.OrderIndex != 0 {
		t.Fatalf("order index = %d, want 0", item.OrderIndex)
	}
	if item.TimerSeconds == nil || *item.TimerSeconds != 300 {
		t.Fatalf("timer = %v, want 300", item.TimerSeconds)
	}
	if item.Status != models.ItemPending {
		t.Fatalf("status = %s, want PENDING", item.Status)
	}
	if item.ConfigSnapshot.Game.Trials != 20 || item.ConfigSnapshot.Game.N != 2 {
		t.Fatalf("snapshot did not capture the NBACK base config: %+v", item.ConfigSnapshot)
	}
}

func TestScheduleDefaultTriple(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedCatalog(t, env.db)
	ctx := context.Background()

	codeByID := make(map[string]string)
	var games []models.Game
	if err := env.db.Find(&games).Error; err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	for _, g := range games {
		codeByID[g.ID] = g.Code
	}

	for _, profile := range []models.TraitProfile{
		nil,
		{},
		{"memory": {Required: false}},
		{"creativity": {Required: true}}, // unrecognized trait
	} {
		items, err := env.scheduler.Schedule(ctx, "assessment-1", profile)
		if err != nil {
			t.Fatalf("Schedule(%v): %v", profile, err)
		}
		if len(items) != 3 {
			t.Fatalf("profile %v: expected default triple, got %d items", profile, len(items))
		}
		wantCodes := []string{"NBACK", "STROOP", "REACTION_TIME"}
		for i, item := range items {
			if item.OrderIndex != i {
				t.Fatalf("item %d order index = %d", i, item.OrderIndex)
			}
			if item.TimerSeconds == nil || *item.TimerSeconds != 300 {
				t.Fatalf("item %d timer = %v, want 300", i, item.TimerSeconds)
			}
			// Defaults carry an empty config snapshot.
			if item.ConfigSnapshot.Game.Trials != 0 {
				t.Fatalf("item %d snapshot should be empty: %+v", i, item.ConfigSnapshot)
			}
			if codeByID[item.GameID] != wantCodes[i] {
				t.Fatalf("item %d game = %s, want %s", i, codeByID[item.GameID], wantCodes[i])
			}
		}
	}
}

func TestScheduleTraitOrderAndTimers(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedCatalog(t, env.db)
	ctx := context.Background()

	// Map iteration order must not matter; the configured trait order does.
	profile := models.TraitProfile{
		"processing_speed": {Required: true},
		"memory":           {Required: true},
		"attention":        {Required: true},
	}
	items, err := env.scheduler.Schedule(ctx, "assessment-1", profile)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	wantTimers := []int{300, 240, 180} // NBACK, STROOP, REACTION_TIME
	for i, item := range items {
		if *item.TimerSeconds != wantTimers[i] {
			t.Fatalf("item %d timer = %d, want %d", i, *item.TimerSeconds, wantTimers[i])
		}
	}
}

func TestScheduleSkipsUnknownCatalogCode(t *testing.T) {
	env := newTestEnv(t)
	// Only NBACK exists in the catalog.
	testutil.SeedGame(t, env.db, "NBACK", models.GameConfig{N: 2, Trials: 20})
	ctx := context.Background()

	profile := models.TraitProfile{
		"memory":    {Required: true},
		"attention": {Required: true}, // STROOP missing from catalog
	}
	items, err := env.scheduler.Schedule(ctx, "assessment-1", profile)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the missing game to be skipped, got %d items", len(items))
	}
	// Indexes stay dense after a skip.
	if items[0].OrderIndex != 0 {
		t.Fatalf("order index = %d, want 0", items[0].OrderIndex)
	}
}
