package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"github.com/Akila-Wasalathilaka/cognihire/internal/scoring"
	"github.com/Akila-Wasalathilaka/cognihire/internal/testutil"
)

// startedAssessment seeds a candidate with a role requiring memory and
// attention, starts the assessment and returns its scheduled items.
func startedAssessment(t *testing.T, env *testEnv) (*models.User, *models.Assessment, []models.AssessmentItem) {
	t.Helper()
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, env.db)
	testutil.SeedCatalog(t, env.db)
	candidate := testutil.SeedCandidate(t, env.db, tenant.ID)
	role := testutil.SeedJobRole(t, env.db, tenant.ID, models.TraitProfile{
		"memory":    {Required: true, Weight: 0.6},
		"attention": {Required: true, Weight: 0.4},
	})

	assessment, err := env.sessions.Create(ctx, candidate.ID, role.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	items, err := env.sessions.Start(ctx, assessment.ID, candidatePrincipal(candidate))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	return candidate, assessment, items
}

func TestActivateItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, _, items := startedAssessment(t, env)
	p := candidatePrincipal(candidate)

	deadline, err := env.itemSvc.Activate(ctx, items[0].ID, p)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if deadline == nil {
		t.Fatal("timed item returned no deadline")
	}

	item, err := env.items.GetByID(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.Status != models.ItemActive {
		t.Fatalf("status = %s, want ACTIVE", item.Status)
	}
	if item.ServerStartedAt == nil || item.ServerDeadlineAt == nil {
		t.Fatal("server timestamps not stamped")
	}
	if item.TimerSeconds == nil {
		t.Fatal("timer not carried from schedule")
	}
	want := item.ServerStartedAt.Add(time.Duration(*item.TimerSeconds) * time.Second)
	if !item.ServerDeadlineAt.Equal(want) {
		t.Fatalf("deadline = %s, want started_at + %ds", item.ServerDeadlineAt, *item.TimerSeconds)
	}

	if _, err := env.itemSvc.Activate(ctx, items[0].ID, p); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("re-activate: got %v, want ErrInvalidState", err)
	}
}

func TestActivateItemOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, _, items := startedAssessment(t, env)

	tenant := testutil.SeedTenant(t, env.db)
	other := testutil.SeedCandidate(t, env.db, tenant.ID)
	if _, err := env.itemSvc.Activate(ctx, items[0].ID, candidatePrincipal(other)); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-owner activate: got %v, want ErrPermissionDenied", err)
	}
	if _, err := env.itemSvc.Activate(ctx, "missing", candidatePrincipal(candidate)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing item: got %v, want ErrNotFound", err)
	}
}

func TestSubmitItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, _, items := startedAssessment(t, env)
	p := candidatePrincipal(candidate)

	if _, err := env.itemSvc.Activate(ctx, items[0].ID, p); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	raw := models.RawMetrics{
		CorrectResponses:   16,
		IncorrectResponses: 2,
		FalsePositives:     1,
		Misses:             1,
		TotalTrials:        20,
	}
	result, err := env.itemSvc.Submit(ctx, items[0].ID, raw, p)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.NormalizedScore != 86.4 {
		t.Fatalf("normalized = %v, want 86.4", result.NormalizedScore)
	}

	item, err := env.items.GetByID(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.Status != models.ItemSubmitted {
		t.Fatalf("status = %s, want SUBMITTED", item.Status)
	}
	if item.Score == nil || *item.Score != 86.4 {
		t.Fatalf("persisted score = %v, want 86.4", item.Score)
	}
	if item.Metrics.Raw != raw {
		t.Fatalf("raw metrics not round-tripped: %+v", item.Metrics.Raw)
	}
	if item.Metrics.ServerScoring == nil || item.Metrics.ServerScoring.NormalizedScore != 86.4 {
		t.Fatalf("server scoring not persisted: %+v", item.Metrics.ServerScoring)
	}

	if _, err := env.itemSvc.Submit(ctx, items[0].ID, raw, p); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("resubmit: got %v, want ErrInvalidState", err)
	}
}

// Submission without a prior activation is accepted: the item goes straight
// from PENDING to SUBMITTED.
func TestSubmitSkipsActivation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, _, items := startedAssessment(t, env)

	if _, err := env.itemSvc.Submit(ctx, items[1].ID, models.RawMetrics{
		CorrectResponses: 45, IncorrectResponses: 5, TotalTrials: 50, AvgResponseMs: 900,
	}, candidatePrincipal(candidate)); err != nil {
		t.Fatalf("Submit from PENDING: %v", err)
	}

	item, err := env.items.GetByID(ctx, items[1].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.Status != models.ItemSubmitted {
		t.Fatalf("status = %s, want SUBMITTED", item.Status)
	}
	if item.ServerStartedAt != nil {
		t.Fatal("skipped activation should leave server_started_at unset")
	}
}

func TestSubmitUnsupportedGame(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, assessment, _ := startedAssessment(t, env)

	game := testutil.SeedGame(t, env.db, "MAZE", models.GameConfig{Trials: 10})
	item := &models.AssessmentItem{
		ID:           "maze-item",
		AssessmentID: assessment.ID,
		GameID:       game.ID,
		OrderIndex:   9,
		Status:       models.ItemPending,
	}
	if err := env.db.Create(item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}

	_, err := env.itemSvc.Submit(ctx, item.ID, models.RawMetrics{TotalTrials: 10}, candidatePrincipal(candidate))
	if !errors.Is(err, scoring.ErrUnsupportedGame) {
		t.Fatalf("got %v, want ErrUnsupportedGame", err)
	}
}

func TestAggregationOnLastSubmit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, assessment, items := startedAssessment(t, env)
	p := candidatePrincipal(candidate)

	// NBACK: acc 16/20 = 0.8, no misses component loss beyond 1/20 -> 86.4.
	if _, err := env.itemSvc.Submit(ctx, items[0].ID, models.RawMetrics{
		CorrectResponses: 16, IncorrectResponses: 2, FalsePositives: 1, Misses: 1, TotalTrials: 20,
	}, p); err != nil {
		t.Fatalf("submit first: %v", err)
	}

	// Partial submission must not complete the assessment.
	a, err := env.assessments.GetByID(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if a.Status != models.AssessmentInProgress {
		t.Fatalf("status after partial = %s, want IN_PROGRESS", a.Status)
	}
	if a.TotalScore != nil {
		t.Fatalf("total score written early: %v", *a.TotalScore)
	}

	// STROOP: 45/50 with 900ms average -> 90.0.
	if _, err := env.itemSvc.Submit(ctx, items[1].ID, models.RawMetrics{
		CorrectResponses: 45, IncorrectResponses: 5, TotalTrials: 50, AvgResponseMs: 900,
	}, p); err != nil {
		t.Fatalf("submit second: %v", err)
	}

	a, err = env.assessments.GetByID(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if a.Status != models.AssessmentCompleted {
		t.Fatalf("status = %s, want COMPLETED", a.Status)
	}
	if a.CompletedAt == nil {
		t.Fatal("completed_at not set")
	}
	if a.TotalScore == nil || *a.TotalScore != 88.2 {
		t.Fatalf("total = %v, want 88.2 (mean of 86.4 and 90)", a.TotalScore)
	}

	// Finalization happens exactly once: a second pass is a no-op.
	done, err := env.aggregator.CheckAndFinalize(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("CheckAndFinalize: %v", err)
	}
	if done {
		t.Fatal("finalize reported completion twice")
	}
}

func TestExpireOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, assessment, items := startedAssessment(t, env)
	p := candidatePrincipal(candidate)

	if _, err := env.itemSvc.Activate(ctx, items[0].ID, p); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	// Before the deadline nothing expires.
	n, err := env.itemSvc.ExpireOverdue(ctx, assessment.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("ExpireOverdue: %v", err)
	}
	if n != 0 {
		t.Fatalf("expired %d items before deadline", n)
	}

	// Well past every configured timer.
	n, err = env.itemSvc.ExpireOverdue(ctx, assessment.ID, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("ExpireOverdue: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired = %d, want 1 (only the ACTIVE item)", n)
	}

	item, err := env.items.GetByID(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.Status != models.ItemExpired {
		t.Fatalf("status = %s, want EXPIRED", item.Status)
	}
	if _, err := env.itemSvc.Submit(ctx, item.ID, models.RawMetrics{TotalTrials: 20}, p); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("submit expired: got %v, want ErrInvalidState", err)
	}

	// The PENDING item is untouched and still submittable.
	other, err := env.items.GetByID(ctx, items[1].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if other.Status != models.ItemPending {
		t.Fatalf("pending item became %s", other.Status)
	}
}
