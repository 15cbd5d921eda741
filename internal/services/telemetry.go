package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Akila-Wasalathilaka/cognihire/internal/config"
	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"github.com/Akila-Wasalathilaka/cognihire/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TelemetryService ingests behavioral events tied to an active assessment,
// maintains sliding-window violation counts, and raises integrity flags. It
// runs alongside the session state machine but never mutates it: telemetry
// is best-effort logging layered on top.
type TelemetryService struct {
	log         *zap.Logger
	audit       *repository.AuditRepo
	assessments *repository.AssessmentRepo
	locks       *assessmentLocks
	window      time.Duration
	thresholds  map[string]config.IntegrityThreshold
}

// NewTelemetryService builds the monitor with an explicit threshold table;
// the table is configuration, never a package global.
func NewTelemetryService(
	log *zap.Logger,
	audit *repository.AuditRepo,
	assessments *repository.AssessmentRepo,
	locks *assessmentLocks,
	cfg config.IntegrityConfig,
) *TelemetryService {
	thresholds := make(map[string]config.IntegrityThreshold, len(cfg.Thresholds))
	for _, t := range cfg.Thresholds {
		thresholds[t.EventType] = t
	}
	window := time.Duration(cfg.WindowMinutes) * time.Minute
	if window <= 0 {
		window = 30 * time.Minute
	}
	return &TelemetryService{
		log:         log,
		audit:       audit,
		assessments: assessments,
		locks:       locks,
		window:      window,
		thresholds:  thresholds,
	}
}

// IngestEvent is one behavioral event reported by the client.
type IngestEvent struct {
	AssessmentID string          `json:"assessment_id"`
	ItemID       string          `json:"item_id,omitempty"`
	EventType    string          `json:"event_type"`
	Timestamp    time.Time       `json:"timestamp"`
	Data         json.RawMessage `json:"data,omitempty"`
	ClientInfo   json.RawMessage `json:"client_info,omitempty"`
}

// IntegrityReport is the aggregate risk view over an assessment's flags.
type IntegrityReport struct {
	AssessmentID    string                   `json:"assessment_id"`
	Flags           models.IntegrityFlagList `json:"flags"`
	OverallRisk     string                   `json:"overall_risk"`
	Recommendations []string                 `json:"recommendations"`
}

// Ingest records the raw event and runs the threshold check. The raw event is
// always recorded, even when no threshold rule exists for its type. The
// count-and-flag step holds the assessment lock so concurrent events cannot
// double-flag with inconsistent evidence counts.
func (s *TelemetryService) Ingest(ctx context.Context, event IngestEvent, p Principal) (*models.AuditLog, error) {
	if event.EventType == "" {
		return nil, fmt.Errorf("event_type is required: %w", ErrValidation)
	}

	assessment, err := s.loadOwned(ctx, event.AssessmentID, p)
	if err != nil {
		return nil, err
	}

	// Rows always target the assessment so window counts and listings see
	// item-scoped events too; the item ID travels in the payload.
	payload, err := json.Marshal(map[string]any{
		"event_type":  event.EventType,
		"item_id":     event.ItemID,
		"timestamp":   event.Timestamp,
		"data":        event.Data,
		"client_info": event.ClientInfo,
	})
	if err != nil {
		return nil, fmt.Errorf("encode telemetry payload: %w", err)
	}

	action := models.TelemetryActionPrefix + event.EventType
	entry := &models.AuditLog{
		ID:          uuid.NewString(),
		TenantID:    assessment.TenantID,
		ActorUserID: p.UserID,
		Action:      action,
		TargetType:  models.TargetAssessment,
		TargetID:    event.AssessmentID,
		Payload:     datatypes.JSON(payload),
	}

	unlock := s.locks.Lock(event.AssessmentID)
	defer unlock()

	if err := s.audit.Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.checkViolation(ctx, assessment, event); err != nil {
		return nil, err
	}
	return entry, nil
}

// checkViolation counts events of the type within the trailing window,
// including the one just recorded, and appends a flag on every threshold
// crossing. Flags are never deduplicated.
func (s *TelemetryService) checkViolation(ctx context.Context, assessment *models.Assessment, event IngestEvent) error {
	rule, ok := s.thresholds[event.EventType]
	if !ok {
		return nil
	}

	action := models.TelemetryActionPrefix + event.EventType
	since := time.Now().UTC().Add(-s.window)
	count, err := s.audit.CountActionsSince(ctx, assessment.ID, action, since)
	if err != nil {
		return err
	}
	if count < int64(rule.Threshold) {
		return nil
	}

	// Re-read under the lock so a concurrent ingest's append is not lost.
	assessment, err = s.load(ctx, assessment.ID)
	if err != nil {
		return err
	}

	lastEvent := event.Timestamp
	windowLabel := fmt.Sprintf("%d minutes", int(s.window.Minutes()))
	flag := models.IntegrityFlag{
		Type:     event.EventType,
		Severity: models.Severity(rule.Severity),
		Description: fmt.Sprintf("Excessive %s events detected (%d in last %s)",
			strings.ToLower(strings.ReplaceAll(event.EventType, "_", " ")), count, windowLabel),
		Timestamp: time.Now().UTC(),
		Evidence: models.FlagEvidence{
			EventCount: int(count),
			Threshold:  rule.Threshold,
			TimeWindow: windowLabel,
			LastEvent:  &lastEvent,
		},
	}

	assessment.IntegrityFlags = append(assessment.IntegrityFlags, flag)
	if err := s.assessments.SaveFlags(ctx, assessment.ID, assessment.IntegrityFlags); err != nil {
		return err
	}

	s.log.Warn("Integrity flag raised",
		zap.String("assessment_id", assessment.ID),
		zap.String("event_type", event.EventType),
		zap.String("severity", string(flag.Severity)),
		zap.Int64("event_count", count))
	return nil
}

// ManualFlag appends a reviewer-supplied flag directly, bypassing threshold
// logic.
func (s *TelemetryService) ManualFlag(ctx context.Context, assessmentID string, flagType string, severity models.Severity, description string, p Principal) error {
	if flagType == "" || !severity.Valid() {
		return fmt.Errorf("flag_type and a known severity are required: %w", ErrValidation)
	}

	unlock := s.locks.Lock(assessmentID)
	defer unlock()

	assessment, err := s.load(ctx, assessmentID)
	if err != nil {
		return err
	}

	flag := models.IntegrityFlag{
		Type:        flagType,
		Severity:    severity,
		Description: description,
		Timestamp:   time.Now().UTC(),
		Evidence:    models.FlagEvidence{Manual: true},
	}
	assessment.IntegrityFlags = append(assessment.IntegrityFlags, flag)
	if err := s.assessments.SaveFlags(ctx, assessmentID, assessment.IntegrityFlags); err != nil {
		return err
	}

	payload, _ := json.Marshal(map[string]any{
		"flag_type":   flagType,
		"severity":    severity,
		"description": description,
	})
	return s.audit.Create(ctx, &models.AuditLog{
		ID:          uuid.NewString(),
		TenantID:    assessment.TenantID,
		ActorUserID: p.UserID,
		Action:      "MANUAL_INTEGRITY_FLAG",
		TargetType:  models.TargetAssessment,
		TargetID:    assessmentID,
		Payload:     datatypes.JSON(payload),
	})
}

// Report computes the aggregate risk rating over the assessment's flags.
func (s *TelemetryService) Report(ctx context.Context, assessmentID string) (*IntegrityReport, error) {
	assessment, err := s.load(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	weight := assessment.IntegrityFlags.TotalWeight()
	risk := "LOW"
	switch {
	case weight >= 10:
		risk = "HIGH"
	case weight >= 5:
		risk = "MEDIUM"
	}

	var recommendations []string
	switch risk {
	case "HIGH":
		recommendations = []string{
			"Consider invalidating this assessment due to high integrity risk",
			"Review candidate's assessment environment and behavior",
		}
	case "MEDIUM":
		recommendations = []string{
			"Monitor this candidate closely in future assessments",
			"Consider additional verification steps",
		}
	default:
		recommendations = []string{"Assessment integrity appears acceptable"}
	}

	flags := assessment.IntegrityFlags
	if flags == nil {
		flags = models.IntegrityFlagList{}
	}
	return &IntegrityReport{
		AssessmentID:    assessmentID,
		Flags:           flags,
		OverallRisk:     risk,
		Recommendations: recommendations,
	}, nil
}

// Heartbeat records a liveness ping for an active session.
func (s *TelemetryService) Heartbeat(ctx context.Context, assessmentID string, data json.RawMessage, p Principal) (*models.AuditLog, error) {
	assessment, err := s.loadOwned(ctx, assessmentID, p)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"heartbeat_data": data,
		"timestamp":      time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode heartbeat payload: %w", err)
	}

	entry := &models.AuditLog{
		ID:          uuid.NewString(),
		TenantID:    assessment.TenantID,
		ActorUserID: p.UserID,
		Action:      "ASSESSMENT_HEARTBEAT",
		TargetType:  models.TargetAssessment,
		TargetID:    assessmentID,
		Payload:     datatypes.JSON(payload),
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// EventStats summarizes recorded telemetry for an assessment.
type EventStats struct {
	AssessmentID   string                   `json:"assessment_id"`
	TotalEvents    int                      `json:"total_events"`
	EventCounts    map[string]int           `json:"event_counts"`
	HeartbeatCount int64                    `json:"heartbeat_count"`
	IntegrityFlags models.IntegrityFlagList `json:"integrity_flags"`
}

// Events lists recent raw telemetry rows, newest first.
func (s *TelemetryService) Events(ctx context.Context, assessmentID, eventType string, limit int) ([]models.AuditLog, error) {
	if _, err := s.load(ctx, assessmentID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.audit.ListTelemetry(ctx, assessmentID, eventType, limit)
}

// Stats aggregates event counts by type for an assessment.
func (s *TelemetryService) Stats(ctx context.Context, assessmentID string) (*EventStats, error) {
	assessment, err := s.load(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	events, err := s.audit.ListTelemetry(ctx, assessmentID, "", 500)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, e := range events {
		counts[strings.TrimPrefix(e.Action, models.TelemetryActionPrefix)]++
	}

	heartbeats, err := s.audit.CountByAction(ctx, assessmentID, "ASSESSMENT_HEARTBEAT")
	if err != nil {
		return nil, err
	}

	return &EventStats{
		AssessmentID:   assessmentID,
		TotalEvents:    len(events),
		EventCounts:    counts,
		HeartbeatCount: heartbeats,
		IntegrityFlags: assessment.IntegrityFlags,
	}, nil
}

func (s *TelemetryService) load(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	assessment, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assessment %s: %w", assessmentID, ErrNotFound)
		}
		return nil, err
	}
	return assessment, nil
}

func (s *TelemetryService) loadOwned(ctx context.Context, assessmentID string, p Principal) (*models.Assessment, error) {
	assessment, err := s.load(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if !p.CanAccessAssessment(assessment) {
		return nil, fmt.Errorf("assessment %s: %w", assessmentID, ErrPermissionDenied)
	}
	return assessment, nil
}
