package models

import (
	"time"

	"gorm.io/datatypes"
)

// TargetAssessment is the audit target type for assessment-scoped rows.
// Item-scoped telemetry also targets the assessment; the item ID rides in
// the payload so window counts stay per-assessment.
const TargetAssessment = "ASSESSMENT"

// TelemetryActionPrefix prefixes the action of every recorded telemetry
// event, e.g. TELEMETRY_WINDOW_BLUR.
const TelemetryActionPrefix = "TELEMETRY_"

// AuditLog is a structured audit fact. Telemetry events are recorded here
// with a TELEMETRY_-prefixed action; the payload stays open-ended since it
// is opaque client data.
type AuditLog struct {
	ID          string `gorm:"primaryKey;size:36"`
	TenantID    string `gorm:"size:36"`
	ActorUserID string `gorm:"size:36"`
	Action      string `gorm:"size:128;index"`
	TargetType  string `gorm:"size:64"`
	TargetID    string `gorm:"size:36;index"`
	IP          string `gorm:"size:64"`
	UserAgent   string `gorm:"size:256"`
	Payload     datatypes.JSON
	CreatedAt   time.Time `gorm:"index"`
}
