package models

import "time"

// AssessmentStatus is the session-level state machine. Transitions are
// monotonic: NOT_STARTED -> IN_PROGRESS -> COMPLETED | EXPIRED | CANCELLED,
// and a terminal outcome is never reversed.
type AssessmentStatus string

const (
	AssessmentNotStarted AssessmentStatus = "NOT_STARTED"
	AssessmentInProgress AssessmentStatus = "IN_PROGRESS"
	AssessmentCompleted  AssessmentStatus = "COMPLETED"
	AssessmentExpired    AssessmentStatus = "EXPIRED"
	AssessmentCancelled  AssessmentStatus = "CANCELLED"
)

// Terminal reports whether the status is an end state.
func (s AssessmentStatus) Terminal() bool {
	switch s {
	case AssessmentCompleted, AssessmentExpired, AssessmentCancelled:
		return true
	}
	return false
}

// ItemStatus is the per-item state machine. EXPIRED exists in the schema but
// is never set automatically; deadlines are advisory.
type ItemStatus string

const (
	ItemPending   ItemStatus = "PENDING"
	ItemActive    ItemStatus = "ACTIVE"
	ItemExpired   ItemStatus = "EXPIRED"
	ItemSubmitted ItemStatus = "SUBMITTED"
)

func (s ItemStatus) Terminal() bool {
	return s == ItemSubmitted || s == ItemExpired
}

// Assessment is one candidate's attempt at one job role's test battery.
type Assessment struct {
	ID          string           `gorm:"primaryKey;size:36"`
	TenantID    string           `gorm:"size:36;index"`
	CandidateID string           `gorm:"size:36;index;not null"`
	JobRoleID   string           `gorm:"size:36;not null"`
	Status      AssessmentStatus `gorm:"size:16;default:NOT_STARTED"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	// TotalScore stays nil until every item is SUBMITTED; once set it never
	// changes.
	TotalScore     *float64
	IntegrityFlags IntegrityFlagList `gorm:"serializer:json"`
	CreatedAt      time.Time
}

// ConfigSnapshot freezes a game's configuration at item creation, so later
// catalog edits cannot retroactively change an in-flight assessment.
type ConfigSnapshot struct {
	Version int        `json:"version"`
	Game    GameConfig `json:"game,omitzero"`
}

// AssessmentItem is one scheduled mini-game within an assessment. Items are
// created in a batch when the assessment starts, never individually later.
type AssessmentItem struct {
	ID           string `gorm:"primaryKey;size:36"`
	AssessmentID string `gorm:"size:36;index;not null"`
	GameID       string `gorm:"size:36;not null"`
	Game         *Game  `gorm:"foreignKey:GameID"`
	OrderIndex   int    `gorm:"not null"`
	TimerSeconds *int
	// ServerStartedAt and ServerDeadlineAt are assigned once, at activation.
	ServerStartedAt  *time.Time
	ServerDeadlineAt *time.Time
	Status           ItemStatus     `gorm:"size:16;default:PENDING"`
	Score            *float64
	Metrics          MetricsRecord  `gorm:"serializer:json;column:metrics_json"`
	ConfigSnapshot   ConfigSnapshot `gorm:"serializer:json"`
}

// RawMetrics is the performance payload a client submits for an item. Which
// fields are meaningful depends on the game; absent fields stay zero.
type RawMetrics struct {
	CorrectResponses   int     `json:"correct_responses"`
	IncorrectResponses int     `json:"incorrect_responses"`
	FalsePositives     int     `json:"false_positives,omitempty"`
	Misses             int     `json:"misses,omitempty"`
	TotalTrials        int     `json:"total_trials,omitempty"`
	AvgResponseMs      float64 `json:"avg_response_time,omitempty"`
}

// ServerScoring is the server-computed record embedded next to the raw
// submission.
type ServerScoring struct {
	NormalizedScore  float64            `json:"normalized_score"`
	TraitScores      map[string]float64 `json:"trait_scores"`
	PerformanceLevel string             `json:"performance_level"`
	Feedback         string             `json:"feedback"`
}

// MetricsRecord is what an item persists after submission: the raw input
// merged with the server scoring sub-record.
type MetricsRecord struct {
	Version       int            `json:"version,omitempty"`
	Raw           RawMetrics     `json:"raw,omitzero"`
	ServerScoring *ServerScoring `json:"server_scoring,omitempty"`
}
