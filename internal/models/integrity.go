package models

import "time"

// Severity of an integrity flag.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Weight is the contribution of one flag to the aggregate risk rating.
func (s Severity) Weight() int {
	switch s {
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 1
	}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// FlagEvidence records the counts and window that triggered a flag. Manual is
// set when a reviewer appended the flag directly, bypassing thresholds.
type FlagEvidence struct {
	EventCount int        `json:"event_count,omitempty"`
	Threshold  int        `json:"threshold,omitempty"`
	TimeWindow string     `json:"time_window,omitempty"`
	LastEvent  *time.Time `json:"last_event,omitempty"`
	Manual     bool       `json:"manual,omitempty"`
}

// IntegrityFlag is a recorded suspicion of test-taking misconduct. Immutable
// once appended.
type IntegrityFlag struct {
	Type        string       `json:"flag_type"`
	Severity    Severity     `json:"severity"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	Evidence    FlagEvidence `json:"evidence,omitzero"`
}

// IntegrityFlagList is the append-only flag collection on an assessment.
type IntegrityFlagList []IntegrityFlag

// TotalWeight sums the severity weights of all flags.
func (l IntegrityFlagList) TotalWeight() int {
	total := 0
	for _, f := range l {
		total += f.Severity.Weight()
	}
	return total
}
