package models

import "time"

// GameConfig is the structured shape of a game's base configuration. Only the
// knobs relevant to a given game are populated; the rest stay at their zero
// value and are omitted from the persisted JSON.
type GameConfig struct {
	Trials                  int      `json:"trials,omitempty" yaml:"trials"`
	N                       int      `json:"n,omitempty" yaml:"n"` // n-back depth
	StimulusDurationMs      int      `json:"stimulus_duration,omitempty" yaml:"stimulus_duration"`
	InterStimulusIntervalMs int      `json:"inter_stimulus_interval,omitempty" yaml:"inter_stimulus_interval"`
	Colors                  []string `json:"colors,omitempty" yaml:"colors"`
	MinDelayMs              int      `json:"min_delay,omitempty" yaml:"min_delay"`
	MaxDelayMs              int      `json:"max_delay,omitempty" yaml:"max_delay"`
	Difficulty              string   `json:"difficulty,omitempty" yaml:"difficulty"`
}

// Game is a catalog entry. The code is the stable identifier used for
// scoring-function dispatch; the catalog is read-only from the engine's
// perspective.
type Game struct {
	ID          string     `gorm:"primaryKey;size:36"`
	Code        string     `gorm:"size:64;uniqueIndex;not null"`
	Title       string     `gorm:"size:200"`
	Description string     `gorm:"type:text"`
	BaseConfig  GameConfig `gorm:"serializer:json"`
}

// TraitRequirement is one entry of a job role's trait profile.
type TraitRequirement struct {
	Required bool    `json:"required"`
	Weight   float64 `json:"weight,omitempty"`
}

// TraitProfile maps a trait name (memory, attention, processing_speed, ...)
// to its requirement. Read-only input to the item scheduler.
type TraitProfile map[string]TraitRequirement

type JobRole struct {
	ID           string       `gorm:"primaryKey;size:36"`
	TenantID     string       `gorm:"size:36;index"`
	Title        string       `gorm:"size:200;not null"`
	Description  string       `gorm:"type:text"`
	TraitProfile TraitProfile `gorm:"serializer:json;column:traits_json"`
	CreatedAt    time.Time
}
