package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Integrity IntegrityConfig `mapstructure:"integrity"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// AuthConfig holds the signing secret and lifetime for issued bearer tokens.
type AuthConfig struct {
	JWTSecret   string `mapstructure:"jwt_secret"`
	TokenTTLMin int    `mapstructure:"token_ttl_minutes"`
}

// TraitGameMapping binds one cognitive trait to the mini-game that measures it,
// with the timer the scheduler assigns to the resulting assessment item.
type TraitGameMapping struct {
	Trait        string `mapstructure:"trait"`
	GameCode     string `mapstructure:"game_code"`
	TimerSeconds int    `mapstructure:"timer_seconds"`
}

// SchedulerConfig drives item derivation at assessment start. TraitGames is
// evaluated in slice order; DefaultGames is the fallback when a job role has
// no trait profile or the profile yields no matches.
type SchedulerConfig struct {
	TraitGames          []TraitGameMapping `mapstructure:"trait_games"`
	DefaultGames        []string           `mapstructure:"default_games"`
	DefaultTimerSeconds int                `mapstructure:"default_timer_seconds"`
}

// IntegrityThreshold is the trigger rule for one telemetry event type.
type IntegrityThreshold struct {
	EventType string `mapstructure:"event_type"`
	Threshold int    `mapstructure:"threshold"`
	Severity  string `mapstructure:"severity"`
}

// IntegrityConfig is handed to the telemetry service at construction; the
// violation table is configuration, not a module-level constant.
type IntegrityConfig struct {
	WindowMinutes int                  `mapstructure:"window_minutes"`
	Thresholds    []IntegrityThreshold `mapstructure:"thresholds"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5060")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "cognihire-db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "cognihire-dev-secret")
	v.SetDefault("auth.token_ttl_minutes", 480)

	// Scheduler defaults: which game measures which trait, evaluated in this
	// order when an assessment starts.
	v.SetDefault("scheduler.trait_games", []map[string]any{
		{"trait": "memory", "game_code": "NBACK", "timer_seconds": 300},
		{"trait": "attention", "game_code": "STROOP", "timer_seconds": 240},
		{"trait": "processing_speed", "game_code": "REACTION_TIME", "timer_seconds": 180},
	})
	v.SetDefault("scheduler.default_games", []string{"NBACK", "STROOP", "REACTION_TIME"})
	v.SetDefault("scheduler.default_timer_seconds", 300)

	// Integrity monitor defaults: per-event-type trigger counts over the
	// trailing window.
	v.SetDefault("integrity.window_minutes", 30)
	v.SetDefault("integrity.thresholds", []map[string]any{
		{"event_type": "WINDOW_BLUR", "threshold": 5, "severity": "MEDIUM"},
		{"event_type": "MULTIPLE_TABS", "threshold": 1, "severity": "HIGH"},
		{"event_type": "COPY_PASTE", "threshold": 3, "severity": "MEDIUM"},
		{"event_type": "RIGHT_CLICK", "threshold": 5, "severity": "LOW"},
		{"event_type": "DEV_TOOLS", "threshold": 1, "severity": "CRITICAL"},
		{"event_type": "TAB_SWITCH", "threshold": 3, "severity": "MEDIUM"},
	})
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("COGNIHIRE") // e.g., COGNIHIRE_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
