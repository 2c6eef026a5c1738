package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds configuration for the studyplan server.
type ServerConfig struct {
	Addr      string `yaml:"addr"`       // Listen address (default ":8080")
	LogLevel  string `yaml:"log_level"`  // Log level: debug, info, warn, error
	LogFormat string `yaml:"log_format"` // Log format: text, json
	DBPath    string `yaml:"db_path"`    // SQLite database path (":memory:" for testing)

	// OpenAIKey enables the AI insight generator when set. Empty means the
	// local summarizer is used.
	OpenAIKey   string `yaml:"openai_key"`
	OpenAIModel string `yaml:"openai_model"`

	Engine EngineConfig `yaml:"engine"`
}

// EngineConfig holds the tunable constants of the scheduling engine.
// These are deployment configuration, not hardcoded literals.
type EngineConfig struct {
	// DailyCapacityMinutes is the workload capacity: total committed minutes
	// permitted per day before a workload conflict is raised.
	DailyCapacityMinutes int `yaml:"daily_capacity_minutes"`

	// SlotStepMinutes is the granularity of the alternative-slot scan.
	SlotStepMinutes int `yaml:"slot_step_minutes"`

	// MaxAlternativeSlots caps how many alternative slots are suggested.
	MaxAlternativeSlots int `yaml:"max_alternative_slots"`

	// SlotScanStartMinutes / SlotScanEndMinutes bound the alternative-slot
	// scan window (minutes since midnight).
	SlotScanStartMinutes int `yaml:"slot_scan_start_minutes"`
	SlotScanEndMinutes   int `yaml:"slot_scan_end_minutes"`

	// ConflictTTLSeconds bounds how long a detected conflict stays
	// resolvable before its cache entry expires.
	ConflictTTLSeconds int `yaml:"conflict_ttl_seconds"`
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        ":8080",
		LogLevel:    "info",
		LogFormat:   "text",
		OpenAIModel: "gpt-4o-mini",
		Engine:      DefaultEngineConfig(),
	}
}

// DefaultEngineConfig returns the documented engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DailyCapacityMinutes: 480,
		SlotStepMinutes:      30,
		MaxAlternativeSlots:  3,
		SlotScanStartMinutes: 6 * 60,
		SlotScanEndMinutes:   22 * 60,
		ConflictTTLSeconds:   1800,
	}
}

// Normalize fills zero values with defaults so a partially-populated
// config (e.g. a sparse YAML file) still yields a working engine.
func (c *EngineConfig) Normalize() {
	def := DefaultEngineConfig()
	if c.DailyCapacityMinutes <= 0 {
		c.DailyCapacityMinutes = def.DailyCapacityMinutes
	}
	if c.SlotStepMinutes <= 0 {
		c.SlotStepMinutes = def.SlotStepMinutes
	}
	if c.MaxAlternativeSlots <= 0 {
		c.MaxAlternativeSlots = def.MaxAlternativeSlots
	}
	if c.SlotScanStartMinutes <= 0 {
		c.SlotScanStartMinutes = def.SlotScanStartMinutes
	}
	if c.SlotScanEndMinutes <= 0 || c.SlotScanEndMinutes > 24*60 {
		c.SlotScanEndMinutes = def.SlotScanEndMinutes
	}
	if c.SlotScanEndMinutes <= c.SlotScanStartMinutes {
		c.SlotScanStartMinutes = def.SlotScanStartMinutes
		c.SlotScanEndMinutes = def.SlotScanEndMinutes
	}
	if c.ConflictTTLSeconds <= 0 {
		c.ConflictTTLSeconds = def.ConflictTTLSeconds
	}
}

// LoadFile reads a YAML config file on top of the defaults. Fields absent
// from the file keep their default values.
func LoadFile(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Engine.Normalize()
	return cfg, nil
}
