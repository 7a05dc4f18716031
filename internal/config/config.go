// Package config provides Viper-based configuration loading for the melee
// combat simulator.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/cory-johannsen/melee/internal/game/tuning"
)

// DatabaseConfig holds PostgreSQL connection settings for the combat log.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig locates the YAML and Lua content the simulator loads.
type ContentConfig struct {
	MonstersDir   string `mapstructure:"monsters_dir"`
	WeaponsDir    string `mapstructure:"weapons_dir"`
	ArmourDir     string `mapstructure:"armour_dir"`
	SpeciesDir    string `mapstructure:"species_dir"`
	ConditionsDir string `mapstructure:"conditions_dir"`
	ScriptsDir    string `mapstructure:"scripts_dir"`
	ArenasDir     string `mapstructure:"arenas_dir"`
	// AIDir holds the tactics domains that drive every combatant's turn.
	AIDir string `mapstructure:"ai_dir"`
}

// SimulationConfig controls a combat simulation run.
type SimulationConfig struct {
	// Seed drives the oracle. Zero means draw a fresh seed.
	Seed int64 `mapstructure:"seed"`
	// Rounds is the maximum number of rounds simulated.
	Rounds int `mapstructure:"rounds"`
	// ScriptInstructionLimit bounds every Lua melee-effect hook.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
	// Record persists every attack outcome to the combat log database.
	Record bool `mapstructure:"record"`
}

// Config is the top-level application configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Content    ContentConfig    `mapstructure:"content"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Combat     tuning.Tuning    `mapstructure:"combat"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Combat.Validate(); err != nil {
		errs = append(errs, strings.ReplaceAll(err.Error(), "\n", "; "))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	for key, dir := range map[string]string{
		"content.monsters_dir":   c.MonstersDir,
		"content.weapons_dir":    c.WeaponsDir,
		"content.conditions_dir": c.ConditionsDir,
		"content.arenas_dir":     c.ArenasDir,
		"content.ai_dir":         c.AIDir,
	} {
		if dir == "" {
			errs = append(errs, key+" must not be empty")
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Seed < 0 {
		errs = append(errs, fmt.Sprintf("simulation.seed must be >= 0, got %d", s.Seed))
	}
	if s.Rounds < 1 {
		errs = append(errs, fmt.Sprintf("simulation.rounds must be >= 1, got %d", s.Rounds))
	}
	if s.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("simulation.script_instruction_limit must be >= 0, got %d", s.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with MELEE_ prefix
	v.SetEnvPrefix("MELEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := setDefaults(v); err != nil {
		return Config{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
// Combat constants missing from v keep their tuning.Default values.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	cfg := Config{Combat: tuning.Default()}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) error {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "melee")
	v.SetDefault("database.password", "melee")
	v.SetDefault("database.name", "melee")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.monsters_dir", "content/monsters")
	v.SetDefault("content.weapons_dir", "content/weapons")
	v.SetDefault("content.armour_dir", "content/armour")
	v.SetDefault("content.species_dir", "content/species")
	v.SetDefault("content.conditions_dir", "content/conditions")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.arenas_dir", "content/arenas")
	v.SetDefault("content.ai_dir", "content/ai")

	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.rounds", 20)
	v.SetDefault("simulation.script_instruction_limit", 100000)
	v.SetDefault("simulation.record", false)

	// Register every combat constant so MELEE_COMBAT_* env overrides resolve.
	var combat map[string]any
	if err := mapstructure.Decode(tuning.Default(), &combat); err != nil {
		return fmt.Errorf("flattening combat defaults: %w", err)
	}
	setNestedDefaults(v, "combat", combat)
	return nil
}

func setNestedDefaults(v *viper.Viper, prefix string, values map[string]any) {
	for k, val := range values {
		key := prefix + "." + k
		if sub, ok := val.(map[string]any); ok {
			setNestedDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}
