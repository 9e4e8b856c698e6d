// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/mesdesk/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete mesdesk configuration.
type Config struct {
	// API connection settings
	API APIConfig `toml:"api" json:"api"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Logging and audit configuration
	Logging LoggingConfig `toml:"logging" json:"logging"`

	// Local storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`
}

// APIConfig describes how to reach the MES API.
type APIConfig struct {
	BaseURL     string `toml:"base_url" json:"base_url"`
	LoginPath   string `toml:"login_path" json:"login_path"`
	LogoutPath  string `toml:"logout_path" json:"logout_path"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs"`
	UserAgent   string `toml:"user_agent" json:"user_agent"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	Theme     string `toml:"theme" json:"theme"`           // "auto", "dark" or "light"
	StartMenu string `toml:"start_menu" json:"start_menu"` // primary menu shown after login
	ShowHints bool   `toml:"show_hints" json:"show_hints"`
}

// LoggingConfig controls the operational log and the audit log.
type LoggingConfig struct {
	LogFile        string `toml:"log_file" json:"log_file"`
	AuditEnabled   bool   `toml:"audit_enabled" json:"audit_enabled"`
	AuditLogPath   string `toml:"audit_log_path" json:"audit_log_path"`
	AuditMaxSizeMB int    `toml:"audit_max_size_mb" json:"audit_max_size_mb"` // rotate above this size
}

// StorageConfig controls the local sign-in history.
type StorageConfig struct {
	HistoryEnabled bool   `toml:"history_enabled" json:"history_enabled"`
	HistoryPath    string `toml:"history_path" json:"history_path"`
}

// Accepted values for enumerated settings.
var (
	ValidThemes     = []string{"auto", "dark", "light"}
	ValidStartMenus = []string{"dashboard", "production", "inventory", "quality", "settings"}
)

// Timeout bounds, in seconds.
const (
	MinTimeoutSecs = 1
	MaxTimeoutSecs = 300
)

// MaxAuditSizeMB bounds logging.audit_max_size_mb.
const MaxAuditSizeMB = 1024

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://127.0.0.1:8080",
			LoginPath:   "/api/auth/login",
			LogoutPath:  "/api/auth/logout",
			TimeoutSecs: 30,
			UserAgent:   "mesdesk/1.0",
		},
		UI: UIConfig{
			Theme:     "auto",
			StartMenu: "dashboard",
			ShowHints: true,
		},
		Logging: LoggingConfig{
			AuditEnabled:   true,
			AuditMaxSizeMB: 10,
		},
		Storage: StorageConfig{
			HistoryEnabled: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDirEnv names the variable that relocates the configuration
// directory.
const ConfigDirEnv = "MESDESK_CONFIG_DIR"

// ConfigDir returns the mesdesk configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".mesdesk"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions tightens config file permissions to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env")
// into the process environment. Variables already set are kept, and
// missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
//
// A file that exists but cannot be decoded is reported alongside the
// defaults, so callers can warn and continue.
func Load() (*Config, error) {
	var loadErr error

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			cfg, err := LoadFromPath(tomlPath)
			if err == nil {
				return cfg, nil
			}
			loadErr = err
		}
	}

	if loadErr == nil {
		if jsonPath, err := ConfigPathJSON(); err == nil {
			if _, statErr := os.Stat(jsonPath); statErr == nil {
				cfg, err := LoadFromPath(jsonPath)
				if err == nil {
					return cfg, nil
				}
				loadErr = err
			}
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadTOML decodes a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Values missing from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# mesdesk configuration file\n")
	buf.WriteString("# Generated by mesdesk - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// UPDATE
// =============================================================================

// LoadFile reads the configuration file as written, without environment
// overrides or derived paths. Without a file it returns Default().
func LoadFile() (*Config, error) {
	cfg := Default()

	if path, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, err
			}
			return cfg, nil
		}
	}
	if path, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadJSON(cfg, path); err != nil {
				return nil, err
			}
			return cfg, nil
		}
	}
	return cfg, nil
}

// Update applies change to the configuration file and saves it as TOML.
// The result is validated with defaults filled in, but only what the file
// held plus the change is written back.
func Update(change func(*Config) error) error {
	cfg, err := LoadFile()
	if err != nil {
		return err
	}
	if err := change(cfg); err != nil {
		return err
	}

	check := cfg.Clone()
	check.SetDefaults()
	if err := check.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return Save(cfg)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// API
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.API.BaseURL),
		})
	}
	for field, path := range map[string]string{
		"api.login_path":  c.API.LoginPath,
		"api.logout_path": c.API.LogoutPath,
	} {
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("path '%s' must start with /", path),
			})
		}
	}
	if c.API.TimeoutSecs < MinTimeoutSecs || c.API.TimeoutSecs > MaxTimeoutSecs {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("timeout %d out of range, must be %d-%d seconds", c.API.TimeoutSecs, MinTimeoutSecs, MaxTimeoutSecs),
		})
	}

	// UI
	if !contains(ValidThemes, strings.ToLower(c.UI.Theme)) {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: %s", c.UI.Theme, strings.Join(ValidThemes, ", ")),
		})
	}
	if !contains(ValidStartMenus, strings.ToLower(c.UI.StartMenu)) {
		errs = append(errs, ValidationError{
			Field:   "ui.start_menu",
			Message: fmt.Sprintf("invalid menu '%s', must be one of: %s", c.UI.StartMenu, strings.Join(ValidStartMenus, ", ")),
		})
	}

	// Logging
	if c.Logging.AuditMaxSizeMB < 1 || c.Logging.AuditMaxSizeMB > MaxAuditSizeMB {
		errs = append(errs, ValidationError{
			Field:   "logging.audit_max_size_mb",
			Message: fmt.Sprintf("size %d out of range, must be 1-%d MB", c.Logging.AuditMaxSizeMB, MaxAuditSizeMB),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero-value fields with defaults and derives file paths
// from the config directory.
func (c *Config) SetDefaults() {
	d := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	c.API.BaseURL = strings.TrimSuffix(c.API.BaseURL, "/")
	if c.API.LoginPath == "" {
		c.API.LoginPath = d.API.LoginPath
	}
	if c.API.LogoutPath == "" {
		c.API.LogoutPath = d.API.LogoutPath
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = d.API.TimeoutSecs
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = d.API.UserAgent
	}

	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)
	if c.UI.StartMenu == "" {
		c.UI.StartMenu = d.UI.StartMenu
	}
	c.UI.StartMenu = strings.ToLower(c.UI.StartMenu)

	if c.Logging.AuditMaxSizeMB == 0 {
		c.Logging.AuditMaxSizeMB = d.Logging.AuditMaxSizeMB
	}

	dir, err := ConfigDir()
	if err != nil {
		dir = "."
	}
	if c.Logging.LogFile == "" {
		c.Logging.LogFile = filepath.Join(dir, "mesdesk.log")
	}
	if c.Logging.AuditLogPath == "" {
		c.Logging.AuditLogPath = filepath.Join(dir, "audit.log")
	}
	if c.Storage.HistoryPath == "" {
		c.Storage.HistoryPath = filepath.Join(dir, "history.db")
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - MESDESK_API_URL: overrides api.base_url
//   - MESDESK_TIMEOUT_SECS: overrides api.timeout_secs
//   - MESDESK_THEME: overrides ui.theme
//   - MESDESK_LOG_FILE: overrides logging.log_file
//   - MESDESK_AUDIT: "1"/"true" or "0"/"false" toggles logging.audit_enabled
//   - MESDESK_HISTORY: toggles storage.history_enabled
//   - MESDESK_HISTORY_PATH: overrides storage.history_path
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("MESDESK_API_URL"); v != "" {
		c.API.BaseURL = v
	}

	if v := os.Getenv("MESDESK_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSecs = secs
		}
	}

	if v := os.Getenv("MESDESK_THEME"); v != "" {
		c.UI.Theme = v
	}

	if v := os.Getenv("MESDESK_LOG_FILE"); v != "" {
		c.Logging.LogFile = v
	}

	if v := os.Getenv("MESDESK_AUDIT"); v != "" {
		c.Logging.AuditEnabled = parseBool(v)
	}

	if v := os.Getenv("MESDESK_HISTORY"); v != "" {
		c.Storage.HistoryEnabled = parseBool(v)
	}

	if v := os.Getenv("MESDESK_HISTORY_PATH"); v != "" {
		c.Storage.HistoryPath = v
	}
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks the dotted key through nested structs.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section, not a value", key)
			}
			return field, nil
		}

		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go
// field name. "base_url" becomes "BaseUrl", which matches BaseURL
// case-insensitively.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"api.base_url",
		"api.login_path",
		"api.logout_path",
		"api.timeout_secs",
		"api.user_agent",
		"ui.theme",
		"ui.start_menu",
		"ui.show_hints",
		"logging.log_file",
		"logging.audit_enabled",
		"logging.audit_log_path",
		"logging.audit_max_size_mb",
		"storage.history_enabled",
		"storage.history_path",
	}
}

// Clone creates a copy of the configuration. Config holds only value
// fields, so a shallow copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the configuration as TOML for display.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
