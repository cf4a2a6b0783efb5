// Package config loads the process configuration from environment variables
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Environment is the deployment environment the process runs in
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

// String implements fmt.Stringer
func (e Environment) String() string {
	return string(e)
}

// ParseEnvironment accepts the short names and their long forms
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	}
	return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", s)
}

// Source modes accepted by SOURCE_MODE
const (
	SourceModeHTTP = "http"
	SourceModeFile = "file"
)

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               Environment
	LogLevel          string
	LogDir            string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxRequestBody    int64 // Maximum request body size in bytes

	SourceMode          string // http or file
	BDPMBaseURL         string
	DataDir             string
	ANSMFile            string // Optional ANSM CSV export used for enrichment
	ANSMKeyColumn       string
	HealthCheckInterval time.Duration
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	env, err := ParseEnvironment(getEnvWithDefault("ENV", "dev"))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid ENV: %w", err)
	}

	cfg := &Config{
		Port:                getEnvWithDefault("PORT", "8000"),
		Address:             getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:                 env,
		LogLevel:            strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogDir:              getEnvWithDefault("LOG_DIR", "logs"),
		LogRetentionWeeks:   getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),      // 4 weeks default
		MaxRequestBody:      getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576), // 1MB default
		SourceMode:          strings.ToLower(getEnvWithDefault("SOURCE_MODE", SourceModeHTTP)),
		BDPMBaseURL:         getEnvWithDefault("BDPM_BASE_URL", "https://base-donnees-publique.medicaments.gouv.fr/download/file/"),
		DataDir:             getEnvWithDefault("DATA_DIR", "data"),
		ANSMFile:            os.Getenv("ANSM_FILE"),
		ANSMKeyColumn:       getEnvWithDefault("ANSM_KEY_COLUMN", "specid"),
		HealthCheckInterval: getDurationEnvWithDefault("HEALTH_CHECK_INTERVAL", time.Hour),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateSource(cfg); err != nil {
		return fmt.Errorf("invalid SOURCE_MODE: %w", err)
	}

	if cfg.ANSMKeyColumn == "" {
		return fmt.Errorf("invalid ANSM_KEY_COLUMN: cannot be empty")
	}

	if cfg.HealthCheckInterval < time.Minute {
		return fmt.Errorf("invalid HEALTH_CHECK_INTERVAL: must be at least 1m, got: %s", cfg.HealthCheckInterval)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Check for privileged ports
	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	// The health surface is internal, only private ranges are accepted
	if !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env Environment) error {
	if env == "" {
		return fmt.Errorf("ENV cannot be empty")
	}

	validEnvs := []Environment{EnvDevelopment, EnvStaging, EnvProduction, EnvTest}
	if slices.Contains(validEnvs, env) {
		return nil
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if slices.Contains(validLevels, strings.ToLower(logLevel)) {
		return nil
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 { // 1 year maximum
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateSource checks that the selected source mode has what it needs
func validateSource(cfg *Config) error {
	switch cfg.SourceMode {
	case SourceModeHTTP:
		u, err := url.Parse(cfg.BDPMBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("BDPM_BASE_URL must be an absolute http(s) URL, got: %s", cfg.BDPMBaseURL)
		}
	case SourceModeFile:
		if cfg.DataDir == "" {
			return fmt.Errorf("DATA_DIR cannot be empty in file mode")
		}
	default:
		return fmt.Errorf("SOURCE_MODE must be one of: [%s %s], got: %s", SourceModeHTTP, SourceModeFile, cfg.SourceMode)
	}
	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnvWithDefault gets an environment variable as a duration (1h, 30m) with a default value
func getDurationEnvWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_DIR",
		"LOG_RETENTION_WEEKS",
		"MAX_REQUEST_BODY",
		"SOURCE_MODE",
		"BDPM_BASE_URL",
		"DATA_DIR",
		"ANSM_FILE",
		"ANSM_KEY_COLUMN",
		"HEALTH_CHECK_INTERVAL",
	}
}
