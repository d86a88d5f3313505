package config

import (
	"fmt"
	"net"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true,
	"error": true, "disabled": true, "off": true,
}

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateSandbox(config)...)
	validationErrors = append(validationErrors, validateBridge(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	if !validLogLevels[config.Logging.Level] {
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level %q is not a known level", config.Logging.Level))
	}
	if config.Logging.MaxSizeMB < 0 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be non-negative")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	if config.Logging.MaxAgeDays < 0 {
		validationErrors = append(validationErrors, "logging.max_age_days must be non-negative")
	}
	return validationErrors
}

func validateSandbox(config *Config) []string {
	var validationErrors []string
	s := config.Sandbox
	if s.MaxConcurrentSchemeRequests < 1 {
		validationErrors = append(validationErrors, "sandbox.max_concurrent_scheme_requests must be at least 1")
	}
	if s.CloseDelayMs < 0 {
		validationErrors = append(validationErrors, "sandbox.close_delay_ms must be non-negative")
	}
	if s.WindowWidth <= 0 || s.WindowHeight <= 0 {
		validationErrors = append(validationErrors, "sandbox.window_width and sandbox.window_height must be positive")
	}
	return validationErrors
}

func validateBridge(config *Config) []string {
	var validationErrors []string
	for _, o := range config.Bridge.AllowedOrigins {
		if o == "*" || !strings.Contains(o, "://") {
			validationErrors = append(validationErrors, fmt.Sprintf("bridge.allowed_origins %q must be a scheme://host origin", o))
		}
	}
	if config.Bridge.Listen == "" {
		return validationErrors
	}
	host, _, err := net.SplitHostPort(config.Bridge.Listen)
	if err != nil {
		return append(validationErrors, fmt.Sprintf("bridge.listen %q: %v", config.Bridge.Listen, err))
	}
	ip := net.ParseIP(host)
	if host != "localhost" && (ip == nil || !ip.IsLoopback()) {
		return append(validationErrors, fmt.Sprintf("bridge.listen %q must be a loopback address", config.Bridge.Listen))
	}
	return validationErrors
}
