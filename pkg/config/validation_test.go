package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_InvalidAPIPort(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.ControlPlane.Port = 70000

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for port out of range")
	}
	if !strings.Contains(err.Error(), "max") {
		t.Errorf("Expected 'max' validation error, got: %v", err)
	}
}

func TestValidate_LeaseTooShort(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.State.LeaseTime = 10 * time.Millisecond

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for sub-second lease")
	}
	if !strings.Contains(err.Error(), "LeaseTime") {
		t.Errorf("Expected error to name LeaseTime, got: %v", err)
	}
}

func TestValidate_MaxSessions(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.State.MaxSessions = -1

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for negative max sessions")
	}
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.ControlPlane.JWT.Secret = "short"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for short JWT secret")
	}

	cfg.ControlPlane.JWT.Secret = strings.Repeat("s", 32)
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected 32-character secret to pass, got: %v", err)
	}
}

func TestValidate_MetricsPortConflict(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = cfg.ControlPlane.Port

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for conflicting ports")
	}
	if !strings.Contains(err.Error(), "metrics.port") {
		t.Errorf("Expected error about metrics.port, got: %v", err)
	}

	cfg.Metrics.Enabled = false
	if err := Validate(cfg); err != nil {
		t.Errorf("Disabled metrics should not conflict, got: %v", err)
	}
}

func TestValidate_LogLevelNormalization(t *testing.T) {
	for _, level := range []string{"info", "INFO", "debug", "DEBUG", "warn", "WARN", "error", "ERROR"} {
		cfg := GetDefaultConfig()
		cfg.Logging.Level = level

		if err := Validate(cfg); err != nil {
			t.Errorf("Validation failed for level %q: %v", level, err)
		}
		if cfg.Logging.Level != level {
			t.Errorf("Expected level to remain %q after validation, got %q", level, cfg.Logging.Level)
		}
	}
}

func TestValidate_Telemetry(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.SampleRate = 1.5
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "SampleRate") {
		t.Errorf("Expected sample rate validation error, got: %v", err)
	}

	cfg = GetDefaultConfig()
	cfg.Telemetry.Profiling.ProfileTypes = []string{"cpu", "heap"}
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for unknown profile type")
	}
}
