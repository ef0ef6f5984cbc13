package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.AccessURLBase != "https://safeguard.local" {
		t.Errorf("AccessURLBase = %q, want default", cfg.AccessURLBase)
	}
	if cfg.SessionTTL != "24h" {
		t.Errorf("SessionTTL = %q, want %q", cfg.SessionTTL, "24h")
	}
	if cfg.EmergencyTimeoutSeconds != 1800 {
		t.Errorf("EmergencyTimeoutSeconds = %d, want 1800", cfg.EmergencyTimeoutSeconds)
	}
	if cfg.AlertKafkaTopic != "safeguard-alerts" {
		t.Errorf("AlertKafkaTopic = %q, want default", cfg.AlertKafkaTopic)
	}
	if cfg.KafkaGroupID != "safeguard-delivery-worker" {
		t.Errorf("KafkaGroupID = %q, want default", cfg.KafkaGroupID)
	}
	if cfg.SilentMode {
		t.Error("SilentMode should default to false")
	}
	if !cfg.BackgroundLocation {
		t.Error("BackgroundLocation should default to true")
	}
	if !cfg.AIMonitoring {
		t.Error("AIMonitoring should default to true")
	}
	if !cfg.AutoRecord {
		t.Error("AutoRecord should default to true")
	}
	if cfg.AutoStartTracking {
		t.Error("AutoStartTracking should default to false")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("SESSION_TTL", "1h")
	os.Setenv("SILENT_MODE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.SessionTTL != "1h" {
		t.Errorf("SessionTTL = %q, want %q", cfg.SessionTTL, "1h")
	}
	if !cfg.SilentMode {
		t.Error("SilentMode should be true")
	}
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	os.Clearenv()
	os.Setenv("EMERGENCY_TIMEOUT_SECONDS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject EMERGENCY_TIMEOUT_SECONDS=0")
	}
}

func TestSessionLifetime(t *testing.T) {
	cases := []struct {
		ttl  string
		want time.Duration
	}{
		{"24h", 24 * time.Hour},
		{"90m", 90 * time.Minute},
		{"", 24 * time.Hour},
		{"bogus", 24 * time.Hour},
		{"-1h", 24 * time.Hour},
	}
	for _, tc := range cases {
		cfg := &Config{SessionTTL: tc.ttl}
		if got := cfg.SessionLifetime(); got != tc.want {
			t.Errorf("SessionLifetime(%q) = %v, want %v", tc.ttl, got, tc.want)
		}
	}
}

func TestAlertKafkaBrokersList(t *testing.T) {
	cfg := &Config{AlertKafkaBrokers: "localhost:9092, broker2:9092 ,"}
	got := cfg.AlertKafkaBrokersList()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != "localhost:9092" || got[1] != "broker2:9092" {
		t.Errorf("brokers = %v", got)
	}

	empty := &Config{}
	if list := empty.AlertKafkaBrokersList(); list != nil {
		t.Errorf("empty brokers = %v, want nil", list)
	}
}
