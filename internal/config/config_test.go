package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("strip:\n  leds: 30\n"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Strip.Leds != 30 {
		t.Errorf("leds = %d", cfg.Strip.Leds)
	}
	if cfg.Strip.StrobeOn.Duration() != 50*time.Millisecond || cfg.Strip.StrobeOff.Duration() != 450*time.Millisecond {
		t.Errorf("strobe = %v/%v", cfg.Strip.StrobeOn.Duration(), cfg.Strip.StrobeOff.Duration())
	}
	if cfg.Webhook.Port != 8080 || cfg.Webhook.RequestTimeout.Duration() != 2*time.Second {
		t.Errorf("webhook = %+v", cfg.Webhook)
	}
	if len(cfg.Output.Kinds) != 1 || cfg.Output.Kinds[0] != "log" {
		t.Errorf("output kinds = %v", cfg.Output.Kinds)
	}
	if cfg.Journal.Retention() != 30*24*time.Hour {
		t.Errorf("retention = %v", cfg.Journal.Retention())
	}
	if cfg.GetShutdownTimeout() != 5*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.GetShutdownTimeout())
	}
	if cfg.Healthcheck.GetPort() != 9090 || cfg.Healthcheck.GetHost() != "0.0.0.0" {
		t.Errorf("healthcheck = %+v", cfg.Healthcheck)
	}
}

func TestParse_ExpandsVariables(t *testing.T) {
	t.Setenv("TEST_STRIP_DB", "/var/lib/strip.db")

	cfg, err := Parse([]byte(`
storage:
  path: ${TEST_STRIP_DB}
output:
  opc_address: ${TEST_STRIP_OPC:localhost:7890}
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Path != "/var/lib/strip.db" {
		t.Errorf("path = %q", cfg.Storage.Path)
	}
	if cfg.Output.OPCAddress != "localhost:7890" {
		t.Errorf("opc address = %q", cfg.Output.OPCAddress)
	}
}

func TestParse_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STRIPD_LEDS", "144")
	t.Setenv("STRIPD_OUTPUTS", "log,opc")
	t.Setenv("STRIPD_LOOP_INTERVAL", "5ms")
	t.Setenv("STRIPD_LOG_JSON", "true")

	cfg, err := Parse([]byte(`
strip:
  leds: 30
webhook:
  port: 8000
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Strip.Leds != 144 {
		t.Errorf("leds = %d, want 144", cfg.Strip.Leds)
	}
	if len(cfg.Output.Kinds) != 2 || cfg.Output.Kinds[1] != "opc" {
		t.Errorf("outputs = %v", cfg.Output.Kinds)
	}
	if cfg.Strip.LoopInterval.Duration() != 5*time.Millisecond {
		t.Errorf("loop interval = %v", cfg.Strip.LoopInterval.Duration())
	}
	if !cfg.Log.UseJSON {
		t.Error("log json override not applied")
	}
	if cfg.Webhook.Port != 8000 {
		t.Errorf("unset override replaced file value: port = %d", cfg.Webhook.Port)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative_leds", "strip:\n  leds: -1\n"},
		{"bad_duration", "strip:\n  strobe_on: fast\n"},
		{"negative_rate", "webhook:\n  rate_limit_rps: -2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() error = nil")
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("strip:\n  leds: 12\n  name: porch\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Strip.Leds != 12 || cfg.Strip.Name != "porch" {
		t.Errorf("strip = %+v", cfg.Strip)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}
