package main

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.Addr)
	}
	if cfg.DBDriver != "" {
		t.Errorf("telemetry should be off by default, got driver %q", cfg.DBDriver)
	}
	if cfg.Seed == 0 {
		t.Error("a zero seed should be replaced")
	}
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("ADDR", ":7000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BOTS", "3")

	cfg, err := LoadConfig([]string{"-addr", ":9000", "-seed", "42", "-db-driver", "sqlite"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("flag should win over env, got %s", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level from env, got %s", cfg.LogLevel)
	}
	if cfg.Bots != 3 {
		t.Errorf("expected 3 bots from env, got %d", cfg.Bots)
	}
	if cfg.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Seed)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("expected sqlite driver, got %q", cfg.DBDriver)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	if _, err := LoadConfig([]string{"-db-driver", "mongo"}); err == nil {
		t.Error("expected an error for an unsupported driver")
	}
}

func TestLoadConfigBadFlag(t *testing.T) {
	if _, err := LoadConfig([]string{"-no-such-flag"}); err == nil {
		t.Error("expected an error for an unknown flag")
	}
}
