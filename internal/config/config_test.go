package config

import (
	"errors"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "GEMINI_MODEL", "VERTEX_PROJECT", "VERTEX_LOCATION", "EDIT_MODEL",
		"MEDIA_BUCKET_NAME", "INSTAGRAM_ACCESS_TOKEN", "INSTAGRAM_USER_ID",
		"ANGLE_TIMEOUT", "ENHANCE_TIMEOUT", "PUBLISH_POLL_INTERVAL", "PUBLISH_POLL_ATTEMPTS",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AngleTimeout != 6*time.Second {
		t.Errorf("AngleTimeout = %s", cfg.AngleTimeout)
	}
	if cfg.EnhanceTimeout != 60*time.Second {
		t.Errorf("EnhanceTimeout = %s", cfg.EnhanceTimeout)
	}
	if cfg.PollInterval != time.Second || cfg.PollAttempts != 30 {
		t.Errorf("poll = %s x %d", cfg.PollInterval, cfg.PollAttempts)
	}
	if cfg.VisionModel != DefaultVisionModel || cfg.EditModel != DefaultEditModel {
		t.Errorf("models = %s, %s", cfg.VisionModel, cfg.EditModel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANGLE_TIMEOUT", "2s")
	t.Setenv("PUBLISH_POLL_ATTEMPTS", "5")
	t.Setenv("ENHANCE_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AngleTimeout != 2*time.Second {
		t.Errorf("AngleTimeout = %s", cfg.AngleTimeout)
	}
	if cfg.PollAttempts != 5 {
		t.Errorf("PollAttempts = %d", cfg.PollAttempts)
	}
	if cfg.EnhanceTimeout != DefaultEnhanceTimeout {
		t.Errorf("invalid duration should fall back, got %s", cfg.EnhanceTimeout)
	}
}

func TestLoad_RejectsNonPositive(t *testing.T) {
	clearEnv(t)
	t.Setenv("PUBLISH_POLL_ATTEMPTS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero poll attempts")
	}
}

func TestRequire(t *testing.T) {
	cfg := &Config{GeminiAPIKey: "key"}

	if err := cfg.Require(FeatureVision); err != nil {
		t.Errorf("vision should be satisfied by API key: %v", err)
	}

	err := cfg.Require(FeatureVision, FeaturePublish)
	var cfgErr *Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if cfgErr.Feature != FeaturePublish || len(cfgErr.Missing) != 2 {
		t.Errorf("unexpected error: %+v", cfgErr)
	}
	if !errors.Is(err, ErrMissing) {
		t.Error("expected errors.Is(err, ErrMissing)")
	}

	if cfg.Enabled(FeatureEdit) {
		t.Error("edit should be disabled without VERTEX_PROJECT")
	}
}
