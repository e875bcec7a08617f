// Package config loads engine configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultVisionModel    = "gemini-2.5-flash"
	DefaultEditModel      = "imagen-3.0-capability-001"
	DefaultVertexLocation = "us-central1"
	DefaultAngleTimeout   = 6 * time.Second
	DefaultEnhanceTimeout = 60 * time.Second
	DefaultPollInterval   = time.Second
	DefaultPollAttempts   = 30
	DefaultPresignExpiry  = time.Hour

	DefaultGeminiKeyParam      = "/venue-enhance/prod/gemini-api-key"
	DefaultInstagramTokenParam = "/venue-enhance/prod/instagram-access-token"
	DefaultInstagramUserParam  = "/venue-enhance/prod/instagram-user-id"
)

// Feature names an optional capability whose credentials are checked by Require.
type Feature string

const (
	FeatureVision  Feature = "vision"
	FeatureEdit    Feature = "edit"
	FeatureStorage Feature = "storage"
	FeaturePublish Feature = "publish"
)

// ErrMissing is matched by every *Error via errors.Is.
var ErrMissing = errors.New("missing required configuration")

// Error reports configuration that a feature needs but that is absent.
// It is fatal for that feature and never worth retrying.
type Error struct {
	Feature Feature
	Missing []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration: %s requires %s", e.Feature, strings.Join(e.Missing, ", "))
}

func (e *Error) Is(target error) bool { return target == ErrMissing }

// Config holds every tunable of the engine and its adapters.
type Config struct {
	GeminiAPIKey string
	VisionModel  string

	VertexProject  string
	VertexLocation string
	EditModel      string

	MediaBucket   string
	PresignExpiry time.Duration
	OutputDir     string

	InstagramToken  string
	InstagramUserID string

	AngleTimeout   time.Duration
	EnhanceTimeout time.Duration
	PollInterval   time.Duration
	PollAttempts   int

	GeminiKeyParam      string
	InstagramTokenParam string
	InstagramUserParam  string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg := &Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		VisionModel:  getEnv("GEMINI_MODEL", DefaultVisionModel),

		VertexProject:  os.Getenv("VERTEX_PROJECT"),
		VertexLocation: getEnv("VERTEX_LOCATION", DefaultVertexLocation),
		EditModel:      getEnv("EDIT_MODEL", DefaultEditModel),

		MediaBucket:   os.Getenv("MEDIA_BUCKET_NAME"),
		PresignExpiry: getEnvDuration("PRESIGN_EXPIRY", DefaultPresignExpiry),
		OutputDir:     getEnv("ENHANCE_OUTPUT_DIR", "enhanced"),

		InstagramToken:  os.Getenv("INSTAGRAM_ACCESS_TOKEN"),
		InstagramUserID: os.Getenv("INSTAGRAM_USER_ID"),

		AngleTimeout:   getEnvDuration("ANGLE_TIMEOUT", DefaultAngleTimeout),
		EnhanceTimeout: getEnvDuration("ENHANCE_TIMEOUT", DefaultEnhanceTimeout),
		PollInterval:   getEnvDuration("PUBLISH_POLL_INTERVAL", DefaultPollInterval),
		PollAttempts:   getEnvInt("PUBLISH_POLL_ATTEMPTS", DefaultPollAttempts),

		GeminiKeyParam:      getEnv("SSM_API_KEY_PARAM", DefaultGeminiKeyParam),
		InstagramTokenParam: getEnv("SSM_INSTAGRAM_TOKEN_PARAM", DefaultInstagramTokenParam),
		InstagramUserParam:  getEnv("SSM_INSTAGRAM_USER_ID_PARAM", DefaultInstagramUserParam),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. Missing credentials are not an error here;
// use Require for the features a binary actually needs.
func (c *Config) Validate() error {
	if c.AngleTimeout <= 0 {
		return fmt.Errorf("ANGLE_TIMEOUT must be positive, got %s", c.AngleTimeout)
	}
	if c.EnhanceTimeout <= 0 {
		return fmt.Errorf("ENHANCE_TIMEOUT must be positive, got %s", c.EnhanceTimeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("PUBLISH_POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.PollAttempts <= 0 {
		return fmt.Errorf("PUBLISH_POLL_ATTEMPTS must be positive, got %d", c.PollAttempts)
	}
	return nil
}

// Require returns a *Error for the first feature whose settings are missing.
func (c *Config) Require(features ...Feature) error {
	for _, f := range features {
		if missing := c.missing(f); len(missing) > 0 {
			return &Error{Feature: f, Missing: missing}
		}
	}
	return nil
}

// Enabled reports whether f has everything it needs.
func (c *Config) Enabled(f Feature) bool {
	return len(c.missing(f)) == 0
}

func (c *Config) missing(f Feature) []string {
	var out []string
	switch f {
	case FeatureVision:
		if c.GeminiAPIKey == "" && c.VertexProject == "" {
			out = append(out, "GEMINI_API_KEY or VERTEX_PROJECT")
		}
	case FeatureEdit:
		if c.VertexProject == "" {
			out = append(out, "VERTEX_PROJECT")
		}
	case FeatureStorage:
		if c.MediaBucket == "" {
			out = append(out, "MEDIA_BUCKET_NAME")
		}
	case FeaturePublish:
		if c.InstagramToken == "" {
			out = append(out, "INSTAGRAM_ACCESS_TOKEN")
		}
		if c.InstagramUserID == "" {
			out = append(out, "INSTAGRAM_USER_ID")
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Int("default", def).Msg("Invalid integer, using default")
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return d
}
