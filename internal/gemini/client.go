// Package gemini adapts the Google GenAI SDK to the engine: Gemini vision
// for angle classification and Imagen mask-based editing on Vertex AI.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/venue-enhance/internal/config"
	"github.com/fpang/venue-enhance/internal/edit"
)

// NewVisionClient creates a GenAI client for the vision model. An API key
// selects the Gemini Developer API; otherwise Vertex AI with application
// default credentials is used.
func NewVisionClient(ctx context.Context, cfg *config.Config) (*genai.Client, error) {
	if err := cfg.Require(config.FeatureVision); err != nil {
		return nil, err
	}
	cc := &genai.ClientConfig{APIKey: cfg.GeminiAPIKey, Backend: genai.BackendGeminiAPI}
	if cfg.GeminiAPIKey == "" {
		cc = vertexConfig(cfg)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	log.Debug().Str("backend", backendName(cc.Backend)).Str("model", cfg.VisionModel).Msg("Vision client created")
	return client, nil
}

// NewEditClient creates a Vertex AI client. Imagen editing is not offered
// on the Gemini Developer API.
func NewEditClient(ctx context.Context, cfg *config.Config) (*genai.Client, error) {
	if err := cfg.Require(config.FeatureEdit); err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, vertexConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create edit client: %w", err)
	}
	log.Debug().Str("project", cfg.VertexProject).Str("location", cfg.VertexLocation).Msg("Edit client created")
	return client, nil
}

func vertexConfig(cfg *config.Config) *genai.ClientConfig {
	return &genai.ClientConfig{
		Project:  cfg.VertexProject,
		Location: cfg.VertexLocation,
		Backend:  genai.BackendVertexAI,
	}
}

func backendName(b genai.Backend) string {
	if b == genai.BackendVertexAI {
		return "vertex"
	}
	return "gemini-api"
}

// providerError converts a GenAI API error into the status-carrying error
// the edit package classifies. Other errors pass through unchanged.
func providerError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return &edit.ProviderError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	return err
}
