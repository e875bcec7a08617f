package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/venue-enhance/internal/metrics"
)

// Vision sends one photo plus a prompt to a Gemini model and returns the
// reply text. It satisfies angle.Vision.
type Vision struct {
	models *genai.Models
	model  string
}

// NewVision wraps client for model.
func NewVision(client *genai.Client, model string) *Vision {
	return &Vision{models: client.Models, model: model}
}

// Describe asks the model about image. JSON output is requested so the
// reply parses without fence stripping in the common case.
func (v *Vision) Describe(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
			{Text: prompt},
		},
	}}
	temperature := float32(0)
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	}

	start := time.Now()
	resp, err := v.models.GenerateContent(ctx, v.model, contents, cfg)
	elapsed := time.Since(start)

	m := metrics.New(metrics.Namespace).
		Dimension("Operation", "vision").
		Duration("GeminiApiLatencyMs", elapsed).
		Count("GeminiApiCalls")
	if err != nil {
		m.Count("GeminiApiErrors")
	}
	if resp != nil && resp.UsageMetadata != nil {
		m.Metric("GeminiInputTokens", float64(resp.UsageMetadata.PromptTokenCount), metrics.UnitCount)
		m.Metric("GeminiOutputTokens", float64(resp.UsageMetadata.CandidatesTokenCount), metrics.UnitCount)
	}
	m.Flush()

	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", providerError(err))
	}
	if resp == nil {
		return "", fmt.Errorf("vision model returned an empty response")
	}
	text := resp.Text()
	log.Debug().Int("responseLength", len(text)).Dur("duration", elapsed).Msg("Vision response received")
	return text, nil
}
