// Package engine is the public facade over angle classification, prompt
// composition, style validation and the edit orchestrator. Every surface
// (HTTP, CLI, MCP) goes through an *Engine.
package engine

import (
	"context"
	"time"

	"github.com/fpang/venue-enhance/internal/angle"
	"github.com/fpang/venue-enhance/internal/config"
	"github.com/fpang/venue-enhance/internal/edit"
	"github.com/fpang/venue-enhance/internal/facet"
	"github.com/fpang/venue-enhance/internal/photo"
	"github.com/fpang/venue-enhance/internal/storage"
	"github.com/fpang/venue-enhance/internal/style"
	"github.com/fpang/venue-enhance/internal/venue"
)

// Deps are the external collaborators. Any may be nil; the operations that
// need a missing one degrade (vision) or fail with a configuration error.
type Deps struct {
	Vision    angle.Vision
	Provider  edit.Provider
	Publisher edit.Publisher
	Sink      storage.Sink
	// Clock drives publish polling; nil uses the wall clock.
	Clock edit.Clock
}

// Engine is safe for concurrent use. It holds only immutable wiring.
type Engine struct {
	classifier     *angle.Classifier
	editor         *edit.Orchestrator
	sink           storage.Sink
	enhanceTimeout time.Duration
}

// New wires an Engine from cfg. A nil cfg uses the built-in defaults.
func New(cfg *config.Config, deps Deps) *Engine {
	angleTimeout := config.DefaultAngleTimeout
	enhanceTimeout := config.DefaultEnhanceTimeout
	editCfg := edit.Config{Clock: deps.Clock}
	if cfg != nil {
		angleTimeout = cfg.AngleTimeout
		enhanceTimeout = cfg.EnhanceTimeout
		editCfg.PollInterval = cfg.PollInterval
		editCfg.PollAttempts = cfg.PollAttempts
	}

	return &Engine{
		classifier:     angle.New(deps.Vision,
			angle.WithTimeout(angleTimeout),
			angle.WithHints(photo.Hint),
			angle.WithPreview(photo.VisionPreview),
		),
		editor:         edit.New(deps.Provider, deps.Publisher, editCfg),
		sink:           deps.Sink,
		enhanceTimeout: enhanceTimeout,
	}
}

// DetectAngle classifies the camera angle of image. The vision model sees a
// downscaled preview while photo hints come from the original bytes; the
// whole step, preview included, is bounded by the angle timeout. The result
// is never an error.
func (e *Engine) DetectAngle(ctx context.Context, image []byte, mimeType string) angle.Result {
	return e.classifier.Classify(ctx, image, mimeType)
}

// BuildEnhancementPrompt composes the venue instruction for bucket (physics
// block first) followed by the technical facet block. When tech leaves the
// angle facet unset it follows bucket, so the lens and aperture agree with
// the physics block.
func BuildEnhancementPrompt(venueID string, bucket angle.Bucket, tech *facet.Selection, foodTag string) string {
	var sel facet.Selection
	if tech != nil {
		sel = *tech
	}
	if sel.Angle == "" {
		sel.Angle = facet.AngleForBucket(bucket)
	}
	return venue.ComposeInstruction(venueID, bucket) + "\n\n" + facet.Compose(&sel, foodTag)
}

// BuildEnhancementPrompt is the method form of the package function.
func (e *Engine) BuildEnhancementPrompt(venueID string, bucket angle.Bucket, tech *facet.Selection, foodTag string) string {
	return BuildEnhancementPrompt(venueID, bucket, tech, foodTag)
}

// Validation is the outcome of a style check.
type Validation struct {
	Warnings []style.Warning `json:"warnings"`
	Status   style.Status    `json:"status"`
}

// ValidateStyleSelection checks sel against the compatibility tables.
func ValidateStyleSelection(sel style.Selection) Validation {
	w := style.Validate(sel)
	if w == nil {
		w = []style.Warning{}
	}
	return Validation{Warnings: w, Status: style.SelectionStatus(w)}
}

// ValidateAdvancedSelection checks a multi-select pick, including blocked pairs.
func ValidateAdvancedSelection(sel style.MultiSelection) Validation {
	w := style.ValidateAdvanced(sel)
	if w == nil {
		w = []style.Warning{}
	}
	return Validation{Warnings: w, Status: style.SelectionStatus(w)}
}

// RunEdit performs one provider edit, bounded by ctx and the enhancement timeout.
func (e *Engine) RunEdit(ctx context.Context, img edit.Image, prompt string, opts edit.Options) (*edit.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.enhanceTimeout)
	defer cancel()
	return e.editor.Run(ctx, img, prompt, opts)
}

// Publish runs the container protocol for an already stored image.
func (e *Engine) Publish(ctx context.Context, imageURL, caption string) (*edit.PublishResult, error) {
	return e.editor.Publish(ctx, imageURL, caption)
}

// VenueSummary is the listing form of a venue style.
type VenueSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListVenues returns every known venue, sorted by ID.
func ListVenues() []VenueSummary {
	all := venue.All()
	out := make([]VenueSummary, 0, len(all))
	for _, s := range all {
		out = append(out, VenueSummary{ID: s.ID, Name: s.Name, Description: s.Description})
	}
	return out
}

// EnhanceTimeout is the overall bound applied by Enhance and RunEdit.
func (e *Engine) EnhanceTimeout() time.Duration { return e.enhanceTimeout }

// PublishBound reports how long a publish may spend polling.
func (e *Engine) PublishBound() time.Duration { return e.editor.PublishBound() }
