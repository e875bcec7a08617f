// Package edit drives a mask-based image-editing provider and, for
// publishers that process media asynchronously, the create, poll and
// publish container protocol. Nothing here retries automatically: every
// provider call may be billed, so retry is the caller's decision.
package edit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/venue-enhance/internal/metrics"
)

// Mode selects the provider's edit operation.
type Mode string

const (
	ModeInsertion Mode = "inpaint_insertion"
	ModeRemoval   Mode = "inpaint_removal"
	ModeOutpaint  Mode = "outpaint"
)

// MaskMode tells the provider how to compute the editable region itself.
type MaskMode string

const (
	MaskBackground MaskMode = "background"
	MaskForeground MaskMode = "foreground"
	MaskSemantic   MaskMode = "semantic"
)

// Step defaults per mode. Insertion needs more denoising steps to converge
// on new content than removal or canvas extension do.
const (
	InsertionSteps = 35
	RemovalSteps   = 12
)

// DefaultSteps returns the base step count for mode.
func DefaultSteps(mode Mode) int {
	if mode == ModeInsertion {
		return InsertionSteps
	}
	return RemovalSteps
}

// ParseMode accepts the wire names plus the short forms "insert", "remove", "outpaint".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inpaint_insertion", "insertion", "insert":
		return ModeInsertion, nil
	case "inpaint_removal", "removal", "remove":
		return ModeRemoval, nil
	case "outpaint", "outpainting", "extend":
		return ModeOutpaint, nil
	}
	return "", fmt.Errorf("unknown edit mode %q", s)
}

// ParseMaskMode accepts background, foreground and semantic; empty means background.
func ParseMaskMode(s string) (MaskMode, error) {
	switch MaskMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MaskBackground:
		return MaskBackground, nil
	case MaskForeground:
		return MaskForeground, nil
	case MaskSemantic:
		return MaskSemantic, nil
	}
	return "", fmt.Errorf("unknown mask mode %q", s)
}

// Image is encoded image bytes with their MIME type.
type Image struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mimeType"`
}

// Options are the caller-facing knobs of one edit.
type Options struct {
	Mode        Mode     `json:"editMode,omitempty"`
	MaskMode    MaskMode `json:"maskMode,omitempty"`
	AspectRatio string   `json:"aspectRatio,omitempty"`
	// Steps overrides DefaultSteps when positive.
	Steps int `json:"steps,omitempty"`
	// SegmentationClasses narrows a semantic mask to provider class IDs.
	SegmentationClasses []int `json:"segmentationClasses,omitempty"`
}

// MaskConfig is the mask-configuration reference: no mask pixels are sent,
// the provider derives the mask from Mode.
type MaskConfig struct {
	Mode                MaskMode
	SegmentationClasses []int
}

// Request is what a Provider receives: exactly one raw reference image and
// one mask configuration.
type Request struct {
	Prompt      string
	Reference   Image
	Mask        MaskConfig
	Mode        Mode
	Steps       int
	AspectRatio string
}

// Provider is a mask-based image editor.
type Provider interface {
	Edit(ctx context.Context, req Request) (*Image, error)
}

// JobStatus is the lifecycle of a Job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in_progress"
	JobFinished   JobStatus = "finished"
	JobError      JobStatus = "error"
	JobTimedOut   JobStatus = "timed_out"
)

// Job is the working state of one edit or publish request. It lives only
// until the request reaches a terminal status.
type Job struct {
	ID          string    `json:"id"`
	Source      Image     `json:"-"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	Prompt      string    `json:"-"`
	Mode        Mode      `json:"editMode,omitempty"`
	MaskMode    MaskMode  `json:"maskMode,omitempty"`
	ContainerID string    `json:"containerId,omitempty"`
	Status      JobStatus `json:"status"`
	Attempts    int       `json:"attempts"`
}

// Result is a finished edit.
type Result struct {
	Job      Job           `json:"job"`
	Image    Image         `json:"image"`
	Steps    int           `json:"steps"`
	Duration time.Duration `json:"duration"`
}

// Config tunes the Orchestrator. Zero values take the defaults.
type Config struct {
	PollInterval time.Duration
	PollAttempts int
	Clock        Clock
}

// Default polling bounds.
const (
	DefaultPollInterval = time.Second
	DefaultPollAttempts = 30
)

// Orchestrator runs edits and publish flows. It holds no per-request state
// and is safe for concurrent use.
type Orchestrator struct {
	provider     Provider
	publisher    Publisher
	pollInterval time.Duration
	pollAttempts int
	clock        Clock
}

// New creates an Orchestrator. Either collaborator may be nil; the matching
// operation then fails with KindConfiguration.
func New(provider Provider, publisher Publisher, cfg Config) *Orchestrator {
	o := &Orchestrator{
		provider:     provider,
		publisher:    publisher,
		pollInterval: cfg.PollInterval,
		pollAttempts: cfg.PollAttempts,
		clock:        cfg.Clock,
	}
	if o.pollInterval <= 0 {
		o.pollInterval = DefaultPollInterval
	}
	if o.pollAttempts <= 0 {
		o.pollAttempts = DefaultPollAttempts
	}
	if o.clock == nil {
		o.clock = RealClock{}
	}
	return o
}

// PublishBound is the longest Publish can spend polling: every attempt
// after one interval.
func (o *Orchestrator) PublishBound() time.Duration {
	return o.pollInterval * time.Duration(o.pollAttempts)
}

// BuildRequest validates opts and fills defaults.
func BuildRequest(img Image, prompt string, opts Options) (Request, error) {
	if len(img.Data) == 0 {
		return Request{}, fmt.Errorf("source image is empty")
	}
	if strings.TrimSpace(prompt) == "" {
		return Request{}, fmt.Errorf("prompt is empty")
	}
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return Request{}, err
	}
	mask, err := ParseMaskMode(string(opts.MaskMode))
	if err != nil {
		return Request{}, err
	}
	steps := opts.Steps
	if steps <= 0 {
		steps = DefaultSteps(mode)
	}
	return Request{
		Prompt:      prompt,
		Reference:   img,
		Mask:        MaskConfig{Mode: mask, SegmentationClasses: opts.SegmentationClasses},
		Mode:        mode,
		Steps:       steps,
		AspectRatio: opts.AspectRatio,
	}, nil
}

// Run performs one edit. It is bounded only by ctx; a deadline surfaces as
// KindTimeout with TimeoutMessage.
func (o *Orchestrator) Run(ctx context.Context, img Image, prompt string, opts Options) (*Result, error) {
	job := Job{ID: uuid.NewString(), Source: img, Prompt: prompt, Status: JobPending}

	req, err := BuildRequest(img, prompt, opts)
	if err != nil {
		return nil, &Error{Kind: KindInvalidInput, Op: "edit", Message: err.Error(), Err: err}
	}
	job.Mode, job.MaskMode = req.Mode, req.Mask.Mode

	if o.provider == nil {
		return nil, translate("edit", fmt.Errorf("edit provider: %w", ErrNotConfigured))
	}

	start := o.clock.Now()
	job.Status = JobInProgress
	job.Attempts = 1
	log.Info().
		Str("jobId", job.ID).
		Str("editMode", string(req.Mode)).
		Str("maskMode", string(req.Mask.Mode)).
		Int("steps", req.Steps).
		Int("imageBytes", len(img.Data)).
		Msg("Starting image edit")

	out, err := o.provider.Edit(ctx, req)
	duration := o.clock.Now().Sub(start)

	rec := metrics.New(metrics.Namespace).
		Dimension("Operation", "edit").
		Duration("LatencyMs", duration).
		Property("jobId", job.ID).
		Property("editMode", string(req.Mode))

	if err == nil && (out == nil || len(out.Data) == 0) {
		err = &ProviderError{Message: "provider returned no image"}
	}
	if err != nil {
		e := translate("edit", err)
		job.Status = JobError
		if e.Kind == KindTimeout {
			job.Status = JobTimedOut
		}
		rec.Count("EditFailed").Property("errorKind", string(e.Kind)).Flush()
		log.Error().Err(err).
			Str("jobId", job.ID).
			Str("kind", string(e.Kind)).
			Dur("duration", duration).
			Msg("Image edit failed")
		return nil, e
	}

	job.Status = JobFinished
	rec.Count("EditSucceeded").Metric("OutputBytes", float64(len(out.Data)), metrics.UnitBytes).Flush()
	log.Info().
		Str("jobId", job.ID).
		Int("outputBytes", len(out.Data)).
		Dur("duration", duration).
		Msg("Image edit complete")

	return &Result{Job: job, Image: *out, Steps: req.Steps, Duration: duration}, nil
}
