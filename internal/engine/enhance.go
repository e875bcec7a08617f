package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/venue-enhance/internal/angle"
	"github.com/fpang/venue-enhance/internal/edit"
	"github.com/fpang/venue-enhance/internal/facet"
	"github.com/fpang/venue-enhance/internal/metrics"
	"github.com/fpang/venue-enhance/internal/storage"
	"github.com/fpang/venue-enhance/internal/style"
)

// Request is one end-to-end enhancement.
type Request struct {
	Image   edit.Image
	VenueID string
	// Bucket skips classification when set to a concrete bucket.
	Bucket    angle.Bucket
	Technical *facet.Selection
	FoodTag   string
	// Style, when set, is validated first; an invalid selection stops the run.
	Style   *style.Selection
	Edit    edit.Options
	Publish bool
	Caption string
}

// Outcome records everything Enhance did. On failure it still carries the
// stages that completed, notably SourceURL.
type Outcome struct {
	JobID      string              `json:"jobId"`
	SourceURL  string              `json:"sourceUrl,omitempty"`
	Angle      angle.Result        `json:"angle"`
	Prompt     string              `json:"prompt,omitempty"`
	Validation *Validation         `json:"validation,omitempty"`
	Edit       *edit.Result        `json:"edit,omitempty"`
	ResultURL  string              `json:"resultUrl,omitempty"`
	Published  *edit.PublishResult `json:"published,omitempty"`
	Duration   time.Duration       `json:"duration"`
}

// IncompleteError wraps a failure that happened after the source photo was
// stored, so the caller can offer a retry from SourceURL.
type IncompleteError struct {
	SourceURL string
	Err       error
}

func (e *IncompleteError) Error() string {
	if e.SourceURL == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (source stored at %s)", e.Err, e.SourceURL)
}

func (e *IncompleteError) Unwrap() error { return e.Err }

// Enhance stores the source, classifies it (unless a bucket is given),
// composes the prompt, edits within the enhancement timeout, stores the
// result and optionally publishes it. Publishing runs outside the
// enhancement timeout; it has its own polling bound.
func (e *Engine) Enhance(ctx context.Context, req Request) (*Outcome, error) {
	start := time.Now()
	out := &Outcome{JobID: uuid.NewString()}
	logger := log.With().Str("jobId", out.JobID).Str("venue", req.VenueID).Logger()

	rec := metrics.New(metrics.Namespace).Dimension("Operation", "enhance").Property("jobId", out.JobID)
	defer func() {
		out.Duration = time.Since(start)
		rec.Duration("LatencyMs", out.Duration).Flush()
	}()

	if len(req.Image.Data) == 0 {
		return out, &edit.Error{Kind: edit.KindInvalidInput, Op: "enhance", Message: "source image is empty"}
	}
	if req.Style != nil {
		v := ValidateStyleSelection(*req.Style)
		out.Validation = &v
		if v.Status == style.StatusInvalid {
			rec.Count("EnhanceRejected")
			return out, &edit.Error{Kind: edit.KindInvalidInput, Op: "enhance", Message: v.Warnings[0].Message}
		}
	}

	if e.sink != nil {
		url, err := e.sink.Put(ctx, storage.Key(storage.PrefixSource, out.JobID, req.Image.MIMEType), req.Image.Data, req.Image.MIMEType)
		if err != nil {
			rec.Count("EnhanceFailed")
			return out, fmt.Errorf("failed to store source photo: %w", err)
		}
		out.SourceURL = url
	}

	editCtx, cancel := context.WithTimeout(ctx, e.enhanceTimeout)
	defer cancel()

	if b := req.Bucket; b == angle.Overhead || b == angle.Hero || b == angle.EyeLevel {
		out.Angle = angle.Result{Analysis: angle.Analysis{Bucket: b, Confidence: 1, Reasoning: "provided by caller"}}
	} else {
		out.Angle = e.DetectAngle(editCtx, req.Image.Data, req.Image.MIMEType)
	}
	out.Prompt = BuildEnhancementPrompt(req.VenueID, out.Angle.Bucket, req.Technical, req.FoodTag)
	logger.Info().
		Str("bucket", string(out.Angle.Bucket)).
		Bool("angleDegraded", out.Angle.Degraded).
		Int("promptLength", len(out.Prompt)).
		Msg("Enhancement prompt composed")

	res, err := e.editor.Run(editCtx, req.Image, out.Prompt, req.Edit)
	if err != nil {
		rec.Count("EnhanceFailed").Property("errorKind", string(edit.KindOf(err)))
		return out, &IncompleteError{SourceURL: out.SourceURL, Err: err}
	}
	out.Edit = res

	if e.sink != nil {
		url, err := e.sink.Put(ctx, storage.Key(storage.PrefixEnhanced, out.JobID, res.Image.MIMEType), res.Image.Data, res.Image.MIMEType)
		if err != nil {
			rec.Count("EnhanceFailed")
			return out, &IncompleteError{SourceURL: out.SourceURL, Err: fmt.Errorf("failed to store enhanced photo: %w", err)}
		}
		out.ResultURL = url
	}

	if req.Publish {
		if out.ResultURL == "" {
			return out, &IncompleteError{SourceURL: out.SourceURL, Err: fmt.Errorf("publish needs a stored result: %w", edit.ErrNotConfigured)}
		}
		pub, err := e.editor.Publish(ctx, out.ResultURL, req.Caption)
		out.Published = pub
		if err != nil {
			rec.Count("PublishFailed")
			return out, &IncompleteError{SourceURL: out.SourceURL, Err: err}
		}
	}

	rec.Count("EnhanceSucceeded")
	logger.Info().
		Str("resultUrl", out.ResultURL).
		Bool("published", out.Published != nil).
		Dur("duration", time.Since(start)).
		Msg("Enhancement complete")
	return out, nil
}

// SourceURLOf returns the stored source URL carried by err, if any.
func SourceURLOf(err error) string {
	var ie *IncompleteError
	if errors.As(err, &ie) {
		return ie.SourceURL
	}
	return ""
}
