package angle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/venue-enhance/internal/assets"
	"github.com/fpang/venue-enhance/internal/jsonutil"
	"github.com/fpang/venue-enhance/internal/metrics"
)

// DefaultTimeout bounds a single vision call.
const DefaultTimeout = 6 * time.Second

// Degradation reasons.
const (
	ReasonUnconfigured = "vision provider not configured"
	ReasonTimeout      = "timeout"
	ReasonProvider     = "provider error"
	ReasonEmpty        = "empty response"
	ReasonUnparseable  = "unparseable response"
)

// Analysis is the classifier's view of one photo.
type Analysis struct {
	Bucket          Bucket   `json:"bucket"`
	Confidence      float64  `json:"confidence"`
	Reasoning       string   `json:"reasoning"`
	Characteristics []string `json:"characteristics"`
}

// Result is either a confident Analysis or a Degraded substitute. Callers
// that only need a bucket can use it either way.
type Result struct {
	Analysis
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}

// Fallback is the analysis substituted whenever classification fails.
func Fallback() Analysis {
	return Analysis{
		Bucket:          Hero,
		Confidence:      0.3,
		Reasoning:       "fallback",
		Characteristics: []string{"fallback"},
	}
}

func degraded(reason string) Result {
	return Result{Analysis: Fallback(), Degraded: true, Reason: reason}
}

// Vision is a vision-capable model that answers a text prompt about an image.
type Vision interface {
	Describe(ctx context.Context, image []byte, mimeType, prompt string) (string, error)
}

// HintFunc derives non-authoritative context (dimensions, camera) from the
// raw image bytes. An empty return adds nothing to the prompt.
type HintFunc func(image []byte) string

// Option configures a Classifier.
type Option func(*Classifier)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// PreviewFunc shrinks an image before it is sent to the vision model. It
// returns the bytes and MIME type to send.
type PreviewFunc func(image []byte, mimeType string) ([]byte, string)

// WithHints attaches photo hints to every prompt. Hints are always derived
// from the original bytes, never from the preview.
func WithHints(h HintFunc) Option {
	return func(c *Classifier) { c.hints = h }
}

// WithPreview makes the classifier send a preview instead of the original.
// Preparing it counts against the timeout.
func WithPreview(p PreviewFunc) Option {
	return func(c *Classifier) { c.preview = p }
}

// Classifier issues one bounded vision call per photo.
type Classifier struct {
	vision  Vision
	timeout time.Duration
	hints   HintFunc
	preview PreviewFunc
}

// New creates a Classifier. A nil vision yields a classifier that always
// degrades, which keeps callers working when no provider is configured.
func New(vision Vision, opts ...Option) *Classifier {
	c := &Classifier{vision: vision, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout reports the per-call bound.
func (c *Classifier) Timeout() time.Duration { return c.timeout }

type reply struct {
	Angle           string   `json:"angle"`
	Confidence      float64  `json:"confidence"`
	Reasoning       string   `json:"reasoning"`
	Characteristics []string `json:"characteristics"`
}

type describeResult struct {
	text string
	err  error
}

// Classify returns the camera-angle analysis for image. It returns within
// the configured timeout even if the provider ignores cancellation.
func (c *Classifier) Classify(ctx context.Context, image []byte, mimeType string) Result {
	start := time.Now()
	res := c.classify(ctx, image, mimeType)

	rec := metrics.New(metrics.Namespace).
		Dimension("Operation", "classifyAngle").
		Duration("LatencyMs", time.Since(start)).
		Property("bucket", string(res.Bucket))
	if res.Degraded {
		rec.Count("AngleDegraded").Property("reason", res.Reason)
		log.Warn().
			Str("reason", res.Reason).
			Dur("duration", time.Since(start)).
			Msg("Angle classification degraded to fallback")
	} else {
		log.Debug().
			Str("bucket", string(res.Bucket)).
			Float64("confidence", res.Confidence).
			Dur("duration", time.Since(start)).
			Msg("Angle classified")
	}
	rec.Flush()
	return res
}

func (c *Classifier) classify(ctx context.Context, image []byte, mimeType string) Result {
	if c.vision == nil {
		return degraded(ReasonUnconfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Hints and the preview share the deadline with the model call.
	done := make(chan describeResult, 1)
	go func() {
		prompt := c.prompt(image)
		data, mime := image, mimeType
		if c.preview != nil {
			data, mime = c.preview(image, mimeType)
		}
		if err := ctx.Err(); err != nil {
			done <- describeResult{err: err}
			return
		}
		text, err := c.vision.Describe(ctx, data, mime, prompt)
		done <- describeResult{text: text, err: err}
	}()

	var out describeResult
	select {
	case <-ctx.Done():
		return degraded(ReasonTimeout)
	case out = <-done:
	}

	if out.err != nil {
		if errors.Is(out.err, context.DeadlineExceeded) {
			return degraded(ReasonTimeout)
		}
		log.Debug().Err(out.err).Msg("Vision provider error during angle classification")
		return degraded(ReasonProvider)
	}
	if strings.TrimSpace(out.text) == "" {
		return degraded(ReasonEmpty)
	}
	return parseReply(out.text)
}

func (c *Classifier) prompt(image []byte) string {
	if c.hints == nil {
		return Prompt
	}
	h := c.hints(image)
	if h == "" {
		return Prompt
	}
	return fmt.Sprintf("%s\n\nPhoto metadata (may be missing or wrong, trust the pixels first): %s", Prompt, h)
}

// parseReply decodes a model reply into a Result. Unrecognised angle names
// become Hero; the result is still considered confident because the model
// answered in the expected shape.
func parseReply(text string) Result {
	r, err := jsonutil.ParseJSON[reply](text)
	if err != nil {
		log.Debug().Err(err).Str("reply", jsonutil.Truncate(text, 200)).Msg("Failed to parse angle reply")
		return degraded(ReasonUnparseable)
	}

	b := ParseBucket(r.Angle)
	if b == Unknown {
		b = Hero
	}
	chars := r.Characteristics
	if chars == nil {
		chars = []string{}
	}
	return Result{Analysis: Analysis{
		Bucket:          b,
		Confidence:      ClampConfidence(r.Confidence),
		Reasoning:       strings.TrimSpace(r.Reasoning),
		Characteristics: chars,
	}}
}

// Prompt asks the vision model for a JSON classification.
var Prompt = strings.TrimSpace(assets.AngleClassifierPrompt)
