package edit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fpang/venue-enhance/internal/config"
)

// Kind classifies an edit or publish failure by what the caller can do about it.
type Kind string

const (
	// KindConfiguration: credentials or provider settings are missing. Fatal; do not retry.
	KindConfiguration Kind = "configuration"
	// KindInvalidInput: the request itself is malformed (empty image, unknown mode).
	KindInvalidInput Kind = "invalid_input"
	// KindProvider: the provider rejected or failed the request.
	KindProvider Kind = "provider"
	// KindBilling: the provider account cannot be charged. The user must fix billing.
	KindBilling Kind = "billing"
	// KindTimeout: a bound was exceeded. Retrying later may succeed.
	KindTimeout Kind = "timeout"
)

// User-facing messages.
const (
	TimeoutMessage   = "Enhancement timed out. Your upload succeeded; retry from the gallery."
	CancelledMessage = "Enhancement was cancelled. Your upload succeeded; retry from the gallery."
	BillingMessage   = "Image editing is unavailable because billing is not enabled for the provider account. Enable billing, then try again."
)

// ErrNotConfigured is returned when no provider or publisher was wired.
var ErrNotConfigured = errors.New("not configured")

// Error is the typed failure returned by the Orchestrator.
type Error struct {
	Kind Kind
	// Op is the failing step: "edit", "create_container", "poll", "publish".
	Op string
	// Message is safe and actionable for an end user.
	Message string
	// Detail is the provider's raw message, kept verbatim.
	Detail     string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Detail != "" && e.Detail != e.Message {
		return fmt.Sprintf("%s: %s: %s (%s)", e.Op, e.Kind, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ProviderError is what provider adapters return for a rejected call.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}

func isBilling(statusCode int, msg string) bool {
	if statusCode == 402 {
		return true
	}
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "billing") || strings.Contains(lower, "payment required")
}

func isPolicy(msg string) bool {
	lower := strings.ToLower(msg)
	for _, s := range []string{"safety", "content policy", "responsible ai", "blocked", "prohibited"} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// translate converts any error from a provider or publisher into an *Error.
func translate(op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Op: op, Message: TimeoutMessage, Err: err}
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindTimeout, Op: op, Message: CancelledMessage, Err: err}
	case errors.Is(err, ErrNotConfigured), errors.Is(err, config.ErrMissing):
		return &Error{Kind: KindConfiguration, Op: op, Message: "Image editing is not configured.", Detail: err.Error(), Err: err}
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		return &Error{Kind: KindProvider, Op: op, Message: "The image provider failed. Please try again later.", Detail: err.Error(), Err: err}
	}

	out := &Error{Kind: KindProvider, Op: op, Detail: pe.Message, StatusCode: pe.StatusCode, Err: err}
	switch {
	case isBilling(pe.StatusCode, pe.Message):
		out.Kind = KindBilling
		out.Message = BillingMessage
	case pe.StatusCode == 401 || pe.StatusCode == 403:
		out.Kind = KindConfiguration
		out.Message = "The image provider rejected our credentials. Check the provider configuration."
	case isPolicy(pe.Message):
		out.Message = "The image provider refused this request under its content policy. Try a different photo or prompt."
	case pe.StatusCode == 400:
		out.Message = "The image provider rejected the request. Adjust the prompt or photo and try again."
	case pe.StatusCode == 429:
		out.Message = "The image provider is busy. Please try again in a minute."
	case pe.StatusCode >= 500:
		out.Message = "The image provider is temporarily unavailable. Please try again later."
	default:
		out.Message = "The image provider failed. Please try again later."
	}
	return out
}
