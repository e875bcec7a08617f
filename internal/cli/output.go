package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fpang/venue-enhance/internal/angle"
	"github.com/fpang/venue-enhance/internal/config"
	"github.com/fpang/venue-enhance/internal/edit"
	"github.com/fpang/venue-enhance/internal/engine"
	"github.com/fpang/venue-enhance/internal/style"
)

// PrintJSON writes v indented.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintAngle writes a one-line summary of an angle result.
func PrintAngle(w io.Writer, path string, r angle.Result) {
	suffix := ""
	if r.Degraded {
		suffix = " (fallback: " + r.Reason + ")"
	}
	fmt.Fprintf(w, "%s: %s %.2f%s\n", path, r.Bucket, r.Confidence, suffix)
}

// PrintValidation writes each finding and the overall status.
func PrintValidation(w io.Writer, v engine.Validation) {
	for _, warn := range v.Warnings {
		line := fmt.Sprintf("[%s] %s", strings.ToUpper(string(warn.Type)), warn.Message)
		if warn.Suggestion != "" {
			line += " Try: " + warn.Suggestion
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "status: %s\n", v.Status)
}

// ExitCode maps an error to a process exit code and a message for the user.
// Configuration problems exit 3 so scripts can tell them apart from
// provider failures (1) and timeouts (4).
func ExitCode(err error) (int, string) {
	if err == nil {
		return 0, ""
	}
	msg := err.Error()
	var e *edit.Error
	if errors.As(err, &e) {
		msg = e.Message
		if url := engine.SourceURLOf(err); url != "" {
			msg += " Source: " + url
		}
		switch e.Kind {
		case edit.KindConfiguration:
			return 3, msg
		case edit.KindTimeout:
			return 4, msg
		case edit.KindInvalidInput:
			return 2, msg
		case edit.KindBilling:
			return 5, msg
		}
		return 1, msg
	}
	if errors.Is(err, config.ErrMissing) || errors.Is(err, edit.ErrNotConfigured) {
		return 3, msg
	}
	if errors.Is(err, ErrCanceled) {
		return 130, msg
	}
	return 1, msg
}

// StatusExit returns 2 for an invalid style selection.
func StatusExit(v engine.Validation) int {
	if v.Status == style.StatusInvalid {
		return 2
	}
	return 0
}
