// Package jsonutil decodes JSON replies from vision models, which often wrap
// the payload in markdown code fences or surround it with prose.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a reply contains no JSON object or array.
var ErrNoJSON = errors.New("no JSON content found")

const fence = "```"

// StripMarkdownFences removes a leading ``` (optionally tagged, e.g. ```json)
// and a trailing ``` from text. Single-line fenced replies are handled too.
// Text without an opening fence is returned trimmed but otherwise unchanged.
func StripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, fence) {
		return text
	}
	body := strings.TrimPrefix(text, fence)

	// Drop the language tag: everything up to the first newline, or up to the
	// first brace/bracket when the model put the whole reply on one line.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else if i := strings.IndexAny(body, "{["); i >= 0 {
		body = body[i:]
	}

	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, fence)
	return strings.TrimSpace(body)
}

// ExtractJSON returns the outermost JSON object or array embedded in text,
// spanning from the first opening delimiter to the last matching closer.
func ExtractJSON(text string) (string, error) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", ErrNoJSON
	}
	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end < start {
		return "", fmt.Errorf("unterminated JSON: no closing %s", closer)
	}
	return text[start : end+1], nil
}

// ParseJSON strips fences, extracts the JSON payload and decodes it into T.
func ParseJSON[T any](raw string) (T, error) {
	var out T
	payload, err := ExtractJSON(StripMarkdownFences(raw))
	if err != nil {
		return out, fmt.Errorf("%w (raw length: %d)", err, len(raw))
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, fmt.Errorf("invalid JSON: %w (text: %s)", err, Truncate(payload, 200))
	}
	return out, nil
}

// Truncate shortens s to at most n bytes, appending "..." when cut.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
