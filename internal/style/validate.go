// Package style checks a user's style picks against business-type
// compatibility tables. Findings are advisory; only a missing business type
// stops an enhancement.
package style

import (
	"fmt"
	"strings"
)

// WarningType ranks a finding from blocking to gentle.
type WarningType string

const (
	TypeError      WarningType = "error"
	TypeWarning    WarningType = "warning"
	TypeSuggestion WarningType = "suggestion"
)

// Status summarises a warning list for display.
type Status string

const (
	StatusInvalid           Status = "invalid"
	StatusValidWithWarnings Status = "valid-with-warnings"
	StatusValid             Status = "valid"
)

// Selection is one pick per category. Only BusinessType is required.
type Selection struct {
	BusinessType string `json:"businessType"`
	Mood         string `json:"mood,omitempty"`
	Seasonal     string `json:"seasonal,omitempty"`
	Format       string `json:"format,omitempty"`
}

// Warning describes a questionable pairing between two category values.
type Warning struct {
	Type       WarningType `json:"type"`
	Category1  string      `json:"category1"`
	Value1     string      `json:"value1"`
	Category2  string      `json:"category2,omitempty"`
	Value2     string      `json:"value2,omitempty"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Validate returns every finding for sel. It is pure and never fails. A
// business type made only of whitespace counts as missing.
func Validate(sel Selection) []Warning {
	bt := normalize(sel.BusinessType)
	if bt == "" {
		return []Warning{{
			Type:      TypeError,
			Category1: "businessType",
			Message:   "Select a business type to continue; it cannot proceed without one.",
		}}
	}

	var out []Warning
	if w, ok := checkMood(bt, normalize(sel.Mood)); ok {
		out = append(out, w)
	}
	if w, ok := checkSeasonal(bt, normalize(sel.Seasonal)); ok {
		out = append(out, w)
	}
	return out
}

func checkMood(bt, mood string) (Warning, bool) {
	fit, ok := moodCompat[bt]
	if !ok || mood == "" || !contains(fit.NotRecommended, mood) {
		return Warning{}, false
	}
	w := Warning{
		Type:      TypeWarning,
		Category1: "businessType",
		Value1:    bt,
		Category2: "mood",
		Value2:    mood,
		Message:   fmt.Sprintf("A %s mood is not recommended for a %s.", mood, bt),
	}
	if len(fit.Recommended) > 0 {
		w.Suggestion = fit.Recommended[0]
	}
	return w, true
}

func checkSeasonal(bt, theme string) (Warning, bool) {
	fit, ok := seasonalCompat[bt]
	if !ok || theme == "" || !contains(fit.Unusual, theme) {
		return Warning{}, false
	}
	w := Warning{
		Type:      TypeSuggestion,
		Category1: "businessType",
		Value1:    bt,
		Category2: "seasonal",
		Value2:    theme,
		Message:   fmt.Sprintf("%s is an unusual theme for a %s; it works, but may surprise your audience.", theme, bt),
	}
	if len(fit.Perfect) > 0 {
		w.Suggestion = fit.Perfect[0]
	}
	return w, true
}

// SelectionStatus reduces warnings to a tri-state summary.
func SelectionStatus(warnings []Warning) Status {
	if len(warnings) == 0 {
		return StatusValid
	}
	for _, w := range warnings {
		if w.Type == TypeError {
			return StatusInvalid
		}
	}
	return StatusValidWithWarnings
}
