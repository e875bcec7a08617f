package style

import "fmt"

// MultiSelection is the advanced picker state, where several values per
// category can be chosen at once and true structural conflicts are possible.
type MultiSelection struct {
	BusinessType string   `json:"businessType"`
	Moods        []string `json:"moods,omitempty"`
	Seasonal     []string `json:"seasonal,omitempty"`
	Formats      []string `json:"formats,omitempty"`
	Compositions []string `json:"compositions,omitempty"`
}

// Compositions offered only by the advanced picker.
var Compositions = []string{"flat-lay", "bokeh", "close-up", "wide-scene", "negative-space", "crowded-props"}

type blockRule struct {
	Category1, Value1 string
	Category2, Value2 string
	Reason            string
}

// blocks lists pairs that cannot both be honoured in one photo.
var blocks = []blockRule{
	{"composition", "flat-lay", "composition", "bokeh", "a flat-lay keeps the whole table in one focal plane, so there is nothing behind the food to blur"},
	{"composition", "flat-lay", "composition", "wide-scene", "a top-down frame cannot include the surrounding venue"},
	{"composition", "close-up", "composition", "wide-scene", "a frame cannot be both a tight detail and a wide establishing shot"},
	{"composition", "negative-space", "composition", "crowded-props", "generous empty space and a prop-filled table exclude each other"},
	{"mood", "minimal", "composition", "crowded-props", "a minimal mood conflicts with a prop-heavy set"},
	{"mood", "moody", "mood", "fresh", "low-key shadows and bright airy light pull the grade in opposite directions"},
	{"mood", "elegant", "mood", "playful", "the two moods call for opposite styling"},
	{"format", "story", "composition", "wide-scene", "a vertical story crop loses most of a wide scene"},
	{"format", "banner", "composition", "close-up", "a wide banner crop wastes a tight close-up"},
}

func (m MultiSelection) values(category string) []string {
	switch category {
	case "mood":
		return m.Moods
	case "seasonal":
		return m.Seasonal
	case "format":
		return m.Formats
	case "composition":
		return m.Compositions
	}
	return nil
}

// ValidateAdvanced runs every single-select check for each chosen mood and
// theme, then evaluates the pairwise block table. Blocked pairs are errors:
// the advanced mode refuses to submit contradictory instructions.
func ValidateAdvanced(m MultiSelection) []Warning {
	if normalize(m.BusinessType) == "" {
		return Validate(Selection{})
	}

	var out []Warning
	for _, mood := range m.Moods {
		out = append(out, Validate(Selection{BusinessType: m.BusinessType, Mood: mood})...)
	}
	for _, theme := range m.Seasonal {
		out = append(out, Validate(Selection{BusinessType: m.BusinessType, Seasonal: theme})...)
	}

	for _, r := range blocks {
		if !hasValue(m.values(r.Category1), r.Value1) || !hasValue(m.values(r.Category2), r.Value2) {
			continue
		}
		out = append(out, Warning{
			Type:       TypeError,
			Category1:  r.Category1,
			Value1:     r.Value1,
			Category2:  r.Category2,
			Value2:     r.Value2,
			Message:    fmt.Sprintf("%s %q blocks %s %q: %s.", r.Category1, r.Value1, r.Category2, r.Value2, r.Reason),
			Suggestion: fmt.Sprintf("remove %q", r.Value2),
		})
	}
	return out
}

func hasValue(list []string, v string) bool {
	for _, s := range list {
		if normalize(s) == v {
			return true
		}
	}
	return false
}
