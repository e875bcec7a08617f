// Package facet composes the technical half of an enhancement instruction
// from independent photography facets: lens, aperture, angle, lighting,
// colour, style and realism, plus an optional food-state cue.
package facet

import (
	"sort"
	"strings"

	"github.com/fpang/venue-enhance/internal/angle"
)

// Selection holds option IDs per facet. Empty fields take the facet default.
type Selection struct {
	Lens     string `json:"lens,omitempty"`
	Aperture string `json:"aperture,omitempty"`
	Angle    string `json:"angle,omitempty"`
	Lighting string `json:"lighting,omitempty"`
	Color    string `json:"color,omitempty"`
	Style    string `json:"style,omitempty"`
	Realism  string `json:"realism,omitempty"`
}

// Degree thresholds for lens and aperture derivation.
const (
	overheadMinDegrees = 75
	eyeLevelMaxDegrees = 15
)

// DeriveLens returns the lens option ID implied by a camera tilt.
func DeriveLens(degrees int) string {
	switch {
	case degrees >= overheadMinDegrees:
		return "wide-24"
	case degrees <= eyeLevelMaxDegrees:
		return "portrait-85"
	default:
		return "macro-100"
	}
}

// DeriveAperture returns the aperture option ID implied by a camera tilt.
func DeriveAperture(degrees int) string {
	switch {
	case degrees >= overheadMinDegrees:
		return "f8"
	case degrees <= eyeLevelMaxDegrees:
		return "f2-8"
	default:
		return "f4"
	}
}

// AngleForBucket maps a classifier bucket to its Angle option ID.
func AngleForBucket(b angle.Bucket) string {
	switch b {
	case angle.Overhead:
		return "overhead-90"
	case angle.EyeLevel:
		return "eye-level-0"
	default:
		return DefaultAngle
	}
}

// Resolved is a Selection with every facet looked up.
type Resolved struct {
	Lens     Option
	Aperture Option
	Angle    AngleOption
	Lighting Option
	Color    Option
	Style    Option
	Realism  Option
}

// Resolve fills defaults and applies the angle precedence rule: an explicit
// Angle replaces whatever lens and aperture were requested with the derived
// ones. Unknown IDs resolve to the facet default.
func Resolve(sel *Selection) Resolved {
	var s Selection
	if sel != nil {
		s = *sel
	}

	r := Resolved{
		Lens:     find(lenses, s.Lens, DefaultLens),
		Aperture: find(apertures, s.Aperture, DefaultAperture),
		Angle:    findAngle(s.Angle),
		Lighting: find(lightings, s.Lighting, DefaultLighting),
		Color:    find(colors, s.Color, DefaultColor),
		Style:    find(visualStyles, s.Style, DefaultStyle),
		Realism:  find(realisms, s.Realism, DefaultRealism),
	}
	if s.Angle != "" {
		r.Lens = find(lenses, DeriveLens(r.Angle.Degrees), DefaultLens)
		r.Aperture = find(apertures, DeriveAperture(r.Angle.Degrees), DefaultAperture)
	}
	return r
}

// Compose renders sel as a fixed-order labeled block. foodTag adds one
// FOOD REALISM line when it exactly matches a known cue.
func Compose(sel *Selection, foodTag string) string {
	r := Resolve(sel)

	lines := []string{
		"LENS: " + r.Lens.Instruction,
		"APERTURE: " + r.Aperture.Instruction,
		"ANGLE: " + r.Angle.Instruction,
		"LIGHTING: " + r.Lighting.Instruction,
		"COLOR: " + r.Color.Instruction,
		"STYLE: " + r.Style.Instruction,
		"REALISM: " + r.Realism.Instruction,
	}
	if cue, ok := FoodCue(foodTag); ok {
		lines = append(lines, "FOOD REALISM: "+cue)
	}
	return strings.Join(lines, "\n")
}

// FoodCue returns the cue for an exact tag match.
func FoodCue(tag string) (string, bool) {
	cue, ok := foodCues[tag]
	return cue, ok
}

// FoodTags lists the recognised food-state tags, sorted.
func FoodTags() []string {
	tags := make([]string, 0, len(foodCues))
	for t := range foodCues {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Catalog exposes every facet table for pickers and help output.
type Catalog struct {
	Lens     []Option      `json:"lens"`
	Aperture []Option      `json:"aperture"`
	Angle    []AngleOption `json:"angle"`
	Lighting []Option      `json:"lighting"`
	Color    []Option      `json:"color"`
	Style    []Option      `json:"style"`
	Realism  []Option      `json:"realism"`
	FoodTags []string      `json:"foodTags"`
}

// Options returns a copy of every facet table.
func Options() Catalog {
	return Catalog{
		Lens:     append([]Option(nil), lenses...),
		Aperture: append([]Option(nil), apertures...),
		Angle:    append([]AngleOption(nil), angles...),
		Lighting: append([]Option(nil), lightings...),
		Color:    append([]Option(nil), colors...),
		Style:    append([]Option(nil), visualStyles...),
		Realism:  append([]Option(nil), realisms...),
		FoodTags: FoodTags(),
	}
}

func find(table []Option, id, def string) Option {
	for _, o := range table {
		if o.ID == id {
			return o
		}
	}
	for _, o := range table {
		if o.ID == def {
			return o
		}
	}
	return Option{}
}

func findAngle(id string) AngleOption {
	for _, o := range angles {
		if o.ID == id {
			return o
		}
	}
	for _, o := range angles {
		if o.ID == DefaultAngle {
			return o
		}
	}
	return AngleOption{}
}
