// Package angle classifies the camera geometry of a food photo into one of
// three coarse buckets. Classification never fails the caller: provider
// trouble yields a Degraded result carrying a low-confidence hero guess.
package angle

import (
	"math"
	"strings"
)

// Bucket is a coarse camera-geometry class.
type Bucket string

const (
	Overhead Bucket = "overhead"
	Hero     Bucket = "hero"
	EyeLevel Bucket = "eye-level"
	Unknown  Bucket = "unknown"
)

// Buckets lists the three concrete buckets in display order.
var Buckets = []Bucket{Overhead, Hero, EyeLevel}

// Degrees returns the nominal camera tilt for b, measured from the table
// plane. Unknown maps to the hero angle.
func (b Bucket) Degrees() int {
	switch b {
	case Overhead:
		return 90
	case EyeLevel:
		return 0
	default:
		return 45
	}
}

func (b Bucket) String() string { return string(b) }

var synonyms = map[string]Bucket{
	"overhead":      Overhead,
	"top-down":      Overhead,
	"topdown":       Overhead,
	"flat-lay":      Overhead,
	"flatlay":       Overhead,
	"birds-eye":     Overhead,
	"bird's-eye":    Overhead,
	"aerial":        Overhead,
	"90":            Overhead,
	"90-degree":     Overhead,
	"90-degrees":    Overhead,
	"hero":          Hero,
	"45":            Hero,
	"45-degree":     Hero,
	"45-degrees":    Hero,
	"three-quarter": Hero,
	"3/4":           Hero,
	"angled":        Hero,
	"diagonal":      Hero,
	"eye-level":     EyeLevel,
	"eyelevel":      EyeLevel,
	"straight-on":   EyeLevel,
	"straight":      EyeLevel,
	"side":          EyeLevel,
	"side-view":     EyeLevel,
	"front":         EyeLevel,
	"table-level":   EyeLevel,
	"0":             EyeLevel,
	"0-degree":      EyeLevel,
	"0-degrees":     EyeLevel,
	"unknown":       Unknown,
}

// ParseBucket maps free text (model output or user input) onto a Bucket via
// the synonym table. Case, surrounding whitespace, and the separator between
// words are ignored. Unrecognised text returns Unknown.
func ParseBucket(s string) Bucket {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "-", " ", "-", "°", "").Replace(key)
	if b, ok := synonyms[key]; ok {
		return b
	}
	return Unknown
}

// ClampConfidence bounds c to [0,1]; NaN becomes 0.
func ClampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
