package venue

import (
	"fmt"
	"strings"

	"github.com/fpang/venue-enhance/internal/angle"
)

// Constraints declares what a camera at a given geometry can and cannot
// capture. ForbiddenTerms is the lowercase vocabulary that venue prompts for
// the bucket must never contain; it is what the library is checked against.
type Constraints struct {
	Bucket         angle.Bucket
	Heading        string
	CanShow        []string
	CannotShow     []string
	ForbiddenTerms []string
}

var physics = map[angle.Bucket]Constraints{
	angle.Overhead: {
		Bucket:  angle.Overhead,
		Heading: "camera pointing straight down at the table",
		CanShow: []string{
			"the table surface, its material and texture",
			"plates, bowls, cups and utensils seen from above",
			"hands reaching into the frame from the edges",
			"condiments, napkins and side dishes arranged around the main plate",
			"shadows falling across the table",
		},
		CannotShow: []string{
			"vertical backgrounds, walls or room interiors",
			"standing or seated people (only hands are possible)",
			"wall signage, menu boards or shopfronts",
			"stall fronts, counters or kitchen equipment seen from the side",
			"horizon, ceiling or sky",
			"background blur or bokeh behind the food",
		},
		ForbiddenTerms: []string{
			"background", "wall", "signage", "signboard", "menu board", "stall", "shopfront",
			"storefront", "vertical", "horizon", "ceiling", "sky", "bokeh", "crowd",
			"standing", "people", "patrons", "diners", "window", "counter", "street scene",
		},
	},
	angle.Hero: {
		Bucket:  angle.Hero,
		Heading: "camera tilted about 45 degrees above the table",
		CanShow: []string{
			"the dish in sharp focus with the near table edge",
			"a softly blurred background of the venue",
			"partial glimpses of surrounding tableware and drinks",
			"depth-of-field fall-off behind the plate",
		},
		CannotShow: []string{
			"the whole table laid out as a flat top-down map",
			"ceiling fixtures or hanging lights",
			"full-height standing people",
			"the horizon or open sky",
		},
		ForbiddenTerms: []string{
			"ceiling", "pendant", "flat-lay", "flat lay", "top-down", "bird's-eye",
			"directly above", "straight down", "horizon", "sky", "standing", "full-height",
		},
	},
	angle.EyeLevel: {
		Bucket:  angle.EyeLevel,
		Heading: "camera at table height looking across at the food",
		CanShow: []string{
			"the vertical background of the venue: walls, counters, signage and shopfronts",
			"people seated or standing in the distance",
			"light sources, lamps and window views",
			"the side profile of the dish: its height and layers",
		},
		CannotShow: []string{
			"the table surface spread out as a wide plane",
			"the inside of bowls or the top of drinks",
			"a top-down arrangement of several dishes",
		},
		ForbiddenTerms: []string{
			"flat-lay", "flat lay", "top-down", "overhead", "bird's-eye", "from above",
			"directly above", "straight down", "tabletop spread", "entire table surface",
		},
	},
}

// ConstraintsFor returns the physics constraints for b. Unknown buckets use
// the hero constraints, matching the prompt fallback.
func ConstraintsFor(b angle.Bucket) Constraints {
	if c, ok := physics[b]; ok {
		return c
	}
	return physics[angle.Hero]
}

// Block renders the constraints as the declarative preamble of an
// instruction.
func (c Constraints) Block() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CAMERA PHYSICS (%s, %s). These rules override everything below.\n", c.Bucket, c.Heading)
	b.WriteString("CAN SHOW:\n")
	for _, s := range c.CanShow {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("CANNOT SHOW (never add these):\n")
	for _, s := range c.CannotShow {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Violations returns the forbidden terms that appear in text.
func (c Constraints) Violations(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, term := range c.ForbiddenTerms {
		if strings.Contains(lower, term) {
			out = append(out, term)
		}
	}
	return out
}
