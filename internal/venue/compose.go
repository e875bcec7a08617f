// Package venue holds the camera physics table and the venue prompt library,
// and composes them into the first half of an enhancement instruction.
//
// Prompts are authored per bucket so that no venue text asks for something
// the camera cannot see from that geometry; the package tests enforce this
// over every venue and bucket.
package venue

import "github.com/fpang/venue-enhance/internal/angle"

// Instruction returns the venue-specific text for (venueID, b) without the
// physics preamble. Unknown venues get GenericInstruction.
func Instruction(venueID string, b angle.Bucket) string {
	s, ok := Lookup(venueID)
	if !ok {
		return GenericInstruction
	}
	return s.Prompt(b)
}

// ComposeInstruction returns the physics constraints for b followed by the
// venue instruction. The result is never empty.
func ComposeInstruction(venueID string, b angle.Bucket) string {
	return ConstraintsFor(b).Block() + "\n\n" + Instruction(venueID, b)
}
