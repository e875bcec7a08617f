// Package assets holds prompt text embedded at compile time. Prompts live as
// plain text under prompts/ so they can be edited without touching Go code.
package assets

import (
	_ "embed"
)

// AngleClassifierPrompt asks a vision model to place a food photo in one of
// the three camera-angle buckets and answer with JSON only.
//
//go:embed prompts/angle-classifier.txt
var AngleClassifierPrompt string
