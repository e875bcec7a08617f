package assets

import (
	"strings"
	"testing"
)

func TestAngleClassifierPrompt(t *testing.T) {
	if strings.TrimSpace(AngleClassifierPrompt) == "" {
		t.Fatal("angle classifier prompt is empty")
	}
	for _, want := range []string{`"overhead"`, `"hero"`, `"eye-level"`, `"confidence"`, "JSON"} {
		if !strings.Contains(AngleClassifierPrompt, want) {
			t.Errorf("prompt should mention %s", want)
		}
	}
}
