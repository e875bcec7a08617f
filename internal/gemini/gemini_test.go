package gemini

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"

	"github.com/fpang/venue-enhance/internal/edit"
)

func TestBuildReferences(t *testing.T) {
	req := edit.Request{
		Prompt:    "add steam",
		Reference: edit.Image{Data: []byte("jpeg"), MIMEType: "image/jpeg"},
		Mask:      edit.MaskConfig{Mode: edit.MaskSemantic, SegmentationClasses: []int{7, 9}},
	}
	refs := buildReferences(req)
	if len(refs) != 2 {
		t.Fatalf("expected raw and mask references, got %d", len(refs))
	}

	raw, ok := refs[0].(*genai.RawReferenceImage)
	if !ok {
		t.Fatalf("first reference is %T", refs[0])
	}
	if raw.ReferenceImage == nil || string(raw.ReferenceImage.ImageBytes) != "jpeg" {
		t.Error("raw reference should carry the source bytes")
	}

	mask, ok := refs[1].(*genai.MaskReferenceImage)
	if !ok {
		t.Fatalf("second reference is %T", refs[1])
	}
	if mask.ReferenceImage != nil {
		t.Error("mask reference must not carry pixels")
	}
	if mask.Config.MaskMode != genai.MaskReferenceModeMaskModeSemantic {
		t.Errorf("mask mode = %s", mask.Config.MaskMode)
	}
	if len(mask.Config.SegmentationClasses) != 2 || mask.Config.SegmentationClasses[1] != 9 {
		t.Errorf("classes = %v", mask.Config.SegmentationClasses)
	}
}

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		mode      edit.Mode
		steps     int
		wantMode  genai.EditMode
		wantSteps int32
	}{
		{edit.ModeInsertion, 35, genai.EditModeInpaintInsertion, 35},
		{edit.ModeRemoval, 12, genai.EditModeInpaintRemoval, 12},
		{edit.ModeOutpaint, 12, genai.EditModeOutpaint, 12},
	}
	for _, tt := range tests {
		cfg := buildConfig(edit.Request{Mode: tt.mode, Steps: tt.steps, AspectRatio: "1:1"})
		if cfg.EditMode != tt.wantMode || *cfg.BaseSteps != tt.wantSteps {
			t.Errorf("%s: mode = %s steps = %d", tt.mode, cfg.EditMode, *cfg.BaseSteps)
		}
		if cfg.NumberOfImages != 1 || cfg.AspectRatio != "1:1" {
			t.Errorf("%s: config = %+v", tt.mode, cfg)
		}
	}
}

func TestMaskModeMapping(t *testing.T) {
	for in, want := range map[edit.MaskMode]genai.MaskReferenceMode{
		edit.MaskBackground: genai.MaskReferenceModeMaskModeBackground,
		edit.MaskForeground: genai.MaskReferenceModeMaskModeForeground,
		edit.MaskSemantic:   genai.MaskReferenceModeMaskModeSemantic,
		"":                  genai.MaskReferenceModeMaskModeBackground,
	} {
		if got := maskMode(in); got != want {
			t.Errorf("maskMode(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestFirstImage(t *testing.T) {
	if _, err := firstImage(nil); err == nil {
		t.Error("nil response should fail")
	}

	filtered := &genai.EditImageResponse{GeneratedImages: []*genai.GeneratedImage{{RAIFilteredReason: "food looks unsafe"}}}
	_, err := firstImage(filtered)
	var pe *edit.ProviderError
	if !errors.As(err, &pe) || pe.Message == "" {
		t.Fatalf("expected provider error, got %v", err)
	}

	ok := &genai.EditImageResponse{GeneratedImages: []*genai.GeneratedImage{{Image: &genai.Image{ImageBytes: []byte("png")}}}}
	img, err := firstImage(ok)
	if err != nil || img.MIMEType != "image/png" || string(img.Data) != "png" {
		t.Errorf("img = %+v, err = %v", img, err)
	}
}

func TestProviderError(t *testing.T) {
	err := providerError(fmt.Errorf("wrapped: %w", &genai.APIError{Code: 403, Message: "billing disabled"}))
	var pe *edit.ProviderError
	if !errors.As(err, &pe) || pe.StatusCode != 403 || pe.Message != "billing disabled" {
		t.Errorf("got %v", err)
	}

	plain := errors.New("dial tcp: timeout")
	if providerError(plain) != plain {
		t.Error("non-API errors should pass through")
	}
}
