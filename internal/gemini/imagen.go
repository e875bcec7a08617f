package gemini

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/venue-enhance/internal/edit"
)

// Reference IDs tie the prompt to the two reference images.
const (
	rawReferenceID  = 1
	maskReferenceID = 2
)

// Imagen performs mask-based edits through the Vertex AI Imagen capability
// model. It satisfies edit.Provider.
type Imagen struct {
	models *genai.Models
	model  string
}

// NewImagen wraps a Vertex AI client for model.
func NewImagen(client *genai.Client, model string) *Imagen {
	return &Imagen{models: client.Models, model: model}
}

// Edit sends one raw reference and one mask configuration and returns the
// first generated image.
func (c *Imagen) Edit(ctx context.Context, req edit.Request) (*edit.Image, error) {
	refs := buildReferences(req)
	cfg := buildConfig(req)

	log.Debug().
		Str("model", c.model).
		Str("editMode", string(cfg.EditMode)).
		Int32("baseSteps", *cfg.BaseSteps).
		Int("imageBytes", len(req.Reference.Data)).
		Msg("Calling Imagen edit")

	resp, err := c.models.EditImage(ctx, c.model, req.Prompt, refs, cfg)
	if err != nil {
		return nil, providerError(err)
	}
	return firstImage(resp)
}

func buildReferences(req edit.Request) []genai.ReferenceImage {
	raw := genai.NewRawReferenceImage(&genai.Image{
		ImageBytes: req.Reference.Data,
		MIMEType:   req.Reference.MIMEType,
	}, rawReferenceID)

	maskCfg := &genai.MaskReferenceConfig{MaskMode: maskMode(req.Mask.Mode)}
	for _, class := range req.Mask.SegmentationClasses {
		maskCfg.SegmentationClasses = append(maskCfg.SegmentationClasses, int32(class))
	}
	mask := genai.NewMaskReferenceImage(nil, maskReferenceID, maskCfg)

	return []genai.ReferenceImage{raw, mask}
}

func buildConfig(req edit.Request) *genai.EditImageConfig {
	steps := int32(req.Steps)
	return &genai.EditImageConfig{
		EditMode:       editMode(req.Mode),
		BaseSteps:      &steps,
		NumberOfImages: 1,
		AspectRatio:    req.AspectRatio,
	}
}

func editMode(m edit.Mode) genai.EditMode {
	switch m {
	case edit.ModeRemoval:
		return genai.EditModeInpaintRemoval
	case edit.ModeOutpaint:
		return genai.EditModeOutpaint
	default:
		return genai.EditModeInpaintInsertion
	}
}

func maskMode(m edit.MaskMode) genai.MaskReferenceMode {
	switch m {
	case edit.MaskForeground:
		return genai.MaskReferenceModeMaskModeForeground
	case edit.MaskSemantic:
		return genai.MaskReferenceModeMaskModeSemantic
	default:
		return genai.MaskReferenceModeMaskModeBackground
	}
}

func firstImage(resp *genai.EditImageResponse) (*edit.Image, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, &edit.ProviderError{Message: "Imagen returned no images"}
	}
	gen := resp.GeneratedImages[0]
	if gen.Image == nil || len(gen.Image.ImageBytes) == 0 {
		msg := "Imagen returned an empty image"
		if gen.RAIFilteredReason != "" {
			msg = fmt.Sprintf("image blocked by safety filters: %s", gen.RAIFilteredReason)
		}
		return nil, &edit.ProviderError{Message: msg}
	}
	mime := gen.Image.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &edit.Image{Data: gen.Image.ImageBytes, MIMEType: mime}, nil
}
