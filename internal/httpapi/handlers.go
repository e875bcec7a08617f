package httpapi

import (
	"net/http"
	"strings"

	"github.com/fpang/venue-enhance/internal/angle"
	"github.com/fpang/venue-enhance/internal/edit"
	"github.com/fpang/venue-enhance/internal/engine"
	"github.com/fpang/venue-enhance/internal/facet"
	"github.com/fpang/venue-enhance/internal/photo"
	"github.com/fpang/venue-enhance/internal/style"
)

// imageInput is a photo carried inline; Data is base64 in JSON.
type imageInput struct {
	Data     []byte `json:"image"`
	MIMEType string `json:"mimeType,omitempty"`
	Filename string `json:"filename,omitempty"`
}

func (in imageInput) toImage() (edit.Image, bool) {
	if len(in.Data) == 0 {
		return edit.Image{}, false
	}
	mime := in.MIMEType
	if mime == "" {
		mime = photo.DetectMIME(in.Data, in.Filename)
	}
	return edit.Image{Data: in.Data, MIMEType: mime}, true
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": h.version})
}

func (h *Handler) venues(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"venues": engine.ListVenues()})
}

func (h *Handler) facets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, facet.Options())
}

func (h *Handler) detectAngle(w http.ResponseWriter, r *http.Request) {
	var in imageInput
	if err := decodeJSON(w, r, &in); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	img, ok := in.toImage()
	if !ok {
		httpError(w, http.StatusBadRequest, "image is required")
		return
	}
	respondJSON(w, http.StatusOK, h.engine.DetectAngle(r.Context(), img.Data, img.MIMEType))
}

type promptRequest struct {
	Venue     string           `json:"venue"`
	Bucket    string           `json:"bucket"`
	Technical *facet.Selection `json:"technical,omitempty"`
	FoodTag   string           `json:"foodTag,omitempty"`
}

type promptResponse struct {
	Prompt string       `json:"prompt"`
	Bucket angle.Bucket `json:"bucket"`
}

func (h *Handler) buildPrompt(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	b := angle.ParseBucket(req.Bucket)
	if b == angle.Unknown {
		b = angle.Hero
	}
	respondJSON(w, http.StatusOK, promptResponse{
		Prompt: engine.BuildEnhancementPrompt(req.Venue, b, req.Technical, strings.TrimSpace(req.FoodTag)),
		Bucket: b,
	})
}

func (h *Handler) validateStyle(w http.ResponseWriter, r *http.Request) {
	var sel style.Selection
	if err := decodeJSON(w, r, &sel); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, engine.ValidateStyleSelection(sel))
}

func (h *Handler) validateAdvanced(w http.ResponseWriter, r *http.Request) {
	var sel style.MultiSelection
	if err := decodeJSON(w, r, &sel); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, engine.ValidateAdvancedSelection(sel))
}

type editRequest struct {
	imageInput
	Prompt  string       `json:"prompt"`
	Options edit.Options `json:"options"`
}

type editResponse struct {
	Job       edit.Job `json:"job"`
	Steps     int      `json:"steps"`
	Image     []byte   `json:"image"`
	MIMEType  string   `json:"mimeType"`
	ElapsedMs int64    `json:"elapsedMs"`
}

func (h *Handler) runEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	img, ok := req.toImage()
	if !ok {
		httpError(w, http.StatusBadRequest, "image is required")
		return
	}
	res, err := h.engine.RunEdit(r.Context(), img, req.Prompt, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, editResponse{
		Job:       res.Job,
		Steps:     res.Steps,
		Image:     res.Image.Data,
		MIMEType:  res.Image.MIMEType,
		ElapsedMs: res.Duration.Milliseconds(),
	})
}

type enhanceRequest struct {
	imageInput
	Venue     string           `json:"venue"`
	Bucket    string           `json:"bucket,omitempty"`
	Technical *facet.Selection `json:"technical,omitempty"`
	FoodTag   string           `json:"foodTag,omitempty"`
	Style     *style.Selection `json:"style,omitempty"`
	Edit      edit.Options     `json:"edit"`
	Publish   bool             `json:"publish,omitempty"`
	Caption   string           `json:"caption,omitempty"`
}

type enhanceResponse struct {
	*engine.Outcome
	// Image is only inlined when no sink stored the result.
	Image []byte `json:"image,omitempty"`
}

func (h *Handler) enhance(w http.ResponseWriter, r *http.Request) {
	var req enhanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	img, ok := req.toImage()
	if !ok {
		httpError(w, http.StatusBadRequest, "image is required")
		return
	}
	var bucket angle.Bucket
	if req.Bucket != "" {
		bucket = angle.ParseBucket(req.Bucket)
	}

	out, err := h.engine.Enhance(r.Context(), engine.Request{
		Image:     img,
		VenueID:   req.Venue,
		Bucket:    bucket,
		Technical: req.Technical,
		FoodTag:   req.FoodTag,
		Style:     req.Style,
		Edit:      req.Edit,
		Publish:   req.Publish,
		Caption:   req.Caption,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	resp := enhanceResponse{Outcome: out}
	if out.ResultURL == "" && out.Edit != nil {
		resp.Image = out.Edit.Image.Data
	}
	respondJSON(w, http.StatusOK, resp)
}

type publishRequest struct {
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption,omitempty"`
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.engine.Publish(r.Context(), req.ImageURL, req.Caption)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
