// Package photo inspects uploaded food photos: format sniffing, EXIF camera
// hints via imagemeta, and downscaled JPEG previews for the vision model.
package photo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// PreviewMaxDimension is the longest edge sent to the vision model. Angle
// classification needs composition, not detail.
const PreviewMaxDimension = 1024

// MaxPixels caps the decoded size of a preview source. 50 MP covers every
// current phone sensor; anything larger is not decoded at all.
const MaxPixels = 50_000_000

// ErrTooLarge is returned by Preview when the image exceeds MaxPixels.
var ErrTooLarge = errors.New("image exceeds the preview pixel limit")

// Extensions maps supported upload extensions to MIME types.
var Extensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// Info is what can be learned about a photo without a model.
type Info struct {
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	Format      string    `json:"format,omitempty"`
	CameraMake  string    `json:"cameraMake,omitempty"`
	CameraModel string    `json:"cameraModel,omitempty"`
	Taken       time.Time `json:"taken,omitempty"`
}

// DetectMIME sniffs data, falling back to the filename extension for
// formats the sniffer does not know (HEIC).
func DetectMIME(data []byte, filename string) string {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if mime, ok := Extensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return mime
	}
	return sniffed
}

// IsSupported reports whether the extension of filename is an accepted photo type.
func IsSupported(filename string) bool {
	_, ok := Extensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Inspect decodes dimensions and, when present, EXIF camera data. Missing
// or unreadable metadata is not an error; only the fields found are set.
func Inspect(data []byte) Info {
	var info Info
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		info.Width, info.Height, info.Format = cfg.Width, cfg.Height, format
	}

	exifData, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Msg("No EXIF metadata in photo")
		return info
	}
	info.CameraMake = strings.TrimSpace(exifData.Make)
	info.CameraModel = strings.TrimSpace(exifData.Model)
	info.Taken = exifData.DateTimeOriginal()
	return info
}

// Hint formats Info as a one-line note for the classifier prompt.
func (i Info) Hint() string {
	var parts []string
	if i.Width > 0 && i.Height > 0 {
		orientation := "landscape"
		switch {
		case i.Height > i.Width:
			orientation = "portrait"
		case i.Height == i.Width:
			orientation = "square"
		}
		parts = append(parts, fmt.Sprintf("%dx%d %s", i.Width, i.Height, orientation))
	}
	if camera := strings.TrimSpace(i.CameraMake + " " + i.CameraModel); camera != "" {
		parts = append(parts, "camera "+camera)
	}
	return strings.Join(parts, ", ")
}

// Hint inspects data and returns its prompt note. It satisfies angle.HintFunc.
func Hint(data []byte) string {
	return Inspect(data).Hint()
}

// Preview returns a JPEG no larger than maxDim on its longest edge. Formats
// the standard decoders cannot read (HEIC) are returned unchanged so the
// provider can try them itself. Images over MaxPixels fail with ErrTooLarge
// before any pixel is decoded.
func Preview(data []byte, mimeType string, maxDim int) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		if cfg.Width*cfg.Height > MaxPixels {
			return nil, "", fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
		}
		w, h := fitDimensions(cfg.Width, cfg.Height, maxDim)
		if w == cfg.Width && h == cfg.Height && mimeType == "image/jpeg" {
			return data, mimeType, nil
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if mimeType == "image/heic" || mimeType == "image/heif" {
			return data, mimeType, nil
		}
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := fitDimensions(bounds.Dx(), bounds.Dy(), maxDim)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, "", fmt.Errorf("failed to encode preview: %w", err)
	}
	log.Debug().
		Int("origWidth", bounds.Dx()).
		Int("origHeight", bounds.Dy()).
		Int("width", w).
		Int("height", h).
		Int("bytes", buf.Len()).
		Msg("Preview generated")
	return buf.Bytes(), "image/jpeg", nil
}

// VisionPreview is Preview at PreviewMaxDimension, falling back to the
// original bytes when no preview can be made. It satisfies angle.PreviewFunc.
func VisionPreview(data []byte, mimeType string) ([]byte, string) {
	out, outMIME, err := Preview(data, mimeType, PreviewMaxDimension)
	if err != nil {
		log.Debug().Err(err).Msg("Preview failed, sending original bytes")
		return data, mimeType
	}
	return out, outMIME
}

// fitDimensions scales (w, h) so the longest edge is at most maxDim,
// preserving aspect ratio. Smaller images are left alone.
func fitDimensions(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}
	if w >= h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}
