// Package cli holds the interactive helpers of enhance-cli: reading and
// picking photos, prompting on stdin, and printing results.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"

	"github.com/fpang/venue-enhance/internal/edit"
	"github.com/fpang/venue-enhance/internal/photo"
)

// ErrCanceled is returned when the user dismisses a picker.
var ErrCanceled = errors.New("selection canceled")

// ReadPhoto loads a photo and detects its MIME type.
func ReadPhoto(path string) (edit.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return edit.Image{}, fmt.Errorf("failed to read photo: %w", err)
	}
	if len(data) == 0 {
		return edit.Image{}, fmt.Errorf("%s is empty", path)
	}
	return edit.Image{Data: data, MIMEType: photo.DetectMIME(data, path)}, nil
}

// CollectPhotos returns every supported photo under dir, sorted. maxDepth
// of 0 means unlimited.
func CollectPhotos(dir string, maxDepth int) ([]string, error) {
	root := filepath.Clean(dir)
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable path")
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if maxDepth > 0 && depth(root, path) >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if photo.IsSupported(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// PickPhotos opens a native file dialog.
func PickPhotos(multiple bool) ([]string, error) {
	filters := zenity.FileFilters{{
		Name:     "Photos",
		Patterns: []string{"*.jpg", "*.jpeg", "*.png", "*.webp", "*.heic", "*.heif"},
	}}
	var (
		paths []string
		err   error
	)
	if multiple {
		paths, err = zenity.SelectFileMultiple(zenity.Title("Select food photos"), filters)
	} else {
		var p string
		p, err = zenity.SelectFile(zenity.Title("Select a food photo"), filters)
		paths = []string{p}
	}
	if errors.Is(err, zenity.ErrCanceled) {
		return nil, ErrCanceled
	}
	if err != nil {
		return nil, fmt.Errorf("file picker failed: %w", err)
	}
	return paths, nil
}

// Prompt asks for a line on in, returning def when the answer is empty.
func Prompt(in io.Reader, out io.Writer, label, def string) string {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	if v := strings.TrimSpace(line); v != "" {
		return v
	}
	return def
}
