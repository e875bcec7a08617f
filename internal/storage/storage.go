// Package storage persists source and enhanced photos and hands back a URL
// the publisher (or a browser) can fetch.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Sink stores one object under key and returns a URL for it.
type Sink interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (string, error)
}

// Key prefixes.
const (
	PrefixSource   = "source"
	PrefixEnhanced = "enhanced"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

// Key builds "<prefix>/<jobID>/<uuid><ext>". Keys are unique per call so a
// retried job never overwrites an earlier output.
func Key(prefix, jobID, mimeType string) string {
	ext, ok := extensions[mimeType]
	if !ok {
		ext = ".bin"
	}
	if jobID == "" {
		jobID = "adhoc"
	}
	return fmt.Sprintf("%s/%s/%s%s", prefix, jobID, uuid.NewString(), ext)
}

// DirSink writes objects under a local directory. It backs the CLI when no
// bucket is configured.
type DirSink struct {
	Root string
}

// Put writes data to Root/key and returns a file:// URL.
func (d DirSink) Put(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	path := filepath.Join(d.Root, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	log.Debug().Str("path", abs).Int("bytes", len(data)).Msg("Object written to disk")
	return "file://" + filepath.ToSlash(abs), nil
}

// DefaultPresignExpiry applies when S3Sink.Expiry is zero.
const DefaultPresignExpiry = time.Hour
