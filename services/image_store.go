package services

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxImageBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStore writes uploaded images below Root, which is served at
// URLPrefix.
type ImageStore struct {
	Root      string
	URLPrefix string
	now       func() time.Time
}

func NewImageStore(root, urlPrefix string) *ImageStore {
	return &ImageStore{Root: root, URLPrefix: strings.TrimRight(urlPrefix, "/"), now: time.Now}
}

// SaveBase64 accepts raw base64 or a data URL and returns the public URL.
func (s *ImageStore) SaveBase64(b64, subdir string) (string, error) {
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+7:]
	}
	b64 = strings.TrimSpace(b64)
	if b64 == "" {
		return "", validationError("image is required")
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", wrapError(ErrValidation, "image must be base64 encoded", err)
	}
	if len(data) > maxImageBytes {
		return "", validationError("image is larger than 5 MB")
	}

	ext, ok := imageExtensions[http.DetectContentType(data)]
	if !ok {
		return "", validationError("image must be JPEG, PNG, WebP or GIF")
	}

	dir := filepath.Join(s.Root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	filename := fmt.Sprintf("%d%s", s.now().UnixNano(), ext)
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return s.URLPrefix + "/" + filepath.ToSlash(filepath.Join(subdir, filename)), nil
}
