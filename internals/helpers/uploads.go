// file: internals/helpers/uploads.go
package helper

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SaveUploadFile stores a multipart file under dir with a generated name
// (uuid + original extension) and returns the stored name.
func SaveUploadFile(c *fiber.Ctx, fh *multipart.FileHeader, dir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := uuid.NewString() + ext
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := c.SaveFile(fh, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// SaveProfilePhoto decodes an uploaded image, fits it into 512x512 and
// stores it as JPEG. Non-image payloads fail decode and are rejected.
func SaveProfilePhoto(fh *multipart.FileHeader, dir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	img = imaging.Fit(img, 512, 512, imaging.Lanczos)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ".jpg"
	if err := imaging.Save(img, filepath.Join(dir, name), imaging.JPEGQuality(85)); err != nil {
		return "", err
	}
	return name, nil
}

// RemoveUploadFile deletes a stored file; a missing file is not an error.
func RemoveUploadFile(dir, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	_ = os.Remove(filepath.Join(dir, filepath.Base(name)))
}
