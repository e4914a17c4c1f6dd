package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/idilsaglam/snaptodo/internal/model"
)

// ImageTypes are the extensions offered by the gallery picker.
var ImageTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}

var ErrNotImage = errors.New("not an image file")

func IsImage(path string) bool {
	return slices.Contains(ImageTypes, strings.ToLower(filepath.Ext(path)))
}

// GalleryRef validates a picked file and wraps it in a reference.
func GalleryRef(path string, now time.Time) (model.ImageRef, error) {
	path = filepath.Clean(strings.TrimSpace(path))
	if !IsImage(path) {
		return model.ImageRef{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrNotImage)
	}
	st, err := os.Stat(path)
	if err != nil {
		return model.ImageRef{}, fmt.Errorf("stat: %w", err)
	}
	if st.IsDir() {
		return model.ImageRef{}, fmt.Errorf("%s is a directory", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return model.ImageRef{}, fmt.Errorf("abs path: %w", err)
	}
	return model.NewImageRef(abs, model.SourceGallery, now), nil
}
