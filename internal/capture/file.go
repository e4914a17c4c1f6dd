package capture

import (
	"fmt"
	"os"
	"time"

	"github.com/idilsaglam/snaptodo/internal/model"
)

// Shot is the destination of one camera capture.
type Shot struct {
	Path string
	URI  string
}

// Captured reports whether the camera left a non-empty file behind.
func (s Shot) Captured() bool {
	st, err := os.Stat(s.Path)
	return err == nil && !st.IsDir() && st.Size() > 0
}

// NewImageFile creates an empty LINK_<yyyyMMdd_HHmmss>_<random>.jpg in dir.
// The file is never removed afterwards.
func NewImageFile(dir string, now time.Time) (Shot, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Shot{}, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.CreateTemp(dir, "LINK_"+now.Format("20060102_150405")+"_*.jpg")
	if err != nil {
		return Shot{}, fmt.Errorf("create image file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return Shot{}, fmt.Errorf("close image file: %w", err)
	}
	return Shot{Path: path, URI: model.FileURI(path)}, nil
}
