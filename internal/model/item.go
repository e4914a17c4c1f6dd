package model

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// TodoItem is the domain model for a persisted todo entry.
// Items are created and deleted, never edited in place.
type TodoItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// ImageSource tells where an image reference came from.
type ImageSource string

const (
	SourceCamera  ImageSource = "camera"
	SourceGallery ImageSource = "gallery"
)

// ImageRef is an opaque handle to a local image. It only lives for the
// current session and is not tied to any TodoItem.
type ImageRef struct {
	ID      string      `json:"id"`
	URI     string      `json:"uri"`
	Path    string      `json:"path"`
	Source  ImageSource `json:"source"`
	AddedAt time.Time   `json:"addedAt"`
}

// NewImageRef builds a reference for a file on disk.
func NewImageRef(path string, src ImageSource, now time.Time) ImageRef {
	return ImageRef{
		ID:      uuid.NewString(),
		URI:     FileURI(path),
		Path:    path,
		Source:  src,
		AddedAt: now,
	}
}

// Name is the base file name, used as the display label.
func (r ImageRef) Name() string { return filepath.Base(r.Path) }

// FileURI turns a path into a file:// URI other processes can open.
func FileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
