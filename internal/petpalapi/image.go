package petpalapi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest image the client will read from disk
const MaxImageSize = 20 << 20

// ErrNotAnImage is returned when a selected file does not sniff as an image
var ErrNotAnImage = errors.New("file is not an image")

// ErrEmptyImage is returned for zero-length image payloads
var ErrEmptyImage = errors.New("image file is empty")

// ImageFile is an image payload ready for upload
type ImageFile struct {
	Name        string // base file name sent in the multipart header
	ContentType string // sniffed MIME type, e.g. "image/jpeg"
	Data        []byte
}

// Size returns the payload length in bytes
func (f ImageFile) Size() int {
	return len(f.Data)
}

// NewImageFile wraps raw bytes as an ImageFile, sniffing the content type.
func NewImageFile(name string, data []byte) (ImageFile, error) {
	if len(data) == 0 {
		return ImageFile{}, ErrEmptyImage
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return ImageFile{}, fmt.Errorf("%w: detected %s", ErrNotAnImage, mtype.String())
	}

	return ImageFile{
		Name:        filepath.Base(name),
		ContentType: mtype.String(),
		Data:        data,
	}, nil
}

// LoadImageFile reads an image from disk. Reading and type checks are local
// preconditions; no network is involved.
func LoadImageFile(path string) (ImageFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ImageFile{}, fmt.Errorf("cannot open image: %w", err)
	}
	if info.IsDir() {
		return ImageFile{}, fmt.Errorf("cannot open image: %s is a directory", path)
	}
	if info.Size() > MaxImageSize {
		return ImageFile{}, fmt.Errorf("image too large: %d bytes (max %d)", info.Size(), MaxImageSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ImageFile{}, fmt.Errorf("cannot read image: %w", err)
	}

	return NewImageFile(path, data)
}
