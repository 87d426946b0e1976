// Package detect classifies input files by their content.
package detect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type MediaType string

const (
	PDF  MediaType = "application/pdf"
	JPEG MediaType = "image/jpeg"
	PNG  MediaType = "image/png"
	TIFF MediaType = "image/tiff"
	GIF  MediaType = "image/gif"

	// unknown is what mimetype reports when no signature matched.
	unknown = "application/octet-stream"
)

// ErrUndetected means the content matched no known signature.
var ErrUndetected = errors.New("media type is missing")

func (m MediaType) IsPDF() bool {
	return m == PDF
}

func (m MediaType) IsImage() bool {
	switch m {
	case JPEG, PNG, TIFF, GIF:
		return true
	}
	return false
}

func (m MediaType) Supported() bool {
	return m.IsPDF() || m.IsImage()
}

func (m MediaType) String() string {
	return string(m)
}

// Detect reads the leading bytes of path and returns its media type. The
// file name and extension are never consulted.
func Detect(path string) (MediaType, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return classify(mtype)
}

func classify(mtype *mimetype.MIME) (MediaType, error) {
	if mtype == nil || mtype.String() == "" || mtype.Is(unknown) {
		return "", ErrUndetected
	}

	for _, known := range []MediaType{PDF, JPEG, PNG, TIFF, GIF} {
		if mtype.Is(string(known)) {
			return known, nil
		}
	}

	// mimetype may attach parameters such as "; charset=utf-8".
	name, _, _ := strings.Cut(mtype.String(), ";")
	return MediaType(strings.TrimSpace(name)), nil
}
