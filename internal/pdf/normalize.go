package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/kpauljoseph/printmerge/internal/detect"
	"github.com/kpauljoseph/printmerge/internal/tempfile"
	"github.com/kpauljoseph/printmerge/pkg/logger"
	"github.com/kpauljoseph/printmerge/pkg/models"
)

// A4 in points.
const (
	A4Width  = 595.0
	A4Height = 842.0

	ImageMargin = 30.0
)

var errNonPositiveScale = errors.New("image does not fit on the page")

// Placement is where an image lands on its page, in points from the
// top-left corner.
type Placement struct {
	Page   models.PageDimensions
	X, Y   float64
	Width  float64
	Height float64
	// Percent is the scale applied to the pixel size.
	Percent float64
}

// LayoutImage picks the page orientation and scale for an image of
// imgW x imgH pixels, one pixel counting as one point. The page turns
// landscape only for images wider than A4 and wider than tall.
func LayoutImage(imgW, imgH int) (Placement, error) {
	if imgW <= 0 || imgH <= 0 {
		return Placement{}, fmt.Errorf("invalid image size %dx%d", imgW, imgH)
	}

	w, h := float64(imgW), float64(imgH)
	page := models.PageDimensions{Width: A4Width, Height: A4Height}
	if w > A4Width && w > h {
		page = models.PageDimensions{Width: A4Height, Height: A4Width}
	}

	sx := (page.Width-ImageMargin)/w*100 - 2
	sy := (page.Height-ImageMargin)/h*100 - 4
	percent := min(sx, sy)
	if percent <= 0 {
		return Placement{}, fmt.Errorf("%w: scale %.2f%%", errNonPositiveScale, percent)
	}

	return Placement{
		Page:    page,
		X:       ImageMargin,
		Y:       ImageMargin,
		Width:   w * percent / 100,
		Height:  h * percent / 100,
		Percent: percent,
	}, nil
}

// Normalizer turns raster images into single-page PDFs placed next to
// their source.
type Normalizer struct {
	temps  *tempfile.Manager
	logger *logger.Logger
}

func NewNormalizer(temps *tempfile.Manager, logger *logger.Logger) *Normalizer {
	return &Normalizer{temps: temps, logger: logger}
}

// Normalize writes item as a one-page PDF to a temp path owned by the run
// and returns that path.
func (n *Normalizer) Normalize(ctx context.Context, item models.InputItem) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	n.logger.Debug("Converting image: %s", item.Path)

	data, err := os.ReadFile(item.Path)
	if err != nil {
		return "", conversionError(item.Path, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", conversionError(item.Path, fmt.Errorf("failed to read image header: %w", err))
	}

	placement, err := LayoutImage(cfg.Width, cfg.Height)
	if err != nil {
		return "", conversionError(item.Path, err)
	}
	n.logger.Trace("Image %dx%d px on %.0fx%.0f pt page at %.2f%%",
		cfg.Width, cfg.Height, placement.Page.Width, placement.Page.Height, placement.Percent)

	imageType, body, err := embeddable(detect.MediaType(item.MediaType), data)
	if err != nil {
		return "", conversionError(item.Path, err)
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: placement.Page.Width, Ht: placement.Page.Height},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.AddPage()

	options := fpdf.ImageOptions{ImageType: imageType}
	doc.RegisterImageOptionsReader(item.Path, options, body)
	doc.ImageOptions(item.Path, placement.X, placement.Y, placement.Width, placement.Height, false, options, 0, "")
	if doc.Err() {
		return "", conversionError(item.Path, doc.Error())
	}

	out := n.temps.Allocate(item.Path)
	if err := doc.OutputFileAndClose(out); err != nil {
		return "", conversionError(item.Path, fmt.Errorf("failed to write %s: %w", out, err))
	}

	n.logger.Debug("Converted %s -> %s", item.Path, out)
	return out, nil
}

// embeddable returns image data fpdf can embed. JPEG goes in untouched;
// everything else is decoded and re-encoded as an opaque 8-bit PNG.
func embeddable(mediaType detect.MediaType, data []byte) (string, io.Reader, error) {
	if mediaType == detect.JPEG {
		return "JPG", bytes.NewReader(data), nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	flat := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), src, bounds.Min, draw.Over)

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, flat); err != nil {
		return "", nil, fmt.Errorf("failed to re-encode image: %w", err)
	}
	return "PNG", buf, nil
}

func conversionError(path string, err error) error {
	return NewError(KindImageConversion, "image conversion failed", path, err)
}
