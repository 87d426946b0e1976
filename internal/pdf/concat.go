package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/kpauljoseph/printmerge/internal/tempfile"
	"github.com/kpauljoseph/printmerge/pkg/logger"
	"github.com/kpauljoseph/printmerge/pkg/models"
)

const mediaBox = "/MediaBox"

var ErrNoPages = errors.New("document has no pages")

// Concatenator copies every page of its inputs, in order, into one output
// document and stamps each page as it is added.
type Concatenator struct {
	stamper *Stamper
	temps   *tempfile.Manager
	logger  *logger.Logger
}

// NewConcatenator returns a Concatenator that keeps the classic-xref
// copies it makes of stream-compressed inputs in temps.
func NewConcatenator(stamper *Stamper, temps *tempfile.Manager, logger *logger.Logger) *Concatenator {
	return &Concatenator{stamper: stamper, temps: temps, logger: logger}
}

// source is an input as the importer will read it.
type source struct {
	path       string
	importPath string
	pages      int
}

func readContext(path string) (*model.Context, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, NewError(KindPDFRead, "failed to read PDF", path, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, NewError(KindPDFRead, "failed to count pages", path, err)
	}
	return ctx, nil
}

// PageCount reads path with pdfcpu and returns its number of pages.
func PageCount(path string) (int, error) {
	ctx, err := readContext(path)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

// UsesStreams reports whether path stores its cross-reference table or any
// objects in streams (PDF 1.5+ layout).
func UsesStreams(path string) (bool, error) {
	ctx, err := readContext(path)
	if err != nil {
		return false, err
	}
	return usesStreams(ctx), nil
}

func usesStreams(ctx *model.Context) bool {
	return ctx.Read != nil && (ctx.Read.UsingXRefStreams || ctx.Read.UsingObjectStreams)
}

// inspect validates path and counts its pages. gofpdi only parses classic
// xref tables, so an input with xref or object streams is rewritten by
// pdfcpu into an owned temp and imported from there.
func (c *Concatenator) inspect(path string) (source, error) {
	ctx, err := readContext(path)
	if err != nil {
		return source{}, err
	}

	src := source{path: path, importPath: path, pages: ctx.PageCount}
	if src.pages == 0 || !usesStreams(ctx) {
		return src, nil
	}

	out := c.temps.Allocate(path)
	conf := model.NewDefaultConfiguration()
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	if err := api.OptimizeFile(path, out, conf); err != nil {
		return source{}, NewError(KindPDFRead, "failed to rewrite cross-reference streams", path, err)
	}

	c.logger.Debug("Rewrote %s with a classic xref table: %s", path, out)
	src.importPath = out
	return src, nil
}

// Concatenate writes inputs to output and returns the number of pages
// written. On error no output file is left behind.
func (c *Concatenator) Concatenate(ctx context.Context, inputs []string, output string) (int, error) {
	sources := make([]source, 0, len(inputs))
	total := 0
	for _, path := range inputs {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		src, err := c.inspect(path)
		if err != nil {
			return 0, err
		}
		c.logger.Debug("%s: %d page(s)", path, src.pages)
		sources = append(sources, src)
		total += src.pages
	}
	if total == 0 {
		return 0, NewError(KindPDFWrite, "nothing to write", output, ErrNoPages)
	}

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	c.stamper.Register(doc)
	if doc.Err() {
		return 0, NewError(KindFontLoad, "failed to embed font", c.stamper.font.Path, doc.Error())
	}

	// Template names are numbered per importer, so a second importer on the
	// same document would overwrite the first one's pages. One importer
	// serves every input.
	importer := gofpdi.NewImporter()
	index := 0
	for _, src := range sources {
		if src.pages == 0 {
			c.logger.Debug("Skipping %s: no pages", src.path)
			continue
		}

		for pageNum := 1; pageNum <= src.pages; pageNum++ {
			if err := ctx.Err(); err != nil {
				return 0, err
			}

			index++
			dims, err := c.importPage(doc, importer, src, pageNum)
			if err != nil {
				return 0, err
			}

			text := c.stamper.Stamp(doc, PageStampContext{
				Index:  index,
				Total:  total,
				Width:  dims.Width,
				Height: dims.Height,
			})
			c.logger.Trace("Page %d (%s #%d, %.2f x %.2f): %q", index, src.path, pageNum, dims.Width, dims.Height, text)
		}
	}

	if doc.Err() {
		return 0, NewError(KindPDFWrite, "failed to build document", output, doc.Error())
	}

	if err := c.write(doc, output); err != nil {
		return 0, err
	}

	c.logger.Debug("Wrote %d page(s) to %s", index, output)
	return index, nil
}

// importPage adds a page of the imported page's size to doc and draws the
// imported page on it. gofpdi panics on input it cannot parse.
func (c *Concatenator) importPage(doc *fpdf.Fpdf, importer *gofpdi.Importer, src source, pageNum int) (dims models.PageDimensions, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewError(KindPDFRead, fmt.Sprintf("failed to import page %d", pageNum), src.path, fmt.Errorf("%v", r))
		}
	}()

	tpl := importer.ImportPage(doc, src.importPath, pageNum, mediaBox)
	if box, ok := importer.GetPageSizes()[pageNum][mediaBox]; ok {
		dims = models.PageDimensions{Width: box["w"], Height: box["h"]}
	}

	doc.AddPageFormat("P", fpdf.SizeType{Wd: dims.Width, Ht: dims.Height})
	importer.UseImportedTemplate(doc, tpl, 0, 0, dims.Width, dims.Height)
	return dims, nil
}

func (c *Concatenator) write(doc *fpdf.Fpdf, output string) (err error) {
	f, err := os.Create(output)
	if err != nil {
		return NewError(KindPDFWrite, "failed to create output", output, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = NewError(KindPDFWrite, "failed to close output", output, closeErr)
		}
		if err != nil {
			os.Remove(output)
		}
	}()

	if err := doc.Output(f); err != nil {
		return NewError(KindPDFWrite, "failed to write output", output, err)
	}
	return nil
}
