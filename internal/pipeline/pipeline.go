// Package pipeline turns a directory of scans and PDFs into one numbered
// print document.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kpauljoseph/printmerge/internal/detect"
	"github.com/kpauljoseph/printmerge/internal/pdf"
	"github.com/kpauljoseph/printmerge/internal/scanner"
	"github.com/kpauljoseph/printmerge/internal/tempfile"
	"github.com/kpauljoseph/printmerge/pkg/logger"
	"github.com/kpauljoseph/printmerge/pkg/models"
)

type Options struct {
	// FontPath is the TrueType font for the stamp. Empty selects a
	// system font.
	FontPath string
	// Pattern defaults to pdf.DefaultPattern.
	Pattern pdf.Pattern
}

type Pipeline struct {
	opts   Options
	logger *logger.Logger
}

func New(opts Options, logger *logger.Logger) *Pipeline {
	if opts.Pattern.IsZero() {
		opts.Pattern = pdf.MustParsePattern(pdf.DefaultPattern)
	}
	return &Pipeline{opts: opts, logger: logger}
}

// ResolveOutput returns output, or a fresh print-<RAND>.pdf inside it when
// output is an existing directory.
func ResolveOutput(output string) string {
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return tempfile.OutputPath(output)
	}
	return output
}

// RunDir runs the pipeline over the files directly inside dir.
func (p *Pipeline) RunDir(ctx context.Context, dir, output string) (*models.RunReport, error) {
	inputs, err := scanner.New(p.logger).FindInputs(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to produce the print document: %w", err)
	}
	return p.Run(ctx, inputs, output)
}

// Run merges inputs, in order, into output and stamps every page. Images
// are converted to temp PDFs first; those are removed before Run returns,
// whatever the outcome.
func (p *Pipeline) Run(ctx context.Context, inputs []string, output string) (*models.RunReport, error) {
	report := &models.RunReport{
		OutputPath: output,
		Inputs:     len(inputs),
		StartTime:  time.Now(),
	}

	font, err := pdf.LoadFont(p.opts.FontPath, p.opts.Pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to produce the print document: %w", err)
	}
	p.logger.Debug("Using font %s (%s)", font.Family, font.Path)

	temps := tempfile.NewManager(p.logger)
	defer func() {
		if err := temps.Cleanup(); err != nil {
			p.logger.Warn("Failed to remove temp files: %v", err)
		}
	}()

	artifacts, err := p.normalize(ctx, temps, inputs, output, report)
	if err != nil {
		return nil, fmt.Errorf("failed to produce the print document: %w", err)
	}

	concatenator := pdf.NewConcatenator(pdf.NewStamper(font, p.opts.Pattern), temps, p.logger)
	pages, err := concatenator.Concatenate(ctx, artifacts.Paths(), output)
	if err != nil {
		return nil, fmt.Errorf("failed to produce the print document: %w", err)
	}

	if abs, err := filepath.Abs(output); err == nil {
		report.OutputPath = abs
	}
	report.Documents = len(artifacts.Docs)
	report.TotalPages = pages
	report.EndTime = time.Now()
	return report, nil
}

func (p *Pipeline) normalize(ctx context.Context, temps *tempfile.Manager, inputs []string, output string, report *models.RunReport) (*models.RunArtifacts, error) {
	artifacts := &models.RunArtifacts{OutputPath: output}
	normalizer := pdf.NewNormalizer(temps, p.logger)

	for _, path := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if tempfile.IsTemp(path) {
			p.logger.Debug("Skipping temp leftover: %s", path)
			continue
		}
		if samePath(path, output) {
			p.logger.Debug("Skipping the output file: %s", path)
			continue
		}

		doc, err := p.prepare(ctx, normalizer, path)
		if err != nil {
			if pdf.IsFatal(err) {
				return nil, err
			}
			p.logger.Info("Skipping %s: %v", path, err)
			report.Skipped = append(report.Skipped, models.SkippedInput{Path: path, Reason: err.Error()})
			continue
		}
		artifacts.Docs = append(artifacts.Docs, doc)
	}
	return artifacts, nil
}

// prepare returns the PDF that stands for the input at path.
func (p *Pipeline) prepare(ctx context.Context, normalizer *pdf.Normalizer, path string) (models.NormalizedDoc, error) {
	mediaType, err := detect.Detect(path)
	if err != nil {
		message := "failed to detect media type"
		if errors.Is(err, detect.ErrUndetected) {
			message = "media type is missing"
		}
		return models.NormalizedDoc{}, pdf.NewError(pdf.KindDetectionFailure, message, path, err)
	}
	p.logger.Trace("%s: %s", path, mediaType)

	switch {
	case mediaType.IsPDF():
		return models.NormalizedDoc{Path: path, Source: path}, nil
	case mediaType.IsImage():
		out, err := normalizer.Normalize(ctx, models.InputItem{Path: path, MediaType: mediaType.String()})
		if err != nil {
			return models.NormalizedDoc{}, err
		}
		return models.NormalizedDoc{Path: out, Source: path, Owned: true}, nil
	default:
		return models.NormalizedDoc{}, pdf.NewError(pdf.KindUnsupportedInput, fmt.Sprintf("unsupported media type %s", mediaType), path, nil)
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
