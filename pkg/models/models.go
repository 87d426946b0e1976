package models

import (
	"fmt"
	"time"
)

type PageDimensions struct {
	Width  float64
	Height float64
}

// InputItem is one candidate input file and its detected media type.
type InputItem struct {
	Path      string
	MediaType string
}

// NormalizedDoc is the PDF that stands for one input. Owned docs were
// created by the run and are deleted when it ends.
type NormalizedDoc struct {
	Path   string
	Source string
	Owned  bool
}

type RunArtifacts struct {
	Docs       []NormalizedDoc
	OutputPath string
}

// Paths returns the document paths in input order.
func (a *RunArtifacts) Paths() []string {
	paths := make([]string, len(a.Docs))
	for i, doc := range a.Docs {
		paths[i] = doc.Path
	}
	return paths
}

type SkippedInput struct {
	Path   string
	Reason string
}

type RunReport struct {
	OutputPath string
	Inputs     int
	Documents  int
	TotalPages int
	Skipped    []SkippedInput
	StartTime  time.Time
	EndTime    time.Time
}

type infoPrinter interface {
	Info(format string, args ...interface{})
}

func (r *RunReport) Print(log infoPrinter) {
	log.Info("Processing complete:")
	log.Info("- Inputs considered: %d", r.Inputs)
	log.Info("- Documents merged: %d", r.Documents)
	log.Info("- Inputs skipped: %d", len(r.Skipped))
	log.Info("- Total pages: %d", r.TotalPages)
	log.Info("- Output: %s", r.OutputPath)
	if !r.EndTime.IsZero() {
		log.Info("- Duration: %s", r.EndTime.Sub(r.StartTime).Round(time.Millisecond))
	}
}

func (s SkippedInput) String() string {
	return fmt.Sprintf("%s (%s)", s.Path, s.Reason)
}
