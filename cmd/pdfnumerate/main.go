package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kpauljoseph/printmerge/internal/detect"
	"github.com/kpauljoseph/printmerge/internal/pdf"
	"github.com/kpauljoseph/printmerge/internal/tempfile"
	"github.com/kpauljoseph/printmerge/pkg/logger"
	"github.com/kpauljoseph/printmerge/pkg/version"
)

func main() {
	fontPath := flag.String("font", "", "TrueType font for the page numbers (default: first system font found)")
	pattern := flag.String("pattern", pdf.TotalPattern, "page number format with one or two %d")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <in.pdf> <out.pdf>\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Numbers are centered on each page, 15pt above the bottom edge. Older pdfnumerate")
		fmt.Fprintln(flag.CommandLine.Output(), "releases started the text at width/2 minus its length instead; this is intentional.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Print(version.GetDetailedVersionInfo("pdfnumerate"))
		return
	}

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	in, out := flag.Arg(0), flag.Arg(1)

	level := logger.LevelInfo
	switch {
	case *debug:
		level = logger.LevelTrace
	case *verbose:
		level = logger.LevelDebug
	}
	log := logger.New(logger.WithPrefix("[pdfnumerate] "), logger.WithLevel(level))

	pagePattern, err := pdf.ParsePattern(*pattern)
	if err != nil {
		log.Fatal("Invalid pattern: %v", err)
	}

	mediaType, err := detect.Detect(in)
	if err != nil {
		log.Fatal("Cannot read %s: %v", in, err)
	}
	if !mediaType.IsPDF() {
		log.Fatal("%s is %s, not a PDF", in, mediaType)
	}

	font, err := pdf.LoadFont(*fontPath, pagePattern)
	if err != nil {
		log.Fatal("%v", err)
	}
	log.Debug("Using font %s (%s)", font.Family, font.Path)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	temps := tempfile.NewManager(log)
	concatenator := pdf.NewConcatenator(pdf.NewStamper(font, pagePattern), temps, log)
	pages, err := concatenator.Concatenate(ctx, []string{in}, out)
	if cleanupErr := temps.Cleanup(); cleanupErr != nil {
		log.Warn("Failed to remove temp files: %v", cleanupErr)
	}
	if err != nil {
		stop()
		log.Fatal("Failed to number %s: %v", in, err)
	}

	log.Info("Numbered %d page(s): %s", pages, out)
}
