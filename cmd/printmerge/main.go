package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/kpauljoseph/printmerge/internal/config"
	"github.com/kpauljoseph/printmerge/internal/pipeline"
	"github.com/kpauljoseph/printmerge/pkg/logger"
	"github.com/kpauljoseph/printmerge/pkg/version"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config file (optional)")
	sourceDir := flag.String("in", "", "directory with the images and PDFs to merge (default "+config.DefaultSourceDir+")")
	output := flag.String("out", "", "output PDF, or a directory to create print-<RANDOM>.pdf in (default "+config.DefaultOutput+")")
	fontPath := flag.String("font", "", "TrueType font for the page numbers (default: first system font found)")
	pattern := flag.String("pattern", "", "page number format with one or two %d (overrides config)")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [in [out]]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Print(version.GetDetailedVersionInfo("printmerge"))
		return
	}

	log := logger.New(logger.WithPrefix("[printmerge] "))

	if envFile := config.LoadEnvFile(); envFile != "" {
		log.Debug("Loaded environment from %s", envFile)
	}

	cfg, err := config.Load(*configPath, flagSet("config"))
	if err != nil {
		log.Fatal("Error loading config: %v", err)
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatal("Invalid configuration: %v", err)
	}
	log.SetLevel(level)
	if *verbose {
		log.SetVerbose(true)
	}
	if *debug {
		log.SetLevel(logger.LevelTrace)
	}
	log.Debug("Log level: %s", log.Level())

	if *sourceDir != "" {
		cfg.SourceDir = *sourceDir
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *fontPath != "" {
		cfg.FontPath = *fontPath
	}
	if *pattern != "" {
		cfg.PageNumberPattern = *pattern
	}

	switch args := flag.Args(); len(args) {
	case 0:
	case 2:
		cfg.Output = args[1]
		fallthrough
	case 1:
		cfg.SourceDir = args[0]
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: %v", err)
	}
	pagePattern, _ := cfg.Pattern()

	if _, err := os.Stat(cfg.SourceDir); errors.Is(err, fs.ErrNotExist) {
		log.Fatal("Source directory does not exist: %s", cfg.SourceDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := pipeline.ResolveOutput(cfg.Output)
	log.Info("Merging %s into %s", cfg.SourceDir, out)

	p := pipeline.New(pipeline.Options{
		FontPath: cfg.FontPath,
		Pattern:  pagePattern,
	}, log)

	report, err := p.RunDir(ctx, cfg.SourceDir, out)
	if err != nil {
		stop()
		log.Fatal("%v", err)
	}

	for _, skipped := range report.Skipped {
		log.Debug("Skipped: %s", skipped)
	}
	report.Print(log)
	fmt.Printf("Result= %s\n", report.OutputPath)
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
