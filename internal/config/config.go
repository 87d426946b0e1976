// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kpauljoseph/printmerge/internal/pdf"
	"github.com/kpauljoseph/printmerge/pkg/logger"
)

const (
	DefaultPath      = "printmerge.yaml"
	DefaultSourceDir = "./sourceDir"
	DefaultOutput    = "./print.pdf"

	EnvPrefix = "PRINTMERGE_"
)

type Config struct {
	SourceDir         string `yaml:"source_dir"`
	Output            string `yaml:"output"`
	FontPath          string `yaml:"font_path"`
	PageNumberPattern string `yaml:"page_number_pattern"`
	LogLevel          string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		SourceDir:         DefaultSourceDir,
		Output:            DefaultOutput,
		PageNumberPattern: pdf.DefaultPattern,
		LogLevel:          logger.LevelInfo.String(),
	}
}

// LoadEnvFile loads the first of paths that exists into the process
// environment and returns it. Variables already set are not overwritten.
func LoadEnvFile(paths ...string) string {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

// Load returns the defaults overlaid with the YAML file at path and then
// with PRINTMERGE_* environment variables. A missing file is an error only
// when mustExist is set.
func Load(path string, mustExist bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !mustExist:
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.SourceDir = getEnv(EnvPrefix+"SOURCE_DIR", c.SourceDir)
	c.Output = getEnv(EnvPrefix+"OUTPUT", c.Output)
	c.FontPath = getEnv(EnvPrefix+"FONT_PATH", c.FontPath)
	c.PageNumberPattern = getEnv(EnvPrefix+"PAGE_NUMBER_PATTERN", c.PageNumberPattern)
	c.LogLevel = getEnv(EnvPrefix+"LOG_LEVEL", c.LogLevel)
}

// Pattern parses PageNumberPattern.
func (c *Config) Pattern() (pdf.Pattern, error) {
	return pdf.ParsePattern(c.PageNumberPattern)
}

// Level parses LogLevel.
func (c *Config) Level() (logger.LogLevel, error) {
	return logger.ParseLevel(c.LogLevel)
}

func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return errors.New("source directory must not be empty")
	}
	if c.Output == "" {
		return errors.New("output path must not be empty")
	}
	if _, err := c.Pattern(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
