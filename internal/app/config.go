package app

import (
	"fmt"
	"log/slog"
	"path"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ukaji3/exstruct-md/pkg/exstruct"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Output  OutputConfig  `yaml:"output"`
	Extract ExtractConfig `yaml:"extract"`
	Watch   WatchConfig   `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return c.Watch.Validate()
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  slog.Level `yaml:"level"`
	Format string     `yaml:"format"`
}

// Validate validates the logging configuration.
func (c *LogConfig) Validate() error {
	if c.Format == "" {
		c.Format = LogFormatText
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// OutputConfig controls what is written to the output directory.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	ImagesDir    string `yaml:"images_dir"`
	JSONFile     string `yaml:"json_file"`
	MarkdownFile string `yaml:"markdown_file"`
	HTMLFile     string `yaml:"html_file"`
	SheetsDir    string `yaml:"sheets_dir"`
	Pretty       bool   `yaml:"pretty"`
	HTML         bool   `yaml:"html"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.ImagesDir, validation.Required, validation.By(plainName)),
		validation.Field(&c.JSONFile, validation.Required, validation.By(plainName)),
		validation.Field(&c.MarkdownFile, validation.Required, validation.By(plainName)),
		validation.Field(&c.HTMLFile, validation.When(c.HTML, validation.Required), validation.By(plainName)),
		validation.Field(&c.SheetsDir, validation.By(plainName)),
	)
}

// ExtractConfig holds extraction switches.
type ExtractConfig struct {
	IncludeLinks bool `yaml:"include_links"`
	SkipHidden   bool `yaml:"skip_hidden"`
}

// WatchConfig holds watch mode configuration.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
	)
}

// plainName rejects names that would leave the output directory.
func plainName(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if s != path.Base(s) || s == "." || s == ".." {
		return fmt.Errorf("must be a plain file name, got %q", s)
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: LogFormatText,
		},
		Output: OutputConfig{
			Dir:          "output",
			ImagesDir:    exstruct.DefaultImagesDir,
			JSONFile:     "extracted_data.json",
			MarkdownFile: "converted.md",
			HTMLFile:     "converted.html",
			Pretty:       true,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}
