// Package main provides the CLI entry point for exstruct-md.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/ukaji3/exstruct-md/internal/app"
	"github.com/ukaji3/exstruct-md/pkg/config"
	"github.com/ukaji3/exstruct-md/pkg/exstruct"
)

// configEnv names a config file when -c is not given.
const configEnv = "EXSTRUCT_CONFIG"

// Exit codes.
const (
	exitOK           = 0
	exitFailure      = 1
	exitInputMissing = 2
)

type flags struct {
	input      string
	output     string
	configPath string
	pretty     bool
	html       bool
	links      bool
	skipHidden bool
	sheetsDir  string
	logLevel   string
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stderr))
}

// execute runs the command line and maps the outcome to an exit code.
func execute(ctx context.Context, args []string, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	if errors.Is(err, exstruct.ErrInputNotFound) {
		return exitInputMissing
	}
	return exitFailure
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "exstruct-md -i <input.xlsx> [-o <output dir>]",
		Short: "Extract text, images and SmartArt from Excel files",
		Long: `exstruct-md extracts cell text, embedded images, shape text and SmartArt
hierarchies from .xlsx files and writes extracted_data.json and converted.md.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			res, err := app.Run(cmd.Context(), app.WithConfig(cfg), app.WithInput(f.input),
				app.WithLogger(app.NewLogger(cfg.Log, cmd.ErrOrStderr())))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", res.JSONPath, res.MarkdownPath)
			return nil
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch -i <input.xlsx> [-o <output dir>]",
		Short: "Re-extract whenever the input file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return app.Watch(cmd.Context(), app.WithConfig(cfg), app.WithInput(f.input),
				app.WithLogger(app.NewLogger(cfg.Log, cmd.ErrOrStderr())))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.input, "input", "i", "", "Input .xlsx file (required)")
	pf.StringVarP(&f.output, "output", "o", "output", "Output directory")
	pf.StringVarP(&f.configPath, "config", "c", "", "Config file (default: $"+configEnv+")")
	pf.BoolVar(&f.pretty, "pretty", true, "Pretty-print JSON output")
	pf.BoolVar(&f.html, "html", false, "Also write an HTML preview of the Markdown")
	pf.BoolVar(&f.links, "links", false, "Include cell hyperlinks")
	pf.BoolVar(&f.skipHidden, "skip-hidden", false, "Skip hidden and very hidden sheets")
	pf.StringVar(&f.sheetsDir, "sheets-dir", "", "Directory (inside the output directory) for per-sheet JSON files")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	_ = rootCmd.MarkPersistentFlagRequired("input")

	rootCmd.AddCommand(watchCmd)
	return rootCmd
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then any flag given explicitly on the command line.
func loadConfig(cmd *cobra.Command, f *flags) (*app.Config, error) {
	cfg := app.NewDefaultConfig()

	configPath := f.configPath
	if configPath == "" {
		configPath = os.Getenv(configEnv)
	}
	if err := config.LoadOptional(configPath, cfg); err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("output") || configPath == "" {
		cfg.Output.Dir = f.output
	}
	if changed("pretty") {
		cfg.Output.Pretty = f.pretty
	}
	if changed("html") {
		cfg.Output.HTML = f.html
	}
	if changed("links") {
		cfg.Extract.IncludeLinks = f.links
	}
	if changed("skip-hidden") {
		cfg.Extract.SkipHidden = f.skipHidden
	}
	if changed("sheets-dir") {
		cfg.Output.SheetsDir = f.sheetsDir
	}
	if changed("log-level") {
		var level slog.Level
		if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", f.logLevel, err)
		}
		cfg.Log.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
