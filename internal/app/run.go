package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/ukaji3/exstruct-md/pkg/exstruct"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/models"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/output"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/parser"
)

// Result summarizes one extraction run.
type Result struct {
	JSONPath     string
	MarkdownPath string
	HTMLPath     string
	Sheets       int
	Images       int
	Report       *exstruct.Report
}

func newApplication(opts []Option) (*application, error) {
	a := &application{}
	for _, opt := range opts {
		opt(a)
	}
	if a.config == nil {
		return nil, errors.New("config is required")
	}
	if a.input == "" {
		return nil, errors.New("input path is required")
	}
	if a.logger == nil {
		a.logger = NewLogger(a.config.Log, os.Stderr)
	}
	return a, nil
}

// Run extracts the input workbook once and writes the JSON, Markdown and
// optional HTML documents into the output directory.
func Run(ctx context.Context, opts ...Option) (*Result, error) {
	a, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	return a.extract(ctx)
}

func (a *application) extract(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := a.config
	logger := a.logger

	sink := exstruct.NewDirSink(cfg.Output.Dir, cfg.Output.ImagesDir)
	opts := exstruct.Options{
		Logger:       logger,
		Media:        sink,
		IncludeLinks: cfg.Extract.IncludeLinks,
		SkipHidden:   cfg.Extract.SkipHidden,
		Now:          a.now,
	}

	logger.Info("extracting",
		slog.String("input", a.input),
		slog.String("output", cfg.Output.Dir))

	result, report, err := exstruct.Extract(a.input, opts)
	if err != nil {
		return nil, err
	}
	if err := sink.Prepare(); err != nil {
		return nil, err
	}

	data, err := output.ToJSON(result, cfg.Output.Pretty)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	if err := output.ValidateJSON(data); err != nil {
		logger.Error("output does not match schema", slog.String("error", err.Error()))
	}
	if err := sink.WriteFile(cfg.Output.JSONFile, data); err != nil {
		return nil, err
	}

	markdown := output.ToMarkdown(result)
	if err := sink.WriteFile(cfg.Output.MarkdownFile, []byte(markdown)); err != nil {
		return nil, err
	}

	if cfg.Output.SheetsDir != "" {
		if err := writeSheetFiles(sink, cfg.Output.SheetsDir, result, cfg.Output.Pretty); err != nil {
			return nil, err
		}
	}

	res := &Result{
		JSONPath:     filepath.Join(cfg.Output.Dir, cfg.Output.JSONFile),
		MarkdownPath: filepath.Join(cfg.Output.Dir, cfg.Output.MarkdownFile),
		Sheets:       len(result.Sheets),
		Images:       len(result.Images),
		Report:       report,
	}

	if cfg.Output.HTML {
		html, err := output.ToHTML(markdown)
		if err != nil {
			return nil, err
		}
		if err := sink.WriteFile(cfg.Output.HTMLFile, html); err != nil {
			return nil, err
		}
		res.HTMLPath = filepath.Join(cfg.Output.Dir, cfg.Output.HTMLFile)
	}

	logger.Info("extraction written",
		slog.String("json", res.JSONPath),
		slog.String("markdown", res.MarkdownPath),
		slog.Int("sheets", res.Sheets),
		slog.Int("images", res.Images),
		slog.Int("skipped", len(report.Skipped)),
		slog.Bool("fallback", report.FallbackUsed))

	return res, nil
}

// writeSheetFiles writes one JSON document per sheet, named
// <position>_<sanitized name>.json so that sheet names never collide.
func writeSheetFiles(sink *exstruct.DirSink, dir string, result *models.ExtractionResult, pretty bool) error {
	for i := range result.Sheets {
		sheet := &result.Sheets[i]
		data, err := output.SheetToJSON(sheet, pretty)
		if err != nil {
			return fmt.Errorf("encode sheet %q: %w", sheet.Name, err)
		}
		name := fmt.Sprintf("%02d_%s.json", i+1, parser.SanitizeName(sheet.Name))
		if err := sink.WriteFile(path.Join(dir, name), data); err != nil {
			return err
		}
	}
	return nil
}
