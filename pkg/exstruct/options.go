// Package exstruct extracts cell text, images, shape text and SmartArt
// hierarchies from .xlsx packages.
package exstruct

import (
	"log/slog"
	"time"

	"github.com/ukaji3/exstruct-md/pkg/exstruct/parser"
)

// Options configures extraction behavior.
type Options struct {
	// Logger receives progress and skip diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// CellReader supplies cell text per sheet. Defaults to the excelize reader.
	CellReader parser.CellReader
	// Media stores pictures copied out of the package. Without one every
	// picture is reported as skipped.
	Media parser.MediaSink
	// IncludeLinks attaches cell hyperlinks and fills the top-level link list.
	IncludeLinks bool
	// SkipHidden leaves hidden and very hidden sheets out of the result.
	SkipHidden bool
	// Now stamps the result. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns options that copy images under outputDir.
func DefaultOptions(outputDir string) Options {
	return Options{
		Media: NewDirSink(outputDir, DefaultImagesDir),
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) cellReader() parser.CellReader {
	if o.CellReader == nil {
		return parser.ExcelizeCellReader{IncludeLinks: o.IncludeLinks}
	}
	return o.CellReader
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}
