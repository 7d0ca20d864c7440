package exstruct

// Report lists what a run left out and why. A run with skipped units still
// succeeds.
type Report struct {
	// Skipped holds one entry per unit that failed and was dropped.
	Skipped []*ExtractionError
	// HiddenSheets names the sheets left out by Options.SkipHidden.
	HiddenSheets []string
	// FallbackUsed is set when the workbook topology could not be read and
	// the package was treated as a single sheet.
	FallbackUsed bool
}

func (r *Report) skip(e *ExtractionError) {
	r.Skipped = append(r.Skipped, e)
}

// OK reports whether nothing was skipped.
func (r *Report) OK() bool {
	return len(r.Skipped) == 0 && !r.FallbackUsed
}
