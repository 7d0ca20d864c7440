// Package output provides rendering of extraction results.
package output

import (
	"bytes"
	"encoding/json"

	"github.com/ukaji3/exstruct-md/pkg/exstruct/models"
)

// ToJSON serializes the extraction result. Pretty output uses two-space
// indentation. HTML characters are not escaped and the document ends with a
// newline.
func ToJSON(result *models.ExtractionResult, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SheetToJSON serializes a single sheet result the same way ToJSON does.
func SheetToJSON(sheet *models.SheetResult, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(sheet); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
