package sanitizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mcncl/jsontab/internal/models"
)

// Control characters that break common CSV and spreadsheet consumers.
// LF (0x0A) and TAB (0x09) are deliberately outside the ranges so
// multi-line and tabbed cells survive.
var controlChars = regexp.MustCompile(`[\x00-\x08\x0B-\x1F\x7F]`)

// lineEndings collapses CRLF pairs and lone CRs to a single LF.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Sanitizer rewrites table cells in place for safe textual export
type Sanitizer struct{}

// NewSanitizer creates a new Sanitizer instance
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Sanitize cleans every cell of the table in place. String cells get
// their line endings normalized and control characters stripped.
// Structured values that survived flattening are serialized to compact
// JSON and cleaned the same way, so running the pass twice is a no-op.
// Numbers, booleans and nulls pass through unchanged. The pass never
// fails: a value that cannot be serialized degrades to its default
// string form instead of raising.
func (s *Sanitizer) Sanitize(table *models.Table) {
	for _, row := range table.Rows {
		for key, value := range row {
			row[key] = s.sanitizeValue(value)
		}
	}
}

func (s *Sanitizer) sanitizeValue(value models.JSONValue) models.JSONValue {
	switch v := value.(type) {
	case string:
		return s.sanitizeString(v)
	case models.JSONObject, models.JSONArray:
		text, err := models.CompactJSON(v)
		if err != nil {
			return s.sanitizeString(fmt.Sprintf("%v", v))
		}
		return s.sanitizeString(text)
	default:
		return value
	}
}

func (s *Sanitizer) sanitizeString(str string) string {
	return controlChars.ReplaceAllString(lineEndings.Replace(str), "")
}
