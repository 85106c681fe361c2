package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use csv or json)", s)
	}
}

// FormatForPath guesses the format from a file extension, defaulting to CSV.
func FormatForPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// WithExtension swaps the extension of path for the one f writes.
func WithExtension(path string, f Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(f)
}
