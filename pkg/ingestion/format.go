package ingestion

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/pkumar26/adx-runbook/pkg/consts"
)

// Format is the wire format of a source file or blob.
type Format string

const (
	// FormatCSV is comma-separated values with a header row.
	FormatCSV Format = "csv"

	// FormatJSON is line-delimited JSON records (.json or .jsonl).
	FormatJSON Format = "json"
)

// ParseFormat validates an explicit --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.Errorf("unsupported format: %s (use csv or json)", s)
	}
}

// Resolve determines the ingestion format for a local path or blob URI. An
// explicit format always wins; otherwise the format is inferred from the
// suffix (.csv, .json, .jsonl), ignoring any URI query string. A source
// whose suffix is unrecognized and that carries no explicit format is a
// user error, reported before any service connection is made.
func Resolve(source, explicit string) (Format, error) {
	if explicit != "" {
		return ParseFormat(explicit)
	}

	// SAS-signed blob URIs carry their token in the query string.
	name, _, _ := strings.Cut(source, "?")

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".json", ".jsonl":
		return FormatJSON, nil
	default:
		return "", errors.Errorf(
			"cannot determine format from extension %q: use --format csv or --format json", ext)
	}
}

// MappingFor returns the ingestion mapping reference to use for a format.
// An explicit --mapping wins; the defaults are the mapping names the setup
// sequence creates, which is what makes an ingested row parse correctly.
func MappingFor(f Format, explicit string) string {
	if explicit != "" {
		return explicit
	}

	if f == FormatCSV {
		return consts.CSVMapping
	}
	return consts.JSONMapping
}
