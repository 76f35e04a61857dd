package portability

import (
	"strings"
)

// FormatDetectionError is returned when a document matches no known collection
// format, or more than one.
type FormatDetectionError struct {
	// Candidates holds the formats that matched when detection was ambiguous.
	Candidates []Format
	Message    string
	Cause      error
}

func (e *FormatDetectionError) Error() string {
	msg := "format detection: " + e.Message
	if len(e.Candidates) > 0 {
		names := make([]string, len(e.Candidates))
		for i, c := range e.Candidates {
			names[i] = string(c)
		}
		msg += " (candidates: " + strings.Join(names, ", ") + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *FormatDetectionError) Unwrap() error {
	return e.Cause
}

// MalformedCollectionError is returned when a document was recognized as a
// format but is missing required structure.
type MalformedCollectionError struct {
	Format Format
	// Location is a JSON pointer into the source document ("" for the root).
	Location string
	Message  string
	Cause    error
}

func (e *MalformedCollectionError) Error() string {
	msg := e.Message
	if e.Format != FormatUnknown {
		msg = string(e.Format) + ": " + msg
	}
	if e.Location != "" {
		msg += " (at " + e.Location + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MalformedCollectionError) Unwrap() error {
	return e.Cause
}

// UnsupportedTargetFormatError is returned when converting to a format that has
// no exporter.
type UnsupportedTargetFormatError struct {
	Format Format
}

func (e *UnsupportedTargetFormatError) Error() string {
	if e.Format == FormatUnknown {
		return "unsupported target format: none given"
	}
	return "unsupported target format " + string(e.Format)
}
