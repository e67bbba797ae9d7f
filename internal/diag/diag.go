package diag

import (
	"fmt"
	"strings"
)

// Severity ranks a diagnostic. Lower values sort first.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

var severityNames = [...]string{"error", "warning", "info"}

func (s Severity) String() string {
	if s < Error || s > Info {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity accepts the lower-case names used in config files and JSON.
func ParseSeverity(text string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "error":
		return Error, nil
	case "warning", "warn":
		return Warning, nil
	case "info":
		return Info, nil
	}
	return Error, fmt.Errorf("unknown severity %q (want error, warning or info)", text)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// File identifies which part of a bundle a diagnostic belongs to. The
// declaration order is the report order.
type File int

const (
	FileMetadata File = iota
	FilePipeline
	FileWiki
	FileIcon
	FileBundle
)

// Files lists every File in report order.
var Files = []File{FileMetadata, FilePipeline, FileWiki, FileIcon, FileBundle}

var fileNames = [...]string{"metadata.json", "pipeline.yaml", "wiki.MD", "logo.svg", "bundle"}

func (f File) String() string {
	if f < FileMetadata || f > FileBundle {
		return fmt.Sprintf("file(%d)", int(f))
	}
	return fileNames[f]
}

// ParseFile maps a file name back to its File value.
func ParseFile(text string) (File, error) {
	for i, name := range fileNames {
		if name == text {
			return File(i), nil
		}
	}
	return FileBundle, fmt.Errorf("unknown file %q", text)
}

func (f File) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *File) UnmarshalText(text []byte) error {
	parsed, err := ParseFile(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Code is the stable identifier of a check, e.g. MISSING_VERSION.
type Code string

// Diagnostic is one reported finding.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
	File     File     `json:"file"`
	Location string   `json:"location"`
}

func (d Diagnostic) String() string {
	if d.Location == "" {
		return fmt.Sprintf("%s %s %s: %s", d.File, d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s %s %s: %s (%s)", d.File, d.Severity, d.Code, d.Message, d.Location)
}

// New builds a diagnostic with a formatted message.
func New(file File, severity Severity, code Code, location string, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: severity,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Location: location,
	}
}

// Line formats a one-based line hint. Zero means unknown and yields "".
func Line(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("line %d", n)
}

// LineColumn formats a line and column hint.
func LineColumn(line, column int) string {
	if line <= 0 {
		return ""
	}
	if column <= 0 {
		return Line(line)
	}
	return fmt.Sprintf("line %d, column %d", line, column)
}

// Counts tallies diagnostics by severity.
func Counts(diagnostics []Diagnostic) (errors, warnings, infos int) {
	for _, d := range diagnostics {
		switch d.Severity {
		case Error:
			errors++
		case Warning:
			warnings++
		default:
			infos++
		}
	}
	return errors, warnings, infos
}
