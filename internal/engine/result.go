package engine

import (
	"fmt"

	"github.com/dejo1307/routetree/internal/routes"
)

// Result holds the outcome of one root resolution.
type Result struct {
	Root        string         `json:"root"`
	Routes      []*routes.Node `json:"routes"`
	Diagnostics []Diagnostic   `json:"diagnostics"`
	Stats       Stats          `json:"stats"`
}

// Stats counts what a resolution produced.
type Stats struct {
	Nodes            int    `json:"nodes"`
	Eager            int    `json:"eager"`
	LazyModules      int    `json:"lazy_modules"`
	LazyDestinations int    `json:"lazy_destinations"`
	Unknown          int    `json:"unknown"`
	TitlesFound      int    `json:"titles_found"`
	TitlesNotFound   int    `json:"titles_not_found"`
	Duration         string `json:"duration"`
}

// DiagnosticKind classifies a recoverable resolution problem.
type DiagnosticKind string

// Diagnostic kinds.
const (
	DiagUnitNotFound          DiagnosticKind = "unit-not-found"
	DiagUnrecognizedReference DiagnosticKind = "unrecognized-reference"
	DiagAliasNotFound         DiagnosticKind = "alias-not-found"
	DiagModuleFileNotFound    DiagnosticKind = "module-file-not-found"
	DiagRoutingFileNotFound   DiagnosticKind = "routing-file-not-found"
	DiagTitleNotFound         DiagnosticKind = "title-not-found"
	DiagCycleSkipped          DiagnosticKind = "cycle-skipped"
)

// Diagnostic is one warning raised while resolving. Path is the full route
// path being resolved; Subject names the unit, module, or class involved.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Path    string         `json:"path,omitempty"`
	Subject string         `json:"subject"`
	Detail  string         `json:"detail,omitempty"`
}

func (d Diagnostic) String() string {
	var msg string
	switch d.Kind {
	case DiagUnitNotFound:
		msg = fmt.Sprintf("unit not found: %s", d.Subject)
	case DiagUnrecognizedReference:
		msg = fmt.Sprintf("unrecognized reference: %s", d.Subject)
	case DiagAliasNotFound:
		msg = fmt.Sprintf("alias not in tsconfig paths: %s", d.Subject)
	case DiagModuleFileNotFound:
		msg = fmt.Sprintf("module file not found: %s", d.Subject)
	case DiagRoutingFileNotFound:
		msg = fmt.Sprintf("no routing file found for %s", d.Subject)
	case DiagTitleNotFound:
		msg = fmt.Sprintf("title not found for %s", d.Subject)
	case DiagCycleSkipped:
		msg = fmt.Sprintf("cyclic module reference skipped: %s", d.Subject)
	default:
		msg = fmt.Sprintf("%s: %s", d.Kind, d.Subject)
	}
	if d.Detail != "" {
		msg += " (" + d.Detail + ")"
	}
	if d.Path != "" {
		msg += " at " + d.Path
	}
	return msg
}

// DiagnosticsOf returns the diagnostics of the given kind.
func (r *Result) DiagnosticsOf(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
