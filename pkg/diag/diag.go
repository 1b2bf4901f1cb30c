// Package diag defines the structured diagnostic shared by every pipeline
// stage (spec.md §7). Each stage appends to a common Collector instead of
// returning its own bespoke error type, so the final BOM result always
// carries one flat, ordered diagnostics list regardless of which stage
// raised them.
package diag

import "fmt"

// Severity classifies how a Diagnostic affects the pipeline's outcome.
type Severity int

const (
	// Warning diagnostics never change strict/permissive behavior; they are
	// always recorded and the pipeline always continues past them.
	Warning Severity = iota
	// Error diagnostics are recorded in both modes. In strict mode, the
	// pipeline aborts before producing a BOM once any Error is present; in
	// permissive mode the stage substitutes a documented default and
	// continues.
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Kind identifies which of spec.md §7's named diagnostic conditions fired.
type Kind string

const (
	KindMalformedSource          Kind = "MalformedSource"
	KindUnresolvedSymbol         Kind = "UnresolvedSymbol"
	KindMissingLocationRole      Kind = "MissingLocationRole"
	KindMalformedLocationRole    Kind = "MalformedLocationRole"
	KindInvalidWireLabel         Kind = "InvalidWireLabel"
	KindOrphanLabel              Kind = "OrphanLabel"
	KindAmbiguousLabel           Kind = "AmbiguousLabel"
	KindDuplicateLabel           Kind = "DuplicateLabel"
	KindDanglingEnd              Kind = "DanglingEnd"
	KindAmbiguousResolution      Kind = "AmbiguousResolution"
	KindMultipointLabelMismatch  Kind = "MultipointLabelMismatch"
	KindUnknownCircuitCurrent    Kind = "UnknownCircuitCurrent"
	KindGaugeInfeasible          Kind = "GaugeInfeasible"
	KindRatingExceeded           Kind = "RatingExceeded"
)

// Diagnostic is one reportable condition surfaced by a pipeline stage.
type Diagnostic struct {
	Severity   Severity
	Kind       Kind
	Location   string // e.g. "sheet=main.kicad_sch component=S1" or "wire=P1A"
	Message    string
	Suggestion string
}

func (d Diagnostic) String() string {
	if d.Suggestion == "" {
		return fmt.Sprintf("[%s] %s at %s: %s", d.Severity, d.Kind, d.Location, d.Message)
	}
	return fmt.Sprintf("[%s] %s at %s: %s (%s)", d.Severity, d.Kind, d.Location, d.Message, d.Suggestion)
}

// Collector accumulates diagnostics across every stage of a single pipeline
// run. Stages that hold a fatal condition (spec.md §7's MalformedSource and
// UnresolvedSymbol) return a Go error directly instead of recording it here;
// everything else funnels through Add.
type Collector struct {
	Permissive  bool
	Diagnostics []Diagnostic
}

// NewCollector returns a Collector configured for the given mode.
func NewCollector(permissive bool) *Collector {
	return &Collector{Permissive: permissive}
}

// Add records a diagnostic.
func (c *Collector) Add(sev Severity, kind Kind, location, message, suggestion string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{
		Severity:   sev,
		Kind:       kind,
		Location:   location,
		Message:    message,
		Suggestion: suggestion,
	})
}

// Warn is shorthand for Add(Warning, ...).
func (c *Collector) Warn(kind Kind, location, message, suggestion string) {
	c.Add(Warning, kind, location, message, suggestion)
}

// ErrorDiag is shorthand for Add(Error, ...). Named to avoid colliding with
// the built-in error type at call sites that also return one.
func (c *Collector) ErrorDiag(kind Kind, location, message, suggestion string) {
	c.Add(Error, kind, location, message, suggestion)
}

// HasErrors reports whether any Error-severity diagnostic has been
// recorded so far.
func (c *Collector) HasErrors() bool {
	for _, d := range c.Diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
