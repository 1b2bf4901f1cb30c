package grammar

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// wireLabelLexer tokenizes the experimental-aircraft wire-marking format:
//
//	SYSTEM CIRCUIT [ SEGMENT ]   where SYSTEM, SEGMENT are one letter,
//	                             CIRCUIT is one or more digits, and
//	                             dashes between parts are accepted on input.
var wireLabelLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Letter", Pattern: `[A-Za-z]`},
	{Name: "Digits", Pattern: `[0-9]+`},
	{Name: "Dash", Pattern: `-`},
})

type wireLabelGrammar struct {
	System  string `@Letter`
	Circuit string `Dash? @Digits`
	Segment string `(Dash? @Letter)?`
}

var wireLabelParser = participle.MustBuild[wireLabelGrammar](
	participle.Lexer(wireLabelLexer),
)

// ParsedLabel is spec.md's ParsedLabel entity: a wire label decomposed
// into its system code, circuit number, and optional segment letter.
type ParsedLabel struct {
	System  string // one uppercase letter
	Circuit string // one or more digits, leading zeros preserved
	Segment string // one uppercase letter, or "" if absent
}

// Canonical renders the label in dash-free compact form, e.g. "P1A",
// which is what spec.md §4.9's `[A-Z]\d+[A-Z]?` validation pattern
// expects.
func (p ParsedLabel) Canonical() string {
	return p.System + p.Circuit + p.Segment
}

// CircuitKey identifies the (system, circuit-number) group this label's
// wire belongs to for current aggregation and gauge selection.
func (p ParsedLabel) CircuitKey() string {
	return p.System + p.Circuit
}

// ParseWireLabel parses text as a wire label. Dashes between parts are
// accepted; the System letter is upper-cased (KiCad label text is
// case-sensitive free text, but the wire-marking standard is not).
func ParseWireLabel(text string) (ParsedLabel, error) {
	parsed, err := wireLabelParser.ParseString("", text)
	if err != nil {
		return ParsedLabel{}, fmt.Errorf("invalid wire label %q: %w", text, err)
	}

	system := upperLetter(parsed.System)
	segment := ""
	if parsed.Segment != "" {
		segment = upperLetter(parsed.Segment)
	}

	return ParsedLabel{
		System:  system,
		Circuit: parsed.Circuit,
		Segment: segment,
	}, nil
}

func upperLetter(s string) string {
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0] - ('a' - 'A'))
	}
	return s
}
