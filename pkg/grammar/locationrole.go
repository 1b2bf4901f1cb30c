// Package grammar implements the two small textual grammars spec.md §6
// defines: the per-component location-and-role custom field, and the
// wire-marking label format. Both are built the way pkg/bsdl builds its
// VHDL-flavored BSDL grammar in the teacher corpus: a participle.Lexer
// paired with a struct-tagged participle.Parser, rather than hand-rolled
// string splitting.
package grammar

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// locationRoleLexer tokenizes the value of a component's designated
// location-and-role field:
//
//	<original-footprint-text> '|' '(' FS ',' WL ',' BL ')' ROLE [ AMPS ]
var locationRoleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Pipe", Pattern: `\|`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(\.[0-9]+)?`},
	{Name: "Role", Pattern: `[LRSG]`},
})

// locationRoleField is the participle grammar for the field value after
// the free-form footprint-text prefix has been split off by
// ParseLocationRole; footprint text is unconstrained and easiest to peel
// off with a plain string split rather than a lexer rule.
type locationRoleField struct {
	FS       float64  `Pipe LParen @Number Comma`
	WL       float64  `@Number Comma`
	BL       float64  `@Number RParen`
	Role     string   `@Role`
	Amps     *float64 `@Number?`
}

var locationRoleParser = participle.MustBuild[locationRoleField](
	participle.Lexer(locationRoleLexer),
	participle.Elide("Whitespace"),
)

// LocationRole is the parsed result of a component's location-and-role
// field.
type LocationRole struct {
	Footprint string
	FS, WL, BL float64
	Role      string // one of "L", "R", "S", "G"
	Amps      float64
	HasAmps   bool
}

// ParseLocationRole splits raw on the first '|' (footprint text may itself
// contain no '|', so the first occurrence is also the only one) and
// parses the remainder with the location-role grammar.
func ParseLocationRole(raw string) (LocationRole, error) {
	idx := strings.IndexByte(raw, '|')
	if idx < 0 {
		return LocationRole{}, fmt.Errorf("missing '|' separator in location-role field %q", raw)
	}

	footprint := strings.TrimSpace(raw[:idx])
	rest := raw[idx:] // keep the leading '|' for the grammar

	parsed, err := locationRoleParser.ParseString("", rest)
	if err != nil {
		return LocationRole{}, fmt.Errorf("malformed location-role field %q: %w", raw, err)
	}

	result := LocationRole{
		Footprint: footprint,
		FS:        parsed.FS,
		WL:        parsed.WL,
		BL:        parsed.BL,
		Role:      parsed.Role,
	}
	if parsed.Amps != nil {
		result.Amps = *parsed.Amps
		result.HasAmps = true
	}
	return result, nil
}
