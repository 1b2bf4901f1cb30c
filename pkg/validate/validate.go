// Package validate runs the per-component and per-design invariant checks
// spec.md §4.9 names. The pipeline runs the component checks after
// extraction and the wire-label checks after wire resolution, both before
// the BOM is assembled.
package validate

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/tklenke/wirebom/pkg/diag"
	"github.com/tklenke/wirebom/pkg/schematic"
)

var wireLabelPattern = regexp.MustCompile(`^[A-Z][0-9]+[A-Z]?$`)

// Components checks every component instance's location-and-role field:
// presence, a valid role letter, and a non-negative amperage. Power
// symbols are exempt from the location-and-role requirement (for every
// other component, pkg/schematic/parser.go already reports a missing field
// via MissingLocationRole at parse time), so this pass only re-checks
// role/amperage sanity.
func Components(components []schematic.ComponentInstance, c *diag.Collector) {
	for _, comp := range components {
		if comp.IsPowerSymbol {
			continue
		}
		loc := fmt.Sprintf("component=%s", comp.Reference)
		if comp.Role == schematic.RoleUnknown {
			c.ErrorDiag(diag.KindMissingLocationRole, loc, "component has no valid role letter", "role must be one of L, R, S, G")
		}
		if comp.Amperage < 0 {
			c.ErrorDiag(diag.KindMalformedLocationRole, loc, "amperage must be non-negative", "")
		}
	}
}

// WireLabels checks every wire's canonical label text against the
// `[A-Z]\d+[A-Z]?` pattern spec.md §6 defines.
func WireLabels(labels map[string]string, c *diag.Collector) {
	ids := make([]string, 0, len(labels))
	for id := range labels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !wireLabelPattern.MatchString(labels[id]) {
			c.ErrorDiag(diag.KindInvalidWireLabel, fmt.Sprintf("wire=%s", id),
				fmt.Sprintf("label %q does not match [A-Z]\\d+[A-Z]?", labels[id]), "")
		}
	}
}

// Duplicates finds wires sharing the same label text. In strict mode each
// duplicate is an error; in permissive mode every duplicate after the
// first is renamed with a `-N` suffix and a warning is recorded. Returns
// the (possibly renamed) label for every wire id, keyed the same way
// labels was.
func Duplicates(labels map[string]string, c *diag.Collector) map[string]string {
	ids := make([]string, 0, len(labels))
	for id := range labels {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	seen := make(map[string]int)
	out := make(map[string]string, len(labels))
	for _, id := range ids {
		text := labels[id]
		seen[text]++
		n := seen[text]
		if n == 1 {
			out[id] = text
			continue
		}
		loc := fmt.Sprintf("wire=%s label=%s", id, text)
		if c.Permissive {
			renamed := fmt.Sprintf("%s-%d", text, n)
			out[id] = renamed
			c.Warn(diag.KindDuplicateLabel, loc, "duplicate wire label renamed", "renamed to "+renamed)
		} else {
			out[id] = text
			c.ErrorDiag(diag.KindDuplicateLabel, loc, "duplicate wire label", "")
		}
	}
	return out
}
