// Package label attaches each schematic text label to the wire segment it
// marks: the nearest segment within a configurable distance threshold.
package label

import (
	"fmt"
	"sort"

	"github.com/tklenke/wirebom/pkg/diag"
	"github.com/tklenke/wirebom/pkg/geom"
	"github.com/tklenke/wirebom/pkg/grammar"
	"github.com/tklenke/wirebom/pkg/schematic"
)

// DefaultThresholdMM is the default label-to-wire association distance,
// per spec.md §4.4.
const DefaultThresholdMM = 10.0

// Attachment is the outcome of associating every label with its wire: the
// segment's primary parsed circuit label, if any, plus any other label
// text that landed on the same segment as a note.
type Attachment struct {
	WireID  string
	Primary *grammar.ParsedLabel
	Notes   []string
}

// Associate attaches every label in labels to the nearest wire in wires
// (restricted to the same sheet) within thresholdMM, and returns one
// Attachment per wire that received at least one label.
func Associate(wires []schematic.WireSegment, labels []schematic.Label, thresholdMM float64, c *diag.Collector) map[string]Attachment {
	bySheet := make(map[string][]schematic.WireSegment)
	for _, w := range wires {
		bySheet[w.Sheet] = append(bySheet[w.Sheet], w)
	}

	type candidate struct {
		label schematic.Label
		wire  string
	}
	var hits []candidate

	for _, l := range labels {
		sheetWires := bySheet[l.Sheet]
		if len(sheetWires) == 0 {
			c.Warn(diag.KindOrphanLabel, location(l), fmt.Sprintf("label %q has no wires on its sheet", l.Text), "")
			continue
		}

		bestDist := thresholdMM
		var bestIDs []string
		found := false
		for _, w := range sheetWires {
			d := geom.PointSegmentDistance(l.Position.X, l.Position.Y, w.P1.X, w.P1.Y, w.P2.X, w.P2.Y)
			if d > thresholdMM {
				continue
			}
			switch {
			case !found || d < bestDist:
				bestDist = d
				bestIDs = []string{w.ID}
				found = true
			case d == bestDist:
				bestIDs = append(bestIDs, w.ID)
			}
		}

		if !found {
			c.Warn(diag.KindOrphanLabel, location(l), fmt.Sprintf("label %q is farther than %.1fmm from any wire", l.Text, thresholdMM), "")
			continue
		}

		wireID := bestIDs[0]
		if len(bestIDs) > 1 {
			sort.Strings(bestIDs)
			wireID = bestIDs[0]
			c.Warn(diag.KindAmbiguousLabel, location(l),
				fmt.Sprintf("label %q is equidistant from %d wires, attaching to lowest id", l.Text, len(bestIDs)), "")
		}

		hits = append(hits, candidate{label: l, wire: wireID})
	}

	byWire := make(map[string][]candidate)
	for _, h := range hits {
		byWire[h.wire] = append(byWire[h.wire], h)
	}

	result := make(map[string]Attachment, len(byWire))
	for wireID, cands := range byWire {
		sort.Slice(cands, func(i, j int) bool { return cands[i].label.Text < cands[j].label.Text })

		att := Attachment{WireID: wireID}
		for _, cand := range cands {
			if att.Primary == nil {
				if parsed, err := grammar.ParseWireLabel(cand.label.Text); err == nil {
					p := parsed
					att.Primary = &p
					continue
				}
			}
			att.Notes = append(att.Notes, cand.label.Text)
		}
		result[wireID] = att
	}

	return result
}

func location(l schematic.Label) string {
	return fmt.Sprintf("sheet=%s label=%q", l.Sheet, l.Text)
}
