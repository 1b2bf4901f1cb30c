package graph

import (
	"testing"

	"github.com/tklenke/wirebom/pkg/diag"
	"github.com/tklenke/wirebom/pkg/grammar"
	"github.com/tklenke/wirebom/pkg/label"
	"github.com/tklenke/wirebom/pkg/schematic"
	"github.com/tklenke/wirebom/pkg/symbols"
)

// Three wires fan out from one junction to three component pins: a valid
// N-1 star needs exactly 2 of the 3 branches labeled.
func TestCheckMultipointAcceptsValidStar(t *testing.T) {
	sch := &schematic.Schematic{
		SheetID: "s.kicad_sch",
		Wires: []schematic.WireSegment{
			{ID: "w1", Sheet: "s.kicad_sch", P1: schematic.Position{X: 10, Y: 10}, P2: schematic.Position{X: 0, Y: 10}},
			{ID: "w2", Sheet: "s.kicad_sch", P1: schematic.Position{X: 10, Y: 10}, P2: schematic.Position{X: 20, Y: 10}},
			{ID: "w3", Sheet: "s.kicad_sch", P1: schematic.Position{X: 10, Y: 10}, P2: schematic.Position{X: 10, Y: 20}},
		},
		Junctions: []schematic.Junction{{Sheet: "s.kicad_sch", Position: schematic.Position{X: 10, Y: 10}}},
	}
	d := &schematic.Design{RootSheet: "s.kicad_sch", Sheets: map[string]*schematic.Schematic{"s.kicad_sch": sch}}
	pins := []symbols.Pin{
		{Sheet: "s.kicad_sch", Component: "L1", Number: "1", Position: schematic.Position{X: 0, Y: 10}},
		{Sheet: "s.kicad_sch", Component: "L2", Number: "1", Position: schematic.Position{X: 20, Y: 10}},
		{Sheet: "s.kicad_sch", Component: "GND", Number: "1", Position: schematic.Position{X: 10, Y: 20}},
	}
	p1, _ := grammar.ParseWireLabel("P1A")
	p2, _ := grammar.ParseWireLabel("P2A")
	attachments := map[string]label.Attachment{
		"w1": {WireID: "w1", Primary: &p1},
		"w2": {WireID: "w2", Primary: &p2},
	}

	g := Build(d, pins, attachments)
	c := diag.NewCollector(true)
	CheckMultipoint(g, c)

	if c.HasErrors() {
		t.Errorf("unexpected errors for a valid N-1 star: %+v", c.Diagnostics)
	}
	for _, d := range c.Diagnostics {
		if d.Kind == diag.KindMultipointLabelMismatch {
			t.Errorf("unexpected MultipointLabelMismatch: %+v", d)
		}
	}
}

func TestCheckMultipointRejectsWrongLabelCount(t *testing.T) {
	sch := &schematic.Schematic{
		SheetID: "s.kicad_sch",
		Wires: []schematic.WireSegment{
			{ID: "w1", Sheet: "s.kicad_sch", P1: schematic.Position{X: 10, Y: 10}, P2: schematic.Position{X: 0, Y: 10}},
			{ID: "w2", Sheet: "s.kicad_sch", P1: schematic.Position{X: 10, Y: 10}, P2: schematic.Position{X: 20, Y: 10}},
			{ID: "w3", Sheet: "s.kicad_sch", P1: schematic.Position{X: 10, Y: 10}, P2: schematic.Position{X: 10, Y: 20}},
		},
		Junctions: []schematic.Junction{{Sheet: "s.kicad_sch", Position: schematic.Position{X: 10, Y: 10}}},
	}
	d := &schematic.Design{RootSheet: "s.kicad_sch", Sheets: map[string]*schematic.Schematic{"s.kicad_sch": sch}}
	pins := []symbols.Pin{
		{Sheet: "s.kicad_sch", Component: "L1", Number: "1", Position: schematic.Position{X: 0, Y: 10}},
		{Sheet: "s.kicad_sch", Component: "L2", Number: "1", Position: schematic.Position{X: 20, Y: 10}},
		{Sheet: "s.kicad_sch", Component: "GND", Number: "1", Position: schematic.Position{X: 10, Y: 20}},
	}
	p1, _ := grammar.ParseWireLabel("P1A")
	attachments := map[string]label.Attachment{
		"w1": {WireID: "w1", Primary: &p1},
	}

	g := Build(d, pins, attachments)
	c := diag.NewCollector(false)
	CheckMultipoint(g, c)

	if !c.HasErrors() {
		t.Error("expected a MultipointLabelMismatch error when only 1 of 3 branches is labeled")
	}
}
