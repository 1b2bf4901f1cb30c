package graph

import (
	"testing"

	"github.com/tklenke/wirebom/pkg/diag"
	"github.com/tklenke/wirebom/pkg/grammar"
	"github.com/tklenke/wirebom/pkg/label"
	"github.com/tklenke/wirebom/pkg/schematic"
	"github.com/tklenke/wirebom/pkg/symbols"
)

func simpleDesign() *schematic.Design {
	sch := &schematic.Schematic{
		SheetID: "s.kicad_sch",
		Wires: []schematic.WireSegment{
			{ID: "w1", Sheet: "s.kicad_sch", P1: schematic.Position{X: 0, Y: 0}, P2: schematic.Position{X: 10, Y: 0}},
		},
	}
	return &schematic.Design{RootSheet: "s.kicad_sch", Sheets: map[string]*schematic.Schematic{"s.kicad_sch": sch}}
}

func TestResolveWireDirectPins(t *testing.T) {
	d := simpleDesign()
	pins := []symbols.Pin{
		{Sheet: "s.kicad_sch", Component: "S1", Number: "1", Position: schematic.Position{X: 0, Y: 0}},
		{Sheet: "s.kicad_sch", Component: "L1", Number: "1", Position: schematic.Position{X: 10, Y: 0}},
	}
	parsed, _ := grammar.ParseWireLabel("P1A")
	attachments := map[string]label.Attachment{"w1": {WireID: "w1", Primary: &parsed}}

	g := Build(d, pins, attachments)
	rw, ambiguous := ResolveWire(g, "w1")
	if ambiguous {
		t.Fatal("expected unambiguous resolution")
	}
	if rw.From == nil || rw.To == nil {
		t.Fatalf("expected both ends resolved, got %+v", rw)
	}
	gotPair := [2]string{rw.From.Component, rw.To.Component}
	if gotPair != [2]string{"S1", "L1"} && gotPair != [2]string{"L1", "S1"} {
		t.Errorf("resolved pins = %+v, want S1/L1", gotPair)
	}
}

func TestResolveWireDanglingEnd(t *testing.T) {
	d := simpleDesign()
	parsed, _ := grammar.ParseWireLabel("P1A")
	attachments := map[string]label.Attachment{"w1": {WireID: "w1", Primary: &parsed}}

	g := Build(d, nil, attachments)
	c := diag.NewCollector(true)
	resolved := ResolveAll(g, []string{"w1"}, c)

	if len(resolved) != 0 {
		t.Fatalf("expected no resolved wires, got %+v", resolved)
	}
	found := false
	for _, diagnostic := range c.Diagnostics {
		if diagnostic.Kind == diag.KindDanglingEnd {
			found = true
		}
	}
	if !found {
		t.Error("expected a DanglingEnd diagnostic")
	}
}

func TestResolveWireThroughJunction(t *testing.T) {
	sch := &schematic.Schematic{
		SheetID: "s.kicad_sch",
		Wires: []schematic.WireSegment{
			{ID: "w1", Sheet: "s.kicad_sch", P1: schematic.Position{X: 0, Y: 0}, P2: schematic.Position{X: 10, Y: 0}},
			{ID: "w2", Sheet: "s.kicad_sch", P1: schematic.Position{X: 10, Y: 0}, P2: schematic.Position{X: 20, Y: 0}},
		},
		Junctions: []schematic.Junction{{Sheet: "s.kicad_sch", Position: schematic.Position{X: 10, Y: 0}}},
	}
	d := &schematic.Design{RootSheet: "s.kicad_sch", Sheets: map[string]*schematic.Schematic{"s.kicad_sch": sch}}

	pins := []symbols.Pin{
		{Sheet: "s.kicad_sch", Component: "S1", Number: "1", Position: schematic.Position{X: 0, Y: 0}},
		{Sheet: "s.kicad_sch", Component: "L1", Number: "1", Position: schematic.Position{X: 20, Y: 0}},
	}
	parsed, _ := grammar.ParseWireLabel("P1A")
	attachments := map[string]label.Attachment{"w1": {WireID: "w1", Primary: &parsed}}

	g := Build(d, pins, attachments)
	rw, _ := ResolveWire(g, "w1")
	if rw.From == nil || rw.To == nil {
		t.Fatalf("expected traversal through the junction and unlabeled wire to reach both pins, got %+v", rw)
	}
}

// TestResolveWireCrossSheetOrientation builds spec.md §8 scenario S4: a
// main sheet carries a sheet symbol for a child lighting sheet, exposing
// sheet pin LIGHTS_PWR wired directly to breaker CB5's pin 2; the child
// sheet carries a hierarchical label of the same name, and a labeled wire
// L5A runs from that label to lamp L3's pin 1. The resolved wire must
// orient CB5.2 (reached by crossing the sheet boundary) as "from" and
// L3.1 (reached directly) as "to".
func TestResolveWireCrossSheetOrientation(t *testing.T) {
	main := &schematic.Schematic{
		SheetID: "main.kicad_sch",
		Sheets: []schematic.SheetSymbol{
			{
				Sheet:    "main.kicad_sch",
				Name:     "LIGHTS",
				FileName: "lighting.kicad_sch",
				Pins:     []schematic.SheetPin{{Name: "LIGHTS_PWR", Position: schematic.Position{X: 100, Y: 100}}},
			},
		},
	}
	lighting := &schematic.Schematic{
		SheetID: "lighting.kicad_sch",
		Wires: []schematic.WireSegment{
			{ID: "w1", Sheet: "lighting.kicad_sch", P1: schematic.Position{X: 0, Y: 0}, P2: schematic.Position{X: 50, Y: 0}},
		},
		Labels: []schematic.Label{
			{Sheet: "lighting.kicad_sch", Kind: schematic.LabelHierarchical, Text: "LIGHTS_PWR", Position: schematic.Position{X: 50, Y: 0}},
		},
	}
	d := &schematic.Design{
		RootSheet: "main.kicad_sch",
		Sheets: map[string]*schematic.Schematic{
			"main.kicad_sch":     main,
			"lighting.kicad_sch": lighting,
		},
	}

	pins := []symbols.Pin{
		{Sheet: "main.kicad_sch", Component: "CB5", Number: "2", Position: schematic.Position{X: 100, Y: 100}},
		{Sheet: "lighting.kicad_sch", Component: "L3", Number: "1", Position: schematic.Position{X: 0, Y: 0}},
	}
	parsed, _ := grammar.ParseWireLabel("L5A")
	attachments := map[string]label.Attachment{"w1": {WireID: "w1", Primary: &parsed}}

	g := Build(d, pins, attachments)
	rw, ambiguous := ResolveWire(g, "w1")
	if ambiguous {
		t.Fatal("expected unambiguous resolution")
	}
	if rw.From == nil || rw.To == nil {
		t.Fatalf("expected both ends resolved, got %+v", rw)
	}
	if rw.From.Component != "CB5" || rw.To.Component != "L3" {
		t.Errorf("resolved From=%s To=%s, want From=CB5 To=L3 per spec.md S4", rw.From.Component, rw.To.Component)
	}
}
