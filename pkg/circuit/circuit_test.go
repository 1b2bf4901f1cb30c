package circuit

import (
	"testing"

	"github.com/tklenke/wirebom/pkg/diag"
	"github.com/tklenke/wirebom/pkg/grammar"
	"github.com/tklenke/wirebom/pkg/graph"
	"github.com/tklenke/wirebom/pkg/schematic"
)

func pinNode(component string) *graph.Node {
	return &graph.Node{Kind: graph.NodeComponentPin, Component: component}
}

func TestAggregateSumsLoadCurrent(t *testing.T) {
	p1a, _ := grammar.ParseWireLabel("P1A")
	wires := []Wire{
		{WireID: "w1", Label: p1a, From: pinNode("S1"), To: pinNode("L1")},
	}
	components := ComponentsByRef([]schematic.ComponentInstance{
		{Reference: "S1", Role: schematic.RoleSource},
		{Reference: "L1", Role: schematic.RoleLoad, Amperage: 5},
	})

	c := diag.NewCollector(true)
	groups := Aggregate(wires, components, c)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].TotalCurrent != 5 || !groups[0].CurrentKnown {
		t.Errorf("got %+v, want current=5 known=true", groups[0])
	}
}

func TestAggregateRatingIsPassThrough(t *testing.T) {
	p1a, _ := grammar.ParseWireLabel("P1A")
	p1b, _ := grammar.ParseWireLabel("P1B")
	wires := []Wire{
		{WireID: "w1", Label: p1a, From: pinNode("S1"), To: pinNode("SW1")},
		{WireID: "w2", Label: p1b, From: pinNode("SW1"), To: pinNode("L1")},
	}
	components := ComponentsByRef([]schematic.ComponentInstance{
		{Reference: "S1", Role: schematic.RoleSource},
		{Reference: "SW1", Role: schematic.RoleRating},
		{Reference: "L1", Role: schematic.RoleLoad, Amperage: 8},
	})

	c := diag.NewCollector(true)
	groups := Aggregate(wires, components, c)
	if len(groups) != 1 || groups[0].TotalCurrent != 8 {
		t.Fatalf("expected one group with current=8, got %+v", groups)
	}
}

func TestAggregateSumsAcrossDisjointComponents(t *testing.T) {
	p1a, _ := grammar.ParseWireLabel("P1A")
	p1b, _ := grammar.ParseWireLabel("P1B")
	wires := []Wire{
		{WireID: "w1", Label: p1a, From: pinNode("S1"), To: pinNode("L1")},
		{WireID: "w2", Label: p1b, From: pinNode("S2"), To: pinNode("L2")},
	}
	components := ComponentsByRef([]schematic.ComponentInstance{
		{Reference: "S1", Role: schematic.RoleSource},
		{Reference: "L1", Role: schematic.RoleLoad, Amperage: 5},
		{Reference: "S2", Role: schematic.RoleSource},
		{Reference: "L2", Role: schematic.RoleLoad, Amperage: 3},
	})

	c := diag.NewCollector(true)
	groups := Aggregate(wires, components, c)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].TotalCurrent != 8 || !groups[0].CurrentKnown {
		t.Errorf("got %+v, want current=8 known=true summed across both disjoint component pairs", groups[0])
	}
}

func TestAggregateUnknownCurrentWarns(t *testing.T) {
	p1a, _ := grammar.ParseWireLabel("P1A")
	wires := []Wire{{WireID: "w1", Label: p1a, From: pinNode("A1"), To: pinNode("A2")}}
	components := ComponentsByRef(nil)

	c := diag.NewCollector(true)
	groups := Aggregate(wires, components, c)
	if groups[0].CurrentKnown {
		t.Error("expected unknown current when no load/source is present")
	}
	found := false
	for _, d := range c.Diagnostics {
		if d.Kind == diag.KindUnknownCircuitCurrent {
			found = true
		}
	}
	if !found {
		t.Error("expected an UnknownCircuitCurrent diagnostic")
	}
}

func TestSelectGaugePicksSmallestQualifying(t *testing.T) {
	g := SelectGauge(5, 60, DefaultSystemVoltage, DefaultMaxVoltageDropFraction)
	if g != 22 {
		t.Errorf("gauge = %d, want 22 for a short, light load", g)
	}
}

func TestSelectGaugeInfeasibleWhenCurrentTooHigh(t *testing.T) {
	g := SelectGauge(500, 60, DefaultSystemVoltage, DefaultMaxVoltageDropFraction)
	if g != GaugeInfeasible {
		t.Errorf("gauge = %d, want GaugeInfeasible for an unreasonably high current", g)
	}
}

func TestLengthIsManhattanPlusSlack(t *testing.T) {
	a := schematic.AircraftLocation{FS: 0, WL: 0, BL: 0}
	b := schematic.AircraftLocation{FS: 3, WL: -2, BL: 1}
	got := Length(a, b, 24)
	want := 3.0 + 2.0 + 1.0 + 24.0
	if got != want {
		t.Errorf("Length = %v, want %v", got, want)
	}
}
