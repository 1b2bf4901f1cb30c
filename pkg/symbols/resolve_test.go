package symbols

import (
	"testing"

	"github.com/tklenke/wirebom/pkg/diag"
	"github.com/tklenke/wirebom/pkg/schematic"
)

func TestAbsolutePinRotation(t *testing.T) {
	inst := schematic.ComponentInstance{Position: schematic.Position{X: 100, Y: 100}, Angle: 90}
	local := schematic.SymbolPin{Position: schematic.Position{X: 5, Y: 0}}

	got := AbsolutePin(inst, local)
	want := schematic.Position{X: 100, Y: 105}
	if got != want {
		t.Errorf("AbsolutePin(90deg) = %+v, want %+v", got, want)
	}
}

func TestAbsolutePinMirror(t *testing.T) {
	inst := schematic.ComponentInstance{Position: schematic.Position{X: 0, Y: 0}, Mirror: true}
	local := schematic.SymbolPin{Position: schematic.Position{X: 5, Y: 3}}

	got := AbsolutePin(inst, local)
	want := schematic.Position{X: -5, Y: 3}
	if got != want {
		t.Errorf("AbsolutePin(mirror) = %+v, want %+v", got, want)
	}
}

func TestResolveUnresolvedSymbolIsFatal(t *testing.T) {
	sch := &schematic.Schematic{
		SheetID: "s.kicad_sch",
		Symbols: []schematic.ComponentInstance{
			{Reference: "R1", LibID: "Device:R", Pins: []schematic.PinRef{{Number: "1"}}},
		},
	}
	d := &schematic.Design{RootSheet: "s.kicad_sch", Sheets: map[string]*schematic.Schematic{"s.kicad_sch": sch}}

	_, err := Resolve(d, diag.NewCollector(true))
	if err == nil {
		t.Fatal("expected an error for an unresolvable lib_id")
	}
}

func TestResolveComputesAbsolutePositions(t *testing.T) {
	sch := &schematic.Schematic{
		SheetID: "s.kicad_sch",
		LibSymbols: []schematic.LibSymbol{
			{Name: "Device:R", Pins: []schematic.SymbolPin{
				{Number: "1", Name: "~", Position: schematic.Position{X: 0, Y: 3.81}},
				{Number: "2", Name: "~", Position: schematic.Position{X: 0, Y: -3.81}},
			}},
		},
		Symbols: []schematic.ComponentInstance{
			{
				Reference: "R1", LibID: "Device:R",
				Position: schematic.Position{X: 50, Y: 50},
				Pins:     []schematic.PinRef{{Number: "1"}, {Number: "2"}},
			},
		},
	}
	d := &schematic.Design{RootSheet: "s.kicad_sch", Sheets: map[string]*schematic.Schematic{"s.kicad_sch": sch}}

	pins, err := Resolve(d, diag.NewCollector(true))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(pins) != 2 {
		t.Fatalf("expected 2 resolved pins, got %d", len(pins))
	}
	if pins[0].Position.Y != 53.81 {
		t.Errorf("pin 1 Y = %v, want 53.81", pins[0].Position.Y)
	}
}
