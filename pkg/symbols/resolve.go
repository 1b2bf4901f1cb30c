// Package symbols resolves each component instance's pins to absolute
// schematic-plane positions: the library symbol's local pin offsets,
// rotated and optionally mirrored per the owning instance, then translated
// by the instance's placement.
package symbols

import (
	"fmt"
	"math"
	"sort"

	"github.com/tklenke/wirebom/pkg/diag"
	"github.com/tklenke/wirebom/pkg/schematic"
)

// Pin is one component pin resolved to its absolute position on a sheet.
type Pin struct {
	Sheet     string
	Component string // reference designator
	Number    string
	Name      string
	Position  schematic.Position
}

// Resolve computes absolute pin positions for every component instance in
// design, against the library symbol definitions carried on each sheet.
// A component whose LibID has no matching LibSymbol on its own sheet, or
// whose pin number is missing from that LibSymbol, is an unresolved symbol
// (fatal in both modes, per spec.md §7): it is returned as a Go error so
// the pipeline can abort, and no diagnostic is recorded on c.
func Resolve(d *schematic.Design, c *diag.Collector) ([]Pin, error) {
	var pins []Pin

	for _, sheetID := range sortedSheetIDs(d) {
		sch := d.Sheets[sheetID]
		libIndex := make(map[string]schematic.LibSymbol, len(sch.LibSymbols))
		for _, lib := range sch.LibSymbols {
			libIndex[lib.Name] = lib
		}

		for _, inst := range sch.Symbols {
			lib, ok := libIndex[inst.LibID]
			if !ok {
				return nil, fmt.Errorf("unresolved symbol: component %s on sheet %s references unknown lib_id %q",
					inst.Reference, sheetID, inst.LibID)
			}

			pinByNumber := make(map[string]schematic.SymbolPin, len(lib.Pins))
			for _, p := range lib.Pins {
				pinByNumber[p.Number] = p
			}

			for _, ref := range inst.Pins {
				local, ok := pinByNumber[ref.Number]
				if !ok {
					return nil, fmt.Errorf("unresolved symbol: component %s on sheet %s has no pin numbered %q in %s",
						inst.Reference, sheetID, ref.Number, inst.LibID)
				}
				pins = append(pins, Pin{
					Sheet:     sheetID,
					Component: inst.Reference,
					Number:    ref.Number,
					Name:      local.Name,
					Position:  AbsolutePin(inst, local),
				})
			}
		}
	}

	return pins, nil
}

// AbsolutePin applies inst's rotation and optional horizontal mirror to
// local's offset, then translates by inst's position, rounding the result
// to the 0.01mm coordinate tolerance spec.md's data model specifies.
func AbsolutePin(inst schematic.ComponentInstance, local schematic.SymbolPin) schematic.Position {
	x, y := local.Position.X, local.Position.Y

	if inst.Mirror {
		x = -x
	}

	switch normalizeAngle(inst.Angle) {
	case 90:
		x, y = -y, x
	case 180:
		x, y = -x, -y
	case 270:
		x, y = y, -x
	}

	return schematic.Position{
		X: round2(inst.Position.X + x),
		Y: round2(inst.Position.Y + y),
	}
}

func normalizeAngle(a schematic.Angle) int {
	deg := math.Mod(float64(a), 360)
	if deg < 0 {
		deg += 360
	}
	switch {
	case deg >= 45 && deg < 135:
		return 90
	case deg >= 135 && deg < 225:
		return 180
	case deg >= 225 && deg < 315:
		return 270
	default:
		return 0
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedSheetIDs(d *schematic.Design) []string {
	ids := make([]string, 0, len(d.Sheets))
	for id := range d.Sheets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
