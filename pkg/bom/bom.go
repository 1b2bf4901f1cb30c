// Package bom assembles the final ordered wire-BOM row list: each row
// pairs a resolved wire's component-pin endpoints with its selected gauge,
// color, and engineering annotations (spec.md §4.11 "Wire BOM Assembler").
package bom

import (
	"sort"
	"strconv"

	"github.com/tklenke/wirebom/pkg/circuit"
	"github.com/tklenke/wirebom/pkg/diag"
)

// defaultSystemColors is the fallback system-code-to-insulation-color
// table consulted when a wire's system code has no project-specific
// override; colors follow common aircraft-wiring convention (power red,
// ground black, lighting yellow, avionics/radio grey, and so on).
var defaultSystemColors = map[string]string{
	"P": "RED",
	"G": "BLACK",
	"L": "YELLOW",
	"A": "GREY",
	"R": "BLUE",
	"F": "ORANGE",
	"E": "GREEN",
}

const defaultColor = "WHITE"

// Row is one assembled wire-BOM record.
type Row struct {
	Label         string
	FromComponent string
	FromPin       string
	ToComponent   string
	ToPin         string
	Gauge         int
	Color         string
	LengthIn      float64
	WireType      string
	Warnings      []string

	CurrentAmps     float64
	VoltageDropAbs  float64
	VoltageDropPct  float64
	AmpacityUtilPct float64
	ResistanceOhms  float64
	PowerLossWatts  float64
}

// ColorTable lets a settings record substitute project-specific
// system-code colors without changing the package-level default table.
type ColorTable map[string]string

// Assemble builds the ordered wire-BOM row list from every circuit group's
// wires, looking up each wire's gauge/length/current from the values
// computed earlier in the pipeline. labelText supplies each wire's final
// label text, which may differ from w.Label.Canonical() when
// validate.Duplicates renamed it; a wire absent from labelText falls back
// to its own canonical form. Rows are ordered by (system, circuit,
// segment) to satisfy the pipeline's reproducibility requirement.
func Assemble(groups []circuit.Group, lengths map[string]float64, gauges map[string]int, labelText map[string]string, colors ColorTable, systemVoltage float64, c *diag.Collector) []Row {
	var rows []Row
	var keys []sortKey

	for _, group := range groups {
		for _, w := range group.Wires {
			length := lengths[w.WireID]
			gauge := gauges[w.WireID]

			label, ok := labelText[w.WireID]
			if !ok {
				label = w.Label.Canonical()
			}

			row := Row{
				Label:         label,
				FromComponent: w.From.Component,
				FromPin:       w.From.PinNumber,
				ToComponent:   w.To.Component,
				ToPin:         w.To.PinNumber,
				Gauge:         gauge,
				Color:         lookupColor(colors, w.Label.System),
				LengthIn:      length,
				WireType:      "single conductor",
				CurrentAmps:   group.TotalCurrent,
			}

			if gauge != circuit.GaugeInfeasible {
				r := resistancePerFoot(gauge)
				row.ResistanceOhms = r * (length / 12.0)
				row.VoltageDropAbs = group.TotalCurrent * row.ResistanceOhms
				if systemVoltage > 0 {
					row.VoltageDropPct = 100 * row.VoltageDropAbs / systemVoltage
				}
				row.AmpacityUtilPct = 100 * group.TotalCurrent / ampacityFor(gauge)
				row.PowerLossWatts = row.VoltageDropAbs * group.TotalCurrent
			} else if group.CurrentKnown {
				row.Warnings = append(row.Warnings, string(diag.KindGaugeInfeasible))
			}
			if !group.CurrentKnown {
				row.Warnings = append(row.Warnings, string(diag.KindUnknownCircuitCurrent))
			}

			rows = append(rows, row)
			keys = append(keys, sortKey{system: w.Label.System, circuit: circuitNumber(w.Label.Circuit), segment: w.Label.Segment})
		}
	}

	sort.Sort(byKey{rows, keys})
	return rows
}

// sortKey is a label's (system, circuit-number, segment) ordering triple.
// Sorting on this rather than the rendered label string keeps circuit
// numbers in numeric order (P2A before P10A), which a plain string
// comparison on "P10A" vs "P2A" would get backwards.
type sortKey struct {
	system  string
	circuit int
	segment string
}

type byKey struct {
	rows []Row
	keys []sortKey
}

func (b byKey) Len() int { return len(b.rows) }
func (b byKey) Swap(i, j int) {
	b.rows[i], b.rows[j] = b.rows[j], b.rows[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
func (b byKey) Less(i, j int) bool {
	a, c := b.keys[i], b.keys[j]
	if a.system != c.system {
		return a.system < c.system
	}
	if a.circuit != c.circuit {
		return a.circuit < c.circuit
	}
	return a.segment < c.segment
}

func circuitNumber(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

func lookupColor(overrides ColorTable, system string) string {
	if overrides != nil {
		if c, ok := overrides[system]; ok {
			return c
		}
	}
	if c, ok := defaultSystemColors[system]; ok {
		return c
	}
	return defaultColor
}

// resistancePerFoot and ampacityFor re-expose circuit's private reference
// tables through its public selection API so the assembler never
// duplicates the AWG data.
func resistancePerFoot(gauge int) float64 {
	return circuit.SelectGaugeResistance(gauge)
}

func ampacityFor(gauge int) float64 {
	return circuit.SelectGaugeAmpacity(gauge)
}
