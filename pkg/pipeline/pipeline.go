// Package pipeline wires every stage — reader, extractor, symbol resolver,
// label associator, graph builder, wire resolver, circuit aggregator,
// gauge selector, validator, and BOM assembler — into the single top-down
// run spec.md §2 and §5 describe.
package pipeline

import (
	"errors"

	"github.com/tklenke/wirebom/pkg/bom"
	"github.com/tklenke/wirebom/pkg/circuit"
	"github.com/tklenke/wirebom/pkg/diag"
	"github.com/tklenke/wirebom/pkg/graph"
	"github.com/tklenke/wirebom/pkg/label"
	"github.com/tklenke/wirebom/pkg/schematic"
	"github.com/tklenke/wirebom/pkg/symbols"
	"github.com/tklenke/wirebom/pkg/validate"
)

// ErrStrictModeFailed is returned when strict mode is enabled and any
// stage recorded an Error-severity diagnostic; the caller should treat
// this as spec.md §7's "no BOM emitted" outcome.
var ErrStrictModeFailed = errors.New("strict mode: aborting, diagnostics contain an error")

// Settings is the settings record the external CLI collaborator supplies,
// per spec.md §6.
type Settings struct {
	InputPath           string
	OutputDir           string // consumed only by the external report/CSV writers
	Permissive          bool
	SystemVoltage       float64
	SlackInches         float64
	LabelDistanceThresholdMM float64
	ColorOverrides      bom.ColorTable
}

// Result is everything the pipeline returns: the assembled wire-BOM rows,
// the full component list (for report emitters that want parsed fields),
// and the accumulated diagnostics list.
type Result struct {
	Rows        []bom.Row
	Components  []schematic.ComponentInstance
	Diagnostics []diag.Diagnostic
}

func (s Settings) withDefaults() Settings {
	if s.SystemVoltage == 0 {
		s.SystemVoltage = circuit.DefaultSystemVoltage
	}
	if s.SlackInches == 0 {
		s.SlackInches = circuit.DefaultSlackInches
	}
	if s.LabelDistanceThresholdMM == 0 {
		s.LabelDistanceThresholdMM = label.DefaultThresholdMM
	}
	return s
}

// Run executes the full pipeline against settings.
func Run(settings Settings) (Result, error) {
	s := settings.withDefaults()
	c := diag.NewCollector(s.Permissive)

	design, err := schematic.LoadDesign(s.InputPath, c)
	if err != nil {
		return Result{Diagnostics: c.Diagnostics}, err
	}
	if abort(s, c) {
		return Result{Diagnostics: c.Diagnostics}, ErrStrictModeFailed
	}

	pins, err := symbols.Resolve(design, c)
	if err != nil {
		return Result{Diagnostics: c.Diagnostics}, err
	}

	wires := design.AllWires()
	var allLabels []schematic.Label
	for _, sch := range design.Sheets {
		allLabels = append(allLabels, sch.Labels...)
	}
	attachments := label.Associate(wires, allLabels, s.LabelDistanceThresholdMM, c)

	components := design.AllComponents()
	validate.Components(components, c)

	g := graph.Build(design, pins, attachments)

	labeledWireIDs := make([]string, 0, len(attachments))
	for wireID, att := range attachments {
		if att.Primary != nil {
			labeledWireIDs = append(labeledWireIDs, wireID)
		}
	}

	resolved := graph.ResolveAll(g, labeledWireIDs, c)
	graph.CheckMultipoint(g, c)

	labelText := make(map[string]string, len(resolved))
	circuitWires := make([]circuit.Wire, 0, len(resolved))
	for _, rw := range resolved {
		att := attachments[rw.WireID]
		labelText[rw.WireID] = att.Primary.Canonical()
		circuitWires = append(circuitWires, circuit.Wire{WireID: rw.WireID, Label: *att.Primary, From: rw.From, To: rw.To})
	}
	validate.WireLabels(labelText, c)
	labelText = validate.Duplicates(labelText, c)

	if abort(s, c) {
		return Result{Diagnostics: c.Diagnostics}, ErrStrictModeFailed
	}

	compByRef := circuit.ComponentsByRef(components)
	groups := circuit.Aggregate(circuitWires, compByRef, c)

	lengths := make(map[string]float64, len(circuitWires))
	gauges := make(map[string]int, len(circuitWires))
	for _, group := range groups {
		for _, w := range group.Wires {
			fromComp := compByRef[w.From.Component]
			toComp := compByRef[w.To.Component]
			length := circuit.Length(fromComp.Location, toComp.Location, s.SlackInches)
			lengths[w.WireID] = length

			gauge := circuit.GaugeInfeasible
			if group.CurrentKnown {
				gauge = circuit.SelectGauge(group.TotalCurrent, length, s.SystemVoltage, circuit.DefaultMaxVoltageDropFraction)
				if gauge == circuit.GaugeInfeasible {
					c.Warn(diag.KindGaugeInfeasible, "circuit="+group.Key, "no standard gauge satisfies ampacity/voltage-drop constraints", "")
				}
			}
			gauges[w.WireID] = gauge
		}
	}

	rows := bom.Assemble(groups, lengths, gauges, labelText, s.ColorOverrides, s.SystemVoltage, c)

	if abort(s, c) {
		return Result{Diagnostics: c.Diagnostics}, ErrStrictModeFailed
	}

	return Result{Rows: rows, Components: components, Diagnostics: c.Diagnostics}, nil
}

func abort(s Settings, c *diag.Collector) bool {
	return !s.Permissive && c.HasErrors()
}
