package schematic

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/tklenke/wirebom/pkg/diag"
	"github.com/tklenke/wirebom/pkg/grammar"
	"github.com/tklenke/wirebom/pkg/sexp"
)

// wireIDNamespace seeds the deterministic synthesis of a WireSegment.ID when
// the source file carries no uuid node for a wire: spec.md §8's idempotence
// property requires that re-running the extractor against the same file
// produce the same ids, so the synthesized id is derived from the wire's
// rounded endpoints rather than anything random.
var wireIDNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("wirebom.wire"))

// Parse reads one schematic source file and extracts its typed records.
// sheetID is the stable identifier (the file's design-relative path)
// assigned to every record produced from it. diagnostics encountered while
// parsing individual components are appended to c; a malformed source file
// itself is reported as a Go error, per spec.md §7's MalformedSource being
// fatal in both strict and permissive mode.
func Parse(r io.Reader, sheetID string, c *diag.Collector) (*Schematic, error) {
	nodes, err := sexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("malformed source in %s: %w", sheetID, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("malformed source in %s: empty document", sheetID)
	}

	root := nodes[0]
	name, err := sexp.GetNodeName(root)
	if err != nil || name != "kicad_sch" {
		return nil, fmt.Errorf("malformed source in %s: expected kicad_sch root", sheetID)
	}

	sch := &Schematic{SheetID: sheetID}

	if v, ok := sexp.FindNode(root, "version"); ok {
		sch.Version, _ = sexp.GetInt(v, 1)
	}
	if g, ok := sexp.FindNode(root, "generator"); ok {
		sch.Generator, _ = sexp.GetString(g, 1)
	}
	if gv, ok := sexp.FindNode(root, "generator_version"); ok {
		sch.GeneratorVer, _ = sexp.GetString(gv, 1)
	}
	if u, ok := sexp.FindNode(root, "uuid"); ok {
		if id, err := sexp.GetUUID(u); err == nil {
			sch.UUID = id
		}
	}
	if p, ok := sexp.FindNode(root, "paper"); ok {
		sch.Paper, _ = sexp.GetString(p, 1)
	}

	if tb, ok := sexp.FindNode(root, "title_block"); ok {
		sch.TitleBlock = parseTitleBlock(tb)
	}

	if libs, ok := sexp.FindNode(root, "lib_symbols"); ok {
		for _, symNode := range sexp.FindAllNodes(libs, "symbol") {
			sch.LibSymbols = append(sch.LibSymbols, parseLibSymbol(symNode))
		}
	}

	for _, w := range sexp.FindAllNodes(root, "wire") {
		ws, err := parseWire(w, sheetID)
		if err != nil {
			c.Warn(diag.KindMalformedSource, fmt.Sprintf("sheet=%s", sheetID), err.Error(), "wire skipped")
			continue
		}
		sch.Wires = append(sch.Wires, ws)
	}

	for _, j := range sexp.FindAllNodes(root, "junction") {
		sch.Junctions = append(sch.Junctions, parseJunction(j, sheetID))
	}

	for _, l := range sexp.FindAllNodes(root, "label") {
		sch.Labels = append(sch.Labels, parseLabel(l, sheetID, LabelLocal))
	}
	for _, l := range sexp.FindAllNodes(root, "global_label") {
		sch.Labels = append(sch.Labels, parseLabel(l, sheetID, LabelGlobal))
	}
	for _, l := range sexp.FindAllNodes(root, "hierarchical_label") {
		sch.Labels = append(sch.Labels, parseLabel(l, sheetID, LabelHierarchical))
	}

	for _, s := range sexp.FindAllNodes(root, "sheet") {
		sch.Sheets = append(sch.Sheets, parseSheetSymbol(s, sheetID))
	}

	for _, s := range sexp.FindAllNodes(root, "symbol") {
		inst := parseComponentInstance(s, sheetID, c)
		sch.Symbols = append(sch.Symbols, inst)
	}

	return sch, nil
}

func parseTitleBlock(tb sexp.Sexp) TitleBlock {
	var out TitleBlock
	if n, ok := sexp.FindNode(tb, "title"); ok {
		out.Title, _ = sexp.GetQuotedString(n, 1)
	}
	if n, ok := sexp.FindNode(tb, "date"); ok {
		out.Date, _ = sexp.GetQuotedString(n, 1)
	}
	if n, ok := sexp.FindNode(tb, "rev"); ok {
		out.Revision, _ = sexp.GetQuotedString(n, 1)
	}
	if cmt, ok := sexp.FindNode(tb, "comment"); ok {
		// (comment 1 "Company Name")
		if n, _ := sexp.GetInt(cmt, 1); n == 1 {
			out.Company, _ = sexp.GetQuotedString(cmt, 2)
		}
	}
	return out
}

// parseLibSymbol flattens a library symbol's sub-units (KiCad splits a
// multi-gate part into several `(symbol "Name_N_M" ...)` children, each
// carrying a disjoint slice of the part's pins) into one Pins list, since
// pin-position resolution never needs to distinguish which gate a pin
// belongs to.
func parseLibSymbol(node sexp.Sexp) LibSymbol {
	name, _ := sexp.GetQuotedString(node, 1)
	lib := LibSymbol{Name: name}

	var walk func(n sexp.Sexp)
	walk = func(n sexp.Sexp) {
		for _, pinNode := range sexp.FindAllNodes(n, "pin") {
			lib.Pins = append(lib.Pins, parseSymbolPin(pinNode))
		}
		for _, sub := range sexp.FindAllNodes(n, "symbol") {
			walk(sub)
		}
	}
	walk(node)

	return lib
}

func parseSymbolPin(node sexp.Sexp) SymbolPin {
	var pin SymbolPin
	if at, ok := sexp.FindNode(node, "at"); ok {
		if pa, err := sexp.GetPosition(at); err == nil {
			pin.Position = pa.Position
			pin.Angle = pa.Angle
		}
	}
	if n, ok := sexp.FindNode(node, "name"); ok {
		pin.Name, _ = sexp.GetQuotedString(n, 1)
	}
	if n, ok := sexp.FindNode(node, "number"); ok {
		pin.Number, _ = sexp.GetQuotedString(n, 1)
	}
	return pin
}

func parseWire(node sexp.Sexp, sheetID string) (WireSegment, error) {
	ptsNode, ok := sexp.FindNode(node, "pts")
	if !ok {
		return WireSegment{}, fmt.Errorf("wire has no pts node")
	}
	xyNodes := sexp.FindAllNodes(ptsNode, "xy")
	if len(xyNodes) != 2 {
		return WireSegment{}, fmt.Errorf("wire pts has %d points, want 2", len(xyNodes))
	}
	p1, err := sexp.GetPositionXY(xyNodes[0])
	if err != nil {
		return WireSegment{}, fmt.Errorf("wire start point: %w", err)
	}
	p2, err := sexp.GetPositionXY(xyNodes[1])
	if err != nil {
		return WireSegment{}, fmt.Errorf("wire end point: %w", err)
	}

	id := ""
	if u, ok := sexp.FindNode(node, "uuid"); ok {
		if uid, err := sexp.GetUUID(u); err == nil {
			id = string(uid)
		}
	}
	if id == "" {
		id = synthesizeWireID(sheetID, p1, p2)
	}

	return WireSegment{ID: id, Sheet: sheetID, P1: p1, P2: p2}, nil
}

func synthesizeWireID(sheetID string, p1, p2 Position) string {
	key := fmt.Sprintf("%s|%.2f,%.2f|%.2f,%.2f", sheetID, p1.X, p1.Y, p2.X, p2.Y)
	return uuid.NewSHA1(wireIDNamespace, []byte(key)).String()
}

func parseJunction(node sexp.Sexp, sheetID string) Junction {
	j := Junction{Sheet: sheetID}
	if at, ok := sexp.FindNode(node, "at"); ok {
		if pos, err := sexp.GetPositionXY(at); err == nil {
			j.Position = pos
		}
	}
	if u, ok := sexp.FindNode(node, "uuid"); ok {
		if id, err := sexp.GetUUID(u); err == nil {
			j.UUID = id
		}
	}
	return j
}

func parseLabel(node sexp.Sexp, sheetID string, kind LabelKind) Label {
	l := Label{Sheet: sheetID, Kind: kind}
	l.Text, _ = sexp.GetQuotedString(node, 1)
	if at, ok := sexp.FindNode(node, "at"); ok {
		if pa, err := sexp.GetPosition(at); err == nil {
			l.Position = pa.Position
			l.Angle = pa.Angle
		}
	}
	if u, ok := sexp.FindNode(node, "uuid"); ok {
		if id, err := sexp.GetUUID(u); err == nil {
			l.UUID = id
		}
	}
	return l
}

func parseSheetSymbol(node sexp.Sexp, sheetID string) SheetSymbol {
	s := SheetSymbol{Sheet: sheetID}
	if at, ok := sexp.FindNode(node, "at"); ok {
		if pos, err := sexp.GetPositionXY(at); err == nil {
			s.Position = pos
		}
	}
	if sz, ok := sexp.FindNode(node, "size"); ok {
		if size, err := sexp.GetSize(sz); err == nil {
			s.Size = size
		}
	}
	if u, ok := sexp.FindNode(node, "uuid"); ok {
		if id, err := sexp.GetUUID(u); err == nil {
			s.UUID = id
		}
	}
	for _, p := range sexp.FindAllNodes(node, "property") {
		prop, err := sexp.GetProperty(p)
		if err != nil {
			continue
		}
		switch prop.Key {
		case "Sheetname":
			s.Name = prop.Value
		case "Sheetfile":
			s.FileName = prop.Value
		}
	}
	for _, p := range sexp.FindAllNodes(node, "pin") {
		sp := SheetPin{}
		sp.Name, _ = sexp.GetQuotedString(p, 1)
		if at, ok := sexp.FindNode(p, "at"); ok {
			if pa, err := sexp.GetPosition(at); err == nil {
				sp.Position = pa.Position
			}
		}
		if u, ok := sexp.FindNode(p, "uuid"); ok {
			if id, err := sexp.GetUUID(u); err == nil {
				sp.UUID = id
			}
		}
		s.Pins = append(s.Pins, sp)
	}
	return s
}

func parseComponentInstance(node sexp.Sexp, sheetID string, c *diag.Collector) ComponentInstance {
	inst := ComponentInstance{Sheet: sheetID}

	if lib, ok := sexp.FindNode(node, "lib_id"); ok {
		inst.LibID, _ = sexp.GetQuotedString(lib, 1)
	}
	if at, ok := sexp.FindNode(node, "at"); ok {
		if pa, err := sexp.GetPosition(at); err == nil {
			inst.Position = pa.Position
			inst.Angle = pa.Angle
		}
	}
	if m, ok := sexp.FindNode(node, "mirror"); ok {
		if axis, err := sexp.GetString(m, 1); err == nil && axis == "x" {
			inst.Mirror = true
		}
	}
	if u, ok := sexp.FindNode(node, "uuid"); ok {
		if id, err := sexp.GetUUID(u); err == nil {
			inst.UUID = id
		}
	}

	var rawFootprintField string
	for _, p := range sexp.FindAllNodes(node, "property") {
		prop, err := sexp.GetProperty(p)
		if err != nil {
			continue
		}
		switch prop.Key {
		case "Reference":
			inst.Reference = prop.Value
		case "Value":
			inst.Value = prop.Value
		case "Description":
			inst.Description = prop.Value
		case "Footprint":
			rawFootprintField = prop.Value
		}
	}

	for _, p := range sexp.FindAllNodes(node, "pin") {
		pr := PinRef{}
		pr.Number, _ = sexp.GetQuotedString(p, 1)
		if u, ok := sexp.FindNode(p, "uuid"); ok {
			if id, err := sexp.GetUUID(u); err == nil {
				pr.UUID = id
			}
		}
		inst.Pins = append(inst.Pins, pr)
	}

	inst.IsPowerSymbol = IsPowerSymbolReference(inst.Reference)

	location := fmt.Sprintf("sheet=%s component=%s", sheetID, inst.Reference)
	switch {
	case strings.TrimSpace(rawFootprintField) == "":
		if !inst.IsPowerSymbol {
			if c.Permissive {
				c.Warn(diag.KindMissingLocationRole, location, "component has no location-and-role field", "defaulted to unknown location, role unset")
			} else {
				c.ErrorDiag(diag.KindMissingLocationRole, location, "component has no location-and-role field", "add a '|(FS,WL,BL)ROLE' suffix to the Footprint field")
			}
		}
		inst.Location = DefaultUnknownLocation
		inst.Footprint = rawFootprintField
	default:
		lr, err := grammar.ParseLocationRole(rawFootprintField)
		if err != nil {
			if c.Permissive {
				c.Warn(diag.KindMalformedLocationRole, location, err.Error(), "defaulted to unknown location, role unset")
			} else {
				c.ErrorDiag(diag.KindMalformedLocationRole, location, err.Error(), "fix the '|(FS,WL,BL)ROLE[AMPS]' suffix")
			}
			inst.Location = DefaultUnknownLocation
			inst.Footprint = rawFootprintField
		} else {
			inst.Footprint = lr.Footprint
			inst.Location = AircraftLocation{FS: lr.FS, WL: lr.WL, BL: lr.BL}
			if role, ok := RoleFromLetter(lr.Role); ok {
				inst.Role = role
			}
			if lr.HasAmps {
				inst.Amperage = lr.Amps
			}
		}
	}

	return inst
}
