package schematic

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tklenke/wirebom/pkg/diag"
)

// Design is the full set of sheets reachable from a root schematic file,
// keyed by the stable sheet id (the file path relative to the root's
// directory) that every extracted record's Sheet field carries.
type Design struct {
	RootSheet string
	Sheets    map[string]*Schematic
}

// LoadDesign parses rootPath and every child sheet it references
// (transitively), guarding against a sheet file being visited twice via a
// cycle in the sheet hierarchy. Diagnostics produced while parsing any
// sheet's components are appended to c; a malformed or missing sheet file
// is returned as a Go error.
func LoadDesign(rootPath string, c *diag.Collector) (*Design, error) {
	baseDir := filepath.Dir(rootPath)
	rootID := filepath.Base(rootPath)

	d := &Design{RootSheet: rootID, Sheets: make(map[string]*Schematic)}
	if err := loadSheet(d, baseDir, rootID, c, map[string]bool{}); err != nil {
		return nil, err
	}
	return d, nil
}

func loadSheet(d *Design, baseDir, sheetID string, c *diag.Collector, visiting map[string]bool) error {
	if _, done := d.Sheets[sheetID]; done {
		return nil
	}
	if visiting[sheetID] {
		return fmt.Errorf("malformed source: sheet hierarchy cycle detected at %s", sheetID)
	}
	visiting[sheetID] = true
	defer delete(visiting, sheetID)

	path := filepath.Join(baseDir, sheetID)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("malformed source: cannot open sheet %s: %w", sheetID, err)
	}
	defer f.Close()

	sch, err := Parse(f, sheetID, c)
	if err != nil {
		return err
	}
	d.Sheets[sheetID] = sch

	for _, sheetSym := range sch.Sheets {
		if sheetSym.FileName == "" {
			continue
		}
		if err := loadSheet(d, baseDir, sheetSym.FileName, c, visiting); err != nil {
			return err
		}
	}
	return nil
}

// AllComponents returns every component instance across every sheet, in
// sheet-id then within-sheet order, matching the deterministic ordering
// the pipeline's reproducibility requirement demands.
func (d *Design) AllComponents() []ComponentInstance {
	var out []ComponentInstance
	for _, id := range d.sortedSheetIDs() {
		out = append(out, d.Sheets[id].Symbols...)
	}
	return out
}

// AllWires returns every wire segment across every sheet, in the same
// deterministic order as AllComponents.
func (d *Design) AllWires() []WireSegment {
	var out []WireSegment
	for _, id := range d.sortedSheetIDs() {
		out = append(out, d.Sheets[id].Wires...)
	}
	return out
}

func (d *Design) sortedSheetIDs() []string {
	ids := make([]string, 0, len(d.Sheets))
	for id := range d.Sheets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
