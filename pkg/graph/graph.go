// Package graph builds the undirected, node-typed connectivity multigraph
// spec.md §4.5 describes and resolves, per labeled wire segment, the two
// component pins it physically connects (§4.6).
package graph

import (
	"fmt"
	"sort"

	"github.com/tklenke/wirebom/pkg/geom"
	"github.com/tklenke/wirebom/pkg/label"
	"github.com/tklenke/wirebom/pkg/schematic"
	"github.com/tklenke/wirebom/pkg/symbols"
)

// NodeKind identifies which of the graph's five node variants a Node is.
type NodeKind int

const (
	NodeWireEndpoint NodeKind = iota
	NodeJunction
	NodeComponentPin
	NodeLabel // hierarchical or global label; see schematic.Label.Kind
	NodeSheetPin
)

// Node is one vertex of the connectivity graph.
type Node struct {
	ID       string
	Kind     NodeKind
	Sheet    string
	Position schematic.Position

	WireID   string // NodeWireEndpoint
	EndIndex int    // NodeWireEndpoint: 0 (P1) or 1 (P2)

	Component     string // NodeComponentPin
	PinNumber     string // NodeComponentPin
	IsPowerSymbol bool   // NodeComponentPin

	LabelKind schematic.LabelKind // NodeLabel
	LabelText string              // NodeLabel

	SheetPinName string // NodeSheetPin
}

type edgeKind int

const (
	edgeWireInterior edgeKind = iota
	edgeCoincidence
	edgeCrossSheet
)

type edge struct {
	to          string
	kind        edgeKind
	wireID      string
	wireLabeled bool
}

// Graph is the frozen connectivity multigraph for an entire design.
type Graph struct {
	Nodes map[string]*Node
	adj   map[string][]edge
}

func newGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node), adj: make(map[string][]edge)}
}

func (g *Graph) addNode(n *Node) {
	g.Nodes[n.ID] = n
}

func (g *Graph) link(a, b string, k edgeKind, wireID string, labeled bool) {
	g.adj[a] = append(g.adj[a], edge{to: b, kind: k, wireID: wireID, wireLabeled: labeled})
	g.adj[b] = append(g.adj[b], edge{to: a, kind: k, wireID: wireID, wireLabeled: labeled})
}

func wireEndpointID(wireID string, end int) string {
	return fmt.Sprintf("WE|%s|%d", wireID, end)
}

func componentPinID(sheet, component, number string) string {
	return fmt.Sprintf("CP|%s|%s|%s", sheet, component, number)
}

// Build constructs the connectivity graph for design, given the resolved
// absolute pin positions and the per-wire label attachments.
func Build(d *schematic.Design, pins []symbols.Pin, attachments map[string]label.Attachment) *Graph {
	g := newGraph()

	type posKey struct {
		sheet string
		k     geom.Key
	}
	spatial := make(map[posKey][]string)
	index := func(sheet string, pos schematic.Position, id string) {
		key := posKey{sheet: sheet, k: geom.Round(pos.X, pos.Y)}
		spatial[key] = append(spatial[key], id)
	}

	for sheetID, sch := range d.Sheets {
		for _, w := range sch.Wires {
			labeled := attachments[w.ID].Primary != nil
			id0 := wireEndpointID(w.ID, 0)
			id1 := wireEndpointID(w.ID, 1)
			g.addNode(&Node{ID: id0, Kind: NodeWireEndpoint, Sheet: sheetID, Position: w.P1, WireID: w.ID, EndIndex: 0})
			g.addNode(&Node{ID: id1, Kind: NodeWireEndpoint, Sheet: sheetID, Position: w.P2, WireID: w.ID, EndIndex: 1})
			g.link(id0, id1, edgeWireInterior, w.ID, labeled)
			index(sheetID, w.P1, id0)
			index(sheetID, w.P2, id1)
		}

		for i, j := range sch.Junctions {
			id := fmt.Sprintf("J|%s|%d", sheetID, i)
			g.addNode(&Node{ID: id, Kind: NodeJunction, Sheet: sheetID, Position: j.Position})
			index(sheetID, j.Position, id)
		}

		for _, l := range sch.Labels {
			if l.Kind == schematic.LabelLocal {
				continue // local labels only mark a wire; they are not graph nodes
			}
			id := fmt.Sprintf("L|%s|%s|%.2f,%.2f", sheetID, l.Text, l.Position.X, l.Position.Y)
			g.addNode(&Node{ID: id, Kind: NodeLabel, Sheet: sheetID, Position: l.Position, LabelKind: l.Kind, LabelText: l.Text})
			index(sheetID, l.Position, id)
		}

		for _, ss := range sch.Sheets {
			for _, sp := range ss.Pins {
				id := fmt.Sprintf("SP|%s|%s|%s", sheetID, ss.Name, sp.Name)
				g.addNode(&Node{ID: id, Kind: NodeSheetPin, Sheet: sheetID, Position: sp.Position, SheetPinName: sp.Name})
				index(sheetID, sp.Position, id)
			}
		}
	}

	for _, p := range pins {
		id := componentPinID(p.Sheet, p.Component, p.Number)
		g.addNode(&Node{
			ID: id, Kind: NodeComponentPin, Sheet: p.Sheet, Position: p.Position,
			Component: p.Component, PinNumber: p.Number,
			IsPowerSymbol: schematic.IsPowerSymbolReference(p.Component),
		})
		index(p.Sheet, p.Position, id)
	}

	for _, ids := range spatial {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				g.link(ids[i], ids[j], edgeCoincidence, "", false)
			}
		}
	}

	linkCrossSheetLabels(g, d)

	return g
}

// linkCrossSheetLabels implements construction rules 5 and 6: a
// hierarchical label links to the same-named sheet pin on the parent
// sheet's sheet symbol referencing this child, and global labels of
// identical text link to every other occurrence anywhere in the design.
func linkCrossSheetLabels(g *Graph, d *schematic.Design) {
	sheetPinsByParentChild := make(map[[2]string]map[string]string) // (parent,child) -> pinName -> nodeID
	for sheetID, sch := range d.Sheets {
		for _, ss := range sch.Sheets {
			m := sheetPinsByParentChild[[2]string{sheetID, ss.FileName}]
			if m == nil {
				m = make(map[string]string)
				sheetPinsByParentChild[[2]string{sheetID, ss.FileName}] = m
			}
			for _, sp := range ss.Pins {
				m[sp.Name] = fmt.Sprintf("SP|%s|%s|%s", sheetID, ss.Name, sp.Name)
			}
		}
	}

	globalsByText := make(map[string][]string)

	for sheetID, sch := range d.Sheets {
		for _, l := range sch.Labels {
			switch l.Kind {
			case schematic.LabelHierarchical:
				for parentChild, pinsByName := range sheetPinsByParentChild {
					if parentChild[1] != sheetID {
						continue
					}
					if pinNodeID, ok := pinsByName[l.Text]; ok {
						labelNodeID := fmt.Sprintf("L|%s|%s|%.2f,%.2f", sheetID, l.Text, l.Position.X, l.Position.Y)
						g.link(labelNodeID, pinNodeID, edgeCrossSheet, "", false)
					}
				}
			case schematic.LabelGlobal:
				labelNodeID := fmt.Sprintf("L|%s|%s|%.2f,%.2f", sheetID, l.Text, l.Position.X, l.Position.Y)
				globalsByText[l.Text] = append(globalsByText[l.Text], labelNodeID)
			}
		}
	}

	for _, ids := range globalsByText {
		sort.Strings(ids)
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				g.link(ids[i], ids[j], edgeCrossSheet, "", false)
			}
		}
	}
}
