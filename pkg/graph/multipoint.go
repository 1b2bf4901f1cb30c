package graph

import (
	"fmt"
	"sort"

	"github.com/tklenke/wirebom/pkg/diag"
)

// branchResult is one wire incident to a junction, together with the
// component pin it eventually leads to (if any).
type branchResult struct {
	wireID  string
	labeled bool
	pin     *Node
}

// CheckMultipoint validates spec.md §4.6's N−1 multipoint labeling rule at
// every junction with three or more directly incident wires: each wire is
// followed out to the component pin it reaches, and when those wires reach
// N distinct pins, exactly N−1 of the wires must carry a circuit label, the
// remaining one leading to the common node.
func CheckMultipoint(g *Graph, c *diag.Collector) {
	for _, node := range sortedNodes(g) {
		if node.Kind != NodeJunction {
			continue
		}
		branches := junctionBranches(g, node)
		if len(branches) < 3 {
			continue // an ordinary 2-wire pass-through is not a multipoint net
		}

		pinSeen := make(map[string]bool)
		labeledCount := 0
		for _, b := range branches {
			if b.pin != nil {
				pinSeen[b.pin.ID] = true
			}
			if b.labeled {
				labeledCount++
			}
		}
		n := len(pinSeen)
		if n == 0 {
			continue
		}

		if labeledCount != n-1 {
			loc := fmt.Sprintf("sheet=%s junction=%s", node.Sheet, node.ID)
			msg := fmt.Sprintf("junction connects %d component pins through %d labeled wires, want %d", n, labeledCount, n-1)
			if c.Permissive {
				c.Warn(diag.KindMultipointLabelMismatch, loc, msg, "best-effort trace")
			} else {
				c.ErrorDiag(diag.KindMultipointLabelMismatch, loc, msg, "")
			}
		}
	}
}

// junctionBranches walks each wire directly incident to j and follows it,
// without crossing any further labeled wire, to the component pin (if any)
// it terminates in.
func junctionBranches(g *Graph, j *Node) []branchResult {
	var branches []branchResult
	seenWire := make(map[string]bool)

	for _, e := range g.adj[j.ID] {
		if e.kind != edgeCoincidence {
			continue
		}
		neighbor := g.Nodes[e.to]
		if neighbor == nil || neighbor.Kind != NodeWireEndpoint {
			continue
		}
		if seenWire[neighbor.WireID] {
			continue
		}
		seenWire[neighbor.WireID] = true

		farEnd := wireEndpointID(neighbor.WireID, 1-neighbor.EndIndex)
		labeled := wireIsLabeled(g, neighbor.WireID)

		reached := g.reachableComponentPins(farEnd, neighbor.WireID)
		var pin *Node
		if len(reached) > 0 {
			best := reached[0]
			for _, r := range reached[1:] {
				if r.depth < best.depth || (r.depth == best.depth && r.node.ID < best.node.ID) {
					best = r
				}
			}
			pin = best.node
		}

		branches = append(branches, branchResult{wireID: neighbor.WireID, labeled: labeled, pin: pin})
	}

	return branches
}

func wireIsLabeled(g *Graph, wireID string) bool {
	for _, e := range g.adj[wireEndpointID(wireID, 0)] {
		if e.kind == edgeWireInterior && e.wireID == wireID {
			return e.wireLabeled
		}
	}
	return false
}

func sortedNodes(g *Graph) []*Node {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = g.Nodes[id]
	}
	return out
}
