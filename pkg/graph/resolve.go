package graph

import (
	"fmt"
	"sort"

	"github.com/tklenke/wirebom/pkg/diag"
)

// ResolvedWire names the two component pins a labeled wire segment
// physically connects.
type ResolvedWire struct {
	WireID string
	From   *Node
	To     *Node
}

// reach records how a ComponentPin node was reached during a traversal
// from one wire endpoint.
type reach struct {
	node         *Node
	depth        int
	crossedSheet bool
}

// ResolveWire determines the component pins wireID's two endpoints connect,
// per spec.md §4.6's traversal and tie-break rules.
func ResolveWire(g *Graph, wireID string) (ResolvedWire, bool) {
	e0 := wireEndpointID(wireID, 0)
	e1 := wireEndpointID(wireID, 1)
	if _, ok := g.Nodes[e0]; !ok {
		return ResolvedWire{}, false
	}

	pins0 := g.reachableComponentPins(e0, wireID)
	pins1 := g.reachableComponentPins(e1, wireID)

	winner0, amb0 := pickWinner(pins0)
	winner1, amb1 := pickWinner(pins1)

	from, to := orient(winner0, winner1)
	return ResolvedWire{WireID: wireID, From: from, To: to}, amb0 || amb1
}

// orient applies spec.md §4.6's orientation rule: the pin reached by
// crossing a sheet boundary (hierarchical label to sheet pin, or back) is
// "from"; the pin reached locally, without crossing, is "to" — matching
// the worked example in spec.md §8 (S4: CB5.2, reached through the
// cross-sheet hop, is "from"; L3.1, reached directly, is "to"). Endpoint 0
// is "from" by default when neither or both endpoints cross.
func orient(winner0, winner1 *reach) (from, to *Node) {
	e0Crossed := winner0 != nil && winner0.crossedSheet
	e1Crossed := winner1 != nil && winner1.crossedSheet

	if e1Crossed && !e0Crossed {
		return firstOrNil(winner1), firstOrNil(winner0)
	}
	return firstOrNil(winner0), firstOrNil(winner1)
}

func firstOrNil(r *reach) *Node {
	if r == nil {
		return nil
	}
	return r.node
}

// reachableComponentPins performs the bounded breadth-first search from
// start, never crossing a wire-interior edge belonging to a labeled wire
// other than startWireID.
func (g *Graph) reachableComponentPins(start, startWireID string) []reach {
	visited := map[string]bool{start: true}
	type frame struct {
		id           string
		depth        int
		crossedSheet bool
	}
	queue := []frame{{id: start, depth: 0}}

	var found []reach
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		node := g.Nodes[cur.id]
		if node != nil && node.Kind == NodeComponentPin && cur.depth > 0 {
			found = append(found, reach{node: node, depth: cur.depth, crossedSheet: cur.crossedSheet})
			continue // a component pin terminates this branch of the search
		}

		for _, e := range g.adj[cur.id] {
			if visited[e.to] {
				continue
			}
			if e.kind == edgeWireInterior && e.wireLabeled && e.wireID != startWireID {
				continue // never cross another labeled wire segment
			}
			visited[e.to] = true
			queue = append(queue, frame{
				id:           e.to,
				depth:        cur.depth + 1,
				crossedSheet: cur.crossedSheet || e.kind == edgeCrossSheet,
			})
		}
	}
	return found
}

// pickWinner applies the three-tier priority: a directly-coincident pin
// (depth 1) first, since it is the closest possible match and spec.md
// §4.6's tie-break only matters among pins reached at equal depth; then a
// cross-sheet-reached pin at any depth; then the shallowest remaining
// pin. It reports whether more than one pin tied for first place (an
// ambiguous resolution, warned by the caller).
func pickWinner(candidates []reach) (*reach, bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	var tier []reach
	for _, c := range candidates {
		if c.depth == 1 {
			tier = append(tier, c)
		}
	}
	if len(tier) == 0 {
		for _, c := range candidates {
			if c.crossedSheet {
				tier = append(tier, c)
			}
		}
	}
	if len(tier) == 0 {
		minDepth := candidates[0].depth
		for _, c := range candidates {
			if c.depth < minDepth {
				minDepth = c.depth
			}
		}
		for _, c := range candidates {
			if c.depth == minDepth {
				tier = append(tier, c)
			}
		}
	}

	sort.Slice(tier, func(i, j int) bool { return tier[i].node.ID < tier[j].node.ID })
	winner := tier[0]
	return &winner, len(tier) > 1
}

// ResolveAll resolves every wire in wireIDs, reporting DanglingEnd for any
// endpoint that reaches no component pin and a warning for any ambiguous
// (equal-depth, multi-pin) resolution.
func ResolveAll(g *Graph, wireIDs []string, c *diag.Collector) []ResolvedWire {
	var out []ResolvedWire
	for _, id := range wireIDs {
		rw, ambiguous := ResolveWire(g, id)
		if rw.From == nil || rw.To == nil {
			if c.Permissive {
				c.Warn(diag.KindDanglingEnd, fmt.Sprintf("wire=%s", id), "wire endpoint does not reach a component pin", "row omitted")
			} else {
				c.ErrorDiag(diag.KindDanglingEnd, fmt.Sprintf("wire=%s", id), "wire endpoint does not reach a component pin", "")
			}
			continue
		}
		if ambiguous {
			c.Warn(diag.KindAmbiguousResolution, fmt.Sprintf("wire=%s", id), "multiple component pins reached at equal priority/depth", "lowest node id chosen")
		}
		out = append(out, rw)
	}
	return out
}
