// Package circuit implements the current aggregator (spec.md §4.7) and
// gauge selector (spec.md §4.8): grouping wires by (system, circuit-number),
// summing each group's reachable load current, and selecting the smallest
// AWG gauge that satisfies both ampacity and voltage-drop constraints.
package circuit

import (
	"sort"

	"github.com/tklenke/wirebom/pkg/diag"
	"github.com/tklenke/wirebom/pkg/grammar"
	"github.com/tklenke/wirebom/pkg/graph"
	"github.com/tklenke/wirebom/pkg/schematic"
)

// Wire is one resolved wire segment, attached to its parsed circuit label.
type Wire struct {
	WireID string
	Label  grammar.ParsedLabel
	From   *graph.Node
	To     *graph.Node
}

// Group is every wire sharing a (system, circuit-number) key, plus the
// aggregated load current that applies uniformly to all of them.
type Group struct {
	Key         string
	Wires       []Wire
	TotalCurrent float64
	CurrentKnown bool
}

// componentsByRef indexes every component instance in the design by
// reference designator, for role/amperage lookups during aggregation.
type componentsByRef map[string]schematic.ComponentInstance

// Aggregate groups wires by circuit key and computes each group's total
// load current by walking the group's own component adjacency (the set of
// (From, To) component pairs its member wires connect), treating Rating
// components as pass-throughs and Source/Ground components as traversal
// sinks, per spec.md §4.7.
func Aggregate(wires []Wire, components componentsByRef, c *diag.Collector) []Group {
	byKey := make(map[string][]Wire)
	for _, w := range wires {
		byKey[w.Label.CircuitKey()] = append(byKey[w.Label.CircuitKey()], w)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var groups []Group
	for _, key := range keys {
		members := byKey[key]
		total, known := totalLoadCurrent(members, components)
		if !known {
			c.Warn(diag.KindUnknownCircuitCurrent, "circuit="+key, "no load or source component reachable in this circuit", "gauge defaulted to -99")
		}
		groups = append(groups, Group{Key: key, Wires: members, TotalCurrent: total, CurrentKnown: known})
	}
	return groups
}

// ComponentsByRef builds the componentsByRef index from a design's full
// component list.
func ComponentsByRef(all []schematic.ComponentInstance) componentsByRef {
	idx := make(componentsByRef, len(all))
	for _, inst := range all {
		idx[inst.Reference] = inst
	}
	return idx
}

func totalLoadCurrent(members []Wire, components componentsByRef) (float64, bool) {
	adj := make(map[string]map[string]bool)
	addEdge := func(a, b string) {
		if adj[a] == nil {
			adj[a] = make(map[string]bool)
		}
		adj[a][b] = true
	}
	for _, w := range members {
		if w.From == nil || w.To == nil {
			continue
		}
		addEdge(w.From.Component, w.To.Component)
		addEdge(w.To.Component, w.From.Component)
	}
	if len(adj) == 0 {
		return 0, false
	}

	start := make([]string, 0, len(adj))
	for c := range adj {
		start = append(start, c)
	}
	sort.Strings(start)

	visited := make(map[string]bool)
	var sum float64
	found := false
	var walk func(ref string, isRoot bool)
	walk = func(ref string, isRoot bool) {
		if visited[ref] {
			return
		}
		visited[ref] = true

		expand := true
		if inst, known := components[ref]; known {
			switch inst.Role {
			case schematic.RoleLoad:
				sum += inst.Amperage
				found = true
			case schematic.RoleSource:
				found = true
				expand = isRoot // a sink still exposes the traversal root's own neighbors
			case schematic.RoleGround:
				expand = isRoot
			}
		}
		if !expand {
			return
		}
		for neighbor := range adj[ref] {
			walk(neighbor, false)
		}
	}
	// spec.md §4.7 sums current reachable from any wire in the group, so
	// every connected component of the group's adjacency is walked, not
	// just the one containing the first start ref.
	for _, ref := range start {
		if !visited[ref] {
			walk(ref, true)
		}
	}

	return sum, found
}
