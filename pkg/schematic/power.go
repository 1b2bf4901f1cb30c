package schematic

import "strconv"

// powerSymbolReferences is the exact reference-designator set spec.md §6
// classifies as power symbols: they are treated as component pins for
// wire-connection resolution, but counted separately from user
// components (spec.md §4.6).
var powerSymbolReferences = buildPowerSymbolSet()

func buildPowerSymbolSet() map[string]bool {
	set := map[string]bool{
		"GND": true, "GNDREF": true,
		"VDC": true, "VAC": true,
	}
	groundSuffixes := []int{1, 2, 3, 4, 5, 6, 12, 24}
	for _, n := range groundSuffixes {
		set["GND"+strconv.Itoa(n)] = true
	}
	railSuffixes := []int{1, 2, 3, 4, 5, 6, 12, 24}
	for _, n := range railSuffixes {
		s := strconv.Itoa(n)
		set["+"+s+"V"] = true
		set["-"+s+"V"] = true
		set["+"+s+"VA"] = true
		set["-"+s+"VA"] = true
	}
	return set
}

// IsPowerSymbolReference reports whether ref is an exact, case-sensitive
// match against the power-symbol reference set.
func IsPowerSymbolReference(ref string) bool {
	return powerSymbolReferences[ref]
}
