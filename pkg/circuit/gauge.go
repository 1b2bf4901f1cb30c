package circuit

import "github.com/tklenke/wirebom/pkg/schematic"

// GaugeInfeasible is the sentinel gauge returned when no standard gauge
// satisfies the ampacity and voltage-drop constraints, or when the
// circuit's current could not be determined at all.
const GaugeInfeasible = -99

// standardGauges lists the AWG sizes considered, smallest-copper-first, as
// spec.md §4.8 enumerates them.
var standardGauges = []int{22, 20, 18, 16, 14, 12, 10, 8, 6, 4, 2}

// ampacity is the continuous current rating, in amperes, per AWG size.
var ampacity = map[int]float64{
	22: 5, 20: 7.5, 18: 10, 16: 13, 14: 17, 12: 23, 10: 33, 8: 46, 6: 60, 4: 80, 2: 100,
}

// resistance is ohms per foot of conductor (copper, 20°C), per AWG size.
var resistance = map[int]float64{
	22: 0.01614, 20: 0.01015, 18: 0.006385, 16: 0.004016, 14: 0.002525,
	12: 0.001588, 10: 0.0009989, 8: 0.0006282, 6: 0.0003951, 4: 0.0002485, 2: 0.0001563,
}

// DefaultSlackInches is the fixed length added to every wire's Manhattan
// aircraft-coordinate distance to allow for routing and termination slack.
const DefaultSlackInches = 24.0

// DefaultSystemVoltage is the nominal bus voltage assumed when the settings
// record does not override it.
const DefaultSystemVoltage = 14.0

// DefaultMaxVoltageDropFraction is the maximum fraction of system voltage
// that may be lost to wire resistance.
const DefaultMaxVoltageDropFraction = 0.05

// Length computes a wire's Manhattan distance in aircraft coordinates
// between two component locations, plus a fixed slack.
func Length(a, b schematic.AircraftLocation, slackInches float64) float64 {
	return absf(a.FS-b.FS) + absf(a.WL-b.WL) + absf(a.BL-b.BL) + slackInches
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// SelectGauge picks the smallest standard gauge whose ampacity covers
// currentAmps and whose voltage drop over lengthInches stays within
// maxDropFraction of systemVoltage. It returns GaugeInfeasible when no
// gauge qualifies.
func SelectGauge(currentAmps, lengthInches, systemVoltage, maxDropFraction float64) int {
	for _, g := range standardGauges {
		if ampacity[g] < currentAmps {
			continue
		}
		drop := currentAmps * resistance[g] * (lengthInches / 12.0)
		if drop > maxDropFraction*systemVoltage {
			continue
		}
		return g
	}
	return GaugeInfeasible
}

// SelectGaugeResistance returns the reference ohms-per-foot value for
// gauge, or 0 for the GaugeInfeasible sentinel or any unknown size.
func SelectGaugeResistance(gauge int) float64 {
	return resistance[gauge]
}

// SelectGaugeAmpacity returns the reference ampacity for gauge, or 0 for
// the GaugeInfeasible sentinel or any unknown size.
func SelectGaugeAmpacity(gauge int) float64 {
	return ampacity[gauge]
}
