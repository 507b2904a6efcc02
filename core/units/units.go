// Package units provides the steady-state unit models of the synthesis
// flowsheet: feeds, a mixer, an isentropic compressor, a heater, a
// Gibbs-equilibrium reactor and a product sink. Each block writes scaled
// residuals so the Newton solver sees a well-conditioned system: molar
// balances in hundreds of mol/s, energy balances in MW, pressures in bar.
package units

import "github.com/procsim/flowsim/core/flowsheet"

const (
	massScale     = 100.0 // mol/s
	energyScale   = 1e6   // W
	pressureScale = 1e5   // Pa
	entropyScale  = 1e3   // W/K
)

// setFree assigns an initialization estimate without clobbering a pinned
// specification.
func setFree(v *flowsheet.Var, value float64) {
	if !v.Fixed() {
		v.Set(value)
	}
}
