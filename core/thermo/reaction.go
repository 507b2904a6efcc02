package thermo

import (
	"fmt"
	"math"

	"github.com/procsim/flowsim/core/model"
)

// Stoich holds the stoichiometric coefficients of the methanol synthesis
// reaction CO + 2 H2 ⇌ CH3OH, positive for products.
var Stoich = [model.NumSpecies]float64{
	model.CH4:   0,
	model.CO:    -1,
	model.H2:    -2,
	model.CH3OH: 1,
}

// DeltaHrxn returns the standard reaction enthalpy in J/mol at T.
func DeltaHrxn(T float64) float64 {
	dh := 0.0
	for i, nu := range Stoich {
		if nu == 0 {
			continue
		}
		dh += nu * Enthalpy(model.Species(i), T)
	}
	return dh
}

// DeltaGrxn returns the standard reaction Gibbs energy in J/mol at T,
// combining the reaction enthalpy with the reaction entropy at the
// standard-state pressure.
func DeltaGrxn(T float64) float64 {
	dh := 0.0
	ds := 0.0
	for i, nu := range Stoich {
		if nu == 0 {
			continue
		}
		dh += nu * Enthalpy(model.Species(i), T)
		ds += nu * Entropy(model.Species(i), T, Pref)
	}
	return dh - T*ds
}

// LnK returns the natural log of the equilibrium constant at T.
func LnK(T float64) float64 {
	return -DeltaGrxn(T) / (R * T)
}

// minFrac floors mole fractions inside logarithms so residuals stay finite
// while a component flow passes through zero during iteration.
const minFrac = 1e-12

// GibbsStationarity returns the dimensionless gradient of the total Gibbs
// energy with respect to the reaction extent at the given composition,
// temperature and pressure: Σνᵢ·μᵢ/(RT). At chemical equilibrium the value
// is zero. For the single synthesis reaction this reads
//
//	ln y(CH3OH) − ln y(CO) − 2·ln y(H2) − 2·ln(P/P°) − lnK(T)
func GibbsStationarity(flows [model.NumSpecies]float64, T, P float64) float64 {
	total := 0.0
	for _, n := range flows {
		total += n
	}
	if total <= 0 {
		total = minFrac
	}
	lnQ := 0.0
	for i, nu := range Stoich {
		if nu == 0 {
			continue
		}
		y := flows[i] / total
		if y < minFrac {
			y = minFrac
		}
		lnQ += nu * (math.Log(y) + math.Log(P/Pref))
	}
	return lnQ - LnK(T)
}

// EquilibriumExtent solves the scalar equilibrium problem for the reaction
// extent in mol/s given the inlet flows, using bisection between the extent
// bounds imposed by non-negative flows. It is used to initialize the Gibbs
// reactor before the equation-oriented solve.
func EquilibriumExtent(inlet [model.NumSpecies]float64, T, P float64) (float64, error) {
	// Maximum forward extent before a reactant is exhausted.
	hi := math.Inf(1)
	for i, nu := range Stoich {
		if nu < 0 {
			if limit := inlet[i] / -nu; limit < hi {
				hi = limit
			}
		}
	}
	if math.IsInf(hi, 1) || hi <= 0 {
		return 0, fmt.Errorf("no reactant available for equilibrium")
	}
	// Maximum reverse extent before a product is exhausted.
	lo := math.Inf(-1)
	for i, nu := range Stoich {
		if nu > 0 {
			if limit := -inlet[i] / nu; limit > lo {
				lo = limit
			}
		}
	}
	if math.IsInf(lo, -1) {
		lo = 0
	}

	at := func(xi float64) float64 {
		var flows [model.NumSpecies]float64
		for i, n := range inlet {
			flows[i] = n + Stoich[i]*xi
		}
		// The stationarity goes to −inf as xi → lo and +inf as xi → hi,
		// so bisection brackets the sign change.
		return GibbsStationarity(flows, T, P)
	}

	const shrink = 1e-9
	a := lo + shrink*(hi-lo)
	b := hi - shrink*(hi-lo)
	fa, fb := at(a), at(b)
	if fa*fb > 0 {
		// No interior equilibrium: composition sits at the closer bound.
		if math.Abs(fa) < math.Abs(fb) {
			return a, nil
		}
		return b, nil
	}
	for i := 0; i < 200; i++ {
		m := 0.5 * (a + b)
		fm := at(m)
		if math.Abs(fm) < 1e-12 || b-a < 1e-12*(hi-lo) {
			return m, nil
		}
		if fa*fm <= 0 {
			b = m
		} else {
			a, fa = m, fm
		}
	}
	return 0.5 * (a + b), nil
}
