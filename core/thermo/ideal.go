// Package thermo carries the vapor-phase ideal-gas property correlations for
// the four species of the methanol synthesis loop. Heat capacities follow the
// Cp/R = A + B·T + C·T² + D/T² polynomial form with coefficients from
// Smith, Van Ness and Abbott, Introduction to Chemical Engineering
// Thermodynamics, 7th Ed. Formation properties are at 298.15 K, 1 bar.
package thermo

import (
	"fmt"
	"math"

	"github.com/procsim/flowsim/core/model"
)

const (
	// R is the universal gas constant in J/(mol·K).
	R = 8.314462618
	// Tref is the thermodynamic reference temperature in K.
	Tref = 298.15
	// Pref is the standard-state pressure in Pa.
	Pref = 1e5
)

type speciesData struct {
	a, b, c, d float64 // Cp/R = a + b·T + c·T² + d/T²
	hf         float64 // enthalpy of formation at Tref, J/mol
	gf         float64 // Gibbs energy of formation at Tref, J/mol
}

var props = [model.NumSpecies]speciesData{
	model.CH4:   {a: 1.702, b: 9.081e-3, c: -2.164e-6, d: 0, hf: -74520, gf: -50460},
	model.CO:    {a: 3.376, b: 0.557e-3, c: 0, d: -0.031e5, hf: -110525, gf: -137169},
	model.H2:    {a: 3.249, b: 0.422e-3, c: 0, d: 0.083e5, hf: 0, gf: 0},
	model.CH3OH: {a: 2.211, b: 12.216e-3, c: -3.450e-6, d: 0, hf: -200660, gf: -161960},
}

// Cp returns the ideal-gas molar heat capacity in J/(mol·K).
func Cp(sp model.Species, T float64) float64 {
	p := props[sp]
	return R * (p.a + p.b*T + p.c*T*T + p.d/(T*T))
}

// Enthalpy returns the molar enthalpy in J/mol relative to the elements at
// the reference state: h = hf + ∫Tref..T cp dT.
func Enthalpy(sp model.Species, T float64) float64 {
	p := props[sp]
	integral := p.a*(T-Tref) +
		p.b/2*(T*T-Tref*Tref) +
		p.c/3*(T*T*T-Tref*Tref*Tref) -
		p.d*(1/T-1/Tref)
	return p.hf + R*integral
}

// Entropy returns the molar entropy in J/(mol·K) at T and partial/total
// pressure P, on the formation-entropy basis sf = (hf − gf)/Tref. Constant
// offsets cancel in entropy balances and the basis makes reaction entropies
// exact.
func Entropy(sp model.Species, T, P float64) float64 {
	p := props[sp]
	sf := (p.hf - p.gf) / Tref
	integral := p.a*math.Log(T/Tref) +
		p.b*(T-Tref) +
		p.c/2*(T*T-Tref*Tref) -
		p.d/2*(1/(T*T)-1/(Tref*Tref))
	return sf + R*integral - R*math.Log(P/Pref)
}

// MixtureEnthalpy returns the enthalpy flow in W of an ideal-gas mixture
// with the given component molar flows at temperature T.
func MixtureEnthalpy(flows [model.NumSpecies]float64, T float64) float64 {
	h := 0.0
	for i, n := range flows {
		if n == 0 {
			continue
		}
		h += n * Enthalpy(model.Species(i), T)
	}
	return h
}

// MixtureEntropy returns the entropy flow in W/K of an ideal-gas mixture at
// T and total pressure P, including the ideal mixing term.
func MixtureEntropy(flows [model.NumSpecies]float64, T, P float64) float64 {
	total := 0.0
	for _, n := range flows {
		total += n
	}
	if total <= 0 {
		return 0
	}
	s := 0.0
	for i, n := range flows {
		if n <= 0 {
			continue
		}
		y := n / total
		s += n * (Entropy(model.Species(i), T, P) - R*math.Log(y))
	}
	return s
}

// MixtureCp returns the heat capacity flow in W/K of the mixture.
func MixtureCp(flows [model.NumSpecies]float64, T float64) float64 {
	cp := 0.0
	for i, n := range flows {
		if n == 0 {
			continue
		}
		cp += n * Cp(model.Species(i), T)
	}
	return cp
}

const (
	scalarMaxIter = 50
	scalarTolK    = 1e-9
)

// TemperatureFromEnthalpy finds T such that MixtureEnthalpy(flows, T) = H by
// Newton iteration on the scalar energy balance; cp provides the exact
// derivative so convergence is quadratic.
func TemperatureFromEnthalpy(flows [model.NumSpecies]float64, H, guess float64) (float64, error) {
	T := guess
	if T < 200 {
		T = 298.15
	}
	for i := 0; i < scalarMaxIter; i++ {
		f := MixtureEnthalpy(flows, T) - H
		df := MixtureCp(flows, T)
		if df == 0 {
			return 0, fmt.Errorf("zero heat capacity at T=%g", T)
		}
		step := f / df
		T -= step
		if T < 100 {
			T = 100
		}
		if math.Abs(step) < scalarTolK {
			return T, nil
		}
	}
	return 0, fmt.Errorf("enthalpy temperature search did not converge from %g K", guess)
}

// TemperatureFromEntropy finds T such that MixtureEntropy(flows, T, P) = S.
// The derivative of the mixture entropy with temperature is cp/T.
func TemperatureFromEntropy(flows [model.NumSpecies]float64, S, P, guess float64) (float64, error) {
	T := guess
	if T < 200 {
		T = 298.15
	}
	for i := 0; i < scalarMaxIter; i++ {
		f := MixtureEntropy(flows, T, P) - S
		df := MixtureCp(flows, T) / T
		if df == 0 {
			return 0, fmt.Errorf("zero heat capacity at T=%g", T)
		}
		step := f / df
		T -= step
		if T < 100 {
			T = 100
		}
		if math.Abs(step) < scalarTolK {
			return T, nil
		}
	}
	return 0, fmt.Errorf("entropy temperature search did not converge from %g K", guess)
}
