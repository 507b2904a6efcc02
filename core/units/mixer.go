package units

import (
	"math"

	"github.com/procsim/flowsim/core/flowsheet"
	"github.com/procsim/flowsim/core/model"
	"github.com/procsim/flowsim/core/thermo"
)

// Mixer combines any number of inlet streams adiabatically. The outlet
// pressure follows the minimum-inlet-pressure rule less a fixed drop.
type Mixer struct {
	name   string
	Inlets []*model.Stream
	Outlet *model.Stream

	// DeltaP is the pressure drop below the lowest inlet pressure, Pa.
	DeltaP *flowsheet.Var
}

// NewMixer creates a mixer over the given inlets.
func NewMixer(name string, inlets []*model.Stream, outlet *model.Stream) *Mixer {
	return &Mixer{
		name:   name,
		Inlets: inlets,
		Outlet: outlet,
		DeltaP: flowsheet.NewVar(name+".deltaP", 0).WithBounds(0, 1e6).WithScale(1e4),
	}
}

func (m *Mixer) Name() string { return m.name }

func (m *Mixer) Vars() []*flowsheet.Var {
	var out []*flowsheet.Var
	for _, in := range m.Inlets {
		out = append(out, in.Vars()...)
	}
	out = append(out, m.Outlet.Vars()...)
	return append(out, m.DeltaP)
}

func (m *Mixer) NumEquations() int { return model.NumSpecies + 2 }

func (m *Mixer) Residuals(dst []float64) []float64 {
	// Component balances.
	for i := range model.AllSpecies {
		sum := 0.0
		for _, in := range m.Inlets {
			sum += in.Flow[i].Value()
		}
		dst = append(dst, (sum-m.Outlet.Flow[i].Value())/massScale)
	}
	// Energy balance.
	hin := 0.0
	for _, in := range m.Inlets {
		hin += thermo.MixtureEnthalpy(in.Flows(), in.T.Value())
	}
	hout := thermo.MixtureEnthalpy(m.Outlet.Flows(), m.Outlet.T.Value())
	dst = append(dst, (hin-hout)/energyScale)
	// Minimum-pressure rule.
	dst = append(dst, (m.minInletPressure()-m.DeltaP.Value()-m.Outlet.P.Value())/pressureScale)
	return dst
}

func (m *Mixer) minInletPressure() float64 {
	min := math.Inf(1)
	for _, in := range m.Inlets {
		if p := in.P.Value(); p < min {
			min = p
		}
	}
	return min
}

// Initialize propagates the summed flows and an enthalpy-matched outlet
// temperature from the inlets.
func (m *Mixer) Initialize() error {
	var flows [model.NumSpecies]float64
	hin := 0.0
	for _, in := range m.Inlets {
		for i, f := range in.Flow {
			flows[i] += f.Value()
		}
		hin += thermo.MixtureEnthalpy(in.Flows(), in.T.Value())
	}
	for i, n := range flows {
		setFree(m.Outlet.Flow[i], n)
	}
	T, err := thermo.TemperatureFromEnthalpy(flows, hin, m.Inlets[0].T.Value())
	if err != nil {
		return err
	}
	setFree(m.Outlet.T, T)
	setFree(m.Outlet.P, m.minInletPressure()-m.DeltaP.Value())
	return nil
}
