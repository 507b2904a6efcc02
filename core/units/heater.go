package units

import (
	"github.com/procsim/flowsim/core/flowsheet"
	"github.com/procsim/flowsim/core/model"
	"github.com/procsim/flowsim/core/thermo"
)

// Heater brings the stream to a specified outlet temperature. The duty is
// an internal variable (positive when heat is added) and the pressure drop
// is a specification.
type Heater struct {
	name   string
	Inlet  *model.Stream
	Outlet *model.Stream

	// Duty is the heat added to the stream, W.
	Duty *flowsheet.Var
	// DeltaP is the pressure drop across the exchanger, Pa.
	DeltaP *flowsheet.Var
}

// NewHeater creates a heater between the two streams.
func NewHeater(name string, inlet, outlet *model.Stream) *Heater {
	return &Heater{
		name:   name,
		Inlet:  inlet,
		Outlet: outlet,
		Duty:   flowsheet.NewVar(name+".duty", 0).WithScale(1e6),
		DeltaP: flowsheet.NewVar(name+".deltaP", 0).WithBounds(0, 1e6).WithScale(1e4),
	}
}

func (h *Heater) Name() string { return h.name }

func (h *Heater) Vars() []*flowsheet.Var {
	out := append(h.Inlet.Vars(), h.Outlet.Vars()...)
	return append(out, h.Duty, h.DeltaP)
}

func (h *Heater) NumEquations() int { return model.NumSpecies + 2 }

func (h *Heater) Residuals(dst []float64) []float64 {
	inFlows := h.Inlet.Flows()
	for i := range model.AllSpecies {
		dst = append(dst, (inFlows[i]-h.Outlet.Flow[i].Value())/massScale)
	}
	hIn := thermo.MixtureEnthalpy(inFlows, h.Inlet.T.Value())
	hOut := thermo.MixtureEnthalpy(h.Outlet.Flows(), h.Outlet.T.Value())
	dst = append(dst, (hOut-hIn-h.Duty.Value())/energyScale)
	dst = append(dst, (h.Inlet.P.Value()-h.DeltaP.Value()-h.Outlet.P.Value())/pressureScale)
	return dst
}

// Initialize propagates flows and computes the duty for the currently set
// outlet temperature.
func (h *Heater) Initialize() error {
	flows := h.Inlet.Flows()
	for i, n := range flows {
		setFree(h.Outlet.Flow[i], n)
	}
	setFree(h.Outlet.T, h.Inlet.T.Value())
	hIn := thermo.MixtureEnthalpy(flows, h.Inlet.T.Value())
	hOut := thermo.MixtureEnthalpy(flows, h.Outlet.T.Value())
	h.Duty.Set(hOut - hIn)
	setFree(h.Outlet.P, h.Inlet.P.Value()-h.DeltaP.Value())
	return nil
}
