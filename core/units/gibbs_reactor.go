package units

import (
	"github.com/procsim/flowsim/core/flowsheet"
	"github.com/procsim/flowsim/core/model"
	"github.com/procsim/flowsim/core/thermo"
)

// GibbsReactor computes the outlet composition of the methanol synthesis
// reaction by imposing stationarity of the total Gibbs energy with respect
// to the reaction extent at the (optionally approach-shifted) outlet
// temperature and pressure. Outlet temperature, pressure drop and the
// equilibrium temperature approach are specifications; the extent, heat
// duty and CO conversion are solved with the flowsheet.
type GibbsReactor struct {
	name   string
	Inlet  *model.Stream
	Outlet *model.Stream

	// Extent is the molar extent of CO + 2 H2 → CH3OH in mol/s.
	Extent *flowsheet.Var
	// Duty is the heat added, W; negative values are cooling.
	Duty *flowsheet.Var
	// DeltaP is the pressure drop, Pa.
	DeltaP *flowsheet.Var
	// TApproach shifts the temperature at which equilibrium is evaluated,
	// K. A positive approach models a reactor that falls short of
	// equilibrium at its operating temperature.
	TApproach *flowsheet.Var
	// Conversion is the fraction of inlet CO converted.
	Conversion *flowsheet.Var
}

// NewGibbsReactor creates the reactor between the two streams.
func NewGibbsReactor(name string, inlet, outlet *model.Stream) *GibbsReactor {
	return &GibbsReactor{
		name:       name,
		Inlet:      inlet,
		Outlet:     outlet,
		Extent:     flowsheet.NewVar(name+".extent", 1).WithScale(100),
		Duty:       flowsheet.NewVar(name+".duty", 0).WithScale(1e6),
		DeltaP:     flowsheet.NewVar(name+".deltaP", 0).WithBounds(0, 1e6).WithScale(1e4),
		TApproach:  flowsheet.NewVar(name+".T_approach", 0).WithBounds(-100, 100).WithScale(10),
		Conversion: flowsheet.NewVar(name+".conversion", 0.5).WithBounds(0, 1),
	}
}

func (r *GibbsReactor) Name() string { return r.name }

func (r *GibbsReactor) Vars() []*flowsheet.Var {
	out := append(r.Inlet.Vars(), r.Outlet.Vars()...)
	return append(out, r.Extent, r.Duty, r.DeltaP, r.TApproach, r.Conversion)
}

func (r *GibbsReactor) NumEquations() int { return model.NumSpecies + 4 }

func (r *GibbsReactor) Residuals(dst []float64) []float64 {
	inFlows := r.Inlet.Flows()
	outFlows := r.Outlet.Flows()
	xi := r.Extent.Value()
	// Component balances with the stoichiometric source term.
	for i := range model.AllSpecies {
		dst = append(dst, (inFlows[i]+thermo.Stoich[i]*xi-outFlows[i])/massScale)
	}
	// Gibbs stationarity at the approach-shifted outlet temperature.
	tEq := r.Outlet.T.Value() + r.TApproach.Value()
	dst = append(dst, thermo.GibbsStationarity(outFlows, tEq, r.Outlet.P.Value()))
	// Energy balance; the synthesis is exothermic so the duty is normally
	// negative (cooling) at a held outlet temperature.
	hIn := thermo.MixtureEnthalpy(inFlows, r.Inlet.T.Value())
	hOut := thermo.MixtureEnthalpy(outFlows, r.Outlet.T.Value())
	dst = append(dst, (hOut-hIn-r.Duty.Value())/energyScale)
	// Pressure drop.
	dst = append(dst, (r.Inlet.P.Value()-r.DeltaP.Value()-r.Outlet.P.Value())/pressureScale)
	// Conversion definition on CO.
	coIn := inFlows[model.CO]
	coOut := outFlows[model.CO]
	dst = append(dst, (r.Conversion.Value()*coIn-(coIn-coOut))/massScale)
	return dst
}

// Initialize solves the scalar equilibrium at the specified outlet state and
// propagates the resulting composition, duty and conversion.
func (r *GibbsReactor) Initialize() error {
	inFlows := r.Inlet.Flows()
	setFree(r.Outlet.T, r.Inlet.T.Value())
	setFree(r.Outlet.P, r.Inlet.P.Value()-r.DeltaP.Value())
	tEq := r.Outlet.T.Value() + r.TApproach.Value()
	xi, err := thermo.EquilibriumExtent(inFlows, tEq, r.Outlet.P.Value())
	if err != nil {
		return err
	}
	r.Extent.Set(xi)
	var outFlows [model.NumSpecies]float64
	for i, n := range inFlows {
		outFlows[i] = n + thermo.Stoich[i]*xi
		setFree(r.Outlet.Flow[i], outFlows[i])
	}
	hIn := thermo.MixtureEnthalpy(inFlows, r.Inlet.T.Value())
	hOut := thermo.MixtureEnthalpy(outFlows, r.Outlet.T.Value())
	r.Duty.Set(hOut - hIn)
	if coIn := inFlows[model.CO]; coIn > 0 {
		r.Conversion.Set(xi / coIn)
	}
	return nil
}
