package units

import (
	"github.com/procsim/flowsim/core/flowsheet"
	"github.com/procsim/flowsim/core/model"
	"github.com/procsim/flowsim/core/thermo"
)

// Compressor is a single-stage adiabatic compressor with an isentropic
// efficiency. The outlet pressure and the efficiency are its two
// specifications; the isentropic outlet temperature, the ideal and actual
// work are internal variables solved with the flowsheet.
type Compressor struct {
	name   string
	Inlet  *model.Stream
	Outlet *model.Stream

	// TIsentropic is the outlet temperature of the reversible path, K.
	TIsentropic *flowsheet.Var
	// WorkIsentropic and Work are shaft powers in W.
	WorkIsentropic *flowsheet.Var
	Work           *flowsheet.Var
	// Efficiency is the isentropic efficiency in (0,1].
	Efficiency *flowsheet.Var
}

// NewCompressor creates a compressor between the two streams.
func NewCompressor(name string, inlet, outlet *model.Stream) *Compressor {
	return &Compressor{
		name:           name,
		Inlet:          inlet,
		Outlet:         outlet,
		TIsentropic:    flowsheet.NewVar(name+".T_isentropic", 350).WithBounds(200, 1500).WithScale(100),
		WorkIsentropic: flowsheet.NewVar(name+".work_isentropic", 1e6).WithScale(1e6),
		Work:           flowsheet.NewVar(name+".work", 1e6).WithScale(1e6),
		Efficiency:     flowsheet.NewVar(name+".efficiency", 0.75).WithBounds(0.01, 1),
	}
}

func (c *Compressor) Name() string { return c.name }

func (c *Compressor) Vars() []*flowsheet.Var {
	out := append(c.Inlet.Vars(), c.Outlet.Vars()...)
	return append(out, c.TIsentropic, c.WorkIsentropic, c.Work, c.Efficiency)
}

func (c *Compressor) NumEquations() int { return model.NumSpecies + 4 }

func (c *Compressor) Residuals(dst []float64) []float64 {
	inFlows := c.Inlet.Flows()
	// Component balances.
	for i := range model.AllSpecies {
		dst = append(dst, (inFlows[i]-c.Outlet.Flow[i].Value())/massScale)
	}
	// Reversible path: outlet entropy at TIsentropic equals inlet entropy.
	sIn := thermo.MixtureEntropy(inFlows, c.Inlet.T.Value(), c.Inlet.P.Value())
	sIsen := thermo.MixtureEntropy(inFlows, c.TIsentropic.Value(), c.Outlet.P.Value())
	dst = append(dst, (sIsen-sIn)/entropyScale)
	// Isentropic work definition.
	hIn := thermo.MixtureEnthalpy(inFlows, c.Inlet.T.Value())
	hIsen := thermo.MixtureEnthalpy(inFlows, c.TIsentropic.Value())
	dst = append(dst, (c.WorkIsentropic.Value()-(hIsen-hIn))/energyScale)
	// Efficiency relation: W·η = W_isentropic.
	dst = append(dst, (c.Work.Value()*c.Efficiency.Value()-c.WorkIsentropic.Value())/energyScale)
	// Energy balance over the actual path.
	hOut := thermo.MixtureEnthalpy(c.Outlet.Flows(), c.Outlet.T.Value())
	dst = append(dst, (hOut-hIn-c.Work.Value())/energyScale)
	return dst
}

// Initialize estimates the isentropic outlet state from the inlet and the
// currently set outlet pressure and efficiency.
func (c *Compressor) Initialize() error {
	flows := c.Inlet.Flows()
	for i, n := range flows {
		setFree(c.Outlet.Flow[i], n)
	}
	sIn := thermo.MixtureEntropy(flows, c.Inlet.T.Value(), c.Inlet.P.Value())
	tIsen, err := thermo.TemperatureFromEntropy(flows, sIn, c.Outlet.P.Value(), c.Inlet.T.Value()*1.2)
	if err != nil {
		return err
	}
	c.TIsentropic.Set(tIsen)
	hIn := thermo.MixtureEnthalpy(flows, c.Inlet.T.Value())
	wIsen := thermo.MixtureEnthalpy(flows, tIsen) - hIn
	c.WorkIsentropic.Set(wIsen)
	w := wIsen / c.Efficiency.Value()
	c.Work.Set(w)
	tOut, err := thermo.TemperatureFromEnthalpy(flows, hIn+w, tIsen)
	if err != nil {
		return err
	}
	setFree(c.Outlet.T, tOut)
	return nil
}
