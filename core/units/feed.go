package units

import (
	"github.com/procsim/flowsim/core/flowsheet"
	"github.com/procsim/flowsim/core/model"
)

// Feed is a source block. It owns the outlet stream state and contributes
// no equations: its six variables (four component flows, temperature,
// pressure) are the feed specification and are fixed for a square model.
type Feed struct {
	name   string
	Outlet *model.Stream
}

// NewFeed creates a feed writing to the given outlet stream.
func NewFeed(name string, outlet *model.Stream) *Feed {
	return &Feed{name: name, Outlet: outlet}
}

func (f *Feed) Name() string { return f.name }

func (f *Feed) Vars() []*flowsheet.Var { return f.Outlet.Vars() }

func (f *Feed) NumEquations() int { return 0 }

func (f *Feed) Residuals(dst []float64) []float64 { return dst }

// FixOutlet applies and pins the full feed specification.
func (f *Feed) FixOutlet(flows [model.NumSpecies]float64, tempK, presPa float64) {
	for i, n := range flows {
		f.Outlet.Flow[i].FixAt(n)
	}
	f.Outlet.T.FixAt(tempK)
	f.Outlet.P.FixAt(presPa)
}
