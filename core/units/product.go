package units

import (
	"github.com/procsim/flowsim/core/flowsheet"
	"github.com/procsim/flowsim/core/model"
)

// Product is a terminal sink. It contributes no equations; it anchors the
// final stream for reporting.
type Product struct {
	name  string
	Inlet *model.Stream
}

// NewProduct creates a product sink reading the given stream.
func NewProduct(name string, inlet *model.Stream) *Product {
	return &Product{name: name, Inlet: inlet}
}

func (p *Product) Name() string { return p.name }

func (p *Product) Vars() []*flowsheet.Var { return p.Inlet.Vars() }

func (p *Product) NumEquations() int { return 0 }

func (p *Product) Residuals(dst []float64) []float64 { return dst }

// Report returns a plain-value snapshot of the product stream.
func (p *Product) Report() model.Snapshot { return p.Inlet.Snapshot() }
