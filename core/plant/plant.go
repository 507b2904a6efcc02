// Package plant assembles the methanol synthesis flowsheet: hydrogen and
// carbon monoxide feeds into a mixer, a single-stage compressor, a feed
// preheater, a Gibbs-equilibrium reactor and a product sink. The unfixed
// flowsheet has twenty degrees of freedom; ApplySpecs pins all twenty for a
// square simulation.
package plant

import (
	"fmt"

	"github.com/procsim/flowsim/core/costing"
	"github.com/procsim/flowsim/core/flowsheet"
	"github.com/procsim/flowsim/core/model"
	"github.com/procsim/flowsim/core/units"
)

// Plant is the assembled synthesis loop.
type Plant struct {
	Flowsheet *flowsheet.Flowsheet

	H2Feed     *units.Feed
	COFeed     *units.Feed
	Mixer      *units.Mixer
	Compressor *units.Compressor
	Heater     *units.Heater
	Reactor    *units.GibbsReactor
	Product    *units.Product

	streams []*model.Stream
}

// Build wires the flowsheet graph. No variable is fixed yet.
func Build() *Plant {
	h2 := model.NewStream("h2_feed")
	co := model.NewStream("co_feed")
	mixed := model.NewStream("mixed")
	compressed := model.NewStream("compressed")
	heated := model.NewStream("heated")
	product := model.NewStream("product")

	p := &Plant{
		Flowsheet:  flowsheet.New("methanol_synthesis"),
		H2Feed:     units.NewFeed("F101", h2),
		COFeed:     units.NewFeed("F102", co),
		Mixer:      units.NewMixer("M101", []*model.Stream{h2, co}, mixed),
		Compressor: units.NewCompressor("C101", mixed, compressed),
		Heater:     units.NewHeater("H101", compressed, heated),
		Reactor:    units.NewGibbsReactor("R101", heated, product),
		streams:    []*model.Stream{h2, co, mixed, compressed, heated, product},
	}
	p.Product = units.NewProduct("P101", product)

	fs := p.Flowsheet
	fs.Add(p.H2Feed, p.COFeed, p.Mixer, p.Compressor, p.Heater, p.Reactor, p.Product)
	fs.Connect(p.H2Feed, p.Mixer, h2.Name)
	fs.Connect(p.COFeed, p.Mixer, co.Name)
	fs.Connect(p.Mixer, p.Compressor, mixed.Name)
	fs.Connect(p.Compressor, p.Heater, compressed.Name)
	fs.Connect(p.Heater, p.Reactor, heated.Name)
	fs.Connect(p.Reactor, p.Product, product.Name)
	return p
}

// ApplySpecs fixes the twenty design variables from the configuration,
// leaving a square model.
func (p *Plant) ApplySpecs(cfg Config) error {
	h2Flows, err := parseFlows(cfg.HydrogenFeed.FlowsMolS)
	if err != nil {
		return fmt.Errorf("hydrogen feed: %w", err)
	}
	coFlows, err := parseFlows(cfg.CarbonMonoxideFeed.FlowsMolS)
	if err != nil {
		return fmt.Errorf("carbon monoxide feed: %w", err)
	}
	p.H2Feed.FixOutlet(h2Flows, cfg.HydrogenFeed.TemperatureK, cfg.HydrogenFeed.PressurePa)
	p.COFeed.FixOutlet(coFlows, cfg.CarbonMonoxideFeed.TemperatureK, cfg.CarbonMonoxideFeed.PressurePa)
	p.Mixer.DeltaP.FixAt(cfg.Mixer.PressureDropPa)
	p.Compressor.Outlet.P.FixAt(cfg.Compressor.OutletPressurePa)
	p.Compressor.Efficiency.FixAt(cfg.Compressor.IsentropicEfficiency)
	p.Heater.Outlet.T.FixAt(cfg.Heater.OutletTemperatureK)
	p.Heater.DeltaP.FixAt(cfg.Heater.PressureDropPa)
	p.Reactor.Outlet.T.FixAt(cfg.Reactor.OutletTemperatureK)
	p.Reactor.DeltaP.FixAt(cfg.Reactor.PressureDropPa)
	p.Reactor.TApproach.FixAt(cfg.Reactor.TemperatureApproachK)
	return nil
}

func parseFlows(flows map[string]float64) ([model.NumSpecies]float64, error) {
	var out [model.NumSpecies]float64
	for name, flow := range flows {
		sp, ok := model.ParseSpecies(name)
		if !ok {
			return out, fmt.Errorf("unknown species %q", name)
		}
		out[sp] = flow
	}
	return out, nil
}

// Conversion returns the solved CO conversion of the reactor.
func (p *Plant) Conversion() float64 {
	return p.Reactor.Conversion.Value()
}

// OperatingCost evaluates the annualized operating cost at the current
// variable values.
func (p *Plant) OperatingCost(cfg costing.Config) costing.Report {
	return costing.Annual(cfg,
		p.Heater.Duty.Value(),
		p.Reactor.Duty.Value(),
		p.Compressor.Work.Value(),
	)
}

// Snapshots returns plain-value copies of all streams in flow order.
func (p *Plant) Snapshots() []model.Snapshot {
	out := make([]model.Snapshot, 0, len(p.streams))
	for _, s := range p.streams {
		out = append(out, s.Snapshot())
	}
	return out
}
