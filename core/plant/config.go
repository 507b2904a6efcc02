package plant

import "fmt"

// FeedSpec is the full specification of a feed stream.
type FeedSpec struct {
	FlowsMolS    map[string]float64 `json:"flows_mol_s"`
	TemperatureK float64            `json:"temperature_k"`
	PressurePa   float64            `json:"pressure_pa"`
}

// MixerSpec sets the mixer pressure drop.
type MixerSpec struct {
	PressureDropPa float64 `json:"pressure_drop_pa"`
}

// CompressorSpec sets the discharge pressure and the isentropic efficiency.
type CompressorSpec struct {
	OutletPressurePa     float64 `json:"outlet_pressure_pa"`
	IsentropicEfficiency float64 `json:"isentropic_efficiency"`
}

// HeaterSpec sets the preheat temperature and the exchanger pressure drop.
type HeaterSpec struct {
	OutletTemperatureK float64 `json:"outlet_temperature_k"`
	PressureDropPa     float64 `json:"pressure_drop_pa"`
}

// ReactorSpec sets the reactor operating point.
type ReactorSpec struct {
	OutletTemperatureK   float64 `json:"outlet_temperature_k"`
	PressureDropPa       float64 `json:"pressure_drop_pa"`
	TemperatureApproachK float64 `json:"temperature_approach_k"`
}

// Config is the design specification of the synthesis loop: together these
// values pin exactly the twenty degrees of freedom of the flowsheet.
type Config struct {
	HydrogenFeed       FeedSpec       `json:"hydrogen_feed"`
	CarbonMonoxideFeed FeedSpec       `json:"carbon_monoxide_feed"`
	Mixer              MixerSpec      `json:"mixer"`
	Compressor         CompressorSpec `json:"compressor"`
	Heater             HeaterSpec     `json:"heater"`
	Reactor            ReactorSpec    `json:"reactor"`
}

// SetDefaults applies the base-case operating point of the synthesis loop.
func (c *Config) SetDefaults() {
	if c.HydrogenFeed.FlowsMolS == nil {
		c.HydrogenFeed.FlowsMolS = map[string]float64{"H2": 637.2}
	}
	if c.HydrogenFeed.TemperatureK == 0 {
		c.HydrogenFeed.TemperatureK = 293.15
	}
	if c.HydrogenFeed.PressurePa == 0 {
		c.HydrogenFeed.PressurePa = 30e5
	}
	if c.CarbonMonoxideFeed.FlowsMolS == nil {
		c.CarbonMonoxideFeed.FlowsMolS = map[string]float64{"CO": 316.8}
	}
	if c.CarbonMonoxideFeed.TemperatureK == 0 {
		c.CarbonMonoxideFeed.TemperatureK = 293.15
	}
	if c.CarbonMonoxideFeed.PressurePa == 0 {
		c.CarbonMonoxideFeed.PressurePa = 30e5
	}
	if c.Compressor.OutletPressurePa == 0 {
		c.Compressor.OutletPressurePa = 51e5
	}
	if c.Compressor.IsentropicEfficiency == 0 {
		c.Compressor.IsentropicEfficiency = 0.85
	}
	if c.Heater.OutletTemperatureK == 0 {
		c.Heater.OutletTemperatureK = 488.15
	}
	if c.Reactor.OutletTemperatureK == 0 {
		c.Reactor.OutletTemperatureK = 488.15
	}
}

// Validate checks the specification is physically meaningful.
func (c Config) Validate() error {
	for name, feed := range map[string]FeedSpec{
		"hydrogen_feed":        c.HydrogenFeed,
		"carbon_monoxide_feed": c.CarbonMonoxideFeed,
	} {
		total := 0.0
		for sp, flow := range feed.FlowsMolS {
			if flow < 0 {
				return fmt.Errorf("%s: negative flow for %s", name, sp)
			}
			total += flow
		}
		if total <= 0 {
			return fmt.Errorf("%s: total flow must be positive", name)
		}
		if feed.TemperatureK <= 0 || feed.PressurePa <= 0 {
			return fmt.Errorf("%s: temperature and pressure must be positive", name)
		}
	}
	if c.Compressor.OutletPressurePa <= 0 {
		return fmt.Errorf("compressor outlet pressure must be positive")
	}
	if eff := c.Compressor.IsentropicEfficiency; eff <= 0 || eff > 1 {
		return fmt.Errorf("compressor isentropic efficiency must be in (0,1]")
	}
	if c.Heater.OutletTemperatureK <= 0 || c.Reactor.OutletTemperatureK <= 0 {
		return fmt.Errorf("heater and reactor outlet temperatures must be positive")
	}
	if c.Mixer.PressureDropPa < 0 || c.Heater.PressureDropPa < 0 || c.Reactor.PressureDropPa < 0 {
		return fmt.Errorf("pressure drops must be non-negative")
	}
	return nil
}
