// Package costing turns solved flowsheet duties into an annualized
// operating cost: fired heating on the preheater, cooling water on the
// reactor exotherm and electricity on the compressor shaft.
package costing

import "fmt"

// Config holds the utility prices and the yearly service factor.
type Config struct {
	HeatingUSDPerJ        float64 `json:"heating_usd_per_j"`
	CoolingUSDPerJ        float64 `json:"cooling_usd_per_j"`
	ElectricityUSDPerKWh  float64 `json:"electricity_usd_per_kwh"`
	OperatingHoursPerYear float64 `json:"operating_hours_per_year"`
}

// SetDefaults applies typical utility prices.
func (c *Config) SetDefaults() {
	if c.HeatingUSDPerJ == 0 {
		c.HeatingUSDPerJ = 2.2e-7
	}
	if c.CoolingUSDPerJ == 0 {
		c.CoolingUSDPerJ = 0.212e-7
	}
	if c.ElectricityUSDPerKWh == 0 {
		c.ElectricityUSDPerKWh = 0.0775
	}
	if c.OperatingHoursPerYear == 0 {
		c.OperatingHoursPerYear = 8000
	}
}

// Validate checks the prices are non-negative and the service factor sane.
func (c Config) Validate() error {
	if c.HeatingUSDPerJ < 0 || c.CoolingUSDPerJ < 0 || c.ElectricityUSDPerKWh < 0 {
		return fmt.Errorf("utility prices must be non-negative")
	}
	if c.OperatingHoursPerYear <= 0 || c.OperatingHoursPerYear > 8784 {
		return fmt.Errorf("operating hours per year must be in (0, 8784]")
	}
	return nil
}

// Report is the annualized operating cost breakdown in $/yr.
type Report struct {
	Heating     float64 `json:"heating_usd_per_yr"`
	Cooling     float64 `json:"cooling_usd_per_yr"`
	Electricity float64 `json:"electricity_usd_per_yr"`
	Total       float64 `json:"total_usd_per_yr"`
}

// Annual computes the operating cost report from the heater duty, the
// reactor duty and the compressor shaft work, all in W. Only heat added
// counts against the heating utility and only heat removed against cooling.
func Annual(cfg Config, heaterDutyW, reactorDutyW, compressorWorkW float64) Report {
	seconds := cfg.OperatingHoursPerYear * 3600

	var r Report
	if heaterDutyW > 0 {
		r.Heating = heaterDutyW * cfg.HeatingUSDPerJ * seconds
	} else {
		r.Cooling += -heaterDutyW * cfg.CoolingUSDPerJ * seconds
	}
	if reactorDutyW < 0 {
		r.Cooling += -reactorDutyW * cfg.CoolingUSDPerJ * seconds
	} else {
		r.Heating += reactorDutyW * cfg.HeatingUSDPerJ * seconds
	}
	if compressorWorkW > 0 {
		r.Electricity = compressorWorkW / 1000 * cfg.ElectricityUSDPerKWh * cfg.OperatingHoursPerYear
	}
	r.Total = r.Heating + r.Cooling + r.Electricity
	return r
}
