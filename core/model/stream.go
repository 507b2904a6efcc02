package model

import (
	"fmt"

	"github.com/procsim/flowsim/core/flowsheet"
)

// Stream is the material state travelling along an arc: component molar
// flows in mol/s, temperature in K and pressure in Pa. The same Stream is
// shared by the source and destination blocks of the arc.
type Stream struct {
	Name string
	Flow [NumSpecies]*flowsheet.Var
	T    *flowsheet.Var
	P    *flowsheet.Var
}

// NewStream creates a stream with small positive flows and ambient state so
// logarithms and divisions are safe before initialization.
func NewStream(name string) *Stream {
	s := &Stream{Name: name}
	for i, sp := range AllSpecies {
		s.Flow[i] = flowsheet.NewVar(fmt.Sprintf("%s.flow[%s]", name, sp), 1e-3).
			WithBounds(0, 1e5).WithScale(100)
	}
	s.T = flowsheet.NewVar(name+".T", 298.15).WithBounds(200, 1500).WithScale(100)
	s.P = flowsheet.NewVar(name+".P", 1e5).WithBounds(1e4, 2e7).WithScale(1e6)
	return s
}

// Vars returns the state variables of the stream.
func (s *Stream) Vars() []*flowsheet.Var {
	out := make([]*flowsheet.Var, 0, NumSpecies+2)
	for _, f := range s.Flow {
		out = append(out, f)
	}
	return append(out, s.T, s.P)
}

// Flows returns the component molar flows as plain values.
func (s *Stream) Flows() [NumSpecies]float64 {
	var out [NumSpecies]float64
	for i, f := range s.Flow {
		out[i] = f.Value()
	}
	return out
}

// TotalFlow returns the total molar flow in mol/s.
func (s *Stream) TotalFlow() float64 {
	total := 0.0
	for _, f := range s.Flow {
		total += f.Value()
	}
	return total
}

// MoleFraction returns the mole fraction of the species, zero on an empty
// stream.
func (s *Stream) MoleFraction(sp Species) float64 {
	total := s.TotalFlow()
	if total <= 0 {
		return 0
	}
	return s.Flow[sp].Value() / total
}

// Snapshot is a plain-value copy of a stream used for reports and export.
type Snapshot struct {
	Name         string             `json:"name"`
	FlowMolS     map[string]float64 `json:"flow_mol_s"`
	TotalMolS    float64            `json:"total_mol_s"`
	TemperatureK float64            `json:"temperature_k"`
	PressurePa   float64            `json:"pressure_pa"`
	MoleFraction map[string]float64 `json:"mole_fraction"`
}

// Snapshot captures the current stream state.
func (s *Stream) Snapshot() Snapshot {
	snap := Snapshot{
		Name:         s.Name,
		FlowMolS:     make(map[string]float64, NumSpecies),
		MoleFraction: make(map[string]float64, NumSpecies),
		TotalMolS:    s.TotalFlow(),
		TemperatureK: s.T.Value(),
		PressurePa:   s.P.Value(),
	}
	for _, sp := range AllSpecies {
		snap.FlowMolS[sp.String()] = s.Flow[sp].Value()
		snap.MoleFraction[sp.String()] = s.MoleFraction(sp)
	}
	return snap
}
