package model

import (
	"math"
	"testing"
)

func TestParseSpecies(t *testing.T) {
	for _, sp := range AllSpecies {
		got, ok := ParseSpecies(sp.String())
		if !ok || got != sp {
			t.Errorf("ParseSpecies(%s) = %v, %v", sp, got, ok)
		}
	}
	if got, ok := ParseSpecies("MeOH"); !ok || got != CH3OH {
		t.Errorf("ParseSpecies(MeOH) = %v, %v", got, ok)
	}
	if _, ok := ParseSpecies("N2"); ok {
		t.Error("ParseSpecies accepted an untracked species")
	}
}

func TestStreamTotalsAndFractions(t *testing.T) {
	s := NewStream("s")
	s.Flow[CO].Set(30)
	s.Flow[H2].Set(60)
	s.Flow[CH4].Set(0)
	s.Flow[CH3OH].Set(10)

	if got := s.TotalFlow(); math.Abs(got-100) > 1e-12 {
		t.Fatalf("TotalFlow = %g, want 100", got)
	}
	if got := s.MoleFraction(H2); math.Abs(got-0.6) > 1e-12 {
		t.Fatalf("MoleFraction(H2) = %g, want 0.6", got)
	}
}

func TestStreamSnapshot(t *testing.T) {
	s := NewStream("feed")
	s.Flow[CO].Set(100)
	s.Flow[H2].Set(0)
	s.Flow[CH4].Set(0)
	s.Flow[CH3OH].Set(0)
	s.T.Set(320)
	s.P.Set(5e5)

	snap := s.Snapshot()
	if snap.Name != "feed" || snap.TemperatureK != 320 || snap.PressurePa != 5e5 {
		t.Fatalf("snapshot header = %+v", snap)
	}
	if snap.FlowMolS["CO"] != 100 || snap.MoleFraction["CO"] != 1 {
		t.Fatalf("snapshot CO = %g, fraction %g", snap.FlowMolS["CO"], snap.MoleFraction["CO"])
	}
}

func TestEmptyStreamFractionIsZero(t *testing.T) {
	s := NewStream("empty")
	for _, f := range s.Flow {
		f.Set(0)
	}
	if got := s.MoleFraction(CO); got != 0 {
		t.Fatalf("MoleFraction on empty stream = %g", got)
	}
}
