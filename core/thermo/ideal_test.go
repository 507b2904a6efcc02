package thermo

import (
	"math"
	"testing"

	"github.com/procsim/flowsim/core/model"
)

func TestEnthalpyAtReferenceIsFormation(t *testing.T) {
	want := map[model.Species]float64{
		model.CH4:   -74520,
		model.CO:    -110525,
		model.H2:    0,
		model.CH3OH: -200660,
	}
	for sp, hf := range want {
		if got := Enthalpy(sp, Tref); math.Abs(got-hf) > 1e-6 {
			t.Errorf("Enthalpy(%s, Tref) = %g, want %g", sp, got, hf)
		}
	}
}

func TestCpHydrogenNearTabulated(t *testing.T) {
	// Hydrogen cp at ambient is about 28.8 J/(mol K).
	got := Cp(model.H2, 298.15)
	if math.Abs(got-28.8) > 0.5 {
		t.Fatalf("Cp(H2, 298.15) = %g, want about 28.8", got)
	}
}

func TestEnthalpyMonotonicInTemperature(t *testing.T) {
	for _, sp := range model.AllSpecies {
		if Enthalpy(sp, 600) <= Enthalpy(sp, 300) {
			t.Errorf("Enthalpy(%s) not increasing with T", sp)
		}
	}
}

func TestEntropyPressureDependence(t *testing.T) {
	s1 := Entropy(model.CO, 450, 1e5)
	s2 := Entropy(model.CO, 450, 2e5)
	if got, want := s1-s2, R*math.Log(2); math.Abs(got-want) > 1e-9 {
		t.Fatalf("entropy pressure term = %g, want %g", got, want)
	}
}

func TestTemperatureFromEnthalpyRoundTrip(t *testing.T) {
	flows := [model.NumSpecies]float64{model.CO: 100, model.H2: 200, model.CH3OH: 5}
	const T = 523.4
	H := MixtureEnthalpy(flows, T)
	got, err := TemperatureFromEnthalpy(flows, H, 300)
	if err != nil {
		t.Fatalf("TemperatureFromEnthalpy: %v", err)
	}
	if math.Abs(got-T) > 1e-6 {
		t.Fatalf("recovered T = %g, want %g", got, T)
	}
}

func TestTemperatureFromEntropyRoundTrip(t *testing.T) {
	flows := [model.NumSpecies]float64{model.CO: 317, model.H2: 637}
	const T, P = 410.0, 51e5
	S := MixtureEntropy(flows, T, P)
	got, err := TemperatureFromEntropy(flows, S, P, 300)
	if err != nil {
		t.Fatalf("TemperatureFromEntropy: %v", err)
	}
	if math.Abs(got-T) > 1e-6 {
		t.Fatalf("recovered T = %g, want %g", got, T)
	}
}

func TestMixtureEnthalpyAdditive(t *testing.T) {
	a := [model.NumSpecies]float64{model.CO: 50}
	b := [model.NumSpecies]float64{model.H2: 80}
	sum := [model.NumSpecies]float64{model.CO: 50, model.H2: 80}
	const T = 400.0
	got := MixtureEnthalpy(a, T) + MixtureEnthalpy(b, T)
	if want := MixtureEnthalpy(sum, T); math.Abs(got-want) > 1e-6 {
		t.Fatalf("mixture enthalpy not additive: %g vs %g", got, want)
	}
}
