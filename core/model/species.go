package model

// Species identifies a chemical component tracked in every stream.
type Species int

const (
	CH4 Species = iota
	CO
	H2
	CH3OH
)

// NumSpecies is the size of component-indexed arrays.
const NumSpecies = 4

// AllSpecies lists the components in stream order.
var AllSpecies = [NumSpecies]Species{CH4, CO, H2, CH3OH}

// String returns the conventional formula for the species.
func (s Species) String() string {
	switch s {
	case CH4:
		return "CH4"
	case CO:
		return "CO"
	case H2:
		return "H2"
	case CH3OH:
		return "CH3OH"
	default:
		return "unknown"
	}
}

// ParseSpecies resolves a formula string to a Species.
func ParseSpecies(name string) (Species, bool) {
	switch name {
	case "CH4":
		return CH4, true
	case "CO":
		return CO, true
	case "H2":
		return H2, true
	case "CH3OH", "MeOH":
		return CH3OH, true
	default:
		return 0, false
	}
}
