package semreg

// Strictness selects how forgiving decoding is. It never affects encoding.
type Strictness int

const (
	// Strict accepts only data exact to the byte, in the shapes last known
	// to be written by the external system. The normal mode of operation.
	Strict Strictness = iota

	// Lenient turns a blind eye to select deviations, substituting neutral
	// values where possible. Useful to still get a reading when the format
	// drifted, at the price of possibly wrong results.
	Lenient
)

// LenientIf maps a flag onto a Strictness.
func LenientIf(lenient bool) Strictness {
	if lenient {
		return Lenient
	}
	return Strict
}

func (s Strictness) IsStrict() bool { return s == Strict }

func (s Strictness) IsLenient() bool { return s == Lenient }

func (s Strictness) String() string {
	if s == Lenient {
		return "lenient"
	}
	return "strict"
}
