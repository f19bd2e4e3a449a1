package mixture

// Well-known property keys. Any string works as a key; these are the ones
// the package itself gives meaning to.
const (
	// PropMolecularWeight is the molar mass of a species in kg/mol, read by
	// [Mixture.MolarMass].
	PropMolecularWeight = "molecular_weight"
)

// Species identifies a pure component by name and carries its scalar
// properties keyed by property name (molecular weight, diffusion volume,
// critical temperature). The mixture only ever reads properties; physical
// correlations that produce them live outside this package.
//
// Name uniqueness is enforced per mixture, not globally.
type Species struct {
	Name  string
	Props map[string]float64
}

// Prop returns the named property and true, or zero and false if the
// species does not carry it.
func (s Species) Prop(key string) (float64, bool) {
	v, ok := s.Props[key]
	return v, ok
}
