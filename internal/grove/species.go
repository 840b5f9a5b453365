package grove

import "fmt"

// SpeciesID indexes a species in its set. Vacant marks a tree with no species.
type SpeciesID int

const Vacant SpeciesID = -1

// Species is a named species with a display color in "#rrggbb" form.
type Species struct {
	Name  string
	Color string
}

// SpeciesSet is the fixed, ordered collection of species of one world.
type SpeciesSet []Species

// Len returns the number of species.
func (s SpeciesSet) Len() int { return len(s) }

// Name returns the species name, or "vacant".
func (s SpeciesSet) Name(id SpeciesID) string {
	if id < 0 || int(id) >= len(s) {
		return "vacant"
	}
	return s[id].Name
}

// Color returns the species color, or the empty string for vacancies.
func (s SpeciesSet) Color(id SpeciesID) string {
	if id < 0 || int(id) >= len(s) {
		return ""
	}
	return s[id].Color
}

// Lookup finds a species by name.
func (s SpeciesSet) Lookup(name string) (SpeciesID, bool) {
	for i, sp := range s {
		if sp.Name == name {
			return SpeciesID(i), true
		}
	}
	return Vacant, false
}

func (s SpeciesSet) validate() error {
	if len(s) == 0 {
		return ErrNoSpecies
	}
	seen := make(map[string]struct{}, len(s))
	for _, sp := range s {
		if _, dup := seen[sp.Name]; dup {
			return configErr("species", sp.Name, ErrDuplicateSpecies)
		}
		seen[sp.Name] = struct{}{}
	}
	return nil
}

var paletteColors = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231", "#911eb4",
	"#46f0f0", "#f032e6", "#bcf60c", "#fabebe", "#008080", "#9a6324",
}

// Palette returns n species named A, B, C... with distinct colors for the
// first twelve.
func Palette(n int) SpeciesSet {
	set := make(SpeciesSet, n)
	for i := range set {
		name := string(rune('A' + i%26))
		if i >= 26 {
			name = fmt.Sprintf("%s%d", name, i/26)
		}
		set[i] = Species{Name: name, Color: paletteColors[i%len(paletteColors)]}
	}
	return set
}
