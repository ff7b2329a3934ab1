// Package formation holds the static catalog of pitch formations and the
// helpers that combine a formation with the current lineup state.
package formation

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Default is the formation a fresh lineup starts with.
const Default = "4-3-3"

//go:embed formations.yaml
var catalogYAML []byte

// Position is one slot of a formation.  X and Y are layout percentages.
type Position struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	X     int    `yaml:"x" json:"x"`
	Y     int    `yaml:"y" json:"y"`
}

// Formation is a named, ordered list of positions.
type Formation struct {
	Name      string     `yaml:"name" json:"name"`
	Positions []Position `yaml:"positions" json:"positions"`
}

var (
	catalog []Formation
	byName  map[string]Formation
	slotIDs map[string]bool
)

func init() {
	fs, err := parseCatalog(catalogYAML)
	if err != nil {
		panic(err)
	}
	catalog = fs
	byName = make(map[string]Formation, len(fs))
	slotIDs = make(map[string]bool)
	for _, f := range fs {
		byName[f.Name] = f
		for _, p := range f.Positions {
			slotIDs[p.ID] = true
		}
	}
}

func parseCatalog(data []byte) ([]Formation, error) {
	var fs []Formation
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("formation catalog: %w", err)
	}
	seen := make(map[string]bool, len(fs))
	for _, f := range fs {
		if f.Name == "" || len(f.Positions) == 0 {
			return nil, fmt.Errorf("formation catalog: empty formation %q", f.Name)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("formation catalog: duplicate formation %q", f.Name)
		}
		seen[f.Name] = true
	}
	return fs, nil
}

// Names lists the formation names in catalog order.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for _, f := range catalog {
		out = append(out, f.Name)
	}
	return out
}

// All returns a copy of every formation.
func All() []Formation {
	out := make([]Formation, 0, len(catalog))
	for _, f := range catalog {
		out = append(out, copyFormation(f))
	}
	return out
}

// Lookup returns the positions of the named formation in template order.
func Lookup(name string) ([]Position, bool) {
	f, ok := byName[name]
	if !ok {
		return nil, false
	}
	return copyFormation(f).Positions, true
}

// Exists reports whether name is a known formation.
func Exists(name string) bool {
	_, ok := byName[name]
	return ok
}

// IsSlot reports whether id is a slot of any formation.
func IsSlot(id string) bool { return slotIDs[id] }

func copyFormation(f Formation) Formation {
	ps := make([]Position, len(f.Positions))
	copy(ps, f.Positions)
	return Formation{Name: f.Name, Positions: ps}
}
