package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Place is a named location with trusted coordinates.
type Place struct {
	Name        string
	Coordinates Coordinates
}

// Whitelist is a read-only mapping of known place names to trusted
// coordinates. It is built once at startup and never mutated afterwards, so
// it can be shared by concurrent requests without locking.
type Whitelist struct {
	places map[string]Coordinates
	names  []string
}

// NewWhitelist copies places into an immutable whitelist. Names are trimmed;
// blank names, duplicates and out-of-range coordinates are rejected.
func NewWhitelist(places []Place) (Whitelist, error) {
	m := make(map[string]Coordinates, len(places))
	names := make([]string, 0, len(places))
	for _, p := range places {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return Whitelist{}, fmt.Errorf("new whitelist: empty place name")
		}
		if _, ok := m[name]; ok {
			return Whitelist{}, fmt.Errorf("new whitelist: duplicate place %q", name)
		}
		if !p.Coordinates.Valid() {
			return Whitelist{}, fmt.Errorf("new whitelist: invalid coordinates for %q", name)
		}
		m[name] = p.Coordinates
		names = append(names, name)
	}
	sort.Strings(names)

	return Whitelist{places: m, names: names}, nil
}

// Lookup returns the trusted coordinates for an exact place name.
func (w Whitelist) Lookup(name string) (Coordinates, bool) {
	c, ok := w.places[name]
	return c, ok
}

// Names returns the known place names in sorted order.
func (w Whitelist) Names() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

func (w Whitelist) Len() int { return len(w.names) }
