package projection

import (
	"fmt"
	"strings"
)

// Pair identifies a mapping from a client-facing representation (Source) to the
// stored entity it is backed by (Destination).
type Pair struct {
	Source      string
	Destination string
}

// String returns a readable form of the pair for error messages and logs.
func (p Pair) String() string {
	return p.Source + "->" + p.Destination
}

// PropertyMapping maps one logical name onto one or more backing attributes.
// When Reverse is set, the requested sort direction is inverted on every
// backing attribute (e.g. sorting by age ascending means sorting by date of
// birth descending).
type PropertyMapping struct {
	Name    string
	Targets []string
	Reverse bool
}

// Map declares a logical name backed by the given attributes, in order.
func Map(name string, targets ...string) PropertyMapping {
	return PropertyMapping{Name: name, Targets: targets}
}

// Reversed returns a copy of the mapping with direction inversion enabled.
func (m PropertyMapping) Reversed() PropertyMapping {
	m.Reverse = true
	return m
}

// Definition is the complete set of mappings for one pair.
type Definition struct {
	Pair     Pair
	Mappings []PropertyMapping
}

// MappingSet is the read-only view of the mappings registered for a pair.
// Lookups are case-insensitive.
type MappingSet struct {
	pair    Pair
	entries map[string]PropertyMapping
	order   []string
}

// Pair returns the pair this set was registered for.
func (s MappingSet) Pair() Pair {
	return s.pair
}

// Get returns the mapping registered under name, ignoring case.
func (s MappingSet) Get(name string) (PropertyMapping, bool) {
	m, ok := s.entries[strings.ToLower(name)]
	if !ok {
		return PropertyMapping{}, false
	}
	m.Targets = append([]string(nil), m.Targets...)
	return m, true
}

// Names returns the logical names in declaration order.
func (s MappingSet) Names() []string {
	return append([]string(nil), s.order...)
}

// Registry holds the mapping sets for every resource pair. It is populated by
// NewRegistry and never mutated afterwards, so it can be shared freely between
// goroutines.
type Registry struct {
	sets map[Pair]MappingSet
}

// NewRegistry validates and stores the given definitions. Each pair may be
// defined once; within a pair logical names must be unique (ignoring case) and
// every mapping needs at least one backing attribute.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{sets: make(map[Pair]MappingSet, len(defs))}

	for _, def := range defs {
		if _, exists := r.sets[def.Pair]; exists {
			return nil, fmt.Errorf("duplicate property mapping for %s", def.Pair)
		}

		set := MappingSet{
			pair:    def.Pair,
			entries: make(map[string]PropertyMapping, len(def.Mappings)),
			order:   make([]string, 0, len(def.Mappings)),
		}
		for _, m := range def.Mappings {
			name := strings.TrimSpace(m.Name)
			if name == "" {
				return nil, fmt.Errorf("empty logical name in property mapping for %s", def.Pair)
			}
			if len(m.Targets) == 0 {
				return nil, fmt.Errorf("property mapping %q for %s has no backing attributes", name, def.Pair)
			}
			key := strings.ToLower(name)
			if _, dup := set.entries[key]; dup {
				return nil, fmt.Errorf("duplicate logical name %q in property mapping for %s", name, def.Pair)
			}
			set.entries[key] = PropertyMapping{
				Name:    name,
				Targets: append([]string(nil), m.Targets...),
				Reverse: m.Reverse,
			}
			set.order = append(set.order, name)
		}
		r.sets[def.Pair] = set
	}

	return r, nil
}

// Lookup returns the mapping set for pair. A missing pair yields
// ErrUnregisteredMapping.
func (r *Registry) Lookup(pair Pair) (MappingSet, error) {
	set, ok := r.sets[pair]
	if !ok {
		return MappingSet{}, fmt.Errorf("%w: %s", ErrUnregisteredMapping, pair)
	}
	return set, nil
}

// Pairs lists every registered pair.
func (r *Registry) Pairs() []Pair {
	pairs := make([]Pair, 0, len(r.sets))
	for p := range r.sets {
		pairs = append(pairs, p)
	}
	return pairs
}

// IsValidField reports whether name is a registered logical name for pair.
func (r *Registry) IsValidField(pair Pair, name string) bool {
	set, err := r.Lookup(pair)
	if err != nil {
		return false
	}
	_, ok := set.Get(strings.TrimSpace(name))
	return ok
}

// ValidMappingExistsFor reports whether every clause of an orderBy expression
// resolves against the mappings of pair. A blank expression is always valid.
func (r *Registry) ValidMappingExistsFor(pair Pair, orderBy string) bool {
	_, err := r.CompileSort(pair, orderBy)
	return err == nil
}
