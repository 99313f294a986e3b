package encounter

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrDuplicateTerritory = errors.New("encounter: duplicate territory")
	ErrInvalidDescriptor  = errors.New("encounter: invalid descriptor")
)

// Registry maps territory ids to encounter descriptors.
type Registry struct {
	byTerritory map[uint16]Descriptor
}

func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{byTerritory: make(map[uint16]Descriptor, len(descs))}
	for _, d := range descs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("encounter: register territory %d: %w: no name", d.Territory, ErrInvalidDescriptor)
	}
	if prev, ok := r.byTerritory[d.Territory]; ok {
		return fmt.Errorf("encounter: register %s: %w: %d is %s", d.Name, ErrDuplicateTerritory, d.Territory, prev.Name)
	}
	r.byTerritory[d.Territory] = d
	return nil
}

func (r *Registry) Lookup(territory uint16) (Descriptor, bool) {
	d, ok := r.byTerritory[territory]
	return d, ok
}

// Territories returns every registered territory in ascending order.
func (r *Registry) Territories() []uint16 {
	out := make([]uint16, 0, len(r.byTerritory))
	for id := range r.byTerritory {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Descriptors returns the registered descriptors ordered by territory.
func (r *Registry) Descriptors() []Descriptor {
	ids := r.Territories()
	out := make([]Descriptor, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byTerritory[id])
	}
	return out
}
