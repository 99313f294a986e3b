package attack

import (
	"fmt"

	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"go.uber.org/zap"
)

// Manager creates attacks by kind name and clears them in bulk.
type Manager struct {
	w   *ecs.World
	reg *Registry
	log *zap.Logger
}

func NewManager(w *ecs.World, reg *Registry, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{w: w, reg: reg, log: log}
}

// Install adds the systems of every registered kind to the world, in kind
// name order.
func (m *Manager) Install(d Deps) {
	d = d.withDefaults()
	for _, k := range m.reg.Kinds() {
		for _, s := range k.Systems(d) {
			m.w.AddSystem(s)
		}
	}
}

// Create spawns an attack of the named kind.
func (m *Manager) Create(name string, s Spawn) (ecs.Entity, error) {
	k, ok := m.reg.Lookup(name)
	if !ok {
		return ecs.Nil, fmt.Errorf("attack: create %q: %w", name, ErrUnknownKind)
	}
	return k.Create(m.w, s), nil
}

// TryCreate is Create for callers that only need to know whether it worked.
// Failures are logged.
func (m *Manager) TryCreate(name string, s Spawn) (ecs.Entity, bool) {
	e, err := m.Create(name, s)
	if err != nil {
		m.log.Error("failed to create attack", zap.String("kind", name), zap.Error(err))
		return ecs.Nil, false
	}
	return e, true
}

// ClearAll destroys every live attack and everything parented to it.
func (m *Manager) ClearAll() int {
	n := 0
	m.w.Deferred(func() {
		n = ecs.DestroyWith(m.w, component.AttackTagComponent.Kind())
	})
	if n > 0 {
		m.log.Debug("cleared attacks", zap.Int("count", n))
	}
	return n
}

// World returns the world attacks are created in.
func (m *Manager) World() *ecs.World {
	return m.w
}

// Registry returns the kinds this manager can create.
func (m *Manager) Registry() *Registry {
	return m.reg
}
