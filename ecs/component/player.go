package component

// Player mirrors a party member. Conditions are children of this entity.
type Player struct {
	ActorID  uint64
	Alive    bool
	Statuses []uint32
}

// HasStatus reports whether the player holds any of ids.
func (p Player) HasStatus(ids ...uint32) bool {
	for _, have := range p.Statuses {
		for _, want := range ids {
			if have == want {
				return true
			}
		}
	}
	return false
}

var PlayerComponent = NewComponent[Player]()
