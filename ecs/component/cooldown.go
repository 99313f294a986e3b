package component

// Cooldown counts down in seconds. When Remaining reaches zero the component
// is removed; systems treat its absence as "ready".
type Cooldown struct {
	Remaining float64
}

var CooldownComponent = NewComponent[Cooldown]()
