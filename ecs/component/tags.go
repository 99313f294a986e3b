package component

// AttackTag marks the root entity of a spawned attack.
type AttackTag struct{}

var AttackTagComponent = NewComponent[AttackTag]()

// OmenTag marks a telegraph entity.
type OmenTag struct{}

var OmenTagComponent = NewComponent[OmenTag]()

// LocalPlayerTag marks the player entity mirrored from the host avatar.
type LocalPlayerTag struct{}

var LocalPlayerTagComponent = NewComponent[LocalPlayerTag]()

// HiddenTag keeps a condition out of status listings.
type HiddenTag struct{}

var HiddenTagComponent = NewComponent[HiddenTag]()
