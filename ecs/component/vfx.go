package component

// StaticVfx is an effect played at the entity's Transform.
type StaticVfx struct {
	Path string
}

// ActorVfx is an effect attached to an actor. A zero ActorID targets the
// nearest FakeActor at or above the entity, then the nearest Player ancestor.
type ActorVfx struct {
	Path    string
	ActorID uint64
}

var StaticVfxComponent = NewComponent[StaticVfx]()
var ActorVfxComponent = NewComponent[ActorVfx]()
