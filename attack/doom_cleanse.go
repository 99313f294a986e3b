package attack

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/ecs/system"
)

const (
	doomCleanseVfx      = "bgcommon/world/common/vfx_for_btl/b3566/eff/b3566_rset_y1.avfx"
	doomCleanseLifetime = 4.0
)

// DoomCleanse marks a cleansing pad that lasts four seconds or until the
// game object it stands for is taken.
type DoomCleanse struct {
	ObjectID uint64
}

var DoomCleanseComponent = component.NewComponent[DoomCleanse]()

type DoomCleanseKind struct{}

func (DoomCleanseKind) Name() string { return KindDoomCleanse }

func (DoomCleanseKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(2))
	_ = ecs.Add(w, e, component.StaticVfxComponent.Kind(), &component.StaticVfx{Path: doomCleanseVfx})
	_ = ecs.Add(w, e, DoomCleanseComponent.Kind(), &DoomCleanse{})
	system.ScheduleAction(w, doomCleanseLifetime, func() { ecs.DestroyEntity(w, e) }, e)
	return e
}

func (DoomCleanseKind) Systems(Deps) []ecs.System { return nil }

// ConsumeDoomCleanse removes the pads linked to objectID and returns how
// many were removed.
func ConsumeDoomCleanse(w *ecs.World, objectID uint64) int {
	n := 0
	if objectID == 0 {
		return n
	}
	ecs.ForEach(w, DoomCleanseComponent.Kind(), func(e ecs.Entity, d *DoomCleanse) {
		if d.ObjectID == objectID && ecs.DestroyEntity(w, e) {
			n++
		}
	})
	return n
}
